package server

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	jwtware "github.com/gofiber/contrib/jwt"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/oarkflow/textrank/server/pkg/config"
	"github.com/oarkflow/textrank/server/pkg/metrics"
)

// WithJWT accepts HS256 bearer tokens signed with secret and exposes the subject and
// raw token as the ctx_userid and ctx_token locals.
func WithJWT(secret []byte) fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey: jwtware.SigningKey{Key: secret},
		SuccessHandler: func(c *fiber.Ctx) error {
			if tok, ok := c.Locals("user").(*jwt.Token); ok {
				if sub, err := tok.Claims.GetSubject(); err == nil {
					c.Locals("ctx_userid", sub)
				}
			}
			auth := c.Get(fiber.HeaderAuthorization)
			if strings.HasPrefix(auth, "Bearer ") {
				c.Locals("ctx_token", auth[7:])
			}
			return c.Next()
		},
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid or missing bearer token")
		},
	})
}

// RequestLogger logs one line per request through zap and counts it by route and status.
func RequestLogger(log *zap.Logger, m *metrics.Metrics) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		if err := c.Next(); err != nil {
			// render now so the logged status is the one the client sees
			if herr := c.App().ErrorHandler(c, err); herr != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}
		status := c.Response().StatusCode()
		fields := []zap.Field{
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Int("status", status),
			zap.Duration("latency", time.Since(start)),
			zap.String("ip", c.IP()),
		}
		if id, ok := c.Locals("requestid").(string); ok {
			fields = append(fields, zap.String("request_id", id))
		}
		switch {
		case status >= fiber.StatusInternalServerError:
			log.Error("request", fields...)
		case status >= fiber.StatusBadRequest:
			log.Warn("request", fields...)
		default:
			log.Info("request", fields...)
		}
		if m != nil {
			m.ObserveRequest(c.Route().Path, strconv.Itoa(status))
		}
		return nil
	}
}

func buildMiddleware(cfg *config.Config, log *zap.Logger, m *metrics.Metrics) (map[string]fiber.Handler, error) {
	mw := make(map[string]fiber.Handler, len(cfg.Middleware))
	for _, def := range cfg.Middleware {
		switch def.Type {
		case config.MiddlewareLogger:
			mw[def.Name] = RequestLogger(log, m)
		case config.MiddlewareJWT:
			mw[def.Name] = WithJWT([]byte(def.Secret))
		case config.MiddlewareCORS:
			mw[def.Name] = cors.New(cors.Config{AllowOrigins: def.AllowOrigins})
		case config.MiddlewareRateLimit:
			max, exp := def.Max, time.Duration(def.ExpirationSeconds)*time.Second
			if max <= 0 {
				max = 60
			}
			if exp <= 0 {
				exp = time.Minute
			}
			mw[def.Name] = limiter.New(limiter.Config{
				Max:        max,
				Expiration: exp,
				LimitReached: func(c *fiber.Ctx) error {
					return fiber.NewError(fiber.StatusTooManyRequests, "rate limit exceeded")
				},
			})
		case config.MiddlewareCompress:
			mw[def.Name] = compress.New()
		case config.MiddlewareRecover:
			mw[def.Name] = recover.New(recover.Config{EnableStackTrace: true})
		case config.MiddlewareRequestID:
			mw[def.Name] = requestid.New(requestid.Config{
				Header:    def.HeaderName,
				Generator: uuid.NewString,
			})
		default:
			return nil, fmt.Errorf("unsupported middleware: %s", def.Type)
		}
	}
	return mw, nil
}

func lookupMiddleware(mw map[string]fiber.Handler, names []string) ([]fiber.Handler, error) {
	out := make([]fiber.Handler, 0, len(names))
	for _, name := range names {
		h, ok := mw[name]
		if !ok {
			return nil, fmt.Errorf("middleware %s not found", name)
		}
		out = append(out, h)
	}
	return out, nil
}
