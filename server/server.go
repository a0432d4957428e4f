// Package server exposes summarization over HTTP with fiber.
package server

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/oarkflow/json"
	"go.uber.org/zap"

	"github.com/oarkflow/textrank/loader"
	"github.com/oarkflow/textrank/nlp/pipeline"
	"github.com/oarkflow/textrank/nlp/summarization"
	"github.com/oarkflow/textrank/server/pkg/config"
	"github.com/oarkflow/textrank/server/pkg/handlers"
	"github.com/oarkflow/textrank/server/pkg/metrics"
	"github.com/oarkflow/textrank/store"
	"github.com/oarkflow/textrank/translate"
)

const apiPrefix = "/api/v1"

type Server struct {
	cfg     *config.Config
	app     *fiber.App
	log     *zap.Logger
	metrics *metrics.Metrics
	closers []func() error
}

// Open builds every collaborator named by cfg (store, translator, loader, analyzer)
// and returns a ready server. Close releases them.
func Open(cfg *config.Config, log *zap.Logger) (*Server, error) {
	if log == nil {
		log = zap.NewNop()
	}
	deps := handlers.Deps{
		Analyzer: pipeline.New(summarization.New(cfg.Summarization, log.Named("summarizer"))),
		Loader:   loader.New(cfg.Loader, log.Named("loader")),
		Metrics:  metrics.New(),
		Log:      log,
	}

	tr, err := translate.New(cfg.Translate, log.Named("translate"))
	switch {
	case errors.Is(err, translate.ErrDisabled):
		log.Info("translation disabled, no api key configured")
	case err != nil:
		return nil, err
	default:
		deps.Translator = tr
	}

	st, err := store.Open(cfg.Store)
	if err != nil {
		return nil, err
	}
	deps.Store = st

	s, err := New(cfg, deps)
	if err != nil {
		_ = st.Close()
		return nil, err
	}
	s.closers = append(s.closers, st.Close)
	return s, nil
}

// New wires routes and middleware around already-built collaborators.
func New(cfg *config.Config, deps handlers.Deps) (*Server, error) {
	if deps.Log == nil {
		deps.Log = zap.NewNop()
	}
	if deps.Metrics == nil {
		deps.Metrics = metrics.New()
	}
	s := &Server{cfg: cfg, log: deps.Log, metrics: deps.Metrics}

	s.app = fiber.New(fiber.Config{
		AppName:               cfg.Server.Name,
		ReadTimeout:           time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout:          time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:           time.Duration(cfg.Server.IdleTimeout) * time.Second,
		BodyLimit:             cfg.Server.BodyLimit,
		JSONEncoder:           json.Marshal,
		JSONDecoder:           func(data []byte, v any) error { return json.Unmarshal(data, v) },
		ErrorHandler:          handlers.ErrorHandler,
		DisableStartupMessage: true,
	})

	mw, err := buildMiddleware(cfg, s.log, s.metrics)
	if err != nil {
		return nil, err
	}
	global, err := lookupMiddleware(mw, cfg.GlobalMiddleware)
	if err != nil {
		return nil, fmt.Errorf("global %w", err)
	}
	for _, h := range global {
		s.app.Use(h)
	}

	h := handlers.New(deps, handlers.Options{
		MinInputLength: cfg.Server.MinInputLength,
		TopN:           cfg.Keywords.TopN,
		Phrases:        cfg.Keywords.Phrases,
	})
	if cfg.Server.HealthCheck.Enabled {
		s.app.Get(cfg.Server.HealthCheck.Path, h.Health)
	}
	if cfg.Metrics.Enabled {
		s.app.Get(cfg.Metrics.Path, adaptor.HTTPHandler(s.metrics.Handler()))
	}

	prefix := apiPrefix
	var groupMW []fiber.Handler
	if grp, ok := cfg.FindGroup(config.APIGroup); ok {
		if grp.Path != "" {
			prefix = grp.Path
		}
		if groupMW, err = lookupMiddleware(mw, grp.Middleware); err != nil {
			return nil, fmt.Errorf("group %s: %w", grp.Name, err)
		}
	}
	api := s.app.Group(prefix, groupMW...)
	api.Post("/summarize", h.Summarize)
	api.Post("/summarize/file", h.SummarizeFile)
	api.Post("/summarize/url", h.SummarizeURL)
	api.Get("/summaries/:id", h.GetSummary)
	api.Get("/summaries/:id/download", h.Download)
	return s, nil
}

func (s *Server) App() *fiber.App { return s.app }

// Run listens until ctx is done, then drains connections within the configured
// shutdown timeout.
func (s *Server) Run(ctx context.Context) error {
	srv := s.cfg.Server
	tlsEnabled := srv.TLS.CertFile != "" && srv.TLS.KeyFile != ""

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("listening", zap.String("address", srv.Address), zap.Bool("tls", tlsEnabled))
		if tlsEnabled {
			errCh <- s.app.ListenTLS(srv.Address, srv.TLS.CertFile, srv.TLS.KeyFile)
		} else {
			errCh <- s.app.Listen(srv.Address)
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	s.log.Info("draining server connections and shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(srv.ShutdownTimeout)*time.Second)
	defer cancel()
	if err := s.app.ShutdownWithContext(shutdownCtx); err != nil {
		s.log.Warn("server shutdown timed out", zap.Error(err))
		return err
	}
	s.log.Info("server shutdown completed")
	return <-errCh
}

func (s *Server) Close() error {
	var errs []error
	for _, c := range s.closers {
		errs = append(errs, c())
	}
	return errors.Join(errs...)
}
