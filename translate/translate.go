// Package translate renders summaries into another language through an OpenAI-compatible chat API.
package translate

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

var (
	ErrDisabled    = errors.New("translation is not configured")
	ErrInvalidLang = errors.New("invalid target language code")
	ErrUnavailable = errors.New("translation service unavailable")
	ErrEmptyReply  = errors.New("empty translation")
)

var reLang = regexp.MustCompile(`^[a-zA-Z]{2,3}(?:[-_][a-zA-Z0-9]{2,8})?$`)

// Translator translates text into the language named by an ISO 639 code such as "es" or "pt-BR".
type Translator interface {
	Translate(ctx context.Context, text, lang string) (string, error)
}

// Completer sends one system + user prompt pair and returns the reply text.
type Completer interface {
	Complete(ctx context.Context, model, system, prompt string) (string, error)
}

type Config struct {
	APIKey         string `json:"api_key" yaml:"api_key" bcl:"api_key"`
	BaseURL        string `json:"base_url" yaml:"base_url" bcl:"base_url"`
	Model          string `json:"model" yaml:"model" bcl:"model"`
	TimeoutSeconds int    `json:"timeout_seconds" yaml:"timeout_seconds" bcl:"timeout_seconds"`
	MaxRetries     int    `json:"max_retries" yaml:"max_retries" bcl:"max_retries"`
}

func DefaultConfig() Config {
	return Config{
		Model:          "gpt-4o-mini",
		TimeoutSeconds: 30,
		MaxRetries:     1,
	}
}

// Enabled reports whether an API key is set.
func (c Config) Enabled() bool {
	return strings.TrimSpace(c.APIKey) != ""
}

type Client struct {
	cfg  Config
	chat Completer
	cb   *gobreaker.CircuitBreaker
	log  *zap.Logger
}

// New builds a translator on the OpenAI chat completions API. It returns ErrDisabled
// when no API key is configured.
func New(cfg Config, log *zap.Logger) (*Client, error) {
	if !cfg.Enabled() {
		return nil, ErrDisabled
	}
	cfg = withDefaults(cfg)
	opts := []option.RequestOption{
		option.WithAPIKey(strings.TrimSpace(cfg.APIKey)),
		option.WithMaxRetries(cfg.MaxRetries),
	}
	if base := normalizeBaseURL(cfg.BaseURL); base != "" {
		opts = append(opts, option.WithBaseURL(base))
	}
	return NewWithCompleter(cfg, &openAICompleter{client: openai.NewClient(opts...)}, log), nil
}

// NewWithCompleter wires a translator to any chat backend.
func NewWithCompleter(cfg Config, chat Completer, log *zap.Logger) *Client {
	cfg = withDefaults(cfg)
	if log == nil {
		log = zap.NewNop()
	}
	c := &Client{cfg: cfg, chat: chat, log: log}
	c.cb = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "translate",
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn("circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	})
	return c
}

func (c *Client) Translate(ctx context.Context, text, lang string) (string, error) {
	lang = strings.TrimSpace(lang)
	if !reLang.MatchString(lang) {
		return "", fmt.Errorf("%w: %q", ErrInvalidLang, lang)
	}
	if strings.TrimSpace(text) == "" {
		return "", nil
	}

	ctx, cancel := context.WithTimeout(ctx, time.Duration(c.cfg.TimeoutSeconds)*time.Second)
	defer cancel()

	start := time.Now()
	out, err := c.cb.Execute(func() (interface{}, error) {
		return c.chat.Complete(ctx, c.cfg.Model, systemPrompt(lang), text)
	})
	if err != nil {
		c.log.Warn("translation failed", zap.String("lang", lang), zap.Error(err))
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
		return "", fmt.Errorf("translate to %s: %w", lang, err)
	}
	reply := strings.TrimSpace(out.(string))
	if reply == "" {
		return "", ErrEmptyReply
	}
	c.log.Debug("summary translated", zap.String("lang", lang), zap.Duration("took", time.Since(start)))
	return reply, nil
}

func systemPrompt(lang string) string {
	return "You are a translation engine. Translate the user's text into the language with code " +
		lang + ". Reply with the translation only, keep sentence order, add nothing."
}

func withDefaults(cfg Config) Config {
	def := DefaultConfig()
	if cfg.Model == "" {
		cfg.Model = def.Model
	}
	if cfg.TimeoutSeconds <= 0 {
		cfg.TimeoutSeconds = def.TimeoutSeconds
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	return cfg
}

// normalizeBaseURL makes sure a custom endpoint ends in /v1.
func normalizeBaseURL(raw string) string {
	base := strings.TrimSpace(raw)
	if base == "" {
		return ""
	}
	parsed, err := url.Parse(base)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return strings.TrimRight(base, "/")
	}
	p := strings.TrimRight(parsed.Path, "/")
	if !strings.HasSuffix(p, "/v1") {
		p += "/v1"
	}
	parsed.Path = p
	return strings.TrimRight(parsed.String(), "/") + "/"
}

type openAICompleter struct {
	client openai.Client
}

func (o *openAICompleter) Complete(ctx context.Context, model, system, prompt string) (string, error) {
	resp, err := o.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(system),
			openai.UserMessage(prompt),
		},
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", ErrEmptyReply
	}
	return resp.Choices[0].Message.Content, nil
}
