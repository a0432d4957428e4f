package config

import (
	"github.com/oarkflow/textrank/loader"
	"github.com/oarkflow/textrank/nlp/summarization"
	"github.com/oarkflow/textrank/server/pkg/logging"
	"github.com/oarkflow/textrank/store"
	"github.com/oarkflow/textrank/translate"
)

type Config struct {
	Server           Server               `json:"server" yaml:"server" bcl:"server"`
	Middleware       []Middleware         `json:"middleware" yaml:"middleware" bcl:"middleware"`
	GlobalMiddleware []string             `json:"global_middleware" yaml:"global_middleware" bcl:"global_middleware"`
	Group            []Group              `json:"group" yaml:"group" bcl:"group"`
	Metrics          Metrics              `json:"metrics" yaml:"metrics" bcl:"metrics"`
	Summarization    summarization.Config `json:"summarization" yaml:"summarization" bcl:"summarization"`
	Keywords         Keywords             `json:"keywords" yaml:"keywords" bcl:"keywords"`
	Loader           loader.Config        `json:"loader" yaml:"loader" bcl:"loader"`
	Translate        translate.Config     `json:"translate" yaml:"translate" bcl:"translate"`
	Store            store.Config         `json:"store" yaml:"store" bcl:"store"`
	Logging          logging.Config       `json:"logging" yaml:"logging" bcl:"logging"`
}

type HealthCheck struct {
	Enabled bool   `json:"enabled" yaml:"enabled" bcl:"enabled"`
	Path    string `json:"path" yaml:"path" bcl:"path"`
}

type TLS struct {
	CertFile string `json:"cert_file" yaml:"cert_file" bcl:"cert_file"`
	KeyFile  string `json:"key_file" yaml:"key_file" bcl:"key_file"`
}

// Server timeouts are in seconds.
type Server struct {
	Name            string      `json:"name" yaml:"name" bcl:"name"`
	Address         string      `json:"address" yaml:"address" bcl:"address"`
	ReadTimeout     int         `json:"read_timeout" yaml:"read_timeout" bcl:"read_timeout"`
	WriteTimeout    int         `json:"write_timeout" yaml:"write_timeout" bcl:"write_timeout"`
	IdleTimeout     int         `json:"idle_timeout" yaml:"idle_timeout" bcl:"idle_timeout"`
	ShutdownTimeout int         `json:"shutdown_timeout" yaml:"shutdown_timeout" bcl:"shutdown_timeout"`
	BodyLimit       int         `json:"body_limit" yaml:"body_limit" bcl:"body_limit"`
	MinInputLength  int         `json:"min_input_length" yaml:"min_input_length" bcl:"min_input_length"`
	HealthCheck     HealthCheck `json:"health_check" yaml:"health_check" bcl:"health_check"`
	TLS             TLS         `json:"tls" yaml:"tls" bcl:"tls"`
}

// Middleware declares one named handler. Type selects the implementation; the
// remaining fields only apply to some types.
type Middleware struct {
	Name              string `json:"name" yaml:"name" bcl:"name"`
	Type              string `json:"type" yaml:"type" bcl:"type"`
	Secret            string `json:"secret,omitempty" yaml:"secret" bcl:"secret"`
	HeaderName        string `json:"header_name,omitempty" yaml:"header_name" bcl:"header_name"`
	AllowOrigins      string `json:"allow_origins,omitempty" yaml:"allow_origins" bcl:"allow_origins"`
	Max               int    `json:"max,omitempty" yaml:"max" bcl:"max"`
	ExpirationSeconds int    `json:"expiration_seconds,omitempty" yaml:"expiration_seconds" bcl:"expiration_seconds"`
}

// Group attaches middleware to every route under Path.
type Group struct {
	Name       string   `json:"name" yaml:"name" bcl:"name"`
	Path       string   `json:"path" yaml:"path" bcl:"path"`
	Middleware []string `json:"middleware" yaml:"middleware" bcl:"middleware"`
}

type Metrics struct {
	Enabled bool   `json:"enabled" yaml:"enabled" bcl:"enabled"`
	Path    string `json:"path" yaml:"path" bcl:"path"`
}

type Keywords struct {
	TopN    int  `json:"top_n" yaml:"top_n" bcl:"top_n"`
	Phrases bool `json:"phrases" yaml:"phrases" bcl:"phrases"`
}

const APIGroup = "api"

// Middleware types understood by the server.
const (
	MiddlewareLogger    = "logger"
	MiddlewareJWT       = "jwt"
	MiddlewareCORS      = "cors"
	MiddlewareRateLimit = "ratelimit"
	MiddlewareCompress  = "compress"
	MiddlewareRecover   = "recover"
	MiddlewareRequestID = "request_id"
)

var middlewareTypes = map[string]bool{
	MiddlewareLogger:    true,
	MiddlewareJWT:       true,
	MiddlewareCORS:      true,
	MiddlewareRateLimit: true,
	MiddlewareCompress:  true,
	MiddlewareRecover:   true,
	MiddlewareRequestID: true,
}

func Default() *Config {
	return &Config{
		Server: Server{
			Name:            "textrank",
			Address:         ":8080",
			ReadTimeout:     30,
			WriteTimeout:    60,
			IdleTimeout:     120,
			ShutdownTimeout: 10,
			BodyLimit:       25 << 20,
			MinInputLength:  50,
			HealthCheck:     HealthCheck{Enabled: true, Path: "/health"},
		},
		Middleware: []Middleware{
			{Name: "recover", Type: MiddlewareRecover},
			{Name: "request_id", Type: MiddlewareRequestID, HeaderName: "X-Request-ID"},
			{Name: "logger", Type: MiddlewareLogger},
			{Name: "cors", Type: MiddlewareCORS, AllowOrigins: "*"},
			{Name: "compress", Type: MiddlewareCompress},
		},
		GlobalMiddleware: []string{"recover", "request_id", "logger", "cors", "compress"},
		Metrics:          Metrics{Enabled: true, Path: "/metrics"},
		Summarization:    summarization.DefaultConfig(),
		Keywords:         Keywords{TopN: 10, Phrases: true},
		Loader:           loader.DefaultConfig(),
		Translate:        translate.DefaultConfig(),
		Store:            store.DefaultConfig(),
		Logging:          logging.DefaultConfig(),
	}
}

// FindMiddleware returns the middleware declared under name.
func (c *Config) FindMiddleware(name string) (Middleware, bool) {
	for _, m := range c.Middleware {
		if m.Name == name {
			return m, true
		}
	}
	return Middleware{}, false
}

// FindGroup returns the route group declared under name.
func (c *Config) FindGroup(name string) (Group, bool) {
	for _, g := range c.Group {
		if g.Name == name {
			return g, true
		}
	}
	return Group{}, false
}
