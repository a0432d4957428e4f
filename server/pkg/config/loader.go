package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/oarkflow/bcl"
	"github.com/oarkflow/json"
	"gopkg.in/yaml.v3"
)

const envPrefix = "TEXTRANK_"

// Load reads the optional .env file, then the config file at path (.bcl, .yaml, .yml
// or .json), applies TEXTRANK_* environment overrides and validates the result.
// An empty path starts from the defaults.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("read .env: %w", err)
	}
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := Decode(data, filepath.Ext(path), cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Decode unmarshals data into cfg using the format named by ext.
func Decode(data []byte, ext string, cfg *Config) error {
	switch strings.ToLower(ext) {
	case ".bcl":
		_, err := bcl.Unmarshal(data, cfg)
		return err
	case ".yaml", ".yml":
		return yaml.Unmarshal(data, cfg)
	case ".json":
		return json.Unmarshal(data, cfg)
	}
	return fmt.Errorf("unsupported config format %q", ext)
}

// ApplyEnv overrides fields from TEXTRANK_* variables. OPENAI_API_KEY is honored when
// TEXTRANK_OPENAI_API_KEY is unset.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(envPrefix + key); ok && v != "" {
			*dst = v
		}
	}
	num := func(key string, dst *int) error {
		v, ok := lookup(envPrefix + key)
		if !ok || v == "" {
			return nil
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s%s: %w", envPrefix, key, err)
		}
		*dst = n
		return nil
	}

	str("ADDRESS", &c.Server.Address)
	str("LOG_LEVEL", &c.Logging.Level)
	str("LOG_FORMAT", &c.Logging.Format)
	str("LOG_FILE", &c.Logging.File)
	str("STORE_DRIVER", &c.Store.Driver)
	str("STORE_DSN", &c.Store.DSN)
	str("OPENAI_BASE_URL", &c.Translate.BaseURL)
	str("OPENAI_MODEL", &c.Translate.Model)
	if v, ok := lookup("OPENAI_API_KEY"); ok && c.Translate.APIKey == "" {
		c.Translate.APIKey = v
	}
	str("OPENAI_API_KEY", &c.Translate.APIKey)

	if secret, ok := lookup(envPrefix + "JWT_SECRET"); ok && secret != "" {
		for i := range c.Middleware {
			if c.Middleware[i].Type == MiddlewareJWT {
				c.Middleware[i].Secret = secret
			}
		}
	}

	for key, dst := range map[string]*int{
		"MIN_INPUT_LENGTH": &c.Server.MinInputLength,
		"MAX_SENTENCES":    &c.Summarization.MaxSentences,
		"KEYWORDS_TOP_N":   &c.Keywords.TopN,
		"BODY_LIMIT":       &c.Server.BodyLimit,
	} {
		if err := num(key, dst); err != nil {
			return err
		}
	}
	return nil
}

// Validate fills zero values with defaults and checks middleware wiring.
func (c *Config) Validate() error {
	def := Default()
	if c.Server.Name == "" {
		c.Server.Name = def.Server.Name
	}
	if c.Server.Address == "" {
		c.Server.Address = def.Server.Address
	}
	if c.Server.BodyLimit <= 0 {
		c.Server.BodyLimit = def.Server.BodyLimit
	}
	if c.Server.ShutdownTimeout <= 0 {
		c.Server.ShutdownTimeout = def.Server.ShutdownTimeout
	}
	if c.Server.MinInputLength < 0 {
		c.Server.MinInputLength = 0
	}
	if c.Server.HealthCheck.Path == "" {
		c.Server.HealthCheck.Path = def.Server.HealthCheck.Path
	}
	if c.Metrics.Path == "" {
		c.Metrics.Path = def.Metrics.Path
	}
	if c.Summarization.MaxSentences < 1 {
		c.Summarization.MaxSentences = def.Summarization.MaxSentences
	}
	if c.Summarization.MinTokens < 1 {
		c.Summarization.MinTokens = def.Summarization.MinTokens
	}
	if c.Keywords.TopN < 1 {
		c.Keywords.TopN = def.Keywords.TopN
	}
	if c.Store.Driver == "" {
		c.Store.Driver = def.Store.Driver
	}
	if c.Store.DSN == "" {
		c.Store.DSN = def.Store.DSN
	}
	if c.Logging.Level == "" {
		c.Logging.Level = def.Logging.Level
	}
	if c.Translate.Model == "" {
		c.Translate.Model = def.Translate.Model
	}

	if (c.Server.TLS.CertFile == "") != (c.Server.TLS.KeyFile == "") {
		return errors.New("tls needs both cert_file and key_file")
	}

	seen := map[string]bool{}
	for _, m := range c.Middleware {
		if m.Name == "" {
			return fmt.Errorf("middleware of type %q has no name", m.Type)
		}
		if seen[m.Name] {
			return fmt.Errorf("middleware %s declared twice", m.Name)
		}
		seen[m.Name] = true
		if !middlewareTypes[m.Type] {
			return fmt.Errorf("unsupported middleware: %s", m.Type)
		}
		if m.Type == MiddlewareJWT && m.Secret == "" {
			return fmt.Errorf("jwt middleware %s needs a secret", m.Name)
		}
	}
	for _, name := range c.GlobalMiddleware {
		if !seen[name] {
			return fmt.Errorf("global middleware %s not found", name)
		}
	}
	for _, g := range c.Group {
		for _, name := range g.Middleware {
			if !seen[name] {
				return fmt.Errorf("middleware %s of group %s not found", name, g.Name)
			}
		}
	}
	return nil
}
