package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleYAML = `
server:
  name: summaries
  address: ":9090"
  min_input_length: 80
middleware:
  - name: recover
    type: recover
  - name: auth
    type: jwt
    secret: from-file
group:
  - name: api
    path: /api/v1
    middleware: [auth]
global_middleware: [recover]
summarization:
  max_sentences: 5
  pagerank:
    damping: 0.9
keywords:
  top_n: 7
store:
  dsn: /tmp/summaries.db
logging:
  level: debug
  format: json
`

func writeConfig(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Server.Address)
	assert.Equal(t, 50, cfg.Server.MinInputLength)
	assert.Equal(t, 3, cfg.Summarization.MaxSentences)
	assert.Equal(t, 3, cfg.Summarization.MinTokens)
	assert.Equal(t, 10, cfg.Keywords.TopN)
	assert.Equal(t, "sqlite", cfg.Store.Driver)
	assert.Equal(t, "gpt-4o-mini", cfg.Translate.Model)
	assert.Equal(t, []string{"recover", "request_id", "logger", "cors", "compress"}, cfg.GlobalMiddleware)
}

func TestLoadYAML(t *testing.T) {
	cfg, err := Load(writeConfig(t, "config.yaml", sampleYAML))
	require.NoError(t, err)

	assert.Equal(t, "summaries", cfg.Server.Name)
	assert.Equal(t, ":9090", cfg.Server.Address)
	assert.Equal(t, 80, cfg.Server.MinInputLength)
	assert.Equal(t, 5, cfg.Summarization.MaxSentences)
	assert.Equal(t, 3, cfg.Summarization.MinTokens)
	assert.InDelta(t, 0.9, cfg.Summarization.PageRank.Damping, 1e-12)
	assert.Equal(t, 7, cfg.Keywords.TopN)
	assert.Equal(t, "/tmp/summaries.db", cfg.Store.DSN)
	assert.Equal(t, "json", cfg.Logging.Format)

	auth, ok := cfg.FindMiddleware("auth")
	require.True(t, ok)
	assert.Equal(t, "from-file", auth.Secret)
	api, ok := cfg.FindGroup(APIGroup)
	require.True(t, ok)
	assert.Equal(t, []string{"auth"}, api.Middleware)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("TEXTRANK_ADDRESS", ":7070")
	t.Setenv("TEXTRANK_JWT_SECRET", "from-env")
	t.Setenv("TEXTRANK_MIN_INPUT_LENGTH", "20")
	t.Setenv("TEXTRANK_STORE_DSN", "file::memory:")
	t.Setenv("OPENAI_API_KEY", "sk-test")

	cfg, err := Load(writeConfig(t, "config.yml", sampleYAML))
	require.NoError(t, err)
	assert.Equal(t, ":7070", cfg.Server.Address)
	assert.Equal(t, 20, cfg.Server.MinInputLength)
	assert.Equal(t, "file::memory:", cfg.Store.DSN)
	assert.Equal(t, "sk-test", cfg.Translate.APIKey)

	auth, _ := cfg.FindMiddleware("auth")
	assert.Equal(t, "from-env", auth.Secret)
}

func TestLoadBadEnvNumber(t *testing.T) {
	t.Setenv("TEXTRANK_MAX_SENTENCES", "three")
	_, err := Load("")
	assert.Error(t, err)
}

func TestLoadJSON(t *testing.T) {
	cfg, err := Load(writeConfig(t, "config.json", `{"server":{"address":":6060"},"keywords":{"top_n":4}}`))
	require.NoError(t, err)
	assert.Equal(t, ":6060", cfg.Server.Address)
	assert.Equal(t, 4, cfg.Keywords.TopN)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = Load(writeConfig(t, "config.toml", "a = 1"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "unknown middleware type",
			mutate:  func(c *Config) { c.Middleware = append(c.Middleware, Middleware{Name: "cb", Type: "circuit_breaker"}) },
			wantErr: "unsupported middleware",
		},
		{
			name:    "jwt without secret",
			mutate:  func(c *Config) { c.Middleware = append(c.Middleware, Middleware{Name: "auth", Type: MiddlewareJWT}) },
			wantErr: "needs a secret",
		},
		{
			name:    "missing global middleware",
			mutate:  func(c *Config) { c.GlobalMiddleware = append(c.GlobalMiddleware, "tracing") },
			wantErr: "global middleware tracing not found",
		},
		{
			name:    "duplicate middleware",
			mutate:  func(c *Config) { c.Middleware = append(c.Middleware, Middleware{Name: "cors", Type: MiddlewareCORS}) },
			wantErr: "declared twice",
		},
		{
			name:    "half tls",
			mutate:  func(c *Config) { c.Server.TLS.CertFile = "cert.pem" },
			wantErr: "tls",
		},
		{
			name: "zero values get defaults",
			mutate: func(c *Config) {
				c.Server.Address = ""
				c.Summarization.MaxSentences = 0
				c.Keywords.TopN = -1
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, ":8080", cfg.Server.Address)
			assert.Equal(t, 3, cfg.Summarization.MaxSentences)
			assert.Equal(t, 10, cfg.Keywords.TopN)
		})
	}
}

func TestLoadExampleConfig(t *testing.T) {
	cfg, err := Load(filepath.Join("..", "..", "..", "config.example.yaml"))
	require.NoError(t, err)

	grp, ok := cfg.FindGroup(APIGroup)
	require.True(t, ok)
	assert.Equal(t, "/api/v1", grp.Path)
	mw, ok := cfg.FindMiddleware("limiter")
	require.True(t, ok)
	assert.Equal(t, MiddlewareRateLimit, mw.Type)
	assert.Equal(t, 60, mw.Max)
	assert.Equal(t, 3, cfg.Summarization.MaxSentences)
}
