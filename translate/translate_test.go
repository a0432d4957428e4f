package translate

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCompleter struct {
	mu      sync.Mutex
	reply   string
	err     error
	calls   int
	model   string
	system  string
	prompts []string
}

func (f *fakeCompleter) Complete(_ context.Context, model, system, prompt string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.model = model
	f.system = system
	f.prompts = append(f.prompts, prompt)
	return f.reply, f.err
}

func TestNewWithoutKey(t *testing.T) {
	_, err := New(Config{}, nil)
	assert.ErrorIs(t, err, ErrDisabled)
}

func TestTranslate(t *testing.T) {
	fake := &fakeCompleter{reply: "  El sol brilla.  "}
	c := NewWithCompleter(Config{}, fake, nil)

	got, err := c.Translate(context.Background(), "The sun shines.", "es")
	require.NoError(t, err)
	assert.Equal(t, "El sol brilla.", got)
	assert.Equal(t, "gpt-4o-mini", fake.model)
	assert.Contains(t, fake.system, "es")
	assert.Equal(t, []string{"The sun shines."}, fake.prompts)
}

func TestTranslateLanguageCodes(t *testing.T) {
	tests := []struct {
		lang  string
		valid bool
	}{
		{"es", true},
		{"pt-BR", true},
		{"zh_Hant", true},
		{"fil", true},
		{"", false},
		{"e", false},
		{"spanish please", false},
		{"es; drop", false},
	}
	for _, tt := range tests {
		t.Run(tt.lang, func(t *testing.T) {
			fake := &fakeCompleter{reply: "ok"}
			c := NewWithCompleter(Config{}, fake, nil)
			_, err := c.Translate(context.Background(), "Text.", tt.lang)
			if tt.valid {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, ErrInvalidLang)
			assert.Zero(t, fake.calls)
		})
	}
}

func TestTranslateEmptyText(t *testing.T) {
	fake := &fakeCompleter{reply: "unused"}
	c := NewWithCompleter(Config{}, fake, nil)
	got, err := c.Translate(context.Background(), "   ", "fr")
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Zero(t, fake.calls)
}

func TestTranslateEmptyReply(t *testing.T) {
	c := NewWithCompleter(Config{}, &fakeCompleter{reply: " "}, nil)
	_, err := c.Translate(context.Background(), "Hello.", "de")
	assert.ErrorIs(t, err, ErrEmptyReply)
}

func TestBreakerOpensAfterFailures(t *testing.T) {
	boom := errors.New("upstream 500")
	fake := &fakeCompleter{err: boom}
	c := NewWithCompleter(Config{}, fake, nil)

	for i := 0; i < 3; i++ {
		_, err := c.Translate(context.Background(), "Hello.", "de")
		assert.ErrorIs(t, err, boom)
	}
	_, err := c.Translate(context.Background(), "Hello.", "de")
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.Equal(t, 3, fake.calls)
}

func TestNormalizeBaseURL(t *testing.T) {
	assert.Equal(t, "", normalizeBaseURL(" "))
	assert.Equal(t, "http://localhost:11434/v1/", normalizeBaseURL("http://localhost:11434"))
	assert.Equal(t, "https://api.example.com/v1/", normalizeBaseURL("https://api.example.com/v1/"))
	assert.Equal(t, "https://proxy.example.com/openai/v1/", normalizeBaseURL("https://proxy.example.com/openai"))
}
