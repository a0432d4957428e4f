package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/oarkflow/json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const article = "Coral reefs cover less than one percent of the ocean floor. " +
	"Coral reefs support about a quarter of all marine species. " +
	"Warming water causes coral bleaching across many reefs. " +
	"Bleaching happens when stressed coral expels its algae. " +
	"Some reefs recover when water temperatures drop again. " +
	"Scientists monitor reefs with satellites and divers."

func run(t *testing.T, stdin string, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetArgs(args)
	rootCmd.SetOut(&out)
	rootCmd.SetIn(strings.NewReader(stdin))
	t.Cleanup(func() {
		numSentences, numKeywords, withPhrases, translateTo, asJSON, topKeywords = 0, 10, false, "", false, 10
		rootCmd.SetArgs(nil)
	})
	require.NoError(t, rootCmd.Execute())
	return out.String()
}

func TestSummarizeFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reefs.txt")
	require.NoError(t, os.WriteFile(path, []byte(article), 0o644))

	out := run(t, "", "summarize", "-n", "2", path)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.NotEmpty(t, lines)
	assert.Less(t, len(lines[0]), len(article))
	assert.Contains(t, out, "Keywords: reefs, coral")
}

func TestSummarizeJSON(t *testing.T) {
	out := run(t, article, "summarize", "--json", "-n", "1", "--keywords", "3", "-")

	var got struct {
		Summary struct {
			Summary string `json:"summary"`
			Method  string `json:"method"`
		} `json:"summary"`
		Keywords []struct {
			Token string `json:"token"`
		} `json:"keywords"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &got), out)
	assert.Equal(t, "ranked", got.Summary.Method)
	assert.NotEmpty(t, got.Summary.Summary)
	assert.Len(t, got.Keywords, 3)
}

func TestSummarizeTranslateWithoutKey(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("TEXTRANK_OPENAI_API_KEY", "")
	out := run(t, article, "summarize", "--translate", "es")
	assert.Contains(t, out, "translation failed: translation is not configured")
}

func TestKeywordsStdin(t *testing.T) {
	out := run(t, article, "keywords", "-n", "2")
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, []string{"reefs", "5"}, strings.Fields(lines[0]))
	assert.Equal(t, []string{"coral", "4"}, strings.Fields(lines[1]))
}
