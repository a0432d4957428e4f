package summarization

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/oarkflow/textrank/nlp/graph"
)

var article = []string{
	"Solar power has become the cheapest source of new electricity in many countries.",
	"Falling panel prices and better manufacturing drove the rapid decline in solar costs.",
	"Wind power also grew quickly as turbines became taller and more efficient.",
	"Grid operators now face the challenge of balancing variable solar and wind output.",
	"Battery storage helps grids absorb solar power during sunny afternoons.",
	"Many cities are replacing diesel buses with electric models charged by renewable power.",
	"Critics argue that mining for battery metals carries environmental costs.",
	"Governments offer tax credits to encourage households to install rooftop solar panels.",
	"Researchers continue to improve the efficiency of solar cells in laboratories.",
	"Experts expect renewable power to dominate electricity markets within two decades.",
}

func articleText() string {
	return strings.Join(article, "\n\n")
}

func TestSummarizeShortCircuit(t *testing.T) {
	tests := []struct {
		name string
		in   string
		n    int
	}{
		{name: "three sentences, three requested", in: "The cat sat on the mat. The dog ran in the park. The bird flew over the house.", n: 3},
		{name: "two sentences, five requested", in: "Rivers carry sediment to the sea. Deltas form where rivers slow down.", n: 5},
		{name: "single sentence", in: "Just one sentence about ranking graphs.", n: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := New(DefaultConfig(), nil).Summarize(tt.in, tt.n)
			assert.Equal(t, MethodShortCircuit, res.Method)
			assert.Equal(t, tt.in, res.Summary)
		})
	}
}

func TestSummarizeShortCircuitReturnsNormalizedText(t *testing.T) {
	res := New(DefaultConfig(), nil).Summarize("  First line here.\n\n\tSecond   line here.  ", 3)
	assert.Equal(t, "First line here. Second line here.", res.Summary)
}

func TestSummarizeEmpty(t *testing.T) {
	for _, in := range []string{"", "   ", "\n\t\n"} {
		res := New(DefaultConfig(), nil).Summarize(in, 3)
		assert.Equal(t, MethodEmpty, res.Method)
		assert.Equal(t, NothingToSummarize, res.Summary)
		assert.Empty(t, res.Sentences)
	}
}

func TestSummarizeArticle(t *testing.T) {
	res := New(DefaultConfig(), nil).Summarize(articleText(), 3)

	require.Equal(t, MethodRanked, res.Method)
	require.Len(t, res.Sentences, 3)
	assert.Equal(t, len(article), res.Total)

	seen := map[int]bool{}
	prev := -1
	for _, s := range res.Sentences {
		assert.Greater(t, s.Index, prev, "sentences keep document order")
		assert.Equal(t, article[s.Index], s.Text, "only original sentences are returned")
		assert.False(t, seen[s.Index])
		seen[s.Index] = true
		prev = s.Index
	}
	assert.Equal(t, Join(res.Sentences), res.Summary)

	total := 0.0
	for _, sc := range res.Scores {
		total += sc
	}
	assert.InDelta(t, 1.0, total, 1e-9)
}

func TestSummarizePicksHighestScores(t *testing.T) {
	res := New(DefaultConfig(), nil).Summarize(articleText(), 4)
	require.Equal(t, MethodRanked, res.Method)

	picked := map[int]bool{}
	minPicked := 1.0
	for _, s := range res.Sentences {
		picked[s.Index] = true
		minPicked = min(minPicked, res.Scores[s.Index])
	}
	for i, sc := range res.Scores {
		if !picked[i] {
			assert.LessOrEqual(t, sc, minPicked)
		}
	}
}

func TestSummarizeIsDeterministic(t *testing.T) {
	s := New(DefaultConfig(), nil)
	first := s.Summarize(articleText(), 3)
	second := s.Summarize(articleText(), 3)
	assert.Equal(t, first, second)
}

func TestSummarizeNeverExceedsRequested(t *testing.T) {
	s := New(DefaultConfig(), nil)
	for n := 1; n <= len(article)+2; n++ {
		res := s.Summarize(articleText(), n)
		assert.LessOrEqual(t, len(res.Sentences), n)
	}
}

func TestSummarizeDefaultsNonPositiveCount(t *testing.T) {
	res := New(DefaultConfig(), nil).Summarize(articleText(), 0)
	assert.Len(t, res.Sentences, DefaultMaxSentences)
}

func TestSummarizeStopwordsOnlyFallsBack(t *testing.T) {
	in := "And the of it. To be or not. It is what it is. We were there. So it was. He had it. They did. Then we did too."
	res := New(DefaultConfig(), nil).Summarize(in, 3)

	sentences := Split(in)
	require.Greater(t, len(sentences), 3)
	assert.Equal(t, MethodDegenerate, res.Method)
	assert.True(t, res.Degraded())
	assert.Equal(t, Join(sentences[:3]), res.Summary)
	assert.NotEmpty(t, res.Reason)
}

func TestSummarizeShortSentencesScoreZero(t *testing.T) {
	in := article[0] + " Yes indeed. " + article[1] + " " + article[4] + " Sure. " + article[9]
	res := New(DefaultConfig(), nil).Summarize(in, 2)
	require.Equal(t, MethodRanked, res.Method)
	require.Len(t, res.Scores, 6)

	assert.Zero(t, res.Scores[1])
	assert.Zero(t, res.Scores[4])
	for _, s := range res.Sentences {
		assert.NotEqual(t, "Yes indeed.", s.Text)
		assert.NotEqual(t, "Sure.", s.Text)
	}
}

func TestSummarizeRankingErrorFallsBack(t *testing.T) {
	s := New(DefaultConfig(), nil)
	s.rank = func(*graph.Graph, graph.Options) ([]float64, error) {
		return nil, errors.New("ill-conditioned")
	}
	res := s.Summarize(articleText(), 3)
	assert.Equal(t, MethodFallback, res.Method)
	assert.Equal(t, strings.Join(article[:3], " "), res.Summary)
	assert.Contains(t, res.Reason, "ill-conditioned")
}

func TestSummarizeRankingPanicFallsBack(t *testing.T) {
	s := New(DefaultConfig(), nil)
	s.rank = func(*graph.Graph, graph.Options) ([]float64, error) {
		panic("boom")
	}
	var res Result
	assert.NotPanics(t, func() { res = s.Summarize(articleText(), 2) })
	assert.Equal(t, MethodFallback, res.Method)
	assert.Equal(t, strings.Join(article[:2], " "), res.Summary)
}

func TestSummarizeNonConvergenceFallsBack(t *testing.T) {
	cfg := DefaultConfig()
	cfg.PageRank = graph.Options{MaxIterations: 1, Tolerance: 1e-300}
	res := New(cfg, nil).Summarize(articleText(), 3)
	assert.Equal(t, MethodFallback, res.Method)
	assert.Contains(t, res.Reason, "did not converge")
}

func TestSelectBreaksTiesByIndex(t *testing.T) {
	sentences := []Sentence{{0, "a"}, {1, "b"}, {2, "c"}, {3, "d"}}
	got := Select(sentences, []float64{0.2, 0.3, 0.3, 0.2}, 3)
	assert.Equal(t, []Sentence{{0, "a"}, {1, "b"}, {2, "c"}}, got)

	got = Select(sentences, []float64{0.25, 0.25, 0.25, 0.25}, 2)
	assert.Equal(t, []Sentence{{0, "a"}, {1, "b"}}, got)
}

func TestClean(t *testing.T) {
	assert.Equal(t, []string{"graph", "ranking", "works"}, Clean("The graph ranking works, doesn't it?"))
	assert.Empty(t, Clean("It is what it is."))
}

func TestPackageSummarize(t *testing.T) {
	assert.Equal(t, NothingToSummarize, Summarize("", 3))
	assert.Equal(t, "One line only.", Summarize("One line only.", 3))
}

func TestSummarizeDisjointSentences(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	in := "Apples grow quickly everywhere. Rivers carry heavy sediment. Mountains block northern winds."
	res := New(DefaultConfig(), zap.New(core)).Summarize(in, 1)

	require.Equal(t, MethodRanked, res.Method)
	assert.Equal(t, "Apples grow quickly everywhere.", res.Summary)
	assert.Equal(t, 1, logs.FilterMessage("sentences share no terms, ranks are uniform").Len())
}
