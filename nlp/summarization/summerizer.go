package summarization

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"go.uber.org/zap"

	"github.com/oarkflow/textrank/nlp/graph"
	"github.com/oarkflow/textrank/nlp/normalizer"
	"github.com/oarkflow/textrank/nlp/segmenter"
	"github.com/oarkflow/textrank/nlp/similarity"
	"github.com/oarkflow/textrank/nlp/stopwords"
	"github.com/oarkflow/textrank/nlp/tfidf"
	"github.com/oarkflow/textrank/nlp/tokenizer"
)

// NothingToSummarize is returned as the summary of empty or whitespace-only input.
const NothingToSummarize = "Nothing to summarize."

const (
	DefaultMaxSentences = 3
	DefaultMinTokens    = 3
)

type Config struct {
	// MaxSentences is used when a caller asks for fewer than one sentence.
	MaxSentences int `json:"max_sentences" yaml:"max_sentences" bcl:"max_sentences"`
	// MinTokens is the number of meaningful tokens a sentence needs to be vectorized.
	MinTokens int           `json:"min_tokens" yaml:"min_tokens" bcl:"min_tokens"`
	PageRank  graph.Options `json:"pagerank" yaml:"pagerank" bcl:"pagerank"`
}

func DefaultConfig() Config {
	return Config{
		MaxSentences: DefaultMaxSentences,
		MinTokens:    DefaultMinTokens,
		PageRank:     graph.DefaultOptions(),
	}
}

type rankFunc func(g *graph.Graph, opts graph.Options) ([]float64, error)

// Summarizer produces extractive TextRank summaries. It keeps no per-document state,
// so one instance can serve concurrent callers.
type Summarizer struct {
	cfg  Config
	log  *zap.Logger
	rank rankFunc
}

func New(cfg Config, log *zap.Logger) *Summarizer {
	if cfg.MaxSentences < 1 {
		cfg.MaxSentences = DefaultMaxSentences
	}
	if cfg.MinTokens < 1 {
		cfg.MinTokens = DefaultMinTokens
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Summarizer{
		cfg: cfg,
		log: log,
		rank: func(g *graph.Graph, opts graph.Options) ([]float64, error) {
			return g.PageRank(opts)
		},
	}
}

// Text is Summarize reduced to the summary string.
func (s *Summarizer) Text(text string, n int) string {
	return s.Summarize(text, n).Summary
}

// Summarize selects at most n sentences of text by TextRank centrality and returns them
// in document order. It never fails: degenerate documents and scoring failures fall back
// to the first n sentences, and the Result says which path was taken.
func (s *Summarizer) Summarize(text string, n int) (res Result) {
	if n < 1 {
		n = s.cfg.MaxSentences
	}
	normalized := normalizer.Normalize(text)
	if normalized == "" {
		return Result{Summary: NothingToSummarize, Method: MethodEmpty, Reason: "input is empty"}
	}

	sentences := Split(normalized)
	if len(sentences) <= n {
		return Result{
			Summary:   normalized,
			Method:    MethodShortCircuit,
			Sentences: sentences,
			Total:     len(sentences),
		}
	}

	defer func() {
		if r := recover(); r != nil {
			s.log.Error("textrank scoring panicked", zap.Any("panic", r), zap.Int("sentences", len(sentences)))
			res = leading(sentences, n, MethodFallback, fmt.Sprintf("scoring failed: %v", r))
		}
	}()

	var retained []int
	var docs [][]string
	for _, sent := range sentences {
		if toks := Clean(sent.Text); len(toks) >= s.cfg.MinTokens {
			retained = append(retained, sent.Index)
			docs = append(docs, toks)
		}
	}
	if len(retained) < 2 {
		return leading(sentences, n, MethodDegenerate,
			fmt.Sprintf("%d of %d sentences have at least %d meaningful tokens", len(retained), len(sentences), s.cfg.MinTokens))
	}

	corpus := tfidf.NewCorpus(docs)
	if len(corpus.Vocabulary) == 0 {
		return leading(sentences, n, MethodDegenerate, "empty vocabulary")
	}

	sim := similarity.CosineMatrix(corpus.Vectors())
	g := graph.New(sim)
	if g.Edges() == 0 {
		s.log.Debug("sentences share no terms, ranks are uniform", zap.Int("ranked", g.Len()))
	}
	ranks, err := s.rank(g, s.cfg.PageRank)
	if err != nil {
		s.log.Warn("textrank ranking failed, using leading sentences", zap.Error(err), zap.Int("sentences", len(sentences)))
		return leading(sentences, n, MethodFallback, err.Error())
	}

	// Sentences left out of the graph score 0 and therefore rank after every graph node,
	// since PageRank gives each node at least (1-d)/N.
	scores := make([]float64, len(sentences))
	for k, idx := range retained {
		scores[idx] = ranks[k]
	}

	res = Result{
		Method:    MethodRanked,
		Sentences: Select(sentences, scores, n),
		Scores:    scores,
		Total:     len(sentences),
	}
	res.Summary = Join(res.Sentences)
	s.log.Debug("textrank summary",
		zap.Int("sentences", len(sentences)),
		zap.Int("ranked", len(retained)),
		zap.Int("selected", len(res.Sentences)),
	)
	return res
}

// Split segments normalized text into indexed sentences.
func Split(normalized string) []Sentence {
	parts := segmenter.Sentences(normalized)
	out := make([]Sentence, len(parts))
	for i, p := range parts {
		out[i] = Sentence{Index: i, Text: p}
	}
	return out
}

// Clean returns the lowercase alphabetic non-stopword tokens of a sentence.
func Clean(sentence string) []string {
	return stopwords.Filter(tokenizer.Words(sentence))
}

// Select picks the n highest-scoring sentences, lower index first on equal scores,
// and returns them in document order.
func Select(sentences []Sentence, scores []float64, n int) []Sentence {
	order := make([]int, len(sentences))
	for i := range order {
		order[i] = i
	}
	slices.SortStableFunc(order, func(a, b int) int {
		return cmp.Compare(scores[b], scores[a])
	})
	if n < len(order) {
		order = order[:n]
	}
	slices.Sort(order)

	out := make([]Sentence, len(order))
	for i, idx := range order {
		out[i] = sentences[idx]
	}
	return out
}

// Join concatenates sentence texts with single spaces.
func Join(sentences []Sentence) string {
	parts := make([]string, len(sentences))
	for i, s := range sentences {
		parts[i] = s.Text
	}
	return strings.Join(parts, " ")
}

func leading(sentences []Sentence, n int, method Method, reason string) Result {
	picked := sentences[:min(n, len(sentences))]
	return Result{
		Summary:   Join(picked),
		Method:    method,
		Reason:    reason,
		Sentences: picked,
		Total:     len(sentences),
	}
}

var defaultSummarizer = New(DefaultConfig(), nil)

// Summarize runs the default summarizer and returns only the summary text.
func Summarize(text string, n int) string {
	return defaultSummarizer.Text(text, n)
}
