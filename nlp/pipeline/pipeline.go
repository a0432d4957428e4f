package pipeline

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/oarkflow/textrank/nlp/keyword"
	"github.com/oarkflow/textrank/nlp/summarization"
)

type Options struct {
	Sentences int `json:"num_sentences"`
	Keywords  int `json:"top_n"`
	// Phrases asks for RAKE key phrases as well; zero skips them.
	Phrases int `json:"phrases"`
}

type Analysis struct {
	Summary  summarization.Result `json:"summary"`
	Keywords []keyword.Keyword    `json:"keywords"`
	Phrases  []keyword.Phrase     `json:"phrases,omitempty"`
}

// Analyzer runs the summarizer and the keyword rankers side by side on the same text.
// The passes share nothing but the input string.
type Analyzer struct {
	summarizer *summarization.Summarizer
}

func New(s *summarization.Summarizer) *Analyzer {
	return &Analyzer{summarizer: s}
}

func (a *Analyzer) Summarizer() *summarization.Summarizer { return a.summarizer }

// Analyze returns the summary and keywords of text. It only fails when ctx is done
// before the passes finish.
func (a *Analyzer) Analyze(ctx context.Context, text string, opts Options) (*Analysis, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var out Analysis
	var g errgroup.Group
	g.Go(func() error {
		out.Summary = a.summarizer.Summarize(text, opts.Sentences)
		return nil
	})
	g.Go(func() error {
		out.Keywords = keyword.Extract(text, opts.Keywords)
		return nil
	})
	if opts.Phrases > 0 {
		g.Go(func() error {
			out.Phrases = keyword.Phrases(text, opts.Phrases)
			return nil
		})
	}

	done := make(chan error, 1)
	go func() { done <- g.Wait() }()
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case err := <-done:
		if err != nil {
			return nil, err
		}
		return &out, nil
	}
}
