package keyword

import (
	"cmp"
	"regexp"
	"slices"
	"strings"

	"github.com/oarkflow/textrank/nlp/normalizer"
	"github.com/oarkflow/textrank/nlp/stopwords"
	"github.com/oarkflow/textrank/nlp/tokenizer"
)

var (
	reSep  = regexp.MustCompile(`[,.;:?!()\[\]"“”]+`)
	reWord = regexp.MustCompile(`[\pL\pN'’]+`)
)

// Phrase is a RAKE candidate: a run of content words between stopwords or punctuation.
type Phrase struct {
	Text  string  `json:"text"`
	Score float64 `json:"score"`
}

// Phrases ranks key phrases with RAKE: each word scores (frequency+degree)/frequency and a
// phrase scores the sum of its words. Equal scores keep first-appearance order.
func Phrases(text string, n int) []Phrase {
	if n < 1 {
		n = DefaultTopN
	}
	var candidates [][]string
	for _, fragment := range reSep.Split(text, -1) {
		words := normalizer.NormalizeTokens(reWord.FindAllString(fragment, -1))
		var cand []string
		for _, w := range words {
			if !tokenizer.IsAlpha(w) || stopwords.Contains(w) {
				if len(cand) > 0 {
					candidates = append(candidates, cand)
					cand = nil
				}
				continue
			}
			cand = append(cand, w)
		}
		if len(cand) > 0 {
			candidates = append(candidates, cand)
		}
	}

	freq := make(map[string]int)
	degree := make(map[string]int)
	for _, cand := range candidates {
		for _, w := range cand {
			freq[w]++
			degree[w] += len(cand) - 1
		}
	}

	seen := make(map[string]bool)
	var out []Phrase
	for _, cand := range candidates {
		key := strings.Join(cand, " ")
		if seen[key] {
			continue
		}
		seen[key] = true
		score := 0.0
		for _, w := range cand {
			score += float64(freq[w]+degree[w]) / float64(freq[w])
		}
		out = append(out, Phrase{Text: key, Score: score})
	}
	slices.SortStableFunc(out, func(a, b Phrase) int {
		return cmp.Compare(b.Score, a.Score)
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}
