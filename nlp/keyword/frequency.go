package keyword

import (
	"cmp"
	"slices"
	"unicode/utf8"

	"github.com/oarkflow/textrank/nlp/stopwords"
	"github.com/oarkflow/textrank/nlp/tokenizer"
)

const (
	DefaultTopN = 10
	// MinRunes is the shortest token length kept; tokens must be strictly longer than 2.
	MinRunes = 3
)

type Keyword struct {
	Token string `json:"token"`
	Count int    `json:"count"`
}

// Tokens returns the qualifying keyword tokens of text in document order: lowercase,
// alphabetic, at least MinRunes long and not a stopword.
func Tokens(text string) []string {
	words := tokenizer.Words(text)
	out := words[:0]
	for _, w := range words {
		if utf8.RuneCountInString(w) < MinRunes || stopwords.Contains(w) {
			continue
		}
		out = append(out, w)
	}
	return out
}

// Extract returns the n most frequent tokens of text, most frequent first, with ties in
// order of first appearance. Text without qualifying tokens gives an empty list.
func Extract(text string, n int) []Keyword {
	if n < 1 {
		n = DefaultTopN
	}
	counts := make(map[string]int)
	var order []string
	for _, w := range Tokens(text) {
		if counts[w] == 0 {
			order = append(order, w)
		}
		counts[w]++
	}

	out := make([]Keyword, len(order))
	for i, w := range order {
		out[i] = Keyword{Token: w, Count: counts[w]}
	}
	slices.SortStableFunc(out, func(a, b Keyword) int {
		return cmp.Compare(b.Count, a.Count)
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}
