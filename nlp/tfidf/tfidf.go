package tfidf

import (
	"math"
	"sort"
	"unicode/utf8"
)

// MinTermLen drops single-character terms from the vocabulary.
const MinTermLen = 2

// Corpus is a document-term model fitted on one call's documents only.
// Terms are indexed in lexicographic order so vectors are reproducible.
type Corpus struct {
	Docs       [][]string
	Vocabulary []string
	Index      map[string]int
	DF         []int
	IDF        []float64
}

// NewCorpus fits document frequencies and smoothed idf = ln((1+n)/(1+df)) + 1.
func NewCorpus(docs [][]string) *Corpus {
	c := &Corpus{Docs: docs, Index: make(map[string]int)}
	df := make(map[string]int)
	for _, doc := range docs {
		seen := make(map[string]bool)
		for _, w := range doc {
			if utf8.RuneCountInString(w) < MinTermLen || seen[w] {
				continue
			}
			seen[w] = true
			df[w]++
		}
	}
	c.Vocabulary = make([]string, 0, len(df))
	for w := range df {
		c.Vocabulary = append(c.Vocabulary, w)
	}
	sort.Strings(c.Vocabulary)

	n := float64(len(docs))
	c.DF = make([]int, len(c.Vocabulary))
	c.IDF = make([]float64, len(c.Vocabulary))
	for i, w := range c.Vocabulary {
		c.Index[w] = i
		c.DF[i] = df[w]
		c.IDF[i] = math.Log((1+n)/(1+float64(df[w]))) + 1.0
	}
	return c
}

// Vector returns the L2-normalized tf*idf vector of doc over the corpus vocabulary.
// Unknown terms are ignored; a doc with no known terms yields the zero vector.
func (c *Corpus) Vector(doc []string) []float64 {
	v := make([]float64, len(c.Vocabulary))
	for _, w := range doc {
		if i, ok := c.Index[w]; ok {
			v[i]++
		}
	}
	norm := 0.0
	for i := range v {
		v[i] *= c.IDF[i]
		norm += v[i] * v[i]
	}
	if norm == 0 {
		return v
	}
	norm = math.Sqrt(norm)
	for i := range v {
		v[i] /= norm
	}
	return v
}

// Vectors returns one row per fitted document.
func (c *Corpus) Vectors() [][]float64 {
	rows := make([][]float64, len(c.Docs))
	for i, doc := range c.Docs {
		rows[i] = c.Vector(doc)
	}
	return rows
}
