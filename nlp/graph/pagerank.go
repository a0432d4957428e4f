// Package graph ranks the nodes of a weighted undirected graph with PageRank.
package graph

import (
	"errors"
	"fmt"
	"math"
)

// ErrNotConverged is returned when power iteration exceeds its iteration budget.
var ErrNotConverged = errors.New("pagerank: power iteration did not converge")

// ErrInvalidWeights is returned for non-square, negative or non-finite adjacency matrices.
var ErrInvalidWeights = errors.New("pagerank: invalid adjacency weights")

const (
	DefaultDamping       = 0.85
	DefaultMaxIterations = 100
	DefaultTolerance     = 1.0e-6
)

// Options tunes power iteration. Convergence is reached when the L1 change between two
// iterations drops below N*Tolerance.
type Options struct {
	Damping       float64 `json:"damping" yaml:"damping" bcl:"damping"`
	MaxIterations int     `json:"max_iterations" yaml:"max_iterations" bcl:"max_iterations"`
	Tolerance     float64 `json:"tolerance" yaml:"tolerance" bcl:"tolerance"`
}

func DefaultOptions() Options {
	return Options{Damping: DefaultDamping, MaxIterations: DefaultMaxIterations, Tolerance: DefaultTolerance}
}

func (o Options) withDefaults() Options {
	if o.Damping <= 0 || o.Damping >= 1 {
		o.Damping = DefaultDamping
	}
	if o.MaxIterations <= 0 {
		o.MaxIterations = DefaultMaxIterations
	}
	if o.Tolerance <= 0 {
		o.Tolerance = DefaultTolerance
	}
	return o
}

// Graph is an undirected weighted graph given by its symmetric adjacency matrix.
// Diagonal entries are self-loops and take part in normalization like any other edge.
type Graph struct {
	Adjacency [][]float64
}

func New(adjacency [][]float64) *Graph {
	return &Graph{Adjacency: adjacency}
}

func (g *Graph) Len() int { return len(g.Adjacency) }

// Edges counts the non-zero entries off the diagonal, each undirected edge once.
func (g *Graph) Edges() int {
	n := 0
	for i, row := range g.Adjacency {
		for j := i + 1; j < len(row); j++ {
			if row[j] != 0 {
				n++
			}
		}
	}
	return n
}

func (g *Graph) validate() error {
	n := len(g.Adjacency)
	for i, row := range g.Adjacency {
		if len(row) != n {
			return fmt.Errorf("%w: row %d has %d columns, want %d", ErrInvalidWeights, i, len(row), n)
		}
		for j, w := range row {
			if w < 0 || math.IsNaN(w) || math.IsInf(w, 0) {
				return fmt.Errorf("%w: weight[%d][%d] = %v", ErrInvalidWeights, i, j, w)
			}
		}
	}
	return nil
}

// PageRank returns the stationary distribution of the damped random walk whose transition
// probabilities are the row-normalized edge weights. Nodes without any weight (dangling)
// spread their mass uniformly. The scores sum to 1.
func (g *Graph) PageRank(opts Options) ([]float64, error) {
	if err := g.validate(); err != nil {
		return nil, err
	}
	opts = opts.withDefaults()
	n := g.Len()
	if n == 0 {
		return []float64{}, nil
	}

	outSum := make([]float64, n)
	for i, row := range g.Adjacency {
		for _, w := range row {
			outSum[i] += w
		}
	}

	nf := float64(n)
	scores := Uniform(n)
	for range opts.MaxIterations {
		dangling := 0.0
		for i := range n {
			if outSum[i] == 0 {
				dangling += scores[i]
			}
		}

		next := make([]float64, n)
		for i := range n {
			if outSum[i] == 0 {
				continue
			}
			share := scores[i] / outSum[i]
			for j, w := range g.Adjacency[i] {
				if w != 0 {
					next[j] += share * w
				}
			}
		}

		change := 0.0
		for j := range n {
			next[j] = opts.Damping*(next[j]+dangling/nf) + (1-opts.Damping)/nf
			change += math.Abs(next[j] - scores[j])
		}
		scores = next
		if change < nf*opts.Tolerance {
			return scores, nil
		}
	}
	return nil, fmt.Errorf("%w after %d iterations", ErrNotConverged, opts.MaxIterations)
}

// Uniform is the fallback distribution for graphs that cannot be ranked.
func Uniform(n int) []float64 {
	s := make([]float64, n)
	for i := range s {
		s[i] = 1.0 / float64(n)
	}
	return s
}
