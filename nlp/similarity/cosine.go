// Package similarity builds pairwise cosine similarity matrices over dense vectors.
package similarity

import "math"

// Matrix is square and symmetric; Matrix[i][j] is the cosine of vectors i and j.
type Matrix [][]float64

// Cosine returns the cosine of a and b, or 0 when either has zero norm.
// Vectors of different length are compared over their common prefix.
func Cosine(a, b []float64) float64 {
	n := min(len(a), len(b))
	dot, na, nb := 0.0, 0.0, 0.0
	for i := range n {
		dot += a[i] * b[i]
	}
	for _, x := range a {
		na += x * x
	}
	for _, x := range b {
		nb += x * x
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

// CosineMatrix computes every pairwise similarity, the diagonal included. A non-zero vector
// has self-similarity 1; a zero vector has 0 against everything, itself included.
func CosineMatrix(vectors [][]float64) Matrix {
	n := len(vectors)
	m := make(Matrix, n)
	for i := range m {
		m[i] = make([]float64, n)
	}
	for i := range n {
		for j := i; j < n; j++ {
			s := Cosine(vectors[i], vectors[j])
			if i == j && s != 0 {
				s = 1
			}
			m[i][j] = s
			m[j][i] = s
		}
	}
	return m
}
