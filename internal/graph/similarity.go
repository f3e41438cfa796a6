package graph

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

// ErrInvalidInput is returned when labels, vectors and matrices do not line up.
var ErrInvalidInput = errors.New("invalid input")

// CosineSimilarity computes cosine similarity between two vectors.
// Returns 0.0 for zero-norm vectors or mismatched lengths.
func CosineSimilarity(a, b []float64) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0.0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}

	na := math.Sqrt(normA)
	nb := math.Sqrt(normB)

	if na == 0 || nb == 0 {
		return 0.0
	}

	return dot / (na * nb)
}

// Matrix is a square similarity matrix stored row-major.
// Only the strict lower triangle (row > col) is populated; every other
// entry is 0. Rows of zero-norm vectors are flagged and never yield edges,
// whatever the threshold.
type Matrix struct {
	n    int
	data []float64
	zero []bool
}

// Size returns the number of rows (and columns).
func (m *Matrix) Size() int { return m.n }

// At returns entry (i, j).
func (m *Matrix) At(i, j int) float64 { return m.data[i*m.n+j] }

// BuildSimilarity computes the masked cosine similarity matrix over vectors.
// Only pairs with i > j are computed.
func BuildSimilarity(vectors [][]float64) (*Matrix, error) {
	n := len(vectors)
	if n > 0 {
		dim := len(vectors[0])
		for i, v := range vectors {
			if len(v) != dim {
				return nil, fmt.Errorf("%w: vector %d has %d dims, want %d", ErrInvalidInput, i, len(v), dim)
			}
		}
	}

	norms := make([]float64, n)
	zero := make([]bool, n)
	for i, v := range vectors {
		var s float64
		for _, x := range v {
			s += x * x
		}
		norms[i] = math.Sqrt(s)
		zero[i] = norms[i] == 0
	}

	m := &Matrix{n: n, data: make([]float64, n*n), zero: zero}
	for i := 1; i < n; i++ {
		if norms[i] == 0 {
			continue
		}
		vi := vectors[i]
		row := m.data[i*n : i*n+i]
		for j := 0; j < i; j++ {
			if norms[j] == 0 {
				continue
			}
			var dot float64
			for k, x := range vectors[j] {
				dot += vi[k] * x
			}
			row[j] = dot / (norms[i] * norms[j])
		}
	}
	return m, nil
}

// Candidate is a matrix entry that cleared the edge threshold.
type Candidate struct {
	Row, Col int
	Weight   float64
}

// Edges returns every entry strictly greater than threshold in row-major order.
// Pairs involving a zero-norm vector are skipped.
func (m *Matrix) Edges(threshold float64) []Candidate {
	var out []Candidate
	for i := 1; i < m.n; i++ {
		if m.zero[i] {
			continue
		}
		for j := 0; j < i; j++ {
			if m.zero[j] {
				continue
			}
			if w := m.data[i*m.n+j]; w > threshold {
				out = append(out, Candidate{Row: i, Col: j, Weight: w})
			}
		}
	}
	return out
}

// SimilarItem is an item with its similarity score to a target embedding.
type SimilarItem struct {
	Label      string  `json:"label"`
	Similarity float64 `json:"similarity"`
}

// FindSimilar finds the top-N labels most similar to target. A negative topN
// returns every match.
// Skips the label equal to exclude. Only returns items with similarity >= minSimilarity.
// Results are sorted by descending similarity.
func FindSimilar(target []float64, labels []string, vectors [][]float64, exclude string, topN int, minSimilarity float64) ([]SimilarItem, error) {
	if len(labels) != len(vectors) {
		return nil, fmt.Errorf("%w: %d labels for %d vectors", ErrInvalidInput, len(labels), len(vectors))
	}
	var results []SimilarItem
	for i, v := range vectors {
		if labels[i] == exclude {
			continue
		}
		sim := CosineSimilarity(target, v)
		if sim >= minSimilarity {
			results = append(results, SimilarItem{
				Label:      labels[i],
				Similarity: sim,
			})
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Similarity > results[j].Similarity
	})

	if topN >= 0 && len(results) > topN {
		results = results[:topN]
	}
	return results, nil
}
