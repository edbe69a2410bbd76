// Package similarity computes and stores pairwise cosine similarity over
// item vectors. The matrix is built once at index-build time and is
// read-only afterwards; concurrent readers need no synchronization.
package similarity

import (
	"math"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Scored pairs a corpus row index with a similarity score.
type Scored struct {
	Index int
	Score float64
}

// Matrix is a dense, symmetric N×N cosine similarity matrix. Entry (i,j)
// is the cosine similarity between item vectors i and j; the diagonal is
// 1.0 by construction.
type Matrix struct {
	rows [][]float64
}

// BuildMatrix computes pairwise cosine similarity for every pair of item
// vectors. Rows are computed in parallel; symmetry is exploited so each
// pair is computed once. Pairs involving a zero-magnitude vector score 0.
func BuildMatrix(vectors [][]float64) *Matrix {
	n := len(vectors)
	rows := make([][]float64, n)
	for i := range rows {
		rows[i] = make([]float64, n)
	}

	norms := make([]float64, n)
	for i, v := range vectors {
		norms[i] = norm(v)
	}

	var g errgroup.Group
	g.SetLimit(runtime.NumCPU())
	for i := 0; i < n; i++ {
		g.Go(func() error {
			rows[i][i] = 1.0
			for j := i + 1; j < n; j++ {
				s := cosineWithNorms(vectors[i], vectors[j], norms[i], norms[j])
				rows[i][j] = s
				rows[j][i] = s
			}
			return nil
		})
	}
	// Workers never return errors; Wait only serves as the completion barrier.
	_ = g.Wait()

	return &Matrix{rows: rows}
}

// Size returns the number of items the matrix covers.
func (m *Matrix) Size() int {
	return len(m.rows)
}

// At returns the similarity between items i and j.
func (m *Matrix) At(i, j int) float64 {
	return m.rows[i][j]
}

// Row returns the similarity row for item i. The returned slice is
// shared read-only state and must not be modified.
func (m *Matrix) Row(i int) []float64 {
	return m.rows[i]
}

// Query returns every other item with its similarity to item i, in row
// order, excluding i itself.
func (m *Matrix) Query(i int) []Scored {
	row := m.rows[i]
	out := make([]Scored, 0, len(row)-1)
	for j, s := range row {
		if j == i {
			continue
		}
		out = append(out, Scored{Index: j, Score: s})
	}
	return out
}

// Cosine computes the cosine similarity between two vectors of equal
// length: dot(a,b) / (|a|·|b|). It returns 0 when either vector has zero
// magnitude, avoiding division by zero for degenerate inputs.
func Cosine(a, b []float64) float64 {
	return cosineWithNorms(a, b, norm(a), norm(b))
}

// AppendFeature returns new vectors with one auxiliary numeric feature
// (such as a rating) appended to each item vector. Combining the text
// vector with a secondary signal changes the resulting similarity scores;
// this is an explicit, opt-in mode of the index build. Input vectors are
// not modified.
func AppendFeature(vectors [][]float64, feature []float64) [][]float64 {
	out := make([][]float64, len(vectors))
	for i, v := range vectors {
		combined := make([]float64, len(v)+1)
		copy(combined, v)
		combined[len(v)] = feature[i]
		out[i] = combined
	}
	return out
}

func cosineWithNorms(a, b []float64, normA, normB float64) float64 {
	if normA == 0 || normB == 0 {
		return 0
	}
	var dot float64
	for k := range a {
		dot += a[k] * b[k]
	}
	return dot / (normA * normB)
}

func norm(v []float64) float64 {
	var sumSq float64
	for _, x := range v {
		sumSq += x * x
	}
	return math.Sqrt(sumSq)
}
