package similarity

// cosine computes the cosine similarity of two vectors given their norms.
// A zero norm on either side yields 0, so a movie without terms is similar
// to nothing, itself included.
func cosine(a, b Vector, normA, normB float64) float64 {
	if normA == 0 || normB == 0 {
		return 0
	}

	sim := Dot(a, b) / (normA * normB)
	if sim > 1 {
		return 1
	}
	if sim < 0 {
		return 0
	}
	return sim
}

// Cosine returns the cosine similarity of a and b in [0, 1].
func Cosine(a, b Vector) float64 {
	return cosine(a, b, a.Norm(), b.Norm())
}

// Matrix is a dense, symmetric n×n similarity matrix.
type Matrix struct {
	n      int
	values []float64
}

// NewSimilarityMatrix computes every pairwise cosine similarity of the rows
// of m. The diagonal is exactly 1 for rows with at least one term and 0 for
// empty rows.
func NewSimilarityMatrix(m *TermMatrix) *Matrix {
	n := len(m.Rows)
	norms := make([]float64, n)
	for i, row := range m.Rows {
		norms[i] = row.Norm()
	}

	values := make([]float64, n*n)
	for i := 0; i < n; i++ {
		if norms[i] != 0 {
			values[i*n+i] = 1
		}
		for j := i + 1; j < n; j++ {
			sim := cosine(m.Rows[i], m.Rows[j], norms[i], norms[j])
			values[i*n+j] = sim
			values[j*n+i] = sim
		}
	}

	return &Matrix{n: n, values: values}
}

// Size returns n.
func (s *Matrix) Size() int {
	return s.n
}

// At returns the similarity of rows i and j.
func (s *Matrix) At(i, j int) float64 {
	return s.values[i*s.n+j]
}

// Row returns row i. The slice aliases the matrix and must not be modified.
func (s *Matrix) Row(i int) []float64 {
	return s.values[i*s.n : (i+1)*s.n]
}
