package similarity

import (
	"errors"
	"math"
	"sort"
)

var (
	// ErrEmptyCorpus is returned when there are no documents to vectorize.
	ErrEmptyCorpus = errors.New("no documents to vectorize")

	// ErrEmptyVocabulary is returned when no document produced a single term.
	ErrEmptyVocabulary = errors.New("empty vocabulary")
)

// Vocabulary maps each distinct term to a column index.
// Terms are ordered lexically so the mapping is stable across builds.
type Vocabulary struct {
	terms []string
	index map[string]int
}

// BuildVocabulary collects the distinct terms of the tokenized documents.
func BuildVocabulary(docs [][]string) *Vocabulary {
	seen := make(map[string]struct{})
	for _, doc := range docs {
		for _, term := range doc {
			seen[term] = struct{}{}
		}
	}

	terms := make([]string, 0, len(seen))
	for term := range seen {
		terms = append(terms, term)
	}
	sort.Strings(terms)

	index := make(map[string]int, len(terms))
	for i, term := range terms {
		index[term] = i
	}

	return &Vocabulary{terms: terms, index: index}
}

// Len returns the number of distinct terms.
func (v *Vocabulary) Len() int {
	return len(v.terms)
}

// Terms returns the vocabulary in column order.
func (v *Vocabulary) Terms() []string {
	out := make([]string, len(v.terms))
	copy(out, v.terms)
	return out
}

// Index returns the column of term.
func (v *Vocabulary) Index(term string) (int, bool) {
	i, ok := v.index[term]
	return i, ok
}

// Vector is a sparse row of term counts. Indices are strictly increasing.
type Vector struct {
	Indices []int
	Values  []float64
}

// Norm returns the Euclidean length of v.
func (v Vector) Norm() float64 {
	var sum float64
	for _, x := range v.Values {
		sum += x * x
	}
	return math.Sqrt(sum)
}

// Dot returns the inner product of a and b.
func Dot(a, b Vector) float64 {
	var sum float64
	i, j := 0, 0
	for i < len(a.Indices) && j < len(b.Indices) {
		switch {
		case a.Indices[i] == b.Indices[j]:
			sum += a.Values[i] * b.Values[j]
			i++
			j++
		case a.Indices[i] < b.Indices[j]:
			i++
		default:
			j++
		}
	}
	return sum
}

// TermMatrix holds one count vector per document, aligned with the input order.
type TermMatrix struct {
	Vocabulary *Vocabulary
	Rows       []Vector
}

// BuildTermMatrix tokenizes docs, derives a fresh vocabulary from them, and
// counts every term occurrence per document.
func BuildTermMatrix(docs []string, tok Tokenizer) (*TermMatrix, error) {
	if len(docs) == 0 {
		return nil, ErrEmptyCorpus
	}

	tokenized := make([][]string, len(docs))
	for i, doc := range docs {
		tokenized[i] = tok.Tokenize(doc)
	}

	vocab := BuildVocabulary(tokenized)
	if vocab.Len() == 0 {
		return nil, ErrEmptyVocabulary
	}

	rows := make([]Vector, len(docs))
	for i, terms := range tokenized {
		counts := make(map[int]float64, len(terms))
		for _, term := range terms {
			counts[vocab.index[term]]++
		}

		indices := make([]int, 0, len(counts))
		for col := range counts {
			indices = append(indices, col)
		}
		sort.Ints(indices)

		values := make([]float64, len(indices))
		for k, col := range indices {
			values[k] = counts[col]
		}
		rows[i] = Vector{Indices: indices, Values: values}
	}

	return &TermMatrix{Vocabulary: vocab, Rows: rows}, nil
}

// Count returns the occurrences of term in row i.
func (m *TermMatrix) Count(i int, term string) float64 {
	col, ok := m.Vocabulary.Index(term)
	if !ok {
		return 0
	}
	row := m.Rows[i]
	k := sort.SearchInts(row.Indices, col)
	if k < len(row.Indices) && row.Indices[k] == col {
		return row.Values[k]
	}
	return 0
}
