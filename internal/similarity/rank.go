package similarity

import "sort"

// Scored pairs a catalog index with its similarity to the query.
type Scored struct {
	Index int
	Score float64
}

// Rank orders the entries of row by score descending, breaking ties by
// ascending index, skips every index for which exclude returns true, and
// keeps at most limit entries. A nil exclude keeps everything.
func Rank(row []float64, exclude func(int) bool, limit int) []Scored {
	scored := make([]Scored, 0, len(row))
	for i, score := range row {
		if exclude != nil && exclude(i) {
			continue
		}
		scored = append(scored, Scored{Index: i, Score: score})
	}

	sort.Slice(scored, func(a, b int) bool {
		if scored[a].Score != scored[b].Score {
			return scored[a].Score > scored[b].Score
		}
		return scored[a].Index < scored[b].Index
	})

	if limit >= 0 && len(scored) > limit {
		scored = scored[:limit]
	}
	return scored
}
