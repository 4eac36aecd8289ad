/*
Package search implements fuzzy and prefix title lookup over the catalog.

Titles are indexed in an in-memory Bleve index so clients can resolve a
partially typed or misspelled title to the catalog title that the
recommendation endpoint expects.
*/
package search

// SearchResult represents a single title match with relevance score.
type SearchResult struct {
	Title string  `json:"title"`
	Index int     `json:"-"`
	Score float64 `json:"score"`
}
