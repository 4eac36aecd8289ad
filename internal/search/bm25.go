package search

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/search/query"
	"github.com/khanglvm/movie-recommender/internal/catalog"
)

// DefaultLimit is the number of matches returned when none is requested.
const DefaultLimit = 10

// MaxLimit caps the number of matches per search.
const MaxLimit = 100

// SearchTitles finds catalog titles matching text, tolerating one edit per
// term and treating the final term as a prefix so partially typed titles match.
func (i *Indexer) SearchTitles(text string, limit int) ([]SearchResult, error) {
	i.mu.RLock()
	defer i.mu.RUnlock()

	text = strings.TrimSpace(text)
	if text == "" || !i.ready.Load() {
		return []SearchResult{}, nil
	}

	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	searchRequest := bleve.NewSearchRequestOptions(buildTitleQuery(text), limit, 0, false)
	searchRequest.Fields = []string{"title"}

	results, err := i.bleveIndex.Search(searchRequest)
	if err != nil {
		return nil, fmt.Errorf("bleve search failed: %w", err)
	}

	return convertBleveResults(results), nil
}

// buildTitleQuery matches the whole text fuzzily, or its last word as a prefix.
func buildTitleQuery(text string) query.Query {
	match := bleve.NewMatchQuery(text)
	match.SetField("title")
	match.SetFuzziness(1)

	exact := bleve.NewMatchPhraseQuery(text)
	exact.SetField("title")
	exact.SetBoost(2)

	queries := []query.Query{match, exact}

	words := strings.Fields(strings.ToLower(text))
	if last := words[len(words)-1]; len(last) >= 2 {
		prefix := bleve.NewPrefixQuery(last)
		prefix.SetField("title")
		queries = append(queries, prefix)
	}

	return bleve.NewDisjunctionQuery(queries...)
}

// convertBleveResults converts Bleve search results to our SearchResult format.
func convertBleveResults(results *bleve.SearchResult) []SearchResult {
	searchResults := make([]SearchResult, 0, len(results.Hits))

	for _, hit := range results.Hits {
		title, _ := hit.Fields["title"].(string)
		row, err := strconv.Atoi(hit.ID)
		if err != nil {
			row = -1
		}

		searchResults = append(searchResults, SearchResult{
			Title: catalog.Capitalize(title),
			Index: row,
			Score: hit.Score,
		})
	}

	return searchResults
}
