/*
Package catalog holds the in-memory movie dataset.

A Catalog is built once at startup from a CSV file with at least the
movie_title and comb (combined features) columns, and is read-only after
that. Row positions are stable for the life of the value, which the
similarity engine relies on to align matrix rows with movies.
*/
package catalog

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Movie is a single catalog row.
type Movie struct {
	// Title is the lower-cased identity key.
	Title string `json:"title"`

	// Features is the whitespace-joined bag of descriptive tokens
	// (cast, genre, director, keywords).
	Features string `json:"features"`
}

// Catalog is an ordered, immutable sequence of movies.
// It is safe for concurrent use.
type Catalog struct {
	movies []Movie
	index  map[string]int
	exact  map[string]int
}

// New builds a catalog from movies in the given order.
// Titles are trimmed and lower-cased; the first occurrence of a title wins lookups.
func New(movies []Movie) *Catalog {
	c := &Catalog{
		movies: make([]Movie, len(movies)),
		index:  make(map[string]int, len(movies)),
		exact:  make(map[string]int, len(movies)),
	}

	for i, m := range movies {
		raw := strings.TrimSpace(m.Title)
		title := strings.ToLower(raw)
		c.movies[i] = Movie{Title: title, Features: m.Features}

		if _, seen := c.index[title]; !seen {
			c.index[title] = i
		}
		if _, seen := c.exact[raw]; !seen {
			c.exact[raw] = i
		}
	}

	return c
}

// Empty returns a catalog with no movies.
func Empty() *Catalog {
	return New(nil)
}

// Len returns the number of rows.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.movies)
}

// Movie returns the row at index i. It panics if i is out of range.
func (c *Catalog) Movie(i int) Movie {
	return c.movies[i]
}

// DisplayTitle returns the capitalized title of row i.
func (c *Catalog) DisplayTitle(i int) string {
	return Capitalize(c.movies[i].Title)
}

// Titles returns every title, capitalized for display, in catalog order.
func (c *Catalog) Titles() []string {
	titles := make([]string, 0, c.Len())
	for i := 0; i < c.Len(); i++ {
		titles = append(titles, c.DisplayTitle(i))
	}
	return titles
}

// Features returns the features column aligned with catalog order.
func (c *Catalog) Features() []string {
	features := make([]string, 0, c.Len())
	for i := 0; i < c.Len(); i++ {
		features = append(features, c.movies[i].Features)
	}
	return features
}

// IndexOf returns the first row whose title matches, ignoring case.
func (c *Catalog) IndexOf(title string) (int, bool) {
	if c.Len() == 0 {
		return 0, false
	}
	i, ok := c.index[NormalizeTitle(title)]
	return i, ok
}

// IndexOfExact returns the first row whose title matches the title as it
// appeared in the source, case-sensitively.
func (c *Catalog) IndexOfExact(title string) (int, bool) {
	if c.Len() == 0 {
		return 0, false
	}
	i, ok := c.exact[strings.TrimSpace(title)]
	return i, ok
}

// NormalizeTitle converts a user-supplied title to its lookup key.
func NormalizeTitle(title string) string {
	return strings.ToLower(strings.TrimSpace(title))
}

// Capitalize upper-cases the first rune of s and lower-cases the rest.
// Words after the first are not capitalized: "the dark knight" becomes
// "The dark knight".
func Capitalize(s string) string {
	if s == "" {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + strings.ToLower(s[size:])
}
