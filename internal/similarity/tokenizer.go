package similarity

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/blevesearch/bleve/v2/analysis"
	"github.com/blevesearch/bleve/v2/analysis/token/lowercase"
	bleveunicode "github.com/blevesearch/bleve/v2/analysis/tokenizer/unicode"
)

// Tokenizer names accepted by NewTokenizer.
const (
	TokenizerWhitespace = "whitespace"
	TokenizerWord       = "word"
)

// Tokenizer splits a features string into terms.
// Implementations must be safe for concurrent use.
type Tokenizer interface {
	Tokenize(text string) []string
}

// WhitespaceTokenizer splits on runs of whitespace and lower-cases each term.
// "sci-fi" stays a single term.
type WhitespaceTokenizer struct{}

// Tokenize implements Tokenizer.
func (WhitespaceTokenizer) Tokenize(text string) []string {
	fields := strings.Fields(text)
	for i, f := range fields {
		fields[i] = strings.ToLower(f)
	}
	return fields
}

// WordTokenizer segments text on Unicode word boundaries, lower-cases the
// result and drops terms shorter than MinLength runes. "sci-fi" becomes
// "sci" and "fi", and with the default MinLength of 2 single-letter words
// are discarded.
type WordTokenizer struct {
	MinLength int

	tokenizer analysis.Tokenizer
	filter    analysis.TokenFilter
}

// NewWordTokenizer returns a WordTokenizer with MinLength 2.
func NewWordTokenizer() *WordTokenizer {
	return &WordTokenizer{
		MinLength: 2,
		tokenizer: bleveunicode.NewUnicodeTokenizer(),
		filter:    lowercase.NewLowerCaseFilter(),
	}
}

// Tokenize implements Tokenizer.
func (w *WordTokenizer) Tokenize(text string) []string {
	stream := w.filter.Filter(w.tokenizer.Tokenize([]byte(text)))

	terms := make([]string, 0, len(stream))
	for _, tok := range stream {
		if utf8.RuneCount(tok.Term) < w.MinLength {
			continue
		}
		terms = append(terms, string(tok.Term))
	}
	return terms
}

// NewTokenizer returns the tokenizer registered under name.
// An empty name selects the whitespace tokenizer.
func NewTokenizer(name string) (Tokenizer, error) {
	switch name {
	case "", TokenizerWhitespace:
		return WhitespaceTokenizer{}, nil
	case TokenizerWord:
		return NewWordTokenizer(), nil
	default:
		return nil, fmt.Errorf("unknown tokenizer: %q", name)
	}
}
