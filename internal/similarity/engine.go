/*
Package similarity implements content-based movie recommendations.

Each movie's combined-features string is vectorized into raw term counts
over a vocabulary derived from the whole catalog; movies are compared by
the cosine of the angle between their count vectors, and the most similar
titles are returned in ranked order.

Two build policies are supported. PolicyRecompute rebuilds the term-count
and similarity matrices on every call, costing O(n·v) plus O(n²·v) per
request for n movies and v terms. PolicyCached builds them once per Engine
on first use and reuses them, which is sound because a Catalog never
changes after construction.
*/
package similarity

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/khanglvm/movie-recommender/internal/catalog"
	"github.com/khanglvm/movie-recommender/internal/logging"
	"github.com/khanglvm/movie-recommender/internal/metrics"
)

// DefaultLimit is the number of titles returned per recommendation.
const DefaultLimit = 19

// Policy controls when the matrices are built.
type Policy string

const (
	PolicyRecompute Policy = "recompute"
	PolicyCached    Policy = "cached"
)

// ParsePolicy validates a policy name. An empty name selects PolicyRecompute.
func ParsePolicy(name string) (Policy, error) {
	switch Policy(name) {
	case "", PolicyRecompute:
		return PolicyRecompute, nil
	case PolicyCached:
		return PolicyCached, nil
	default:
		return "", fmt.Errorf("unknown similarity policy: %q", name)
	}
}

// Outcome classifies a recommendation result.
type Outcome int

const (
	// OutcomeOK means the query was found and ranked.
	OutcomeOK Outcome = iota
	// OutcomeNotFound means the query title is not in the catalog.
	OutcomeNotFound
	// OutcomeEmptyCatalog means there was nothing to compare against.
	OutcomeEmptyCatalog
	// OutcomeComputeFailed means the matrices could not be built.
	OutcomeComputeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeOK:
		return "ok"
	case OutcomeNotFound:
		return "not_found"
	case OutcomeEmptyCatalog:
		return "empty_catalog"
	case OutcomeComputeFailed:
		return "compute_failed"
	default:
		return "unknown"
	}
}

// Result is the outcome of a single Recommend call.
// Titles is never nil.
type Result struct {
	Query    string
	Titles   []string
	Outcome  Outcome
	Err      error
	Duration time.Duration
}

// Engine produces recommendations over a fixed catalog.
// It is safe for concurrent use.
type Engine struct {
	catalog   *catalog.Catalog
	limit     int
	policy    Policy
	tokenizer Tokenizer

	once      sync.Once
	cached    *Matrix
	cachedErr error
}

// Option configures an Engine.
type Option func(*Engine)

// WithLimit sets the maximum number of titles returned. Values below 1 are ignored.
func WithLimit(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.limit = n
		}
	}
}

// WithPolicy selects the matrix build policy.
func WithPolicy(p Policy) Option {
	return func(e *Engine) {
		if p != "" {
			e.policy = p
		}
	}
}

// WithTokenizer selects how features strings are split into terms.
func WithTokenizer(t Tokenizer) Option {
	return func(e *Engine) {
		if t != nil {
			e.tokenizer = t
		}
	}
}

// NewEngine creates an engine over c. A nil catalog behaves as empty.
func NewEngine(c *catalog.Catalog, opts ...Option) *Engine {
	if c == nil {
		c = catalog.Empty()
	}

	e := &Engine{
		catalog:   c,
		limit:     DefaultLimit,
		policy:    PolicyRecompute,
		tokenizer: WhitespaceTokenizer{},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Policy returns the engine's build policy.
func (e *Engine) Policy() Policy {
	return e.policy
}

// Limit returns the maximum number of titles per result.
func (e *Engine) Limit() int {
	return e.limit
}

// Matrix returns the similarity matrix for the catalog, building it
// according to the engine's policy.
func (e *Engine) Matrix() (*Matrix, error) {
	if e.policy == PolicyCached {
		e.once.Do(func() {
			e.cached, e.cachedErr = e.build()
		})
		if e.cached == nil && e.cachedErr == nil {
			return nil, errors.New("similarity matrix unavailable")
		}
		return e.cached, e.cachedErr
	}
	return e.build()
}

func (e *Engine) build() (*Matrix, error) {
	start := time.Now()

	terms, err := BuildTermMatrix(e.catalog.Features(), e.tokenizer)
	if err != nil {
		return nil, fmt.Errorf("build term matrix: %w", err)
	}
	m := NewSimilarityMatrix(terms)

	elapsed := time.Since(start)
	metrics.RecordMatrixBuild(elapsed)
	logging.Debug().
		Int("movies", m.Size()).
		Int("terms", terms.Vocabulary.Len()).
		Dur("elapsed", elapsed).
		Str("policy", string(e.policy)).
		Msg("Built similarity matrix")

	return m, nil
}

// Recommend returns up to Limit titles most similar to title, ranked by
// similarity descending and catalog order on ties. The row the title
// resolves to is never part of the result, even when another movie ties it
// at similarity 1. Other rows sharing the title are distinct movies and are
// ranked like any other, so the result is only short of Limit when the
// catalog has no more movies.
// Recommend never panics; failures are reported through Result.Outcome.
func (e *Engine) Recommend(title string) (res Result) {
	start := time.Now()
	query := catalog.NormalizeTitle(title)
	res = Result{Query: query, Titles: []string{}}

	defer func() {
		if r := recover(); r != nil {
			res.Titles = []string{}
			res.Outcome = OutcomeComputeFailed
			res.Err = fmt.Errorf("recommend %q: panic: %v", query, r)
		}
		res.Duration = time.Since(start)
		e.observe(res)
	}()

	if e.catalog.Len() == 0 {
		res.Outcome = OutcomeEmptyCatalog
		return res
	}

	idx, ok := e.catalog.IndexOf(query)
	if !ok {
		res.Outcome = OutcomeNotFound
		return res
	}

	m, err := e.Matrix()
	if err != nil {
		res.Outcome = OutcomeComputeFailed
		res.Err = err
		return res
	}

	exclude := func(i int) bool { return i == idx }
	for _, s := range Rank(m.Row(idx), exclude, e.limit) {
		res.Titles = append(res.Titles, e.catalog.DisplayTitle(s.Index))
	}
	res.Outcome = OutcomeOK
	return res
}

func (e *Engine) observe(res Result) {
	metrics.RecordRecommendation(string(e.policy), res.Outcome.String(), res.Duration)

	switch res.Outcome {
	case OutcomeOK:
		logging.Debug().Str("query", res.Query).Int("results", len(res.Titles)).Dur("elapsed", res.Duration).Msg("Recommendation served")
	case OutcomeNotFound:
		logging.Info().Str("query", res.Query).Msg("Movie not found")
	case OutcomeEmptyCatalog:
		logging.Warn().Str("query", res.Query).Msg("Recommendation requested on empty catalog")
	case OutcomeComputeFailed:
		logging.Error().Err(res.Err).Str("query", res.Query).Msg("Failed to create similarity matrix")
	}
}

// IsDegenerate reports whether err came from a catalog that cannot be vectorized.
func IsDegenerate(err error) bool {
	return errors.Is(err, ErrEmptyCorpus) || errors.Is(err, ErrEmptyVocabulary)
}
