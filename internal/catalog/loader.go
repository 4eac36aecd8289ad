package catalog

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/khanglvm/movie-recommender/internal/logging"
)

// Column names required in the source header.
const (
	TitleColumn    = "movie_title"
	FeaturesColumn = "comb"
)

var (
	// ErrMissingColumn is returned when the header lacks a required column.
	ErrMissingColumn = errors.New("required column missing")

	// ErrEmptySource is returned when the source has no header row.
	ErrEmptySource = errors.New("data source is empty")
)

// LoadError describes why a data source could not be loaded.
type LoadError struct {
	Path string
	Op   string // "open", "header", "read"
	Err  error
}

func (e *LoadError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("catalog %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("catalog %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// Load reads the catalog at path. On any failure it logs the cause and
// returns an empty catalog so the rest of the service stays available.
func Load(path string) *Catalog {
	c, err := LoadFile(path)
	if err != nil {
		logging.Warn().Err(err).Str("path", path).Msg("Failed to load catalog, serving empty catalog")
		return Empty()
	}

	logging.Info().Str("path", path).Int("movies", c.Len()).Msg("Catalog loaded")
	return c
}

// LoadFile reads the catalog at path, returning a *LoadError on failure.
func LoadFile(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &LoadError{Path: path, Op: "open", Err: err}
	}
	defer f.Close()

	c, err := Read(f)
	if err != nil {
		var le *LoadError
		if errors.As(err, &le) {
			le.Path = path
		}
		return nil, err
	}
	return c, nil
}

// Read parses CSV with a header row containing movie_title and comb.
// Extra columns are ignored and column order is free.
func Read(r io.Reader) (*Catalog, error) {
	reader := csv.NewReader(r)
	reader.ReuseRecord = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &LoadError{Op: "header", Err: ErrEmptySource}
		}
		return nil, &LoadError{Op: "header", Err: err}
	}

	titleCol, featuresCol := -1, -1
	for i, name := range header {
		name = strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
		switch name {
		case TitleColumn:
			if titleCol < 0 {
				titleCol = i
			}
		case FeaturesColumn:
			if featuresCol < 0 {
				featuresCol = i
			}
		}
	}
	if titleCol < 0 {
		return nil, &LoadError{Op: "header", Err: fmt.Errorf("%w: %s", ErrMissingColumn, TitleColumn)}
	}
	if featuresCol < 0 {
		return nil, &LoadError{Op: "header", Err: fmt.Errorf("%w: %s", ErrMissingColumn, FeaturesColumn)}
	}

	var movies []Movie
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, &LoadError{Op: "read", Err: err}
		}

		movies = append(movies, Movie{
			Title:    record[titleCol],
			Features: record[featuresCol],
		})
	}

	return New(movies), nil
}
