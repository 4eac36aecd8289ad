package search

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/index/scorch"
	"github.com/blevesearch/bleve/v2/mapping"
	"github.com/khanglvm/movie-recommender/internal/catalog"
	"github.com/khanglvm/movie-recommender/internal/logging"
)

// batchSize bounds the number of documents per Bleve batch.
const batchSize = 500

// Indexer manages the title index for the catalog.
// Searches return no matches until IndexCatalog has completed once.
type Indexer struct {
	bleveIndex bleve.Index
	mu         sync.RWMutex
	indexPath  string
	ready      atomic.Bool
}

// NewIndexer creates a new search indexer with in-memory Bleve index.
func NewIndexer() (*Indexer, error) {
	index, err := bleve.NewMemOnly(buildIndexMapping())
	if err != nil {
		return nil, fmt.Errorf("failed to create bleve index: %w", err)
	}

	return &Indexer{bleveIndex: index}, nil
}

// NewIndexerWithPath creates a new indexer with persistent disk storage,
// reopening the index at indexPath if one exists.
func NewIndexerWithPath(indexPath string) (*Indexer, error) {
	if err := os.MkdirAll(filepath.Dir(indexPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create index directory: %w", err)
	}

	index, err := bleve.NewUsing(indexPath, buildIndexMapping(), scorch.Name, scorch.Name, nil)
	if err != nil {
		// If index exists, open it
		index, err = bleve.Open(indexPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open/create index: %w", err)
		}
	}

	return &Indexer{
		bleveIndex: index,
		indexPath:  indexPath,
	}, nil
}

// buildIndexMapping creates the Bleve index mapping.
func buildIndexMapping() mapping.IndexMapping {
	movieMapping := bleve.NewDocumentMapping()

	// Title: searchable and stored for retrieval
	titleFieldMapping := bleve.NewTextFieldMapping()
	movieMapping.AddFieldMappingsAt("title", titleFieldMapping)

	indexMapping := bleve.NewIndexMapping()
	indexMapping.AddDocumentMapping("_default", movieMapping)

	return indexMapping
}

// IndexCatalog indexes the title of every movie of c. Document IDs are
// catalog row indices, so duplicate titles stay distinct documents. Rows
// left over from a larger catalog in a persistent index are removed.
//
// Searches running concurrently are not blocked; they see no matches until
// indexing completes.
func (i *Indexer) IndexCatalog(c *catalog.Catalog) error {
	i.mu.RLock()
	defer i.mu.RUnlock()

	previous, err := i.bleveIndex.DocCount()
	if err != nil {
		return fmt.Errorf("failed to get doc count: %w", err)
	}

	batch := i.bleveIndex.NewBatch()
	flush := func() error {
		if batch.Size() == 0 {
			return nil
		}
		if err := i.bleveIndex.Batch(batch); err != nil {
			return fmt.Errorf("failed to batch index movies: %w", err)
		}
		batch = i.bleveIndex.NewBatch()
		return nil
	}

	for row := 0; row < c.Len(); row++ {
		m := c.Movie(row)
		if err := batch.Index(strconv.Itoa(row), map[string]interface{}{"title": m.Title}); err != nil {
			logging.Warn().Err(err).Str("title", m.Title).Msg("Failed to index movie")
			continue
		}
		if batch.Size() >= batchSize {
			if err := flush(); err != nil {
				return err
			}
		}
	}

	for row := c.Len(); row < int(previous); row++ {
		batch.Delete(strconv.Itoa(row))
		if batch.Size() >= batchSize {
			if err := flush(); err != nil {
				return err
			}
		}
	}

	if err := flush(); err != nil {
		return err
	}

	i.ready.Store(true)
	return nil
}

// Ready reports whether the catalog has been indexed.
func (i *Indexer) Ready() bool {
	return i.ready.Load()
}

// Count returns the total number of indexed movies.
func (i *Indexer) Count() (uint64, error) {
	i.mu.RLock()
	defer i.mu.RUnlock()

	docCount, err := i.bleveIndex.DocCount()
	if err != nil {
		return 0, fmt.Errorf("failed to get doc count: %w", err)
	}

	return docCount, nil
}

// Close closes the index and releases resources.
func (i *Indexer) Close() error {
	i.mu.Lock()
	defer i.mu.Unlock()

	if i.bleveIndex != nil {
		return i.bleveIndex.Close()
	}

	return nil
}
