/*
Package storage implements persistent recommendation history.

This package provides SQLite-based storage of served recommendation
requests, with graceful degradation if the database is unavailable: a
storage that failed to initialize turns every operation into a no-op.

The database defaults to ~/.movie-recommender/history.db and uses
modernc.org/sqlite (a pure Go, CGo-free implementation).
*/
package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/khanglvm/movie-recommender/internal/logging"
	_ "modernc.org/sqlite"
)

// Storage defines the interface for persistent storage operations.
type Storage interface {
	// Init initializes the database and runs migrations.
	Init() error

	// RecordRecommendations stores a batch of served requests.
	RecordRecommendations(records []RecommendationRecord) error

	// GetHistory returns records for a normalized query since a given time, newest first.
	GetHistory(query string, since time.Time) ([]RecommendationRecord, error)

	// TopQueries returns the most requested queries since a given time.
	TopQueries(since time.Time, limit int) ([]QueryCount, error)

	// Cleanup removes records older than the retention period.
	Cleanup(retention time.Duration) error

	// Close closes the database connection.
	Close() error
}

// SQLiteStorage implements the Storage interface using SQLite.
type SQLiteStorage struct {
	db       *sql.DB
	dbPath   string
	enabled  bool
	mu       sync.Mutex
	initOnce sync.Once
}

// DefaultPath returns ~/.movie-recommender/history.db.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".movie-recommender", "history.db"), nil
}

// NewStorage creates a new SQLite storage instance at dbPath.
//
// An empty path selects DefaultPath. If no path can be determined the
// storage is disabled but operations will not fail.
func NewStorage(dbPath string) *SQLiteStorage {
	if dbPath == "" {
		p, err := DefaultPath()
		if err != nil {
			logging.Warn().Err(err).Msg("History storage disabled")
			return &SQLiteStorage{enabled: false}
		}
		dbPath = p
	}

	return &SQLiteStorage{
		dbPath:  dbPath,
		enabled: true,
	}
}

// Path returns the database file path.
func (s *SQLiteStorage) Path() string {
	return s.dbPath
}

// Enabled reports whether the storage is usable.
func (s *SQLiteStorage) Enabled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.enabled && s.db != nil
}

// Init initializes the database and runs migrations.
//
// If initialization fails, storage is disabled and subsequent operations
// become no-ops (graceful degradation).
func (s *SQLiteStorage) Init() error {
	if !s.enabled {
		return nil
	}

	var initErr error
	s.initOnce.Do(func() {
		s.mu.Lock()
		defer s.mu.Unlock()

		if err := os.MkdirAll(filepath.Dir(s.dbPath), 0755); err != nil {
			initErr = fmt.Errorf("failed to create db directory: %w", err)
			s.enabled = false
			return
		}

		db, err := sql.Open("sqlite", s.dbPath)
		if err != nil {
			initErr = fmt.Errorf("failed to open database: %w", err)
			s.enabled = false
			return
		}
		// SQLite serializes writers; one connection avoids SQLITE_BUSY.
		db.SetMaxOpenConns(1)
		s.db = db

		if err := db.Ping(); err != nil {
			initErr = fmt.Errorf("failed to ping database: %w", err)
			s.disable()
			return
		}

		if err := s.runMigrations(); err != nil {
			initErr = fmt.Errorf("failed to run migrations: %w", err)
			s.disable()
			return
		}
	})

	if initErr != nil {
		logging.Warn().Err(initErr).Str("path", s.dbPath).Msg("History storage disabled")
	}
	return initErr
}

// disable closes any open handle and turns the storage into a no-op.
// Caller must hold s.mu.
func (s *SQLiteStorage) disable() {
	if s.db != nil {
		s.db.Close()
		s.db = nil
	}
	s.enabled = false
}

// Close closes the database connection.
func (s *SQLiteStorage) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.enabled || s.db == nil {
		return nil
	}

	if err := s.db.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}

	s.db = nil
	return nil
}
