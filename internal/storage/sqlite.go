package storage

import (
	"fmt"

	"github.com/khanglvm/movie-recommender/internal/logging"
)

// runMigrations executes database schema migrations.
// Caller must hold s.mu.
func (s *SQLiteStorage) runMigrations() error {
	if s.db == nil {
		return nil
	}

	if err := s.createMigrationsTable(); err != nil {
		return err
	}

	version, err := s.getCurrentMigrationVersion()
	if err != nil {
		return err
	}

	migrations := []migration{
		{version: 1, name: "recommendation_history", up: s.migration001RecommendationHistory},
	}

	for _, m := range migrations {
		if version < m.version {
			logging.Info().Int("version", m.version).Str("name", m.name).Msg("Running migration")
			if err := m.up(); err != nil {
				return fmt.Errorf("migration %d failed: %w", m.version, err)
			}
			if err := s.setMigrationVersion(m.version, m.name); err != nil {
				return err
			}
		}
	}

	return nil
}

// migration represents a single database migration.
type migration struct {
	version int
	name    string
	up      func() error
}

// createMigrationsTable creates the schema_migrations table.
func (s *SQLiteStorage) createMigrationsTable() error {
	query := `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			applied_at TEXT NOT NULL DEFAULT (datetime('now'))
		)
	`
	_, err := s.db.Exec(query)
	return err
}

// getCurrentMigrationVersion returns the highest applied migration version.
func (s *SQLiteStorage) getCurrentMigrationVersion() (int, error) {
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")

	var version int
	if err := row.Scan(&version); err != nil {
		return 0, err
	}

	return version, nil
}

// setMigrationVersion records a migration as applied.
func (s *SQLiteStorage) setMigrationVersion(version int, name string) error {
	_, err := s.db.Exec("INSERT INTO schema_migrations (version, name) VALUES (?, ?)", version, name)
	return err
}

// migration001RecommendationHistory creates the recommendation_history table.
func (s *SQLiteStorage) migration001RecommendationHistory() error {
	if _, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS recommendation_history (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			event_id TEXT NOT NULL UNIQUE,
			request_id TEXT NOT NULL DEFAULT '',
			query TEXT NOT NULL,
			outcome TEXT NOT NULL,
			results_count INTEGER NOT NULL,
			duration_us INTEGER NOT NULL,
			timestamp TEXT NOT NULL
		)
	`); err != nil {
		return fmt.Errorf("failed to create recommendation_history table: %w", err)
	}

	if _, err := s.db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_recommendation_history_query
		ON recommendation_history(query)
	`); err != nil {
		return fmt.Errorf("failed to create recommendation_history query index: %w", err)
	}

	if _, err := s.db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_recommendation_history_timestamp
		ON recommendation_history(timestamp DESC)
	`); err != nil {
		return fmt.Errorf("failed to create recommendation_history timestamp index: %w", err)
	}

	return nil
}
