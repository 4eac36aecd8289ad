package storage

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/khanglvm/movie-recommender/internal/logging"
)

// timeLayout is fixed-width so stored timestamps compare lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

// RecordRecommendations stores a batch of served requests in one transaction.
// Records with an ID that was already stored are skipped; records without
// an ID get a fresh one.
func (s *SQLiteStorage) RecordRecommendations(records []RecommendationRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.enabled || s.db == nil || len(records) == 0 {
		return nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT OR IGNORE INTO recommendation_history
			(event_id, request_id, query, outcome, results_count, duration_us, timestamp)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range records {
		if r.ID == "" {
			r.ID = uuid.NewString()
		}
		if _, err := stmt.Exec(
			r.ID,
			r.RequestID,
			r.Query,
			r.Outcome,
			r.ResultsCount,
			r.Duration.Microseconds(),
			formatTime(r.Timestamp),
		); err != nil {
			return fmt.Errorf("failed to record recommendation %s: %w", r.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit recommendations: %w", err)
	}
	return nil
}

// GetHistory returns records for query since a given time, newest first.
func (s *SQLiteStorage) GetHistory(query string, since time.Time) ([]RecommendationRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.enabled || s.db == nil {
		return []RecommendationRecord{}, nil
	}

	rows, err := s.db.Query(`
		SELECT event_id, request_id, query, outcome, results_count, duration_us, timestamp
		FROM recommendation_history
		WHERE query = ? AND timestamp >= ?
		ORDER BY timestamp DESC, id DESC
	`, query, formatTime(since))
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	records := []RecommendationRecord{}
	for rows.Next() {
		var (
			r          RecommendationRecord
			durationUS int64
			ts         string
		)
		if err := rows.Scan(&r.ID, &r.RequestID, &r.Query, &r.Outcome, &r.ResultsCount, &durationUS, &ts); err != nil {
			return nil, fmt.Errorf("failed to scan history row: %w", err)
		}
		r.Duration = time.Duration(durationUS) * time.Microsecond
		r.Timestamp, _ = time.Parse(timeLayout, ts)
		records = append(records, r)
	}

	return records, rows.Err()
}

// TopQueries returns the most requested queries since a given time,
// ordered by request count then most recent request.
func (s *SQLiteStorage) TopQueries(since time.Time, limit int) ([]QueryCount, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.enabled || s.db == nil {
		return []QueryCount{}, nil
	}
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.Query(`
		SELECT query, COUNT(*) AS n, MAX(timestamp) AS last_seen
		FROM recommendation_history
		WHERE timestamp >= ?
		GROUP BY query
		ORDER BY n DESC, last_seen DESC, query ASC
		LIMIT ?
	`, formatTime(since), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query top queries: %w", err)
	}
	defer rows.Close()

	counts := []QueryCount{}
	for rows.Next() {
		var (
			qc QueryCount
			ts string
		)
		if err := rows.Scan(&qc.Query, &qc.Count, &ts); err != nil {
			return nil, fmt.Errorf("failed to scan top query row: %w", err)
		}
		qc.LastSeen, _ = time.Parse(timeLayout, ts)
		counts = append(counts, qc)
	}

	return counts, rows.Err()
}

// Cleanup removes records older than the retention period.
func (s *SQLiteStorage) Cleanup(retention time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.enabled || s.db == nil || retention <= 0 {
		return nil
	}

	cutoff := formatTime(time.Now().Add(-retention))

	res, err := s.db.Exec("DELETE FROM recommendation_history WHERE timestamp < ?", cutoff)
	if err != nil {
		return fmt.Errorf("failed to cleanup recommendation_history: %w", err)
	}

	if n, _ := res.RowsAffected(); n > 0 {
		logging.Info().Int64("deleted", n).Msg("Cleaned up recommendation history")
		if _, err := s.db.Exec("VACUUM"); err != nil {
			logging.Warn().Err(err).Msg("Failed to vacuum database")
		}
	}

	return nil
}
