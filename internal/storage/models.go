package storage

import "time"

// RecommendationRecord represents one served recommendation request.
type RecommendationRecord struct {
	// ID is the unique identifier of the record (UUID).
	ID string `json:"id"`

	// RequestID is the HTTP request ID, kept for log correlation. It may repeat.
	RequestID string `json:"request_id,omitempty"`

	// Query is the normalized (lower-cased, trimmed) title that was requested.
	Query string `json:"query"`

	// Outcome is the engine outcome name, e.g. "ok" or "not_found".
	Outcome string `json:"outcome"`

	// ResultsCount is the number of titles returned.
	ResultsCount int `json:"results_count"`

	// Duration is the time taken to compute the recommendation.
	Duration time.Duration `json:"duration"`

	// Timestamp is when the request was served.
	Timestamp time.Time `json:"timestamp"`
}

// QueryCount aggregates requests for one query.
type QueryCount struct {
	Query    string    `json:"query"`
	Count    int       `json:"count"`
	LastSeen time.Time `json:"last_seen"`
}
