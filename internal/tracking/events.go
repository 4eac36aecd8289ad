/*
Package tracking records served recommendations in the background.

Events are queued without blocking the request path and written to
storage in batches; when the queue is full events are dropped.
*/
package tracking

import (
	"time"

	"github.com/google/uuid"
	"github.com/khanglvm/movie-recommender/internal/similarity"
	"github.com/khanglvm/movie-recommender/internal/storage"
)

// Event represents one served recommendation request.
type Event struct {
	// ID uniquely identifies the event. NewEvent always generates it.
	ID string

	// RequestID correlates the event with the HTTP request log line. It is
	// supplied by the client or the router and need not be unique.
	RequestID string

	// Query is the normalized title that was requested.
	Query string

	// Outcome is the engine outcome.
	Outcome similarity.Outcome

	// ResultsCount is the number of titles returned.
	ResultsCount int

	// Duration is the engine's computation time.
	Duration time.Duration

	// Timestamp is when the request was served.
	Timestamp time.Time
}

// NewEvent creates an event from an engine result with a fresh UUID.
func NewEvent(requestID string, res similarity.Result) Event {
	return Event{
		ID:           uuid.NewString(),
		RequestID:    requestID,
		Query:        res.Query,
		Outcome:      res.Outcome,
		ResultsCount: len(res.Titles),
		Duration:     res.Duration,
		Timestamp:    time.Now(),
	}
}

// ToStorage converts a tracking event to the storage model.
func (e Event) ToStorage() storage.RecommendationRecord {
	return storage.RecommendationRecord{
		ID:           e.ID,
		RequestID:    e.RequestID,
		Query:        e.Query,
		Outcome:      e.Outcome.String(),
		ResultsCount: e.ResultsCount,
		Duration:     e.Duration,
		Timestamp:    e.Timestamp,
	}
}
