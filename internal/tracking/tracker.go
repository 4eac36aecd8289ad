package tracking

import (
	"sync"
	"time"

	"github.com/khanglvm/movie-recommender/internal/logging"
	"github.com/khanglvm/movie-recommender/internal/metrics"
	"github.com/khanglvm/movie-recommender/internal/storage"
)

const (
	// eventQueueSize is the buffer size for the event queue.
	// If full, events are dropped (non-blocking).
	eventQueueSize = 1000

	// batchFlushSize is the number of events that triggers an immediate flush.
	batchFlushSize = 50

	// flushInterval is how often pending events are flushed.
	flushInterval = 200 * time.Millisecond
)

// Tracker records recommendation events in the background with non-blocking writes.
// Whether it is enabled is decided once, when it is created.
type Tracker struct {
	storage    storage.Storage
	eventQueue chan Event
	stopChan   chan struct{}
	stopOnce   sync.Once
	wg         sync.WaitGroup
	enabled    bool
}

// NewTracker creates a new tracker with background processing.
// A nil storage, or one that fails to initialize, yields a disabled tracker.
func NewTracker(s storage.Storage) *Tracker {
	t := &Tracker{
		storage:    s,
		eventQueue: make(chan Event, eventQueueSize),
		stopChan:   make(chan struct{}),
		enabled:    s != nil,
	}

	if s != nil {
		if err := s.Init(); err != nil {
			logging.Warn().Err(err).Msg("Recommendation history disabled")
			t.enabled = false
		}
	}

	t.wg.Add(1)
	go t.processEvents()

	return t
}

// Track queues an event (non-blocking).
// If the queue is full, the event is dropped and a warning is logged.
func (t *Tracker) Track(event Event) {
	if !t.enabled {
		return
	}

	select {
	case t.eventQueue <- event:
	default:
		metrics.HistoryEventsDropped.Inc()
		logging.Warn().Str("query", event.Query).Msg("History queue full, dropping event")
	}
}

// Stop gracefully shuts down the tracker, flushing queued events.
func (t *Tracker) Stop() {
	t.stopOnce.Do(func() {
		close(t.stopChan)
		t.wg.Wait()
	})
}

// IsEnabled returns whether tracking is enabled.
func (t *Tracker) IsEnabled() bool {
	return t.enabled
}

// processEvents runs in the background, batching and flushing events.
func (t *Tracker) processEvents() {
	defer t.wg.Done()

	ticker := time.NewTicker(flushInterval)
	defer ticker.Stop()

	batch := make([]Event, 0, batchFlushSize)

	for {
		select {
		case event := <-t.eventQueue:
			batch = append(batch, event)
			if len(batch) >= batchFlushSize {
				t.flush(batch)
				batch = batch[:0]
			}

		case <-ticker.C:
			if len(batch) > 0 {
				t.flush(batch)
				batch = batch[:0]
			}

		case <-t.stopChan:
			// Drain whatever is still queued, then flush and exit.
			for {
				select {
				case event := <-t.eventQueue:
					batch = append(batch, event)
					if len(batch) >= batchFlushSize {
						t.flush(batch)
						batch = batch[:0]
					}
				default:
					t.flush(batch)
					return
				}
			}
		}
	}
}

// flush writes a batch of events to storage.
func (t *Tracker) flush(events []Event) {
	if len(events) == 0 || t.storage == nil {
		return
	}

	records := make([]storage.RecommendationRecord, 0, len(events))
	for _, e := range events {
		records = append(records, e.ToStorage())
	}

	if err := t.storage.RecordRecommendations(records); err != nil {
		logging.Warn().Err(err).Int("events", len(records)).Msg("Failed to record recommendation history")
	}
}

// QueueSize returns the number of events waiting to be written.
func (t *Tracker) QueueSize() int {
	if t == nil {
		return 0
	}
	return len(t.eventQueue)
}
