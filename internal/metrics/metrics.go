/*
Package metrics defines the Prometheus collectors exported on /metrics.

Collectors are registered with the default registry at package init.
*/
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "movierec_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "movierec_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	// Recommendations
	RecommendationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "movierec_recommendation_duration_seconds",
			Help:    "Time to produce a recommendation list, including matrix builds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"policy"},
	)

	RecommendationOutcomes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "movierec_recommendation_outcomes_total",
			Help: "Recommendation requests by outcome",
		},
		[]string{"outcome"},
	)

	SimilarityMatrixBuilds = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "movierec_similarity_matrix_builds_total",
			Help: "Number of term-count and similarity matrix builds",
		},
	)

	SimilarityMatrixBuildDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "movierec_similarity_matrix_build_duration_seconds",
			Help:    "Time to build the term-count and similarity matrices",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
	)

	// Catalog
	CatalogMovies = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "movierec_catalog_movies",
			Help: "Number of movies in the loaded catalog",
		},
	)

	// History
	HistoryEventsDropped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "movierec_history_events_dropped_total",
			Help: "Recommendation history events dropped because the queue was full",
		},
	)
)

// RecordHTTPRequest records one served request.
func RecordHTTPRequest(method, route string, status int, duration time.Duration) {
	code := strconv.Itoa(status)
	HTTPRequestDuration.WithLabelValues(method, route, code).Observe(duration.Seconds())
	HTTPRequestsTotal.WithLabelValues(method, route, code).Inc()
}

// RecordRecommendation records the duration and outcome of one recommendation.
func RecordRecommendation(policy, outcome string, duration time.Duration) {
	RecommendationDuration.WithLabelValues(policy).Observe(duration.Seconds())
	RecommendationOutcomes.WithLabelValues(outcome).Inc()
}

// RecordMatrixBuild records one matrix build.
func RecordMatrixBuild(duration time.Duration) {
	SimilarityMatrixBuilds.Inc()
	SimilarityMatrixBuildDuration.Observe(duration.Seconds())
}
