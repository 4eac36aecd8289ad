package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordHTTPRequest(t *testing.T) {
	before := testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("GET", "/api/movies", "200"))

	RecordHTTPRequest("GET", "/api/movies", 200, 5*time.Millisecond)

	after := testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("GET", "/api/movies", "200"))
	if after != before+1 {
		t.Errorf("expected counter to increase by 1, got %v -> %v", before, after)
	}
}

func TestRecordRecommendation(t *testing.T) {
	before := testutil.ToFloat64(RecommendationOutcomes.WithLabelValues("not_found"))

	RecordRecommendation("recompute", "not_found", time.Millisecond)

	after := testutil.ToFloat64(RecommendationOutcomes.WithLabelValues("not_found"))
	if after != before+1 {
		t.Errorf("expected outcome counter to increase by 1, got %v -> %v", before, after)
	}
}

func TestRecordMatrixBuild(t *testing.T) {
	before := testutil.ToFloat64(SimilarityMatrixBuilds)

	RecordMatrixBuild(10 * time.Millisecond)

	if got := testutil.ToFloat64(SimilarityMatrixBuilds); got != before+1 {
		t.Errorf("expected builds to increase by 1, got %v -> %v", before, got)
	}
}
