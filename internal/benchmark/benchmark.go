/*
Package benchmark measures recommendation latency under both similarity
policies.

It compares per-request cost between:
1. recompute: term and similarity matrices rebuilt on every request
2. cached: matrices built once, then reused for every request

The first cached request pays the build; it is reported separately as the
warm-up cost.
*/
package benchmark

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/khanglvm/movie-recommender/internal/catalog"
	"github.com/khanglvm/movie-recommender/internal/similarity"
)

// DefaultQueries is the number of sample titles used when none are given.
const DefaultQueries = 5

// PolicyStats summarizes the latency of one policy.
type PolicyStats struct {
	Policy   similarity.Policy `json:"policy"`
	Requests int               `json:"requests"`
	Failures int               `json:"failures"`
	WarmUp   time.Duration     `json:"warmUp"`
	Mean     time.Duration     `json:"mean"`
	Median   time.Duration     `json:"median"`
	Min      time.Duration     `json:"min"`
	Max      time.Duration     `json:"max"`
}

// BenchmarkResult contains comparison results.
type BenchmarkResult struct {
	Movies    int         `json:"movies"`
	Queries   []string    `json:"queries"`
	Recompute PolicyStats `json:"recompute"`
	Cached    PolicyStats `json:"cached"`

	// Speedup is recompute mean over cached mean.
	Speedup float64 `json:"speedup"`
}

// SampleQueries picks up to n titles spread evenly across the catalog.
func SampleQueries(c *catalog.Catalog, n int) []string {
	total := c.Len()
	if n <= 0 || total == 0 {
		return []string{}
	}
	if n > total {
		n = total
	}

	queries := make([]string, 0, n)
	step := total / n
	for i := 0; i < n; i++ {
		queries = append(queries, c.Movie(i*step).Title)
	}
	return queries
}

// RunBenchmark issues every query iterations times against an engine of each
// policy and compares the latencies.
func RunBenchmark(c *catalog.Catalog, queries []string, iterations int, opts ...similarity.Option) *BenchmarkResult {
	if iterations <= 0 {
		iterations = 1
	}

	result := &BenchmarkResult{
		Movies:  c.Len(),
		Queries: queries,
	}
	result.Recompute = runPolicy(c, similarity.PolicyRecompute, queries, iterations, opts)
	result.Cached = runPolicy(c, similarity.PolicyCached, queries, iterations, opts)

	if result.Cached.Mean > 0 {
		result.Speedup = float64(result.Recompute.Mean) / float64(result.Cached.Mean)
	}
	return result
}

func runPolicy(c *catalog.Catalog, policy similarity.Policy, queries []string, iterations int, opts []similarity.Option) PolicyStats {
	engineOpts := append(append([]similarity.Option{}, opts...), similarity.WithPolicy(policy))
	engine := similarity.NewEngine(c, engineOpts...)

	stats := PolicyStats{Policy: policy}
	if len(queries) == 0 {
		return stats
	}

	if policy == similarity.PolicyCached {
		start := time.Now()
		if _, err := engine.Matrix(); err != nil {
			stats.Failures++
		}
		stats.WarmUp = time.Since(start)
	}

	durations := make([]time.Duration, 0, len(queries)*iterations)
	for i := 0; i < iterations; i++ {
		for _, q := range queries {
			start := time.Now()
			res := engine.Recommend(q)
			elapsed := time.Since(start)

			stats.Requests++
			if res.Outcome != similarity.OutcomeOK {
				stats.Failures++
			}
			durations = append(durations, elapsed)
		}
	}

	summarize(&stats, durations)
	return stats
}

func summarize(stats *PolicyStats, durations []time.Duration) {
	if len(durations) == 0 {
		return
	}
	sort.Slice(durations, func(i, j int) bool { return durations[i] < durations[j] })

	var total time.Duration
	for _, d := range durations {
		total += d
	}
	stats.Mean = total / time.Duration(len(durations))
	stats.Median = durations[len(durations)/2]
	stats.Min = durations[0]
	stats.Max = durations[len(durations)-1]
}

// FormatResult formats the benchmark result for display.
func FormatResult(result *BenchmarkResult) string {
	var sb strings.Builder

	sb.WriteString("╔══════════════════════════════════════════════════════════════╗\n")
	sb.WriteString("║           RECOMMENDATION LATENCY BENCHMARK                   ║\n")
	sb.WriteString("╠══════════════════════════════════════════════════════════════╣\n")
	sb.WriteString(fmt.Sprintf("║  Movies: %-6d  Queries: %-3d  Requests per policy: %-6d  ║\n",
		result.Movies, len(result.Queries), result.Recompute.Requests))
	sb.WriteString("╠══════════════════════════════════════════════════════════════╣\n")
	writePolicy(&sb, "🔁 RECOMPUTE (matrices per request)", result.Recompute)
	sb.WriteString("╠══════════════════════════════════════════════════════════════╣\n")
	writePolicy(&sb, "💾 CACHED (matrices built once)", result.Cached)
	sb.WriteString(fmt.Sprintf("║     Warm-up: %-14s                                  ║\n", round(result.Cached.WarmUp)))
	sb.WriteString("╠══════════════════════════════════════════════════════════════╣\n")
	sb.WriteString(fmt.Sprintf("║  🚀 Speedup: %-8.1fx                                       ║\n", result.Speedup))
	sb.WriteString("╚══════════════════════════════════════════════════════════════╝\n")

	return sb.String()
}

func writePolicy(sb *strings.Builder, title string, s PolicyStats) {
	sb.WriteString(fmt.Sprintf("║  %-60s║\n", title))
	sb.WriteString(fmt.Sprintf("║     Mean:   %-14s  Median: %-14s        ║\n", round(s.Mean), round(s.Median)))
	sb.WriteString(fmt.Sprintf("║     Min:    %-14s  Max:    %-14s        ║\n", round(s.Min), round(s.Max)))
	if s.Failures > 0 {
		sb.WriteString(fmt.Sprintf("║     Failures: %-6d                                         ║\n", s.Failures))
	}
}

func round(d time.Duration) string {
	switch {
	case d >= time.Second:
		return d.Round(time.Millisecond).String()
	case d >= time.Millisecond:
		return d.Round(10 * time.Microsecond).String()
	default:
		return d.Round(time.Microsecond).String()
	}
}
