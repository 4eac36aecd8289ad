package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/khanglvm/movie-recommender/internal/benchmark"
	"github.com/khanglvm/movie-recommender/internal/catalog"
	"github.com/khanglvm/movie-recommender/internal/config"
	"github.com/khanglvm/movie-recommender/internal/similarity"
)

// NewBenchmarkCmd creates the 'bench' command for policy latency testing.
func NewBenchmarkCmd() *cobra.Command {
	var f engineFlags
	var queries int
	var titles []string
	var iterations int
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:     "bench",
		Aliases: []string{"benchmark"},
		Short:   "Compare recommendation latency: recompute vs cached",
		Long: `Run a latency benchmark comparing the two similarity policies:

RECOMPUTE:
  Term-count and similarity matrices are rebuilt on every request.
  Cost per request grows with the square of the catalog size.

CACHED:
  Matrices are built once on first use and reused.
  The one-time build is reported as warm-up.

Sample titles are spread evenly across the catalog unless --title is given.`,
		Example: `  # Benchmark the configured catalog
  movie-recommender bench

  # Specific titles, more iterations, JSON output
  movie-recommender bench --title avatar --title "the dark knight" -i 10 --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, &f)
			if err != nil {
				return err
			}
			return runBenchmark(cmd, cfg, queries, titles, iterations, jsonOutput)
		},
	}

	cmd.Flags().StringVarP(&f.catalogPath, "catalog", "c", "", "Catalog CSV file (default from config: main_data.csv)")
	cmd.Flags().StringVar(&f.tokenizer, "tokenizer", "", "Feature tokenizer: whitespace or word")
	cmd.Flags().IntVarP(&queries, "queries", "q", benchmark.DefaultQueries, "Number of sample titles")
	cmd.Flags().StringArrayVarP(&titles, "title", "t", nil, "Benchmark this title (repeatable)")
	cmd.Flags().IntVarP(&iterations, "iterations", "i", 3, "Requests per title per policy")
	cmd.Flags().BoolVarP(&jsonOutput, "json", "j", false, "Output as JSON")

	return cmd
}

// runBenchmark executes the policy latency benchmark.
func runBenchmark(cmd *cobra.Command, cfg *config.Config, queries int, titles []string, iterations int, jsonOutput bool) error {
	c, err := catalog.LoadFile(cfg.Data.CatalogPath)
	if err != nil {
		return fmt.Errorf("cannot benchmark without a catalog: %w", err)
	}
	if c.Len() == 0 {
		return fmt.Errorf("catalog %s is empty", cfg.Data.CatalogPath)
	}

	tok, err := similarity.NewTokenizer(cfg.Recommend.Tokenizer)
	if err != nil {
		return err
	}

	sample := make([]string, 0, len(titles))
	for _, t := range titles {
		sample = append(sample, catalog.NormalizeTitle(t))
	}
	if len(sample) == 0 {
		sample = benchmark.SampleQueries(c, queries)
	}

	result := benchmark.RunBenchmark(c, sample, iterations,
		similarity.WithLimit(cfg.Recommend.Limit),
		similarity.WithTokenizer(tok),
	)

	out := cmd.OutOrStdout()
	if jsonOutput {
		return printJSON(out, result)
	}

	fmt.Fprintln(out)
	fmt.Fprint(out, benchmark.FormatResult(result))
	fmt.Fprintln(out)
	fmt.Fprintf(out, "Titles included in benchmark (%d):\n", len(sample))
	for _, q := range sample {
		fmt.Fprintf(out, "  • %s\n", catalog.Capitalize(q))
	}
	fmt.Fprintln(out)

	if failed := result.Recompute.Failures; failed > 0 {
		fmt.Fprintf(out, "%d requests returned no recommendations; check the titles with 'movie-recommender search'\n", failed)
	}
	return nil
}
