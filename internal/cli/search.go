package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/khanglvm/movie-recommender/internal/config"
	"github.com/khanglvm/movie-recommender/internal/search"
)

// NewSearchCmd creates the 'search' command for fuzzy title lookup.
func NewSearchCmd() *cobra.Command {
	var catalogPath string
	var indexPath string
	var limit int
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Find catalog titles matching a partial or misspelled query",
		Long: `Search catalog titles with typo tolerance (one edit per word) and
prefix matching on the last word, so partially typed titles resolve.`,
		Example: `  movie-recommender search dark kni
  movie-recommender search titanc --json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, nil, func(cfg *config.Config) {
				if cmd.Flags().Changed("catalog") {
					cfg.Data.CatalogPath = catalogPath
				}
				if cmd.Flags().Changed("index-path") {
					cfg.Data.IndexPath = indexPath
				}
			})
			if err != nil {
				return err
			}
			c, _, err := buildEngine(cfg)
			if err != nil {
				return err
			}

			indexer, err := openIndexer(cfg.Data.IndexPath)
			if err != nil {
				return err
			}
			defer indexer.Close()

			if err := indexer.IndexCatalog(c); err != nil {
				return fmt.Errorf("failed to index catalog: %w", err)
			}

			return runSearch(cmd, indexer, strings.Join(args, " "), limit, jsonOutput)
		},
	}

	cmd.Flags().StringVarP(&catalogPath, "catalog", "c", "", "Catalog CSV file (default from config: main_data.csv)")
	cmd.Flags().StringVar(&indexPath, "index-path", "", "Keep the title search index on disk at this path")
	cmd.Flags().IntVarP(&limit, "limit", "n", search.DefaultLimit, "Maximum number of matches")
	cmd.Flags().BoolVarP(&jsonOutput, "json", "j", false, "Output as JSON")

	return cmd
}

func runSearch(cmd *cobra.Command, indexer *search.Indexer, query string, limit int, jsonOutput bool) error {
	results, err := indexer.SearchTitles(query, limit)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if jsonOutput {
		return printJSON(out, map[string][]search.SearchResult{"results": results})
	}

	if len(results) == 0 {
		fmt.Fprintf(out, "No titles match %q.\n", query)
		return nil
	}

	fmt.Fprintf(out, "Titles matching %q (%d):\n\n", query, len(results))
	for _, r := range results {
		fmt.Fprintf(out, "  %-40s %.3f\n", r.Title, r.Score)
	}
	fmt.Fprintln(out)
	return nil
}
