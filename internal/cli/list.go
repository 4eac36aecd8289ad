package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/khanglvm/movie-recommender/internal/config"
)

// NewListCmd creates the 'list' command for listing catalog titles.
func NewListCmd() *cobra.Command {
	var f engineFlags
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List all catalog movie titles",
		Long:    `Display every movie title in the catalog, capitalized, in catalog order.`,
		Example: `  movie-recommender list
  movie-recommender ls --limit 20
  movie-recommender list --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, nil, func(cfg *config.Config) {
				if cmd.Flags().Changed("catalog") {
					cfg.Data.CatalogPath = f.catalogPath
				}
			})
			if err != nil {
				return err
			}
			c, _, err := buildEngine(cfg)
			if err != nil {
				return err
			}

			titles := c.Titles()
			if f.limit > 0 && f.limit < len(titles) {
				titles = titles[:f.limit]
			}
			return runList(cmd, titles, c.Len(), jsonOutput)
		},
	}

	cmd.Flags().StringVarP(&f.catalogPath, "catalog", "c", "", "Catalog CSV file (default from config: main_data.csv)")
	cmd.Flags().IntVarP(&f.limit, "limit", "n", 0, "Show at most this many titles")
	cmd.Flags().BoolVarP(&jsonOutput, "json", "j", false, "Output as JSON")

	return cmd
}

// runList prints titles, noting how many of total are shown.
func runList(cmd *cobra.Command, titles []string, total int, jsonOutput bool) error {
	out := cmd.OutOrStdout()

	if jsonOutput {
		return printJSON(out, map[string][]string{"arr": titles})
	}

	if total == 0 {
		fmt.Fprintln(out, "No movies in the catalog.")
		fmt.Fprintln(out, "Check --catalog or CATALOG_PATH.")
		return nil
	}

	fmt.Fprintf(out, "Catalog movies (%d of %d):\n\n", len(titles), total)
	for _, t := range titles {
		fmt.Fprintf(out, "  %s\n", t)
	}
	fmt.Fprintln(out)
	return nil
}
