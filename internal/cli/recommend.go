package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/khanglvm/movie-recommender/internal/similarity"
)

// NewRecommendCmd creates the 'recommend' command.
func NewRecommendCmd() *cobra.Command {
	var f engineFlags
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "recommend <title>",
		Short: "Print movies similar to a title",
		Long: `Rank every catalog movie by feature similarity to the given title and
print the top results. The title is matched case-insensitively; multi-word
titles may be passed unquoted.`,
		Example: `  movie-recommender recommend avatar
  movie-recommender recommend the dark knight --limit 5
  movie-recommender recommend titanic --tokenizer word --json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, &f)
			if err != nil {
				return err
			}
			_, engine, err := buildEngine(cfg)
			if err != nil {
				return err
			}
			return runRecommend(cmd, engine, strings.Join(args, " "), jsonOutput)
		},
	}

	f.register(cmd)
	cmd.Flags().BoolVarP(&jsonOutput, "json", "j", false, "Output as JSON")

	return cmd
}

type recommendOutput struct {
	Query    string   `json:"query"`
	Outcome  string   `json:"outcome"`
	Movies   []string `json:"movies"`
	Duration string   `json:"duration"`
}

func runRecommend(cmd *cobra.Command, engine *similarity.Engine, title string, jsonOutput bool) error {
	res := engine.Recommend(title)
	out := cmd.OutOrStdout()

	if jsonOutput {
		return printJSON(out, recommendOutput{
			Query:    res.Query,
			Outcome:  res.Outcome.String(),
			Movies:   res.Titles,
			Duration: res.Duration.String(),
		})
	}

	switch res.Outcome {
	case similarity.OutcomeNotFound:
		fmt.Fprintf(out, "No movie titled %q in the catalog.\n", res.Query)
		fmt.Fprintln(out, "Try 'movie-recommender search' to find the exact title.")
		return nil
	case similarity.OutcomeEmptyCatalog:
		fmt.Fprintln(out, "The catalog is empty. Check --catalog or CATALOG_PATH.")
		return nil
	case similarity.OutcomeComputeFailed:
		return fmt.Errorf("failed to compute recommendations: %w", res.Err)
	}

	fmt.Fprintf(out, "Movies similar to %q (%d):\n\n", res.Query, len(res.Titles))
	for i, t := range res.Titles {
		fmt.Fprintf(out, "  %2d. %s\n", i+1, t)
	}
	fmt.Fprintln(out)
	return nil
}
