package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/khanglvm/movie-recommender/internal/catalog"
	"github.com/khanglvm/movie-recommender/internal/config"
	"github.com/khanglvm/movie-recommender/internal/storage"
)

// NewHistoryCmd creates the 'history' command.
func NewHistoryCmd() *cobra.Command {
	var dbPath string
	var since time.Duration
	var limit int
	var title string
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show the most requested recommendation titles",
		Long: `Summarize recommendation requests recorded by 'serve'.

Without --title, prints the most requested titles in the window.
With --title, prints every request for that title, newest first.`,
		Example: `  movie-recommender history
  movie-recommender history --since 24h --limit 20
  movie-recommender history --title avatar --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, nil, func(cfg *config.Config) {
				if cmd.Flags().Changed("db") {
					cfg.History.Path = dbPath
				}
			})
			if err != nil {
				return err
			}

			store := storage.NewStorage(cfg.History.Path)
			defer store.Close()
			if err := store.Init(); err != nil {
				return fmt.Errorf("history unavailable: %w", err)
			}

			from := time.Now().Add(-since)
			if title != "" {
				return runHistoryFor(cmd, store, catalog.NormalizeTitle(title), from, jsonOutput)
			}
			return runTopQueries(cmd, store, from, limit, jsonOutput)
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", "", "History database (default ~/.movie-recommender/history.db)")
	cmd.Flags().DurationVar(&since, "since", 7*24*time.Hour, "Look back this far")
	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "Number of titles to show")
	cmd.Flags().StringVarP(&title, "title", "t", "", "Show requests for one title")
	cmd.Flags().BoolVarP(&jsonOutput, "json", "j", false, "Output as JSON")

	return cmd
}

func runTopQueries(cmd *cobra.Command, store storage.Storage, since time.Time, limit int, jsonOutput bool) error {
	top, err := store.TopQueries(since, limit)
	if err != nil {
		return fmt.Errorf("failed to read history: %w", err)
	}

	out := cmd.OutOrStdout()
	if jsonOutput {
		return printJSON(out, top)
	}

	if len(top) == 0 {
		fmt.Fprintln(out, "No recommendation requests recorded.")
		return nil
	}

	fmt.Fprintf(out, "Most requested titles since %s:\n\n", since.Format(time.DateTime))
	for i, q := range top {
		fmt.Fprintf(out, "  %2d. %-40s %5d  (last %s)\n", i+1, catalog.Capitalize(q.Query), q.Count, q.LastSeen.Local().Format(time.DateTime))
	}
	fmt.Fprintln(out)
	return nil
}

func runHistoryFor(cmd *cobra.Command, store storage.Storage, query string, since time.Time, jsonOutput bool) error {
	records, err := store.GetHistory(query, since)
	if err != nil {
		return fmt.Errorf("failed to read history: %w", err)
	}

	out := cmd.OutOrStdout()
	if jsonOutput {
		return printJSON(out, records)
	}

	if len(records) == 0 {
		fmt.Fprintf(out, "No requests for %q recorded.\n", query)
		return nil
	}

	fmt.Fprintf(out, "Requests for %q (%d):\n\n", query, len(records))
	for _, r := range records {
		fmt.Fprintf(out, "  %s  %-14s %2d results  %s\n",
			r.Timestamp.Local().Format(time.DateTime), r.Outcome, r.ResultsCount, r.Duration.Round(time.Microsecond))
	}
	fmt.Fprintln(out)
	return nil
}
