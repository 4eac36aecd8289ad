/*
Package main is the entry point for the movie-recommender CLI.

movie-recommender serves content-based movie recommendations: movies are
compared by the overlap of their descriptive features (cast, genre,
director, keywords) using cosine similarity of term counts.

Usage:
  movie-recommender [command]

Available Commands:
  serve       Run the recommendation HTTP server
  recommend   Print movies similar to a title
  list        List all catalog movie titles
  search      Find catalog titles matching a partial or misspelled query
  history     Show the most requested recommendation titles
  verify      Verify configuration, catalog, web client and history database
  bench       Compare recommendation latency: recompute vs cached
  version     Show version information

Examples:
  # Serve the API and web client on $PORT (default 5000)
  movie-recommender serve

  # Recommendations from the command line
  movie-recommender recommend the dark knight
*/
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/khanglvm/movie-recommender/internal/cli"
	"github.com/khanglvm/movie-recommender/internal/version"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "movie-recommender",
		Short: "Content-based movie recommendations over HTTP",
		Long: `movie-recommender suggests movies similar to a given title.

Each movie's combined features (cast, genre, director, keywords) are turned
into term counts, and movies are ranked by cosine similarity to the query.
The HTTP server exposes the catalog and recommendations to the web client:
  • GET /api/movies            every catalog title
  • GET /api/similarity/{name} the 19 most similar titles

Configuration comes from config.yaml and environment variables
(PORT, CATALOG_PATH, RECOMMEND_POLICY, ...); flags override both.`,
		Version:       version.GetVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(cli.NewServeCmd())
	rootCmd.AddCommand(cli.NewRecommendCmd())
	rootCmd.AddCommand(cli.NewListCmd())
	rootCmd.AddCommand(cli.NewSearchCmd())
	rootCmd.AddCommand(cli.NewHistoryCmd())
	rootCmd.AddCommand(cli.NewVerifyCmd())
	rootCmd.AddCommand(cli.NewBenchmarkCmd())
	rootCmd.AddCommand(cli.NewVersionCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
