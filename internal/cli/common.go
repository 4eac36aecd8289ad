/*
Package cli implements the movie-recommender subcommands.

Every command loads configuration the same way (defaults, config file,
environment) and then applies its own flags on top, so a flag always wins.
*/
package cli

import (
	"fmt"
	"io"

	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/khanglvm/movie-recommender/internal/catalog"
	"github.com/khanglvm/movie-recommender/internal/config"
	"github.com/khanglvm/movie-recommender/internal/logging"
	"github.com/khanglvm/movie-recommender/internal/metrics"
	"github.com/khanglvm/movie-recommender/internal/search"
	"github.com/khanglvm/movie-recommender/internal/similarity"
)

// engineFlags are the catalog and engine overrides shared by commands.
type engineFlags struct {
	catalogPath string
	policy      string
	tokenizer   string
	limit       int
	logLevel    string
}

func (f *engineFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.catalogPath, "catalog", "c", "", "Catalog CSV file (default from config: main_data.csv)")
	cmd.Flags().StringVar(&f.policy, "policy", "", "Similarity policy: recompute or cached")
	cmd.Flags().StringVar(&f.tokenizer, "tokenizer", "", "Feature tokenizer: whitespace or word")
	cmd.Flags().IntVarP(&f.limit, "limit", "n", 0, "Maximum number of results")
	cmd.Flags().StringVar(&f.logLevel, "log-level", "", "Log level: debug, info, warn, error")
}

// apply copies the flags that were set onto cfg.
func (f *engineFlags) apply(cmd *cobra.Command, cfg *config.Config) {
	if cmd.Flags().Changed("catalog") {
		cfg.Data.CatalogPath = f.catalogPath
	}
	if cmd.Flags().Changed("policy") {
		cfg.Recommend.Policy = f.policy
	}
	if cmd.Flags().Changed("tokenizer") {
		cfg.Recommend.Tokenizer = f.tokenizer
	}
	if cmd.Flags().Changed("limit") {
		cfg.Recommend.Limit = f.limit
	}
	if cmd.Flags().Changed("log-level") {
		cfg.Logging.Level = f.logLevel
	}
}

// loadConfig loads configuration, applies flag overrides, validates the
// result and initializes logging.
func loadConfig(cmd *cobra.Command, f *engineFlags, overrides ...func(*config.Config)) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if f != nil {
		f.apply(cmd, cfg)
	}
	for _, o := range overrides {
		o(cfg)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
		Output: cmd.ErrOrStderr(),
	})
	return cfg, nil
}

// buildEngine loads the catalog and constructs the engine configured by cfg.
// A catalog that fails to load yields an empty catalog.
func buildEngine(cfg *config.Config) (*catalog.Catalog, *similarity.Engine, error) {
	policy, err := similarity.ParsePolicy(cfg.Recommend.Policy)
	if err != nil {
		return nil, nil, err
	}
	tok, err := similarity.NewTokenizer(cfg.Recommend.Tokenizer)
	if err != nil {
		return nil, nil, err
	}

	c := catalog.Load(cfg.Data.CatalogPath)
	metrics.CatalogMovies.Set(float64(c.Len()))

	engine := similarity.NewEngine(c,
		similarity.WithLimit(cfg.Recommend.Limit),
		similarity.WithPolicy(policy),
		similarity.WithTokenizer(tok),
	)
	return c, engine, nil
}

// printJSON writes v as indented JSON.
// openIndexer opens the title index at path, or an in-memory one when path is empty.
func openIndexer(path string) (*search.Indexer, error) {
	var (
		indexer *search.Indexer
		err     error
	)
	if path == "" {
		indexer, err = search.NewIndexer()
	} else {
		indexer, err = search.NewIndexerWithPath(path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create title index: %w", err)
	}
	return indexer, nil
}

func printJSON(w io.Writer, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
