package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/khanglvm/movie-recommender/internal/catalog"
	"github.com/khanglvm/movie-recommender/internal/config"
	"github.com/khanglvm/movie-recommender/internal/similarity"
	"github.com/khanglvm/movie-recommender/internal/storage"
)

// NewVerifyCmd creates the 'verify' command for checking the deployment.
func NewVerifyCmd() *cobra.Command {
	var f engineFlags
	var buildDir string

	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Verify configuration, catalog, web client and history database",
		Long: `Check that the configuration is valid, the catalog loads and can be
vectorized, the web client build is present, and the history database opens.
Exits non-zero when the catalog is unusable.`,
		Example: `  movie-recommender verify
  movie-recommender verify --catalog data/main_data.csv`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, &f, func(cfg *config.Config) {
				if cmd.Flags().Changed("build-dir") {
					cfg.Data.BuildDir = buildDir
				}
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Config: %s\n", cfg)
			return runVerify(cmd.OutOrStdout(), cfg)
		},
	}

	f.register(cmd)
	cmd.Flags().StringVar(&buildDir, "build-dir", "", "Web client build directory")

	return cmd
}

// runVerify reports each check. Only catalog problems are fatal; the server
// stays usable without a client build or history.
func runVerify(out io.Writer, cfg *config.Config) error {
	c, err := catalog.LoadFile(cfg.Data.CatalogPath)
	if err != nil {
		fmt.Fprintf(out, "✗ Catalog: %v\n", err)
		return fmt.Errorf("catalog check failed")
	}
	fmt.Fprintf(out, "✓ Catalog: %s (%d movies)\n", cfg.Data.CatalogPath, c.Len())

	tok, err := similarity.NewTokenizer(cfg.Recommend.Tokenizer)
	if err != nil {
		fmt.Fprintf(out, "✗ Tokenizer: %v\n", err)
		return fmt.Errorf("tokenizer check failed")
	}
	m, err := similarity.BuildTermMatrix(c.Features(), tok)
	if err != nil {
		fmt.Fprintf(out, "✗ Features: %v\n", err)
		return fmt.Errorf("feature check failed")
	}
	empty := 0
	for _, row := range m.Rows {
		if len(row.Indices) == 0 {
			empty++
		}
	}
	fmt.Fprintf(out, "✓ Features: %d terms (%s tokenizer)\n", m.Vocabulary.Len(), cfg.Recommend.Tokenizer)
	if empty > 0 {
		fmt.Fprintf(out, "! Features: %d movies have no terms and are never recommended\n", empty)
	}

	verifyBuild(out, cfg.Data.BuildDir)
	verifyHistory(out, cfg.History)

	return nil
}

func verifyBuild(out io.Writer, dir string) {
	if info, err := os.Stat(dir); dir == "" || err != nil || !info.IsDir() {
		fmt.Fprintf(out, "✗ Web client: build directory %q not found (API still served)\n", dir)
		return
	}
	if _, err := os.Stat(filepath.Join(dir, "index.html")); err != nil {
		fmt.Fprintf(out, "✗ Web client: index.html missing in %s\n", dir)
		return
	}
	fmt.Fprintf(out, "✓ Web client: %s\n", dir)
}

func verifyHistory(out io.Writer, cfg config.HistoryConfig) {
	if !cfg.Enabled {
		fmt.Fprintln(out, "- History: disabled")
		return
	}

	store := storage.NewStorage(cfg.Path)
	defer store.Close()

	if err := store.Init(); err != nil || !store.Enabled() {
		fmt.Fprintf(out, "✗ History: unavailable (%v); requests will not be recorded\n", err)
		return
	}
	fmt.Fprintf(out, "✓ History: %s\n", store.Path())
}
