package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/khanglvm/movie-recommender/internal/api"
	"github.com/khanglvm/movie-recommender/internal/config"
	"github.com/khanglvm/movie-recommender/internal/logging"
	"github.com/khanglvm/movie-recommender/internal/similarity"
	"github.com/khanglvm/movie-recommender/internal/storage"
	"github.com/khanglvm/movie-recommender/internal/tracking"
	"github.com/khanglvm/movie-recommender/internal/version"
)

type serveFlags struct {
	engineFlags
	port      int
	host      string
	buildDir  string
	indexPath string
	noHistory bool
}

// NewServeCmd creates the 'serve' command for running the HTTP API.
func NewServeCmd() *cobra.Command {
	var f serveFlags

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the recommendation HTTP server",
		Long: `Start the HTTP server exposing the recommendation API:

  GET /api/movies              every catalog title
  GET /api/similarity/{name}   up to 19 similar titles
  GET /api/search?q=           fuzzy title search
  GET /api/health              liveness and catalog size
  GET /metrics                 Prometheus metrics

Any other path serves the prebuilt web client from the build directory.
The port defaults to $PORT, or 5000.`,
		Example: `  # Serve on the default port
  movie-recommender serve

  # Cache the similarity matrix and listen on 8080
  movie-recommender serve --policy cached --port 8080`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, &f.engineFlags, f.overrides(cmd))
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)
			defer stop()

			return runServe(ctx, cfg)
		},
	}

	f.engineFlags.register(cmd)
	cmd.Flags().IntVarP(&f.port, "port", "p", 0, "Listen port (default $PORT or 5000)")
	cmd.Flags().StringVar(&f.host, "host", "", "Listen host")
	cmd.Flags().StringVar(&f.buildDir, "build-dir", "", "Web client build directory")
	cmd.Flags().StringVar(&f.indexPath, "index-path", "", "Keep the title search index on disk at this path")
	cmd.Flags().BoolVar(&f.noHistory, "no-history", false, "Do not record recommendation history")

	return cmd
}

func (f *serveFlags) overrides(cmd *cobra.Command) func(*config.Config) {
	return func(cfg *config.Config) {
		if cmd.Flags().Changed("port") {
			cfg.Server.Port = f.port
		}
		if cmd.Flags().Changed("host") {
			cfg.Server.Host = f.host
		}
		if cmd.Flags().Changed("build-dir") {
			cfg.Data.BuildDir = f.buildDir
		}
		if cmd.Flags().Changed("index-path") {
			cfg.Data.IndexPath = f.indexPath
		}
		if f.noHistory {
			cfg.History.Enabled = false
		}
	}
}

// runServe serves until ctx is cancelled.
// The title index is built in the background; /api/search returns no
// matches until indexing has finished.
func runServe(ctx context.Context, cfg *config.Config) error {
	logging.Info().Str("version", version.Get().Version).Str("config", cfg.String()).Msg("Starting movie-recommender")

	c, engine, err := buildEngine(cfg)
	if err != nil {
		return err
	}

	tracker, closeHistory := openTracker(cfg)
	defer closeHistory()

	indexer, err := openIndexer(cfg.Data.IndexPath)
	if err != nil {
		return err
	}
	defer indexer.Close()

	server := api.NewServer(api.Options{
		Catalog:           c,
		Engine:            engine,
		Search:            indexer,
		Tracker:           tracker,
		BuildDir:          cfg.Data.BuildDir,
		CORSOrigins:       cfg.Security.CORSOrigins,
		RateLimitRequests: cfg.Security.RateLimitRequests,
		RateLimitWindow:   cfg.Security.RateLimitWindow,
		RateLimitDisabled: cfg.Security.RateLimitDisabled,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		ShutdownTimeout:   cfg.Server.ShutdownTimeout,
		Version:           version.Get().Version,
	})

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return server.ListenAndServe(gctx, cfg.Server.Addr())
	})

	g.Go(func() error {
		if err := indexer.IndexCatalog(c); err != nil {
			logging.Warn().Err(err).Msg("Title index incomplete")
			return nil
		}
		logging.Info().Int("movies", c.Len()).Msg("Title index ready")
		return nil
	})

	if engine.Policy() == similarity.PolicyCached && c.Len() > 0 {
		g.Go(func() error {
			if _, err := engine.Matrix(); err != nil {
				logging.Warn().Err(err).Msg("Similarity matrix warm-up failed")
			}
			return nil
		})
	}

	err = g.Wait()
	logging.Info().Msg("Shutdown complete")
	return err
}

// openTracker opens the history database and prunes expired records.
// A disabled or unavailable database yields a disabled tracker. The returned
// func flushes pending events and closes the database.
func openTracker(cfg *config.Config) (*tracking.Tracker, func()) {
	if !cfg.History.Enabled {
		tracker := tracking.NewTracker(nil)
		return tracker, tracker.Stop
	}

	store := storage.NewStorage(cfg.History.Path)
	tracker := tracking.NewTracker(store)
	if tracker.IsEnabled() && cfg.History.Retention > 0 {
		if err := store.Cleanup(cfg.History.Retention); err != nil {
			logging.Warn().Err(err).Msg("History cleanup failed")
		}
	}

	return tracker, func() {
		tracker.Stop()
		if err := store.Close(); err != nil {
			logging.Warn().Err(err).Msg("Failed to close history database")
		}
	}
}
