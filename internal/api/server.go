/*
Package api serves the recommender over HTTP.

Routes:
  GET /api/movies              {"arr": [...]} every catalog title
  GET /api/similarity/{name}   {"movies": [...]} up to the engine limit
  GET /api/search?q=&limit=    {"results": [{"title", "score"}]}
  GET /api/health              {"status", "movies", "version"}
  GET /metrics                 Prometheus exposition
  GET / and unmatched paths    the prebuilt web client

CORS and per-IP rate limiting apply to /api routes only. Handler panics are
answered with fixed JSON error bodies.
*/
package api

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/khanglvm/movie-recommender/internal/catalog"
	"github.com/khanglvm/movie-recommender/internal/logging"
	"github.com/khanglvm/movie-recommender/internal/search"
	"github.com/khanglvm/movie-recommender/internal/similarity"
	"github.com/khanglvm/movie-recommender/internal/tracking"
)

// Options configures a Server. Catalog and Engine are required; Search and
// Tracker may be nil.
type Options struct {
	Catalog *catalog.Catalog
	Engine  *similarity.Engine
	Search  *search.Indexer
	Tracker *tracking.Tracker

	// BuildDir holds the web client's index.html and assets.
	BuildDir string

	CORSOrigins       []string
	RateLimitRequests int
	RateLimitWindow   time.Duration
	RateLimitDisabled bool

	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration

	// Version is reported by /api/health.
	Version string
}

// Server is the HTTP front end.
type Server struct {
	opts   Options
	router *chi.Mux
}

// NewServer builds the router for opts.
func NewServer(opts Options) *Server {
	if opts.Catalog == nil {
		opts.Catalog = catalog.Empty()
	}
	if opts.Engine == nil {
		opts.Engine = similarity.NewEngine(opts.Catalog)
	}
	if opts.ShutdownTimeout <= 0 {
		opts.ShutdownTimeout = 10 * time.Second
	}

	s := &Server{opts: opts, router: chi.NewRouter()}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) setupMiddleware() {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(observe)
	s.router.Use(recoverJSON(msgInternal))
}

func (s *Server) setupRoutes() {
	s.router.Route("/api", func(r chi.Router) {
		r.Use(corsMiddleware(s.opts.CORSOrigins))
		r.Use(rateLimit(s.opts.RateLimitRequests, s.opts.RateLimitWindow, s.opts.RateLimitDisabled))

		r.With(recoverJSON(msgInternal)).Get("/movies", s.handleMovies)
		r.With(recoverJSON(msgRecommendFailed)).Get("/similarity/{name}", s.handleSimilarity)
		r.With(recoverJSON(msgSearchFailed)).Get("/search", s.handleSearch)
		r.Get("/health", s.handleHealth)
	})

	s.router.Handle("/metrics", promhttp.Handler())

	s.router.Get("/", s.handleClient)
	s.router.NotFound(s.handleClient)
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully within the configured shutdown timeout.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve is like ListenAndServe on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.router,
		ReadTimeout:       s.opts.ReadTimeout,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      s.opts.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logging.Info().Str("addr", ln.Addr().String()).Msg("HTTP server listening")
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.opts.ShutdownTimeout)
	defer cancel()

	logging.Info().Msg("Shutting down HTTP server")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
