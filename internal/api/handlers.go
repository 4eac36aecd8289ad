package api

import (
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/khanglvm/movie-recommender/internal/logging"
	"github.com/khanglvm/movie-recommender/internal/search"
	"github.com/khanglvm/movie-recommender/internal/tracking"
)

// handleMovies returns every catalog title, capitalized, in catalog order.
func (s *Server) handleMovies(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, moviesResponse{Arr: s.opts.Catalog.Titles()})
}

// handleSimilarity returns the recommendations for the title in the path.
// Unknown titles and compute failures answer 200 with an empty list.
func (s *Server) handleSimilarity(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if r.URL.RawPath != "" {
		if unescaped, err := url.PathUnescape(name); err == nil {
			name = unescaped
		}
	}

	res := s.opts.Engine.Recommend(name)
	if s.opts.Tracker != nil {
		s.opts.Tracker.Track(tracking.NewEvent(chimiddleware.GetReqID(r.Context()), res))
	}

	writeJSON(w, http.StatusOK, similarityResponse{Movies: res.Titles})
}

// handleSearch resolves a partial or misspelled title.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")

	limit := search.DefaultLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			limit = n
		}
	}

	resp := searchResponse{Results: []searchHit{}}
	if s.opts.Search == nil || q == "" {
		writeJSON(w, http.StatusOK, resp)
		return
	}

	results, err := s.opts.Search.SearchTitles(q, limit)
	if err != nil {
		logging.Error().Err(err).Str("q", q).Msg("Title search failed")
		writeError(w, http.StatusInternalServerError, msgSearchFailed)
		return
	}
	for _, hit := range results {
		resp.Results = append(resp.Results, searchHit{Title: hit.Title, Score: hit.Score})
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Status:       "ok",
		Movies:       s.opts.Catalog.Len(),
		Version:      s.opts.Version,
		HistoryQueue: s.opts.Tracker.QueueSize(),
	})
}
