package api

import (
	"net/http"

	json "github.com/goccy/go-json"

	"github.com/khanglvm/movie-recommender/internal/logging"
)

// Fixed client-facing error messages. Internal detail goes to logs only.
const (
	msgInternal         = "Internal server error"
	msgRecommendFailed  = "Failed to fetch recommendations"
	msgSearchFailed     = "Failed to search titles"
	msgBuildMissing     = "React build not found. Please run `npm run build` in the movie-recommender-app directory."
	msgIndexHTMLMissing = "index.html not found in build directory"
)

// moviesResponse is the body of GET /api/movies.
type moviesResponse struct {
	Arr []string `json:"arr"`
}

// similarityResponse is the body of GET /api/similarity/{name}.
type similarityResponse struct {
	Movies []string `json:"movies"`
}

// searchResponse is the body of GET /api/search.
type searchResponse struct {
	Results []searchHit `json:"results"`
}

type searchHit struct {
	Title string  `json:"title"`
	Score float64 `json:"score"`
}

// healthResponse is the body of GET /api/health.
type healthResponse struct {
	Status       string `json:"status"`
	Movies       int    `json:"movies"`
	Version      string `json:"version"`
	HistoryQueue int    `json:"history_queue"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	body, err := json.Marshal(data)
	if err != nil {
		logging.Error().Err(err).Msg("Failed to encode JSON response")
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"` + msgInternal + `"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

// writeError writes {"error": message}.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}
