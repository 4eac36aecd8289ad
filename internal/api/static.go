package api

import (
	"net/http"
	"os"
	"path"
	"path/filepath"

	"github.com/khanglvm/movie-recommender/internal/logging"
)

// handleClient serves a file from the build directory when one matches the
// request path, and index.html otherwise so client-side routes resolve.
func (s *Server) handleClient(w http.ResponseWriter, r *http.Request) {
	dir := s.opts.BuildDir
	if info, err := os.Stat(dir); dir == "" || err != nil || !info.IsDir() {
		logging.Warn().Str("build_dir", dir).Msg("Client build directory not found")
		writeError(w, http.StatusInternalServerError, msgBuildMissing)
		return
	}

	if r.URL.Path != "/" {
		name := filepath.Join(dir, filepath.FromSlash(path.Clean("/"+r.URL.Path)))
		if info, err := os.Stat(name); err == nil && !info.IsDir() {
			http.ServeFile(w, r, name)
			return
		}
	}

	index := filepath.Join(dir, "index.html")
	if _, err := os.Stat(index); err != nil {
		writeError(w, http.StatusNotFound, msgIndexHTMLMissing)
		return
	}
	serveIndex(w, r, index)
}

// serveIndex writes index.html with status 200 regardless of the request
// path. http.ServeFile would redirect requests ending in /index.html.
func serveIndex(w http.ResponseWriter, r *http.Request, name string) {
	f, err := os.Open(name)
	if err != nil {
		writeError(w, http.StatusNotFound, msgIndexHTMLMissing)
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		writeError(w, http.StatusInternalServerError, msgInternal)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	http.ServeContent(w, r, "index.html", info.ModTime(), f)
}
