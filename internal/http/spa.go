package http

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// reservedPrefixes never fall through to the SPA entry document.
var reservedPrefixes = []string{"/api", "/static", "/uploads", "/docs", "/redoc", "/openapi.json"}

func reservedPath(path string) bool {
	for _, prefix := range reservedPrefixes {
		if path == prefix || strings.HasPrefix(path, prefix+"/") {
			return true
		}
	}
	return false
}

// handleSPA serves the single-page frontend: real files from the static
// directory when they exist, index.html for client-side routes.
func (s *Server) handleSPA(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	if reservedPath(r.URL.Path) {
		writeError(w, http.StatusNotFound, "not found")
		return
	}

	requested := filepath.Join(s.cfg.StaticDir, filepath.Clean("/"+r.URL.Path))
	if info, err := os.Stat(requested); err == nil && !info.IsDir() {
		http.ServeFile(w, r, requested)
		return
	}

	index := filepath.Join(s.cfg.StaticDir, "index.html")
	if _, err := os.Stat(index); err != nil {
		writeError(w, http.StatusNotFound, "frontend not found")
		return
	}
	http.ServeFile(w, r, index)
}
