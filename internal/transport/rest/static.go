package rest

import (
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// SPAHandler serves the built dashboard from dir. Unknown paths get
// index.html so client-side routes survive a reload; /api paths never do.
func SPAHandler(dir string) http.Handler {
	files := http.FileServer(http.Dir(dir))
	index := filepath.Join(dir, "index.html")

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/api/") || r.URL.Path == "/api" {
			writeNotFound(w, "no such endpoint")
			return
		}

		path := filepath.Join(dir, filepath.Clean("/"+r.URL.Path))
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			files.ServeHTTP(w, r)
			return
		}

		if _, err := os.Stat(index); err != nil {
			writeNotFound(w, "dashboard is not built")
			return
		}
		http.ServeFile(w, r, index)
	})
}

func writeNotFound(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusNotFound)
	_ = json.NewEncoder(w).Encode(map[string]map[string]string{
		"error": {"type": "NOT_FOUND", "code": "NOT_FOUND", "message": message},
	})
}
