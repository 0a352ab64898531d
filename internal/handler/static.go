package handler

import (
	"net/http"
	"os"
	"path"
	"path/filepath"
)

const frontendMissing = "Frontend not built. Please run 'npm run build' in frontend directory."

// StaticHandler serves the built single-page app from dir. Unknown paths get
// index.html so client-side routes resolve.
func StaticHandler(dir string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p := path.Clean("/" + r.URL.Path)
		if p != "/" {
			full := filepath.Join(dir, filepath.FromSlash(p))
			if info, err := os.Stat(full); err == nil && !info.IsDir() {
				http.ServeFile(w, r, full)
				return
			}
		}

		index := filepath.Join(dir, "index.html")
		if _, err := os.Stat(index); err != nil {
			http.Error(w, frontendMissing, http.StatusNotFound)
			return
		}
		http.ServeFile(w, r, index)
	}
}
