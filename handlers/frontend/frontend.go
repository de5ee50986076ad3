// Package frontend serves the editor UI from the local filesystem so the UI
// and the API share one origin and port.
package frontend

import (
	"net/http"
	"path/filepath"
)

func HandleIndex(rootPath string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, filepath.Join(rootPath, "index.html"))
	}
}

func HandleAssets(rootPath string) http.Handler {
	fs := http.FileServer(http.Dir(filepath.Join(rootPath, "assets")))
	return http.StripPrefix("/assets/", fs)
}
