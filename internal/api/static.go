package api

import (
	"net/http"
	"path"

	"github.com/go-chi/chi/v5"
)

// static serves the browser front end from the configured directory. Missing
// files and bare directories get a plain text 404.
func (h *Handler) static(w http.ResponseWriter, r *http.Request) {
	name := path.Clean("/" + chi.URLParam(r, "*"))
	if name == "/" {
		name = "/index.html"
	}

	f, err := http.Dir(h.opts.StaticDir).Open(name)
	if err != nil {
		http.Error(w, "File not found", http.StatusNotFound)
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil || info.IsDir() {
		http.Error(w, "File not found", http.StatusNotFound)
		return
	}
	http.ServeContent(w, r, info.Name(), info.ModTime(), f)
}
