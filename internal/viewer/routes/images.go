package routes

import (
	"errors"
	"log"
	"net/http"
	"net/url"
	"strings"

	"github.com/petervdpas/sdcpp-webui/internal/content"
	"github.com/petervdpas/sdcpp-webui/internal/gallery"
)

func registerImageRoutes(mux *http.ServeMux, d Deps) {
	// GET /images/{target}/{name} serves one file from an output folder.
	handleGet(mux, "/images/", func(w http.ResponseWriter, r *http.Request) {
		rest := strings.TrimPrefix(r.URL.EscapedPath(), "/images/")
		t, escName, ok := strings.Cut(rest, "/")
		if !ok || escName == "" || strings.Contains(escName, "/") {
			http.NotFound(w, r)
			return
		}
		name, err := url.PathUnescape(escName)
		if err != nil || name == "" || strings.ContainsAny(name, `/\`) {
			http.NotFound(w, r)
			return
		}
		target, err := gallery.ParseTarget(t)
		if err != nil {
			http.NotFound(w, r)
			return
		}

		store, err := content.NewStore(d.Gallery.Dir(target))
		if err != nil {
			http.NotFound(w, r)
			return
		}
		data, etag, err := store.Read(r.Context(), name)
		if err != nil {
			switch {
			case errors.Is(err, content.ErrNotFound), errors.Is(err, content.ErrOutsideRoot), errors.Is(err, content.ErrBadName):
				http.NotFound(w, r)
			default:
				log.Printf("VIEWER: read image %s/%s: %v", target, name, err)
				http.Error(w, "read error", http.StatusInternalServerError)
			}
			return
		}

		tag := `"` + etag + `"`
		w.Header().Set("ETag", tag)
		w.Header().Set("Cache-Control", "no-cache")
		if match := r.Header.Get("If-None-Match"); match != "" && match == tag {
			w.WriteHeader(http.StatusNotModified)
			return
		}
		w.Header().Set("Content-Type", contentTypeForPath(name, data))
		_, _ = w.Write(data)
	})
}
