package routes

import (
	"net/http"
	"strconv"

	"github.com/petervdpas/sdcpp-webui/internal/gallery"
	"github.com/petervdpas/sdcpp-webui/internal/ui/render"
	"github.com/petervdpas/sdcpp-webui/internal/ui/viewmodels"
)

func registerGalleryRoutes(mux *http.ServeMux, d Deps) {
	handleGet(mux, "/gallery", func(w http.ResponseWriter, r *http.Request) {
		view := d.Gallery.Current()
		if t := r.URL.Query().Get("target"); t != "" {
			if target, err := gallery.ParseTarget(t); err == nil {
				view = d.Gallery.Reload(target)
			}
		}
		render.Render(w, viewmodels.GalleryVM{
			BaseVM:  baseVM("Gallery", "gallery", "page.gallery", d),
			Gallery: viewmodels.BuildGalleryPage(view),
			Targets: []string{string(gallery.Txt2Img), string(gallery.Img2Img)},
		})
	})

	// POST /api/gallery {"op":"next"} runs one navigation command.
	handlePost(mux, "/api/gallery", func(w http.ResponseWriter, r *http.Request) {
		var cmd gallery.Command
		if err := decodeJSON(w, r, &cmd); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		view, err := d.Gallery.Apply(cmd)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, viewmodels.BuildGalleryPage(view))
	})

	handleGet(mux, "/api/gallery/info", func(w http.ResponseWriter, r *http.Request) {
		idx, err := strconv.Atoi(r.URL.Query().Get("index"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "index must be a number")
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"index": idx, "info": d.Gallery.ImgInfo(idx)})
	})
}
