package routes

import (
	"net/http"

	"github.com/petervdpas/sdcpp-webui/internal/models"
)

func registerModelRoutes(mux *http.ServeMux, d Deps) {
	// GET /api/models?kind=vae rescans one folder for the refresh buttons.
	handleGet(mux, "/api/models", func(w http.ResponseWriter, r *http.Request) {
		cfg := d.Config.Current()
		kind := r.URL.Query().Get("kind")
		if kind == "" {
			kind = "model"
		}
		if kind == "hf" {
			writeJSON(w, http.StatusOK, map[string]any{"kind": kind, "models": hfModels(cfg)})
			return
		}
		dir, ok := modelDir(cfg, kind)
		if !ok {
			writeError(w, http.StatusBadRequest, "unknown model kind: "+kind)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"kind": kind, "models": models.List(dir)})
	})
}
