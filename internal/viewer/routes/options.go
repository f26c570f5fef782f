package routes

import (
	"net/http"

	"github.com/petervdpas/sdcpp-webui/internal/config"
	"github.com/petervdpas/sdcpp-webui/internal/ui/render"
	"github.com/petervdpas/sdcpp-webui/internal/ui/viewmodels"
)

func registerOptionsRoutes(mux *http.ServeMux, d Deps) {
	handleGet(mux, "/options", func(w http.ResponseWriter, r *http.Request) {
		cfg := d.Config.Current()
		render.Render(w, viewmodels.OptionsVM{
			BaseVM:   baseVM("Options", "options", "page.options", d),
			CfgPath:  d.Config.Path(),
			Defaults: config.DefaultsOf(cfg),
			Choices:  choices(cfg),
		})
	})

	handlePost(mux, "/api/options/defaults", func(w http.ResponseWriter, r *http.Request) {
		in := config.DefaultsOf(d.Config.Current())
		if err := decodeJSON(w, r, &in); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		cfg, err := d.Config.SetDefaults(in)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		applyConfig(d, cfg)
		writeJSON(w, http.StatusOK, map[string]any{
			"defaults": config.DefaultsOf(cfg),
			"message":  "Defaults saved.",
		})
	})

	handlePost(mux, "/api/options/restore", func(w http.ResponseWriter, r *http.Request) {
		cfg, err := d.Config.RestoreDefaults()
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		applyConfig(d, cfg)
		writeJSON(w, http.StatusOK, map[string]any{
			"defaults": config.DefaultsOf(cfg),
			"message":  "Built-in defaults restored.",
		})
	})
}

// applyConfig pushes folder changes to the components that cache them.
func applyConfig(d Deps, cfg config.Config) {
	if d.Gallery != nil {
		d.Gallery.SetDirs(cfg.Txt2ImgDir, cfg.Img2ImgDir)
		d.Gallery.SetPageSize(cfg.PageSize)
	}
}
