// internal/viewer/routes/helpers.go

package routes

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"slices"

	"github.com/petervdpas/sdcpp-webui/internal/config"
	"github.com/petervdpas/sdcpp-webui/internal/models"
	"github.com/petervdpas/sdcpp-webui/internal/sdcpp"
	"github.com/petervdpas/sdcpp-webui/internal/ui/viewmodels"
)

const maxJSONBody = 1 << 20

func baseVM(title, active, contentTmpl string, d Deps) viewmodels.BaseVM {
	return viewmodels.BaseVM{
		Title:       title,
		Active:      active,
		ContentTmpl: contentTmpl,
		BaseURL:     d.BaseURL,
		Version:     d.Version,
		Tabs:        viewmodels.Tabs,
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError reports a failure inline; the UI shows the message next to the
// control that triggered it.
func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}

func handleMethod(mux *http.ServeMux, method, path string, fn http.HandlerFunc) {
	mux.HandleFunc(path, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != method {
			w.Header().Set("Allow", method)
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		fn(w, r)
	})
}

func handleGet(mux *http.ServeMux, path string, fn http.HandlerFunc) {
	handleMethod(mux, http.MethodGet, path, fn)
}

func handlePost(mux *http.ServeMux, path string, fn http.HandlerFunc) {
	handleMethod(mux, http.MethodPost, path, fn)
}

// decodeJSON reads a JSON body. An empty body leaves v untouched.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	if r.Body == nil {
		return nil
	}
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBody))
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return errors.New("invalid json: " + err.Error())
	}
	return nil
}

// choices lists the dropdown contents for the current folders.
func choices(cfg config.Config) viewmodels.Choices {
	return viewmodels.Choices{
		Models:      models.List(cfg.ModelDir),
		VAEs:        models.List(cfg.VAEDir),
		TAESDs:      models.List(cfg.TAESDDir),
		Upscalers:   models.List(cfg.UpsclDir),
		ControlNets: models.List(cfg.CnnetDir),
		Samplers:    sdcpp.Samplers,
		Schedulers:  sdcpp.Schedulers,
		RNGs:        sdcpp.RNGs,
		Predictions: sdcpp.Predictions,
	}
}

// modelDir maps a dropdown kind to its configured folder.
func modelDir(cfg config.Config, kind string) (string, bool) {
	dirs := map[string]string{
		"model":      cfg.ModelDir,
		"vae":        cfg.VAEDir,
		"taesd":      cfg.TAESDDir,
		"upscaler":   cfg.UpsclDir,
		"controlnet": cfg.CnnetDir,
		"embedding":  cfg.EmbDir,
		"lora":       cfg.LoraDir,
		"hf":         cfg.HFModelDir,
	}
	dir, ok := dirs[kind]
	return dir, ok
}

// hfModels lists converter sources: checkpoint files and diffusers folders.
func hfModels(cfg config.Config) []string {
	out := append(models.List(cfg.HFModelDir), models.Dirs(cfg.HFModelDir)...)
	slices.Sort(out)
	return out
}
