package routes

import (
	"context"
	"errors"
	"net/http"

	"github.com/petervdpas/sdcpp-webui/internal/models"
	"github.com/petervdpas/sdcpp-webui/internal/sdcpp"
	"github.com/petervdpas/sdcpp-webui/internal/ui/render"
	"github.com/petervdpas/sdcpp-webui/internal/ui/viewmodels"
)

const defaultQuantType = "f16"

func registerConvertRoutes(mux *http.ServeMux, d Deps) {
	handleGet(mux, "/convert", func(w http.ResponseWriter, r *http.Request) {
		cfg := d.Config.Current()
		render.Render(w, viewmodels.ConvertVM{
			BaseVM:      baseVM("Checkpoint Converter", "convert", "page.convert", d),
			HFModels:    hfModels(cfg),
			QuantTypes:  sdcpp.QuantTypes,
			DefaultType: defaultQuantType,
			HubEnabled:  cfg.HubURL != "",
		})
	})

	handlePost(mux, "/api/convert", func(w http.ResponseWriter, r *http.Request) {
		var req sdcpp.ConvertRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		if req.Type == "" {
			req.Type = defaultQuantType
		}

		res := d.Runner.Convert(context.WithoutCancel(r.Context()), req)
		if res.Err != nil && !res.Killed {
			code := http.StatusOK
			if errors.Is(res.Err, sdcpp.ErrBusy) {
				code = http.StatusConflict
			}
			writeJSON(w, code, map[string]string{"run_id": res.RunID, "error": res.Err.Error()})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"run_id":  res.RunID,
			"outputs": res.Outputs,
			"killed":  res.Killed,
			"message": convertMessage(res),
		})
	})

	handleGet(mux, "/api/models/remote", func(w http.ResponseWriter, r *http.Request) {
		remote := models.NewRemote(d.Config.Current().HubURL)
		writeJSON(w, http.StatusOK, map[string]any{"models": remote.List(r.Context())})
	})
}

func convertMessage(res sdcpp.Result) string {
	if res.Killed {
		return "Conversion stopped."
	}
	if len(res.Outputs) == 0 {
		return "Conversion finished, but no gguf file was written."
	}
	return "Converted to " + res.Outputs[0] + "."
}
