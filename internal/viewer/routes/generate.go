package routes

import (
	"context"
	"errors"
	"net/http"
	"path/filepath"

	"github.com/petervdpas/sdcpp-webui/internal/config"
	"github.com/petervdpas/sdcpp-webui/internal/sdcpp"
	"github.com/petervdpas/sdcpp-webui/internal/ui/render"
	"github.com/petervdpas/sdcpp-webui/internal/ui/viewmodels"
)

type runResponse struct {
	RunID   string   `json:"run_id,omitempty"`
	Images  []string `json:"images"`
	Message string   `json:"message,omitempty"`
	Error   string   `json:"error,omitempty"`
	Killed  bool     `json:"killed,omitempty"`
}

func registerGenerateRoutes(mux *http.ServeMux, d Deps) {
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		http.Redirect(w, r, "/txt2img", http.StatusFound)
	})

	handleGet(mux, "/txt2img", func(w http.ResponseWriter, r *http.Request) {
		render.Render(w, generateVM(d, sdcpp.ModeTxt2Img))
	})
	handleGet(mux, "/img2img", func(w http.ResponseWriter, r *http.Request) {
		render.Render(w, generateVM(d, sdcpp.ModeImg2Img))
	})

	handlePost(mux, "/api/generate/txt2img", func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(maxUpload); err != nil && !errors.Is(err, http.ErrNotMultipart) {
			writeError(w, http.StatusBadRequest, "invalid form: "+err.Error())
			return
		}
		c, err := readCommon(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		ups := &uploadSet{store: d.Uploads}
		defer ups.cleanup()
		if c.ControlImage, err = ups.save(r.Context(), r, "control_image"); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		// A closed tab does not stop the run; the result lands in the gallery.
		res := d.Runner.Txt2Img(context.WithoutCancel(r.Context()), sdcpp.Txt2ImgRequest{Common: c})
		writeRunResult(w, d, sdcpp.ModeTxt2Img, res)
	})

	handlePost(mux, "/api/generate/img2img", func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(maxUpload); err != nil && !errors.Is(err, http.ErrNotMultipart) {
			writeError(w, http.StatusBadRequest, "invalid form: "+err.Error())
			return
		}
		c, err := readCommon(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		req, err := readImg2Img(r, c)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		ups := &uploadSet{store: d.Uploads}
		defer ups.cleanup()
		if req.InitImage, err = ups.save(r.Context(), r, "init_image"); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		if req.InitImage == "" {
			writeError(w, http.StatusBadRequest, "an init image is required")
			return
		}
		if req.ControlImage, err = ups.save(r.Context(), r, "control_image"); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		res := d.Runner.Img2Img(context.WithoutCancel(r.Context()), req)
		writeRunResult(w, d, sdcpp.ModeImg2Img, res)
	})

	handlePost(mux, "/api/kill", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]bool{"killed": d.Runner.Kill()})
	})

	handleGet(mux, "/api/status", func(w http.ResponseWriter, r *http.Request) {
		id, busy := d.Runner.Active()
		out := map[string]any{"busy": busy, "run_id": id}
		if d.Hub != nil {
			if e, ok := d.Hub.Last(); ok {
				out["last"] = e
			}
		}
		writeJSON(w, http.StatusOK, out)
	})
}

func generateVM(d Deps, mode sdcpp.Mode) viewmodels.GenerateVM {
	cfg := d.Config.Current()
	title := "txt2img"
	if mode == sdcpp.ModeImg2Img {
		title = "img2img"
	}
	vm := viewmodels.GenerateVM{
		BaseVM:     baseVM(title, title, "page.generate", d),
		Mode:       string(mode),
		Form:       formDefaults(cfg),
		Strength:   0.75,
		StyleRatio: 20,
		Choices:    choices(cfg),
	}
	if d.Prompts != nil {
		vm.Prompts = d.Prompts.Names()
	}
	return vm
}

// formDefaults applies the configured defaults on top of the built-in form
// values.
func formDefaults(cfg config.Config) sdcpp.Common {
	c := sdcpp.NewCommon()
	c.Model = cfg.DefModel
	c.VAE = cfg.DefVAE
	c.Sampler = cfg.DefSampling
	c.Steps = cfg.DefSteps
	c.Schedule = cfg.DefScheduler
	c.Width = cfg.DefWidth
	c.Height = cfg.DefHeight
	c.Predict = cfg.DefPredict
	return c
}

func writeRunResult(w http.ResponseWriter, d Deps, mode sdcpp.Mode, res sdcpp.Result) {
	if d.Gallery != nil {
		d.Gallery.Invalidate()
	}
	out := runResponse{
		RunID:   res.RunID,
		Images:  make([]string, 0, len(res.Outputs)),
		Message: res.Message(),
		Killed:  res.Killed,
	}
	for _, p := range res.Outputs {
		out.Images = append(out.Images, viewmodels.ImageURL(string(mode), filepath.Base(p)))
	}
	code := http.StatusOK
	if res.Err != nil && !res.Killed {
		out.Error = res.Err.Error()
		out.Message = ""
		if errors.Is(res.Err, sdcpp.ErrBusy) {
			code = http.StatusConflict
		}
	}
	writeJSON(w, code, out)
}
