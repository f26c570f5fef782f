package routes

import (
	"errors"
	"net/http"

	"github.com/petervdpas/sdcpp-webui/internal/prompts"
)

func registerPromptRoutes(mux *http.ServeMux, d Deps) {
	mux.HandleFunc("/api/prompts", func(w http.ResponseWriter, r *http.Request) {
		if d.Prompts == nil {
			writeError(w, http.StatusServiceUnavailable, "prompt library not available")
			return
		}
		names := func() {
			writeJSON(w, http.StatusOK, map[string]any{"names": d.Prompts.Names()})
		}

		switch r.Method {
		case http.MethodGet:
			name := r.URL.Query().Get("name")
			if name == "" {
				names()
				return
			}
			p, ok := d.Prompts.Load(name)
			if !ok {
				writeError(w, http.StatusNotFound, "no saved prompt named "+name)
				return
			}
			writeJSON(w, http.StatusOK, map[string]string{
				"name":     name,
				"positive": p.Positive,
				"negative": p.Negative,
			})

		case http.MethodPost:
			var body struct {
				Name     string `json:"name"`
				Positive string `json:"positive"`
				Negative string `json:"negative"`
			}
			if err := decodeJSON(w, r, &body); err != nil {
				writeError(w, http.StatusBadRequest, err.Error())
				return
			}
			if err := d.Prompts.Save(body.Name, body.Positive, body.Negative); err != nil {
				code := http.StatusInternalServerError
				if errors.Is(err, prompts.ErrEmptyName) {
					code = http.StatusBadRequest
				}
				writeError(w, code, err.Error())
				return
			}
			names()

		case http.MethodDelete:
			if err := d.Prompts.Delete(r.URL.Query().Get("name")); err != nil {
				writeError(w, http.StatusInternalServerError, err.Error())
				return
			}
			names()

		default:
			w.Header().Set("Allow", "GET, POST, DELETE")
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		}
	})
}
