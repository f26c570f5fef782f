package routes

import (
	"net/http"
	"strings"

	"github.com/petervdpas/sdcpp-webui/internal/ui/render"
	"github.com/petervdpas/sdcpp-webui/internal/ui/viewmodels"
)

func registerHelpRoutes(mux *http.ServeMux, d Deps) {
	serve := func(w http.ResponseWriter, r *http.Request) {
		if d.Docs == nil {
			http.NotFound(w, r)
			return
		}
		slug := strings.Trim(strings.TrimPrefix(r.URL.Path, "/help"), "/")

		page, ok := d.Docs.First()
		if slug != "" {
			page, ok = d.Docs.Get(slug)
		}
		if !ok {
			http.NotFound(w, r)
			return
		}
		render.Render(w, viewmodels.HelpVM{
			BaseVM: baseVM("Help: "+page.Title, "help", "page.help", d),
			Pages:  d.Docs.Pages,
			Page:   page,
		})
	}
	handleGet(mux, "/help", serve)
	handleGet(mux, "/help/", serve)
}
