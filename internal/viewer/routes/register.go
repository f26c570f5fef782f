package routes

import (
	"net/http"

	"github.com/petervdpas/sdcpp-webui/internal/config"
	"github.com/petervdpas/sdcpp-webui/internal/content"
	"github.com/petervdpas/sdcpp-webui/internal/docs"
	"github.com/petervdpas/sdcpp-webui/internal/gallery"
	"github.com/petervdpas/sdcpp-webui/internal/metrics"
	"github.com/petervdpas/sdcpp-webui/internal/progress"
	"github.com/petervdpas/sdcpp-webui/internal/prompts"
	"github.com/petervdpas/sdcpp-webui/internal/sdcpp"
)

type Logs interface {
	ServeLogsJSON(w http.ResponseWriter, r *http.Request)
	ServeLogsSSE(w http.ResponseWriter, r *http.Request)
}

type Deps struct {
	Config  *config.Store
	Runner  *sdcpp.Runner
	Gallery *gallery.Manager
	Prompts *prompts.Store
	Hub     *progress.Hub
	Logs    Logs
	Docs    *docs.Site
	Uploads *content.Store // scratch dir for img2img/control image uploads
	BaseURL string
	Version string
}

func Register(mux *http.ServeMux, d Deps) {
	RegisterOpenRoute(mux)

	registerGenerateRoutes(mux, d)
	registerProgressRoutes(mux, d)
	registerModelRoutes(mux, d)
	registerPromptRoutes(mux, d)
	registerGalleryRoutes(mux, d)
	registerImageRoutes(mux, d)
	registerConvertRoutes(mux, d)
	registerOptionsRoutes(mux, d)
	registerLogRoutes(mux, d)
	registerHelpRoutes(mux, d)

	mux.Handle("/metrics", metrics.Handler())
}
