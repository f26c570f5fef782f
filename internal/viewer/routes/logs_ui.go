package routes

import (
	"net/http"

	"github.com/petervdpas/sdcpp-webui/internal/ui/render"
	"github.com/petervdpas/sdcpp-webui/internal/ui/viewmodels"
)

// registerLogRoutes serves the Logs tab and, when a log buffer is wired,
// its JSON backlog and live stream.
func registerLogRoutes(mux *http.ServeMux, d Deps) {
	handleGet(mux, "/logs", func(w http.ResponseWriter, r *http.Request) {
		render.Render(w, viewmodels.LogsVM{
			BaseVM: baseVM("Logs", "logs", "page.logs", d),
			Tags:   viewmodels.LogTags,
		})
	})
	if d.Logs != nil {
		mux.HandleFunc("/api/logs", d.Logs.ServeLogsJSON)
		mux.HandleFunc("/api/logs/stream", d.Logs.ServeLogsSSE)
	}
}
