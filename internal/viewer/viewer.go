package viewer

import (
	"context"
	"errors"
	"io"
	"log"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/handlers"

	"github.com/petervdpas/sdcpp-webui/internal/config"
	"github.com/petervdpas/sdcpp-webui/internal/content"
	"github.com/petervdpas/sdcpp-webui/internal/docs"
	"github.com/petervdpas/sdcpp-webui/internal/gallery"
	"github.com/petervdpas/sdcpp-webui/internal/progress"
	"github.com/petervdpas/sdcpp-webui/internal/prompts"
	"github.com/petervdpas/sdcpp-webui/internal/sdcpp"
	viewerassets "github.com/petervdpas/sdcpp-webui/internal/ui/assets"
	"github.com/petervdpas/sdcpp-webui/internal/ui/render"
	"github.com/petervdpas/sdcpp-webui/internal/util"
	"github.com/petervdpas/sdcpp-webui/internal/viewer/routes"
)

type Viewer struct {
	Config  *config.Store
	Runner  *sdcpp.Runner
	Gallery *gallery.Manager
	Prompts *prompts.Store
	Hub     *progress.Hub
	Logs    *LogBuffer
	Docs    *docs.Site
	Uploads *content.Store

	// Canonical base URL for templates (e.g. http://127.0.0.1:7860).
	BaseURL string
	Version string

	// AccessLog receives one combined-format line per request. Nil
	// disables access logging.
	AccessLog io.Writer
}

// Handler builds the complete HTTP handler: UI pages, JSON API, assets and
// metrics, wrapped in access logging and panic recovery.
func Handler(addr string, v Viewer) (http.Handler, error) {
	if err := render.InitTemplates(); err != nil {
		return nil, err
	}

	mux := http.NewServeMux()

	mux.Handle("/assets/", http.StripPrefix("/assets/",
		assetCache(v.Version, viewerassets.Handler()),
	))

	baseURL := v.BaseURL
	if baseURL == "" {
		baseURL = "http://" + addr
	}

	deps := routes.Deps{
		Config:  v.Config,
		Runner:  v.Runner,
		Gallery: v.Gallery,
		Prompts: v.Prompts,
		Hub:     v.Hub,
		Docs:    v.Docs,
		Uploads: v.Uploads,
		BaseURL: baseURL,
		Version: v.Version,
	}
	if v.Logs != nil {
		deps.Logs = v.Logs
	}
	routes.Register(mux, deps)

	var h http.Handler = mux
	if v.AccessLog != nil {
		logged := handlers.CombinedLoggingHandler(v.AccessLog, mux)
		h = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if skipAccessLog(r.URL.Path) {
				mux.ServeHTTP(w, r)
				return
			}
			logged.ServeHTTP(w, r)
		})
	}
	return handlers.RecoveryHandler(
		handlers.RecoveryLogger(log.Default()),
		handlers.PrintRecoveryStack(true),
	)(h), nil
}

// Long-lived streams need the raw writer (Hijacker / Flusher); thumbnails
// would flood the Logs tab.
func skipAccessLog(p string) bool {
	return p == "/ws/progress" || p == "/api/logs/stream" || strings.HasPrefix(p, "/images/")
}

// Start serves the UI on addr until ctx is cancelled.
func Start(ctx context.Context, addr string, v Viewer) error {
	h, err := Handler(addr, v)
	if err != nil {
		return err
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
		// Streams end when the server shuts down.
		BaseContext: func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()
	log.Printf("VIEWER: listening on http://%s", addr)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), util.ShortTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
