package routes

import (
	"log"
	"net/http"
	"net/url"
	"strings"

	"github.com/petervdpas/sdcpp-webui/internal/util"
)

// openBrowser is swapped out in tests.
var openBrowser = util.OpenURL

// RegisterOpenRoute wires GET /open?url=... which opens an external page
// (a model card from the converter tab) in the system browser, then sends
// the UI back where it was.
func RegisterOpenRoute(mux *http.ServeMux) {
	handleGet(mux, "/open", func(w http.ResponseWriter, r *http.Request) {
		target, ok := externalURL(r.URL.Query().Get("url"))
		if !ok {
			http.Error(w, "only http and https links can be opened", http.StatusBadRequest)
			return
		}
		if err := openBrowser(target); err != nil {
			log.Printf("VIEWER: open %s: %v", target, err)
			http.Error(w, "failed to open browser: "+err.Error(), http.StatusInternalServerError)
			return
		}

		back := r.Referer()
		if back == "" {
			back = "/convert"
		}
		http.Redirect(w, r, back, http.StatusFound)
	})
}

func externalURL(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	u, err := url.Parse(raw)
	if raw == "" || err != nil || u.Host == "" {
		return "", false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", false
	}
	return u.String(), true
}
