package viewer

import (
	"net/http"
	"strings"
)

// assetCache revalidates embedded assets against the build version. Dev
// builds are never cached so edited templates and app.js stay in step.
func assetCache(version string, next http.Handler) http.Handler {
	dev := version == "" || version == "dev" || strings.HasSuffix(version, "-dirty")
	tag := `"` + version + `"`
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if dev {
			w.Header().Set("Cache-Control", "no-store")
			next.ServeHTTP(w, r)
			return
		}
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("ETag", tag)
		if r.Header.Get("If-None-Match") == tag {
			w.WriteHeader(http.StatusNotModified)
			return
		}
		next.ServeHTTP(w, r)
	})
}
