// Package assets serves the embedded stylesheet and script, minified once
// on first use.
package assets

import (
	"embed"
	"log"
	"net/http"
	"path"
	"strings"
	"sync"

	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/css"
	"github.com/tdewolff/minify/v2/js"
)

//go:embed app.css app.js
var files embed.FS

type asset struct {
	contentType string
	body        []byte
}

var (
	table     map[string]asset
	buildOnce sync.Once
)

func build() {
	m := minify.New()
	m.AddFunc("text/css", css.Minify)
	m.AddFunc("application/javascript", js.Minify)

	table = map[string]asset{}
	for name, media := range map[string]string{"app.css": "text/css", "app.js": "application/javascript"} {
		raw, err := files.ReadFile(name)
		if err != nil {
			continue
		}
		body, err := m.Bytes(media, raw)
		if err != nil {
			log.Printf("ASSETS: %s served unminified: %v", name, err)
			body = raw
		}
		table[name] = asset{contentType: media + "; charset=utf-8", body: body}
	}
}

// Lookup returns the served bytes of name ("app.js") and its content type.
func Lookup(name string) ([]byte, string, bool) {
	buildOnce.Do(build)
	a, ok := table[name]
	return a.body, a.contentType, ok
}

// Handler serves the assets; mount it behind http.StripPrefix("/assets/").
func Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, ct, ok := Lookup(strings.TrimPrefix(path.Clean("/"+r.URL.Path), "/"))
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", ct)
		_, _ = w.Write(body)
	})
}
