package render

import (
	"bytes"
	"fmt"
	"html"
	"html/template"
	"net/http"
	"strconv"
	"strings"
	"sync"

	"github.com/petervdpas/sdcpp-webui/internal/ui"
)

var (
	tmpl    *template.Template
	once    sync.Once
	initErr error
)

func InitTemplates() error {
	once.Do(func() {
		funcs := template.FuncMap{
			"isActive": func(active, key string) bool { return active == key },
			// ftoa prints form floats without trailing zeros (0.75, 7).
			"ftoa": func(f float64) string { return strconv.FormatFloat(f, 'f', -1, 64) },

			// dict builds a map for partials that need more than one value.
			"dict": func(kv ...any) (map[string]any, error) {
				if len(kv)%2 != 0 {
					return nil, fmt.Errorf("dict: odd number of arguments")
				}
				m := make(map[string]any, len(kv)/2)
				for i := 0; i < len(kv); i += 2 {
					k, ok := kv[i].(string)
					if !ok {
						return nil, fmt.Errorf("dict: key %v is not a string", kv[i])
					}
					m[k] = kv[i+1]
				}
				return m, nil
			},

			// include renders a named template (e.g. "page.gallery") and returns HTML.
			// Go templates cannot pick a template name dynamically in {{template ...}}.
			"include": func(name string, data any) template.HTML {
				if tmpl == nil {
					return template.HTML(`<pre class="err">templates not initialized</pre>`)
				}
				var b strings.Builder
				if err := tmpl.ExecuteTemplate(&b, name, data); err != nil {
					return template.HTML(`<pre class="err">` + html.EscapeString(err.Error()) + `</pre>`)
				}
				return template.HTML(b.String())
			},
		}

		var err error
		// ParseFS paths must match the embedded paths exactly.
		tmpl, err = template.New("root").Funcs(funcs).ParseFS(ui.TemplatesFS, "templates/*.html")
		if err != nil {
			initErr = err
			return
		}
	})
	return initErr
}

// Render executes the shared layout, which picks the page body through
// .ContentTmpl. The page is buffered so a template error never leaves half
// a document behind.
func Render(w http.ResponseWriter, data any) {
	if err := InitTemplates(); err != nil {
		http.Error(w, fmt.Sprintf("template init error: %v", err), http.StatusInternalServerError)
		return
	}
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", data); err != nil {
		http.Error(w, fmt.Sprintf("template error: %v", err), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}
