// Package docs renders the embedded help pages shown in the Help tab.
package docs

import (
	"bytes"
	"embed"
	"html/template"
	"path"
	"strings"

	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

//go:embed pages/*.md
var pagesFS embed.FS

// Page is one rendered help page.
type Page struct {
	Slug  string
	Title string
	HTML  template.HTML
}

// Site holds all help pages, rendered once at startup. Pages keep the
// order of their file name prefix ("01-overview.md" comes first).
type Site struct {
	Pages  []Page
	bySlug map[string]int
}

func NewSite() *Site {
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.Table,
			highlighting.NewHighlighting(highlighting.WithStyle("github")),
		),
		goldmark.WithRendererOptions(html.WithUnsafe()),
	)

	site := &Site{bySlug: map[string]int{}}
	entries, err := pagesFS.ReadDir("pages")
	if err != nil {
		return site
	}

	// ReadDir returns entries sorted by name.
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".md") {
			continue
		}
		data, err := pagesFS.ReadFile(path.Join("pages", e.Name()))
		if err != nil {
			continue
		}

		name := strings.TrimSuffix(e.Name(), ".md")
		slug := name
		if _, rest, ok := strings.Cut(name, "-"); ok {
			slug = rest
		}

		var buf bytes.Buffer
		if err := md.Convert(data, &buf); err != nil {
			continue
		}
		site.bySlug[slug] = len(site.Pages)
		site.Pages = append(site.Pages, Page{
			Slug:  slug,
			Title: titleOf(data, slug),
			HTML:  template.HTML(buf.String()),
		})
	}
	return site
}

// Get returns the page for slug.
func (s *Site) Get(slug string) (Page, bool) {
	i, ok := s.bySlug[slug]
	if !ok {
		return Page{}, false
	}
	return s.Pages[i], true
}

// First returns the first page, used when no slug is given.
func (s *Site) First() (Page, bool) {
	if len(s.Pages) == 0 {
		return Page{}, false
	}
	return s.Pages[0], true
}

// titleOf is the first "# Heading" line.
func titleOf(data []byte, fallback string) string {
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "# ") {
			return strings.TrimPrefix(line, "# ")
		}
	}
	return fallback
}
