package docs

import (
	"strings"
	"testing"
)

func TestNewSite(t *testing.T) {
	s := NewSite()
	if len(s.Pages) < 2 {
		t.Fatalf("pages = %d", len(s.Pages))
	}
	first, ok := s.First()
	if !ok || first.Slug != "overview" || first.Title != "Overview" {
		t.Fatalf("First = %+v", first)
	}
	if !strings.Contains(string(first.HTML), "<table>") {
		t.Fatal("table extension not applied")
	}

	g, ok := s.Get("gallery")
	if !ok || g.Title != "Gallery" {
		t.Fatalf("Get(gallery) = %+v %v", g, ok)
	}
	if !strings.Contains(string(g.HTML), "<pre") {
		t.Fatal("code block not rendered")
	}

	if _, ok := s.Get("nope"); ok {
		t.Fatal("unknown slug found")
	}
}
