package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/petervdpas/sdcpp-webui/internal/gallery"
)

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

func fill(t *testing.T, dir string, n int) {
	t.Helper()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	base := time.Now().Add(-time.Hour)
	for i := 0; i < n; i++ {
		p := filepath.Join(dir, fmt.Sprintf("img%02d.png", i))
		if err := os.WriteFile(p, []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
		mt := base.Add(-time.Duration(i) * time.Minute)
		if err := os.Chtimes(p, mt, mt); err != nil {
			t.Fatal(err)
		}
	}
}

func TestModel_PageKeys(t *testing.T) {
	dir := t.TempDir()
	fill(t, dir, 10)
	m := New(gallery.New(dir, t.TempDir(), 4), gallery.Txt2Img)

	if p := m.Page(); p.Page != 1 || p.Pages != 3 {
		t.Fatalf("start = %d/%d", p.Page, p.Pages)
	}

	m.Update(keyMsg("n"))
	m.Update(keyMsg("right"))
	if got := m.Page().Page; got != 3 {
		t.Fatalf("after two next: page %d", got)
	}
	m.Update(keyMsg("n"))
	if got := m.Page().Page; got != 3 {
		t.Errorf("next past end: page %d", got)
	}
	if got := len(m.Page().Images); got != 2 {
		t.Errorf("last page images = %d, want 2", got)
	}

	m.Update(keyMsg("p"))
	if got := m.Page().Page; got != 2 {
		t.Errorf("after prev: page %d", got)
	}
	m.Update(keyMsg("g"))
	if got := m.Page().Page; got != 1 {
		t.Errorf("after g: page %d", got)
	}
	m.Update(keyMsg("G"))
	if got := m.Page().Page; got != 3 {
		t.Errorf("after G: page %d", got)
	}
}

func TestModel_SelectionAndInfo(t *testing.T) {
	dir := t.TempDir()
	fill(t, dir, 3)
	if err := os.WriteFile(filepath.Join(dir, "img01.txt"), []byte("a lighthouse, steps 20\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	m := New(gallery.New(dir, t.TempDir(), 16), gallery.Txt2Img)

	m.Update(keyMsg("k"))
	if m.Selected() != 0 {
		t.Fatalf("k at top moved to %d", m.Selected())
	}
	m.Update(keyMsg("j"))
	if m.Selected() != 1 {
		t.Fatalf("selected = %d", m.Selected())
	}
	m.Update(keyMsg("enter"))
	if m.Info() != "a lighthouse, steps 20" {
		t.Errorf("info = %q", m.Info())
	}

	m.Update(keyMsg("j"))
	m.Update(keyMsg("j"))
	if m.Selected() != 2 {
		t.Errorf("j at bottom moved to %d", m.Selected())
	}
	if m.Info() != "" {
		t.Errorf("info not cleared on move: %q", m.Info())
	}
}

func TestModel_SwitchTarget(t *testing.T) {
	txt, img := t.TempDir(), t.TempDir()
	fill(t, txt, 2)
	fill(t, img, 5)
	m := New(gallery.New(txt, img, 16), gallery.Txt2Img)

	m.Update(keyMsg("tab"))
	if m.Page().Target != gallery.Img2Img || m.Page().Total != 5 {
		t.Fatalf("after tab: %s with %d images", m.Page().Target, m.Page().Total)
	}
	m.Update(keyMsg("tab"))
	if m.Page().Target != gallery.Txt2Img {
		t.Fatalf("after second tab: %s", m.Page().Target)
	}
}

func TestModel_QuitAndView(t *testing.T) {
	dir := t.TempDir()
	fill(t, dir, 1)
	m := New(gallery.New(dir, t.TempDir(), 16), gallery.Txt2Img)

	out := m.View()
	if !strings.Contains(out, "img00.png") || !strings.Contains(out, "txt2img gallery") {
		t.Errorf("view missing content:\n%s", out)
	}

	_, cmd := m.Update(keyMsg("q"))
	if cmd == nil {
		t.Fatal("q returned no command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q did not quit")
	}
}

func TestModel_EmptyFolder(t *testing.T) {
	m := New(gallery.New(filepath.Join(t.TempDir(), "missing"), t.TempDir(), 16), gallery.Txt2Img)
	if p := m.Page(); p.Total != 0 || p.Page != 1 || p.Pages != 1 {
		t.Fatalf("empty view = %+v", p)
	}
	m.Update(keyMsg("enter"))
	if m.Info() != "" {
		t.Errorf("info on empty page = %q", m.Info())
	}
	if !strings.Contains(m.View(), "no images") {
		t.Error("view does not say the folder is empty")
	}
}

func TestHumanSize(t *testing.T) {
	for n, want := range map[int64]string{512: "512 B", 2048: "2.0 KiB", 3 << 20: "3.0 MiB"} {
		if got := humanSize(n); got != want {
			t.Errorf("humanSize(%d) = %q, want %q", n, got, want)
		}
	}
}
