// Package gallery pages through the txt2img and img2img output folders.
//
// A Manager is the one browsing session of the process: it remembers the
// selected folder, the cached file list and the current page. All methods
// are safe for concurrent use; every call runs to completion before the
// next one touches the state.
package gallery

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/petervdpas/sdcpp-webui/internal/content"
	"github.com/petervdpas/sdcpp-webui/internal/metrics"
)

// Target names one of the two output folders.
type Target string

const (
	Txt2Img Target = "txt2img"
	Img2Img Target = "img2img"
)

func ParseTarget(s string) (Target, error) {
	switch Target(strings.ToLower(strings.TrimSpace(s))) {
	case Txt2Img:
		return Txt2Img, nil
	case Img2Img:
		return Img2Img, nil
	}
	return "", fmt.Errorf("unknown gallery %q", s)
}

const DefaultPageSize = 16

var imageExts = map[string]bool{
	".png": true, ".jpg": true, ".jpeg": true, ".webp": true,
}

// Image is one file of a gallery folder.
type Image struct {
	Name string    `json:"name"`
	Path string    `json:"-"`
	Size int64     `json:"size"`
	Mod  time.Time `json:"mod"`
}

// View is what the UI renders after every command.
type View struct {
	Target Target  `json:"target"`
	Page   int     `json:"page"`
	Pages  int     `json:"pages"`
	Total  int     `json:"total"`
	Images []Image `json:"images"`
}

type Manager struct {
	mu       sync.Mutex
	dirs     map[Target]string
	pageSize int
	target   Target
	files    []Image
	page     int
	stale    bool
	watcher  *fsnotify.Watcher
}

// New returns a manager showing the txt2img folder. pageSize < 1 uses
// DefaultPageSize. The folder is scanned lazily on first use.
func New(txt2imgDir, img2imgDir string, pageSize int) *Manager {
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	return &Manager{
		dirs:     map[Target]string{Txt2Img: txt2imgDir, Img2Img: img2imgDir},
		pageSize: pageSize,
		target:   Txt2Img,
		page:     1,
		stale:    true,
	}
}

// SetDirs points the manager at new output folders. When a folder changed
// the cached listing is dropped and the view goes back to page 1.
func (m *Manager) SetDirs(txt2imgDir, img2imgDir string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	old := m.dirs
	if old[Txt2Img] == txt2imgDir && old[Img2Img] == img2imgDir {
		return
	}
	m.dirs = map[Target]string{Txt2Img: txt2imgDir, Img2Img: img2imgDir}
	m.stale = true
	m.page = 1
	if m.watcher != nil {
		for _, d := range old {
			_ = m.watcher.Remove(d)
		}
		m.watchDirsLocked()
	}
}

// SetPageSize changes the page size; the current page is clamped.
func (m *Manager) SetPageSize(n int) {
	if n < 1 {
		n = DefaultPageSize
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pageSize = n
	m.page = clamp(m.page, 1, m.pagesLocked())
}

// Dir returns the folder of target.
func (m *Manager) Dir(t Target) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.dirs[t]
}

// Reload rescans target and goes back to page 1. An empty target reloads
// the current folder.
func (m *Manager) Reload(t Target) View {
	m.mu.Lock()
	defer m.mu.Unlock()
	if t != "" {
		m.target = t
	}
	m.rescanLocked()
	m.page = 1
	return m.viewLocked()
}

// First is the "first page" button: a rescan of the current folder.
func (m *Manager) First() View {
	return m.Reload("")
}

func (m *Manager) Next() View {
	return m.move(func(page, pages int) int { return page + 1 })
}

func (m *Manager) Prev() View {
	return m.move(func(page, pages int) int { return page - 1 })
}

func (m *Manager) Last() View {
	return m.move(func(page, pages int) int { return pages })
}

// Goto jumps to page n. Out of range values are clamped, never rejected.
func (m *Manager) Goto(n int) View {
	return m.move(func(page, pages int) int { return n })
}

// Current returns the view without changing the page.
func (m *Manager) Current() View {
	return m.move(func(page, pages int) int { return page })
}

func (m *Manager) move(next func(page, pages int) int) View {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.stale {
		m.rescanLocked()
	}
	pages := m.pagesLocked()
	m.page = clamp(next(clamp(m.page, 1, pages), pages), 1, pages)
	return m.viewLocked()
}

// ImgInfo returns the generation parameters stored with the index-th image
// of the current page, or "" when there are none.
func (m *Manager) ImgInfo(index int) string {
	m.mu.Lock()
	page := m.pageLocked()
	m.mu.Unlock()
	if index < 0 || index >= len(page) {
		return ""
	}
	return ReadMetadata(page[index].Path)
}

// Lookup finds name in the current folder.
func (m *Manager) Lookup(name string) (Image, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, img := range m.files {
		if img.Name == name {
			return img, true
		}
	}
	return Image{}, false
}

func (m *Manager) pagesLocked() int {
	n := len(m.files)
	if n == 0 {
		return 1
	}
	return (n + m.pageSize - 1) / m.pageSize
}

func (m *Manager) pageLocked() []Image {
	start := (m.page - 1) * m.pageSize
	if start < 0 || start >= len(m.files) {
		return nil
	}
	end := min(start+m.pageSize, len(m.files))
	out := make([]Image, end-start)
	copy(out, m.files[start:end])
	return out
}

func (m *Manager) viewLocked() View {
	images := m.pageLocked()
	if images == nil {
		images = []Image{}
	}
	return View{
		Target: m.target,
		Page:   m.page,
		Pages:  m.pagesLocked(),
		Total:  len(m.files),
		Images: images,
	}
}

// rescanLocked lists the current folder: images only, newest first, name
// as tie breaker. A missing folder is an empty gallery.
func (m *Manager) rescanLocked() {
	m.stale = false
	m.files = nil
	metrics.IncGalleryReload(string(m.target))

	dir := m.dirs[m.target]
	store, err := content.NewStore(dir)
	if err != nil {
		return
	}
	entries, err := store.List(context.Background())
	if err != nil {
		if err != content.ErrNotFound {
			log.Printf("GALLERY: scan %s: %v", dir, err)
			metrics.IncError("gallery", "scan")
		}
		return
	}
	files := make([]Image, 0, len(entries))
	for _, e := range entries {
		if e.IsDir || !imageExts[strings.ToLower(filepath.Ext(e.Name))] {
			continue
		}
		files = append(files, Image{
			Name: e.Name,
			Path: filepath.Join(store.Root(), e.Name),
			Size: e.Size,
			Mod:  e.Mod,
		})
	}
	sort.SliceStable(files, func(i, j int) bool {
		if !files[i].Mod.Equal(files[j].Mod) {
			return files[i].Mod.After(files[j].Mod)
		}
		return files[i].Name < files[j].Name
	})
	m.files = files
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
