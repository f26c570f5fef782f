package gallery

import (
	"context"
	"fmt"
	"log"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watch marks the cached listing stale whenever a file in the current
// folder is created, removed or renamed, so the next page command rescans.
// It blocks until ctx is done.
func (m *Manager) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create fsnotify watcher: %w", err)
	}
	m.mu.Lock()
	m.watcher = watcher
	m.watchDirsLocked()
	m.mu.Unlock()

	defer func() {
		m.mu.Lock()
		m.watcher = nil
		m.mu.Unlock()
		watcher.Close()
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Create|fsnotify.Remove|fsnotify.Rename|fsnotify.Write) == 0 {
				continue
			}
			m.invalidate(filepath.Dir(event.Name))
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Printf("GALLERY: watcher error: %v", err)
		}
	}
}

func (m *Manager) invalidate(dir string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, err := filepath.Abs(m.dirs[m.target])
	if err != nil {
		return
	}
	if abs, err := filepath.Abs(dir); err == nil && abs == cur {
		m.stale = true
	}
}

// watchDirsLocked adds both output folders. Folders that do not exist yet
// are skipped; sd creates them on the first run and a later SetDirs or
// restart picks them up.
func (m *Manager) watchDirsLocked() {
	for _, d := range m.dirs {
		if d == "" {
			continue
		}
		if err := m.watcher.Add(d); err != nil {
			log.Printf("GALLERY: not watching %s: %v", d, err)
		}
	}
}

// Invalidate forces a rescan on the next command. The runner calls it after
// a run because the first run creates the output folder.
func (m *Manager) Invalidate() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stale = true
	if m.watcher != nil {
		m.watchDirsLocked()
	}
}
