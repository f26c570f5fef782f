// Package prompts keeps named positive/negative prompt pairs in a flat JSON
// file: {"name": {"positive": "...", "negative": "..."}}.
package prompts

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/petervdpas/sdcpp-webui/internal/util"
)

var ErrEmptyName = errors.New("prompt name is empty")

type Prompt struct {
	Positive string `json:"positive"`
	Negative string `json:"negative"`
}

type Store struct {
	mu      sync.Mutex
	path    string
	prompts map[string]Prompt
}

// Open loads path. A missing or malformed file gives an empty store; the
// file is only written on the next Save or Delete.
func Open(path string) *Store {
	s := &Store{path: path}
	s.prompts = read(path)
	return s
}

func read(path string) map[string]Prompt {
	b, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf("PROMPTS: read %s: %v", path, err)
		}
		return map[string]Prompt{}
	}
	m := map[string]Prompt{}
	if err := json.Unmarshal(util.StripBOM(b), &m); err != nil {
		log.Printf("PROMPTS: %s is malformed, starting empty: %v", path, err)
		return map[string]Prompt{}
	}
	if m == nil {
		m = map[string]Prompt{}
	}
	return m
}

// Reload re-reads the file, discarding in-memory state.
func (s *Store) Reload() {
	m := read(s.path)
	s.mu.Lock()
	s.prompts = m
	s.mu.Unlock()
}

// Names returns the saved prompt names, sorted.
func (s *Store) Names() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.prompts))
	for n := range s.prompts {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

func (s *Store) Load(name string) (Prompt, bool) {
	name = normalize(name)
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.prompts[name]
	return p, ok
}

// Save stores (or overwrites) name and persists the file.
func (s *Store) Save(name, positive, negative string) error {
	name = normalize(name)
	if name == "" {
		return ErrEmptyName
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	next := clone(s.prompts)
	next[name] = Prompt{Positive: positive, Negative: negative}
	if err := util.WriteJSONFile(s.path, next); err != nil {
		return fmt.Errorf("save prompts: %w", err)
	}
	s.prompts = next
	return nil
}

// Delete removes name. Deleting a missing name is a no-op.
func (s *Store) Delete(name string) error {
	name = normalize(name)
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.prompts[name]; !ok {
		return nil
	}
	next := clone(s.prompts)
	delete(next, name)
	if err := util.WriteJSONFile(s.path, next); err != nil {
		return fmt.Errorf("save prompts: %w", err)
	}
	s.prompts = next
	return nil
}

// normalize is the key form of a prompt name.
func normalize(name string) string { return strings.TrimSpace(name) }

func clone(m map[string]Prompt) map[string]Prompt {
	out := make(map[string]Prompt, len(m)+1)
	for k, v := range m {
		out[k] = v
	}
	return out
}
