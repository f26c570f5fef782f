// Package models lists the files the dropdowns offer and the checkpoints a
// remote hub advertises for conversion.
package models

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/petervdpas/sdcpp-webui/internal/content"
	"github.com/petervdpas/sdcpp-webui/internal/metrics"
	"github.com/petervdpas/sdcpp-webui/internal/util"
)

// List returns the names of the regular files in dir, sorted without regard
// to case. Hidden files are skipped; a missing or unreadable directory
// yields an empty list.
func List(dir string) []string {
	store, err := content.NewStore(dir)
	if err != nil {
		return []string{}
	}
	entries, err := store.List(context.Background())
	if err != nil {
		if err != content.ErrNotFound {
			log.Printf("MODELS: list %s: %v", dir, err)
		}
		return []string{}
	}
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir {
			continue
		}
		out = append(out, e.Name)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := strings.ToLower(out[i]), strings.ToLower(out[j])
		if a != b {
			return a < b
		}
		return out[i] < out[j]
	})
	return out
}

// Dirs lists the names of the subdirectories of dir (diffusers checkpoints
// are folders, not files).
func Dirs(dir string) []string {
	store, err := content.NewStore(dir)
	if err != nil {
		return []string{}
	}
	entries, err := store.List(context.Background())
	if err != nil {
		return []string{}
	}
	out := []string{}
	for _, e := range entries {
		if e.IsDir {
			out = append(out, e.Name)
		}
	}
	return out
}

// Remote queries a model hub listing endpoint.
type Remote struct {
	URL    string
	Client *http.Client
}

func NewRemote(url string) *Remote {
	return &Remote{URL: url, Client: &http.Client{Timeout: util.DefaultFetchTimeout}}
}

type hubModel struct {
	ID string `json:"id"`
}

// List returns model ids in response order. Any failure is logged and
// yields an empty list.
func (r *Remote) List(ctx context.Context) []string {
	ids, err := r.fetch(ctx)
	if err != nil {
		log.Printf("MODELS: remote listing: %v", err)
		metrics.IncError("models", "remote")
		return []string{}
	}
	return ids
}

func (r *Remote) fetch(ctx context.Context) ([]string, error) {
	if r == nil || r.URL == "" {
		return nil, fmt.Errorf("no hub url configured")
	}
	client := r.Client
	if client == nil {
		client = &http.Client{Timeout: util.DefaultFetchTimeout}
	}
	ctx, cancel := context.WithTimeout(ctx, util.DefaultFetchTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.URL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s: %s", r.URL, resp.Status)
	}

	var models []hubModel
	if err := json.NewDecoder(resp.Body).Decode(&models); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	ids := make([]string, 0, len(models))
	for _, m := range models {
		if m.ID != "" {
			ids = append(ids, m.ID)
		}
	}
	log.Printf("MODELS: %d remote models in %s", len(ids), time.Since(start).Round(time.Millisecond))
	return ids, nil
}
