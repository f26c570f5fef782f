package models

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestList(t *testing.T) {
	dir := t.TempDir()
	for _, n := range []string{"b.safetensors", "a.gguf", "c.ckpt"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, n), nil, 0o644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sd-v1-5"), 0o755))

	assert.Equal(t, []string{"a.gguf", "b.safetensors", "c.ckpt"}, List(dir))
	assert.Equal(t, []string{"sd-v1-5"}, Dirs(dir))
}

func TestList_CaseInsensitiveSkipsHidden(t *testing.T) {
	dir := t.TempDir()
	for _, n := range []string{"Zeta.gguf", "alpha.ckpt", "Beta.safetensors", ".DS_Store"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, n), nil, 0o644))
	}
	assert.Equal(t, []string{"alpha.ckpt", "Beta.safetensors", "Zeta.gguf"}, List(dir))
}

func TestList_MissingDir(t *testing.T) {
	got := List(filepath.Join(t.TempDir(), "nope"))
	assert.NotNil(t, got)
	assert.Empty(t, got)
	assert.Empty(t, Dirs(filepath.Join(t.TempDir(), "nope")))
}

func TestRemoteList(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"id":"stabilityai/sdxl"},{"id":""},{"id":"runwayml/sd-v1-5","downloads":3}]`))
	}))
	defer srv.Close()

	got := NewRemote(srv.URL).List(context.Background())
	assert.Equal(t, []string{"stabilityai/sdxl", "runwayml/sd-v1-5"}, got)
}

func TestRemoteList_Failures(t *testing.T) {
	bad := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusBadGateway)
	}))
	defer bad.Close()
	garbage := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"not":"a list"}`))
	}))
	defer garbage.Close()

	for _, url := range []string{bad.URL, garbage.URL, "", "http://127.0.0.1:1/unreachable"} {
		got := NewRemote(url).List(context.Background())
		assert.NotNil(t, got, url)
		assert.Empty(t, got, url)
	}
}
