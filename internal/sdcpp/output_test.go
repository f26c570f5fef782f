package sdcpp

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
}

func TestNextOutputPath_Numbering(t *testing.T) {
	dir := t.TempDir()

	p, err := NextOutputPath(dir, "")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "1.png"), p)

	touch(t, filepath.Join(dir, "1.png"))
	touch(t, filepath.Join(dir, "3_2.png"))
	touch(t, filepath.Join(dir, "cat.png"))
	touch(t, filepath.Join(dir, "10.jpg"))

	p, err = NextOutputPath(dir, "")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "4.png"), p)
}

func TestNextOutputPath_MissingDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nope")
	p, err := NextOutputPath(dir, "")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "1.png"), p)
}

func TestNextOutputPath_CustomName(t *testing.T) {
	dir := t.TempDir()
	p, err := NextOutputPath(dir, "portrait")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "portrait.png"), p)

	p, err = NextOutputPath(dir, "shot.jpg")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "shot.jpg"), p)

	_, err = NextOutputPath(dir, "../escape")
	assert.Error(t, err)
}

func TestBatchOutputs(t *testing.T) {
	assert.Equal(t, []string{"/o/5.png"}, BatchOutputs("/o/5.png", 0))
	assert.Equal(t, []string{"/o/5.png", "/o/5_2.png", "/o/5_3.png"}, BatchOutputs("/o/5.png", 3))
}
