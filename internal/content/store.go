// Package content gives guarded access to the flat folders the web UI reads
// and writes: output folders, model folders and the upload scratch dir.
package content

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"
)

var (
	ErrBadName     = errors.New("invalid file name")
	ErrOutsideRoot = errors.New("path outside root")
	ErrNotFound    = errors.New("not found")
	ErrConflict    = errors.New("conflict")
)

// Store addresses the direct children of one folder by name. Names never
// carry a separator, and symlinks that lead out of the folder are refused.
type Store struct {
	root string
}

func NewStore(root string) (*Store, error) {
	if strings.TrimSpace(root) == "" {
		return nil, errors.New("empty root")
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	return &Store{root: abs}, nil
}

// Entry is one child of the folder.
type Entry struct {
	Name  string
	Size  int64
	Mod   time.Time
	IsDir bool
}

func (s *Store) Root() string { return s.root }

func (s *Store) EnsureRoot() error { return os.MkdirAll(s.root, 0o755) }

// Resolve maps name to its absolute path.
func (s *Store) Resolve(name string) (string, error) {
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) || strings.ContainsRune(name, 0) {
		return "", ErrBadName
	}
	abs := filepath.Join(s.root, name)

	target, err := filepath.EvalSymlinks(abs)
	if err != nil {
		// Not there yet; the join alone cannot leave root.
		return abs, nil
	}
	realRoot, err := filepath.EvalSymlinks(s.root)
	if err != nil {
		realRoot = s.root
	}
	if filepath.Dir(target) != realRoot {
		return "", ErrOutsideRoot
	}
	return abs, nil
}

// Read returns the file contents and a content hash usable as an ETag.
func (s *Store) Read(ctx context.Context, name string) ([]byte, string, error) {
	if err := ctx.Err(); err != nil {
		return nil, "", err
	}
	abs, err := s.Resolve(name)
	if err != nil {
		return nil, "", err
	}
	b, err := os.ReadFile(abs)
	switch {
	case errors.Is(err, os.ErrNotExist):
		return nil, "", ErrNotFound
	case err != nil:
		if fi, serr := os.Stat(abs); serr == nil && fi.IsDir() {
			return nil, "", ErrNotFound
		}
		return nil, "", err
	}
	return b, hashOf(b), nil
}

// Write replaces name with data through a temp file in the same folder.
func (s *Store) Write(ctx context.Context, name string, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	abs, err := s.Resolve(name)
	if err != nil {
		return "", err
	}
	if fi, err := os.Stat(abs); err == nil && fi.IsDir() {
		return "", ErrConflict
	}
	if err := s.EnsureRoot(); err != nil {
		return "", err
	}

	f, err := os.CreateTemp(s.root, ".upload-*")
	if err != nil {
		return "", err
	}
	defer os.Remove(f.Name())
	if _, err := f.Write(data); err != nil {
		f.Close()
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", err
	}
	if err := os.Rename(f.Name(), abs); err != nil {
		return "", err
	}
	return hashOf(data), nil
}

func (s *Store) Delete(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	abs, err := s.Resolve(name)
	if err != nil {
		return err
	}
	if fi, err := os.Lstat(abs); err == nil && fi.IsDir() {
		return ErrConflict
	}
	if err := os.Remove(abs); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

// List returns the folder's entries sorted by name. A missing folder is
// ErrNotFound; hidden entries are skipped.
func (s *Store) List(ctx context.Context) ([]Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	des, err := os.ReadDir(s.root)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	out := make([]Entry, 0, len(des))
	for _, de := range des {
		if strings.HasPrefix(de.Name(), ".") {
			continue
		}
		fi, err := de.Info()
		if err != nil {
			continue // gone since ReadDir
		}
		out = append(out, Entry{Name: de.Name(), Size: fi.Size(), Mod: fi.ModTime(), IsDir: fi.IsDir()})
	}
	slices.SortFunc(out, func(a, b Entry) int { return strings.Compare(a.Name, b.Name) })
	return out, nil
}

func hashOf(b []byte) string {
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:16])
}
