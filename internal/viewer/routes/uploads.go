package routes

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/petervdpas/sdcpp-webui/internal/content"
)

const maxUpload = 64 << 20

var uploadExts = map[string]bool{".png": true, ".jpg": true, ".jpeg": true, ".webp": true, ".bmp": true}

// uploadSet tracks the files stored for one request so they can be removed
// once sd has read them.
type uploadSet struct {
	store *content.Store
	names []string
}

// save stores the multipart file field under a fresh name and returns its
// absolute path. A missing field returns "" and no error.
func (u *uploadSet) save(ctx context.Context, r *http.Request, field string) (string, error) {
	file, hdr, err := r.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return "", nil
		}
		return "", fmt.Errorf("%s: %w", field, err)
	}
	defer file.Close()

	if u.store == nil {
		return "", errors.New("uploads are not available")
	}

	ext := strings.ToLower(filepath.Ext(hdr.Filename))
	if !uploadExts[ext] {
		ext = ".png"
	}
	data, err := io.ReadAll(io.LimitReader(file, maxUpload+1))
	if err != nil {
		return "", fmt.Errorf("%s: %w", field, err)
	}
	if len(data) > maxUpload {
		return "", fmt.Errorf("%s: file too large", field)
	}

	name := uuid.NewString() + ext
	if _, err := u.store.Write(ctx, name, data); err != nil {
		return "", fmt.Errorf("%s: %w", field, err)
	}
	u.names = append(u.names, name)
	return u.store.Resolve(name)
}

func (u *uploadSet) cleanup() {
	for _, n := range u.names {
		if err := u.store.Delete(context.Background(), n); err != nil && !errors.Is(err, content.ErrNotFound) {
			log.Printf("VIEWER: remove upload %s: %v", n, err)
		}
	}
	u.names = nil
}
