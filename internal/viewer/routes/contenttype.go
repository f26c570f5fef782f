package routes

import (
	"mime"
	"net/http"
	"path"
	"strings"
)

// contentTypeForPath picks the Content-Type for a gallery file, falling back
// to sniffing when the extension is unknown.
func contentTypeForPath(rel string, data []byte) string {
	ext := strings.ToLower(path.Ext(rel))

	switch ext {
	case ".png":
		return "image/png"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".webp":
		return "image/webp"
	case ".txt":
		return "text/plain; charset=utf-8"
	}

	if ext != "" {
		if mt := mime.TypeByExtension(ext); mt != "" {
			return mt
		}
	}
	return http.DetectContentType(data)
}
