// internal/ui/viewmodels/gallery.go

package viewmodels

import (
	"net/url"
	"time"

	"github.com/petervdpas/sdcpp-webui/internal/gallery"
)

type GalleryImage struct {
	Name string    `json:"name"`
	URL  string    `json:"url"`
	Size int64     `json:"size"`
	Mod  time.Time `json:"mod"`
}

// GalleryPage is a gallery.View with browser URLs for the thumbnails.
type GalleryPage struct {
	Target string         `json:"target"`
	Page   int            `json:"page"`
	Pages  int            `json:"pages"`
	Total  int            `json:"total"`
	Images []GalleryImage `json:"images"`
}

type GalleryVM struct {
	BaseVM
	Gallery GalleryPage
	Targets []string
}

// ImageURL is where /images serves name from the target folder.
func ImageURL(target, name string) string {
	return "/images/" + target + "/" + url.PathEscape(name)
}

func BuildGalleryPage(v gallery.View) GalleryPage {
	out := GalleryPage{
		Target: string(v.Target),
		Page:   v.Page,
		Pages:  v.Pages,
		Total:  v.Total,
		Images: make([]GalleryImage, 0, len(v.Images)),
	}
	for _, img := range v.Images {
		out.Images = append(out.Images, GalleryImage{
			Name: img.Name,
			URL:  ImageURL(out.Target, img.Name),
			Size: img.Size,
			Mod:  img.Mod,
		})
	}
	return out
}
