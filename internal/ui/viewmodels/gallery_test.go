package viewmodels

import (
	"testing"
	"time"

	"github.com/petervdpas/sdcpp-webui/internal/gallery"
)

func TestBuildGalleryPage(t *testing.T) {
	now := time.Now()
	v := gallery.View{
		Target: gallery.Img2Img,
		Page:   2,
		Pages:  3,
		Total:  9,
		Images: []gallery.Image{{Name: "my cat.png", Path: "/x/my cat.png", Size: 10, Mod: now}},
	}
	p := BuildGalleryPage(v)
	if p.Target != "img2img" || p.Page != 2 || p.Pages != 3 || p.Total != 9 {
		t.Fatalf("page = %+v", p)
	}
	if len(p.Images) != 1 || p.Images[0].URL != "/images/img2img/my%20cat.png" {
		t.Fatalf("images = %+v", p.Images)
	}

	empty := BuildGalleryPage(gallery.View{Target: gallery.Txt2Img, Page: 1, Pages: 1})
	if empty.Images == nil {
		t.Fatal("Images must be non-nil for JSON")
	}
}
