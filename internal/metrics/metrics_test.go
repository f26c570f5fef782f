package metrics

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scrape(t *testing.T) string {
	t.Helper()
	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	return string(body)
}

func TestHandlerExposesSeries(t *testing.T) {
	IncRun("txt2img", "ok")
	IncGalleryReload("img2img")
	ObserveRunDuration("convert", 3*time.Second)
	IncError("gallery", "read")

	text := scrape(t)
	for _, series := range []string{
		`sdcpp_generations_total{mode="txt2img",result="ok"}`,
		`sdcpp_gallery_reloads_total{target="img2img"}`,
		`sdcpp_generation_duration_seconds_bucket{mode="convert"`,
		`sdcpp_errors_total{component="gallery",type="read"}`,
	} {
		assert.Contains(t, text, series)
	}
}

func TestActiveRunsGauge(t *testing.T) {
	SetActiveRuns(1)
	assert.Contains(t, scrape(t), "sdcpp_generation_active 1")
	SetActiveRuns(0)
	assert.Contains(t, scrape(t), "sdcpp_generation_active 0")
}
