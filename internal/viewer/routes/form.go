package routes

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/petervdpas/sdcpp-webui/internal/sdcpp"
)

// formReader pulls typed values out of a parsed form and remembers the
// first conversion error.
type formReader struct {
	r   *http.Request
	err error
}

func (f *formReader) has(key string) bool {
	_, ok := f.r.Form[key]
	return ok
}

func (f *formReader) str(key, def string) string {
	if !f.has(key) {
		return def
	}
	return strings.TrimSpace(f.r.FormValue(key))
}

func (f *formReader) int(key string, def int) int {
	v := f.str(key, "")
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil && f.err == nil {
		f.err = fmt.Errorf("%s: %q is not a whole number", key, v)
	}
	return n
}

func (f *formReader) int64(key string, def int64) int64 {
	v := f.str(key, "")
	if v == "" {
		return def
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil && f.err == nil {
		f.err = fmt.Errorf("%s: %q is not a whole number", key, v)
	}
	return n
}

func (f *formReader) float(key string, def float64) float64 {
	v := f.str(key, "")
	if v == "" {
		return def
	}
	n, err := strconv.ParseFloat(v, 64)
	if err != nil && f.err == nil {
		f.err = fmt.Errorf("%s: %q is not a number", key, v)
	}
	return n
}

// bool follows checkbox semantics: absent means off.
func (f *formReader) bool(key string) bool {
	switch strings.ToLower(f.str(key, "")) {
	case "on", "true", "1", "yes":
		return true
	}
	return false
}

// readCommon fills the shared generation parameters, starting from the
// form defaults.
func readCommon(r *http.Request) (sdcpp.Common, error) {
	f := &formReader{r: r}
	c := sdcpp.NewCommon()

	c.Model = f.str("model", c.Model)
	c.VAE = f.str("vae", c.VAE)
	c.TAESD = f.str("taesd", c.TAESD)
	c.Upscaler = f.str("upscaler", c.Upscaler)
	c.UpscaleRepeats = f.int("upscale_repeats", c.UpscaleRepeats)
	c.ControlNet = f.str("controlnet", c.ControlNet)
	c.ControlStrength = f.float("control_strength", c.ControlStrength)

	// Prompts keep their whitespace.
	c.Positive = r.FormValue("positive")
	c.Negative = r.FormValue("negative")

	c.Sampler = f.str("sampler", c.Sampler)
	c.Steps = f.int("steps", c.Steps)
	c.Schedule = f.str("schedule", c.Schedule)
	c.Width = f.int("width", c.Width)
	c.Height = f.int("height", c.Height)
	c.BatchCount = f.int("batch_count", c.BatchCount)
	c.CFGScale = f.float("cfg_scale", c.CFGScale)
	c.Seed = f.int64("seed", c.Seed)
	c.ClipSkip = f.int("clip_skip", c.ClipSkip)
	c.Threads = f.int("threads", c.Threads)

	c.VAETiling = f.bool("vae_tiling")
	c.VAEOnCPU = f.bool("vae_cpu")
	c.ControlNetCPU = f.bool("cnnet_cpu")
	c.RNG = f.str("rng", c.RNG)
	c.Predict = f.str("predict", c.Predict)
	c.Output = f.str("output", c.Output)
	c.Color = f.bool("color")
	c.Verbose = f.bool("verbose")

	return c, f.err
}

// readImg2Img adds the img2img-only fields; InitImage is set by the caller
// once the upload is stored.
func readImg2Img(r *http.Request, c sdcpp.Common) (sdcpp.Img2ImgRequest, error) {
	f := &formReader{r: r}
	req := sdcpp.Img2ImgRequest{
		Common:       c,
		Strength:     f.float("strength", 0.75),
		StyleRatio:   f.float("style_ratio", 20),
		StyleRatioOn: f.bool("style_ratio_enabled"),
		Canny:        f.bool("canny"),
	}
	return req, f.err
}
