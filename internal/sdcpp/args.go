package sdcpp

import (
	"path/filepath"
	"strconv"

	"github.com/petervdpas/sdcpp-webui/internal/util"
)

// Dirs are the configured folders that dropdown values are relative to.
type Dirs struct {
	Model      string
	VAE        string
	Embeddings string
	Lora       string
	TAESD      string
	Upscaler   string
	ControlNet string
	Txt2ImgOut string
	Img2ImgOut string
	HFModel    string
}

// inDir resolves a dropdown value against its folder. Absolute values are
// kept as they are.
func inDir(dir, name string) string {
	if name == "" {
		return ""
	}
	return util.ResolvePath(dir, name)
}

func ftoa(f float64) string { return strconv.FormatFloat(f, 'f', -1, 64) }

type argList []string

func (a *argList) add(args ...string) { *a = append(*a, args...) }

// opt appends flag+value only when value is set.
func (a *argList) opt(flag, value string) {
	if value != "" {
		*a = append(*a, flag, value)
	}
}

func (a *argList) flag(flag string, on bool) {
	if on {
		*a = append(*a, flag)
	}
}

func commonArgs(a *argList, c Common, d Dirs, output string) {
	a.add("-m", inDir(d.Model, c.Model))
	a.opt("--vae", inDir(d.VAE, c.VAE))
	a.opt("--taesd", inDir(d.TAESD, c.TAESD))
	a.opt("--embd-dir", d.Embeddings)
	a.opt("--lora-model-dir", d.Lora)

	if c.Upscaler != "" {
		a.add("--upscale-model", inDir(d.Upscaler, c.Upscaler))
		a.add("--upscale-repeats", strconv.Itoa(c.UpscaleRepeats))
	}
	if c.ControlNet != "" {
		a.add("--control-net", inDir(d.ControlNet, c.ControlNet))
		a.opt("--control-image", c.ControlImage)
		a.add("--control-strength", ftoa(c.ControlStrength))
	}

	a.add("-p", c.Positive)
	a.opt("-n", c.Negative)
	a.add(
		"--sampling-method", c.Sampler,
		"--steps", strconv.Itoa(c.Steps),
		"--schedule", c.Schedule,
		"-W", strconv.Itoa(c.Width),
		"-H", strconv.Itoa(c.Height),
		"-b", strconv.Itoa(c.BatchCount),
		"--cfg-scale", ftoa(c.CFGScale),
		"-s", strconv.FormatInt(c.Seed, 10),
		"--clip-skip", strconv.Itoa(c.ClipSkip),
		"-t", strconv.Itoa(c.Threads),
		"--rng", c.RNG,
	)
	if c.Predict != "" && c.Predict != PredictDefault {
		a.add("--prediction", c.Predict)
	}
	a.flag("--vae-tiling", c.VAETiling)
	a.flag("--vae-on-cpu", c.VAEOnCPU)
	a.flag("--control-net-cpu", c.ControlNetCPU)
	a.add("-o", output)
	a.flag("--color", c.Color)
	a.flag("-v", c.Verbose)
}

// BuildTxt2ImgArgs returns the sd argument list (without the binary).
func BuildTxt2ImgArgs(req Txt2ImgRequest, d Dirs, output string) []string {
	a := argList{"-M", string(ModeTxt2Img)}
	commonArgs(&a, req.Common, d, output)
	return a
}

// BuildImg2ImgArgs returns the sd argument list (without the binary).
func BuildImg2ImgArgs(req Img2ImgRequest, d Dirs, output string) []string {
	a := argList{"-M", string(ModeImg2Img)}
	commonArgs(&a, req.Common, d, output)
	a.add("-i", req.InitImage, "--strength", ftoa(req.Strength))
	if req.StyleRatioOn {
		a.add("--style-ratio", ftoa(req.StyleRatio))
	}
	a.flag("--canny", req.Canny)
	return a
}

// BuildConvertArgs returns the sd argument list for a gguf conversion.
func BuildConvertArgs(req ConvertRequest, d Dirs, output string) []string {
	a := argList{"-M", string(ModeConvert), "-m", inDir(d.HFModel, req.Model), "-o", output, "--type", req.Type}
	a.flag("-v", req.Verbose)
	return a
}

// ConvertOutput picks the gguf destination. An empty name becomes
// <model stem>_<type>.gguf in the model folder.
func ConvertOutput(req ConvertRequest, d Dirs) (string, error) {
	if req.Output == "" {
		src := inDir(d.HFModel, req.Model)
		stem := filepath.Base(src)
		stem = stem[:len(stem)-len(filepath.Ext(stem))]
		return filepath.Join(d.Model, stem+"_"+req.Type+".gguf"), nil
	}
	name, err := util.ValidateName(req.Output)
	if err != nil {
		return "", err
	}
	if filepath.Ext(name) != ".gguf" {
		return "", ErrNotGGUF
	}
	return filepath.Join(d.Model, name), nil
}
