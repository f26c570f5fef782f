package sdcpp

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func valueAfter(args []string, flag string) (string, bool) {
	for i := 0; i < len(args)-1; i++ {
		if args[i] == flag {
			return args[i+1], true
		}
	}
	return "", false
}

func testDirs(root string) Dirs {
	return Dirs{
		Model:      filepath.Join(root, "checkpoints"),
		VAE:        filepath.Join(root, "vae"),
		Embeddings: filepath.Join(root, "embeddings"),
		Lora:       filepath.Join(root, "loras"),
		TAESD:      filepath.Join(root, "taesd"),
		Upscaler:   filepath.Join(root, "upscale"),
		ControlNet: filepath.Join(root, "controlnet"),
		Txt2ImgOut: filepath.Join(root, "out", "txt2img"),
		Img2ImgOut: filepath.Join(root, "out", "img2img"),
		HFModel:    filepath.Join(root, "hf"),
	}
}

func TestBuildTxt2ImgArgs_Defaults(t *testing.T) {
	d := testDirs("/data")
	c := NewCommon()
	c.Model = "sd15.safetensors"
	c.Positive = "a cat"
	args := BuildTxt2ImgArgs(Txt2ImgRequest{Common: c}, d, "/data/out/txt2img/1.png")

	assert.Equal(t, []string{"-M", "txt2img"}, args[:2])
	want := map[string]string{
		"-m":                filepath.Join("/data/checkpoints", "sd15.safetensors"),
		"-p":                "a cat",
		"--sampling-method": "euler_a",
		"--steps":           "20",
		"--schedule":        "discrete",
		"-W":                "512",
		"-H":                "512",
		"-b":                "1",
		"--cfg-scale":       "7",
		"-s":                "-1",
		"--rng":             "cuda",
		"-o":                "/data/out/txt2img/1.png",
		"--embd-dir":        d.Embeddings,
		"--lora-model-dir":  d.Lora,
	}
	for flag, v := range want {
		got, ok := valueAfter(args, flag)
		require.True(t, ok, "missing %s", flag)
		assert.Equal(t, v, got, flag)
	}
	for _, absent := range []string{"--vae", "--taesd", "-n", "--prediction", "--upscale-model", "--control-net", "-v"} {
		assert.NotContains(t, args, absent)
	}
	assert.Contains(t, args, "--color")
}

func TestBuildTxt2ImgArgs_Optionals(t *testing.T) {
	d := testDirs("/data")
	c := NewCommon()
	c.Model = "sd15.safetensors"
	c.VAE = "vae.safetensors"
	c.Negative = "blurry"
	c.Upscaler = "esrgan.pth"
	c.UpscaleRepeats = 2
	c.ControlNet = "canny.safetensors"
	c.ControlImage = "/tmp/ctl.png"
	c.Predict = "v"
	c.VAETiling = true
	c.Color = false
	c.Verbose = true
	args := BuildTxt2ImgArgs(Txt2ImgRequest{Common: c}, d, "out.png")

	v, _ := valueAfter(args, "--vae")
	assert.Equal(t, filepath.Join(d.VAE, "vae.safetensors"), v)
	v, _ = valueAfter(args, "-n")
	assert.Equal(t, "blurry", v)
	v, _ = valueAfter(args, "--upscale-repeats")
	assert.Equal(t, "2", v)
	v, _ = valueAfter(args, "--control-strength")
	assert.Equal(t, "0.9", v)
	v, _ = valueAfter(args, "--prediction")
	assert.Equal(t, "v", v)
	assert.Contains(t, args, "--vae-tiling")
	assert.Contains(t, args, "-v")
	assert.NotContains(t, args, "--color")
}

func TestBuildImg2ImgArgs(t *testing.T) {
	d := testDirs("/data")
	req := Img2ImgRequest{Common: NewCommon(), InitImage: "/tmp/in.png", Strength: 0.75}
	req.Model = "/abs/model.gguf"
	args := BuildImg2ImgArgs(req, d, "o.png")

	assert.Equal(t, "img2img", args[1])
	v, _ := valueAfter(args, "-m")
	assert.Equal(t, "/abs/model.gguf", v)
	v, _ = valueAfter(args, "-i")
	assert.Equal(t, "/tmp/in.png", v)
	v, _ = valueAfter(args, "--strength")
	assert.Equal(t, "0.75", v)
	assert.NotContains(t, args, "--style-ratio")
	assert.NotContains(t, args, "--canny")

	req.StyleRatioOn = true
	req.StyleRatio = 20
	req.Canny = true
	args = BuildImg2ImgArgs(req, d, "o.png")
	v, _ = valueAfter(args, "--style-ratio")
	assert.Equal(t, "20", v)
	assert.Contains(t, args, "--canny")
}

func TestBuildConvertArgs(t *testing.T) {
	d := testDirs("/data")
	req := ConvertRequest{Model: "sd-v1-5", Type: "q8_0"}
	out, err := ConvertOutput(req, d)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(d.Model, "sd-v1-5_q8_0.gguf"), out)

	args := BuildConvertArgs(req, d, out)
	assert.Equal(t, []string{"-M", "convert", "-m", filepath.Join(d.HFModel, "sd-v1-5"), "-o", out, "--type", "q8_0"}, args)
}

func TestConvertOutput_CustomName(t *testing.T) {
	d := testDirs("/data")
	out, err := ConvertOutput(ConvertRequest{Model: "m.safetensors", Type: "f16", Output: "mine.gguf"}, d)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(d.Model, "mine.gguf"), out)

	_, err = ConvertOutput(ConvertRequest{Model: "m.safetensors", Type: "f16", Output: "mine.bin"}, d)
	assert.ErrorIs(t, err, ErrNotGGUF)

	_, err = ConvertOutput(ConvertRequest{Model: "m.safetensors", Type: "f16", Output: "../mine.gguf"}, d)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	c := NewCommon()
	assert.ErrorContains(t, Validate(Txt2ImgRequest{Common: c}), "model is required")

	c.Model = "m.gguf"
	assert.NoError(t, Validate(Txt2ImgRequest{Common: c}))

	c.Sampler = "bogus"
	c.Steps = 0
	err := Validate(Txt2ImgRequest{Common: c})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown sampler "bogus"`)
	assert.Contains(t, err.Error(), "steps must be at least 1")

	img := Img2ImgRequest{Common: NewCommon(), Strength: 0.5}
	img.Model = "m.gguf"
	assert.ErrorContains(t, Validate(img), "initimage is required")

	assert.ErrorContains(t, Validate(ConvertRequest{Model: "m", Type: "q2"}), "unknown quantization type")
}
