package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"slices"
	"strings"

	"github.com/petervdpas/sdcpp-webui/internal/sdcpp"
	"github.com/petervdpas/sdcpp-webui/internal/util"
)

// Config is the flat key/value defaults file. Keys match the ones the
// Options tab writes so a hand-edited file stays readable.
type Config struct {
	DefModel     string `json:"def_model"`
	DefVAE       string `json:"def_vae"`
	DefSampling  string `json:"def_sampling"`
	DefSteps     int    `json:"def_steps"`
	DefScheduler string `json:"def_scheduler"`
	DefWidth     int    `json:"def_width"`
	DefHeight    int    `json:"def_height"`
	DefPredict   string `json:"def_predict"`

	ModelDir   string `json:"model_dir"`
	VAEDir     string `json:"vae_dir"`
	EmbDir     string `json:"emb_dir"`
	LoraDir    string `json:"lora_dir"`
	TAESDDir   string `json:"taesd_dir"`
	UpsclDir   string `json:"upscl_dir"`
	CnnetDir   string `json:"cnnet_dir"`
	Txt2ImgDir string `json:"txt2img_dir"`
	Img2ImgDir string `json:"img2img_dir"`

	// Source checkpoints offered by the converter tab.
	HFModelDir string `json:"hf_model_dir"`

	// Path or name of the stable-diffusion.cpp executable.
	SDBinary string `json:"sd_binary"`

	// Thumbnails per gallery page.
	PageSize int `json:"page_size"`

	// Model hub listing used by the converter tab. Empty disables it.
	HubURL string `json:"hub_url"`
}

func Default() Config {
	return Config{
		DefModel:     "",
		DefVAE:       "",
		DefSampling:  "euler_a",
		DefSteps:     20,
		DefScheduler: "discrete",
		DefWidth:     512,
		DefHeight:    512,
		DefPredict:   sdcpp.PredictDefault,

		ModelDir:   "models/checkpoints/",
		VAEDir:     "models/vae/",
		EmbDir:     "models/embeddings/",
		LoraDir:    "models/loras/",
		TAESDDir:   "models/taesd/",
		UpsclDir:   "models/upscale_models/",
		CnnetDir:   "models/controlnet/",
		Txt2ImgDir: "outputs/txt2img/",
		Img2ImgDir: "outputs/img2img/",
		HFModelDir: "models/hf_models/",

		SDBinary: "sd",
		PageSize: 16,
		HubURL:   "https://huggingface.co/api/models?library=diffusers&sort=downloads&direction=-1&limit=50",
	}
}

func (c *Config) Validate() error {
	if !slices.Contains(sdcpp.Samplers, c.DefSampling) {
		return fmt.Errorf("def_sampling must be one of %s", strings.Join(sdcpp.Samplers, ", "))
	}
	if !slices.Contains(sdcpp.Schedulers, c.DefScheduler) {
		return fmt.Errorf("def_scheduler must be one of %s", strings.Join(sdcpp.Schedulers, ", "))
	}
	if !slices.Contains(sdcpp.Predictions, c.DefPredict) {
		return fmt.Errorf("def_predict must be one of %s", strings.Join(sdcpp.Predictions, ", "))
	}
	if c.DefSteps < 1 || c.DefSteps > 99 {
		return errors.New("def_steps must be 1..99")
	}
	if c.DefWidth < 64 || c.DefWidth > 2048 {
		return errors.New("def_width must be 64..2048")
	}
	if c.DefHeight < 64 || c.DefHeight > 2048 {
		return errors.New("def_height must be 64..2048")
	}

	dirs := map[string]string{
		"model_dir":   c.ModelDir,
		"vae_dir":     c.VAEDir,
		"emb_dir":     c.EmbDir,
		"lora_dir":    c.LoraDir,
		"taesd_dir":   c.TAESDDir,
		"upscl_dir":   c.UpsclDir,
		"cnnet_dir":   c.CnnetDir,
		"txt2img_dir": c.Txt2ImgDir,
		"img2img_dir": c.Img2ImgDir,
	}
	for key, dir := range dirs {
		if strings.TrimSpace(dir) == "" {
			return fmt.Errorf("%s is required", key)
		}
	}

	if strings.TrimSpace(c.SDBinary) == "" {
		return errors.New("sd_binary is required")
	}
	if c.PageSize < 1 || c.PageSize > 100 {
		return errors.New("page_size must be 1..100")
	}

	if h := strings.TrimSpace(c.HubURL); h != "" {
		u, err := url.Parse(h)
		if err != nil {
			return fmt.Errorf("hub_url: invalid url: %v", err)
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			return errors.New("hub_url: scheme must be http or https")
		}
	}

	return nil
}

func Load(path string) (Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}

	b = util.StripBOM(b)

	// Start from defaults so missing JSON fields remain initialized.
	cfg := Default()
	if err := json.Unmarshal(b, &cfg); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func Save(path string, cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	return util.WriteJSONFile(path, cfg)
}

// Ensure loads config if it exists; otherwise creates a default config file.
// Returns (cfg, createdNew, err).
func Ensure(path string) (Config, bool, error) {
	if _, err := os.Stat(path); err == nil {
		cfg, err := Load(path)
		return cfg, false, err
	} else if !os.IsNotExist(err) {
		return Config{}, false, err
	}

	cfg := Default()
	if err := Save(path, cfg); err != nil {
		return Config{}, false, fmt.Errorf("create default config: %w", err)
	}
	return cfg, true, nil
}

// Dirs returns the folders the runner resolves dropdown values against.
func (c Config) Dirs() sdcpp.Dirs {
	return sdcpp.Dirs{
		Model:      c.ModelDir,
		VAE:        c.VAEDir,
		Embeddings: c.EmbDir,
		Lora:       c.LoraDir,
		TAESD:      c.TAESDDir,
		Upscaler:   c.UpsclDir,
		ControlNet: c.CnnetDir,
		Txt2ImgOut: c.Txt2ImgDir,
		Img2ImgOut: c.Img2ImgDir,
		HFModel:    c.HFModelDir,
	}
}
