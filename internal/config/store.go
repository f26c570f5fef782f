package config

import (
	"encoding/json"
	"errors"
	"log"
	"os"
	"sync"
)

// Defaults is the set of values the Options tab persists with
// "Set Defaults".
type Defaults struct {
	Model     string `json:"def_model"`
	VAE       string `json:"def_vae"`
	Sampling  string `json:"def_sampling"`
	Steps     int    `json:"def_steps"`
	Scheduler string `json:"def_scheduler"`
	Width     int    `json:"def_width"`
	Height    int    `json:"def_height"`
	Predict   string `json:"def_predict"`

	ModelDir   string `json:"model_dir"`
	VAEDir     string `json:"vae_dir"`
	EmbDir     string `json:"emb_dir"`
	LoraDir    string `json:"lora_dir"`
	TAESDDir   string `json:"taesd_dir"`
	UpsclDir   string `json:"upscl_dir"`
	CnnetDir   string `json:"cnnet_dir"`
	Txt2ImgDir string `json:"txt2img_dir"`
	Img2ImgDir string `json:"img2img_dir"`
}

// Store keeps the current configuration in memory and persists changes to
// the flat JSON file at path.
type Store struct {
	mu   sync.RWMutex
	path string
	cfg  Config
}

// OpenStore reads path, creating it with built-in defaults when missing.
// A corrupt or invalid file is left untouched and the built-in defaults are
// used instead.
func OpenStore(path string) *Store {
	s := &Store{path: path}
	cfg, created, err := Ensure(path)
	switch {
	case err != nil:
		log.Printf("CONFIG: %s unusable (%v), using built-in defaults", path, err)
		cfg = Default()
	case created:
		log.Printf("CONFIG: created %s with built-in defaults", path)
	}
	s.cfg = cfg
	return s
}

func (s *Store) Path() string { return s.path }

// Current returns a copy of the active configuration.
func (s *Store) Current() Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg
}

// Get looks a value up by its JSON key, e.g. "def_steps".
func (s *Store) Get(key string) (any, bool) {
	cfg := s.Current()
	b, err := json.Marshal(cfg)
	if err != nil {
		return nil, false
	}
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, false
	}
	v, ok := m[key]
	return v, ok
}

// SetDefaults validates and persists the given values. The in-memory config
// only changes when the file was written.
func (s *Store) SetDefaults(d Defaults) (Config, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cfg := s.cfg
	cfg.DefModel = d.Model
	cfg.DefVAE = d.VAE
	cfg.DefSampling = d.Sampling
	cfg.DefSteps = d.Steps
	cfg.DefScheduler = d.Scheduler
	cfg.DefWidth = d.Width
	cfg.DefHeight = d.Height
	cfg.DefPredict = d.Predict

	cfg.ModelDir = d.ModelDir
	cfg.VAEDir = d.VAEDir
	cfg.EmbDir = d.EmbDir
	cfg.LoraDir = d.LoraDir
	cfg.TAESDDir = d.TAESDDir
	cfg.UpsclDir = d.UpsclDir
	cfg.CnnetDir = d.CnnetDir
	cfg.Txt2ImgDir = d.Txt2ImgDir
	cfg.Img2ImgDir = d.Img2ImgDir

	if err := Save(s.path, cfg); err != nil {
		return s.cfg, err
	}
	s.cfg = cfg
	log.Printf("CONFIG: defaults saved to %s", s.path)
	return cfg, nil
}

// RestoreDefaults rewrites the file with the built-in defaults.
func (s *Store) RestoreDefaults() (Config, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cfg := Default()
	if err := Save(s.path, cfg); err != nil {
		return s.cfg, err
	}
	s.cfg = cfg
	log.Printf("CONFIG: built-in defaults restored to %s", s.path)
	return cfg, nil
}

// Reload re-reads the file. A missing or corrupt file falls back to the
// built-in defaults.
func (s *Store) Reload() Config {
	cfg, err := Load(s.path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			log.Printf("CONFIG: reload %s failed (%v), using built-in defaults", s.path, err)
		}
		cfg = Default()
	}
	s.mu.Lock()
	s.cfg = cfg
	s.mu.Unlock()
	return cfg
}

// DefaultsOf extracts the Options-tab values from cfg.
func DefaultsOf(cfg Config) Defaults {
	return Defaults{
		Model:      cfg.DefModel,
		VAE:        cfg.DefVAE,
		Sampling:   cfg.DefSampling,
		Steps:      cfg.DefSteps,
		Scheduler:  cfg.DefScheduler,
		Width:      cfg.DefWidth,
		Height:     cfg.DefHeight,
		Predict:    cfg.DefPredict,
		ModelDir:   cfg.ModelDir,
		VAEDir:     cfg.VAEDir,
		EmbDir:     cfg.EmbDir,
		LoraDir:    cfg.LoraDir,
		TAESDDir:   cfg.TAESDDir,
		UpsclDir:   cfg.UpsclDir,
		CnnetDir:   cfg.CnnetDir,
		Txt2ImgDir: cfg.Txt2ImgDir,
		Img2ImgDir: cfg.Img2ImgDir,
	}
}
