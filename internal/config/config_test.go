package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default().Validate(): %v", err)
	}
}

func TestValidate_Rejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"unknown sampler", func(c *Config) { c.DefSampling = "ddim" }},
		{"unknown scheduler", func(c *Config) { c.DefScheduler = "linear" }},
		{"unknown predict", func(c *Config) { c.DefPredict = "x0" }},
		{"steps zero", func(c *Config) { c.DefSteps = 0 }},
		{"steps too high", func(c *Config) { c.DefSteps = 100 }},
		{"width too small", func(c *Config) { c.DefWidth = 32 }},
		{"height too large", func(c *Config) { c.DefHeight = 4096 }},
		{"empty model dir", func(c *Config) { c.ModelDir = "  " }},
		{"empty output dir", func(c *Config) { c.Img2ImgDir = "" }},
		{"empty binary", func(c *Config) { c.SDBinary = "" }},
		{"page size", func(c *Config) { c.PageSize = 0 }},
		{"hub scheme", func(c *Config) { c.HubURL = "ftp://example.org" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(`{"def_steps": 30, "model_dir": "/m"}`), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.DefSteps != 30 || cfg.ModelDir != "/m" {
		t.Errorf("overrides not applied: steps=%d model_dir=%q", cfg.DefSteps, cfg.ModelDir)
	}
	if cfg.DefSampling != Default().DefSampling {
		t.Errorf("DefSampling = %q, want default %q", cfg.DefSampling, Default().DefSampling)
	}
}

func TestLoad_StripsBOM(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	data := append([]byte{0xEF, 0xBB, 0xBF}, []byte(`{"def_width": 768}`)...)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.DefWidth != 768 {
		t.Errorf("DefWidth = %d, want 768", cfg.DefWidth)
	}
}

func TestEnsure_CreatesDefaultFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.json")
	cfg, created, err := Ensure(path)
	if err != nil {
		t.Fatalf("Ensure: %v", err)
	}
	if !created {
		t.Error("expected created=true")
	}
	if cfg != Default() {
		t.Errorf("Ensure returned %+v, want defaults", cfg)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("file not written: %v", err)
	}

	_, created, err = Ensure(path)
	if err != nil || created {
		t.Errorf("second Ensure: created=%v err=%v", created, err)
	}
}
