package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestOpenStore_CorruptFileFallsBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	s := OpenStore(path)
	if s.Current() != Default() {
		t.Errorf("Current = %+v, want built-in defaults", s.Current())
	}
	// The user's file is not overwritten.
	b, _ := os.ReadFile(path)
	if string(b) != "{not json" {
		t.Errorf("corrupt file was rewritten: %q", b)
	}
}

func TestStore_SetDefaultsPersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	s := OpenStore(path)

	d := DefaultsOf(s.Current())
	d.Model = "sd15.safetensors"
	d.Steps = 35
	d.Sampling = "dpm++2m"
	d.Txt2ImgDir = "/tmp/out"
	if _, err := s.SetDefaults(d); err != nil {
		t.Fatalf("SetDefaults: %v", err)
	}

	reopened := OpenStore(path)
	got := reopened.Current()
	if got.DefModel != "sd15.safetensors" || got.DefSteps != 35 || got.DefSampling != "dpm++2m" || got.Txt2ImgDir != "/tmp/out" {
		t.Errorf("reopened config = %+v", got)
	}
}

func TestStore_SetDefaultsInvalidKeepsState(t *testing.T) {
	s := OpenStore(filepath.Join(t.TempDir(), "config.json"))
	d := DefaultsOf(s.Current())
	d.Steps = 0
	if _, err := s.SetDefaults(d); err == nil {
		t.Fatal("expected error for steps=0")
	}
	if s.Current().DefSteps != Default().DefSteps {
		t.Errorf("DefSteps changed to %d after failed save", s.Current().DefSteps)
	}
}

func TestStore_RestoreDefaultsReproducesBuiltins(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	s := OpenStore(path)

	d := DefaultsOf(s.Current())
	d.Width, d.Height = 1024, 768
	d.Scheduler = "karras"
	d.VAEDir = "/elsewhere"
	if _, err := s.SetDefaults(d); err != nil {
		t.Fatalf("SetDefaults: %v", err)
	}

	cfg, err := s.RestoreDefaults()
	if err != nil {
		t.Fatalf("RestoreDefaults: %v", err)
	}
	if cfg != Default() || s.Current() != Default() {
		t.Errorf("after restore: %+v", cfg)
	}
	if s.Reload() != Default() {
		t.Error("file on disk does not hold built-in defaults")
	}
}

func TestStore_Get(t *testing.T) {
	s := OpenStore(filepath.Join(t.TempDir(), "config.json"))
	v, ok := s.Get("def_scheduler")
	if !ok || v != "discrete" {
		t.Errorf("Get(def_scheduler) = %v, %v", v, ok)
	}
	v, ok = s.Get("def_steps")
	if !ok || v != float64(20) {
		t.Errorf("Get(def_steps) = %v, %v", v, ok)
	}
	if _, ok := s.Get("nope"); ok {
		t.Error("Get(nope) should miss")
	}
}

func TestStore_ReloadMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	s := OpenStore(path)
	if err := os.Remove(path); err != nil {
		t.Fatal(err)
	}
	if s.Reload() != Default() {
		t.Error("Reload of missing file should return defaults")
	}
}
