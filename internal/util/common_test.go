package util

import (
	"os"
	"path/filepath"
	"testing"
)

func TestResolvePath(t *testing.T) {
	abs := filepath.Join(t.TempDir(), "models")
	tests := []struct {
		base, rel, want string
	}{
		{"/srv/sd", "models", filepath.Join("/srv/sd", "models")},
		{"/srv/sd", abs, abs},
		{"/srv/sd", "", ""},
	}
	for _, tt := range tests {
		if got := ResolvePath(tt.base, tt.rel); got != tt.want {
			t.Errorf("ResolvePath(%q, %q) = %q, want %q", tt.base, tt.rel, got, tt.want)
		}
	}
}

func TestValidateName(t *testing.T) {
	if got, err := ValidateName("  portrait "); err != nil || got != "portrait" {
		t.Fatalf("ValidateName: got %q, %v", got, err)
	}
	for _, bad := range []string{"", "   ", "a/b", `a\b`, "..", "x..y"} {
		if _, err := ValidateName(bad); err == nil {
			t.Errorf("ValidateName(%q): expected error", bad)
		}
	}
}

func TestWriteJSONFile_CreatesParents(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "out.json")
	if err := WriteJSONFile(path, map[string]int{"steps": 20}); err != nil {
		t.Fatalf("WriteJSONFile: %v", err)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	want := "{\n  \"steps\": 20\n}\n"
	if string(b) != want {
		t.Errorf("content = %q, want %q", b, want)
	}
}

func TestWriteJSONFile_ReplacesWithoutLeftovers(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	if err := WriteJSONFile(path, map[string]string{"a": "1"}); err != nil {
		t.Fatal(err)
	}
	if err := WriteJSONFile(path, map[string]string{"a": "2"}); err != nil {
		t.Fatal(err)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != "{\n  \"a\": \"2\"\n}\n" {
		t.Errorf("content = %q", b)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("dir has %d entries, want only config.json", len(entries))
	}
}

func TestStripBOM(t *testing.T) {
	in := append([]byte{0xEF, 0xBB, 0xBF}, []byte(`{}`)...)
	if got := string(StripBOM(in)); got != "{}" {
		t.Errorf("StripBOM = %q", got)
	}
	if got := string(StripBOM([]byte("{}"))); got != "{}" {
		t.Errorf("StripBOM without BOM = %q", got)
	}
}
