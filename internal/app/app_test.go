package app

import (
	"bytes"
	"context"
	"errors"
	"net"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/petervdpas/sdcpp-webui/internal/config"
	"github.com/petervdpas/sdcpp-webui/internal/gallery"
)

func TestListenAddr(t *testing.T) {
	l, url, tcp := ListenAddr(false, 7860)
	if l != "127.0.0.1:7860" || url != "http://127.0.0.1:7860" || tcp != "127.0.0.1:7860" {
		t.Fatalf("loopback: %q %q %q", l, url, tcp)
	}
	l, url, _ = ListenAddr(true, 8080)
	if l != "0.0.0.0:8080" || url != "http://127.0.0.1:8080" {
		t.Fatalf("listen: %q %q", l, url)
	}
}

func TestWaitTCP(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	defer ln.Close()
	if err := WaitTCP(context.Background(), ln.Addr().String(), time.Second); err != nil {
		t.Fatal(err)
	}

	addr := ln.Addr().String()
	ln.Close()
	if err := WaitTCP(context.Background(), addr, 300*time.Millisecond); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("closed port: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := WaitTCP(ctx, addr, time.Second); !errors.Is(err, context.Canceled) {
		t.Fatalf("canceled: %v", err)
	}
}

func TestResolveBinary(t *testing.T) {
	cfg := config.Default()
	cfg.SDBinary = "/opt/sd"

	t.Setenv(BinaryEnv, "")
	if got := ResolveBinary(cfg); got != "/opt/sd" {
		t.Fatalf("got %q", got)
	}
	t.Setenv(BinaryEnv, "/usr/local/bin/sd-cuda")
	if got := ResolveBinary(cfg); got != "/usr/local/bin/sd-cuda" {
		t.Fatalf("got %q", got)
	}
}

func TestPromptInteractive(t *testing.T) {
	in := strings.NewReader("/opt/sd\n\n\n\n\n\n\n\n/data/out\n\nabc\n9\n")
	var out bytes.Buffer
	cfg := PromptInteractive(in, &out, "config.json", config.Default())

	if cfg.SDBinary != "/opt/sd" {
		t.Errorf("sd binary = %q", cfg.SDBinary)
	}
	if cfg.ModelDir != config.Default().ModelDir {
		t.Errorf("model dir changed: %q", cfg.ModelDir)
	}
	if cfg.Txt2ImgDir != "/data/out" {
		t.Errorf("txt2img dir = %q", cfg.Txt2ImgDir)
	}
	if cfg.PageSize != 9 {
		t.Errorf("page size = %d", cfg.PageSize)
	}
	if !strings.Contains(out.String(), "Please enter a number.") {
		t.Error("non-numeric page size was not rejected")
	}
}

func TestPromptInteractive_InvalidFallsBack(t *testing.T) {
	in := strings.NewReader(strings.Repeat("\n", 10) + "500\n")
	cfg := PromptInteractive(in, &bytes.Buffer{}, "config.json", config.Default())
	if cfg != config.Default() {
		t.Fatalf("expected built-in defaults, got %+v", cfg)
	}
}

func TestRunGallery_UsesConfiguredFolders(t *testing.T) {
	dir := t.TempDir()
	cfg := config.Default()
	cfg.Txt2ImgDir = filepath.Join(dir, "t")
	cfg.Img2ImgDir = filepath.Join(dir, "i")
	cfg.PageSize = 7
	path := filepath.Join(dir, "config.json")
	if err := config.Save(path, cfg); err != nil {
		t.Fatal(err)
	}

	var gotDir string
	var gotTarget gallery.Target
	err := RunGallery(path, gallery.Img2Img, func(m *gallery.Manager, target gallery.Target) error {
		gotDir = m.Dir(target)
		gotTarget = target
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if gotTarget != gallery.Img2Img || gotDir != cfg.Img2ImgDir {
		t.Fatalf("browse got %s %q", gotTarget, gotDir)
	}
}

type fakeRunner struct {
	calls  int
	active bool
}

func (f *fakeRunner) Kill() bool {
	f.calls++
	return f.active
}

func TestKillOnDone(t *testing.T) {
	for _, active := range []bool{true, false} {
		ctx, cancel := context.WithCancel(context.Background())
		r := &fakeRunner{active: active}
		done := make(chan struct{})
		go func() {
			killOnDone(ctx, r)
			close(done)
		}()

		select {
		case <-done:
			t.Fatal("killOnDone returned before ctx ended")
		case <-time.After(50 * time.Millisecond):
		}
		cancel()
		select {
		case <-done:
		case <-time.After(time.Second):
			t.Fatal("killOnDone did not return after cancel")
		}
		if r.calls != 1 {
			t.Fatalf("active=%v: Kill called %d times", active, r.calls)
		}
	}
}
