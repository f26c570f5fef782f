package app

import (
	"context"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/petervdpas/sdcpp-webui/internal/config"
	"github.com/petervdpas/sdcpp-webui/internal/content"
	"github.com/petervdpas/sdcpp-webui/internal/docs"
	"github.com/petervdpas/sdcpp-webui/internal/gallery"
	"github.com/petervdpas/sdcpp-webui/internal/progress"
	"github.com/petervdpas/sdcpp-webui/internal/prompts"
	"github.com/petervdpas/sdcpp-webui/internal/sdcpp"
	"github.com/petervdpas/sdcpp-webui/internal/trace"
	"github.com/petervdpas/sdcpp-webui/internal/util"
	"github.com/petervdpas/sdcpp-webui/internal/viewer"
)

// BinaryEnv overrides sd_binary from the config file.
const BinaryEnv = "SDCPP_BINARY"

type Options struct {
	CfgPath     string
	PromptsPath string
	Listen      bool // bind all interfaces instead of loopback
	Port        int
	Autostart   bool
	Version     string

	// Progress reports startup steps; nil is fine.
	Progress func(step, total int, label string)
}

// Run wires config, runner, gallery and the web UI and serves until ctx is
// cancelled.
func Run(ctx context.Context, opt Options) error {
	logBuf := viewer.NewLogBuffer(800)
	log.SetOutput(io.MultiWriter(os.Stderr, logBuf))

	emit := opt.Progress
	if emit == nil {
		emit = func(int, int, string) {}
	}
	const total = 4
	step := 0

	// ── Tracing
	step++
	emit(step, total, "Starting tracing")
	shutdownTrace, err := trace.Setup(ctx)
	if err != nil {
		log.Printf("TRACE: exporter disabled: %v", err)
		shutdownTrace = func(context.Context) error { return nil }
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), util.ShortTimeout)
		defer cancel()
		if err := shutdownTrace(sctx); err != nil {
			log.Printf("TRACE: shutdown: %v", err)
		}
	}()

	// ── Config + prompts
	step++
	emit(step, total, "Loading config")
	cfgStore := config.OpenStore(opt.CfgPath)
	cfg := cfgStore.Current()
	promptStore := prompts.Open(opt.PromptsPath)

	binary := ResolveBinary(cfg)

	// ── Runner + gallery
	step++
	emit(step, total, "Preparing runner")
	hub := progress.NewHub()
	runner := sdcpp.NewRunner(binary,
		func() sdcpp.Dirs { return cfgStore.Current().Dirs() },
		sdcpp.WithSink(progress.Multi{hub, progress.NewConsole(os.Stderr)}),
	)

	gal := gallery.New(cfg.Txt2ImgDir, cfg.Img2ImgDir, cfg.PageSize)
	go func() {
		if err := gal.Watch(ctx); err != nil {
			log.Printf("GALLERY: watch disabled: %v", err)
		}
	}()

	uploads, err := content.NewStore(filepath.Join(os.TempDir(), "sdcpp-webui-uploads"))
	if err != nil {
		return err
	}
	if err := uploads.EnsureRoot(); err != nil {
		return err
	}

	// ── Viewer
	step++
	emit(step, total, "Starting viewer")
	addr, url, tcpAddr := ListenAddr(opt.Listen, opt.Port)
	logBanner(opt.CfgPath, binary, url)

	if opt.Autostart {
		go func() {
			if err := WaitTCP(ctx, tcpAddr, 5*time.Second); err != nil {
				log.Printf("VIEWER: autostart: %v", err)
				return
			}
			if err := util.OpenURL(url); err != nil {
				log.Printf("VIEWER: open browser: %v", err)
			}
		}()
	}

	stopped := make(chan struct{})
	go func() {
		killOnDone(ctx, runner)
		close(stopped)
	}()

	err = viewer.Start(ctx, addr, viewer.Viewer{
		Config:    cfgStore,
		Runner:    runner,
		Gallery:   gal,
		Prompts:   promptStore,
		Hub:       hub,
		Logs:      logBuf,
		Docs:      docs.NewSite(),
		Uploads:   uploads,
		BaseURL:   url,
		Version:   opt.Version,
		AccessLog: log.Writer(),
	})
	if ctx.Err() != nil {
		<-stopped
	}
	return err
}

// ResolveBinary returns the sd executable: $SDCPP_BINARY when set,
// otherwise sd_binary from cfg.
func ResolveBinary(cfg config.Config) string {
	if b := os.Getenv(BinaryEnv); b != "" {
		return b
	}
	return cfg.SDBinary
}

// RunGallery opens the terminal gallery on the configured output folders.
func RunGallery(cfgPath string, target gallery.Target, browse func(*gallery.Manager, gallery.Target) error) error {
	cfg := config.OpenStore(cfgPath).Current()
	return browse(gallery.New(cfg.Txt2ImgDir, cfg.Img2ImgDir, cfg.PageSize), target)
}
