// app.go
package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/lipgloss"

	"github.com/petervdpas/sdcpp-webui/internal/app"
	"github.com/petervdpas/sdcpp-webui/internal/config"
	"github.com/petervdpas/sdcpp-webui/internal/gallery"
	"github.com/petervdpas/sdcpp-webui/internal/ui/tui"
)

var (
	bannerStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("86")).
			Padding(0, 2)
	bannerTitle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
	bannerDim   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

func runServe() {
	_, url, _ := app.ListenAddr(*listen, *port)
	printBanner(url)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		log.Println("Shutting down gracefully...")
	}()

	err := app.Run(ctx, app.Options{
		CfgPath:     *configPath,
		PromptsPath: *promptsPath,
		Listen:      *listen,
		Port:        *port,
		Autostart:   *autostart,
		Version:     appVersion,
		Progress: func(step, total int, label string) {
			fmt.Println(bannerDim.Render(fmt.Sprintf("[%d/%d] %s", step, total, label)))
		},
	})
	if err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

func runGallery(target string) {
	t, err := gallery.ParseTarget(target)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	// The alternate screen owns the terminal.
	log.SetOutput(io.Discard)
	if err := app.RunGallery(*configPath, t, tui.Run); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runInit() {
	cfg, err := config.Load(*configPath)
	if err != nil {
		cfg = config.Default()
	}
	cfg = app.PromptInteractive(os.Stdin, os.Stdout, *configPath, cfg)
	if err := config.Save(*configPath, cfg); err != nil {
		log.Fatalf("Failed to save config: %v", err)
	}
	fmt.Printf("Saved %s\n", *configPath)
}

func printBanner(url string) {
	bind := "loopback only"
	if *listen {
		bind = "all interfaces"
	}
	body := bannerTitle.Render("sdcpp-webui "+appVersion) + "\n" +
		fmt.Sprintf("UI:      %s (%s)\n", url, bind) +
		fmt.Sprintf("Config:  %s\n", *configPath) +
		fmt.Sprintf("Prompts: %s", *promptsPath)
	fmt.Println(bannerStyle.Render(body))
	if *listen {
		fmt.Println(bannerDim.Render("Anyone on the network can start generations and read your output folders."))
	}
	fmt.Println(bannerDim.Render("Press Ctrl+C to stop."))
	fmt.Println()
}
