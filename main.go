// main.go
package main

import (
	"flag"
	"fmt"
	"os"
)

var (
	showHelp    = flag.Bool("h", false, "Show help")
	version     = flag.Bool("version", false, "Show version")
	listen      = flag.Bool("listen", false, "Listen on all interfaces instead of 127.0.0.1")
	autostart   = flag.Bool("autostart", false, "Open the UI in the default browser")
	port        = flag.Int("port", 7860, "HTTP port of the UI")
	configPath  = flag.String("config", "config.json", "Defaults file")
	promptsPath = flag.String("prompts", "prompts.json", "Saved prompts file")
)

// appVersion is set at build time via -ldflags "-X main.appVersion=x.y.z"
var appVersion = "dev"

func main() {
	flag.Usage = showUsage
	flag.Parse()

	if *version {
		fmt.Printf("sdcpp-webui v%s\n", appVersion)
		return
	}

	if *showHelp {
		showUsage()
		return
	}

	args := flag.Args()

	// No arguments - serve the web UI
	if len(args) == 0 {
		runServe()
		return
	}

	switch args[0] {
	case "gallery":
		target := "txt2img"
		if len(args) > 1 {
			target = args[1]
		}
		runGallery(target)

	case "init":
		runInit()

	default:
		fmt.Fprintf(os.Stderr, "Error: unknown command '%s'\n", args[0])
		fmt.Fprintln(os.Stderr)
		showUsage()
		os.Exit(1)
	}
}

func showUsage() {
	fmt.Println("sdcpp-webui - browser UI for stable-diffusion.cpp")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  sdcpp-webui [options]                   Serve the web UI (default)")
	fmt.Println("  sdcpp-webui [options] gallery [target]  Browse outputs in the terminal")
	fmt.Println("  sdcpp-webui [options] init              Write the config file interactively")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  gallery [txt2img|img2img]")
	fmt.Println("        Page through an output folder; enter shows the generation parameters")
	fmt.Println()
	fmt.Println("  init")
	fmt.Println("        Ask for the sd binary and the model/output folders and save them")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  -listen         Listen on 0.0.0.0 (reachable from the network)")
	fmt.Println("  -autostart      Open the browser once the server is up")
	fmt.Println("  -port N         HTTP port (default 7860)")
	fmt.Println("  -config FILE    Defaults file (default config.json)")
	fmt.Println("  -prompts FILE   Saved prompts file (default prompts.json)")
	fmt.Println("  -h              Show this help message")
	fmt.Println("  -version        Show version information")
	fmt.Println()
	fmt.Println("Environment:")
	fmt.Println("  SDCPP_BINARY                  Path of the sd executable (overrides sd_binary)")
	fmt.Println("  OTEL_EXPORTER_OTLP_ENDPOINT   Send run traces to an OTLP/HTTP collector")
	fmt.Println("  OTEL_SERVICE_NAME             Service name for traces (default sdcpp-webui)")
}
