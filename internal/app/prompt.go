// internal/app/prompt.go
package app

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/petervdpas/sdcpp-webui/internal/config"
)

// PromptInteractive walks through the folders and the sd binary on the
// terminal, starting from cfg. An invalid result falls back to the
// built-in defaults.
func PromptInteractive(in io.Reader, out io.Writer, cfgPath string, cfg config.Config) config.Config {
	r := bufio.NewReader(in)

	fmt.Fprintln(out, "────────────────────────────────────────")
	fmt.Fprintln(out, "sdcpp-webui setup")
	fmt.Fprintf(out, " Config file : %s\n", cfgPath)
	fmt.Fprintln(out, "────────────────────────────────────────")
	fmt.Fprintln(out)

	cfg.SDBinary = askString(r, out, "sd binary", cfg.SDBinary)
	cfg.ModelDir = askString(r, out, "Model folder", cfg.ModelDir)
	cfg.VAEDir = askString(r, out, "VAE folder", cfg.VAEDir)
	cfg.EmbDir = askString(r, out, "Embeddings folder", cfg.EmbDir)
	cfg.LoraDir = askString(r, out, "LoRA folder", cfg.LoraDir)
	cfg.TAESDDir = askString(r, out, "TAESD folder", cfg.TAESDDir)
	cfg.UpsclDir = askString(r, out, "Upscaler folder", cfg.UpsclDir)
	cfg.CnnetDir = askString(r, out, "ControlNet folder", cfg.CnnetDir)
	cfg.Txt2ImgDir = askString(r, out, "txt2img output folder", cfg.Txt2ImgDir)
	cfg.Img2ImgDir = askString(r, out, "img2img output folder", cfg.Img2ImgDir)
	cfg.PageSize = askInt(r, out, "Gallery page size", cfg.PageSize)

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(out, "Invalid config: %v\nKeeping defaults.\n", err)
		return config.Default()
	}
	return cfg
}

func askString(in *bufio.Reader, out io.Writer, label, def string) string {
	fmt.Fprintf(out, "%s [%s]: ", label, def)
	s, _ := in.ReadString('\n')
	s = strings.TrimSpace(s)
	if s == "" {
		return def
	}
	return s
}

func askInt(in *bufio.Reader, out io.Writer, label string, def int) int {
	for {
		fmt.Fprintf(out, "%s [%d]: ", label, def)
		s, err := in.ReadString('\n')
		s = strings.TrimSpace(s)
		if s == "" {
			return def
		}
		if v, convErr := strconv.Atoi(s); convErr == nil {
			return v
		}
		if err != nil {
			return def
		}
		fmt.Fprintln(out, "Please enter a number.")
	}
}
