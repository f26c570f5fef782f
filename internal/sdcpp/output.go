package sdcpp

import (
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/petervdpas/sdcpp-webui/internal/util"
)

var (
	ErrBusy    = errors.New("a generation is already running")
	ErrNotGGUF = errors.New("output name must end with .gguf")
)

var numberedRe = regexp.MustCompile(`^(\d+)(?:_\d+)?\.png$`)

// NextOutputPath returns the file sd should write to in dir. A custom name
// gets a .png extension when it has none; otherwise the next free number is
// used (1.png, 2.png, ...).
func NextOutputPath(dir, name string) (string, error) {
	if strings.TrimSpace(name) != "" {
		n, err := util.ValidateName(name)
		if err != nil {
			return "", err
		}
		if filepath.Ext(n) == "" {
			n += ".png"
		}
		return filepath.Join(dir, n), nil
	}

	entries, err := os.ReadDir(dir)
	if err != nil && !os.IsNotExist(err) {
		return "", err
	}
	highest := 0
	for _, e := range entries {
		m := numberedRe.FindStringSubmatch(e.Name())
		if m == nil {
			continue
		}
		if n, err := strconv.Atoi(m[1]); err == nil && n > highest {
			highest = n
		}
	}
	return filepath.Join(dir, strconv.Itoa(highest+1)+".png"), nil
}

// BatchOutputs lists the files sd writes for a batch: base.png,
// base_2.png ... base_n.png.
func BatchOutputs(output string, batch int) []string {
	if batch < 1 {
		batch = 1
	}
	ext := filepath.Ext(output)
	stem := strings.TrimSuffix(output, ext)
	out := make([]string, 0, batch)
	out = append(out, output)
	for i := 2; i <= batch; i++ {
		out = append(out, stem+"_"+strconv.Itoa(i)+ext)
	}
	return out
}

// existing filters paths down to the files present on disk.
func existing(paths []string) []string {
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		if fi, err := os.Stat(p); err == nil && !fi.IsDir() {
			out = append(out, p)
		}
	}
	return out
}
