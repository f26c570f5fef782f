package progress

import (
	"fmt"
	"io"
	"sync"

	"github.com/schollz/progressbar/v3"
)

// Console renders sampling progress as a terminal progress bar.
type Console struct {
	mu    sync.Mutex
	w     io.Writer
	bar   *progressbar.ProgressBar
	runID string
	total int
}

func NewConsole(w io.Writer) *Console {
	return &Console{w: w}
}

func (c *Console) Publish(e Event) {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch {
	case e.Finished():
		if c.bar != nil {
			_ = c.bar.Finish()
			fmt.Fprintln(c.w)
		}
		c.bar = nil
		c.runID = ""
		c.total = 0
	case e.Total > 0:
		// sd runs several bars per job (sampling, decoding, upscaling).
		if c.bar == nil || c.runID != e.RunID || c.total != e.Total {
			if c.bar != nil {
				_ = c.bar.Finish()
				fmt.Fprintln(c.w)
			}
			c.bar = progressbar.NewOptions(e.Total,
				progressbar.OptionSetWriter(c.w),
				progressbar.OptionSetDescription(e.Mode),
				progressbar.OptionShowCount(),
				progressbar.OptionSetWidth(30),
				progressbar.OptionThrottle(0),
			)
			c.runID = e.RunID
			c.total = e.Total
		}
		_ = c.bar.Set(e.Step)
	}
}
