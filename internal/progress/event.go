// Package progress carries generation progress from the runner to the
// browser (websocket) and the terminal (progress bar).
package progress

import (
	"regexp"
	"strconv"
	"time"
)

// Status is the lifecycle state of a run.
type Status string

const (
	StatusStarted Status = "started"
	StatusRunning Status = "running"
	StatusDone    Status = "done"
	StatusFailed  Status = "failed"
	StatusKilled  Status = "killed"
)

// Event is one progress update for a run.
type Event struct {
	RunID     string    `json:"run_id"`
	Mode      string    `json:"mode"`
	Status    Status    `json:"status"`
	Step      int       `json:"step,omitempty"`
	Total     int       `json:"total,omitempty"`
	Line      string    `json:"line,omitempty"`
	Outputs   []string  `json:"outputs,omitempty"`
	Error     string    `json:"error,omitempty"`
	Timestamp time.Time `json:"ts"`
}

// Finished reports whether e ends a run.
func (e Event) Finished() bool {
	return e.Status == StatusDone || e.Status == StatusFailed || e.Status == StatusKilled
}

// Sink receives progress events.
type Sink interface {
	Publish(e Event)
}

// Multi fans an event out to several sinks. Nil sinks are skipped.
type Multi []Sink

func (m Multi) Publish(e Event) {
	for _, s := range m {
		if s != nil {
			s.Publish(e)
		}
	}
}

// sd prints "  |=====>      | 5/20 - 1.23s/it" while sampling, decoding
// and upscaling.
var stepRe = regexp.MustCompile(`\|[^|]*\|\s*(\d+)/(\d+)`)

// ParseStep extracts "step/total" from a progress line of the sd binary.
func ParseStep(line string) (step, total int, ok bool) {
	m := stepRe.FindStringSubmatch(line)
	if m == nil {
		return 0, 0, false
	}
	step, err1 := strconv.Atoi(m[1])
	total, err2 := strconv.Atoi(m[2])
	if err1 != nil || err2 != nil || total <= 0 {
		return 0, 0, false
	}
	return step, total, true
}
