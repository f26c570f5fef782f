package viewer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/petervdpas/sdcpp-webui/internal/util"
)

const ssePing = 15 * time.Second

// LogEntry is one line of process output. Tag is the upper-case component
// prefix ("SDCPP", "GALLERY", ...) when the line has one.
type LogEntry struct {
	TS  time.Time `json:"ts"`
	Tag string    `json:"tag,omitempty"`
	Msg string    `json:"msg"`
}

// Optional std log date/time prefix, then "TAG: ".
var tagRe = regexp.MustCompile(`^(?:\d{4}/\d{2}/\d{2} \d{2}:\d{2}:\d{2}(?:\.\d+)? )?([A-Z][A-Z0-9_]+): `)

func tagOf(line string) string {
	if m := tagRe.FindStringSubmatch(line); m != nil {
		return m[1]
	}
	return ""
}

// LogBuffer is the io.Writer behind the std logger. It keeps the newest
// lines for the Logs tab and fans new ones out to live streams.
type LogBuffer struct {
	lines *util.RingBuffer[LogEntry]

	mu      sync.Mutex
	pending []byte
	streams map[chan LogEntry]struct{}
}

func NewLogBuffer(capacity int) *LogBuffer {
	if capacity <= 0 {
		capacity = 1000
	}
	return &LogBuffer{
		lines:   util.NewRingBuffer[LogEntry](capacity),
		streams: map[chan LogEntry]struct{}{},
	}
}

// Write stores every complete line of p; a trailing partial line waits for
// the next call. Blank lines are dropped.
func (b *LogBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.pending = append(b.pending, p...)
	for {
		i := bytes.IndexByte(b.pending, '\n')
		if i < 0 {
			break
		}
		line := strings.TrimRight(string(b.pending[:i]), "\r")
		b.pending = b.pending[i+1:]
		if strings.TrimSpace(line) == "" {
			continue
		}
		e := LogEntry{TS: time.Now(), Tag: tagOf(line), Msg: line}
		b.lines.Push(e)
		for ch := range b.streams {
			select {
			case ch <- e:
			default:
			}
		}
	}
	// Keep the slice from growing without bound between lines.
	if len(b.pending) == 0 {
		b.pending = b.pending[:0:0]
	}
	return len(p), nil
}

func (b *LogBuffer) Snapshot() []LogEntry {
	return b.lines.Snapshot()
}

// Tail returns up to n of the newest entries whose tag matches; n <= 0
// means no limit and an empty tag matches everything.
func (b *LogBuffer) Tail(n int, tag string) []LogEntry {
	if tag == "" {
		if n <= 0 {
			return b.lines.Snapshot()
		}
		return b.lines.Last(n)
	}
	all := b.lines.Snapshot()
	out := make([]LogEntry, 0, len(all))
	for i := len(all) - 1; i >= 0 && (n <= 0 || len(out) < n); i-- {
		if all[i].Tag == tag {
			out = append(out, all[i])
		}
	}
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// Subscribe returns a channel of new entries. Slow readers miss lines
// rather than block the logger.
func (b *LogBuffer) Subscribe() (<-chan LogEntry, func()) {
	ch := make(chan LogEntry, 64)
	b.mu.Lock()
	b.streams[ch] = struct{}{}
	b.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.streams, ch)
			b.mu.Unlock()
			close(ch)
		})
	}
}

// ServeLogsJSON answers GET /api/logs?n=200&tag=SDCPP.
func (b *LogBuffer) ServeLogsJSON(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	q := r.URL.Query()
	n, _ := strconv.Atoi(q.Get("n"))
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	_ = json.NewEncoder(w).Encode(b.Tail(n, strings.ToUpper(q.Get("tag"))))
}

// ServeLogsSSE streams new lines as server-sent events. It sends no
// backlog; clients fetch that from ServeLogsJSON first.
func (b *LogBuffer) ServeLogsSSE(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}
	tag := strings.ToUpper(r.URL.Query().Get("tag"))

	ch, cancel := b.Subscribe()
	defer cancel()

	h := w.Header()
	h.Set("Content-Type", "text/event-stream; charset=utf-8")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	ping := time.NewTicker(ssePing)
	defer ping.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-ping.C:
			fmt.Fprint(w, ": ping\n\n")
			flusher.Flush()
		case e, ok := <-ch:
			if !ok {
				return
			}
			if tag != "" && e.Tag != tag {
				continue
			}
			data, _ := json.Marshal(e)
			fmt.Fprintf(w, "event: message\ndata: %s\n\n", data)
			flusher.Flush()
		}
	}
}
