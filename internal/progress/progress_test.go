package progress

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStep(t *testing.T) {
	tests := []struct {
		line        string
		step, total int
		ok          bool
	}{
		{"  |=========>                                        | 4/20 - 1.52s/it", 4, 20, true},
		{"|==================================================| 20/20 - 2.10it/s", 20, 20, true},
		{"[INFO ] stable-diffusion.cpp:1234 - sampling completed", 0, 0, false},
		{"| bogus | 3/0 -", 0, 0, false},
		{"", 0, 0, false},
	}
	for _, tt := range tests {
		step, total, ok := ParseStep(tt.line)
		assert.Equal(t, tt.ok, ok, tt.line)
		assert.Equal(t, tt.step, step, tt.line)
		assert.Equal(t, tt.total, total, tt.line)
	}
}

func TestHub_BroadcastAndLast(t *testing.T) {
	h := NewHub()
	_, ok := h.Last()
	assert.False(t, ok)

	ch, cancel := h.Subscribe()
	defer cancel()

	h.Publish(Event{RunID: "r1", Status: StatusRunning, Step: 2, Total: 10})

	select {
	case e := <-ch:
		assert.Equal(t, 2, e.Step)
	case <-time.After(time.Second):
		t.Fatal("no event delivered")
	}

	last, ok := h.Last()
	require.True(t, ok)
	assert.Equal(t, "r1", last.RunID)
}

func TestHub_CancelClosesChannel(t *testing.T) {
	h := NewHub()
	ch, cancel := h.Subscribe()
	cancel()
	_, open := <-ch
	assert.False(t, open)
	// second cancel is harmless
	cancel()
	h.Publish(Event{RunID: "r2"})
}

func TestMulti_SkipsNil(t *testing.T) {
	h := NewHub()
	m := Multi{nil, h}
	m.Publish(Event{RunID: "x", Status: StatusDone})
	last, ok := h.Last()
	require.True(t, ok)
	assert.True(t, last.Finished())
}

func TestConsole_RendersBar(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsole(&buf)
	c.Publish(Event{RunID: "r", Mode: "txt2img", Status: StatusRunning, Step: 1, Total: 4})
	c.Publish(Event{RunID: "r", Mode: "txt2img", Status: StatusRunning, Step: 4, Total: 4})
	c.Publish(Event{RunID: "r", Mode: "txt2img", Status: StatusDone})
	out := buf.String()
	assert.True(t, strings.Contains(out, "txt2img"), out)
	assert.True(t, strings.Contains(out, "4/4"), out)
}
