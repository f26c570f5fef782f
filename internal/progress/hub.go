package progress

import "sync"

// Hub broadcasts events to subscribers and remembers the latest one so a
// freshly opened page can show where a run stands.
type Hub struct {
	mu   sync.Mutex
	subs map[chan Event]struct{}
	last *Event
}

func NewHub() *Hub {
	return &Hub{subs: make(map[chan Event]struct{})}
}

func (h *Hub) Publish(e Event) {
	h.mu.Lock()
	defer h.mu.Unlock()

	ev := e
	h.last = &ev
	for ch := range h.subs {
		select {
		case ch <- e:
		default:
			// drop on slow subscriber
		}
	}
}

// Last returns the most recent event, if any.
func (h *Hub) Last() (Event, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.last == nil {
		return Event{}, false
	}
	return *h.last, true
}

func (h *Hub) Subscribe() (ch chan Event, cancel func()) {
	ch = make(chan Event, 64)

	h.mu.Lock()
	h.subs[ch] = struct{}{}
	h.mu.Unlock()

	cancel = func() {
		h.mu.Lock()
		if _, ok := h.subs[ch]; ok {
			delete(h.subs, ch)
			close(ch)
		}
		h.mu.Unlock()
	}
	return ch, cancel
}
