package util

import "sync"

// RingBuffer keeps the last N values pushed into it. Safe for concurrent use.
type RingBuffer[T any] struct {
	mu   sync.Mutex
	buf  []T
	next int  // slot the next Push writes
	full bool // every slot holds a value
}

func NewRingBuffer[T any](size int) *RingBuffer[T] {
	return &RingBuffer[T]{buf: make([]T, max(size, 1))}
}

func (r *RingBuffer[T]) Push(v T) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.buf[r.next] = v
	r.next++
	if r.next == len(r.buf) {
		r.next = 0
		r.full = true
	}
}

// Snapshot copies the stored values, oldest first.
func (r *RingBuffer[T]) Snapshot() []T {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.full {
		return append([]T(nil), r.buf[:r.next]...)
	}
	out := make([]T, 0, len(r.buf))
	out = append(out, r.buf[r.next:]...)
	return append(out, r.buf[:r.next]...)
}

// Last returns at most n of the newest values, oldest first.
func (r *RingBuffer[T]) Last(n int) []T {
	all := r.Snapshot()
	if n >= 0 && n < len(all) {
		all = all[len(all)-n:]
	}
	return all
}

func (r *RingBuffer[T]) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.full {
		return len(r.buf)
	}
	return r.next
}
