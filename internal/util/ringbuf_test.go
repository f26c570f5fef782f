package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRingBuffer(t *testing.T) {
	tests := []struct {
		name   string
		size   int
		pushes int
		want   []int
	}{
		{"empty", 3, 0, nil},
		{"partial", 4, 2, []int{1, 2}},
		{"exactly full", 3, 3, []int{1, 2, 3}},
		{"wrapped", 3, 5, []int{3, 4, 5}},
		{"zero size keeps one", 0, 2, []int{2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRingBuffer[int](tt.size)
			for i := 1; i <= tt.pushes; i++ {
				r.Push(i)
			}
			got := r.Snapshot()
			if len(tt.want) == 0 {
				assert.Empty(t, got)
			} else {
				assert.Equal(t, tt.want, got)
			}
			assert.Equal(t, len(tt.want), r.Len())
		})
	}
}

func TestRingBuffer_Last(t *testing.T) {
	r := NewRingBuffer[string](5)
	for _, s := range []string{"a", "b", "c", "d", "e", "f", "g"} {
		r.Push(s)
	}
	assert.Equal(t, []string{"f", "g"}, r.Last(2))
	assert.Equal(t, []string{"c", "d", "e", "f", "g"}, r.Last(10))
	assert.Equal(t, []string{"c", "d", "e", "f", "g"}, r.Last(-1))
	assert.Empty(t, r.Last(0))
}
