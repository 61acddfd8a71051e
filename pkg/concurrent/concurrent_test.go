package concurrent

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestSplit(t *testing.T) {
	tests := []struct {
		name  string
		n     int
		parts int
		want  []Span
	}{
		{name: "empty", n: 0, parts: 4, want: nil},
		{name: "single part", n: 5, parts: 1, want: []Span{{0, 5}}},
		{name: "even", n: 6, parts: 3, want: []Span{{0, 2}, {2, 4}, {4, 6}}},
		{name: "uneven", n: 7, parts: 3, want: []Span{{0, 3}, {3, 5}, {5, 7}}},
		{name: "more parts than items", n: 2, parts: 8, want: []Span{{0, 1}, {1, 2}}},
		{name: "non-positive parts", n: 3, parts: 0, want: []Span{{0, 3}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Split(tt.n, tt.parts))
		})
	}
}

func TestForEachChunk_CoversRange(t *testing.T) {
	defer goleak.VerifyNone(t)

	const n = 1000
	seen := make([]int32, n)
	err := ForEachChunk(context.Background(), n, 7, func(_ context.Context, span Span) error {
		for i := span.Lo; i < span.Hi; i++ {
			atomic.AddInt32(&seen[i], 1)
		}
		return nil
	})
	require.NoError(t, err)
	for i, c := range seen {
		require.EqualValuesf(t, 1, c, "index %d visited %d times", i, c)
	}
}

func TestForEachChunk_ReturnsError(t *testing.T) {
	defer goleak.VerifyNone(t)

	boom := errors.New("boom")
	err := ForEachChunk(context.Background(), 10, 4, func(_ context.Context, span Span) error {
		if span.Lo == 0 {
			return boom
		}
		return nil
	})
	assert.ErrorIs(t, err, boom)
}
