package concurrent

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Span is a half-open index range [Lo, Hi).
type Span struct {
	Lo, Hi int
}

// Split divides [0, n) into at most parts contiguous spans of near-equal size.
// The spans are returned in ascending order and cover the range exactly.
func Split(n, parts int) []Span {
	if n <= 0 {
		return nil
	}
	if parts < 1 {
		parts = 1
	}
	if parts > n {
		parts = n
	}

	spans := make([]Span, 0, parts)
	size, rest := n/parts, n%parts
	lo := 0
	for p := 0; p < parts; p++ {
		hi := lo + size
		if p < rest {
			hi++
		}
		spans = append(spans, Span{Lo: lo, Hi: hi})
		lo = hi
	}
	return spans
}

// ForEachChunk runs action once per span of Split(n, workers), each in its own
// goroutine, and waits for all of them. It returns the first error; the
// context handed to action is cancelled as soon as one action fails.
func ForEachChunk(ctx context.Context, n, workers int, action func(ctx context.Context, span Span) error) error {
	group, gctx := errgroup.WithContext(ctx)
	for _, span := range Split(n, workers) {
		group.Go(func() error {
			return action(gctx, span)
		})
	}
	return group.Wait()
}
