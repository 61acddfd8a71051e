package stream

import (
	"context"
	"time"

	"github.com/zeusync/contagion/internal/core/epidemic"
)

// Play drives sched at one tick per interval and broadcasts every snapshot,
// starting with the initial state. It returns the last snapshot once the
// run is over or ctx is cancelled.
func Play(ctx context.Context, sched *epidemic.Scheduler, hub *Hub, interval time.Duration) (epidemic.Snapshot, error) {
	if err := hub.Broadcast(sched.Snapshot()); err != nil {
		return sched.Snapshot(), err
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	return sched.Run(ctx, func(snap epidemic.Snapshot) error {
		if err := hub.Broadcast(snap); err != nil {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			return nil
		}
	})
}
