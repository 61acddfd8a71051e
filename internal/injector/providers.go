package injector

import (
	"github.com/zeusync/contagion/internal/core/epidemic"
	"github.com/zeusync/contagion/internal/core/events/bus"
	"github.com/zeusync/contagion/internal/core/observability/log"
	"github.com/zeusync/contagion/internal/render/stream"
)

// Runner is everything the headless run needs.
type Runner struct {
	Logger    *log.Logger
	Events    bus.Bus
	Scheduler *epidemic.Scheduler
}

// Player additionally carries the hub that streams snapshots to viewers.
type Player struct {
	Logger    *log.Logger
	Events    bus.Bus
	Scheduler *epidemic.Scheduler
	Hub       *stream.Hub
}

func ProvideScheduler(cfg epidemic.Config, logger *log.Logger, events bus.Bus) (*epidemic.Scheduler, error) {
	return epidemic.NewScheduler(cfg, epidemic.WithLogger(logger), epidemic.WithEventBus(events))
}
