package epidemic

import (
	"fmt"

	"github.com/zeusync/contagion/internal/core/events/bus"
)

// Event types published by a Scheduler configured WithEventBus. Every event's
// Source is the run id.
const (
	EventCreated    = "simulation.created"
	EventDaySampled = "simulation.day_sampled"
	EventFinished   = "simulation.finished"
)

// CreatedEvent is the payload of EventCreated.
type CreatedEvent struct {
	Config Config
}

// DaySampledEvent is the payload of EventDaySampled, published for day 0 at
// construction and after every tick that closes a day.
type DaySampledEvent struct {
	Tick   int
	Sample DaySample
}

// FinishedEvent is the payload of EventFinished, published once.
type FinishedEvent struct {
	Tick    int
	Final   DaySample
	Extinct bool
}

func (s *Scheduler) publish(typ string, data any) error {
	if s.events == nil {
		return nil
	}
	if err := s.events.Publish(bus.NewEvent(typ, s.runID, data)); err != nil {
		return fmt.Errorf("%s handler: %w", typ, err)
	}
	return nil
}
