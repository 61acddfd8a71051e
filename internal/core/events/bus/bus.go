package bus

import (
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Bus is a synchronous in-process pub/sub bus keyed by event type.
//
// Publish calls every handler subscribed to the event type in the publisher's
// goroutine, in subscription order, and joins the handler errors. Handlers
// must be quick; the simulation waits for them between ticks.
type Bus interface {
	Publish(event Event) error
	Subscribe(eventType string, handler Handler) Subscription
	Unsubscribe(sub Subscription)
	Stats() Stats
}

// Event is an immutable message carried by the bus.
type Event interface {
	Type() string
	// Source identifies the publisher, e.g. a run id.
	Source() string
	Timestamp() time.Time
	Data() any
}

type Handler func(event Event) error

// Subscription is the handle returned by Subscribe.
type Subscription interface {
	ID() string
	EventType() string
	Cancel()
}

// Stats are counters accumulated since the bus was created.
type Stats struct {
	Published   uint64
	Delivered   uint64
	Errors      uint64
	Subscribers int
}

type event struct {
	typ    string
	source string
	ts     time.Time
	data   any
}

func (e event) Type() string         { return e.typ }
func (e event) Source() string       { return e.source }
func (e event) Timestamp() time.Time { return e.ts }
func (e event) Data() any            { return e.data }

// NewEvent stamps data with the current time.
func NewEvent(typ, source string, data any) Event {
	return event{typ: typ, source: source, ts: time.Now(), data: data}
}

type subscription struct {
	id        string
	eventType string
	seq       uint64
	handler   Handler
	cancel    func()
}

func (s *subscription) ID() string        { return s.id }
func (s *subscription) EventType() string { return s.eventType }
func (s *subscription) Cancel()           { s.cancel() }

type inMemoryBus struct {
	mu       sync.RWMutex
	handlers map[string]map[string]*subscription
	seq      uint64
	stats    Stats
}

func New() Bus {
	return &inMemoryBus{handlers: make(map[string]map[string]*subscription)}
}

func (b *inMemoryBus) Subscribe(eventType string, handler Handler) Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.handlers[eventType] == nil {
		b.handlers[eventType] = make(map[string]*subscription)
	}
	b.seq++
	s := &subscription{id: uuid.NewString(), eventType: eventType, seq: b.seq, handler: handler}
	s.cancel = func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if m, ok := b.handlers[eventType]; ok {
			if _, ok = m[s.id]; ok {
				delete(m, s.id)
				b.stats.Subscribers--
			}
		}
	}
	b.handlers[eventType][s.id] = s
	b.stats.Subscribers++
	return s
}

// Unsubscribe cancels sub. It is safe with nil and with cancelled handles.
func (b *inMemoryBus) Unsubscribe(sub Subscription) {
	if sub != nil {
		sub.Cancel()
	}
}

func (b *inMemoryBus) Publish(event Event) error {
	b.mu.RLock()
	m := b.handlers[event.Type()]
	subs := make([]*subscription, 0, len(m))
	for _, s := range m {
		subs = append(subs, s)
	}
	b.mu.RUnlock()
	sort.Slice(subs, func(i, j int) bool { return subs[i].seq < subs[j].seq })

	var errs []error
	for _, s := range subs {
		if err := s.handler(event); err != nil {
			errs = append(errs, err)
		}
	}

	b.mu.Lock()
	b.stats.Published++
	b.stats.Delivered += uint64(len(subs))
	if len(errs) > 0 {
		b.stats.Errors++
	}
	b.mu.Unlock()

	return errors.Join(errs...)
}

func (b *inMemoryBus) Stats() Stats {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.stats
}
