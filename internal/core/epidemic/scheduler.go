package epidemic

import (
	"context"
	"fmt"
	"math/rand/v2"

	"github.com/google/uuid"

	"github.com/zeusync/contagion/internal/core/events/bus"
	"github.com/zeusync/contagion/internal/core/observability/log"
)

// Scheduler owns a population and its time series and advances them one
// tick at a time. It is not safe for concurrent use; callers read state only
// through the snapshots it returns.
type Scheduler struct {
	cfg      Config
	runID    string
	rng      *rand.Rand
	pop      *Population
	series   TimeSeries
	detector Detector
	logger   log.Log
	events   bus.Bus

	tick       int
	totalTicks int
	finished   bool

	checkInvariants bool
	prevStates      []HealthState
}

// Option customises a Scheduler.
type Option func(*Scheduler)

// WithLogger sets the logger. The default discards output.
func WithLogger(logger log.Log) Option {
	return func(s *Scheduler) { s.logger = logger }
}

// WithDetector overrides the detector chosen by Config.Detector.
func WithDetector(d Detector) Option {
	return func(s *Scheduler) { s.detector = d }
}

// WithInvariantChecks makes every tick verify bounds, monotonic health,
// infection ages and conservation, failing with an *InvariantError.
func WithInvariantChecks(enabled bool) Option {
	return func(s *Scheduler) { s.checkInvariants = enabled }
}

// WithEventBus publishes lifecycle events (EventCreated, EventDaySampled,
// EventFinished) to b. A handler error fails the call that published it.
func WithEventBus(b bus.Bus) Option {
	return func(s *Scheduler) { s.events = b }
}

// WithRunID fixes the run identifier instead of generating one.
func WithRunID(id string) Option {
	return func(s *Scheduler) { s.runID = id }
}

// NewScheduler validates cfg, builds the population from a generator seeded
// with cfg.Seed and records the day-0 sample.
func NewScheduler(cfg Config, opts ...Option) (*Scheduler, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Detector == "" {
		cfg.Detector = DetectorBruteForce
	}

	s := &Scheduler{
		cfg:        cfg,
		rng:        rand.New(rand.NewPCG(cfg.Seed, 0)),
		totalTicks: cfg.TotalTicks(),
		logger:     log.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.runID == "" {
		s.runID = uuid.NewString()
	}
	if s.detector == nil {
		s.detector = NewDetector(cfg.Detector, cfg.Workers)
	}
	s.logger = s.logger.With(log.String("run_id", s.runID))

	pop, err := NewPopulation(cfg, s.rng)
	if err != nil {
		return nil, err
	}
	s.pop = pop
	MaybeSample(s.pop, 0, cfg.TicksPerDay, &s.series)

	if s.checkInvariants {
		if err = CheckPopulation(0, s.pop); err != nil {
			return nil, err
		}
		s.prevStates = healthStates(s.pop)
	}

	s.logger.Info("simulation created",
		log.Int("population", pop.Params.Size),
		log.Int("initial_infected", pop.Params.InitialInfected),
		log.Int("recovery_ticks", pop.Params.RecoveryTicks),
		log.Float64("infection_radius", pop.Params.InfectionRadius),
		log.Float64("infection_prob", pop.Params.InfectionProb),
		log.Int("total_ticks", s.totalTicks),
		log.Uint64("seed", cfg.Seed),
		log.String("detector", string(cfg.Detector)),
		log.Bool("stop_when_extinct", cfg.StopWhenExtinct),
	)

	if err = s.publish(EventCreated, CreatedEvent{Config: cfg}); err != nil {
		return nil, err
	}
	if day0, ok := s.series.Last(); ok {
		if err = s.publish(EventDaySampled, DaySampledEvent{Tick: 0, Sample: day0}); err != nil {
			return nil, err
		}
	}

	return s, nil
}

func (s *Scheduler) RunID() string  { return s.runID }
func (s *Scheduler) Config() Config { return s.cfg }

// TickIndex is the index of the last executed tick; 0 before the first Tick.
func (s *Scheduler) TickIndex() int { return s.tick }

// Series returns a copy of the daily samples so far.
func (s *Scheduler) Series() []DaySample { return s.series.Samples() }

// Done reports whether Tick would return ErrSimulationFinished.
func (s *Scheduler) Done() bool {
	if s.tick >= s.totalTicks {
		return true
	}
	if s.cfg.StopWhenExtinct {
		_, infected, _ := s.pop.Counts()
		return infected == 0
	}
	return false
}

// Snapshot copies the current state without advancing.
func (s *Scheduler) Snapshot() Snapshot {
	return newSnapshot(s.runID, s.tick, s.cfg.TicksPerDay, s.pop, &s.series)
}

// Tick executes the next tick: motion, proximity, transitions and the daily
// sample, in that order.
func (s *Scheduler) Tick() (Snapshot, error) {
	if s.Done() {
		return Snapshot{}, ErrSimulationFinished
	}

	s.tick++
	Advance(s.pop)
	exposed := s.detector.FindExposed(s.pop, s.pop.Params.InfectionRadius)
	res := ApplyTransitions(s.pop, exposed, s.pop.Params.InfectionProb, s.pop.Params.RecoveryTicks, s.rng)

	sampled := MaybeSample(s.pop, s.tick, s.cfg.TicksPerDay, &s.series)
	if sampled {
		last, _ := s.series.Last()
		s.logger.Debug("daily sample",
			log.Int("day", last.Day),
			log.Int("susceptible", last.Susceptible),
			log.Int("infected", last.Infected),
			log.Int("recovered", last.Recovered),
			log.Int("exposed", len(exposed)),
			log.Int("new_infections", res.NewlyInfected),
			log.Int("new_recoveries", res.NewlyRecovered),
		)
	}

	if s.checkInvariants {
		if err := s.verify(); err != nil {
			return Snapshot{}, err
		}
	}

	if sampled {
		last, _ := s.series.Last()
		if err := s.publish(EventDaySampled, DaySampledEvent{Tick: s.tick, Sample: last}); err != nil {
			return Snapshot{}, err
		}
	}

	if s.Done() && !s.finished {
		s.finished = true
		sus, inf, rec := s.pop.Counts()
		s.logger.Info("simulation finished",
			log.Int("tick", s.tick),
			log.Int("susceptible", sus),
			log.Int("infected", inf),
			log.Int("recovered", rec),
		)
		final := DaySample{Day: s.tick / s.cfg.TicksPerDay, Susceptible: sus, Infected: inf, Recovered: rec}
		if err := s.publish(EventFinished, FinishedEvent{Tick: s.tick, Final: final, Extinct: inf == 0}); err != nil {
			return Snapshot{}, err
		}
	}

	return s.Snapshot(), nil
}

// Run ticks until the simulation is done, ctx is cancelled or observer
// returns an error. observer may be nil. The last snapshot is returned.
func (s *Scheduler) Run(ctx context.Context, observer func(Snapshot) error) (Snapshot, error) {
	last := s.Snapshot()
	for !s.Done() {
		select {
		case <-ctx.Done():
			return last, ctx.Err()
		default:
		}

		snap, err := s.Tick()
		if err != nil {
			return last, err
		}
		last = snap

		if observer != nil {
			if err = observer(snap); err != nil {
				return last, fmt.Errorf("observer at tick %d: %w", snap.Tick, err)
			}
		}
	}
	return last, nil
}

func (s *Scheduler) verify() error {
	if err := CheckPopulation(s.tick, s.pop); err != nil {
		return err
	}
	states := healthStates(s.pop)
	if err := CheckTransition(s.tick, s.prevStates, states); err != nil {
		return err
	}
	s.prevStates = states

	if last, ok := s.series.Last(); ok && last.Total() != s.pop.Params.Size {
		return &InvariantError{Tick: s.tick, Agent: -1, Reason: fmt.Sprintf("day %d sample totals %d", last.Day, last.Total())}
	}
	return nil
}
