package epidemic

import (
	"math/rand/v2"

	"github.com/zeusync/contagion/internal/core/systems/physics"
)

// HealthState is the SIR compartment of an agent. The numeric order
// Susceptible < Infected < Recovered is the only allowed direction of travel.
type HealthState uint8

const (
	Susceptible HealthState = iota
	Infected
	Recovered
)

func (s HealthState) String() string {
	switch s {
	case Susceptible:
		return "susceptible"
	case Infected:
		return "infected"
	case Recovered:
		return "recovered"
	default:
		return "unknown"
	}
}

// Agent is one member of the population.
type Agent struct {
	Position     physics.Vec2
	Velocity     physics.Vec2
	State        HealthState
	InfectionAge int
}

// Params are the per-run constants the tick components read.
type Params struct {
	Size            int
	InitialInfected int
	InfectionRadius float64
	InfectionProb   float64
	RecoveryTicks   int
	MoveSpeed       float64
}

// ParamsFromConfig extracts the population parameters from cfg.
func ParamsFromConfig(cfg Config) Params {
	return Params{
		Size:            cfg.Population,
		InitialInfected: cfg.InitialInfected,
		InfectionRadius: cfg.InfectionRadius,
		InfectionProb:   cfg.InfectionProb,
		RecoveryTicks:   cfg.RecoveryTicks(),
		MoveSpeed:       cfg.MoveSpeed,
	}
}

// Population owns all agents of a run. Agents are addressed by index and the
// slice length never changes.
type Population struct {
	Params Params
	Agents []Agent

	// reused by ApplyTransitions across ticks
	agingBuf []int
}

// NewPopulation validates cfg and lays out cfg.Population agents using rng.
// All positions are drawn first, then all velocities, so the layout for a
// given seed does not depend on anything else.
func NewPopulation(cfg Config, rng *rand.Rand) (*Population, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	params := ParamsFromConfig(cfg)
	agents := make([]Agent, params.Size)

	for i := range agents {
		agents[i].Position = physics.Vec2{X: rng.Float64(), Y: rng.Float64()}
	}
	for i := range agents {
		// X is drawn before Y
		dir := physics.Vec2{X: rng.Float64() - 0.5, Y: rng.Float64() - 0.5}
		agents[i].Velocity = dir.Scale(params.MoveSpeed)
	}
	for i := 0; i < params.InitialInfected; i++ {
		agents[i].State = Infected
	}

	return &Population{Params: params, Agents: agents}, nil
}

// Len returns the number of agents.
func (p *Population) Len() int { return len(p.Agents) }

// Counts returns the size of each compartment.
func (p *Population) Counts() (s, i, r int) {
	for _, a := range p.Agents {
		switch a.State {
		case Susceptible:
			s++
		case Infected:
			i++
		case Recovered:
			r++
		}
	}
	return s, i, r
}

// indicesIn appends the indices of agents in state to dst.
func (p *Population) indicesIn(dst []int, state HealthState) []int {
	for idx, a := range p.Agents {
		if a.State == state {
			dst = append(dst, idx)
		}
	}
	return dst
}
