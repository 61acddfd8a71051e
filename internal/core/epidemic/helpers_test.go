package epidemic

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zeusync/contagion/internal/core/systems/physics"
)

// testConfig returns a small one-tick-per-day configuration.
func testConfig(mod func(*Config)) Config {
	cfg := DefaultConfig()
	cfg.Population = 10
	cfg.InitialInfected = 1
	cfg.RecoveryDays = 3
	cfg.TicksPerDay = 1
	cfg.TotalDays = 10
	cfg.Seed = 7
	if mod != nil {
		mod(&cfg)
	}
	return cfg
}

func newRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, 0))
}

// placed builds a motionless population from explicit agents.
func placed(params Params, agents ...Agent) *Population {
	params.Size = len(agents)
	return &Population{Params: params, Agents: agents}
}

func at(x, y float64, state HealthState) Agent {
	return Agent{Position: physics.Vec2{X: x, Y: y}, State: state}
}

func newTestScheduler(t *testing.T, cfg Config, opts ...Option) *Scheduler {
	t.Helper()
	opts = append([]Option{WithInvariantChecks(true), WithRunID("test-run")}, opts...)
	s, err := NewScheduler(cfg, opts...)
	require.NoError(t, err)
	return s
}

func statesOf(pop *Population) []HealthState {
	return healthStates(pop)
}
