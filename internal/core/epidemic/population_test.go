package epidemic

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPopulation_Layout(t *testing.T) {
	cfg := testConfig(func(c *Config) {
		c.Population = 200
		c.InitialInfected = 5
		c.MoveSpeed = 0.03
	})

	pop, err := NewPopulation(cfg, newRand(1))
	require.NoError(t, err)
	require.Equal(t, 200, pop.Len())

	for i, a := range pop.Agents {
		assert.True(t, a.Position.X >= 0 && a.Position.X < 1, "agent %d x=%v", i, a.Position.X)
		assert.True(t, a.Position.Y >= 0 && a.Position.Y < 1, "agent %d y=%v", i, a.Position.Y)
		assert.LessOrEqual(t, a.Velocity.X, 0.015)
		assert.GreaterOrEqual(t, a.Velocity.X, -0.015)
		assert.LessOrEqual(t, a.Velocity.Y, 0.015)
		assert.GreaterOrEqual(t, a.Velocity.Y, -0.015)
		assert.Zero(t, a.InfectionAge)

		if i < 5 {
			assert.Equal(t, Infected, a.State, "agent %d", i)
		} else {
			assert.Equal(t, Susceptible, a.State, "agent %d", i)
		}
	}

	s, i, r := pop.Counts()
	assert.Equal(t, [3]int{195, 5, 0}, [3]int{s, i, r})
	assert.Equal(t, cfg.RecoveryTicks(), pop.Params.RecoveryTicks)
}

func TestNewPopulation_Deterministic(t *testing.T) {
	cfg := testConfig(func(c *Config) { c.Population = 64 })

	a, err := NewPopulation(cfg, newRand(42))
	require.NoError(t, err)
	b, err := NewPopulation(cfg, newRand(42))
	require.NoError(t, err)
	assert.Equal(t, a.Params, b.Params)
	if diff := cmp.Diff(a.Agents, b.Agents); diff != "" {
		t.Fatalf("same seed produced different populations (-a +b):\n%s", diff)
	}

	c, err := NewPopulation(cfg, newRand(43))
	require.NoError(t, err)
	assert.NotEqual(t, a.Agents, c.Agents)
}

func TestNewPopulation_AllInfected(t *testing.T) {
	pop, err := NewPopulation(testConfig(func(c *Config) { c.InitialInfected = c.Population }), newRand(1))
	require.NoError(t, err)
	_, i, _ := pop.Counts()
	assert.Equal(t, pop.Len(), i)
}

func TestNewPopulation_RejectsInvalidConfig(t *testing.T) {
	pop, err := NewPopulation(testConfig(func(c *Config) { c.InitialInfected = 11 }), newRand(1))
	assert.ErrorIs(t, err, ErrInvalidConfig)
	assert.Nil(t, pop)
}

func TestHealthState_String(t *testing.T) {
	assert.Equal(t, "susceptible", Susceptible.String())
	assert.Equal(t, "infected", Infected.String())
	assert.Equal(t, "recovered", Recovered.String())
	assert.Equal(t, "unknown", HealthState(9).String())
}
