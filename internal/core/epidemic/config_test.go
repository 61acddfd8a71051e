package epidemic

import (
	"bytes"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 210, cfg.RecoveryTicks())
	assert.Equal(t, 1800, cfg.TotalTicks())
}

func TestConfig_RecoveryTicksTruncates(t *testing.T) {
	cfg := DefaultConfig()
	cfg.RecoveryDays = 0.1
	cfg.TicksPerDay = 15
	assert.Equal(t, 1, cfg.RecoveryTicks())

	cfg.RecoveryDays = 0.05
	assert.Equal(t, 0, cfg.RecoveryTicks())
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name  string
		mod   func(*Config)
		field string
	}{
		{name: "empty population", mod: func(c *Config) { c.Population = 0 }, field: "population"},
		{name: "negative initial infected", mod: func(c *Config) { c.InitialInfected = -1 }, field: "initial_infected"},
		{name: "initial infected above population", mod: func(c *Config) { c.InitialInfected = c.Population + 1 }, field: "initial_infected"},
		{name: "zero recovery", mod: func(c *Config) { c.RecoveryDays = 0 }, field: "recovery_days"},
		{name: "NaN recovery", mod: func(c *Config) { c.RecoveryDays = math.NaN() }, field: "recovery_days"},
		{name: "infinite recovery", mod: func(c *Config) { c.RecoveryDays = math.Inf(1) }, field: "recovery_days"},
		{name: "recovery beyond tick range", mod: func(c *Config) { c.RecoveryDays = 1e300 }, field: "recovery_days"},
		{name: "recovery just beyond tick range", mod: func(c *Config) { c.RecoveryDays = math.MaxInt / 15 * 2; c.TicksPerDay = 15 }, field: "recovery_days"},
		{name: "negative radius", mod: func(c *Config) { c.InfectionRadius = -0.1 }, field: "infection_radius"},
		{name: "infinite radius", mod: func(c *Config) { c.InfectionRadius = math.Inf(1) }, field: "infection_radius"},
		{name: "NaN radius", mod: func(c *Config) { c.InfectionRadius = math.NaN() }, field: "infection_radius"},
		{name: "horizon beyond tick range", mod: func(c *Config) { c.TotalDays = math.MaxInt }, field: "total_days"},
		{name: "horizon just beyond tick range", mod: func(c *Config) { c.TotalDays = math.MaxInt/c.TicksPerDay + 1 }, field: "total_days"},
		{name: "probability above one", mod: func(c *Config) { c.InfectionProb = 1.5 }, field: "infection_prob"},
		{name: "negative probability", mod: func(c *Config) { c.InfectionProb = -0.01 }, field: "infection_prob"},
		{name: "infinite speed", mod: func(c *Config) { c.MoveSpeed = math.Inf(1) }, field: "move_speed"},
		{name: "zero ticks per day", mod: func(c *Config) { c.TicksPerDay = 0 }, field: "ticks_per_day"},
		{name: "negative days", mod: func(c *Config) { c.TotalDays = -1 }, field: "total_days"},
		{name: "negative workers", mod: func(c *Config) { c.Workers = -2 }, field: "workers"},
		{name: "unknown detector", mod: func(c *Config) { c.Detector = "kdtree" }, field: "detector"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mod(&cfg)

			err := cfg.Validate()
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidConfig)

			var cfgErr *ConfigError
			require.True(t, errors.As(err, &cfgErr))
			assert.Equal(t, tt.field, cfgErr.Field)
		})
	}
}

func TestConfig_LargestHorizonAccepted(t *testing.T) {
	cfg := DefaultConfig()
	cfg.TotalDays = math.MaxInt / cfg.TicksPerDay
	require.NoError(t, cfg.Validate())
	assert.Positive(t, cfg.TotalTicks())

	cfg.RecoveryDays = 1e15
	require.NoError(t, cfg.Validate())
	assert.Positive(t, cfg.RecoveryTicks())
}

func TestNewScheduler_OverflowingRecoveryRejected(t *testing.T) {
	for _, days := range []float64{math.Inf(1), 1e300} {
		_, err := NewScheduler(testConfig(func(c *Config) {
			c.RecoveryDays = days
			c.InfectionRadius = 0
		}))
		assert.ErrorIs(t, err, ErrInvalidConfig, "recovery_days=%g", days)
	}
}

func TestConfig_BoundaryValuesAccepted(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Population = 1
	cfg.InitialInfected = 1
	cfg.InfectionRadius = 0
	cfg.InfectionProb = 1
	cfg.MoveSpeed = 0
	cfg.TotalDays = 0
	assert.NoError(t, cfg.Validate())
}

func TestLoadConfig(t *testing.T) {
	t.Run("overrides defaults", func(t *testing.T) {
		cfg, err := LoadConfig(strings.NewReader("population: 50\ninitial_infected: 2\ndetector: grid\n"))
		require.NoError(t, err)
		assert.Equal(t, 50, cfg.Population)
		assert.Equal(t, 2, cfg.InitialInfected)
		assert.Equal(t, DetectorGrid, cfg.Detector)
		assert.Equal(t, DefaultConfig().InfectionRadius, cfg.InfectionRadius)
	})

	t.Run("empty document keeps defaults", func(t *testing.T) {
		cfg, err := LoadConfig(strings.NewReader(""))
		require.NoError(t, err)
		assert.Equal(t, DefaultConfig(), cfg)
	})

	t.Run("unknown key", func(t *testing.T) {
		_, err := LoadConfig(strings.NewReader("populaton: 50\n"))
		require.Error(t, err)
	})

	t.Run("invalid values", func(t *testing.T) {
		_, err := LoadConfig(strings.NewReader("population: 5\ninitial_infected: 6\n"))
		assert.ErrorIs(t, err, ErrInvalidConfig)
	})

	t.Run("accepts its own output", func(t *testing.T) {
		want := DefaultConfig()
		want.Seed = 99
		want.StopWhenExtinct = true
		data, err := want.YAML()
		require.NoError(t, err)

		got, err := LoadConfig(bytes.NewReader(data))
		require.NoError(t, err)
		assert.Equal(t, want, got)
	})
}
