package injector

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeusync/contagion/internal/core/epidemic"
	"github.com/zeusync/contagion/internal/core/events/bus"
	"github.com/zeusync/contagion/internal/core/observability/log"
)

func TestInitializeRunner(t *testing.T) {
	cfg := epidemic.DefaultConfig()
	cfg.Population = 12

	runner, err := InitializeRunner(cfg, log.LevelSilent)
	require.NoError(t, err)
	require.NotNil(t, runner.Scheduler)
	assert.Equal(t, 12, len(runner.Scheduler.Snapshot().States))
	assert.Equal(t, log.LevelSilent, runner.Logger.GetLevel())

	days := 0
	runner.Events.Subscribe(epidemic.EventDaySampled, func(bus.Event) error { days++; return nil })
	for i := 0; i < cfg.TicksPerDay; i++ {
		_, err = runner.Scheduler.Tick()
		require.NoError(t, err)
	}
	assert.Equal(t, 1, days)
}

func TestInitializePlayer(t *testing.T) {
	player, err := InitializePlayer(epidemic.DefaultConfig(), log.LevelSilent)
	require.NoError(t, err)
	require.NotNil(t, player.Hub)
	assert.Zero(t, player.Hub.Viewers())
	assert.NoError(t, player.Hub.Close())
}

func TestInitialize_InvalidConfig(t *testing.T) {
	cfg := epidemic.DefaultConfig()
	cfg.InitialInfected = cfg.Population + 1

	_, err := InitializeRunner(cfg, log.LevelSilent)
	assert.ErrorIs(t, err, epidemic.ErrInvalidConfig)
}
