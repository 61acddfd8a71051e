//go:build wireinject
// +build wireinject

// The build tag makes sure the stub is not built in the final build.

package injector

import (
	"github.com/google/wire"

	"github.com/zeusync/contagion/internal/core/epidemic"
	"github.com/zeusync/contagion/internal/core/events/bus"
	"github.com/zeusync/contagion/internal/core/observability/log"
	"github.com/zeusync/contagion/internal/render/stream"
)

func InitializeRunner(cfg epidemic.Config, level log.Level) (*Runner, error) {
	wire.Build(
		log.New,
		bus.New,
		ProvideScheduler,
		wire.Struct(new(Runner), "*"),
	)
	return nil, nil
}

func InitializePlayer(cfg epidemic.Config, level log.Level) (*Player, error) {
	wire.Build(
		log.New,
		wire.Bind(new(log.Log), new(*log.Logger)),
		bus.New,
		ProvideScheduler,
		stream.NewHub,
		wire.Struct(new(Player), "*"),
	)
	return nil, nil
}
