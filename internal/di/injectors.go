//go:build wireinject
// +build wireinject

package di

import (
	wire "github.com/google/wire"

	"chronorise/internal"
	"chronorise/internal/controllers"
	"chronorise/internal/engine"
	"chronorise/internal/providers"
	"chronorise/internal/services"
	"chronorise/internal/structures"
)

func InitApp(cfg *structures.CliFlags) (*internal.App, error) {

	wire.Build(
		providers.NewConfigProvider,
		providers.NewLogProvider,
		providers.NewMetricsProvider,
		providers.NewInstrumentedCacheProvider,
		providers.NewSoundProvider,
		providers.NewBriefingProvider,

		engine.NewZstdCompressor,
		engine.NewFileManager,
		engine.NewPersister,
		services.NewAlarmService,
		wire.Bind(new(providers.AlarmCounter), new(services.AlarmServiceInterface)),
		engine.NewRinger,
		engine.NewScheduler,
		controllers.NewApiController,
		controllers.NewHealthController,
		internal.InitRoutes,
		internal.NewApp,
	)

	return nil, nil
}
