//go:build wireinject
// +build wireinject

package di

import (
	wire "github.com/google/wire"
	"ndexplorer/internal"
	"ndexplorer/internal/controllers"
	"ndexplorer/internal/nextdns"
	"ndexplorer/internal/providers"
	"ndexplorer/internal/scheduler"
	"ndexplorer/internal/services"
	"ndexplorer/internal/structures"
)

func InitServer(cfg *structures.CliFlags) (*internal.App, error) {

	wire.Build(
		providers.NewConfigProvider,
		providers.NewLogProvider,
		providers.NewMetricsProvider,
		providers.NewInstrumentedCacheProvider,

		nextdns.NewClient,
		services.NewLogService,
		controllers.NewApiController,
		controllers.NewHealthController,
		scheduler.NewScheduler,
		wire.Bind(new(scheduler.DevicesWarmer), new(*controllers.ApiController)),
		internal.InitRoutes,
		internal.NewApp,
	)

	return nil, nil
}

func InitViewer(cfg *structures.CliFlags) (*internal.Viewer, error) {

	wire.Build(
		providers.NewConfigProvider,
		providers.NewLogProvider,
		providers.NewMetricsProvider,

		internal.NewLogSource,
		internal.NewViewer,
	)

	return nil, nil
}
