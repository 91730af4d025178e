//go:build wireinject
// +build wireinject

package di

import (
	wire "github.com/google/wire"
	"reviewguard/internal"
	"reviewguard/internal/controllers"
	"reviewguard/internal/providers"
	"reviewguard/internal/services"
	"reviewguard/internal/spam"
	"reviewguard/internal/storage"
	"reviewguard/internal/structures"
)

func InitApp(cfg *structures.CliFlags) (*internal.App, error) {

	wire.Build(
		providers.NewConfigProvider,
		providers.NewLogProvider,
		providers.NewMetricsProvider,

		storage.NewZstdCompressor,
		storage.NewStoreProvider,
		storage.NewScheduler,
		spam.NewCheckerProvider,
		spam.NewSweeper,
		services.NewSpamService,
		controllers.NewApiController,
		controllers.NewHealthController,
		internal.InitRoutes,
		internal.NewApp,
	)

	return nil, nil
}
