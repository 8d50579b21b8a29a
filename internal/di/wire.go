//go:build wireinject
// +build wireinject

package di

import (
	"ForecastGate/pkg/config"
	"ForecastGate/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		// Infrastructure clients
		ProvideKafkaProducer,
		ProvideLogger,
		ProvideClickHouseClient,
		ProvideRedisCache,
		ProvideMetrics,

		// Repositories
		ProvideEventPublisher,
		ProvideEventStore,

		// Services and use cases
		ProvideFeedHub,
		ProvideEventRecorder,
		ProvideEIPProvider,
		ProvideForecastUseCase,
		ProvideLimiter,

		// Transport and application
		ProvideHTTPHandler,
		ProvideApp,
	)
	return &server.App{}, nil
}
