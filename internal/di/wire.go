//go:build wireinject
// +build wireinject

package di

import (
	"github.com/Vitek192/sola-sub000/pkg/config"
	"github.com/Vitek192/sola-sub000/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		// Ambient
		ProvideLogger,
		ProvideMetrics,

		// Infrastructure clients
		ProvideClickHouseClient,
		ProvideKafkaProducer,
		ProvideKafkaConsumer,
		ProvideRedisCache,
		ProvideCacheService,

		// Repositories
		ProvideGraveyardStore,
		ProvideAlertPublisher,
		ProvideStateStore,
		ProvideLaunchStream,
		ProvideMarketData,

		// Services
		ProvideNotifier,
		ProvideAnalyzer,

		// Use cases
		ProvideTracker,
		ProvideLaunchCollector,
		ProvideScanner,
		ProvideStrategyHandler,
		ProvideJobQueue,

		// HTTP surface
		ProvideHTTPHandler,

		// Application server
		ProvideApp,
	)
	return &server.App{}, nil
}
