//go:build wireinject
// +build wireinject

package di

import (
	"SaleCast/internal/usecase"
	"SaleCast/pkg/config"
	"SaleCast/pkg/server"

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
		ProvideCache,

		// Repositories
		ProvideSalesRepository,
		ProvideSalesHistory,
		ProvideSalesSink,
		ProvideSalesPublisher,

		// Use cases
		ProvideForecastUseCase,
		ProvideSalesProcessor,
		ProvideKafkaSalesHandler,

		// Transport
		ProvideForecastHandler,

		// Application server
		ProvideApp,
	)
	return &server.App{}, nil
}

// InitializeLoader wires the ingestion processor for the bulk loader.
// The returned func closes the processor and its backing clients.
func InitializeLoader(cfg *config.Config) (*usecase.SalesProcessor, func(), error) {
	wire.Build(
		ProvideLogger,
		ProvideMetrics,
		ProvideClickHouseClient,
		ProvideKafkaProducer,
		ProvideSalesRepository,
		ProvideSalesSink,
		ProvideSalesPublisher,
		ProvideSalesProcessor,
	)
	return nil, nil, nil
}
