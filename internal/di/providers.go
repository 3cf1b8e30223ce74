package di

import (
	"context"
	"fmt"
	"time"

	"SaleCast/internal/domain/repository"
	"SaleCast/internal/handler/api"
	internalrepo "SaleCast/internal/repository"
	"SaleCast/internal/usecase"
	"SaleCast/pkg/cache"
	pkgch "SaleCast/pkg/clickhouse"
	"SaleCast/pkg/config"
	pkgkafka "SaleCast/pkg/kafka"
	applogger "SaleCast/pkg/logger"
	"SaleCast/pkg/metrics"
	"SaleCast/pkg/queue"
	"SaleCast/pkg/server"
)

// ProvideLogger creates the application logger from config.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	return applogger.New(&applogger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})
}

// ProvideClickHouseClient creates a ClickHouse client.
func ProvideClickHouseClient(cfg *config.Config) (*pkgch.Client, error) {
	client, err := pkgch.NewClient(
		pkgch.WithHost(cfg.ClickHouse.Host),
		pkgch.WithPort(cfg.ClickHouse.Port),
		pkgch.WithDatabase(cfg.ClickHouse.Database),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithMaxConnections(10, 5),
		pkgch.WithHTTP(cfg.ClickHouse.UseHTTP),
		pkgch.WithAsyncInsert(cfg.ClickHouse.AsyncInsert, cfg.ClickHouse.WaitForAsync),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout, cfg.ClickHouse.WriteTimeout),
		pkgch.WithMaxExecutionTime(cfg.ClickHouse.MaxExecutionTime),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}

	// Initialize schema
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := client.InitSchema(ctx, []string{
		fmt.Sprintf("CREATE DATABASE IF NOT EXISTS %s", cfg.ClickHouse.Database),
		fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (product_id String, date Date, units Float64) ENGINE=MergeTree ORDER BY (product_id, date)", cfg.SalesTable()),
	}); err != nil {
		_ = client.Close() // cannot log here (DI layer no logger); propagate error
		return nil, fmt.Errorf("clickhouse schema: %w", err)
	}

	return client, nil
}

// ProvideKafkaProducer creates a Kafka producer. Returns nil when the
// configured backend does not publish to Kafka.
func ProvideKafkaProducer(cfg *config.Config) (*pkgkafka.Producer, error) {
	if cfg.Backend.Type != "kafka" {
		return nil, nil
	}

	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithBatchSize(cfg.Kafka.Producer.BatchSize),
		pkgkafka.WithBatchBytes(cfg.Kafka.Producer.BatchBytes),
		pkgkafka.WithBatchTimeout(cfg.Kafka.Producer.Linger),
		pkgkafka.WithTimeouts(cfg.Kafka.Producer.WriteTimeout, cfg.Kafka.Producer.ReadTimeout),
		pkgkafka.WithMaxAttempts(cfg.Kafka.Producer.MaxAttempts),
		pkgkafka.WithAsync(cfg.Kafka.Producer.Async),
		pkgkafka.WithHashByKey(true),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}

	return producer, nil
}

// ProvideKafkaConsumer creates a Kafka consumer configured from YAML.
// Returns nil when the Kafka backend is not in use.
func ProvideKafkaConsumer(cfg *config.Config) (*pkgkafka.Consumer, error) {
	if cfg.Backend.Type != "kafka" || cfg.Kafka.Consumer.GroupID == "" {
		return nil, nil
	}

	consumer, err := pkgkafka.NewConsumer(
		pkgkafka.WithConsumerBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithConsumerGroupID(cfg.Kafka.Consumer.GroupID),
		pkgkafka.WithConsumerWorkers(cfg.Kafka.Consumer.Workers),
		pkgkafka.WithConsumerBufferSize(cfg.Kafka.Consumer.BufferSize),
		pkgkafka.WithConsumerRetry(cfg.Kafka.Consumer.RetryMax, cfg.Kafka.Consumer.BackoffMin, cfg.Kafka.Consumer.BackoffMax),
		pkgkafka.WithConsumerDLQ(cfg.Kafka.Consumer.DLQTopic),
		pkgkafka.WithConsumerFetch(cfg.Kafka.Consumer.MinBytes, cfg.Kafka.Consumer.MaxBytes),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka consumer: %w", err)
	}
	return consumer, nil
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvideSalesRepository creates the ClickHouse sales repository.
func ProvideSalesRepository(chClient *pkgch.Client, cfg *config.Config, lgr *applogger.Logger) *internalrepo.ClickHouseSales {
	repo := internalrepo.NewClickHouseSales(chClient.DB(), cfg.SalesTable())
	repo.SetLogger(lgr)
	return repo
}

// ProvideSalesHistory binds the repository as read-side history.
func ProvideSalesHistory(repo *internalrepo.ClickHouseSales) repository.SalesHistory {
	return repo
}

// ProvideSalesSink binds the repository as write-side sink.
func ProvideSalesSink(repo *internalrepo.ClickHouseSales) repository.SalesSink {
	return repo
}

// ProvideSalesPublisher creates the Kafka publisher repository.
// Returns nil when no producer is configured.
func ProvideSalesPublisher(producer *pkgkafka.Producer, cfg *config.Config) repository.Publisher {
	if producer == nil {
		return nil
	}
	return internalrepo.NewKafkaSalesPublisher(producer, cfg.Kafka.Topic)
}

// ProvideCache creates the forecast result cache: memory-over-Redis layered
// cache when Redis is enabled, in-process memory otherwise.
func ProvideCache(cfg *config.Config, lgr *applogger.Logger) cache.Service {
	if cfg.Cache.Redis.Enabled {
		rc, err := cache.NewRedisCache(
			cache.WithRedisHost(cfg.Cache.Redis.Host),
			cache.WithRedisPort(cfg.Cache.Redis.Port),
			cache.WithRedisPassword(cfg.Cache.Redis.Password),
			cache.WithRedisDB(cfg.Cache.Redis.DB),
			cache.WithRedisPrefix(cfg.Cache.Redis.Prefix),
		)
		if err != nil {
			lgr.Warn("redis cache unavailable, falling back to memory", applogger.Error(err))
		} else {
			layeredOpts := []cache.LayeredOption{}
			if cfg.Cache.MemoryMaxSize > 0 {
				layeredOpts = append(layeredOpts, cache.WithLayeredMemorySize(cfg.Cache.MemoryMaxSize))
			}
			return cache.NewLayeredCache(rc, layeredOpts...)
		}
	}

	opts := []cache.MemoryOption{}
	if cfg.Cache.MemoryMaxSize > 0 {
		opts = append(opts, cache.WithMemoryMaxSize(cfg.Cache.MemoryMaxSize))
	}
	return cache.NewMemoryCache(opts...)
}

// ProvideForecastUseCase creates the forecasting use case.
func ProvideForecastUseCase(
	history repository.SalesHistory,
	c cache.Service,
	m repository.Metrics,
	cfg *config.Config,
) *usecase.ForecastUseCase {
	return usecase.NewForecastUseCase(history, c, m, usecase.ForecastConfig{
		Window:     cfg.Forecast.Window,
		Trials:     cfg.Forecast.Trials,
		Volatility: cfg.Forecast.Volatility,
		CacheTTL:   cfg.Forecast.CacheTTL,
	})
}

// ProvideForecastHandler creates the Echo HTTP handler.
func ProvideForecastHandler(lgr *applogger.Logger, uc *usecase.ForecastUseCase, cfg *config.Config) *api.ForecastEchoHandler {
	return api.NewForecastEchoHandler(lgr, uc, api.RateLimit{
		Capacity:     cfg.RateLimit.Capacity,
		RefillPerSec: cfg.RateLimit.RefillPerSec,
	})
}

// ProvideKafkaSalesHandler registers the handler for the sales topic.
func ProvideKafkaSalesHandler(sink repository.SalesSink, m repository.Metrics, cfg *config.Config) *usecase.KafkaSalesHandler {
	return usecase.NewKafkaSalesHandler(cfg.Kafka.Topic, sink, m)
}

// ProvideSalesProcessor creates the ingestion processor use case.
func ProvideSalesProcessor(
	pub repository.Publisher,
	sink repository.SalesSink,
	m repository.Metrics,
	cfg *config.Config,
) *usecase.SalesProcessor {
	return usecase.NewSalesProcessor(pub, sink, m, cfg.Backend.Type)
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	lgr *applogger.Logger,
	consumer *pkgkafka.Consumer,
	kh *usecase.KafkaSalesHandler,
	chClient *pkgch.Client,
	handler *api.ForecastEchoHandler,
	proc *usecase.SalesProcessor,
	c cache.Service,
) *server.App {
	if consumer != nil {
		consumer.WithConsumerHook(pkgkafka.NoopHook{})
	}

	var mh pkgkafka.MessageHandler
	if kh != nil {
		mh = kh
	}

	app := server.New(cfg, lgr, consumer, mh, chClient)
	app.SetHTTPHandler(handler)
	app.SalesProc = proc

	// Aggregate error logs through the Redis queue when available.
	var rc *cache.RedisCache
	switch v := c.(type) {
	case *cache.RedisCache:
		rc = v
	case *cache.LayeredCache:
		rc = v.Redis()
	}
	if rc != nil {
		q := queue.NewRedisPublisher(lgr, rc.Client(), queue.WithKeyPrefix(cfg.Cache.Redis.Prefix+":queue"))
		lgr.AddCollector(&applogger.CollectionConfig{
			TimeInterval:   30 * time.Second,
			CountThreshold: 100,
			Topic:          "error_logs",
			Publisher:      q,
		})
		app.SetLogQueue(q)
	}

	return app
}
