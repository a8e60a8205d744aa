package di

import (
	"context"
	"fmt"
	"time"

	"github.com/Vitek192/sola-sub000/internal/domain/models"
	"github.com/Vitek192/sola-sub000/internal/domain/repository"
	dservice "github.com/Vitek192/sola-sub000/internal/domain/service"
	"github.com/Vitek192/sola-sub000/internal/handler/api"
	mid "github.com/Vitek192/sola-sub000/internal/middleware"
	internalrepo "github.com/Vitek192/sola-sub000/internal/repository"
	"github.com/Vitek192/sola-sub000/internal/service/dexsnap"
	"github.com/Vitek192/sola-sub000/internal/service/pumpstream"
	"github.com/Vitek192/sola-sub000/internal/service/telegram"
	"github.com/Vitek192/sola-sub000/internal/services/analysis"
	"github.com/Vitek192/sola-sub000/internal/usecase"
	"github.com/Vitek192/sola-sub000/pkg/cache"
	pkgch "github.com/Vitek192/sola-sub000/pkg/clickhouse"
	"github.com/Vitek192/sola-sub000/pkg/config"
	xhttp "github.com/Vitek192/sola-sub000/pkg/http"
	pkgkafka "github.com/Vitek192/sola-sub000/pkg/kafka"
	applogger "github.com/Vitek192/sola-sub000/pkg/logger"
	"github.com/Vitek192/sola-sub000/pkg/metrics"
	"github.com/Vitek192/sola-sub000/pkg/queue"
	"github.com/Vitek192/sola-sub000/pkg/server"
)

// ProvideLogger creates the application logger.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	format := "json"
	if cfg.Environment == "development" {
		format = "console"
	}
	return applogger.New(&applogger.Config{Level: "info", Format: format, Output: "stdout"})
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
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

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := client.InitSchema(ctx, []string{
		fmt.Sprintf("CREATE DATABASE IF NOT EXISTS %s", cfg.ClickHouse.Database),
	}); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("clickhouse schema: %w", err)
	}

	return client, nil
}

// ProvideKafkaProducer creates a Kafka producer.
func ProvideKafkaProducer(cfg *config.Config) (*pkgkafka.Producer, error) {
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

// ProvideKafkaConsumer creates a Kafka consumer for strategy updates.
// Returns nil when no strategy topic is configured.
func ProvideKafkaConsumer(cfg *config.Config) (*pkgkafka.Consumer, error) {
	if cfg.Kafka.StrategyTopic == "" {
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

// ProvideRedisCache creates the Redis cache client.
func ProvideRedisCache(cfg *config.Config) (*cache.RedisCache, error) {
	return cache.NewRedisCache(
		cache.WithRedisHost(cfg.Redis.Host),
		cache.WithRedisPort(cfg.Redis.Port),
		cache.WithRedisPassword(cfg.Redis.Password),
		cache.WithRedisDB(cfg.Redis.DB),
		cache.WithRedisPrefix(cfg.Redis.Prefix),
	)
}

// ProvideCacheService layers an in-memory cache over Redis.
func ProvideCacheService(rc *cache.RedisCache) cache.Service {
	return cache.NewLayeredCache(rc)
}

// ProvideGraveyardStore creates the ClickHouse graveyard archive.
func ProvideGraveyardStore(chClient *pkgch.Client, cfg *config.Config) repository.GraveyardStore {
	return internalrepo.NewClickHouseGraveyard(chClient.DB(), cfg.ClickHouse.GraveyardTable)
}

// ProvideAlertPublisher creates the Kafka alert publisher.
func ProvideAlertPublisher(producer *pkgkafka.Producer, cfg *config.Config) repository.AlertPublisher {
	return internalrepo.NewKafkaAlertPublisher(producer, cfg.Kafka.AlertsTopic)
}

// ProvideStateStore creates the cache-backed state store.
func ProvideStateStore(c cache.Service) repository.StateStore {
	return internalrepo.NewCacheStateStore(c)
}

// ProvideTracker creates the live-state tracker with the stock strategy.
func ProvideTracker(m repository.Metrics) *usecase.Tracker {
	return usecase.NewTracker(models.DefaultStrategy(), m)
}

// ProvideLaunchStream creates the launchpad WebSocket stream.
func ProvideLaunchStream(cfg *config.Config) repository.LaunchStream {
	return pumpstream.New(
		cfg.PumpStream.APIKey,
		cfg.PumpStream.WebSocketURL,
		cfg.PumpStream.ReconnectDelay,
		cfg.PumpStream.PingInterval,
	)
}

// ProvideMarketData creates the DEX snapshot client.
func ProvideMarketData(cfg *config.Config) repository.MarketData {
	opts := []dexsnap.Option{
		dexsnap.WithAPIKey(cfg.DexSnap.APIKey),
		dexsnap.WithRPS(cfg.DexSnap.RPS),
	}
	if cfg.DexSnap.Timeout > 0 {
		opts = append(opts, dexsnap.WithTimeout(cfg.DexSnap.Timeout))
	}
	return dexsnap.New(cfg.DexSnap.BaseURL, opts...)
}

// ProvideLaunchCollector creates the launch ingest path with its pipeline.
func ProvideLaunchCollector(
	stream repository.LaunchStream,
	tracker *usecase.Tracker,
	m repository.Metrics,
	cfg *config.Config,
) *usecase.LaunchCollector {
	var opts []mid.LaunchPipelineOption
	if cfg.PumpStream.MaxRPS > 0 {
		opts = append(opts, mid.WithMaxLaunchRPS(cfg.PumpStream.MaxRPS))
	}
	if cfg.PumpStream.BufferSize > 0 {
		opts = append(opts, mid.WithLaunchBufferSize(cfg.PumpStream.BufferSize))
	}
	pipe := mid.NewLaunchPipeline(usecase.TrackerSink{Tracker: tracker}, m, opts...)
	return usecase.NewLaunchCollector(stream, tracker, m, pipe)
}

// ProvideNotifier creates the Telegram notifier, nil when disabled.
func ProvideNotifier(cfg *config.Config) dservice.Notifier {
	if !cfg.Telegram.Enabled {
		return nil
	}
	return telegram.New(cfg.Telegram.BotToken, cfg.Telegram.ChatID)
}

// ProvideScanner creates the refresh-and-filter loop.
func ProvideScanner(
	tracker *usecase.Tracker,
	market repository.MarketData,
	graveyard repository.GraveyardStore,
	alerts repository.AlertPublisher,
	state repository.StateStore,
	notifier dservice.Notifier,
	m repository.Metrics,
	l *applogger.Logger,
	cfg *config.Config,
) *usecase.Scanner {
	refresher := usecase.NewRefresher(market, l)
	opts := []usecase.ScannerOption{usecase.WithNotifier(notifier)}
	if cfg.Scanner.Interval > 0 {
		opts = append(opts, usecase.WithInterval(cfg.Scanner.Interval))
	}
	return usecase.NewScanner(tracker, refresher, usecase.NewCycle(), graveyard, alerts, state, m, l, opts...)
}

// ProvideStrategyHandler registers the handler for the strategy topic.
func ProvideStrategyHandler(
	tracker *usecase.Tracker,
	state repository.StateStore,
	m repository.Metrics,
	l *applogger.Logger,
	cfg *config.Config,
) pkgkafka.MessageHandler {
	return usecase.NewStrategyUpdatesHandler(cfg.Kafka.StrategyTopic, tracker, state, m, l)
}

// ProvideAnalyzer creates the AI analyzer from the configured provider chain.
func ProvideAnalyzer(cfg *config.Config, l *applogger.Logger) dservice.Analyzer {
	providers := make([]analysis.Provider, 0, len(cfg.Analysis.Providers))
	for _, p := range cfg.Analysis.Providers {
		providers = append(providers, analysis.Provider{
			Name:   p.Name,
			URL:    p.URL,
			APIKey: p.APIKey,
			Model:  p.Model,
		})
	}
	return analysis.NewHTTPAnalyzer(providers, l, cfg.Analysis.Timeout)
}

// ProvideJobQueue creates the Redis-backed analysis job queue.
func ProvideJobQueue(
	l *applogger.Logger,
	rc *cache.RedisCache,
	tracker *usecase.Tracker,
	analyzer dservice.Analyzer,
	c cache.Service,
	m repository.Metrics,
) *queue.RedisQueue {
	job := usecase.NewAnalysisJob(tracker, analyzer, c, m, l)
	q := queue.NewRedisQueue(l, &queue.QueueConfig{Workers: 2, RetryLimit: 3}, rc.Client(), queue.ModeProducerConsumer)
	q.RegisterJob(job)
	return q
}

// ProvideHTTPHandler creates the Echo API handler.
func ProvideHTTPHandler(
	l *applogger.Logger,
	tracker *usecase.Tracker,
	scanner *usecase.Scanner,
	jobs *queue.RedisQueue,
	c cache.Service,
) xhttp.Handler {
	return api.NewTrackerEchoHandler(l, tracker, scanner, jobs, c)
}

// logPublisher adapts the Kafka producer to the log collector's publisher.
type logPublisher struct {
	producer *pkgkafka.Producer
}

func (p logPublisher) PublishMessage(ctx context.Context, topic string, payload interface{}) error {
	return p.producer.Publish(ctx, topic, nil, payload)
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	l *applogger.Logger,
	producer *pkgkafka.Producer,
	tracker *usecase.Tracker,
	collector *usecase.LaunchCollector,
	scanner *usecase.Scanner,
	consumer *pkgkafka.Consumer,
	kh pkgkafka.MessageHandler,
	jobQueue *queue.RedisQueue,
	graveyard repository.GraveyardStore,
	state repository.StateStore,
	alerts repository.AlertPublisher,
	chClient *pkgch.Client,
	httpHandler xhttp.Handler,
) *server.App {
	if consumer != nil {
		consumer.WithConsumerHook(pkgkafka.NoopHook{})
	}
	// Aggregate error logs onto the kafka log stream
	l.AddCollector(&applogger.CollectionConfig{
		TimeInterval:   30 * time.Second,
		CountThreshold: 100,
		Topic:          "system-logs",
		Publisher:      logPublisher{producer: producer},
	})
	app := server.New(cfg, l, tracker, collector, scanner, consumer, kh, jobQueue, graveyard, state, alerts, chClient)
	app.SetHTTPHandler(httpHandler)
	return app
}
