package di

import (
	"context"
	"fmt"
	"time"

	"ForecastGate/internal/domain/repository"
	"ForecastGate/internal/domain/service"
	"ForecastGate/internal/handler/api"
	internalrepo "ForecastGate/internal/repository"
	"ForecastGate/internal/service/eip"
	"ForecastGate/internal/service/feed"
	"ForecastGate/internal/service/ratelimit"
	"ForecastGate/internal/usecase"
	"ForecastGate/pkg/cache"
	pkgch "ForecastGate/pkg/clickhouse"
	"ForecastGate/pkg/config"
	xhttp "ForecastGate/pkg/http"
	"ForecastGate/pkg/http/middleware"
	pkgkafka "ForecastGate/pkg/kafka"
	applogger "ForecastGate/pkg/logger"
	"ForecastGate/pkg/metrics"
	"ForecastGate/pkg/server"
)

// ProvideKafkaProducer creates a Kafka producer when events or the log collector need one.
func ProvideKafkaProducer(cfg *config.Config) (*pkgkafka.Producer, error) {
	if !cfg.KafkaRequired() {
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
		pkgkafka.WithAutoCreateTopic(true),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return producer, nil
}

// ProvideLogger builds the root logger. Error entries are aggregated and shipped to
// Kafka when the collector is enabled, so this must run before any child logger exists.
func ProvideLogger(cfg *config.Config, producer *pkgkafka.Producer) (*applogger.Logger, error) {
	l, err := applogger.New(&applogger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	if cfg.Log.Collector.Enabled && producer != nil {
		l.AddCollector(&applogger.CollectionConfig{
			TimeInterval:   cfg.Log.Collector.Interval,
			CountThreshold: cfg.Log.Collector.Threshold,
			Topic:          cfg.Log.Collector.Topic,
			Publisher:      producer,
		})
	}
	return l, nil
}

// ProvideClickHouseClient connects to ClickHouse and ensures the event table exists.
func ProvideClickHouseClient(cfg *config.Config) (*pkgch.Client, error) {
	if cfg.Events.Backend != config.EventsClickHouse {
		return nil, nil
	}
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
	if err := client.InitSchema(ctx, internalrepo.SchemaStatements(client.Database())); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("clickhouse schema: %w", err)
	}
	return client, nil
}

// ProvideRedisCache connects to Redis for the shared rate limiter.
func ProvideRedisCache(cfg *config.Config) (*cache.RedisCache, error) {
	if !cfg.RateLimit.Enabled || cfg.RateLimit.Backend != config.LimiterRedis {
		return nil, nil
	}
	rc, err := cache.NewRedisCache(
		cache.WithRedisHost(cfg.Redis.Host),
		cache.WithRedisPort(cfg.Redis.Port),
		cache.WithRedisPassword(cfg.Redis.Password),
		cache.WithRedisDB(cfg.Redis.DB),
		cache.WithRedisPrefix(cfg.Redis.Prefix),
		cache.WithRedisPool(cfg.Redis.Pool.Size, cfg.Redis.Pool.MinIdleConns, cfg.Redis.Pool.Timeout),
	)
	if err != nil {
		return nil, fmt.Errorf("redis: %w", err)
	}
	return rc, nil
}

func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

func ProvideEventPublisher(producer *pkgkafka.Producer, cfg *config.Config) repository.EventPublisher {
	if producer == nil || cfg.Events.Backend != config.EventsKafka {
		return nil
	}
	return internalrepo.NewKafkaEventPublisher(producer, cfg.Kafka.Topic)
}

func ProvideEventStore(ch *pkgch.Client) repository.EventStore {
	if ch == nil {
		return nil
	}
	return internalrepo.NewClickHouseEventStore(ch.DB(), ch.Database())
}

// ProvideFeedHub creates the websocket hub when the live feed is enabled.
func ProvideFeedHub(cfg *config.Config, log *applogger.Logger) *feed.Hub {
	if !cfg.Events.FeedEnabled {
		return nil
	}
	return feed.NewHub(cfg.Server.CORSOrigins, log)
}

func ProvideEventRecorder(
	pub repository.EventPublisher,
	store repository.EventStore,
	m repository.Metrics,
	hub *feed.Hub,
	cfg *config.Config,
	log *applogger.Logger,
) *usecase.EventRecorder {
	var broadcaster service.EventBroadcaster
	if hub != nil {
		broadcaster = hub
	}
	return usecase.NewEventRecorder(pub, store, m, broadcaster, cfg.Events.Backend, cfg.Events.Timeout, log)
}

func ProvideEIPProvider(cfg *config.Config, log *applogger.Logger) *eip.Provider {
	return eip.NewProvider(eip.Settings{
		Enabled: cfg.EIP.Enabled,
		BaseURL: cfg.EIP.BaseURL,
		APIKey:  cfg.EIP.APIKey,
		Timeout: cfg.EIP.Timeout,
	}, log)
}

func ProvideForecastUseCase(
	provider *eip.Provider,
	recorder *usecase.EventRecorder,
	cfg *config.Config,
	log *applogger.Logger,
) *usecase.ForecastUseCase {
	return usecase.NewForecastUseCase(provider, recorder, cfg.EIP.SignupPassword, log)
}

// ProvideLimiter picks the rate limiter backend; nil disables rate limiting.
func ProvideLimiter(cfg *config.Config, rc *cache.RedisCache) middleware.Limiter {
	if !cfg.RateLimit.Enabled {
		return nil
	}
	if cfg.RateLimit.Backend == config.LimiterRedis && rc != nil {
		return ratelimit.NewRedisLimiter(rc, cfg.RateLimit.RequestsPerMinute)
	}
	return ratelimit.NewMemoryLimiter(cfg.RateLimit.RequestsPerMinute, cfg.RateLimit.Burst)
}

// ProvideHTTPHandler collects every route group served by the gateway.
func ProvideHTTPHandler(uc *usecase.ForecastUseCase, hub *feed.Hub, log *applogger.Logger) xhttp.Handler {
	handlers := xhttp.Handlers{api.NewForecastHandler(log, uc)}
	if hub != nil {
		handlers = append(handlers, api.NewFeedHandler(hub))
	}
	return handlers
}

func ProvideApp(
	cfg *config.Config,
	log *applogger.Logger,
	handler xhttp.Handler,
	provider *eip.Provider,
	recorder *usecase.EventRecorder,
	hub *feed.Hub,
	limiter middleware.Limiter,
	producer *pkgkafka.Producer,
	ch *pkgch.Client,
	rc *cache.RedisCache,
) *server.App {
	return server.New(cfg, log, handler, provider, recorder, hub, limiter, producer, ch, rc)
}
