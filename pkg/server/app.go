package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ForecastGate/internal/service/eip"
	"ForecastGate/internal/service/feed"
	fmetrics "ForecastGate/internal/service/metrics"
	"ForecastGate/internal/service/ratelimit"
	"ForecastGate/internal/usecase"
	"ForecastGate/pkg/cache"
	pkgch "ForecastGate/pkg/clickhouse"
	"ForecastGate/pkg/config"
	xhttp "ForecastGate/pkg/http"
	"ForecastGate/pkg/http/middleware"
	pkgkafka "ForecastGate/pkg/kafka"
	applogger "ForecastGate/pkg/logger"
)

// App encapsulates the entire application lifecycle.
type App struct {
	cfg        *config.Config
	log        *applogger.Logger
	handler    xhttp.Handler
	provider   *eip.Provider
	recorder   *usecase.EventRecorder
	hub        *feed.Hub
	limiter    middleware.Limiter
	producer   *pkgkafka.Producer
	chClient   *pkgch.Client
	redis      *cache.RedisCache
	httpServer *xhttp.Server
}

// New creates a new App instance. Optional infrastructure is passed as nil when disabled.
func New(
	cfg *config.Config,
	log *applogger.Logger,
	handler xhttp.Handler,
	provider *eip.Provider,
	recorder *usecase.EventRecorder,
	hub *feed.Hub,
	limiter middleware.Limiter,
	producer *pkgkafka.Producer,
	chClient *pkgch.Client,
	redis *cache.RedisCache,
) *App {
	return &App{
		cfg:      cfg,
		log:      log,
		handler:  handler,
		provider: provider,
		recorder: recorder,
		hub:      hub,
		limiter:  limiter,
		producer: producer,
		chClient: chClient,
		redis:    redis,
	}
}

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	l := a.log.With("app")

	// A failed init is not fatal: the first request retries it.
	if a.provider.Available() {
		initCtx, initCancel := context.WithTimeout(ctx, 10*time.Second)
		_ = a.provider.Init(initCtx)
		initCancel()
	} else {
		l.Warn("EIP dependency not available, forecast endpoints will answer 503")
	}

	if a.hub != nil {
		go a.hub.Run(ctx)
		l.Info("forecast feed started")
	}
	if ml, ok := a.limiter.(*ratelimit.MemoryLimiter); ok {
		go ml.Run(ctx)
	}

	metricsPath := ""
	if a.cfg.Metrics.Enabled {
		fmetrics.Register()
		metricsPath = a.cfg.Metrics.Path
	}

	a.httpServer = xhttp.NewServer(a.handler,
		xhttp.WithPort(a.cfg.Server.Port),
		xhttp.WithTimeouts(a.cfg.Server.ReadTimeout, a.cfg.Server.WriteTimeout, a.cfg.Server.ShutdownTimeout),
		xhttp.WithCORSOrigins(a.cfg.Server.CORSOrigins),
		xhttp.WithMetrics(metricsPath),
		xhttp.WithRateLimiter(a.limiter),
		xhttp.WithLogger(a.log),
	)

	if err := a.httpServer.Start(); err != nil {
		l.Error("http server start error", applogger.Error(err), applogger.Stack())
		return err
	}
	l.Info("forecast gateway listening",
		applogger.Int("port", a.cfg.Server.Port),
		applogger.String("events_backend", a.cfg.Events.Backend),
		applogger.Bool("rate_limit", a.limiter != nil),
	)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	l.Info("shutdown signal received")
	cancel()
	return a.shutdown()
}

// shutdown stops the HTTP server first so no new events are produced, then drains
// pending event deliveries before closing the clients they use.
func (a *App) shutdown() error {
	l := a.log.With("app")
	l.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := a.httpServer.Stop(shutdownCtx); err != nil {
		l.Error("http shutdown error", applogger.Error(err))
	}

	if a.recorder != nil {
		a.recorder.Close()
	}

	if a.chClient != nil {
		if err := a.chClient.Close(); err != nil {
			l.Warn("clickhouse close error", applogger.Error(err))
		}
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			l.Warn("redis close error", applogger.Error(err))
		}
	}

	l.Info("shutdown complete")

	// The log collector publishes through the producer, so it goes first.
	a.log.RemoveCollector()
	if a.producer != nil {
		if err := a.producer.Close(); err != nil {
			l.Warn("kafka producer close error", applogger.Error(err))
		}
	}
	return nil
}
