package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"ForecastGate/internal/domain/models"
	drepo "ForecastGate/internal/domain/repository"
	"ForecastGate/internal/domain/service"
	"ForecastGate/pkg/config"
	applogger "ForecastGate/pkg/logger"
)

// EventRecorder routes forecast events to the configured backend and the live feed.
// Delivery happens in the background; failures are logged and counted, never returned.
type EventRecorder struct {
	pub     drepo.EventPublisher
	store   drepo.EventStore
	metrics drepo.Metrics
	feed    service.EventBroadcaster
	backend string
	timeout time.Duration
	log     *applogger.Logger
	wg      sync.WaitGroup
}

// NewEventRecorder creates a recorder. pub, store and feed may be nil when unused.
func NewEventRecorder(
	pub drepo.EventPublisher,
	store drepo.EventStore,
	metrics drepo.Metrics,
	feed service.EventBroadcaster,
	backend string,
	timeout time.Duration,
	log *applogger.Logger,
) *EventRecorder {
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	return &EventRecorder{
		pub:     pub,
		store:   store,
		metrics: metrics,
		feed:    feed,
		backend: backend,
		timeout: timeout,
		log:     log.With("events"),
	}
}

// Record hands ev to the live feed and the backend. The request context only
// contributes values; its cancellation does not abort delivery.
func (r *EventRecorder) Record(ctx context.Context, ev *models.ForecastEvent) {
	if ev == nil {
		return
	}
	if r.feed != nil {
		r.feed.Broadcast(ev)
	}
	if r.backend == config.EventsNone || r.backend == "" {
		return
	}

	dctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), r.timeout)
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		defer cancel()
		if err := r.deliver(dctx, ev); err != nil {
			r.log.Warn("failed to record forecast event",
				applogger.Error(err),
				applogger.String("event_id", ev.ID),
				applogger.String("backend", r.backend),
			)
		}
	}()
}

func (r *EventRecorder) deliver(ctx context.Context, ev *models.ForecastEvent) error {
	start := time.Now()
	var err error

	switch r.backend {
	case config.EventsKafka:
		if r.pub == nil {
			err = fmt.Errorf("kafka publisher not configured")
			break
		}
		err = r.pub.Publish(ctx, ev)
	case config.EventsClickHouse:
		if r.store == nil {
			err = fmt.Errorf("clickhouse store not configured")
			break
		}
		err = r.store.Store(ctx, ev)
	default:
		err = fmt.Errorf("unknown backend: %s", r.backend)
	}

	if err != nil {
		if r.metrics != nil {
			r.metrics.RecordError("record_event")
		}
		return fmt.Errorf("record event: %w", err)
	}

	if r.metrics != nil {
		r.metrics.RecordEventSent(r.backend, string(ev.Kind))
		r.metrics.RecordLatency("record_event", time.Since(start).Seconds())
	}
	return nil
}

// Close waits for in-flight deliveries and releases the backends.
func (r *EventRecorder) Close() {
	r.wg.Wait()
	if r.pub != nil {
		_ = r.pub.Close()
	}
	if r.store != nil {
		_ = r.store.Close()
	}
}
