package repository

import (
	"context"

	"ForecastGate/internal/domain/models"
)

// EventPublisher ships forecast events to a message broker.
type EventPublisher interface {
	Publish(ctx context.Context, ev *models.ForecastEvent) error
	Close() error
}

// EventStore persists forecast events.
type EventStore interface {
	Init(ctx context.Context) error // ensure tables
	Store(ctx context.Context, ev *models.ForecastEvent) error
	Health(ctx context.Context) error
	Close() error
}

type Metrics interface {
	RecordEventSent(backend, kind string)
	RecordError(kind string)
	RecordLatency(op string, seconds float64)
}
