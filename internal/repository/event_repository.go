package repository

import (
	"context"
	"database/sql"
	"fmt"

	"ForecastGate/internal/domain/models"
	"ForecastGate/internal/domain/repository"
)

// EventsTable is the ClickHouse table forecast events are written to.
const EventsTable = "forecast_events"

// ClickHouseEventStore implements EventStore for ClickHouse.
type ClickHouseEventStore struct {
	db    *sql.DB
	table string
}

// NewClickHouseEventStore creates a store writing to database.forecast_events.
func NewClickHouseEventStore(db *sql.DB, database string) repository.EventStore {
	return &ClickHouseEventStore{db: db, table: fmt.Sprintf("%s.%s", database, EventsTable)}
}

// SchemaStatements returns the idempotent DDL for the events table.
func SchemaStatements(database string) []string {
	return []string{
		fmt.Sprintf("CREATE DATABASE IF NOT EXISTS %s", database),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s.%s (
	id                 String,
	kind               LowCardinality(String),
	interval           Int32,
	interval_unit      LowCardinality(String),
	reasoning_mode     LowCardinality(String),
	periods            UInt32,
	causal_chain       Nullable(Int8),
	has_propagated     Nullable(UInt8),
	result_timestamp   String,
	processing_time_ms Float64,
	created_at         DateTime64(3, 'UTC')
) ENGINE = MergeTree
ORDER BY (kind, created_at)`, database, EventsTable),
	}
}

func (s *ClickHouseEventStore) Init(ctx context.Context) error {
	return nil // schema is applied by the clickhouse client at startup
}

func (s *ClickHouseEventStore) Store(ctx context.Context, ev *models.ForecastEvent) error {
	q := fmt.Sprintf(`INSERT INTO %s (id, kind, interval, interval_unit, reasoning_mode, periods, causal_chain,
has_propagated, result_timestamp, processing_time_ms, created_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`, s.table)
	_, err := s.db.ExecContext(ctx, q, eventArgs(ev)...)
	if err != nil {
		return fmt.Errorf("insert forecast event: %w", err)
	}
	return nil
}

func (s *ClickHouseEventStore) Health(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *ClickHouseEventStore) Close() error {
	return nil // managed by pkg/clickhouse
}

func eventArgs(ev *models.ForecastEvent) []interface{} {
	var chain, propagated interface{}
	if ev.CausalChain != nil {
		chain = int8(*ev.CausalChain)
	}
	if ev.HasPropagated != nil {
		v := uint8(0)
		if *ev.HasPropagated {
			v = 1
		}
		propagated = v
	}
	return []interface{}{
		ev.ID,
		string(ev.Kind),
		int32(ev.Interval),
		ev.IntervalUnit,
		ev.ReasoningMode,
		uint32(ev.Periods),
		chain,
		propagated,
		ev.ResultTimestamp,
		ev.ProcessingTimeMs,
		ev.CreatedAt,
	}
}

// messagePublisher is satisfied by *pkg/kafka.Producer.
type messagePublisher interface {
	Publish(ctx context.Context, topic string, key []byte, value interface{}) error
	Close() error
}

// KafkaEventPublisher implements EventPublisher for Kafka.
type KafkaEventPublisher struct {
	producer messagePublisher
	topic    string
}

// NewKafkaEventPublisher creates a publisher that keys messages by event kind.
func NewKafkaEventPublisher(producer messagePublisher, topic string) repository.EventPublisher {
	return &KafkaEventPublisher{producer: producer, topic: topic}
}

func (p *KafkaEventPublisher) Publish(ctx context.Context, ev *models.ForecastEvent) error {
	return p.producer.Publish(ctx, p.topic, []byte(ev.Kind), ev)
}

// Close is a no-op; the producer is shared with the log collector and closed by the app.
func (p *KafkaEventPublisher) Close() error {
	return nil
}
