package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"ForecastGate/internal/domain/models"
	"ForecastGate/pkg/config"
	applogger "ForecastGate/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSink struct {
	mu       sync.Mutex
	err      error
	got      []*models.ForecastEvent
	ctxErr   error
	closed   bool
	released chan struct{}
}

func (s *fakeSink) Publish(ctx context.Context, ev *models.ForecastEvent) error {
	return s.Store(ctx, ev)
}

func (s *fakeSink) Store(ctx context.Context, ev *models.ForecastEvent) error {
	if s.released != nil {
		<-s.released
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ctxErr = ctx.Err()
	if s.err != nil {
		return s.err
	}
	s.got = append(s.got, ev)
	return nil
}

func (s *fakeSink) Init(context.Context) error   { return nil }
func (s *fakeSink) Health(context.Context) error { return nil }

func (s *fakeSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

type countingMetrics struct {
	mu     sync.Mutex
	sent   map[string]int
	errors int
}

func (m *countingMetrics) RecordEventSent(backend, kind string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.sent == nil {
		m.sent = map[string]int{}
	}
	m.sent[backend+"/"+kind]++
}

func (m *countingMetrics) RecordError(string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errors++
}

func (m *countingMetrics) RecordLatency(string, float64) {}

func TestEventRecorderKafkaSurvivesRequestCancel(t *testing.T) {
	pub := &fakeSink{released: make(chan struct{})}
	feed := &recordedEvents{}
	m := &countingMetrics{}
	r := NewEventRecorder(pub, nil, m, feed, config.EventsKafka, time.Second, applogger.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	ev := models.NewForecastEvent(models.EventOHLC)
	r.Record(ctx, ev)
	cancel()
	close(pub.released)
	r.Close()

	require.Len(t, pub.got, 1)
	assert.Equal(t, ev.ID, pub.got[0].ID)
	assert.NoError(t, pub.ctxErr)
	assert.True(t, pub.closed)
	assert.Len(t, feed.events, 1)
	assert.Equal(t, 1, m.sent["kafka/ohlc"])
}

func TestEventRecorderClickHouseFailureIsCounted(t *testing.T) {
	store := &fakeSink{err: errors.New("connection refused")}
	m := &countingMetrics{}
	r := NewEventRecorder(nil, store, m, nil, config.EventsClickHouse, time.Second, applogger.Nop())

	r.Record(context.Background(), models.NewForecastEvent(models.EventUnivariate))
	r.Close()

	assert.Empty(t, store.got)
	assert.Equal(t, 1, m.errors)
	assert.True(t, store.closed)
}

func TestEventRecorderNoneOnlyFeeds(t *testing.T) {
	pub := &fakeSink{}
	feed := &recordedEvents{}
	r := NewEventRecorder(pub, nil, nil, feed, config.EventsNone, 0, applogger.Nop())

	r.Record(context.Background(), models.NewForecastEvent(models.EventPropagation))
	r.Record(context.Background(), nil)
	r.Close()

	assert.Empty(t, pub.got)
	assert.Len(t, feed.events, 1)
}

func TestEventRecorderMissingBackend(t *testing.T) {
	m := &countingMetrics{}
	r := NewEventRecorder(nil, nil, m, nil, config.EventsKafka, time.Second, applogger.Nop())
	r.Record(context.Background(), models.NewForecastEvent(models.EventOHLC))
	r.Close()
	assert.Equal(t, 1, m.errors)
}
