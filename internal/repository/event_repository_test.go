package repository

import (
	"context"
	"testing"
	"time"

	"ForecastGate/internal/domain/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProducer struct {
	topic string
	key   []byte
	value interface{}
}

func (f *fakeProducer) Publish(_ context.Context, topic string, key []byte, value interface{}) error {
	f.topic, f.key, f.value = topic, key, value
	return nil
}

func (f *fakeProducer) Close() error { return nil }

func TestKafkaEventPublisherKeysByKind(t *testing.T) {
	fp := &fakeProducer{}
	pub := NewKafkaEventPublisher(fp, "forecastgate.events")

	ev := models.NewForecastEvent(models.EventUnivariate)
	require.NoError(t, pub.Publish(context.Background(), ev))

	assert.Equal(t, "forecastgate.events", fp.topic)
	assert.Equal(t, []byte("univariate"), fp.key)
	assert.Same(t, ev, fp.value)
}

func TestEventArgsNullables(t *testing.T) {
	ev := &models.ForecastEvent{ID: "x", Kind: models.EventPropagation, CreatedAt: time.Unix(0, 0)}
	args := eventArgs(ev)
	require.Len(t, args, 11)
	assert.Nil(t, args[6])
	assert.Nil(t, args[7])

	chain, has := -1, true
	ev.CausalChain, ev.HasPropagated = &chain, &has
	args = eventArgs(ev)
	assert.Equal(t, int8(-1), args[6])
	assert.Equal(t, uint8(1), args[7])
}

func TestSchemaStatements(t *testing.T) {
	stmts := SchemaStatements("fg")
	require.Len(t, stmts, 2)
	assert.Contains(t, stmts[1], "fg.forecast_events")
}
