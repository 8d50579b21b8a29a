package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecorderCounts(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := NewWithRegisterer(reg)

	r.RecordEventSent("kafka", "ohlc")
	r.RecordEventSent("kafka", "ohlc")
	r.RecordError("event_publish")
	r.RecordLatency("event_publish", 0.01)

	assert.Equal(t, 2.0, testutil.ToFloat64(r.eventsSent.WithLabelValues("kafka", "ohlc")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.errorsTotal.WithLabelValues("event_publish")))
	assert.Equal(t, 1, testutil.CollectAndCount(r.latency))
}
