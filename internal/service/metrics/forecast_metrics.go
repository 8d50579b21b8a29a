package metrics

import (
	"strconv"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	ForecastRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "forecastgate",
			Subsystem: "forecast",
			Name:      "requests_total",
			Help:      "Forecast gateway requests by endpoint and outcome",
		},
		[]string{"endpoint", "outcome"},
	)

	DelegationLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "forecastgate",
			Subsystem: "forecast",
			Name:      "delegation_seconds",
			Help:      "Latency of delegated EIP operations",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
		},
		[]string{"operation"},
	)

	Directions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "forecastgate",
			Subsystem: "forecast",
			Name:      "direction_total",
			Help:      "Causal chain directions returned by the EIP API",
		},
		[]string{"endpoint", "direction"},
	)

	Truncated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "forecastgate",
			Subsystem: "forecast",
			Name:      "truncated_total",
			Help:      "Requests whose input was trimmed to the most recent periods",
		},
		[]string{"endpoint"},
	)
)

// Register adds the forecast collectors to the default registry. Safe to call repeatedly.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(ForecastRequests, DelegationLatency, Directions, Truncated)
	})
}

// Outcome labels.
const (
	OutcomeOK          = "ok"
	OutcomeUnavailable = "unavailable"
	OutcomeInvalid     = "invalid"
	OutcomeFailed      = "failed"
)

func ObserveRequest(endpoint, outcome string) {
	ForecastRequests.WithLabelValues(endpoint, outcome).Inc()
}

func ObserveDelegation(operation string, seconds float64) {
	DelegationLatency.WithLabelValues(operation).Observe(seconds)
}

func ObserveDirection(endpoint string, direction int) {
	Directions.WithLabelValues(endpoint, strconv.Itoa(direction)).Inc()
}

func ObserveTruncated(endpoint string) {
	Truncated.WithLabelValues(endpoint).Inc()
}
