package models

import (
	"time"

	"github.com/google/uuid"
)

// EventKind names the operation a ForecastEvent came from.
type EventKind string

const (
	EventOHLC        EventKind = "ohlc"
	EventUnivariate  EventKind = "univariate"
	EventLegacy      EventKind = "directional_change"
	EventPropagation EventKind = "propagation"
)

// ForecastEvent is the record of one successful delegation.
type ForecastEvent struct {
	ID               string    `json:"id"`
	Kind             EventKind `json:"kind"`
	Interval         int       `json:"interval,omitempty"`
	IntervalUnit     string    `json:"interval_unit,omitempty"`
	ReasoningMode    string    `json:"reasoning_mode,omitempty"`
	Periods          int       `json:"periods"`
	CausalChain      *int      `json:"causal_chain,omitempty"`
	HasPropagated    *bool     `json:"has_propagated,omitempty"`
	ResultTimestamp  string    `json:"result_timestamp,omitempty"`
	ProcessingTimeMs float64   `json:"processing_time_ms"`
	CreatedAt        time.Time `json:"created_at"`
}

// NewForecastEvent stamps a fresh event with an id and creation time.
func NewForecastEvent(kind EventKind) *ForecastEvent {
	return &ForecastEvent{
		ID:        uuid.NewString(),
		Kind:      kind,
		CreatedAt: time.Now().UTC(),
	}
}
