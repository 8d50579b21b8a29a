package service

import (
	"context"
	"encoding/json"

	"ForecastGate/internal/domain/models"
)

// ForecastClient performs the delegated EIP operations. Results are returned
// undecoded; interpreting their shape is the caller's job.
type ForecastClient interface {
	OHLCForecast(ctx context.Context, call *models.ForecastCall) (json.RawMessage, error)
	UnivariateForecast(ctx context.Context, call *models.ForecastCall) (json.RawMessage, error)
	CheckChainPropagation(ctx context.Context, call *models.PropagationCall) (json.RawMessage, error)
}

// SignupClient registers a new EIP user.
type SignupClient interface {
	UserSignup(ctx context.Context, payload *models.SignupPayload) (json.RawMessage, error)
}

// ClientProvider hands out the process-wide ForecastClient.
type ClientProvider interface {
	// Available reports whether the EIP API is enabled and configured.
	Available() bool
	// Initialized reports whether a client has been built.
	Initialized() bool
	// Client returns the shared client, building it on first use.
	Client(ctx context.Context) (ForecastClient, error)
	// SignupClient returns a throwaway client authenticated with the temporary signup key.
	SignupClient() (SignupClient, error)
}

// EventRecorder records forecast events. Implementations never fail the caller.
type EventRecorder interface {
	Record(ctx context.Context, ev *models.ForecastEvent)
}

// EventBroadcaster fans events out to live subscribers.
type EventBroadcaster interface {
	Broadcast(ev *models.ForecastEvent)
}

// Limiter decides whether the caller identified by key may proceed.
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}
