package usecase

import (
	"context"
	"encoding/json"
	"sync"

	"ForecastGate/internal/domain"
	"ForecastGate/internal/domain/models"
	"ForecastGate/internal/domain/service"
)

// fakeClient records every delegated call.
type fakeClient struct {
	mu          sync.Mutex
	result      json.RawMessage
	err         error
	calls       int
	lastCall    *models.ForecastCall
	lastProp    *models.PropagationCall
	lastPayload *models.SignupPayload
}

func (f *fakeClient) OHLCForecast(_ context.Context, call *models.ForecastCall) (json.RawMessage, error) {
	return f.forecast(call)
}

func (f *fakeClient) UnivariateForecast(_ context.Context, call *models.ForecastCall) (json.RawMessage, error) {
	return f.forecast(call)
}

func (f *fakeClient) forecast(call *models.ForecastCall) (json.RawMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.lastCall = call
	return f.result, f.err
}

func (f *fakeClient) CheckChainPropagation(_ context.Context, call *models.PropagationCall) (json.RawMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.lastProp = call
	return f.result, f.err
}

func (f *fakeClient) UserSignup(_ context.Context, payload *models.SignupPayload) (json.RawMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.lastPayload = payload
	return f.result, f.err
}

type fakeProvider struct {
	available bool
	initErr   error
	client    *fakeClient
}

func (p *fakeProvider) Available() bool   { return p.available }
func (p *fakeProvider) Initialized() bool { return p.available && p.initErr == nil }

func (p *fakeProvider) Client(context.Context) (service.ForecastClient, error) {
	if !p.available {
		return nil, domain.ErrDependencyUnavailable
	}
	if p.initErr != nil {
		return nil, p.initErr
	}
	return p.client, nil
}

func (p *fakeProvider) SignupClient() (service.SignupClient, error) {
	if !p.available {
		return nil, domain.ErrDependencyUnavailable
	}
	return p.client, nil
}

type recordedEvents struct {
	mu     sync.Mutex
	events []*models.ForecastEvent
}

func (r *recordedEvents) Record(_ context.Context, ev *models.ForecastEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

func (r *recordedEvents) Broadcast(ev *models.ForecastEvent) {
	r.Record(context.Background(), ev)
}
