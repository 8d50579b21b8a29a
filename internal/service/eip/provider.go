package eip

import (
	"context"
	"sync"
	"time"

	"ForecastGate/internal/domain"
	"ForecastGate/internal/domain/service"
	applogger "ForecastGate/pkg/logger"
)

// SignupAPIKey is the placeholder key the EIP API accepts for unauthenticated signups.
const SignupAPIKey = "temp"

// Settings configure the EIP connection.
type Settings struct {
	Enabled bool
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// Provider owns the single process-wide EIP client. The first successful build
// is kept for the lifetime of the process; a failed build leaves the slot empty
// so the next caller tries again.
type Provider struct {
	settings Settings
	log      *applogger.Logger

	mu     sync.Mutex
	client *Client
}

// NewProvider creates a provider. No connection is attempted until Init or Client is called.
func NewProvider(settings Settings, log *applogger.Logger) *Provider {
	return &Provider{settings: settings, log: log.With("eip")}
}

func (p *Provider) Available() bool {
	return p.settings.Enabled && p.settings.BaseURL != ""
}

func (p *Provider) Initialized() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.client != nil
}

// Init builds the client eagerly. Failure is logged and left for a later retry.
func (p *Provider) Init(ctx context.Context) error {
	_, err := p.Client(ctx)
	return err
}

func (p *Provider) Client(ctx context.Context) (service.ForecastClient, error) {
	if !p.Available() {
		return nil, domain.ErrDependencyUnavailable
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.client != nil {
		return p.client, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c, err := NewClient(p.settings.BaseURL, p.settings.APIKey, p.settings.Timeout)
	if err != nil {
		p.log.Error("failed to initialize EIP client",
			applogger.Error(err),
			applogger.String("base_url", p.settings.BaseURL),
			applogger.Stack(),
		)
		return nil, domain.ErrClientNotInitialized
	}

	p.client = c
	p.log.Info("EIP client initialized", applogger.String("base_url", p.settings.BaseURL))
	return p.client, nil
}

func (p *Provider) SignupClient() (service.SignupClient, error) {
	if !p.Available() {
		return nil, domain.ErrDependencyUnavailable
	}
	c, err := NewClient(p.settings.BaseURL, SignupAPIKey, p.settings.Timeout)
	if err != nil {
		return nil, err
	}
	return c, nil
}
