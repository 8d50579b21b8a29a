package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"ForecastGate/internal/domain"
	"ForecastGate/internal/domain/models"
	"ForecastGate/internal/domain/service"
	fmetrics "ForecastGate/internal/service/metrics"
	"ForecastGate/internal/service/shape"
	applogger "ForecastGate/pkg/logger"
)

// Endpoint labels used in metrics and logs.
const (
	EndpointOHLC        = "ohlc"
	EndpointUnivariate  = "univariate"
	EndpointLegacy      = "directional_change"
	EndpointPropagation = "propagation"
	EndpointSignup      = "signup"
)

// ForecastUseCase validates, reshapes and delegates forecast requests to the EIP API.
type ForecastUseCase struct {
	provider       service.ClientProvider
	events         service.EventRecorder
	signupPassword string
	log            *applogger.Logger
	now            func() time.Time
}

func NewForecastUseCase(
	provider service.ClientProvider,
	events service.EventRecorder,
	signupPassword string,
	log *applogger.Logger,
) *ForecastUseCase {
	return &ForecastUseCase{
		provider:       provider,
		events:         events,
		signupPassword: signupPassword,
		log:            log.With("forecast"),
		now:            time.Now,
	}
}

// Ready resolves the shared EIP client. It fails with ErrDependencyUnavailable or
// ErrClientNotInitialized before any request body is looked at.
func (u *ForecastUseCase) Ready(ctx context.Context) error {
	_, err := u.provider.Client(ctx)
	return err
}

// Health reports liveness and the state of the EIP dependency.
func (u *ForecastUseCase) Health() models.HealthResponse {
	return models.HealthResponse{
		Status:            "healthy",
		Timestamp:         u.now().UTC().Format(time.RFC3339),
		SumtymeAvailable:  u.provider.Available(),
		ClientInitialized: u.provider.Initialized(),
		APIVersion:        models.APIVersion,
	}
}

func (u *ForecastUseCase) ForecastOHLC(ctx context.Context, req *models.OHLCForecastRequest) (*models.ForecastResponse, error) {
	return u.forecastOHLC(ctx, req, EndpointOHLC, models.EventOHLC)
}

// DirectionalChange serves the deprecated boolean view of an OHLC forecast.
func (u *ForecastUseCase) DirectionalChange(ctx context.Context, req *models.OHLCForecastRequest) (*models.LegacyForecastResponse, error) {
	res, err := u.forecastOHLC(ctx, req, EndpointLegacy, models.EventLegacy)
	if err != nil {
		return nil, err
	}
	return ToLegacy(res), nil
}

func (u *ForecastUseCase) forecastOHLC(ctx context.Context, req *models.OHLCForecastRequest, endpoint string, kind models.EventKind) (*models.ForecastResponse, error) {
	start := u.now()
	client, err := u.provider.Client(ctx)
	if err != nil {
		return nil, err
	}

	u.log.Info("received OHLC forecast request",
		applogger.String("endpoint", endpoint),
		applogger.Int("periods", len(req.DataInput)),
		applogger.Int("interval", req.IntervalValue()),
		applogger.String("interval_unit", req.IntervalUnit),
		applogger.String("reasoning_mode", req.ReasoningMode),
	)

	bars, offset, err := window(req.DataInput, domain.MinPeriods)
	if err != nil {
		return nil, err
	}
	u.noteTruncation(endpoint, offset)

	table, invalid, err := buildOHLCTable(bars, offset)
	if err != nil {
		return nil, err
	}
	u.noteInvalid(endpoint, invalid)
	u.noteIntervalUnit(req.IntervalUnit)

	call := &models.ForecastCall{
		DataInput:     table,
		Interval:      req.IntervalValue(),
		IntervalUnit:  req.IntervalUnit,
		ReasoningMode: req.ReasoningMode,
	}
	raw, err := u.delegate(ctx, "ohlc_forecast", func(ctx context.Context) (json.RawMessage, error) {
		return client.OHLCForecast(ctx, call)
	})
	if err != nil {
		return nil, err
	}

	return u.finishForecast(ctx, raw, start, table.Len(), endpoint, kind, req.IntervalValue(), req.IntervalUnit, req.ReasoningMode)
}

func (u *ForecastUseCase) ForecastUnivariate(ctx context.Context, req *models.UnivariateForecastRequest) (*models.ForecastResponse, error) {
	start := u.now()
	client, err := u.provider.Client(ctx)
	if err != nil {
		return nil, err
	}

	points, offset, err := window(req.DataInput, domain.MinPeriods)
	if err != nil {
		return nil, err
	}
	u.noteTruncation(EndpointUnivariate, offset)

	table, invalid, err := buildUnivariateTable(points, offset)
	if err != nil {
		return nil, err
	}
	u.noteInvalid(EndpointUnivariate, invalid)
	u.noteIntervalUnit(req.IntervalUnit)

	u.log.Info("processing univariate forecast",
		applogger.Int("periods", table.Len()),
		applogger.Int("interval", req.IntervalValue()),
		applogger.String("interval_unit", req.IntervalUnit),
		applogger.String("reasoning_mode", req.ReasoningMode),
	)

	call := &models.ForecastCall{
		DataInput:     table,
		Interval:      req.IntervalValue(),
		IntervalUnit:  req.IntervalUnit,
		ReasoningMode: req.ReasoningMode,
	}
	raw, err := u.delegate(ctx, "univariate_forecast", func(ctx context.Context) (json.RawMessage, error) {
		return client.UnivariateForecast(ctx, call)
	})
	if err != nil {
		return nil, err
	}

	return u.finishForecast(ctx, raw, start, table.Len(), EndpointUnivariate, models.EventUnivariate, req.IntervalValue(), req.IntervalUnit, req.ReasoningMode)
}

func (u *ForecastUseCase) finishForecast(
	ctx context.Context,
	raw json.RawMessage,
	start time.Time,
	periods int,
	endpoint string,
	kind models.EventKind,
	interval int,
	unit, mode string,
) (*models.ForecastResponse, error) {
	reading, err := shape.Match(raw)
	if err != nil {
		return nil, err
	}

	ts := reading.Timestamp
	if ts == "" {
		ts = u.now().UTC().Format(time.RFC3339)
	}
	elapsed := float64(u.now().Sub(start).Microseconds()) / 1000.0

	u.log.Info("forecast completed",
		applogger.String("endpoint", endpoint),
		applogger.String("result_shape", reading.Kind.String()),
		applogger.Int("causal_chain", reading.CausalChain),
		applogger.String("timestamp", ts),
		applogger.Float64("processing_time_ms", elapsed),
	)
	fmetrics.ObserveDirection(endpoint, reading.CausalChain)

	ev := models.NewForecastEvent(kind)
	ev.Interval = interval
	ev.IntervalUnit = unit
	ev.ReasoningMode = mode
	ev.Periods = periods
	chain := reading.CausalChain
	ev.CausalChain = &chain
	ev.ResultTimestamp = ts
	ev.ProcessingTimeMs = elapsed
	u.record(ctx, ev)

	return &models.ForecastResponse{
		CausalChain:      reading.CausalChain,
		Timestamp:        ts,
		ProcessingTimeMs: elapsed,
		DataPeriods:      periods,
	}, nil
}

// CheckPropagation asks whether a chain in the current timeframe carried into the next one.
func (u *ForecastUseCase) CheckPropagation(ctx context.Context, req *models.PropagationRequest) (*models.PropagationResponse, error) {
	start := u.now()
	client, err := u.provider.Client(ctx)
	if err != nil {
		return nil, err
	}

	call := &models.PropagationCall{
		CurrentTF: buildRecordTable(req.CurrentTFData),
		NextTF:    buildRecordTable(req.NextTFData),
	}
	u.log.Info("checking propagation between timeframes",
		applogger.Int("current_periods", call.CurrentTF.Len()),
		applogger.Int("next_periods", call.NextTF.Len()),
	)

	raw, err := u.delegate(ctx, "check_chain_propagation", func(ctx context.Context) (json.RawMessage, error) {
		return client.CheckChainPropagation(ctx, call)
	})
	if err != nil {
		return nil, err
	}

	p, err := shape.MatchPropagation(raw)
	if err != nil {
		return nil, err
	}

	res := &models.PropagationResponse{
		HasPropagated:       p.HasPropagated,
		PropagationDatetime: p.Datetime,
		ChainValue:          p.ChainValue,
		Timestamp:           u.now().UTC().Format(time.RFC3339),
	}
	u.log.Info("propagation check completed",
		applogger.Bool("has_propagated", res.HasPropagated),
		applogger.Any("propagation_datetime", res.PropagationDatetime),
		applogger.Any("chain_value", res.ChainValue),
	)

	ev := models.NewForecastEvent(models.EventPropagation)
	ev.Periods = call.CurrentTF.Len()
	ev.HasPropagated = &p.HasPropagated
	ev.CausalChain = p.ChainValue
	if p.Datetime != nil {
		ev.ResultTimestamp = *p.Datetime
	}
	ev.ProcessingTimeMs = float64(u.now().Sub(start).Microseconds()) / 1000.0
	u.record(ctx, ev)

	return res, nil
}

// Signup forwards a user registration using a throwaway client with the temporary key.
func (u *ForecastUseCase) Signup(ctx context.Context, req *models.SignupRequest) (*models.SignupResponse, error) {
	client, err := u.provider.SignupClient()
	if err != nil {
		if errors.Is(err, domain.ErrDependencyUnavailable) {
			return nil, err
		}
		return nil, domain.ExternalCallError("user_signup", err)
	}

	raw, err := u.delegate(ctx, "user_signup", func(ctx context.Context) (json.RawMessage, error) {
		return client.UserSignup(ctx, &models.SignupPayload{
			Email:           req.Email,
			Password:        u.signupPassword,
			ConfirmPassword: u.signupPassword,
		})
	})
	if err != nil {
		return nil, err
	}
	if !json.Valid(raw) {
		raw, _ = json.Marshal(string(raw))
	}

	return &models.SignupResponse{
		Success: true,
		Message: models.SignupSuccessMessage,
		Result:  raw,
	}, nil
}

// ToLegacy maps a forecast onto the deprecated directional change response.
func ToLegacy(res *models.ForecastResponse) *models.LegacyForecastResponse {
	confidence := res.CausalChain
	if confidence < 0 {
		confidence = -confidence
	}
	return &models.LegacyForecastResponse{
		DirectionalChangeForecast: res.CausalChain > 0,
		Confidence:                confidence * 100,
		Timestamp:                 res.Timestamp,
		CausalChain:               res.CausalChain,
		ProcessingTimeMs:          res.ProcessingTimeMs,
		DeprecationWarning:        models.LegacyDeprecationWarning,
	}
}

// delegate runs one external operation and wraps its failure as ErrExternalCall.
func (u *ForecastUseCase) delegate(ctx context.Context, op string, fn func(context.Context) (json.RawMessage, error)) (json.RawMessage, error) {
	start := time.Now()
	raw, err := fn(ctx)
	fmetrics.ObserveDelegation(op, time.Since(start).Seconds())
	if err != nil {
		return nil, domain.ExternalCallError(op, err)
	}
	u.log.Debug("EIP call returned",
		applogger.String("operation", op),
		applogger.Int("bytes", len(raw)),
	)
	return raw, nil
}

func (u *ForecastUseCase) record(ctx context.Context, ev *models.ForecastEvent) {
	if u.events != nil {
		u.events.Record(ctx, ev)
	}
}

func (u *ForecastUseCase) noteTruncation(endpoint string, dropped int) {
	if dropped == 0 {
		return
	}
	fmetrics.ObserveTruncated(endpoint)
	u.log.Info("trimming input to the most recent periods",
		applogger.String("endpoint", endpoint),
		applogger.Int("dropped", dropped),
		applogger.Int("kept", domain.MinPeriods),
	)
}

func (u *ForecastUseCase) noteInvalid(endpoint string, invalid int) {
	if invalid == 0 {
		return
	}
	u.log.Warn("non-numeric values in input, sending them as null",
		applogger.String("endpoint", endpoint),
		applogger.Int("invalid_values", invalid),
	)
}

func (u *ForecastUseCase) noteIntervalUnit(unit string) {
	if !models.IsKnownIntervalUnit(unit) {
		u.log.Warn("unrecognized interval_unit, forwarding unchanged", applogger.String("interval_unit", unit))
	}
}
