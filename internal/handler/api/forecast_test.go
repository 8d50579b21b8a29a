package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"ForecastGate/internal/domain"
	"ForecastGate/internal/domain/models"
	"ForecastGate/internal/domain/service"
	"ForecastGate/internal/usecase"
	xhttp "ForecastGate/pkg/http"
	applogger "ForecastGate/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubClient struct {
	result  string
	err     error
	calls    int
	periods  int
	interval int
}

func (s *stubClient) OHLCForecast(_ context.Context, call *models.ForecastCall) (json.RawMessage, error) {
	s.calls++
	s.periods = call.DataInput.Len()
	s.interval = call.Interval
	return json.RawMessage(s.result), s.err
}

func (s *stubClient) UnivariateForecast(_ context.Context, call *models.ForecastCall) (json.RawMessage, error) {
	s.calls++
	s.periods = call.DataInput.Len()
	s.interval = call.Interval
	return json.RawMessage(s.result), s.err
}

func (s *stubClient) CheckChainPropagation(context.Context, *models.PropagationCall) (json.RawMessage, error) {
	s.calls++
	return json.RawMessage(s.result), s.err
}

func (s *stubClient) UserSignup(context.Context, *models.SignupPayload) (json.RawMessage, error) {
	s.calls++
	return json.RawMessage(s.result), s.err
}

type stubProvider struct {
	available bool
	initErr   error
	client    *stubClient
}

func (p *stubProvider) Available() bool   { return p.available }
func (p *stubProvider) Initialized() bool { return p.available && p.initErr == nil }

func (p *stubProvider) Client(context.Context) (service.ForecastClient, error) {
	if !p.available {
		return nil, domain.ErrDependencyUnavailable
	}
	if p.initErr != nil {
		return nil, p.initErr
	}
	return p.client, nil
}

func (p *stubProvider) SignupClient() (service.SignupClient, error) {
	if !p.available {
		return nil, domain.ErrDependencyUnavailable
	}
	return p.client, nil
}

func newTestServer(p *stubProvider) *xhttp.Server {
	uc := usecase.NewForecastUseCase(p, nil, "min_password_length_8", applogger.Nop())
	return xhttp.NewServer(NewForecastHandler(applogger.Nop(), uc), xhttp.WithLogger(applogger.Nop()))
}

func do(t *testing.T, srv *xhttp.Server, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		require.NoError(t, json.NewEncoder(&buf).Encode(b))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.Echo().ServeHTTP(rec, req)
	return rec
}

func ohlcBody(n int) *models.OHLCForecastRequest {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	bars := make([]models.OHLCBar, n)
	for i := range bars {
		bars[i] = models.OHLCBar{
			Datetime: start.Add(time.Duration(i) * time.Minute).Format("2006-01-02 15:04:05"),
			Open:     models.NewFloat(100),
			High:     models.NewFloat(101),
			Low:      models.NewFloat(99),
			Close:    models.NewFloat(100.5),
		}
	}
	return &models.OHLCForecastRequest{DataInput: bars, Interval: intPtr(1), IntervalUnit: "minutes", ReasoningMode: "reactive"}
}

func univariateBody(n int) *models.UnivariateForecastRequest {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	pts := make([]models.UnivariatePoint, n)
	for i := range pts {
		pts[i] = models.UnivariatePoint{
			Datetime: start.Add(time.Duration(i) * time.Hour).Format(time.RFC3339),
			Value:    models.NewFloat(float64(i)),
		}
	}
	return &models.UnivariateForecastRequest{DataInput: pts, Interval: intPtr(1), IntervalUnit: "hours", ReasoningMode: "reactive"}
}

func intPtr(v int) *int { return &v }

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) xhttp.ErrorBody {
	t.Helper()
	var body xhttp.ErrorBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestHealth(t *testing.T) {
	srv := newTestServer(&stubProvider{})
	rec := do(t, srv, http.MethodGet, "/api/health", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var body models.HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body.Status)
	assert.False(t, body.SumtymeAvailable)
	assert.False(t, body.ClientInitialized)
	assert.Equal(t, "2.0.0", body.APIVersion)
	_, err := time.Parse(time.RFC3339, body.Timestamp)
	assert.NoError(t, err)
}

func TestForecastOHLC(t *testing.T) {
	client := &stubClient{result: `{"2024-01-04 11:20:00": 1}`}
	srv := newTestServer(&stubProvider{available: true, client: client})

	rec := do(t, srv, http.MethodPost, "/api/forecast/ohlc", ohlcBody(domain.MinPeriods+1))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var body models.ForecastResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 1, body.CausalChain)
	assert.Equal(t, "2024-01-04 11:20:00", body.Timestamp)
	assert.Equal(t, domain.MinPeriods, body.DataPeriods)
	assert.Equal(t, domain.MinPeriods, client.periods)
}

func TestForecastUnivariateInsufficientData(t *testing.T) {
	client := &stubClient{result: `1`}
	srv := newTestServer(&stubProvider{available: true, client: client})

	rec := do(t, srv, http.MethodPost, "/api/forecast/univariate", univariateBody(4000))
	require.Equal(t, http.StatusBadRequest, rec.Code)

	body := decodeError(t, rec)
	assert.Contains(t, body.Detail, "4000")
	assert.Contains(t, body.Detail, "5001")
	require.Len(t, body.Errors, 1)
	assert.Equal(t, "ERR_INSUFFICIENT_DATA", body.Errors[0].Code)
	assert.Zero(t, client.calls)
}

func TestForecastMalformedRecord(t *testing.T) {
	client := &stubClient{result: `1`}
	srv := newTestServer(&stubProvider{available: true, client: client})
	req := ohlcBody(domain.MinPeriods)
	req.DataInput[42].Datetime = "42 o'clock"

	rec := do(t, srv, http.MethodPost, "/api/forecast/ohlc", req)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeError(t, rec)
	require.Len(t, body.Errors, 1)
	assert.Equal(t, "ERR_MALFORMED_RECORD", body.Errors[0].Code)
	assert.Equal(t, "data_input[42].datetime", body.Errors[0].Field)
	assert.Zero(t, client.calls)
}

func TestForecastValidation(t *testing.T) {
	srv := newTestServer(&stubProvider{available: true, client: &stubClient{}})

	rec := do(t, srv, http.MethodPost, "/api/forecast/ohlc", `{}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	fields := map[string]bool{}
	for _, e := range decodeError(t, rec).Errors {
		fields[e.Field] = true
	}
	assert.True(t, fields["data_input"])
	assert.True(t, fields["interval"])
	assert.True(t, fields["interval_unit"])
	assert.True(t, fields["reasoning_mode"])

	rec = do(t, srv, http.MethodPost, "/api/forecast/ohlc", `{"data_input": [`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "ERR_MALFORMED_BODY", decodeError(t, rec).Errors[0].Code)
}

func TestForecastForwardsZeroAndNegativeInterval(t *testing.T) {
	for _, interval := range []int{0, -3} {
		client := &stubClient{result: `1`}
		srv := newTestServer(&stubProvider{available: true, client: client})
		req := univariateBody(domain.MinPeriods)
		req.Interval = intPtr(interval)

		rec := do(t, srv, http.MethodPost, "/api/forecast/univariate", req)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.Equal(t, 1, client.calls)
		assert.Equal(t, interval, client.interval)
	}
}

func TestForecastBlankDatetimeInDroppedRecord(t *testing.T) {
	client := &stubClient{result: `1`}
	srv := newTestServer(&stubProvider{available: true, client: client})
	req := ohlcBody(domain.MinPeriods + 1)
	req.DataInput[0].Datetime = ""

	rec := do(t, srv, http.MethodPost, "/api/forecast/ohlc", req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, 1, client.calls)
	assert.Equal(t, domain.MinPeriods, client.periods)
}

func TestUnavailableReturns503WithoutDelegation(t *testing.T) {
	client := &stubClient{result: `1`}
	srv := newTestServer(&stubProvider{available: false, client: client})

	for _, tc := range []struct {
		path string
		body interface{}
	}{
		{"/api/forecast/ohlc", ohlcBody(domain.MinPeriods)},
		{"/api/forecast/univariate", univariateBody(domain.MinPeriods)},
		{"/api/analysis/propagation", `{"current_tf_data": [{"a": 1}], "next_tf_data": [{"a": 1}]}`},
		{"/api/predict/directional_change", ohlcBody(domain.MinPeriods)},
		{"/api/forecast/ohlc", `not json`},
	} {
		t.Run(tc.path, func(t *testing.T) {
			rec := do(t, srv, http.MethodPost, tc.path, tc.body)
			assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
			assert.Equal(t, "ERR_SERVICE_UNAVAILABLE", decodeError(t, rec).Errors[0].Code)
		})
	}
	assert.Zero(t, client.calls)
}

func TestClientNotInitializedReturns503(t *testing.T) {
	srv := newTestServer(&stubProvider{available: true, initErr: domain.ErrClientNotInitialized})
	rec := do(t, srv, http.MethodPost, "/api/forecast/univariate", univariateBody(domain.MinPeriods))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestExternalFailureSurfacesMessage(t *testing.T) {
	client := &stubClient{err: errors.New("quota exceeded")}
	srv := newTestServer(&stubProvider{available: true, client: client})

	rec := do(t, srv, http.MethodPost, "/api/forecast/univariate", univariateBody(domain.MinPeriods))
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	body := decodeError(t, rec)
	assert.Contains(t, body.Detail, "quota exceeded")
	assert.Equal(t, "ERR_EXTERNAL_CALL", body.Errors[0].Code)
}

func TestUnexpectedShapeReturns500(t *testing.T) {
	client := &stubClient{result: `"up"`}
	srv := newTestServer(&stubProvider{available: true, client: client})

	rec := do(t, srv, http.MethodPost, "/api/forecast/ohlc", ohlcBody(domain.MinPeriods))
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "ERR_UNEXPECTED_RESULT", decodeError(t, rec).Errors[0].Code)
}

func TestDirectionalChange(t *testing.T) {
	client := &stubClient{result: `{"causal_chain": -1, "datetime": "2024-01-04 11:20:00"}`}
	srv := newTestServer(&stubProvider{available: true, client: client})

	rec := do(t, srv, http.MethodPost, "/api/predict/directional_change", ohlcBody(domain.MinPeriods))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "true", rec.Header().Get("Deprecation"))
	assert.Equal(t, successorLink, rec.Header().Get("Link"))

	var body models.LegacyForecastResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.False(t, body.DirectionalChangeForecast)
	assert.Equal(t, 100, body.Confidence)
	assert.Equal(t, -1, body.CausalChain)
	assert.Equal(t, "2024-01-04 11:20:00", body.Timestamp)
	assert.NotEmpty(t, body.DeprecationWarning)
}

func TestCheckPropagation(t *testing.T) {
	client := &stubClient{result: `{"has_propagated": false, "propagation_datetime": null, "chain_value": null}`}
	srv := newTestServer(&stubProvider{available: true, client: client})

	rec := do(t, srv, http.MethodPost, "/api/analysis/propagation",
		`{"current_tf_data": [{"datetime": "2024-01-01", "causal_chain": 1}], "next_tf_data": [{"datetime": "2024-01-01", "causal_chain": 0}]}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.JSONEq(t, `false`, string(mustField(t, rec.Body.Bytes(), "has_propagated")))
	assert.JSONEq(t, `null`, string(mustField(t, rec.Body.Bytes(), "propagation_datetime")))
	assert.Equal(t, 1, client.calls)
}

func mustField(t *testing.T, b []byte, key string) json.RawMessage {
	t.Helper()
	var m map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(b, &m))
	v, ok := m[key]
	require.True(t, ok, "missing %s", key)
	return v
}

func TestSignup(t *testing.T) {
	client := &stubClient{result: `{"status": "pending"}`}
	srv := newTestServer(&stubProvider{available: true, client: client})

	rec := do(t, srv, http.MethodPost, "/api/signup", map[string]string{"name": "Ada", "email": "ada@example.com", "phone": "+44"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var body models.SignupResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.JSONEq(t, `{"status": "pending"}`, string(body.Result))

	rec = do(t, srv, http.MethodPost, "/api/signup", map[string]string{"name": "Ada", "email": "nope", "phone": "+44"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "email", decodeError(t, rec).Errors[0].Field)
}

func TestSignupUnavailable(t *testing.T) {
	srv := newTestServer(&stubProvider{})
	rec := do(t, srv, http.MethodPost, "/api/signup", map[string]string{"name": "Ada", "email": "ada@example.com", "phone": "+44"})
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
