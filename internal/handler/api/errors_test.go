package api

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"ForecastGate/internal/domain"
	xhttp "ForecastGate/pkg/http"

	"github.com/stretchr/testify/assert"
)

func TestTranslateError(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"unavailable", domain.ErrDependencyUnavailable, http.StatusServiceUnavailable, "ERR_SERVICE_UNAVAILABLE"},
		{"not initialized", fmt.Errorf("resolve: %w", domain.ErrClientNotInitialized), http.StatusServiceUnavailable, "ERR_SERVICE_UNAVAILABLE"},
		{"insufficient", &domain.InsufficientDataError{Have: 10, Need: domain.MinPeriods}, http.StatusBadRequest, "ERR_INSUFFICIENT_DATA"},
		{"malformed", &domain.MalformedRecordError{Index: 3, Field: "datetime", Err: errors.New("bad")}, http.StatusBadRequest, "ERR_MALFORMED_RECORD"},
		{"shape", domain.UnexpectedResultError("scalar %q", "x"), http.StatusInternalServerError, "ERR_UNEXPECTED_RESULT"},
		{"external", domain.ExternalCallError("ohlc_forecast", errors.New("timeout")), http.StatusInternalServerError, "ERR_EXTERNAL_CALL"},
		{"app error", xhttp.TooManyRequestsError("slow down"), http.StatusTooManyRequests, "ERR_TOO_MANY_REQUESTS"},
		{"other", errors.New("boom"), http.StatusInternalServerError, "ERR_INTERNAL"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := translateError(tc.err)
			assert.Equal(t, tc.status, got.Status)
			assert.Equal(t, tc.code, got.Code)
		})
	}
}

func TestTranslateErrorHidesUnknownCauses(t *testing.T) {
	got := translateError(errors.New("dsn=secret"))
	assert.Equal(t, "Something went wrong", got.Message)
}
