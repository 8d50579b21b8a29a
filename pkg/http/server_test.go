package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	applogger "ForecastGate/pkg/logger"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedLimiter struct {
	allow bool
	err   error
	calls int
}

func (l *fixedLimiter) Allow(context.Context, string) (bool, error) {
	l.calls++
	return l.allow, l.err
}

type routes struct{}

func (routes) RegisterRoutes(e *echo.Echo) {
	ok := func(c echo.Context) error { return c.JSON(http.StatusOK, map[string]bool{"ok": true}) }
	e.POST("/api/forecast/ohlc", ok)
	e.GET("/api/health", ok)
}

func serve(srv *Server, method, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(`{}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	srv.Echo().ServeHTTP(rec, req)
	return rec
}

func TestRateLimitedRequestGetsErrorBody(t *testing.T) {
	limiter := &fixedLimiter{allow: false}
	srv := NewServer(routes{}, WithRateLimiter(limiter), WithLogger(applogger.Nop()))

	rec := serve(srv, http.MethodPost, "/api/forecast/ohlc")
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "60", rec.Header().Get("Retry-After"))

	var body ErrorBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, http.StatusTooManyRequests, body.Status)
	assert.NotEmpty(t, body.Detail)
	require.Len(t, body.Errors, 1)
	assert.Equal(t, "ERR_TOO_MANY_REQUESTS", body.Errors[0].Code)
}

func TestRateLimitSkipsReads(t *testing.T) {
	limiter := &fixedLimiter{allow: false}
	srv := NewServer(routes{}, WithRateLimiter(limiter), WithLogger(applogger.Nop()))

	rec := serve(srv, http.MethodGet, "/api/health")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Zero(t, limiter.calls)
}

func TestRateLimitFailsOpen(t *testing.T) {
	limiter := &fixedLimiter{err: errors.New("redis: connection refused")}
	srv := NewServer(routes{}, WithRateLimiter(limiter), WithLogger(applogger.Nop()))

	rec := serve(srv, http.MethodPost, "/api/forecast/ohlc")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("Retry-After"))
	assert.Equal(t, 1, limiter.calls)
}
