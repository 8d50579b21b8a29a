package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	applogger "ForecastGate/pkg/logger"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

type denyAll struct{}

func (denyAll) Allow(context.Context, string) (bool, error) { return false, nil }

func TestRateLimitWithoutDenyHandler(t *testing.T) {
	e := echo.New()
	e.Use(RateLimit(denyAll{}, nil, applogger.Nop()))
	e.POST("/x", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/x", nil))

	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "60", rec.Header().Get("Retry-After"))
}
