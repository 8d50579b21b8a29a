package middleware

import (
	"context"
	"net/http"
	"time"

	applogger "ForecastGate/pkg/logger"

	"github.com/labstack/echo/v4"
)

// retryAfter matches the one-minute limiter window.
const retryAfter = "60"

// Limiter decides whether a caller identified by key may proceed.
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// RateLimit hands POST requests the limiter refuses to deny, with Retry-After already set.
// Limiter failures let the request through.
func RateLimit(limiter Limiter, deny echo.HandlerFunc, l *applogger.Logger) echo.MiddlewareFunc {
	if deny == nil {
		deny = func(echo.Context) error {
			return echo.NewHTTPError(http.StatusTooManyRequests)
		}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if limiter == nil || c.Request().Method != http.MethodPost {
				return next(c)
			}

			ctx, cancel := context.WithTimeout(c.Request().Context(), 500*time.Millisecond)
			ok, err := limiter.Allow(ctx, c.RealIP())
			cancel()
			if err != nil {
				l.Warn("rate limiter unavailable, allowing request",
					applogger.Error(err),
					applogger.String("ip", c.RealIP()),
				)
				return next(c)
			}
			if !ok {
				c.Response().Header().Set("Retry-After", retryAfter)
				return deny(c)
			}
			return next(c)
		}
	}
}
