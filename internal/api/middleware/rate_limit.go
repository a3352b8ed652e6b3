package middleware

import (
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/99minutos/store-api/internal/api/metrics"
	"github.com/99minutos/store-api/internal/core/ports"
)

// LoginRateLimit throttles requests per client IP. Limiter errors fail open.
func LoginRateLimit(limiter ports.LoginLimiter, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ip := c.RealIP()

			allowed, retryAfter, err := limiter.Allow(c.Request().Context(), ip)
			if err != nil {
				log.Warn().Err(err).Str("ip", ip).Msg("login rate limiter unavailable")
			}
			if !allowed {
				metrics.LoginRateLimitedTotal.Inc()
				c.Response().Header().Set("Retry-After", retryAfterSeconds(retryAfter))
				return echo.NewHTTPError(http.StatusTooManyRequests, "too many login attempts")
			}
			return next(c)
		}
	}
}

func retryAfterSeconds(d time.Duration) string {
	secs := int(math.Ceil(d.Seconds()))
	if secs < 1 {
		secs = 1
	}
	return strconv.Itoa(secs)
}
