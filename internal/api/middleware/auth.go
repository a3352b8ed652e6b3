package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/99minutos/store-api/internal/api/metrics"
	"github.com/99minutos/store-api/internal/core/domain"
	"github.com/99minutos/store-api/internal/core/ports"
)

const userKey = "user"

// MsgInvalidCredentials is the only detail a client gets when its bearer
// token is missing, malformed, expired or names an unusable account.
const MsgInvalidCredentials = "could not validate credentials"

// Auth resolves the bearer token to a user through the AuthService and stores
// it in the echo context.
func Auth(auth ports.AuthService, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, ok := bearerToken(c.Request())
			if !ok {
				metrics.TokenValidationsTotal.WithLabelValues("missing").Inc()
				return Unauthorized(c, MsgInvalidCredentials)
			}

			user, err := auth.CurrentUser(c.Request().Context(), token)
			switch {
			case err == nil:
			case errors.Is(err, domain.ErrInvalidToken):
				metrics.TokenValidationsTotal.WithLabelValues("invalid").Inc()
				log.Debug().Err(err).Str("path", c.Path()).Msg("bearer token rejected")
				return Unauthorized(c, MsgInvalidCredentials)
			case errors.Is(err, domain.ErrAuthFailed):
				metrics.TokenValidationsTotal.WithLabelValues("rejected").Inc()
				log.Debug().Err(err).Str("path", c.Path()).Msg("token subject rejected")
				return Unauthorized(c, MsgInvalidCredentials)
			default:
				return err
			}

			metrics.TokenValidationsTotal.WithLabelValues("valid").Inc()
			c.Set(userKey, user)
			return next(c)
		}
	}
}

// CurrentUser returns the user stored by Auth.
func CurrentUser(c echo.Context) (*domain.User, bool) {
	user, ok := c.Get(userKey).(*domain.User)
	return user, ok && user != nil
}

// Unauthorized sets the Bearer challenge header and returns a 401 for the
// central error handler to render.
func Unauthorized(c echo.Context, msg string) error {
	c.Response().Header().Set(echo.HeaderWWWAuthenticate, "Bearer")
	return echo.NewHTTPError(http.StatusUnauthorized, msg)
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get(echo.HeaderAuthorization)
	if header == "" {
		return "", false
	}
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
