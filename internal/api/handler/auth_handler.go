package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/store-api/internal/api/metrics"
	"github.com/99minutos/store-api/internal/api/middleware"
	"github.com/99minutos/store-api/internal/core/domain"
	"github.com/99minutos/store-api/internal/core/ports"
)

const msgLoginFailed = "incorrect username or password"

type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Token exchanges a username and password for a bearer access token.
//
// @Summary      Obtain an access token
// @Tags         auth
// @Accept       x-www-form-urlencoded
// @Accept       json
// @Produce      json
// @Param        username  formData  string  true  "Username"
// @Param        password  formData  string  true  "Password"
// @Success      200   {object}  tokenResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Failure      429   {object}  errorResponse
// @Router       /token [post]
func (h *AuthHandler) Token(c echo.Context) error {
	var req tokenRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	token, _, err := h.authService.Login(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrAuthFailed) {
			metrics.LoginAttemptsTotal.WithLabelValues("failure").Inc()
			return middleware.Unauthorized(c, msgLoginFailed)
		}
		metrics.LoginAttemptsTotal.WithLabelValues("error").Inc()
		return err
	}

	metrics.LoginAttemptsTotal.WithLabelValues("success").Inc()
	c.Response().Header().Set(echo.HeaderCacheControl, "no-store")
	return c.JSON(http.StatusOK, tokenResponse{
		AccessToken: token.Token,
		TokenType:   token.Type,
		ExpiresIn:   int64(token.ExpiresIn.Seconds()),
	})
}
