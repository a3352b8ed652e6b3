package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/99minutos/store-api/internal/api/middleware"
	"github.com/99minutos/store-api/internal/core/domain"
)

// currentUser returns the user resolved by the Auth middleware. A missing
// user means the route was mounted without Auth; answer 401 rather than 500.
func currentUser(c echo.Context) (*domain.User, error) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return nil, middleware.Unauthorized(c, middleware.MsgInvalidCredentials)
	}
	return user, nil
}
