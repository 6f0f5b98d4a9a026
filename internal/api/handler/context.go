package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/tegha-romeo/auth-api/internal/api/middleware"
	"github.com/tegha-romeo/auth-api/internal/core/domain"
)

// ctxUser returns the user resolved by the Authenticate middleware. A
// missing user means the route was mounted without it, so the request is
// treated as unauthenticated.
func ctxUser(c echo.Context) (*domain.User, error) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return nil, domain.ErrInvalidToken
	}
	return user, nil
}
