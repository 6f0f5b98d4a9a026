package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/tegha-romeo/auth-api/internal/core/domain"
)

// RequireRole only lets through users holding the given role. It must run
// after Authenticate.
func RequireRole(role domain.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user, ok := CurrentUser(c)
			if !ok {
				return domain.ErrInvalidToken
			}

			switch user.Role {
			case domain.RoleAdmin, domain.RoleUser:
				if user.Role != role {
					return domain.ErrForbidden
				}
			default:
				return domain.ErrForbidden
			}
			return next(c)
		}
	}
}
