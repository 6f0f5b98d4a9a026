package middleware

import (
	"context"

	"github.com/labstack/echo/v4"

	"github.com/tegha-romeo/auth-api/internal/core/domain"
)

// UserKey is the echo context key holding the authenticated *domain.User.
const UserKey = "user"

type userCtxKey struct{}

// WithUser returns a copy of ctx carrying the authenticated user.
func WithUser(ctx context.Context, u *domain.User) context.Context {
	return context.WithValue(ctx, userCtxKey{}, u)
}

// UserFromContext returns the user attached by Authenticate, if any.
func UserFromContext(ctx context.Context) (*domain.User, bool) {
	u, ok := ctx.Value(userCtxKey{}).(*domain.User)
	return u, ok && u != nil
}

// CurrentUser reads the authenticated user from the echo context.
func CurrentUser(c echo.Context) (*domain.User, bool) {
	u, ok := c.Get(UserKey).(*domain.User)
	return u, ok && u != nil
}
