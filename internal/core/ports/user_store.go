package ports

import (
	"context"

	"github.com/tegha-romeo/auth-api/internal/core/domain"
)

// UserStore is the persistence boundary for user accounts.
//
// Create returns domain.ErrDuplicateEmail when the email is taken.
// FindByEmail returns domain.ErrUserNotFound on a miss. Any other error is a
// store failure.
type UserStore interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	Ping(ctx context.Context) error
}
