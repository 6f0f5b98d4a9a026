package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/tegha-romeo/auth-api/internal/core/domain"
)

// uniqueViolation is the SQLSTATE for a unique constraint failure.
const uniqueViolation = "23505"

// UserRepository implements ports.UserStore on the users table.
type UserRepository struct {
	db DBTX
}

func NewUserRepository(db DBTX) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query :=
		`INSERT INTO users (firstname, lastname, email, password, role)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id`

	created := *user
	err := r.db.QueryRowContext(ctx, query,
		user.Firstname, user.Lastname, user.Email, user.PasswordHash, user.Role.String()).Scan(&created.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, domain.ErrDuplicateEmail
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return &created, nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query :=
		`SELECT id, firstname, lastname, email, password, role FROM users
		 WHERE email = $1`

	var (
		u    domain.User
		role string
	)
	err := r.db.QueryRowContext(ctx, query, email).
		Scan(&u.ID, &u.Firstname, &u.Lastname, &u.Email, &u.PasswordHash, &role)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	if u.Role, err = domain.ParseRole(role); err != nil {
		return nil, fmt.Errorf("db error: user %d: %w", u.ID, err)
	}
	return &u, nil
}

// Ping reports whether the pool can reach the server.
func (r *UserRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}
