package ports

import "context"

// RegisterInput carries an already-validated registration request.
type RegisterInput struct {
	Firstname string
	Lastname  string
	Email     string
	Password  string
}

// AdminSeed describes the administrator account created at startup.
type AdminSeed struct {
	Firstname string
	Lastname  string
	Email     string
	Password  string
}

// AuthService exposes the registration and login use cases.
type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (string, error)
	Login(ctx context.Context, email, password string) (string, error)
	EnsureAdmin(ctx context.Context, seed AdminSeed) error
}
