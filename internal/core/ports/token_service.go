package ports

import "github.com/tegha-romeo/auth-api/internal/core/domain"

// TokenService issues and verifies bearer tokens.
type TokenService interface {
	Issue(subject string, role domain.Role) (string, error)
	// Verify returns a *domain.TokenError on any rejection.
	Verify(token string) (*domain.Claims, error)
}

// PasswordHasher hashes and checks credentials.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	// Verify never errors: a malformed digest is a mismatch.
	Verify(plaintext, digest string) bool
}
