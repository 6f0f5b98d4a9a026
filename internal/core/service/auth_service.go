package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/tegha-romeo/auth-api/internal/core/domain"
	"github.com/tegha-romeo/auth-api/internal/core/ports"
)

const defaultStoreTimeout = 3 * time.Second

// AuthService implements registration, login and admin seeding.
type AuthService struct {
	users        ports.UserStore
	hasher       ports.PasswordHasher
	tokens       ports.TokenService
	storeTimeout time.Duration
	log          zerolog.Logger

	// dummyHash is compared against on unknown emails so that both login
	// failure branches pay for one bcrypt comparison.
	dummyHash string
}

func NewAuthService(
	users ports.UserStore,
	hasher ports.PasswordHasher,
	tokens ports.TokenService,
	storeTimeout time.Duration,
	log zerolog.Logger,
) *AuthService {
	if storeTimeout <= 0 {
		storeTimeout = defaultStoreTimeout
	}

	dummy, err := hasher.Hash(uuid.NewString())
	if err != nil {
		log.Warn().Err(err).Msg("could not prepare dummy password hash")
	}

	return &AuthService{
		users:        users,
		hasher:       hasher,
		tokens:       tokens,
		storeTimeout: storeTimeout,
		log:          log,
		dummyHash:    dummy,
	}
}

// Register stores a new User-role account and returns a token for it.
// Input is expected to be validated by the transport layer.
func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (string, error) {
	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return "", fmt.Errorf("register: hash password: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()

	created, err := s.users.Create(ctx, domain.NewUser(in.Firstname, in.Lastname, in.Email, hash))
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateEmail) {
			return "", domain.ErrDuplicateEmail
		}
		return "", fmt.Errorf("register: %w: %w", domain.ErrStoreUnavailable, err)
	}

	token, err := s.tokens.Issue(created.Email, domain.RoleUser)
	if err != nil {
		return "", fmt.Errorf("register: %w", err)
	}

	s.log.Info().Int64("user_id", created.ID).Msg("user registered")
	return token, nil
}

// Login exchanges credentials for a token. Unknown email and wrong password
// both return domain.ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	lookupCtx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()

	user, err := s.users.FindByEmail(lookupCtx, email)
	switch {
	case errors.Is(err, domain.ErrUserNotFound):
		s.hasher.Verify(password, s.dummyHash)
		return "", domain.ErrInvalidCredentials
	case err != nil:
		return "", fmt.Errorf("login: %w: %w", domain.ErrStoreUnavailable, err)
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		return "", domain.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.Email, user.Role)
	if err != nil {
		return "", fmt.Errorf("login: %w", err)
	}
	return token, nil
}

// EnsureAdmin creates the seeded administrator when it does not exist yet.
// An empty seed email disables seeding.
func (s *AuthService) EnsureAdmin(ctx context.Context, seed ports.AdminSeed) error {
	if seed.Email == "" {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()

	_, err := s.users.FindByEmail(ctx, seed.Email)
	if err == nil {
		return nil
	}
	if !errors.Is(err, domain.ErrUserNotFound) {
		return fmt.Errorf("ensure admin: %w", err)
	}
	if seed.Password == "" {
		return errors.New("ensure admin: password must be set")
	}

	hash, err := s.hasher.Hash(seed.Password)
	if err != nil {
		return fmt.Errorf("ensure admin: hash password: %w", err)
	}

	admin := domain.NewUser(seed.Firstname, seed.Lastname, seed.Email, hash)
	admin.Role = domain.RoleAdmin

	if _, err := s.users.Create(ctx, admin); err != nil {
		// another instance seeded it first
		if errors.Is(err, domain.ErrDuplicateEmail) {
			return nil
		}
		return fmt.Errorf("ensure admin: %w", err)
	}

	s.log.Info().Str("email", seed.Email).Msg("default admin user created")
	return nil
}
