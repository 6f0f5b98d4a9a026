package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/tegha-romeo/auth-api/internal/core/domain"
)

// TokenTTL is the fixed lifetime of an issued token.
const TokenTTL = 10 * time.Minute

var ErrEmptySecret = errors.New("token service: signing secret must not be empty")

// tokenClaims is the wire payload: {"sub", "role", "exp"}.
type tokenClaims struct {
	jwt.RegisteredClaims
	Role string `json:"role"`
}

// TokenService signs and verifies HS256 bearer tokens. It holds no mutable
// state after construction and is safe for concurrent use.
type TokenService struct {
	secret []byte
	now    func() time.Time
}

// TokenOption customises a TokenService.
type TokenOption func(*TokenService)

// WithClock overrides the time source used for issuance and expiry checks.
func WithClock(now func() time.Time) TokenOption {
	return func(s *TokenService) {
		if now != nil {
			s.now = now
		}
	}
}

func NewTokenService(secret []byte, opts ...TokenOption) (*TokenService, error) {
	if len(secret) == 0 {
		return nil, ErrEmptySecret
	}
	s := &TokenService{
		secret: append([]byte(nil), secret...),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Issue signs a token for subject that expires TokenTTL from now.
func (s *TokenService) Issue(subject string, role domain.Role) (string, error) {
	if subject == "" {
		return "", errors.New("token service: empty subject")
	}
	if !role.Valid() {
		return "", fmt.Errorf("token service: %w", domain.ErrUnknownRole)
	}

	claims := tokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(s.now().Add(TokenTTL)),
		},
		Role: role.String(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("token service: sign: %w", err)
	}
	return signed, nil
}

// Verify checks structure, signature and expiry, in that order.
func (s *TokenService) Verify(token string) (*domain.Claims, error) {
	claims := &tokenClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, classifyTokenError(err)
	}

	if claims.Subject == "" {
		return nil, &domain.TokenError{Kind: domain.TokenMalformed, Err: errors.New("missing subject")}
	}
	role, err := domain.ParseRole(claims.Role)
	if err != nil {
		return nil, &domain.TokenError{Kind: domain.TokenMalformed, Err: err}
	}

	return &domain.Claims{
		Subject:   claims.Subject,
		Role:      role,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

func classifyTokenError(err error) *domain.TokenError {
	switch {
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return &domain.TokenError{Kind: domain.TokenSignatureInvalid, Err: err}
	case errors.Is(err, jwt.ErrTokenExpired):
		return &domain.TokenError{Kind: domain.TokenExpired, Err: err}
	default:
		return &domain.TokenError{Kind: domain.TokenMalformed, Err: err}
	}
}
