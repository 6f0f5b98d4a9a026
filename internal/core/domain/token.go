package domain

import (
	"fmt"
	"time"
)

// Claims is the identity payload carried by a bearer token.
type Claims struct {
	Subject   string
	Role      Role
	ExpiresAt time.Time
}

// TokenErrorKind classifies why a token was rejected.
type TokenErrorKind uint8

const (
	TokenMalformed TokenErrorKind = iota + 1
	TokenSignatureInvalid
	TokenExpired
)

func (k TokenErrorKind) String() string {
	switch k {
	case TokenMalformed:
		return "malformed"
	case TokenSignatureInvalid:
		return "signature_invalid"
	case TokenExpired:
		return "expired"
	default:
		return "unknown"
	}
}

// TokenError is returned by token verification. The kind is for logs and
// metrics only; callers must treat every kind as unauthenticated.
type TokenError struct {
	Kind TokenErrorKind
	Err  error
}

func (e *TokenError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("token %s", e.Kind)
	}
	return fmt.Sprintf("token %s: %v", e.Kind, e.Err)
}

func (e *TokenError) Unwrap() error { return e.Err }

// Is makes every TokenError match ErrInvalidToken.
func (e *TokenError) Is(target error) bool { return target == ErrInvalidToken }
