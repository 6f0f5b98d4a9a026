package service

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/tegha-romeo/auth-api/internal/core/domain"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func newTokenSvc(t *testing.T, secret string, clock *fakeClock) *TokenService {
	t.Helper()
	svc, err := NewTokenService([]byte(secret), WithClock(clock.Now))
	if err != nil {
		t.Fatalf("NewTokenService: %v", err)
	}
	return svc
}

func tokenKind(t *testing.T, err error) domain.TokenErrorKind {
	t.Helper()
	var te *domain.TokenError
	if !errors.As(err, &te) {
		t.Fatalf("expected *domain.TokenError, got %T (%v)", err, err)
	}
	return te.Kind
}

func TestTokenService_IssueVerify(t *testing.T) {
	clock := &fakeClock{now: time.Unix(1_700_000_000, 0)}
	svc := newTokenSvc(t, "secret", clock)

	for _, role := range []domain.Role{domain.RoleUser, domain.RoleAdmin} {
		token, err := svc.Issue("ann@x.com", role)
		if err != nil {
			t.Fatalf("Issue: %v", err)
		}

		claims, err := svc.Verify(token)
		if err != nil {
			t.Fatalf("Verify: %v", err)
		}
		if claims.Subject != "ann@x.com" {
			t.Fatalf("subject: got %q", claims.Subject)
		}
		if claims.Role != role {
			t.Fatalf("role: got %v, want %v", claims.Role, role)
		}
		if want := clock.now.Add(TokenTTL); !claims.ExpiresAt.Equal(want) {
			t.Fatalf("expiry: got %v, want %v", claims.ExpiresAt, want)
		}
	}
}

func TestTokenService_WirePayload(t *testing.T) {
	clock := &fakeClock{now: time.Unix(1_700_000_000, 0)}
	svc := newTokenSvc(t, "secret", clock)

	token, err := svc.Issue("ann@x.com", domain.RoleUser)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		t.Fatalf("expected 3 segments, got %d", len(parts))
	}

	var header map[string]any
	raw, err := base64.RawURLEncoding.DecodeString(parts[0])
	if err != nil {
		t.Fatalf("decode header: %v", err)
	}
	if err := json.Unmarshal(raw, &header); err != nil {
		t.Fatalf("header json: %v", err)
	}
	if header["alg"] != "HS256" {
		t.Fatalf("expected HS256, got %v", header["alg"])
	}

	var payload map[string]any
	raw, err = base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		t.Fatalf("payload json: %v", err)
	}
	if len(payload) != 3 {
		t.Fatalf("expected exactly sub/role/exp, got %v", payload)
	}
	if payload["sub"] != "ann@x.com" || payload["role"] != "User" {
		t.Fatalf("unexpected payload: %v", payload)
	}
	if exp, _ := payload["exp"].(float64); int64(exp) != clock.now.Unix()+600 {
		t.Fatalf("expected exp=now+600, got %v", payload["exp"])
	}
}

func TestTokenService_Expiry(t *testing.T) {
	clock := &fakeClock{now: time.Unix(1_700_000_000, 0)}
	svc := newTokenSvc(t, "secret", clock)

	token, err := svc.Issue("ann@x.com", domain.RoleUser)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	clock.Advance(599 * time.Second)
	if _, err := svc.Verify(token); err != nil {
		t.Fatalf("token should still be valid at +599s: %v", err)
	}

	clock.Advance(2 * time.Second)
	_, err = svc.Verify(token)
	if kind := tokenKind(t, err); kind != domain.TokenExpired {
		t.Fatalf("expected expired at +601s, got %v", kind)
	}
	if !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expired token should match ErrInvalidToken")
	}
}

func TestTokenService_RotatedSecret(t *testing.T) {
	clock := &fakeClock{now: time.Unix(1_700_000_000, 0)}
	a := newTokenSvc(t, "secret-a", clock)
	b := newTokenSvc(t, "secret-b", clock)

	token, err := a.Issue("ann@x.com", domain.RoleUser)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	_, err = b.Verify(token)
	if kind := tokenKind(t, err); kind != domain.TokenSignatureInvalid {
		t.Fatalf("expected signature_invalid, got %v", kind)
	}

	// signature is checked before expiry
	clock.Advance(time.Hour)
	_, err = b.Verify(token)
	if kind := tokenKind(t, err); kind != domain.TokenSignatureInvalid {
		t.Fatalf("expected signature_invalid for expired foreign token, got %v", kind)
	}
}

func TestTokenService_Malformed(t *testing.T) {
	clock := &fakeClock{now: time.Unix(1_700_000_000, 0)}
	svc := newTokenSvc(t, "secret", clock)

	for _, raw := range []string{"", "not-a-token", "not.a.jwt", "a.b", "eyJhbGciOiJIUzI1NiJ9..sig"} {
		_, err := svc.Verify(raw)
		if kind := tokenKind(t, err); kind != domain.TokenMalformed {
			t.Fatalf("Verify(%q): expected malformed, got %v", raw, kind)
		}
	}
}

func TestTokenService_RejectsOtherAlgorithms(t *testing.T) {
	clock := &fakeClock{now: time.Unix(1_700_000_000, 0)}
	svc := newTokenSvc(t, "secret", clock)

	claims := jwt.MapClaims{"sub": "ann@x.com", "role": "Admin", "exp": clock.now.Add(time.Minute).Unix()}

	hs512, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	_, err = svc.Verify(hs512)
	if kind := tokenKind(t, err); kind != domain.TokenSignatureInvalid {
		t.Fatalf("expected signature_invalid for HS512, got %v", kind)
	}

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign none: %v", err)
	}
	if _, err := svc.Verify(none); err == nil {
		t.Fatalf("alg=none token must be rejected")
	}
}

func TestTokenService_MissingClaims(t *testing.T) {
	clock := &fakeClock{now: time.Unix(1_700_000_000, 0)}
	svc := newTokenSvc(t, "secret", clock)
	exp := clock.now.Add(time.Minute).Unix()

	cases := map[string]jwt.MapClaims{
		"no exp":       {"sub": "ann@x.com", "role": "User"},
		"no sub":       {"role": "User", "exp": exp},
		"unknown role": {"sub": "ann@x.com", "role": "Owner", "exp": exp},
		"no role":      {"sub": "ann@x.com", "exp": exp},
	}

	for name, claims := range cases {
		signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
		if err != nil {
			t.Fatalf("%s: sign: %v", name, err)
		}
		_, err = svc.Verify(signed)
		if kind := tokenKind(t, err); kind != domain.TokenMalformed {
			t.Fatalf("%s: expected malformed, got %v", name, kind)
		}
	}
}

func TestTokenService_Construction(t *testing.T) {
	if _, err := NewTokenService(nil); !errors.Is(err, ErrEmptySecret) {
		t.Fatalf("expected ErrEmptySecret, got %v", err)
	}

	svc, err := NewTokenService([]byte("secret"))
	if err != nil {
		t.Fatalf("NewTokenService: %v", err)
	}
	if _, err := svc.Issue("", domain.RoleUser); err == nil {
		t.Fatalf("expected error for empty subject")
	}
	if _, err := svc.Issue("ann@x.com", domain.Role(0)); !errors.Is(err, domain.ErrUnknownRole) {
		t.Fatalf("expected ErrUnknownRole, got %v", err)
	}
}
