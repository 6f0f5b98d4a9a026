package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/tegha-romeo/auth-api/internal/core/domain"
	"github.com/tegha-romeo/auth-api/internal/core/service"
)

type countingStore struct {
	users map[string]*domain.User
	err   error
	calls atomic.Int32
}

func (s *countingStore) Create(context.Context, *domain.User) (*domain.User, error) {
	return nil, errors.New("not implemented")
}

func (s *countingStore) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	s.calls.Add(1)
	if _, ok := ctx.Deadline(); !ok {
		return nil, errors.New("lookup without deadline")
	}
	if s.err != nil {
		return nil, s.err
	}
	u, ok := s.users[email]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return u, nil
}

func (s *countingStore) Ping(context.Context) error { return nil }

func newTokens(t *testing.T, secret string) *service.TokenService {
	t.Helper()
	ts, err := service.NewTokenService([]byte(secret))
	if err != nil {
		t.Fatalf("token service: %v", err)
	}
	return ts
}

func run(t *testing.T, store *countingStore, header string, next echo.HandlerFunc) (*httptest.ResponseRecorder, error) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set(echo.HeaderAuthorization, header)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	mw := Authenticate(newTokens(t, "secret"), store, time.Second, zerolog.Nop())
	return rec, mw(next)(c)
}

func mustNotRun(t *testing.T) echo.HandlerFunc {
	return func(echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	}
}

func TestAuthenticate_ValidToken(t *testing.T) {
	carol := &domain.User{ID: 9, Email: "carol@example.com", Role: domain.RoleAdmin}
	store := &countingStore{users: map[string]*domain.User{carol.Email: carol}}

	token, err := newTokens(t, "secret").Issue(carol.Email, domain.RoleAdmin)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	called := false
	rec, err := run(t, store, "Bearer "+token, func(c echo.Context) error {
		called = true
		u, ok := CurrentUser(c)
		if !ok || u.ID != 9 {
			t.Fatalf("user not set on echo context: %+v", u)
		}
		u, ok = UserFromContext(c.Request().Context())
		if !ok || u.Email != "carol@example.com" {
			t.Fatalf("user not set on request context: %+v", u)
		}
		return c.NoContent(http.StatusTeapot)
	})

	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next not called")
	}
	if rec.Code != http.StatusTeapot {
		t.Fatalf("next result not propagated, got %d", rec.Code)
	}
	if n := store.calls.Load(); n != 1 {
		t.Fatalf("expected exactly one store lookup, got %d", n)
	}
}

func TestAuthenticate_LowercaseScheme(t *testing.T) {
	store := &countingStore{users: map[string]*domain.User{"a@x.com": {Email: "a@x.com", Role: domain.RoleUser}}}
	token, _ := newTokens(t, "secret").Issue("a@x.com", domain.RoleUser)

	_, err := run(t, store, "bearer "+token, func(c echo.Context) error { return nil })
	if err != nil {
		t.Fatalf("expected lowercase scheme to be accepted, got %v", err)
	}
}

func TestAuthenticate_BadHeaders_NoStoreAccess(t *testing.T) {
	cases := []struct {
		name   string
		header string
		msg    string
	}{
		{"missing", "", "missing authorization header"},
		{"scheme only", "Bearer", "invalid authorization header"},
		{"scheme and space", "Bearer ", "invalid authorization header"},
		{"wrong scheme", "Token abc", "invalid authorization header"},
		{"basic", "Basic dXNlcjpwYXNz", "invalid authorization header"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			store := &countingStore{}
			rec, err := run(t, store, tc.header, mustNotRun(t))

			var he *echo.HTTPError
			if !errors.As(err, &he) {
				t.Fatalf("expected *echo.HTTPError, got %v", err)
			}
			if he.Code != http.StatusUnauthorized || he.Message != tc.msg {
				t.Fatalf("unexpected error: %d %v", he.Code, he.Message)
			}
			if rec.Header().Get(echo.HeaderWWWAuthenticate) == "" {
				t.Fatalf("expected WWW-Authenticate header")
			}
			if n := store.calls.Load(); n != 0 {
				t.Fatalf("store must not be called, got %d calls", n)
			}
		})
	}
}

func TestAuthenticate_InvalidTokens(t *testing.T) {
	foreign, _ := newTokens(t, "other-secret").Issue("a@x.com", domain.RoleAdmin)

	past := time.Now().Add(-time.Hour)
	oldTokens, _ := service.NewTokenService([]byte("secret"), service.WithClock(func() time.Time { return past }))
	expired, _ := oldTokens.Issue("a@x.com", domain.RoleUser)

	cases := map[string]string{
		"garbage":       "not-a-token",
		"foreign key":   foreign,
		"expired token": expired,
	}

	for name, token := range cases {
		t.Run(name, func(t *testing.T) {
			store := &countingStore{users: map[string]*domain.User{"a@x.com": {Email: "a@x.com"}}}
			_, err := run(t, store, "Bearer "+token, mustNotRun(t))

			if err != domain.ErrInvalidToken {
				t.Fatalf("expected ErrInvalidToken, got %v", err)
			}
			if n := store.calls.Load(); n != 0 {
				t.Fatalf("store must not be called for a rejected token, got %d", n)
			}
		})
	}
}

func TestAuthenticate_DeletedUser(t *testing.T) {
	store := &countingStore{users: map[string]*domain.User{}}
	token, _ := newTokens(t, "secret").Issue("gone@x.com", domain.RoleUser)

	_, err := run(t, store, "Bearer "+token, mustNotRun(t))
	if err != domain.ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
	if n := store.calls.Load(); n != 1 {
		t.Fatalf("expected one lookup, got %d", n)
	}
}

func TestAuthenticate_StoreOutage(t *testing.T) {
	store := &countingStore{err: context.DeadlineExceeded}
	token, _ := newTokens(t, "secret").Issue("a@x.com", domain.RoleUser)

	_, err := run(t, store, "Bearer "+token, mustNotRun(t))
	if !errors.Is(err, domain.ErrStoreUnavailable) {
		t.Fatalf("expected ErrStoreUnavailable, got %v", err)
	}
	if errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("outage must not be reported as an invalid token")
	}
}
