package domain

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestParseRole(t *testing.T) {
	cases := map[string]Role{"Admin": RoleAdmin, "User": RoleUser}
	for in, want := range cases {
		got, err := ParseRole(in)
		if err != nil {
			t.Fatalf("ParseRole(%q) error: %v", in, err)
		}
		if got != want {
			t.Fatalf("ParseRole(%q) = %v, want %v", in, got, want)
		}
		if got.String() != in {
			t.Fatalf("round trip: got %q, want %q", got.String(), in)
		}
	}

	for _, bad := range []string{"", "admin", "Owner", " User"} {
		if _, err := ParseRole(bad); !errors.Is(err, ErrUnknownRole) {
			t.Fatalf("ParseRole(%q): expected ErrUnknownRole, got %v", bad, err)
		}
	}
}

func TestUserJSON_OmitsPasswordHash(t *testing.T) {
	u := &User{ID: 7, Firstname: "Ann", Lastname: "Lee", Email: "ann@x.com", PasswordHash: "$2a$10$secret", Role: RoleAdmin}

	raw, err := json.Marshal(u)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var out map[string]any
	if err := json.Unmarshal(raw, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if _, ok := out["PasswordHash"]; ok {
		t.Fatalf("password hash leaked: %s", raw)
	}
	if _, ok := out["password"]; ok {
		t.Fatalf("password leaked: %s", raw)
	}
	if out["role"] != "Admin" {
		t.Fatalf("expected role Admin, got %v", out["role"])
	}
}

func TestRoleMarshal_RejectsZero(t *testing.T) {
	var r Role
	if _, err := r.MarshalText(); !errors.Is(err, ErrUnknownRole) {
		t.Fatalf("expected ErrUnknownRole, got %v", err)
	}
}

func TestTokenError_IsInvalidToken(t *testing.T) {
	err := error(&TokenError{Kind: TokenExpired})
	if !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("TokenError should match ErrInvalidToken")
	}

	var te *TokenError
	if !errors.As(err, &te) || te.Kind != TokenExpired {
		t.Fatalf("expected expired TokenError, got %v", err)
	}
}
