package domain

import "fmt"

// Role is the closed set of account roles.
type Role uint8

const (
	// RoleUser is the zero-privilege role assigned at registration.
	RoleUser Role = iota + 1
	// RoleAdmin is only ever assigned by seeding.
	RoleAdmin
)

// String returns the stored/wire form of the role.
func (r Role) String() string {
	switch r {
	case RoleAdmin:
		return "Admin"
	case RoleUser:
		return "User"
	default:
		return fmt.Sprintf("Role(%d)", uint8(r))
	}
}

// Valid reports whether r is one of the declared roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleUser:
		return true
	default:
		return false
	}
}

// ParseRole converts the stored/wire form back into a Role.
func ParseRole(s string) (Role, error) {
	switch s {
	case "Admin":
		return RoleAdmin, nil
	case "User":
		return RoleUser, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownRole, s)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (r Role) MarshalText() ([]byte, error) {
	if !r.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownRole, uint8(r))
	}
	return []byte(r.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (r *Role) UnmarshalText(text []byte) error {
	parsed, err := ParseRole(string(text))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}
