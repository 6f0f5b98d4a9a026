package domain

// User models a registered account. PasswordHash never leaves the process.
type User struct {
	ID           int64  `json:"id"`
	Firstname    string `json:"firstname"`
	Lastname     string `json:"lastname"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"`
	Role         Role   `json:"role"`
}

// NewUser builds a User with the default role.
func NewUser(firstname, lastname, email, passwordHash string) *User {
	return &User{
		Firstname:    firstname,
		Lastname:     lastname,
		Email:        email,
		PasswordHash: passwordHash,
		Role:         RoleUser,
	}
}
