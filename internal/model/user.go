package model

import "slices"

// Role names.
const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

// User is an account able to authenticate against the API.
type User struct {
	ID           int64    `json:"id" db:"id"`
	Username     string   `json:"username" db:"username"`
	PasswordHash string   `json:"-" db:"password"`
	Email        string   `json:"email,omitempty" db:"email"`
	Roles        []string `json:"roles"`
}

// HasRole reports whether the user carries the given role.
func (u *User) HasRole(role string) bool {
	return slices.Contains(u.Roles, role)
}

// AuthRequest is the payload for register and login.
type AuthRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email,omitempty"`
}

// UserDTO is the public view of a user.
type UserDTO struct {
	ID       int64    `json:"id"`
	Username string   `json:"username"`
	Email    string   `json:"email,omitempty"`
	Roles    []string `json:"roles,omitempty"`
}

// AuthResponse is returned by a successful login.
type AuthResponse struct {
	Token string  `json:"token"`
	User  UserDTO `json:"user"`
}

// CheckAuthResponse reports whether a bearer token is valid.
type CheckAuthResponse struct {
	Authenticated bool     `json:"authenticated"`
	User          *UserDTO `json:"user"`
}
