package model

import (
	"fmt"
	"time"
)

// User is a registered account: a donor, an NGO, or an administrator.
type User struct {
	ID           int64      `json:"id"`
	Name         string     `json:"name"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	Role         Role       `json:"user_type"`
	CreatedAt    time.Time  `json:"created_at"`
	DeletedAt    *time.Time `json:"deleted_at,omitempty"`
}

// Role is a closed set of account types. Authorization decisions switch
// exhaustively on it so an unknown value can never grant access.
type Role string

const (
	RoleAdmin      Role = "admin"
	RoleNGO        Role = "ngo"
	RoleIndividual Role = "individual"
)

// ParseRole converts a stored or transmitted role string into a Role.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleAdmin, RoleNGO, RoleIndividual:
		return Role(s), nil
	}
	return "", fmt.Errorf("%w: unknown role %q", ErrValidation, s)
}

// Principal identifies the caller of a core operation. It is resolved once
// at the transport layer and passed explicitly; nothing below the API layer
// reads ambient authentication state.
type Principal struct {
	ID   int64
	Name string
	Role Role
}

// IsAdmin reports whether the principal holds the admin role.
func (p Principal) IsAdmin() bool {
	return p.Role == RoleAdmin
}
