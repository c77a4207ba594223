package models

import "github.com/golang-jwt/jwt/v5"

// UserRole represents the available roles for the RBAC system.
type UserRole string

const (
	RoleAdmin    UserRole = "admin"
	RoleHR       UserRole = "hr"
	RoleEmployee UserRole = "employee"
)

// Valid returns true when the role is a supported value.
func (r UserRole) Valid() bool {
	switch r {
	case RoleAdmin, RoleHR, RoleEmployee:
		return true
	default:
		return false
	}
}

// Manager reports whether the role may act on other people's records.
func (r UserRole) Manager() bool {
	return r == RoleAdmin || r == RoleHR
}

// JWTClaims represents the access-token payload issued by the external
// identity provider. This service only verifies tokens, it never issues them.
type JWTClaims struct {
	UserID   string   `json:"user_id"`
	Role     UserRole `json:"role"`
	FullName string   `json:"full_name"`
	jwt.RegisteredClaims
}
