package model

import (
	"fmt"
	"strings"
	"time"
)

// UserID identifies a row in the `users` table.  The zero value means
// "no user" and is what anonymous callers carry.
type UserID uint64

// Role is the coarse permission level attached to a user.  Every stored
// user has exactly one role; there is no "unset" state.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleUser   Role = "user"
	RoleMember Role = "member"
)

// DefaultRole is assigned at account creation.
const DefaultRole = RoleUser

// ParseRole converts raw input into a Role, rejecting unknown values.
func ParseRole(s string) (Role, error) {
	switch r := Role(strings.ToLower(strings.TrimSpace(s))); r {
	case RoleAdmin, RoleUser, RoleMember:
		return r, nil
	}
	return "", fmt.Errorf("unknown role %q", s)
}

// IsAdmin reports whether the role grants admin privileges.
func (r Role) IsAdmin() bool { return r == RoleAdmin }

// User represents an application user record as stored in the
// `users` table.
//
// Fields:
//
//	ID               – primary key identifier of the user.
//	Name             – display name (optional).
//	Email            – unique, lower-cased email address (optional in the
//	                   schema, required by registration).
//	Username         – unique handle (optional).
//	Phone            – contact number used for bookings (optional).
//	Image            – avatar URL (optional).
//	PasswordHash     – bcrypt hashed password.
//	PasswordHint     – self-chosen recovery clue (optional).
//	Role             – admin, user or member.
//	ResetTokenHash   – SHA-256 hex digest of the active reset token.
//	ResetTokenExpiry – reset token expiry as epoch milliseconds, 0 when none.
type User struct {
	ID               UserID    `json:"id"`
	Name             string    `json:"name,omitempty"`
	Email            string    `json:"email,omitempty"`
	Username         string    `json:"username,omitempty"`
	Phone            string    `json:"phone,omitempty"`
	Image            string    `json:"image,omitempty"`
	PasswordHash     string    `json:"-"`
	PasswordHint     string    `json:"-"`
	Role             Role      `json:"role"`
	ResetTokenHash   string    `json:"-"`
	ResetTokenExpiry int64     `json:"-"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// RefreshToken models an entry in the `refresh_tokens` table.  The plain
// token is never stored; only its SHA-256 hash.
type RefreshToken struct {
	ID        uint64     // refresh_tokens.id
	UserID    UserID     // refresh_tokens.user_id
	TokenHash string     // refresh_tokens.token_hash
	ExpiresAt time.Time  // refresh_tokens.expires_at
	RevokedAt *time.Time // refresh_tokens.revoked_at (nullable)
	CreatedAt time.Time  // refresh_tokens.created_at
}
