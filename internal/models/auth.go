package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// InspectorAccount is an authenticated inspector identity. The account
// table doubles as the roster source for team qualification checks.
type InspectorAccount struct {
	ID           string     `db:"id" json:"id"`
	Email        string     `db:"email" json:"email"`
	FullName     string     `db:"full_name" json:"full_name"`
	PasswordHash string     `db:"password_hash" json:"-"`
	CanInspect   bool       `db:"can_inspect" json:"can_inspect"`
	Active       bool       `db:"active" json:"active"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
	LastLoginAt  *time.Time `db:"last_login_at" json:"last_login_at,omitempty"`
}

// Roster converts the account into its Inspector value.
func (a InspectorAccount) Roster() Inspector {
	return Inspector{ID: a.ID, Name: a.FullName, CanInspect: a.CanInspect}
}

// LoginRequest holds credentials for authenticating an inspector.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse returns the issued token and inspector info.
type LoginResponse struct {
	AccessToken string    `json:"access_token"`
	ExpiresIn   int64     `json:"expires_in"`
	Inspector   Inspector `json:"inspector"`
	IssuedAt    time.Time `json:"issued_at"`
}

// JWTClaims represents the JWT payload for access tokens.
type JWTClaims struct {
	InspectorID string `json:"inspector_id"`
	Email       string `json:"email"`
	FullName    string `json:"full_name"`
	CanInspect  bool   `json:"can_inspect"`
	jwt.RegisteredClaims
}
