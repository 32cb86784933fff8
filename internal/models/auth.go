package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// LoginRequest holds credentials for authenticating an account.
type LoginRequest struct {
	Account   string   `json:"account" validate:"required"`
	Password  string   `json:"password" validate:"required"`
	Role      RoleCode `json:"role"`
	IP        string   `json:"-"`
	UserAgent string   `json:"-"`
}

// RegisterRequest creates a bare credential row; profile fields are filled
// in later through the matching entity edit endpoints.
type RegisterRequest struct {
	Account  string   `json:"account" validate:"required"`
	Password string   `json:"password" validate:"required,min=6"`
	Role     RoleCode `json:"role"`
}

// LoginResponse returns the issued tokens and account info.
type LoginResponse struct {
	AccessToken  string      `json:"access_token"`
	RefreshToken string      `json:"refresh_token"`
	ExpiresIn    int64       `json:"expires_in"`
	Account      AccountInfo `json:"account"`
	IssuedAt     time.Time   `json:"issued_at"`
}

// RefreshTokenRequest exchanges a refresh token for a new access token.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
	IP           string `json:"-"`
	UserAgent    string `json:"-"`
}

// RefreshTokenResponse returns the refreshed tokens.
type RefreshTokenResponse struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresIn    int64     `json:"expires_in"`
	IssuedAt     time.Time `json:"issued_at"`
}

// ChangePasswordRequest payload for updating a password.
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=6"`
}

// AccountInfo describes the authenticated account in responses.
type AccountInfo struct {
	ID      string   `json:"id"`
	Account string   `json:"account"`
	Role    UserRole `json:"role"`
}

// JWTClaims represents the JWT payload for access tokens.
type JWTClaims struct {
	AccountID string   `json:"account_id"`
	Account   string   `json:"account"`
	Role      UserRole `json:"role"`
	jwt.RegisteredClaims
}
