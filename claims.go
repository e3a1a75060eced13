package blog

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/goliatone/go-errors"
)

// TokenPurpose marks what a token may be exchanged for. A refresh token
// never validates where an access token is expected, and vice versa.
type TokenPurpose string

const (
	// TokenPurposeAccess marks short lived tokens used on protected routes
	TokenPurposeAccess TokenPurpose = "access"
	// TokenPurposeRefresh marks long lived tokens used only to mint new access tokens
	TokenPurposeRefresh TokenPurpose = "refresh"
)

// IsValid checks the purpose against the closed set
func (p TokenPurpose) IsValid() bool {
	switch p {
	case TokenPurposeAccess, TokenPurposeRefresh:
		return true
	default:
		return false
	}
}

// AuthClaims represents structured JWT claims
type AuthClaims interface {
	Subject() string
	UserID() string
	Name() string
	Email() string
	Role() string
	Purpose() TokenPurpose
	HasRole(role string) bool
	IsAdmin() bool
	Expires() time.Time
	IssuedAt() time.Time
}

// JWTClaims is the concrete implementation of AuthClaims
type JWTClaims struct {
	jwt.RegisteredClaims
	UID       string       `json:"uid,omitempty"`
	UserName  string       `json:"name,omitempty"`
	UserEmail string       `json:"email,omitempty"`
	UserRole  string       `json:"role,omitempty"`
	TokenUse  TokenPurpose `json:"purpose,omitempty"`
}

// Verify interface compliance
var _ AuthClaims = (*JWTClaims)(nil)

// Subject returns the subject claim
func (c *JWTClaims) Subject() string {
	return c.RegisteredClaims.Subject
}

// UserID returns the user ID
func (c *JWTClaims) UserID() string {
	if c.UID != "" {
		return c.UID
	}
	return c.Subject()
}

// Name returns the user's display name
func (c *JWTClaims) Name() string {
	return c.UserName
}

// Email returns the user's email
func (c *JWTClaims) Email() string {
	return c.UserEmail
}

// Role returns the user's role
func (c *JWTClaims) Role() string {
	return c.UserRole
}

// Purpose returns the token purpose claim
func (c *JWTClaims) Purpose() TokenPurpose {
	return c.TokenUse
}

// HasRole checks if the user has a specific role
func (c *JWTClaims) HasRole(role string) bool {
	return c.UserRole == role
}

// IsAdmin checks if the claims carry the admin role
func (c *JWTClaims) IsAdmin() bool {
	return UserRole(c.UserRole).IsAdmin()
}

// Expires returns the expiration time
func (c *JWTClaims) Expires() time.Time {
	if c.RegisteredClaims.ExpiresAt != nil {
		return c.RegisteredClaims.ExpiresAt.Time
	}
	return time.Time{}
}

// IssuedAt returns the issued at time
func (c *JWTClaims) IssuedAt() time.Time {
	if c.RegisteredClaims.IssuedAt != nil {
		return c.RegisteredClaims.IssuedAt.Time
	}
	return time.Time{}
}

// requireValid enforces the strict decode rules: a token missing its
// subject, expiration, a known role, or a known purpose is rejected
// even when the signature checks out.
func (c *JWTClaims) requireValid() error {
	missing := ""
	switch {
	case c.RegisteredClaims.Subject == "":
		missing = "sub"
	case c.RegisteredClaims.ExpiresAt == nil:
		missing = "exp"
	case !UserRole(c.UserRole).IsValid():
		missing = "role"
	case !c.TokenUse.IsValid():
		missing = "purpose"
	}

	if missing == "" {
		return nil
	}

	return errors.New("token is missing a required claim", errors.CategoryAuth).
		WithTextCode(TextCodeTokenMalformed).
		WithCode(errors.CodeUnauthorized).
		WithMetadata(map[string]any{"claim": missing})
}
