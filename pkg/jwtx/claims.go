package jwtx

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/michat/michat/pkg/idx"
)

// Default token TTL constants for the bearer-token flow.
// These provide sensible security defaults but can be overridden per-service.
const (
	// DefaultAccessTokenTTL is the default lifetime for access tokens.
	// Short-lived for security - typical range is 15m to 1h.
	DefaultAccessTokenTTL = 15 * time.Minute

	// DefaultRefreshTokenTTL is the default lifetime for refresh tokens.
	// Longer-lived for user convenience - typical range is 7d to 30d.
	DefaultRefreshTokenTTL = 7 * 24 * time.Hour
)

// TokenUse discriminates the two token classes the service mints.
type TokenUse string

const (
	// UseAccess marks short-lived tokens that authorize API calls.
	UseAccess TokenUse = "access"

	// UseRefresh marks longer-lived tokens whose only purpose is to
	// mint new access tokens.
	UseRefresh TokenUse = "refresh"
)

// Claims are the token claims used across the service. Keeping changes
// additive preserves compatibility with tokens already in the wild.
type Claims struct {
	jwt.RegisteredClaims

	// TokenUse is the token class ("access" or "refresh"). A token
	// presented for the wrong class is rejected, see ExpectUse.
	TokenUse TokenUse `json:"token_use,omitempty"`

	// Email of the subject, carried for convenience on access tokens.
	Email string `json:"email,omitempty"`
}

// NewClaims builds minimally-correct claims for the given subject and class.
func NewClaims(
	subject, email string,
	use TokenUse,
	ttl time.Duration,
	issuer string,
	now time.Time,
) Claims {
	return Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        idx.New().String(),
		},
		TokenUse: use,
		Email:    email,
	}
}

// ExpectUse enforces the token class. Cross-use (an access token presented
// where a refresh token is required, or the reverse) is a hard failure.
func (c Claims) ExpectUse(use TokenUse) error {
	if c.TokenUse != use {
		return ErrWrongTokenUse
	}
	return nil
}
