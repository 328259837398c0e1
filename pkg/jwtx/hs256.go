package jwtx

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrInvalidToken covers malformed tokens, wrong algorithms, bad
	// signatures and claim mismatches.
	ErrInvalidToken = errors.New("jwtx: invalid token")

	// ErrExpired is returned when the token's expiry has passed. Kept
	// distinct from ErrInvalidToken so callers can tell a stale session
	// from a forged one.
	ErrExpired = errors.New("jwtx: token expired")

	// ErrWrongTokenUse is returned when a token of one class is presented
	// where the other class is required.
	ErrWrongTokenUse = errors.New("jwtx: wrong token class")

	errShortSecret = errors.New("jwtx: signing secret must be at least 32 bytes")
)

// Signer is our interface for anything that can sign token claims.
type Signer interface {
	Sign(Claims) (string, error)
}

// Verifier validates a token and gives you back the claims if it's legit.
type Verifier interface {
	Verify(token string) (Claims, error)
}

// HS256 signs and verifies tokens with a single server-held HMAC secret.
// It implements both Signer and Verifier.
type HS256 struct {
	secret []byte
	issuer string
	leeway time.Duration
}

// NewHS256 builds an HMAC signer/verifier. The secret must be at least
// 32 bytes; anything shorter undermines the whole scheme.
func NewHS256(secret []byte, issuer string) (*HS256, error) {
	if len(secret) < 32 {
		return nil, errShortSecret
	}
	return &HS256{
		secret: secret,
		issuer: issuer,
		leeway: 30 * time.Second,
	}, nil
}

// Sign takes your claims and turns them into a signed compact JWT string.
func (h *HS256) Sign(claims Claims) (string, error) {
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(h.secret)
}

// Verify parses and validates a compact JWT. Any mutation of the claims or
// expiry invalidates the signature.
func (h *HS256) Verify(token string) (Claims, error) {
	parsed, err := jwt.ParseWithClaims(
		token,
		&Claims{},
		func(t *jwt.Token) (any, error) { return h.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(h.issuer),
		jwt.WithLeeway(h.leeway),
		jwt.WithIssuedAt(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Claims{}, ErrExpired
		}
		return Claims{}, ErrInvalidToken
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return Claims{}, ErrInvalidToken
	}
	return *claims, nil
}
