package service

import (
	"context"
	"errors"
	"time"

	"github.com/michat/michat/internal/access/domain"
	"github.com/michat/michat/internal/access/store"
	"github.com/michat/michat/pkg/jwtx"
	"github.com/michat/michat/pkg/result"
	"github.com/michat/michat/pkg/slogx"
)

// Codec is the subset of pkg/jwtx the token service needs. *jwtx.HS256
// satisfies it.
type Codec interface {
	Sign(jwtx.Claims) (string, error)
	Verify(token string) (jwtx.Claims, error)
}

// TokenService mints the access/refresh pair after a successful
// authorization and redeems refresh tokens for fresh access tokens.
type TokenService struct {
	Codec      Codec
	Store      store.Store
	Issuer     string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

// IssuePair signs one access and one refresh token for the user.
func (s *TokenService) IssuePair(u domain.User) (*domain.TokenPair, error) {
	now := time.Now()

	access, err := s.signAccess(u, now)
	if err != nil {
		return nil, err
	}

	// Refresh tokens carry the subject only; they are exchanged, never
	// presented to resource endpoints.
	refresh, err := s.Codec.Sign(jwtx.NewClaims(
		u.ID, "", jwtx.UseRefresh, s.RefreshTTL, s.Issuer, now))
	if err != nil {
		return nil, err
	}

	return &domain.TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "Bearer",
	}, nil
}

// Refresh redeems a refresh token for a new access token. Expired and
// invalid tokens come back as distinct Result messages; an access token
// presented here is rejected outright.
func (s *TokenService) Refresh(ctx context.Context, refreshToken string) (result.Result[string], error) {
	claims, err := s.Codec.Verify(refreshToken)
	if err != nil {
		if errors.Is(err, jwtx.ErrExpired) {
			return result.Err[string]("refresh token expired"), nil
		}
		return result.Err[string]("invalid refresh token"), nil
	}

	if err := claims.ExpectUse(jwtx.UseRefresh); err != nil {
		slogx.FromContext(ctx).Warn("access token presented at refresh", "sub", claims.Subject)
		return result.Err[string]("invalid refresh token"), nil
	}

	user, err := s.Store.Users().GetUserByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return result.Err[string]("user not found"), nil
		}
		return result.Result[string]{}, err
	}

	access, err := s.signAccess(user, time.Now())
	if err != nil {
		return result.Result[string]{}, err
	}
	return result.Ok(access), nil
}

func (s *TokenService) signAccess(u domain.User, now time.Time) (string, error) {
	return s.Codec.Sign(jwtx.NewClaims(
		u.ID, u.Email, jwtx.UseAccess, s.AccessTTL, s.Issuer, now))
}
