package service

import (
	"context"
	"errors"

	"github.com/michat/michat/internal/access/domain"
	"github.com/michat/michat/internal/access/store"
	"github.com/michat/michat/pkg/result"
)

// ProfileService manages the per-user profile. Updates behave as an upsert
// so clients never have to create a profile explicitly.
type ProfileService struct {
	Store store.Store
}

// GetProfile returns the user's profile. A user without one gets an
// expected failure, not a fault.
func (s *ProfileService) GetProfile(ctx context.Context, userID string) (result.Result[domain.Profile], error) {
	p, err := s.Store.Profiles().GetProfileByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return result.Err[domain.Profile]("profile not found"), nil
		}
		return result.Result[domain.Profile]{}, err
	}
	return result.Ok(p), nil
}

// UpsertProfile creates the profile on first write and overwrites it on
// subsequent ones.
func (s *ProfileService) UpsertProfile(ctx context.Context, p domain.Profile) (result.Result[domain.Profile], error) {
	_, err := s.Store.Profiles().GetProfileByUserID(ctx, p.UserID)
	switch {
	case errors.Is(err, store.ErrNotFound):
		created, err := s.Store.Profiles().CreateProfile(ctx, p)
		if err != nil {
			return result.Result[domain.Profile]{}, err
		}
		return result.Ok(created), nil
	case err != nil:
		return result.Result[domain.Profile]{}, err
	}

	updated, err := s.Store.Profiles().UpdateProfile(ctx, p)
	if err != nil {
		return result.Result[domain.Profile]{}, err
	}
	return result.Ok(updated), nil
}
