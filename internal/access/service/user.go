package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/michat/michat/internal/access/domain"
	"github.com/michat/michat/internal/access/store"
	"github.com/michat/michat/pkg/cryptox"
	"github.com/michat/michat/pkg/result"
	"github.com/michat/michat/pkg/slogx"
)

// UserService covers account maintenance: credential changes and the
// combined user+profile removal.
type UserService struct {
	Store store.Store
}

// GetUserByID fetches the account for an authenticated subject.
func (s *UserService) GetUserByID(ctx context.Context, id string) (domain.User, error) {
	return s.Store.Users().GetUserByID(ctx, id)
}

// UpdateUsername changes the username. Collisions with another account are
// an expected failure.
func (s *UserService) UpdateUsername(ctx context.Context, userID, username string) (result.Result[domain.User], error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return result.Err[domain.User]("username is required"), nil
	}

	user, err := s.Store.Users().UpdateUsername(ctx, userID, username)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrAlreadyExists):
			return result.Err[domain.User](MsgUsernameTaken), nil
		case errors.Is(err, store.ErrNotFound):
			return result.Err[domain.User]("user not found"), nil
		}
		return result.Result[domain.User]{}, err
	}
	return result.Ok(user), nil
}

// UpdateEmail changes the account email after shape validation.
func (s *UserService) UpdateEmail(ctx context.Context, userID, email string) (result.Result[domain.User], error) {
	email = strings.TrimSpace(email)
	if !emailPattern.MatchString(email) {
		return result.Err[domain.User]("invalid email address"), nil
	}

	user, err := s.Store.Users().UpdateEmail(ctx, userID, email)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrAlreadyExists):
			return result.Err[domain.User](MsgEmailTaken), nil
		case errors.Is(err, store.ErrNotFound):
			return result.Err[domain.User]("user not found"), nil
		}
		return result.Result[domain.User]{}, err
	}
	return result.Ok(user), nil
}

// UpdatePassword verifies the current password before hashing and storing
// the new one. A wrong current password gets the same generic message as a
// failed login.
func (s *UserService) UpdatePassword(ctx context.Context, userID, current, next string) (result.Result[domain.User], error) {
	if next == "" {
		return result.Err[domain.User]("new password is required"), nil
	}

	user, err := s.Store.Users().GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return result.Err[domain.User]("user not found"), nil
		}
		return result.Result[domain.User]{}, err
	}

	if err := cryptox.VerifyPassword(current, user.PasswordHash); err != nil {
		if errors.Is(err, cryptox.ErrPasswordMismatch) {
			return result.Err[domain.User](MsgInvalidCredentials), nil
		}
		return result.Result[domain.User]{}, err
	}

	hash, err := cryptox.HashPassword(next)
	if err != nil {
		return result.Result[domain.User]{}, err
	}

	updated, err := s.Store.Users().UpdatePasswordHash(ctx, userID, hash)
	if err != nil {
		return result.Result[domain.User]{}, err
	}

	slogx.FromContext(ctx).Info("password changed", "user_id", userID)
	return result.Ok(updated), nil
}

// DeleteUserAndProfile removes the account and its profile in one
// transaction. Either both rows go or neither does.
func (s *UserService) DeleteUserAndProfile(ctx context.Context, userID string) (result.Result[string], error) {
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Profiles().DeleteProfile(ctx, userID); err != nil {
			return err
		}
		return tx.Users().DeleteUser(ctx, userID)
	})
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return result.Err[string]("user not found"), nil
		}
		return result.Err[string](fmt.Sprintf("failed to delete user and profile: %v", err)), nil
	}

	slogx.FromContext(ctx).Info("user deleted", "user_id", userID)
	return result.Ok("user deleted"), nil
}
