package service

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/michat/michat/internal/access/domain"
	"github.com/michat/michat/internal/access/store"
	"github.com/michat/michat/pkg/cryptox"
	"github.com/michat/michat/pkg/result"
	"github.com/michat/michat/pkg/slogx"
)

// User-facing failure messages. MsgInvalidCredentials deliberately covers
// both "no such user" and "wrong password" so a caller cannot probe which
// accounts exist.
const (
	MsgInvalidCredentials = "invalid credentials or password"
	MsgEmailTaken         = "email already registered"
	MsgUsernameTaken      = "username already taken"
	MsgRegistered         = "user registered successfully"
)

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9_.+-]+@[a-zA-Z0-9-]+\.[a-zA-Z0-9-.]+$`)

// RegisterRequest is the validated shape of a registration attempt.
type RegisterRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// AuthService orchestrates registration and password authorization.
// Expected failures come back as Result values; infrastructure faults are
// returned as errors for the HTTP layer to map to 5xx.
type AuthService struct {
	Store store.Store
}

// Register validates the request shape, pre-checks uniqueness for precise
// messages, hashes the password and persists the user. The pre-check is
// advisory; the UNIQUE constraints decide concurrent registrations, and a
// constraint violation maps to the same duplicate message.
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (result.Result[string], error) {
	req.Email = strings.TrimSpace(req.Email)
	req.Username = strings.TrimSpace(req.Username)

	if req.Email == "" || req.Username == "" || req.Password == "" {
		return result.Err[string]("email, username and password are required"), nil
	}
	if !emailPattern.MatchString(req.Email) {
		return result.Err[string]("invalid email address"), nil
	}

	ex, err := s.Store.Users().UserExists(ctx, req.Email, req.Username)
	if err != nil {
		return result.Result[string]{}, err
	}
	if ex.EmailExists {
		return result.Err[string](MsgEmailTaken), nil
	}
	if ex.UsernameExists {
		return result.Err[string](MsgUsernameTaken), nil
	}

	hash, err := cryptox.HashPassword(req.Password)
	if err != nil {
		return result.Result[string]{}, err
	}

	created, err := s.Store.Users().CreateUser(ctx, domain.User{
		ID:           uuid.NewString(),
		Email:        req.Email,
		Username:     req.Username,
		PasswordHash: hash,
	})
	if err != nil {
		// Lost a race against a concurrent registration; re-probe so the
		// answer names the same field the pre-check would have.
		if errors.Is(err, store.ErrAlreadyExists) {
			ex, exErr := s.Store.Users().UserExists(ctx, req.Email, req.Username)
			if exErr == nil && ex.UsernameExists && !ex.EmailExists {
				return result.Err[string](MsgUsernameTaken), nil
			}
			return result.Err[string](MsgEmailTaken), nil
		}
		return result.Result[string]{}, err
	}

	slogx.FromContext(ctx).Info("user registered",
		"user_id", created.ID,
		"username", created.Username,
	)
	return result.Ok(MsgRegistered), nil
}

// ResolveLogin finds the account a login string refers to, trying email
// first and falling back to username. Returns store.ErrNotFound when
// neither matches.
func (s *AuthService) ResolveLogin(ctx context.Context, login string) (domain.User, error) {
	user, err := s.Store.Users().GetUserByEmail(ctx, login)
	if errors.Is(err, store.ErrNotFound) {
		return s.Store.Users().GetUserByUsername(ctx, login)
	}
	return user, err
}

// Authorize resolves the login and verifies the password. Unknown account
// and wrong password yield the identical generic message.
func (s *AuthService) Authorize(ctx context.Context, login, password string) (result.Result[domain.User], error) {
	user, err := s.ResolveLogin(ctx, login)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return result.Err[domain.User](MsgInvalidCredentials), nil
		}
		return result.Result[domain.User]{}, err
	}

	if err := cryptox.VerifyPassword(password, user.PasswordHash); err != nil {
		if errors.Is(err, cryptox.ErrPasswordMismatch) {
			return result.Err[domain.User](MsgInvalidCredentials), nil
		}
		// Malformed stored hash is an infrastructure problem, not a
		// credential one.
		return result.Result[domain.User]{}, err
	}

	return result.Ok(user), nil
}
