package store

import (
	"context"
	"errors"

	"github.com/michat/michat/internal/access/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers (sqlite,
// postgres) implement this. It exposes sub-repositories to keep concerns
// tidy and testable, and replaces the shared-base-class reuse of earlier
// incarnations of this service with plain interfaces composed per entity.
type Store interface {
	Users() Users
	Profiles() Profiles

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// Use it for multi-step operations that must be atomic (e.g., the
	// combined user+profile delete). The caller MUST call Commit() or
	// Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes a function within a transaction. If fn returns an
	// error, the transaction is rolled back; otherwise it is committed.
	// This is the recommended way to handle transactions.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Users interface {
	// CreateUser inserts a new user (id is provided by the service via
	// UUID) and returns the persisted row including generated timestamps.
	// A duplicate email or username yields ErrAlreadyExists.
	CreateUser(ctx context.Context, u domain.User) (domain.User, error)

	// UserExists runs two independent existence probes so registration can
	// report exactly which field collides. Advisory only; the UNIQUE
	// constraints decide races.
	UserExists(ctx context.Context, email, username string) (domain.Existence, error)

	// GetUserByID returns a user by id. ErrNotFound when absent.
	GetUserByID(ctx context.Context, id string) (domain.User, error)

	// GetUserByEmail is used during login resolution.
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)

	// GetUserByUsername is the login fallback when the email lookup misses.
	GetUserByUsername(ctx context.Context, username string) (domain.User, error)

	// UpdateUsername sets the username and bumps dataupdated, returning the
	// updated row. ErrAlreadyExists if the new value collides.
	UpdateUsername(ctx context.Context, userID, username string) (domain.User, error)

	// UpdateEmail sets the email and bumps dataupdated.
	UpdateEmail(ctx context.Context, userID, email string) (domain.User, error)

	// UpdatePasswordHash sets the password hash (already hashed by the
	// caller) and bumps dataupdated.
	UpdatePasswordHash(ctx context.Context, userID, newHash string) (domain.User, error)

	// DeleteUser removes the user row only, ErrNotFound when no row
	// matched. The combined user+profile delete composes this with
	// Profiles().DeleteProfile inside a Tx.
	DeleteUser(ctx context.Context, userID string) error
}

type Profiles interface {
	// CreateProfile inserts a new profile keyed by the owning user id.
	CreateProfile(ctx context.Context, p domain.Profile) (domain.Profile, error)

	// GetProfileByUserID returns the profile for a user. ErrNotFound when
	// the user has not created one yet.
	GetProfileByUserID(ctx context.Context, userID string) (domain.Profile, error)

	// UpdateProfile unconditionally overwrites the profile fields and
	// returns the updated row.
	UpdateProfile(ctx context.Context, p domain.Profile) (domain.Profile, error)

	// DeleteProfile removes a user's profile. Deleting an absent profile
	// is not an error.
	DeleteProfile(ctx context.Context, userID string) error
}
