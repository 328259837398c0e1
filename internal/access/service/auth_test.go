package service_test

import (
	"context"
	"testing"

	"github.com/michat/michat/internal/access/domain"
	"github.com/michat/michat/internal/access/service"
	"github.com/michat/michat/internal/access/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister(t *testing.T) {
	st := newTestStore(t)
	auth := &service.AuthService{Store: st}
	ctx := context.Background()

	t.Run("fresh account", func(t *testing.T) {
		res, err := auth.Register(ctx, service.RegisterRequest{
			Email:    "alice@example.com",
			Username: "alice",
			Password: "hunter22",
		})
		require.NoError(t, err)
		require.True(t, res.Success(), res.ErrMsg())
		assert.Equal(t, service.MsgRegistered, res.Value())

		u, err := st.Users().GetUserByEmail(ctx, "alice@example.com")
		require.NoError(t, err)
		assert.Equal(t, "alice", u.Username)
		assert.NotEmpty(t, u.ID)
		assert.NotEqual(t, "hunter22", u.PasswordHash, "password must be stored hashed")
	})

	t.Run("duplicate email", func(t *testing.T) {
		res, err := auth.Register(ctx, service.RegisterRequest{
			Email:    "alice@example.com",
			Username: "alice2",
			Password: "hunter22",
		})
		require.NoError(t, err)
		require.False(t, res.Success())
		assert.Equal(t, service.MsgEmailTaken, res.ErrMsg())
	})

	t.Run("duplicate username", func(t *testing.T) {
		res, err := auth.Register(ctx, service.RegisterRequest{
			Email:    "alice2@example.com",
			Username: "alice",
			Password: "hunter22",
		})
		require.NoError(t, err)
		require.False(t, res.Success())
		assert.Equal(t, service.MsgUsernameTaken, res.ErrMsg())
	})

	t.Run("missing fields", func(t *testing.T) {
		res, err := auth.Register(ctx, service.RegisterRequest{Email: "x@example.com"})
		require.NoError(t, err)
		assert.False(t, res.Success())
	})

	t.Run("malformed email", func(t *testing.T) {
		res, err := auth.Register(ctx, service.RegisterRequest{
			Email:    "not-an-email",
			Username: "bob",
			Password: "hunter22",
		})
		require.NoError(t, err)
		require.False(t, res.Success())
		assert.Equal(t, "invalid email address", res.ErrMsg())
	})
}

// blindStore hides existing rows from the first UserExists probe so the
// insert itself hits the UNIQUE constraint, the way a concurrent
// registration landing between probe and insert would. Later probes see
// the real rows.
type blindStore struct {
	store.Store
	users *blindUsers
}

func (b *blindStore) Users() store.Users {
	if b.users == nil {
		b.users = &blindUsers{Users: b.Store.Users()}
	}
	return b.users
}

type blindUsers struct {
	store.Users
	probed bool
}

func (b *blindUsers) UserExists(ctx context.Context, email, username string) (domain.Existence, error) {
	if !b.probed {
		b.probed = true
		return domain.Existence{}, nil
	}
	return b.Users.UserExists(ctx, email, username)
}

func TestRegisterLostRace(t *testing.T) {
	ctx := context.Background()

	t.Run("username collision", func(t *testing.T) {
		st := newTestStore(t)
		registerUser(t, st, "mallory@example.com", "mallory", "hunter22")

		auth := &service.AuthService{Store: &blindStore{Store: st}}
		res, err := auth.Register(ctx, service.RegisterRequest{
			Email:    "mallory2@example.com",
			Username: "mallory",
			Password: "hunter22",
		})
		require.NoError(t, err)
		require.False(t, res.Success())
		assert.Equal(t, service.MsgUsernameTaken, res.ErrMsg())
	})

	t.Run("email collision", func(t *testing.T) {
		st := newTestStore(t)
		registerUser(t, st, "mallory@example.com", "mallory", "hunter22")

		auth := &service.AuthService{Store: &blindStore{Store: st}}
		res, err := auth.Register(ctx, service.RegisterRequest{
			Email:    "mallory@example.com",
			Username: "mallory2",
			Password: "hunter22",
		})
		require.NoError(t, err)
		require.False(t, res.Success())
		assert.Equal(t, service.MsgEmailTaken, res.ErrMsg())
	})
}

func TestAuthorize(t *testing.T) {
	st := newTestStore(t)
	auth := &service.AuthService{Store: st}
	ctx := context.Background()

	registerUser(t, st, "carol@example.com", "carol", "s3cretpass")

	t.Run("by email", func(t *testing.T) {
		res, err := auth.Authorize(ctx, "carol@example.com", "s3cretpass")
		require.NoError(t, err)
		require.True(t, res.Success(), res.ErrMsg())
		assert.Equal(t, "carol", res.Value().Username)
	})

	t.Run("by username", func(t *testing.T) {
		res, err := auth.Authorize(ctx, "carol", "s3cretpass")
		require.NoError(t, err)
		require.True(t, res.Success(), res.ErrMsg())
		assert.Equal(t, "carol@example.com", res.Value().Email)
	})

	// Unknown account and wrong password must be indistinguishable so the
	// endpoint cannot be used to enumerate accounts.
	t.Run("wrong password", func(t *testing.T) {
		res, err := auth.Authorize(ctx, "carol", "wrongpass")
		require.NoError(t, err)
		require.False(t, res.Success())
		assert.Equal(t, service.MsgInvalidCredentials, res.ErrMsg())
	})

	t.Run("unknown account", func(t *testing.T) {
		res, err := auth.Authorize(ctx, "nobody", "s3cretpass")
		require.NoError(t, err)
		require.False(t, res.Success())
		assert.Equal(t, service.MsgInvalidCredentials, res.ErrMsg())
	})
}
