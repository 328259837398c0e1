package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/michat/michat/internal/access/service"
	"github.com/michat/michat/internal/access/store"
	"github.com/michat/michat/pkg/cryptox"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpdateUsername(t *testing.T) {
	st := newTestStore(t)
	users := &service.UserService{Store: st}
	ctx := context.Background()

	u := registerUser(t, st, "gina@example.com", "gina", "s3cretpass")
	registerUser(t, st, "other@example.com", "taken", "s3cretpass")

	t.Run("success", func(t *testing.T) {
		res, err := users.UpdateUsername(ctx, u.ID, "gina2")
		require.NoError(t, err)
		require.True(t, res.Success(), res.ErrMsg())
		assert.Equal(t, "gina2", res.Value().Username)
		assert.True(t, res.Value().UpdatedAt.After(u.UpdatedAt) || res.Value().UpdatedAt.Equal(u.UpdatedAt))
	})

	t.Run("collision", func(t *testing.T) {
		res, err := users.UpdateUsername(ctx, u.ID, "taken")
		require.NoError(t, err)
		require.False(t, res.Success())
		assert.Equal(t, service.MsgUsernameTaken, res.ErrMsg())
	})

	t.Run("blank", func(t *testing.T) {
		res, err := users.UpdateUsername(ctx, u.ID, "   ")
		require.NoError(t, err)
		assert.False(t, res.Success())
	})

	t.Run("unknown user", func(t *testing.T) {
		res, err := users.UpdateUsername(ctx, "no-such-id", "whoever")
		require.NoError(t, err)
		require.False(t, res.Success())
		assert.Equal(t, "user not found", res.ErrMsg())
	})
}

func TestUpdateEmail(t *testing.T) {
	st := newTestStore(t)
	users := &service.UserService{Store: st}
	ctx := context.Background()

	u := registerUser(t, st, "hank@example.com", "hank", "s3cretpass")
	registerUser(t, st, "claimed@example.com", "claimer", "s3cretpass")

	t.Run("success", func(t *testing.T) {
		res, err := users.UpdateEmail(ctx, u.ID, "hank2@example.com")
		require.NoError(t, err)
		require.True(t, res.Success(), res.ErrMsg())
		assert.Equal(t, "hank2@example.com", res.Value().Email)
	})

	t.Run("collision", func(t *testing.T) {
		res, err := users.UpdateEmail(ctx, u.ID, "claimed@example.com")
		require.NoError(t, err)
		require.False(t, res.Success())
		assert.Equal(t, service.MsgEmailTaken, res.ErrMsg())
	})

	t.Run("malformed", func(t *testing.T) {
		res, err := users.UpdateEmail(ctx, u.ID, "nope")
		require.NoError(t, err)
		require.False(t, res.Success())
		assert.Equal(t, "invalid email address", res.ErrMsg())
	})
}

func TestUpdatePassword(t *testing.T) {
	st := newTestStore(t)
	users := &service.UserService{Store: st}
	ctx := context.Background()

	u := registerUser(t, st, "iris@example.com", "iris", "oldpassword")

	t.Run("wrong current password", func(t *testing.T) {
		res, err := users.UpdatePassword(ctx, u.ID, "wrongpass", "newpassword")
		require.NoError(t, err)
		require.False(t, res.Success())
		assert.Equal(t, service.MsgInvalidCredentials, res.ErrMsg())
	})

	t.Run("success", func(t *testing.T) {
		res, err := users.UpdatePassword(ctx, u.ID, "oldpassword", "newpassword")
		require.NoError(t, err)
		require.True(t, res.Success(), res.ErrMsg())

		updated := res.Value()
		assert.NoError(t, cryptox.VerifyPassword("newpassword", updated.PasswordHash))
		assert.ErrorIs(t, cryptox.VerifyPassword("oldpassword", updated.PasswordHash), cryptox.ErrPasswordMismatch)
	})
}

func TestDeleteUserAndProfile(t *testing.T) {
	st := newTestStore(t)
	users := &service.UserService{Store: st}
	ctx := context.Background()

	u := registerUser(t, st, "judy@example.com", "judy", "s3cretpass")

	name := "Judy"
	_, err := st.Profiles().CreateProfile(ctx, profileFor(u.ID, &name))
	require.NoError(t, err)

	res, err := users.DeleteUserAndProfile(ctx, u.ID)
	require.NoError(t, err)
	require.True(t, res.Success(), res.ErrMsg())

	_, err = st.Users().GetUserByID(ctx, u.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
	_, err = st.Profiles().GetProfileByUserID(ctx, u.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestDeleteUserAndProfileUnknownUser(t *testing.T) {
	st := newTestStore(t)
	users := &service.UserService{Store: st}

	res, err := users.DeleteUserAndProfile(context.Background(), "no-such-id")
	require.NoError(t, err)
	require.False(t, res.Success())
	assert.Equal(t, "user not found", res.ErrMsg())
}

// faultStore injects a failure into the second step of the combined delete
// so the test can observe the rollback through the real driver.
type faultStore struct{ store.Store }

func (f *faultStore) WithTx(ctx context.Context, fn func(tx store.Tx) error) error {
	return f.Store.WithTx(ctx, func(tx store.Tx) error {
		return fn(&faultTx{storeTx: tx})
	})
}

// storeTx lets faultTx embed the interface without the field name
// colliding with the promoted Tx method.
type storeTx = store.Tx

type faultTx struct{ storeTx }

func (f *faultTx) Users() store.Users { return &faultUsers{Users: f.storeTx.Users()} }

type faultUsers struct{ store.Users }

func (f *faultUsers) DeleteUser(ctx context.Context, userID string) error {
	return errors.New("simulated write failure")
}

func TestDeleteUserAndProfileRollsBack(t *testing.T) {
	st := newTestStore(t)
	users := &service.UserService{Store: &faultStore{Store: st}}
	ctx := context.Background()

	u := registerUser(t, st, "kate@example.com", "kate", "s3cretpass")

	name := "Kate"
	_, err := st.Profiles().CreateProfile(ctx, profileFor(u.ID, &name))
	require.NoError(t, err)

	res, err := users.DeleteUserAndProfile(ctx, u.ID)
	require.NoError(t, err)
	require.False(t, res.Success())
	assert.Contains(t, res.ErrMsg(), "failed to delete user and profile")

	// The profile delete ran before the injected failure; the rollback must
	// have restored it.
	_, err = st.Users().GetUserByID(ctx, u.ID)
	assert.NoError(t, err)
	_, err = st.Profiles().GetProfileByUserID(ctx, u.ID)
	assert.NoError(t, err)
}
