package http_test

import (
	"context"
	"net/http"
	"testing"

	accesshttp "github.com/michat/michat/internal/access/http"
	"github.com/michat/michat/internal/access/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccountUpdateEndpoints(t *testing.T) {
	srv := newTestServer(t)
	token := accessTokenFor(t, srv, "ed@example.com", "ed", "oldpassword")
	accessTokenFor(t, srv, "taken@example.com", "taken", "whatever1")

	t.Run("username", func(t *testing.T) {
		resp := doAuthed(t, srv, http.MethodPatch, "/v1/account/username", token, `{"username":"eddie"}`)
		defer resp.Body.Close()

		require.Equal(t, http.StatusOK, resp.StatusCode)
		body := decodeJSON[accesshttp.UserResponse](t, resp)
		assert.Equal(t, "eddie", body.Username)
	})

	t.Run("username collision", func(t *testing.T) {
		resp := doAuthed(t, srv, http.MethodPatch, "/v1/account/username", token, `{"username":"taken"}`)
		defer resp.Body.Close()

		require.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "username already taken", detailOf(t, resp))
	})

	t.Run("email", func(t *testing.T) {
		resp := doAuthed(t, srv, http.MethodPatch, "/v1/account/email", token, `{"email":"eddie@example.com"}`)
		defer resp.Body.Close()

		require.Equal(t, http.StatusOK, resp.StatusCode)
		body := decodeJSON[accesshttp.UserResponse](t, resp)
		assert.Equal(t, "eddie@example.com", body.Email)
	})

	t.Run("password", func(t *testing.T) {
		resp := doAuthed(t, srv, http.MethodPatch, "/v1/account/password", token,
			`{"current_password":"oldpassword","new_password":"newpassword"}`)
		defer resp.Body.Close()

		require.Equal(t, http.StatusOK, resp.StatusCode)

		// New credentials work, old ones get the generic rejection.
		authResp := srv.authorize(t, "eddie", "newpassword")
		authResp.Body.Close()
		assert.Equal(t, http.StatusOK, authResp.StatusCode)
	})

	t.Run("wrong current password", func(t *testing.T) {
		resp := doAuthed(t, srv, http.MethodPatch, "/v1/account/password", token,
			`{"current_password":"nope","new_password":"whatever2"}`)
		defer resp.Body.Close()

		require.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "invalid credentials or password", detailOf(t, resp))
	})
}

func TestAccountDeleteEndpoint(t *testing.T) {
	srv := newTestServer(t)
	token := accessTokenFor(t, srv, "fay@example.com", "fay", "s3cretpass")

	putResp := doAuthed(t, srv, http.MethodPut, "/v1/profile", token, `{"name":"Fay"}`)
	putResp.Body.Close()
	require.Equal(t, http.StatusOK, putResp.StatusCode)

	resp := doAuthed(t, srv, http.MethodDelete, "/v1/account", token, "")
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeJSON[accesshttp.MessageResponse](t, resp)
	assert.Equal(t, "user deleted", body.Message)

	ctx := context.Background()
	_, err := srv.store.Users().GetUserByUsername(ctx, "fay")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestHealthEndpoints(t *testing.T) {
	srv := newTestServer(t)

	t.Run("livez", func(t *testing.T) {
		resp, err := http.Get(srv.URL + "/livez")
		require.NoError(t, err)
		defer resp.Body.Close()

		require.Equal(t, http.StatusOK, resp.StatusCode)
		body := decodeJSON[accesshttp.HealthResponse](t, resp)
		assert.Equal(t, "ok", body.Status)
	})

	t.Run("readyz", func(t *testing.T) {
		resp, err := http.Get(srv.URL + "/readyz")
		require.NoError(t, err)
		defer resp.Body.Close()

		require.Equal(t, http.StatusOK, resp.StatusCode)
		body := decodeJSON[accesshttp.HealthResponse](t, resp)
		assert.Equal(t, "ok", body.Status)
		require.NotNil(t, body.Checks)
		assert.Equal(t, "ok", body.Checks.Database)
	})
}
