package http_test

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	accesshttp "github.com/michat/michat/internal/access/http"
	"github.com/michat/michat/internal/access/service"
	"github.com/michat/michat/internal/access/store"
	"github.com/michat/michat/internal/access/store/drivers/sqlite"
	"github.com/michat/michat/pkg/cryptox"
	"github.com/michat/michat/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	pepperPath := filepath.Join(os.TempDir(), "michat-http-test-pepper")
	cryptox.SetPepperPath(pepperPath)
	defer os.Remove(pepperPath)

	os.Exit(m.Run())
}

type testServer struct {
	*httptest.Server
	store store.Store
	codec *jwtx.HS256
}

// newTestServer wires the full handler stack over a throwaway database,
// the same shape the application assembles at boot.
func newTestServer(t *testing.T) *testServer {
	t.Helper()

	st, err := sqlite.NewStore(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	require.NoError(t, st.ApplyMigrations())
	t.Cleanup(func() { _ = st.Close() })

	codec, err := jwtx.NewHS256([]byte("0123456789abcdef0123456789abcdef"), "michat-test")
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	router := accesshttp.NewRouter(codec, "test", st, logger)
	router.AuthService = &service.AuthService{Store: st}
	router.TokenService = &service.TokenService{
		Codec:      codec,
		Store:      st,
		Issuer:     "michat-test",
		AccessTTL:  jwtx.DefaultAccessTokenTTL,
		RefreshTTL: jwtx.DefaultRefreshTokenTTL,
	}
	router.UserService = &service.UserService{Store: st}
	router.ProfileService = &service.ProfileService{Store: st}
	router.ApplyRoutes()

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	return &testServer{Server: srv, store: st, codec: codec}
}

func (s *testServer) register(t *testing.T, email, username, password string) {
	t.Helper()

	body := `{"email":"` + email + `","username":"` + username + `","password":"` + password + `"}`
	resp, err := http.Post(s.URL+"/access/register", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func (s *testServer) authorize(t *testing.T, login, password string) *http.Response {
	t.Helper()

	form := url.Values{"login": {login}, "password": {password}}
	resp, err := http.Post(s.URL+"/access/authorize",
		"application/x-www-form-urlencoded", strings.NewReader(form.Encode()))
	require.NoError(t, err)
	return resp
}

func decodeJSON[T any](t *testing.T, resp *http.Response) T {
	t.Helper()

	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func detailOf(t *testing.T, resp *http.Response) string {
	t.Helper()

	var d struct {
		Detail string `json:"detail"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&d))
	return d.Detail
}
