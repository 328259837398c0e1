package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/michat/michat/internal/access/service"
	"github.com/michat/michat/internal/access/store"
	"github.com/michat/michat/pkg/httpx"
	"github.com/michat/michat/pkg/slogx"
)

// AuthorizeHandler serves POST /access/authorize. Accepts an
// application/x-www-form-urlencoded body with login and password; the login
// may be either the email or the username.
type AuthorizeHandler struct {
	AuthService  *service.AuthService
	TokenService *service.TokenService
}

func (h *AuthorizeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	if ct := r.Header.Get("Content-Type"); ct != "" &&
		!strings.HasPrefix(ct, "application/x-www-form-urlencoded") {
		httpx.WriteDetail(w, http.StatusBadRequest, "expected form-encoded body")
		return
	}
	if err := r.ParseForm(); err != nil {
		httpx.WriteDetail(w, http.StatusBadRequest, "invalid form body")
		return
	}

	login := strings.TrimSpace(r.Form.Get("login"))
	password := r.Form.Get("password")
	if login == "" || password == "" {
		httpx.WriteDetail(w, http.StatusBadRequest, "login and password are required")
		return
	}

	// Account resolution is reported distinctly from the password check on
	// this endpoint; registration already discloses which identifiers are
	// taken, so there is nothing left to hide here.
	if _, err := h.AuthService.ResolveLogin(ctx, login); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			httpx.WriteDetail(w, http.StatusBadRequest, "user not found")
			return
		}
		log.Error("login resolution failed", "err", err)
		httpx.WriteServerError(w)
		return
	}

	res, err := h.AuthService.Authorize(ctx, login, password)
	if err != nil {
		log.Error("authorization failed", "err", err)
		httpx.WriteServerError(w)
		return
	}
	if !res.Success() {
		httpx.WriteDetail(w, http.StatusBadRequest, res.ErrMsg())
		return
	}

	user := res.Value()
	pair, err := h.TokenService.IssuePair(user)
	if err != nil {
		log.Error("token issuance failed", "err", err, "user_id", user.ID)
		httpx.WriteServerError(w)
		return
	}

	// The refresh token also travels as an HTTP-only cookie so browser
	// clients can hit /access/refresh without holding it in script.
	http.SetCookie(w, &http.Cookie{
		Name:     "refresh_token",
		Value:    pair.RefreshToken,
		Path:     "/access/refresh",
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
		MaxAge:   int(h.TokenService.RefreshTTL.Seconds()),
	})

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, TokenResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		TokenType:    pair.TokenType,
	})
}
