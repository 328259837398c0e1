package http

import (
	"net/http"

	"github.com/michat/michat/internal/access/service"
	"github.com/michat/michat/pkg/httpx"
	"github.com/michat/michat/pkg/slogx"
)

// RefreshHandler serves GET /access/refresh. Reads the refresh token from
// the refresh_token cookie and answers with a fresh access token, both in
// the body and as an HTTP-only cookie.
type RefreshHandler struct {
	TokenService *service.TokenService
}

func (h *RefreshHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	cookie, err := r.Cookie("refresh_token")
	if err != nil || cookie.Value == "" {
		httpx.WriteDetail(w, http.StatusBadRequest, "refresh token cookie is required")
		return
	}

	res, err := h.TokenService.Refresh(ctx, cookie.Value)
	if err != nil {
		slogx.FromContext(ctx).Error("refresh failed", "err", err)
		httpx.WriteServerError(w)
		return
	}
	if !res.Success() {
		httpx.WriteDetail(w, http.StatusBadRequest, res.ErrMsg())
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     "access_token",
		Value:    res.Value(),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
		MaxAge:   int(h.TokenService.AccessTTL.Seconds()),
	})

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, AccessTokenResponse{AccessToken: res.Value()})
}
