package http

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"time"

	"github.com/michat/michat/internal/access/domain"
	"github.com/michat/michat/internal/access/service"
	"github.com/michat/michat/pkg/httpx"
	"github.com/michat/michat/pkg/slogx"
)

// ProfileHandler serves the authenticated profile endpoints. PUT behaves as
// an upsert: the profile row is created on first write.
type ProfileHandler struct {
	ProfileService *service.ProfileService
}

type profileRequest struct {
	Name     *string `json:"name"`
	AboutMe  *string `json:"about_me"`
	Birthday *string `json:"birthday"` // ISO date, e.g. 1993-04-12
	Image    *string `json:"image"`    // base64
}

func (h *ProfileHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := httpx.UserIDFromContext(ctx)
	if !ok {
		httpx.WriteDetail(w, http.StatusUnauthorized, "authentication required")
		return
	}

	res, err := h.ProfileService.GetProfile(ctx, userID)
	if err != nil {
		slogx.FromContext(ctx).Error("profile lookup failed", "err", err)
		httpx.WriteServerError(w)
		return
	}
	if !res.Success() {
		httpx.WriteDetail(w, http.StatusNotFound, res.ErrMsg())
		return
	}

	httpx.WriteJSON(w, http.StatusOK, newProfileResponse(res.Value()))
}

func (h *ProfileHandler) HandlePut(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := httpx.UserIDFromContext(ctx)
	if !ok {
		httpx.WriteDetail(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var req profileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteDetail(w, http.StatusBadRequest, "invalid request body")
		return
	}

	profile := domain.Profile{
		UserID:  userID,
		Name:    req.Name,
		AboutMe: req.AboutMe,
	}
	if req.Birthday != nil {
		day, err := time.Parse("2006-01-02", *req.Birthday)
		if err != nil {
			httpx.WriteDetail(w, http.StatusBadRequest, "birthday must be an ISO date (YYYY-MM-DD)")
			return
		}
		profile.Birthday = &day
	}
	if req.Image != nil {
		img, err := base64.StdEncoding.DecodeString(*req.Image)
		if err != nil {
			httpx.WriteDetail(w, http.StatusBadRequest, "image must be base64 encoded")
			return
		}
		profile.Image = img
	}

	res, err := h.ProfileService.UpsertProfile(ctx, profile)
	if err != nil {
		slogx.FromContext(ctx).Error("profile upsert failed", "err", err)
		httpx.WriteServerError(w)
		return
	}
	if !res.Success() {
		httpx.WriteDetail(w, http.StatusBadRequest, res.ErrMsg())
		return
	}

	httpx.WriteJSON(w, http.StatusOK, newProfileResponse(res.Value()))
}
