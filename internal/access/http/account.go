package http

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/michat/michat/internal/access/domain"
	"github.com/michat/michat/internal/access/service"
	"github.com/michat/michat/pkg/httpx"
	"github.com/michat/michat/pkg/result"
	"github.com/michat/michat/pkg/slogx"
)

// AccountHandler serves the authenticated account maintenance endpoints:
// credential changes and account deletion.
type AccountHandler struct {
	UserService *service.UserService
}

func (h *AccountHandler) HandleUsername(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
	}
	h.patchUser(w, r, &req, func(ctx context.Context, userID string) (result.Result[domain.User], error) {
		return h.UserService.UpdateUsername(ctx, userID, req.Username)
	})
}

func (h *AccountHandler) HandleEmail(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	h.patchUser(w, r, &req, func(ctx context.Context, userID string) (result.Result[domain.User], error) {
		return h.UserService.UpdateEmail(ctx, userID, req.Email)
	})
}

func (h *AccountHandler) HandlePassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		CurrentPassword string `json:"current_password"`
		NewPassword     string `json:"new_password"`
	}
	h.patchUser(w, r, &req, func(ctx context.Context, userID string) (result.Result[domain.User], error) {
		return h.UserService.UpdatePassword(ctx, userID, req.CurrentPassword, req.NewPassword)
	})
}

// patchUser factors the shared decode / authenticate / respond flow of the
// three credential updates.
func (h *AccountHandler) patchUser(
	w http.ResponseWriter,
	r *http.Request,
	req any,
	update func(ctx context.Context, userID string) (result.Result[domain.User], error),
) {
	ctx := r.Context()

	userID, ok := httpx.UserIDFromContext(ctx)
	if !ok {
		httpx.WriteDetail(w, http.StatusUnauthorized, "authentication required")
		return
	}

	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		httpx.WriteDetail(w, http.StatusBadRequest, "invalid request body")
		return
	}

	res, err := update(ctx, userID)
	if err != nil {
		slogx.FromContext(ctx).Error("account update failed", "err", err)
		httpx.WriteServerError(w)
		return
	}
	if !res.Success() {
		httpx.WriteDetail(w, http.StatusBadRequest, res.ErrMsg())
		return
	}

	httpx.WriteJSON(w, http.StatusOK, newUserResponse(res.Value()))
}

func (h *AccountHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := httpx.UserIDFromContext(ctx)
	if !ok {
		httpx.WriteDetail(w, http.StatusUnauthorized, "authentication required")
		return
	}

	res, err := h.UserService.DeleteUserAndProfile(ctx, userID)
	if err != nil {
		slogx.FromContext(ctx).Error("account deletion failed", "err", err)
		httpx.WriteServerError(w)
		return
	}
	if !res.Success() {
		httpx.WriteDetail(w, http.StatusBadRequest, res.ErrMsg())
		return
	}

	httpx.WriteJSON(w, http.StatusOK, MessageResponse{Message: res.Value()})
}
