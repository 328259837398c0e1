package http

import (
	"encoding/json"
	"net/http"

	"github.com/michat/michat/internal/access/service"
	"github.com/michat/michat/pkg/httpx"
	"github.com/michat/michat/pkg/slogx"
)

// RegisterHandler serves POST /access/register. Accepts a JSON body with
// email, username and password.
type RegisterHandler struct {
	AuthService *service.AuthService
}

func (h *RegisterHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req service.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteDetail(w, http.StatusBadRequest, "invalid request body")
		return
	}

	res, err := h.AuthService.Register(ctx, req)
	if err != nil {
		slogx.FromContext(ctx).Error("registration failed", "err", err)
		httpx.WriteServerError(w)
		return
	}
	if !res.Success() {
		httpx.WriteDetail(w, http.StatusBadRequest, res.ErrMsg())
		return
	}

	httpx.WriteJSON(w, http.StatusOK, MessageResponse{Message: res.Value()})
}
