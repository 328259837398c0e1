package http

import (
	"encoding/base64"
	"time"

	"github.com/michat/michat/internal/access/domain"
)

// MessageResponse is the body for operations whose only output is a
// human-readable confirmation.
type MessageResponse struct {
	Message string `json:"message"`
}

// TokenResponse is the authorization response body.
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
}

// AccessTokenResponse is the refresh response body.
type AccessTokenResponse struct {
	AccessToken string `json:"access_token"`
}

// UserResponse is the account summary returned by credential updates. The
// password hash never leaves the service.
type UserResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func newUserResponse(u domain.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		Username:  u.Username,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// ProfileResponse carries the profile over the wire. Birthday is an ISO
// date and the image travels base64-encoded.
type ProfileResponse struct {
	Name     *string `json:"name"`
	AboutMe  *string `json:"about_me"`
	Birthday *string `json:"birthday"`
	Image    *string `json:"image"`
}

func newProfileResponse(p domain.Profile) ProfileResponse {
	resp := ProfileResponse{
		Name:    p.Name,
		AboutMe: p.AboutMe,
	}
	if p.Birthday != nil {
		d := p.Birthday.Format("2006-01-02")
		resp.Birthday = &d
	}
	if len(p.Image) > 0 {
		img := base64.StdEncoding.EncodeToString(p.Image)
		resp.Image = &img
	}
	return resp
}

// HealthChecks reports per-dependency status on the readiness probe.
type HealthChecks struct {
	Database string `json:"database"`
}

// HealthResponse is the body for the health probes.
type HealthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime"`
	Version string        `json:"version"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}
