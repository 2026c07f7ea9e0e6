// Login endpoint.

package handlers

import (
	"context"

	"github.com/sitegrid/sitegrid/internal/server/dto"
)

// Authenticator issues a session token for a valid password.
type Authenticator interface {
	Login(password string) (string, error)
	Enabled() bool
}

// AuthHandler handles authentication requests.
type AuthHandler struct {
	auth Authenticator
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(auth Authenticator) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// Login exchanges the shared password for a bearer token.
func (h *AuthHandler) Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error) {
	if !h.auth.Enabled() {
		return nil, dto.BadRequest("authentication is not configured")
	}
	token, err := h.auth.Login(req.Password)
	if err != nil {
		return nil, dto.Unauthorized().Wrap(err)
	}
	return &dto.LoginResponse{Token: token}, nil
}
