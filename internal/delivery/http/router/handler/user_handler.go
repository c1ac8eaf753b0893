package handler

import (
	"net/http"

	"authgate/internal/delivery/http/middleware"
	"authgate/internal/delivery/http/response"
	"authgate/internal/domain/entity"

	"github.com/labstack/echo/v4"
)

// UserHandler holds dependencies for user-related handlers.
type UserHandler struct{}

// NewUserHandler is the constructor for UserHandler, injected by Fx.
func NewUserHandler() *UserHandler {
	return &UserHandler{}
}

// GetProfile returns the authenticated user's profile. The auth middleware
// has already re-resolved the user, so the view reflects current state, not
// the snapshot embedded in the token.
func (h *UserHandler) GetProfile(c echo.Context) error {
	user, ok := c.Get(middleware.ContextKeyUser).(*entity.User)
	if !ok {
		return response.Unauthorized(c, "NOT_AUTHENTICATED", "Missing authenticated user")
	}

	tokenData, _ := c.Get(middleware.ContextKeyTokenData).(map[string]any)

	return response.Success(c, http.StatusOK, map[string]any{
		"user":      newUserView(user),
		"tokenData": tokenData,
	}, "Profile retrieved successfully")
}
