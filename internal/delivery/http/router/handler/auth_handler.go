// Package handler contains the HTTP handlers for the application.
package handler

import (
	"log/slog"
	"net/http"
	"time"

	"authgate/internal/delivery/http/response"
	"authgate/internal/domain/entity"
	domainerrors "authgate/internal/domain/errors"
	"authgate/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// AuthHandler holds dependencies for authentication handlers.
type AuthHandler struct {
	credentials usecase.CredentialUsecase
	tokens      usecase.TokenUsecase
	logger      *slog.Logger
}

// NewAuthHandler is the constructor for AuthHandler, injected by Fx.
func NewAuthHandler(credentials usecase.CredentialUsecase, tokens usecase.TokenUsecase, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		credentials: credentials,
		tokens:      tokens,
		logger:      logger,
	}
}

type loginRequest struct {
	Login    string `json:"login" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type issueTokenRequest struct {
	Login      string         `json:"login" validate:"required"`
	Password   string         `json:"password" validate:"required"`
	Domain     string         `json:"domain" validate:"required"`
	ClientID   string         `json:"clientId" validate:"required"`
	TTLSeconds int64          `json:"ttlSeconds"`
	UserData   map[string]any `json:"userData"`
	TokenData  map[string]any `json:"tokenData"`
}

type validateTokenRequest struct {
	Login    string `json:"login" validate:"required"`
	Domain   string `json:"domain" validate:"required"`
	ClientID string `json:"clientId" validate:"required"`
	Token    string `json:"token" validate:"required"`
}

// userView is the outward shape of a user record. The stored password hash
// never leaves the service.
type userView struct {
	ID         string            `json:"id"`
	Name       string            `json:"name"`
	Username   string            `json:"username"`
	Email      string            `json:"email"`
	Admin      bool              `json:"admin"`
	Properties []entity.Property `json:"properties,omitempty"`
}

func newUserView(user *entity.User) *userView {
	return &userView{
		ID:         user.ID,
		Name:       user.Name,
		Username:   user.Username,
		Email:      user.Email,
		Admin:      user.Admin,
		Properties: user.Properties,
	}
}

// Login handles the credential check request.
func (h *AuthHandler) Login(c echo.Context) error {
	var input loginRequest
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid login input")
	}
	if err := c.Validate(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Missing login or password")
	}

	user, err := h.credentials.Verify(c.Request().Context(), input.Login, input.Password)
	if err != nil {
		return errors.WithStack(err)
	}
	if user == nil {
		return errors.WithStack(domainerrors.ErrAuthenticationFailed)
	}

	return response.Success(c, http.StatusOK, newUserView(user), "Login successful")
}

// IssueToken handles the token issuance request.
func (h *AuthHandler) IssueToken(c echo.Context) error {
	var input issueTokenRequest
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid token request")
	}
	if err := c.Validate(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Missing token request fields")
	}

	output, err := h.tokens.Issue(c.Request().Context(), &usecase.IssueTokenInput{
		Login:     input.Login,
		Password:  input.Password,
		Domain:    input.Domain,
		ClientID:  input.ClientID,
		TTL:       time.Duration(input.TTLSeconds) * time.Second,
		UserData:  input.UserData,
		TokenData: input.TokenData,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, map[string]any{
		"token": output.Token,
		"user":  newUserView(output.User),
	}, "Token issued successfully")
}

// ValidateToken handles the token validation request.
func (h *AuthHandler) ValidateToken(c echo.Context) error {
	var input validateTokenRequest
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid validation request")
	}
	if err := c.Validate(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Missing validation request fields")
	}

	output, err := h.tokens.Validate(c.Request().Context(), &usecase.ValidateTokenInput{
		Login:    input.Login,
		Domain:   input.Domain,
		ClientID: input.ClientID,
		Token:    input.Token,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, map[string]any{
		"user":      newUserView(output.User),
		"tokenData": output.TokenData,
	}, "Token is valid")
}

// HealthCheck is a simple handler to check if the service is up.
func HealthCheck(c echo.Context) error {
	return response.Success(c, http.StatusOK, map[string]string{"status": "ok"}, "Service is healthy")
}
