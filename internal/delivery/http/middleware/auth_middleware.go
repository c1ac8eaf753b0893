package middleware

import (
	"strings"

	"authgate/internal/delivery/http/response"
	"authgate/internal/usecase"

	"github.com/labstack/echo/v4"
)

// Header names carrying the binding triple the token was issued for. The
// token alone is not enough: the caller must restate who it claims to be.
const (
	HeaderAuthLogin  = "X-Auth-Login"
	HeaderAuthDomain = "X-Auth-Domain"
	HeaderAuthClient = "X-Auth-Client"
)

// Context keys set for downstream handlers after a successful validation.
const (
	ContextKeyUser      = "user"
	ContextKeyTokenData = "tokenData"
)

// AuthMiddleware validates bearer tokens against the binding triple supplied
// in the request headers. Every failure is reported identically so a caller
// cannot probe which check rejected it.
type AuthMiddleware struct {
	tokens usecase.TokenUsecase
}

// NewAuthMiddleware is the constructor for AuthMiddleware.
func NewAuthMiddleware(tokens usecase.TokenUsecase) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens}
}

// Authenticate validates the Authorization bearer token together with the
// X-Auth-Login, X-Auth-Domain and X-Auth-Client headers.
func (m *AuthMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		authHeader := c.Request().Header.Get("Authorization")
		if authHeader == "" {
			return response.Unauthorized(c, "NOT_AUTHENTICATED", "Authorization header is missing")
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			return response.Unauthorized(c, "NOT_AUTHENTICATED", "Invalid token format, must be Bearer token")
		}

		input := &usecase.ValidateTokenInput{
			Login:    c.Request().Header.Get(HeaderAuthLogin),
			Domain:   c.Request().Header.Get(HeaderAuthDomain),
			ClientID: c.Request().Header.Get(HeaderAuthClient),
			Token:    tokenString,
		}

		output, err := m.tokens.Validate(c.Request().Context(), input)
		if err != nil {
			return response.Unauthorized(c, "NOT_AUTHENTICATED", "Invalid or expired token")
		}

		c.Set(ContextKeyUser, output.User)
		c.Set(ContextKeyTokenData, output.TokenData)

		return next(c)
	}
}
