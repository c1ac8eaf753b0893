// Package usecase defines the application's business-logic interfaces and
// their input/output contracts.
package usecase

import (
	"context"
	"time"

	"authgate/internal/domain/entity"
)

// CredentialUsecase verifies a login identifier and plaintext password
// against the stored hash.
type CredentialUsecase interface {
	// Verify returns the matching user on success and (nil, nil) when the
	// user is unknown or the password does not match. A wrong password is an
	// expected outcome, not an error; errors are reserved for infrastructure
	// failures. Verify has no side effects.
	Verify(ctx context.Context, login, password string) (*entity.User, error)
}

// IssueTokenInput carries everything needed to issue a token.
type IssueTokenInput struct {
	Login     string // Login identifier; also becomes the token's username binding.
	Password  string
	Domain    string // Application domain to bind the token to.
	ClientID  string // Client identifier to bind the token to.
	TTL       time.Duration
	UserData  map[string]any
	TokenData map[string]any
}

// IssueTokenOutput is the result of a successful issuance: the opaque token
// string together with the resolved user record.
type IssueTokenOutput struct {
	Token string
	User  *entity.User
}

// ValidateTokenInput carries a caller-supplied binding triple and the token
// to redeem against it.
type ValidateTokenInput struct {
	Login    string
	Domain   string
	ClientID string
	Token    string
}

// ValidateTokenOutput returns the freshly resolved user and the opaque
// payload the token carried since issuance.
type ValidateTokenOutput struct {
	User      *entity.User
	TokenData map[string]any
}

// TokenUsecase issues and validates stateless bearer tokens bound to a
// (username, domain, clientID) triple.
type TokenUsecase interface {
	// Issue verifies the credentials and, on success, encodes a token that
	// expires after the given TTL. A failed credential check surfaces as
	// domainerrors.ErrAuthenticationFailed and no token is produced.
	Issue(ctx context.Context, input *IssueTokenInput) (*IssueTokenOutput, error)

	// Validate decodes the token, requires its embedded triple to equal the
	// caller-supplied one, enforces expiration, and re-resolves the user by
	// login for fresh account data. Every failure mode collapses into
	// domainerrors.ErrNotAuthenticated.
	Validate(ctx context.Context, input *ValidateTokenInput) (*ValidateTokenOutput, error)
}
