// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import "time"

// AuthToken is the decoded form of a bearer token. It is self-describing:
// the server keeps no registry of issued tokens, so everything needed to
// validate it travels inside the encoded string. Once encoded a token is
// immutable; its lifetime is bounded solely by ExpiresAt.
type AuthToken struct {
	Username  string         // Login name of the user the token was issued to.
	Domain    string         // Application domain the token is bound to.
	ClientID  string         // Client identifier the token is bound to.
	IssuedAt  time.Time      // When the token was created.
	ExpiresAt time.Time      // When the token stops being accepted.
	UserData  map[string]any // Opaque payload describing the user at issue time.
	TokenData map[string]any // Opaque payload carried back to the caller on validation.
}

// MatchesBinding reports whether the token was issued for exactly the given
// (username, domain, clientID) triple. Strict equality on every field keeps
// a token issued for one application/client from being replayed against
// another.
func (t *AuthToken) MatchesBinding(username, domain, clientID string) bool {
	return t.Username == username && t.Domain == domain && t.ClientID == clientID
}

// Expired reports whether the token is past its expiration at the given time.
func (t *AuthToken) Expired(now time.Time) bool {
	return now.After(t.ExpiresAt)
}
