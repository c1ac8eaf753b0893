// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import (
	"strings"
	"time"
)

// User is the core entity in the system, representing a single account.
// PasswordHash is opaque at this layer: it may be a legacy digest imported
// from an older system or a modern adaptive hash. Classification happens in
// the password verifier, never here.
type User struct {
	ID           string     // The unique identifier for the user record.
	Name         string     // The user's display name or real name.
	Email        string     // The user's contact email, usable as a login identifier.
	Username     string     // The short login name, usable as a login identifier.
	PasswordHash string     // The stored password hash, read-only during verification.
	Admin        bool       // Site-administrator flag.
	CreatedAt    time.Time  // Timestamp of when this user account was created.
	Properties   []Property // Free-form property bag attached to the account.
}

// Property is a single named value attached to a user account.
// A user may carry several values under the same name.
type Property struct {
	ID     string // The unique ID of this property record.
	UserID string // Links the property to the User it belongs to.
	Name   string
	Value  string
}

// GetProperty returns every value stored under the given property name.
func (u *User) GetProperty(name string) []string {
	var values []string
	for _, prop := range u.Properties {
		if prop.Name == name {
			values = append(values, prop.Value)
		}
	}

	return values
}

// HasProperty reports whether a property with the given name (and value,
// when value is non-empty) exists on the user.
func (u *User) HasProperty(name, value string) bool {
	for _, prop := range u.Properties {
		if prop.Name == name && (value == "" || prop.Value == value) {
			return true
		}
	}

	return false
}

// ParseAdminFlag interprets the historical admin column values.
// Imported datasets stored the flag as free text ("yes", "Y", "true", "1").
func ParseAdminFlag(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "yes", "y", "true", "t", "1":
		return true
	default:
		return false
	}
}
