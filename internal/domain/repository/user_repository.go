// Package repository defines the interfaces for the persistence layer.
// These interfaces act as a contract between the domain/application layers and the infrastructure layer.
package repository

import (
	"context"
	"errors"

	"authgate/internal/domain/entity"
)

// Domain-specific errors for user persistence.
// This allows the application layer to handle specific outcomes without depending on database-specific errors.
var (
	// ErrUserNotFound is returned when a user is not found.
	ErrUserNotFound = errors.New("user not found")
	// ErrUserExists is returned when a username or email is already taken.
	ErrUserExists = errors.New("user already exists")
	// ErrNotImplemented is returned by read-only schema adapters for write operations.
	ErrNotImplemented = errors.New("operation not implemented for this dataset")
)

// UserRepository defines the standard operations for user persistence.
// The application layer depends on this interface, not the concrete implementation.
//
// Lookup misses are reported as ErrUserNotFound, never as nil results,
// so callers can distinguish "no such user" from infrastructure failures.
type UserRepository interface {
	// FindByLogin retrieves a single user by the repository's configured
	// login field (username or email).
	FindByLogin(ctx context.Context, login string) (*entity.User, error)

	// FindByID retrieves a single user by their unique ID.
	FindByID(ctx context.Context, id string) (*entity.User, error)

	// FindByUsername retrieves a single user by their username.
	FindByUsername(ctx context.Context, username string) (*entity.User, error)

	// FindByEmail retrieves a single user by their email address.
	FindByEmail(ctx context.Context, email string) (*entity.User, error)

	// Create persists a new user. The password hash write rule is applied
	// before storage. Returns ErrUserExists on duplicate username or email.
	Create(ctx context.Context, user *entity.User) error

	// Update modifies an existing user entity, including its properties.
	Update(ctx context.Context, user *entity.User) error

	// RemoveByLogin deletes the user resolved by the configured login field.
	// Reports whether a user was actually removed.
	RemoveByLogin(ctx context.Context, login string) (bool, error)

	// RemoveByID deletes the user with the given ID and all their properties.
	RemoveByID(ctx context.Context, id string) (bool, error)

	// AddProperty attaches a named value to the user unless the exact
	// name/value pair is already present.
	AddProperty(ctx context.Context, userID, name, value string) error

	// RemoveProperty removes the user's properties with the given name.
	// An empty value removes every value stored under the name.
	RemoveProperty(ctx context.Context, userID, name, value string) error

	// RemoveAllProperties removes the named property from every user.
	// An empty value removes every value stored under the name.
	RemoveAllProperties(ctx context.Context, name, value string) error
}
