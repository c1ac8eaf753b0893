// Package memory provides an in-memory implementation of the persistence
// layer, suitable for tests and single-process deployments with small user
// sets.
package memory

import (
	"context"
	"strings"
	"sync"

	"authgate/config"
	"authgate/internal/domain/entity"
	"authgate/internal/domain/repository"
	"authgate/internal/domain/service"
	"authgate/internal/infra/auth"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// userRepository implements repository.UserRepository with a mutex-guarded
// map. Entities are deep-copied on the way in and out so callers can never
// mutate stored state behind the lock.
type userRepository struct {
	mu         sync.RWMutex
	loginField string
	users      map[string]*entity.User // keyed by ID
}

// NewUserRepository is the constructor for userRepository.
func NewUserRepository(cfg *config.Config) (repository.UserRepository, error) {
	loginField := config.LoginFieldUsername
	if cfg != nil && cfg.Auth != nil && cfg.Auth.LoginField != "" {
		loginField = cfg.Auth.LoginField
	}

	switch loginField {
	case config.LoginFieldUsername, config.LoginFieldEmail:
	default:
		return nil, errors.Errorf("unsupported login field %q", loginField)
	}

	return &userRepository{
		loginField: loginField,
		users:      make(map[string]*entity.User),
	}, nil
}

// FindByLogin retrieves a single user by the configured login field.
func (repo *userRepository) FindByLogin(ctx context.Context, login string) (*entity.User, error) {
	if repo.loginField == config.LoginFieldEmail {
		return repo.FindByEmail(ctx, login)
	}

	return repo.FindByUsername(ctx, login)
}

// FindByID retrieves a single user by their unique ID.
func (repo *userRepository) FindByID(_ context.Context, id string) (*entity.User, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	user, ok := repo.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}

	return copyUser(user), nil
}

// FindByUsername retrieves a single user by their username.
func (repo *userRepository) FindByUsername(_ context.Context, username string) (*entity.User, error) {
	return repo.findBy(func(u *entity.User) bool { return u.Username == username })
}

// FindByEmail retrieves a single user by their email address.
func (repo *userRepository) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	return repo.findBy(func(u *entity.User) bool { return u.Email == email })
}

func (repo *userRepository) findBy(match func(*entity.User) bool) (*entity.User, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	for _, user := range repo.users {
		if match(user) {
			return copyUser(user), nil
		}
	}

	return nil, repository.ErrUserNotFound
}

// Create persists a new user, applying the password write rule. The username
// doubles as the record ID when none is supplied, matching the historical
// dataset behaviour.
func (repo *userRepository) Create(_ context.Context, user *entity.User) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	for _, existing := range repo.users {
		if existing.Username == user.Username || existing.Email == user.Email {
			return repository.ErrUserExists
		}
	}

	if user.ID == "" {
		if user.Username != "" {
			user.ID = user.Username
		} else {
			user.ID = uuid.NewString()
		}
	}
	user.PasswordHash = storedPassword(user.PasswordHash)

	repo.users[user.ID] = copyUser(user)

	return nil
}

// Update replaces the stored user, applying the password write rule.
func (repo *userRepository) Update(_ context.Context, user *entity.User) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	if _, ok := repo.users[user.ID]; !ok {
		return repository.ErrUserNotFound
	}

	user.PasswordHash = storedPassword(user.PasswordHash)
	repo.users[user.ID] = copyUser(user)

	return nil
}

// RemoveByLogin deletes the user resolved by the configured login field.
func (repo *userRepository) RemoveByLogin(ctx context.Context, login string) (bool, error) {
	user, err := repo.FindByLogin(ctx, login)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return false, nil
		}

		return false, err
	}

	return repo.RemoveByID(ctx, user.ID)
}

// RemoveByID deletes the user with the given ID.
func (repo *userRepository) RemoveByID(_ context.Context, id string) (bool, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	if _, ok := repo.users[id]; !ok {
		return false, nil
	}
	delete(repo.users, id)

	return true, nil
}

// AddProperty attaches a named value unless the exact pair already exists.
func (repo *userRepository) AddProperty(_ context.Context, userID, name, value string) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	user, ok := repo.users[userID]
	if !ok {
		return repository.ErrUserNotFound
	}

	if user.HasProperty(name, value) {
		return nil
	}

	user.Properties = append(user.Properties, entity.Property{
		ID:     uuid.NewString(),
		UserID: userID,
		Name:   name,
		Value:  value,
	})

	return nil
}

// RemoveProperty removes the user's properties with the given name.
func (repo *userRepository) RemoveProperty(_ context.Context, userID, name, value string) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	user, ok := repo.users[userID]
	if !ok {
		return repository.ErrUserNotFound
	}

	user.Properties = filterProperties(user.Properties, name, value)

	return nil
}

// RemoveAllProperties removes the named property from every user.
func (repo *userRepository) RemoveAllProperties(_ context.Context, name, value string) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	for _, user := range repo.users {
		user.Properties = filterProperties(user.Properties, name, value)
	}

	return nil
}

func filterProperties(props []entity.Property, name, value string) []entity.Property {
	kept := props[:0]
	for _, prop := range props {
		if prop.Name == name && (value == "" || prop.Value == value) {
			continue
		}
		kept = append(kept, prop)
	}

	return kept
}

// storedPassword applies the write rule for the password field. Adaptive
// hashes are self-describing and pass through; everything else follows the
// historical rule (40-hex pass-through, empty stays empty, plaintext is
// hashed with the legacy uppercase scheme).
func storedPassword(value string) string {
	if strings.HasPrefix(value, "$") || value == service.PasswordNotCached {
		return value
	}

	return auth.LegacyWriteHash(value)
}

func copyUser(user *entity.User) *entity.User {
	cloned := *user
	cloned.Properties = append([]entity.Property(nil), user.Properties...)

	return &cloned
}
