package memory

import (
	"context"
	"testing"

	"authgate/config"
	"authgate/internal/domain/entity"
	"authgate/internal/domain/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRepo(t *testing.T, loginField string) repository.UserRepository {
	t.Helper()

	repo, err := NewUserRepository(&config.Config{
		Auth: &config.AuthConfig{LoginField: loginField},
	})
	require.NoError(t, err)

	return repo
}

func TestUserRepository_CreateAndFind(t *testing.T) {
	repo := newRepo(t, config.LoginFieldUsername)
	ctx := context.Background()

	user := &entity.User{Name: "John Doe", Username: "john", Email: "john@example.com"}
	require.NoError(t, repo.Create(ctx, user))

	// Username doubles as the ID when none was supplied.
	assert.Equal(t, "john", user.ID)

	found, err := repo.FindByLogin(ctx, "john")
	require.NoError(t, err)
	assert.Equal(t, "john@example.com", found.Email)

	found, err = repo.FindByEmail(ctx, "john@example.com")
	require.NoError(t, err)
	assert.Equal(t, "john", found.Username)

	_, err = repo.FindByLogin(ctx, "nobody")
	assert.ErrorIs(t, err, repository.ErrUserNotFound)
}

func TestUserRepository_CreateDuplicate(t *testing.T) {
	repo := newRepo(t, config.LoginFieldUsername)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &entity.User{Username: "john", Email: "john@example.com"}))

	err := repo.Create(ctx, &entity.User{Username: "john", Email: "other@example.com"})
	assert.ErrorIs(t, err, repository.ErrUserExists)

	err = repo.Create(ctx, &entity.User{Username: "johnny", Email: "john@example.com"})
	assert.ErrorIs(t, err, repository.ErrUserExists)
}

func TestUserRepository_PasswordWriteRule(t *testing.T) {
	repo := newRepo(t, config.LoginFieldUsername)
	ctx := context.Background()

	// A plaintext password is stored as the legacy 40-hex uppercase digest.
	user := &entity.User{Username: "john", Email: "john@example.com", PasswordHash: "mypassword"}
	require.NoError(t, repo.Create(ctx, user))

	found, err := repo.FindByUsername(ctx, "john")
	require.NoError(t, err)
	assert.Equal(t, "91DFD9DDB4198AFFC5C194CD8CE6D338FDE470E2", found.PasswordHash)

	// A self-describing adaptive hash passes through untouched.
	adaptive := "$argon2id$v=19$m=65536,t=1,p=4$c2FsdHNhbHRzYWx0c2FsdA$AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA"
	user = &entity.User{Username: "jane", Email: "jane@example.com", PasswordHash: adaptive}
	require.NoError(t, repo.Create(ctx, user))

	found, err = repo.FindByUsername(ctx, "jane")
	require.NoError(t, err)
	assert.Equal(t, adaptive, found.PasswordHash)
}

func TestUserRepository_RemoveByLogin(t *testing.T) {
	repo := newRepo(t, config.LoginFieldEmail)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &entity.User{Username: "john", Email: "john@example.com"}))

	removed, err := repo.RemoveByLogin(ctx, "john@example.com")
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = repo.RemoveByLogin(ctx, "john@example.com")
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestUserRepository_Properties(t *testing.T) {
	repo := newRepo(t, config.LoginFieldUsername)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &entity.User{Username: "john", Email: "john@example.com"}))
	require.NoError(t, repo.Create(ctx, &entity.User{Username: "jane", Email: "jane@example.com"}))

	require.NoError(t, repo.AddProperty(ctx, "john", "roles", "editor"))
	require.NoError(t, repo.AddProperty(ctx, "john", "roles", "reviewer"))
	require.NoError(t, repo.AddProperty(ctx, "jane", "roles", "editor"))

	// Adding the same pair twice is a no-op.
	require.NoError(t, repo.AddProperty(ctx, "john", "roles", "editor"))

	user, err := repo.FindByUsername(ctx, "john")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"editor", "reviewer"}, user.GetProperty("roles"))

	require.NoError(t, repo.RemoveProperty(ctx, "john", "roles", "reviewer"))
	user, err = repo.FindByUsername(ctx, "john")
	require.NoError(t, err)
	assert.Equal(t, []string{"editor"}, user.GetProperty("roles"))

	require.NoError(t, repo.RemoveAllProperties(ctx, "roles", "editor"))
	for _, username := range []string{"john", "jane"} {
		user, err = repo.FindByUsername(ctx, username)
		require.NoError(t, err)
		assert.Empty(t, user.GetProperty("roles"))
	}

	err = repo.AddProperty(ctx, "ghost", "roles", "editor")
	assert.ErrorIs(t, err, repository.ErrUserNotFound)
}
