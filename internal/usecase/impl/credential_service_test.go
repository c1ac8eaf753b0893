package impl

import (
	"context"
	"testing"

	"authgate/internal/domain/entity"
	"authgate/internal/domain/repository"
	"authgate/internal/domain/service"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCredentialService_Verify(t *testing.T) {
	cfg := testConfig(t)
	fixture := newTestFixture(t, cfg)
	fixture.addUser(t, "user2", "user2@example.com", "pwd2")

	svc := NewCredentialService(fixture.repo, fixture.verifier, testLogger())

	t.Run("matching credentials return the user", func(t *testing.T) {
		user, err := svc.Verify(context.Background(), "user2", "pwd2")
		require.NoError(t, err)
		require.NotNil(t, user)
		assert.Equal(t, "user2", user.Username)
		assert.Equal(t, "user2@example.com", user.Email)
	})

	t.Run("wrong password yields no user and no error", func(t *testing.T) {
		user, err := svc.Verify(context.Background(), "user2", "wrong")
		require.NoError(t, err)
		assert.Nil(t, user)
	})

	t.Run("unknown login yields no user and no error", func(t *testing.T) {
		user, err := svc.Verify(context.Background(), "nobody", "pwd2")
		require.NoError(t, err)
		assert.Nil(t, user)
	})
}

func TestCredentialService_Verify_DisabledAccount(t *testing.T) {
	cfg := testConfig(t)
	fixture := newTestFixture(t, cfg)

	// The sentinel stored value must never match, including an attacker
	// supplying the sentinel itself as the password.
	require.NoError(t, fixture.repo.Create(context.Background(), &entity.User{
		Username:     "disabled",
		Email:        "disabled@example.com",
		PasswordHash: service.PasswordNotCached,
	}))

	svc := NewCredentialService(fixture.repo, fixture.verifier, testLogger())

	for _, password := range []string{"pwd2", "not cached", ""} {
		user, err := svc.Verify(context.Background(), "disabled", password)
		require.NoError(t, err)
		assert.Nil(t, user)
	}
}

func TestCredentialService_Verify_EmailLoginField(t *testing.T) {
	cfg := testConfig(t)
	cfg.Auth.LoginField = "email"
	fixture := newTestFixture(t, cfg)
	fixture.addUser(t, "user2", "user2@example.com", "pwd2")

	svc := NewCredentialService(fixture.repo, fixture.verifier, testLogger())

	user, err := svc.Verify(context.Background(), "user2@example.com", "pwd2")
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, "user2", user.Username)

	// The username is not the login field in this configuration.
	user, err = svc.Verify(context.Background(), "user2", "pwd2")
	require.NoError(t, err)
	assert.Nil(t, user)
}

// failingRepo reports an infrastructure failure on every lookup.
type failingRepo struct {
	repository.UserRepository
}

func (failingRepo) FindByLogin(context.Context, string) (*entity.User, error) {
	return nil, errors.New("connection refused")
}

func TestCredentialService_Verify_RepositoryFailure(t *testing.T) {
	cfg := testConfig(t)
	fixture := newTestFixture(t, cfg)

	svc := NewCredentialService(failingRepo{}, fixture.verifier, testLogger())

	user, err := svc.Verify(context.Background(), "user2", "pwd2")
	require.Error(t, err)
	assert.Nil(t, user)
	assert.Contains(t, err.Error(), "failed to find user by login")
}
