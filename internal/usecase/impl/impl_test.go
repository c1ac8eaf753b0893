package impl

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"authgate/config"
	"authgate/internal/domain/entity"
	"authgate/internal/domain/repository"
	"authgate/internal/domain/service"
	"authgate/internal/infra/auth"
	"authgate/internal/infra/persistence/memory"

	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()

	return &config.Config{
		Auth: &config.AuthConfig{
			LoginField: config.LoginFieldUsername,
			SiteSalt:   "test-site-salt",
		},
		Token: &config.TokenConfig{
			Secret:     "0123456789abcdef0123456789abcdef",
			DefaultTTL: 20 * time.Minute,
		},
	}
}

// testFixture wires the in-memory repository against the real verifier and
// codec so the tests cover the same path production traffic takes.
type testFixture struct {
	repo     repository.UserRepository
	verifier service.PasswordVerifier
	codec    service.TokenCodec
}

func newTestFixture(t *testing.T, cfg *config.Config) *testFixture {
	t.Helper()

	repo, err := memory.NewUserRepository(cfg)
	require.NoError(t, err)

	verifier := auth.NewPasswordVerifier(cfg)
	codec, err := auth.NewTokenCodec(cfg)
	require.NoError(t, err)

	return &testFixture{repo: repo, verifier: verifier, codec: codec}
}

func (f *testFixture) addUser(t *testing.T, username, email, password string) *entity.User {
	t.Helper()

	hash, err := f.verifier.Hash(password)
	require.NoError(t, err)

	user := &entity.User{
		Name:         username,
		Username:     username,
		Email:        email,
		PasswordHash: hash,
	}
	require.NoError(t, f.repo.Create(context.Background(), user))

	return user
}
