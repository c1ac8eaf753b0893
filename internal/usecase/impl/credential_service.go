// Package impl contains the implementation of the application's business logic.
package impl

import (
	"context"
	"log/slog"

	"authgate/internal/domain/entity"
	"authgate/internal/domain/repository"
	"authgate/internal/domain/service"
	"authgate/internal/usecase"

	"github.com/pkg/errors"
)

// credentialService implements the CredentialUsecase interface.
type credentialService struct {
	userRepo repository.UserRepository
	verifier service.PasswordVerifier
	logger   *slog.Logger
}

// NewCredentialService is the constructor for credentialService. It receives
// all dependencies as interfaces.
func NewCredentialService(
	userRepo repository.UserRepository,
	verifier service.PasswordVerifier,
	logger *slog.Logger,
) usecase.CredentialUsecase {
	return &credentialService{
		userRepo: userRepo,
		verifier: verifier,
		logger:   logger,
	}
}

// Verify resolves the user by the configured login field and checks the
// password against the stored hash. An unknown user and a wrong password
// both yield (nil, nil): the caller only learns that the pair did not match.
func (srv *credentialService) Verify(ctx context.Context, login, password string) (*entity.User, error) {
	user, err := srv.userRepo.FindByLogin(ctx, login)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			srv.logger.Debug("Credential check for unknown login", slog.String("login", login))

			return nil, nil
		}

		return nil, errors.Wrap(err, "failed to find user by login")
	}

	if !srv.verifier.Verify(password, user.PasswordHash) {
		srv.logger.Debug("Credential check rejected", slog.String("login", login))

		return nil, nil
	}

	return user, nil
}
