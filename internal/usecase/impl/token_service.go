package impl

import (
	"context"
	"log/slog"
	"time"

	"authgate/config"
	"authgate/internal/domain/entity"
	domainerrors "authgate/internal/domain/errors"
	"authgate/internal/domain/repository"
	"authgate/internal/domain/service"
	"authgate/internal/usecase"

	"github.com/pkg/errors"
)

// tokenService implements the TokenUsecase interface. It keeps no state
// across calls: the encoded token itself is the only record of issuance.
type tokenService struct {
	credentials usecase.CredentialUsecase
	codec       service.TokenCodec
	userRepo    repository.UserRepository
	defaultTTL  time.Duration
	logger      *slog.Logger

	// now is the single clock for issuance and expiration checks.
	now func() time.Time
}

// NewTokenService is the constructor for tokenService.
func NewTokenService(
	credentials usecase.CredentialUsecase,
	codec service.TokenCodec,
	userRepo repository.UserRepository,
	cfg *config.Config,
	logger *slog.Logger,
) usecase.TokenUsecase {
	defaultTTL := time.Duration(0)
	if cfg != nil && cfg.Token != nil {
		defaultTTL = cfg.Token.DefaultTTL
	}

	return &tokenService{
		credentials: credentials,
		codec:       codec,
		userRepo:    userRepo,
		defaultTTL:  defaultTTL,
		logger:      logger,
		now:         time.Now,
	}
}

// Issue authenticates the credentials and encodes a token bound to the
// (login, domain, clientID) triple.
func (srv *tokenService) Issue(ctx context.Context, input *usecase.IssueTokenInput) (*usecase.IssueTokenOutput, error) {
	user, err := srv.credentials.Verify(ctx, input.Login, input.Password)
	if err != nil {
		return nil, errors.Wrap(err, "failed to verify credentials during token issuance")
	}
	if user == nil {
		srv.logger.Warn("Token issuance rejected", slog.String("login", input.Login), slog.String("domain", input.Domain))

		return nil, errors.Wrap(domainerrors.ErrAuthenticationFailed, "token issuance rejected")
	}

	ttl := input.TTL
	if ttl <= 0 {
		ttl = srv.defaultTTL
	}

	issuedAt := srv.now()
	token := &entity.AuthToken{
		Username:  input.Login,
		Domain:    input.Domain,
		ClientID:  input.ClientID,
		IssuedAt:  issuedAt,
		ExpiresAt: issuedAt.Add(ttl),
		UserData:  input.UserData,
		TokenData: input.TokenData,
	}

	encoded, err := srv.codec.Encode(token)
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode token")
	}

	srv.logger.Debug("Token issued",
		slog.String("login", input.Login),
		slog.String("domain", input.Domain),
		slog.String("clientID", input.ClientID),
		slog.Time("expiresAt", token.ExpiresAt),
	)

	return &usecase.IssueTokenOutput{Token: encoded, User: user}, nil
}

// Validate decodes the token and enforces the binding triple and expiration.
// Decode failures, binding mismatches, expiration and unknown users are all
// reported as the same ErrNotAuthenticated so a caller cannot probe which
// check failed; the wrapped context keeps them distinguishable in logs.
func (srv *tokenService) Validate(ctx context.Context, input *usecase.ValidateTokenInput) (*usecase.ValidateTokenOutput, error) {
	token, err := srv.codec.Decode(input.Token)
	if err != nil {
		srv.logger.Debug("Token validation failed", slog.String("reason", "decode"), slog.Any("error", err))

		return nil, errors.Wrap(domainerrors.ErrNotAuthenticated, "token decode failed")
	}

	if !token.MatchesBinding(input.Login, input.Domain, input.ClientID) {
		srv.logger.Debug("Token validation failed",
			slog.String("reason", "binding mismatch"),
			slog.String("login", input.Login),
			slog.String("domain", input.Domain),
		)

		return nil, errors.Wrap(domainerrors.ErrNotAuthenticated, "token binding mismatch")
	}

	if token.Expired(srv.now()) {
		srv.logger.Debug("Token validation failed", slog.String("reason", "expired"), slog.String("login", input.Login))

		return nil, errors.Wrap(domainerrors.ErrNotAuthenticated, "token expired")
	}

	// Fresh lookup: the token's embedded user data may be stale, and the
	// account may have been removed or disabled since issuance.
	user, err := srv.userRepo.FindByLogin(ctx, input.Login)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			srv.logger.Debug("Token validation failed", slog.String("reason", "user vanished"), slog.String("login", input.Login))

			return nil, errors.Wrap(domainerrors.ErrNotAuthenticated, "user no longer resolvable")
		}

		return nil, errors.Wrap(err, "failed to re-resolve user during token validation")
	}

	return &usecase.ValidateTokenOutput{User: user, TokenData: token.TokenData}, nil
}
