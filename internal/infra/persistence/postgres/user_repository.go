// Package postgres contains the concrete implementation of the persistence layer using GORM and PostgreSQL.
package postgres

import (
	"context"
	"strings"

	"authgate/config"
	"authgate/internal/domain/entity"
	domainerrors "authgate/internal/domain/errors"
	"authgate/internal/domain/repository"
	"authgate/internal/domain/service"
	"authgate/internal/infra/auth"
	"authgate/internal/infra/persistence/model"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// userRepository implements the repository.UserRepository interface using GORM.
type userRepository struct {
	db         *gorm.DB
	loginField string
}

// NewUserRepository is the constructor for userRepository. The login field is
// fixed here; an unsupported value is a configuration error and fails fast.
func NewUserRepository(db *gorm.DB, cfg *config.Config) (repository.UserRepository, error) {
	loginField := config.LoginFieldUsername
	if cfg != nil && cfg.Auth != nil && cfg.Auth.LoginField != "" {
		loginField = cfg.Auth.LoginField
	}

	switch loginField {
	case config.LoginFieldUsername, config.LoginFieldEmail:
	default:
		return nil, errors.Errorf("unsupported login field %q", loginField)
	}

	return &userRepository{db: db, loginField: loginField}, nil
}

// FindByLogin retrieves a single user by the configured login field.
func (repo *userRepository) FindByLogin(ctx context.Context, login string) (*entity.User, error) {
	if repo.loginField == config.LoginFieldEmail {
		return repo.FindByEmail(ctx, login)
	}

	return repo.FindByUsername(ctx, login)
}

// FindByID retrieves a single user by their unique ID, preloading properties.
func (repo *userRepository) FindByID(ctx context.Context, id string) (*entity.User, error) {
	return repo.findOne(ctx, "id = ?", id)
}

// FindByUsername retrieves a single user by their username.
func (repo *userRepository) FindByUsername(ctx context.Context, username string) (*entity.User, error) {
	return repo.findOne(ctx, "username = ?", username)
}

// FindByEmail retrieves a single user by their email address.
func (repo *userRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	return repo.findOne(ctx, "email = ?", email)
}

func (repo *userRepository) findOne(ctx context.Context, query string, arg any) (*entity.User, error) {
	var userM model.UserModel

	err := repo.db.WithContext(ctx).
		Preload("Properties").
		Where(query, arg).
		First(&userM).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrUserNotFound
		}

		return nil, errors.Wrap(err, "failed to find user")
	}

	return toUserDomain(&userM), nil
}

// Create persists a new user entity and its properties. The password write
// rule is applied before storage.
func (repo *userRepository) Create(ctx context.Context, user *entity.User) error {
	userM := fromUserDomain(user)

	if err := repo.db.WithContext(ctx).Create(userM).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return repository.ErrUserExists
		}
		if isNotNullConstraintViolation(err) {
			return domainerrors.ErrValidationFailed.WrapMessage("missing required user information")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create user")
	}

	// Carry the generated values back onto the entity.
	user.ID = userM.ID
	user.CreatedAt = userM.CreatedAt
	if userM.Password != nil {
		user.PasswordHash = *userM.Password
	} else {
		user.PasswordHash = ""
	}

	return nil
}

// Update modifies an existing user entity and saves its properties.
func (repo *userRepository) Update(ctx context.Context, user *entity.User) error {
	userM := fromUserDomain(user)

	if err := repo.db.WithContext(ctx).Save(userM).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return repository.ErrUserExists
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to update user")
	}

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

// RemoveByID deletes the user and all their properties in one transaction.
func (repo *userRepository) RemoveByID(ctx context.Context, id string) (bool, error) {
	err := repo.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", id).Delete(&model.UserPropertyModel{}).Error; err != nil {
			return errors.Wrap(err, "failed to delete user properties")
		}

		return errors.Wrap(
			tx.Where("id = ?", id).Delete(&model.UserModel{}).Error,
			"failed to delete user",
		)
	})
	if err != nil {
		return false, domainerrors.NewDatabaseExecuteError(err, "failed to remove user")
	}

	return true, nil
}

// AddProperty attaches a named value to the user unless the exact name/value
// pair already exists.
func (repo *userRepository) AddProperty(ctx context.Context, userID, name, value string) error {
	user, err := repo.FindByID(ctx, userID)
	if err != nil {
		return err
	}

	if user.HasProperty(name, value) {
		return nil
	}

	propM := model.UserPropertyModel{UserID: userID, Name: name, Value: value}
	if err := repo.db.WithContext(ctx).Create(&propM).Error; err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to add property")
	}

	return nil
}

// RemoveProperty removes the user's properties with the given name.
func (repo *userRepository) RemoveProperty(ctx context.Context, userID, name, value string) error {
	query := repo.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Where("name = ?", name)
	if value != "" {
		query = query.Where("value = ?", value)
	}

	if err := query.Delete(&model.UserPropertyModel{}).Error; err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to remove property")
	}

	return nil
}

// RemoveAllProperties removes the named property from every user.
func (repo *userRepository) RemoveAllProperties(ctx context.Context, name, value string) error {
	query := repo.db.WithContext(ctx).Where("name = ?", name)
	if value != "" {
		query = query.Where("value = ?", value)
	}

	if err := query.Delete(&model.UserPropertyModel{}).Error; err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to remove properties")
	}

	return nil
}

// toUserDomain maps the persistence model back to a pure domain entity.
func toUserDomain(userM *model.UserModel) *entity.User {
	user := &entity.User{
		ID:        userM.ID,
		Name:      userM.Name,
		Email:     userM.Email,
		Username:  userM.Username,
		Admin:     entity.ParseAdminFlag(userM.Admin),
		CreatedAt: userM.CreatedAt,
	}
	if userM.Password != nil {
		user.PasswordHash = *userM.Password
	}

	for _, propM := range userM.Properties {
		user.Properties = append(user.Properties, entity.Property{
			ID:     propM.ID,
			UserID: propM.UserID,
			Name:   propM.Name,
			Value:  propM.Value,
		})
	}

	return user
}

// fromUserDomain maps a domain entity to the GORM persistence model,
// applying the password write rule.
func fromUserDomain(user *entity.User) *model.UserModel {
	userM := &model.UserModel{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		Name:      user.Name,
		Admin:     formatAdminFlag(user.Admin),
		CreatedAt: user.CreatedAt,
	}

	if stored := storedPassword(user.PasswordHash); stored != "" {
		userM.Password = &stored
	}

	for _, prop := range user.Properties {
		userM.Properties = append(userM.Properties, model.UserPropertyModel{
			ID:     prop.ID,
			UserID: user.ID,
			Name:   prop.Name,
			Value:  prop.Value,
		})
	}

	return userM
}

// storedPassword applies the write rule for the password column. Adaptive
// hashes are self-describing and pass through; everything else follows the
// historical rule (40-hex pass-through, empty stays empty/NULL, plaintext is
// hashed with the legacy uppercase scheme).
func storedPassword(value string) string {
	if strings.HasPrefix(value, "$") || value == service.PasswordNotCached {
		return value
	}

	return auth.LegacyWriteHash(value)
}

func formatAdminFlag(admin bool) string {
	if admin {
		return "yes"
	}

	return "no"
}
