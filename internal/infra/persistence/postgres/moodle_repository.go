package postgres

import (
	"context"
	"strings"

	"authgate/internal/domain/entity"
	"authgate/internal/domain/repository"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// moodleUserRow is the scan target for the mdl_user projection. Moodle has
// no single name column, so first and last name are concatenated, and the
// auth column doubles as the historical admin slot.
type moodleUserRow struct {
	ID       string
	Username string
	Email    string
	Name     string
	Password string
}

// moodleUserRepository is a read-only adapter over an existing Moodle schema.
// Login is always by email; account management stays in Moodle itself, so
// every write operation reports ErrNotImplemented.
type moodleUserRepository struct {
	db *gorm.DB
}

// NewMoodleUserRepository is the constructor for moodleUserRepository.
func NewMoodleUserRepository(db *gorm.DB) repository.UserRepository {
	return &moodleUserRepository{db: db}
}

// FindByLogin retrieves a user by email, the only login field Moodle
// deployments resolve against.
func (repo *moodleUserRepository) FindByLogin(ctx context.Context, login string) (*entity.User, error) {
	return repo.FindByEmail(ctx, login)
}

// FindByID retrieves a single user by their Moodle user id.
func (repo *moodleUserRepository) FindByID(ctx context.Context, id string) (*entity.User, error) {
	return repo.findOne(ctx, "u.id = ?", id)
}

// FindByUsername retrieves a single user by their Moodle username.
func (repo *moodleUserRepository) FindByUsername(ctx context.Context, username string) (*entity.User, error) {
	return repo.findOne(ctx, "u.username = ?", username)
}

// FindByEmail retrieves a single user by their email address.
func (repo *moodleUserRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	return repo.findOne(ctx, "u.email = ?", email)
}

func (repo *moodleUserRepository) findOne(ctx context.Context, where string, arg any) (*entity.User, error) {
	var row moodleUserRow

	result := repo.db.WithContext(ctx).Raw(
		`SELECT u.id, u.username, u.email,
		        concat(u.firstname, ' ', u.lastname) AS name,
		        u.password
		   FROM mdl_user AS u
		  WHERE `+where, arg,
	).Scan(&row)
	if result.Error != nil {
		return nil, errors.Wrap(result.Error, "failed to query mdl_user")
	}
	if result.RowsAffected == 0 || row.ID == "" {
		return nil, repository.ErrUserNotFound
	}

	user := &entity.User{
		ID:           row.ID,
		Username:     row.Username,
		Email:        row.Email,
		Name:         row.Name,
		PasswordHash: row.Password,
	}

	if err := repo.loadRoles(ctx, user); err != nil {
		return nil, err
	}
	if err := repo.loadAdminFlag(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// loadRoles attaches the user's Moodle roles as "roles" properties.
func (repo *moodleUserRepository) loadRoles(ctx context.Context, user *entity.User) error {
	var shortnames []string

	err := repo.db.WithContext(ctx).Raw(
		`SELECT r.shortname
		   FROM mdl_role AS r
		  INNER JOIN mdl_role_assignments AS ra ON ra.roleid = r.id
		  WHERE ra.userid = ?
		  GROUP BY r.shortname`, user.ID,
	).Scan(&shortnames).Error
	if err != nil {
		return errors.Wrap(err, "failed to query moodle roles")
	}

	for _, shortname := range shortnames {
		user.Properties = append(user.Properties, entity.Property{
			UserID: user.ID,
			Name:   "roles",
			Value:  shortname,
		})
	}

	return nil
}

// loadAdminFlag resolves the admin flag from the site-wide comma-separated
// siteadmins list in mdl_config.
func (repo *moodleUserRepository) loadAdminFlag(ctx context.Context, user *entity.User) error {
	var value string

	err := repo.db.WithContext(ctx).Raw(
		`SELECT value FROM mdl_config WHERE name = 'siteadmins'`,
	).Scan(&value).Error
	if err != nil {
		return errors.Wrap(err, "failed to query moodle site admins")
	}

	user.Admin = strings.Contains(","+value+",", ","+user.ID+",")

	return nil
}

// Create is not supported: Moodle owns account management.
func (repo *moodleUserRepository) Create(ctx context.Context, _ *entity.User) error {
	return repository.ErrNotImplemented
}

// Update is not supported: Moodle owns account management.
func (repo *moodleUserRepository) Update(ctx context.Context, _ *entity.User) error {
	return repository.ErrNotImplemented
}

// RemoveByLogin is not supported: Moodle owns account management.
func (repo *moodleUserRepository) RemoveByLogin(ctx context.Context, _ string) (bool, error) {
	return false, repository.ErrNotImplemented
}

// RemoveByID is not supported: Moodle owns account management.
func (repo *moodleUserRepository) RemoveByID(ctx context.Context, _ string) (bool, error) {
	return false, repository.ErrNotImplemented
}

// AddProperty is not supported: Moodle owns profile data.
func (repo *moodleUserRepository) AddProperty(ctx context.Context, _, _, _ string) error {
	return repository.ErrNotImplemented
}

// RemoveProperty is not supported: Moodle owns profile data.
func (repo *moodleUserRepository) RemoveProperty(ctx context.Context, _, _, _ string) error {
	return repository.ErrNotImplemented
}

// RemoveAllProperties is not supported: Moodle owns profile data.
func (repo *moodleUserRepository) RemoveAllProperties(ctx context.Context, _, _ string) error {
	return repository.ErrNotImplemented
}
