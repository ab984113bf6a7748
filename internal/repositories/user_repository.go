package repositories

import (
	"github.com/mroshb/lunchmate/internal/models"
	"github.com/mroshb/lunchmate/pkg/errors"
	"gorm.io/gorm"
)

// UserRepository is the postgres-backed profile store.
type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// GetProfile retrieves a profile by user ID
func (r *UserRepository) GetProfile(id string) (*models.Profile, error) {
	var user models.User
	result := r.db.Where("id = ?", id).First(&user)

	if result.Error == gorm.ErrRecordNotFound {
		return nil, errors.New(errors.ErrCodeNotFound, "user not found")
	}
	if result.Error != nil {
		return nil, errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to get user")
	}

	return user.ToProfile(), nil
}

// SaveProfile creates or updates a profile
func (r *UserRepository) SaveProfile(profile *models.Profile) error {
	result := r.db.Save(models.UserFromProfile(profile))
	if result.Error != nil {
		return errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to save user")
	}
	return nil
}

// ListProfiles returns all profiles ordered by name
func (r *UserRepository) ListProfiles() ([]*models.Profile, error) {
	var users []models.User
	if err := r.db.Order("name ASC").Find(&users).Error; err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to list users")
	}

	out := make([]*models.Profile, 0, len(users))
	for i := range users {
		out = append(out, users[i].ToProfile())
	}
	return out, nil
}

// IncrementMatchCount bumps a user's lifetime match counter
func (r *UserRepository) IncrementMatchCount(id string) error {
	result := r.db.Model(&models.User{}).Where("id = ?", id).Update("match_count", gorm.Expr("match_count + ?", 1))
	if result.Error != nil {
		return errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to increment match count")
	}
	if result.RowsAffected == 0 {
		return errors.New(errors.ErrCodeNotFound, "user not found")
	}
	return nil
}
