package db

import (
	"errors"
	"time"

	"github.com/terraincognita07/jobtrack/internal/models"
	"gorm.io/gorm"
)

var ErrInviteUnavailable = errors.New("invite unavailable")

type UserRepository struct {
	database *gorm.DB
}

func NewUserRepository(database *gorm.DB) *UserRepository {
	return &UserRepository{database: database}
}

func (repo *UserRepository) CountUsers() (int64, error) {
	var count int64
	if err := repo.database.Model(&models.User{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (repo *UserRepository) FindByID(userID uint) (models.User, bool, error) {
	var user models.User
	found, err := firstOrMissing(repo.database.First(&user, userID))
	return user, found, err
}

func (repo *UserRepository) FindByNormalizedEmail(email string) (models.User, bool, error) {
	var user models.User
	found, err := firstOrMissing(repo.database.Where("lower(trim(email)) = ?", email).First(&user))
	return user, found, err
}

func (repo *UserRepository) ExistsByNormalizedEmail(email string) (bool, error) {
	var matched int64
	if err := repo.database.Model(&models.User{}).
		Where("lower(trim(email)) = ?", email).
		Count(&matched).Error; err != nil {
		return false, err
	}
	return matched > 0, nil
}

func (repo *UserRepository) ListAll() ([]models.User, error) {
	users := make([]models.User, 0)
	if err := repo.database.Order("created_at DESC, id DESC").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (repo *UserRepository) UpdateActive(userID uint, active bool) error {
	return repo.database.Model(&models.User{}).Where("id = ?", userID).Update("is_active", active).Error
}

func (repo *UserRepository) UpdatePassword(userID uint, passwordHash string) error {
	return repo.database.Model(&models.User{}).Where("id = ?", userID).Update("password_hash", passwordHash).Error
}

func (repo *UserRepository) UpdateRole(userID uint, role string) error {
	return repo.database.Model(&models.User{}).Where("id = ?", userID).Update("role", role).Error
}

// CreateAccount inserts the user with an empty profile. The very first account
// is promoted to admin. When inviteID is set the invite is consumed in the same
// transaction and ErrInviteUnavailable is returned if it was already used.
func (repo *UserRepository) CreateAccount(user *models.User, inviteID *uint) error {
	return repo.database.Transaction(func(tx *gorm.DB) error {
		var existing int64
		if err := tx.Model(&models.User{}).Count(&existing).Error; err != nil {
			return err
		}
		if existing == 0 {
			user.Role = models.RoleAdmin
		}
		if err := tx.Create(user).Error; err != nil {
			return err
		}

		profile := models.UserProfile{
			UserID:   user.ID,
			FullName: user.FullName,
			Email:    user.Email,
		}
		if err := tx.Create(&profile).Error; err != nil {
			return err
		}

		if inviteID == nil {
			return nil
		}
		now := time.Now().UTC()
		result := tx.Model(&models.InvitedEmail{}).
			Where("id = ? AND used_by_user_id IS NULL", *inviteID).
			Updates(map[string]any{"used_by_user_id": user.ID, "used_at": now})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrInviteUnavailable
		}
		return nil
	})
}
