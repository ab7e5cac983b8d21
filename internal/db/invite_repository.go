package db

import (
	"github.com/terraincognita07/jobtrack/internal/models"
	"gorm.io/gorm"
)

type InviteRepository struct {
	database *gorm.DB
}

func NewInviteRepository(database *gorm.DB) *InviteRepository {
	return &InviteRepository{database: database}
}

func (repo *InviteRepository) List() ([]models.InvitedEmail, error) {
	invites := make([]models.InvitedEmail, 0)
	if err := repo.database.Order("created_at DESC, id DESC").Find(&invites).Error; err != nil {
		return nil, err
	}
	return invites, nil
}

func (repo *InviteRepository) FindByEmail(email string) (models.InvitedEmail, bool, error) {
	var invite models.InvitedEmail
	found, err := firstOrMissing(repo.database.Where("email = ?", email).First(&invite))
	return invite, found, err
}

func (repo *InviteRepository) Create(invite *models.InvitedEmail) error {
	return repo.database.Create(invite).Error
}

func (repo *InviteRepository) DeleteByID(inviteID uint) (bool, error) {
	result := repo.database.Delete(&models.InvitedEmail{}, inviteID)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
