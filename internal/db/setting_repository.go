package db

import (
	"github.com/terraincognita07/jobtrack/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SettingRepository struct {
	database *gorm.DB
}

func NewSettingRepository(database *gorm.DB) *SettingRepository {
	return &SettingRepository{database: database}
}

func (repo *SettingRepository) ListByUser(userID uint) ([]models.Setting, error) {
	settings := make([]models.Setting, 0)
	if err := repo.database.Where(&models.Setting{UserID: userID}).Find(&settings).Error; err != nil {
		return nil, err
	}
	return settings, nil
}

func (repo *SettingRepository) Get(userID uint, key string) (string, bool, error) {
	var setting models.Setting
	found, err := firstOrMissing(repo.database.Where(&models.Setting{UserID: userID, Key: key}).First(&setting))
	if err != nil || !found {
		return "", false, err
	}
	return setting.Value, true, nil
}

// ApplyChanges upserts non-empty values and deletes keys mapped to "" in one transaction.
func (repo *SettingRepository) ApplyChanges(userID uint, changes map[string]string) error {
	return repo.database.Transaction(func(tx *gorm.DB) error {
		for key, value := range changes {
			if value == "" {
				if err := tx.Where(&models.Setting{UserID: userID, Key: key}).Delete(&models.Setting{}).Error; err != nil {
					return err
				}
				continue
			}
			setting := models.Setting{UserID: userID, Key: key, Value: value}
			if err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "user_id"}, {Name: "key"}},
				DoUpdates: clause.AssignmentColumns([]string{"value"}),
			}).Create(&setting).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
