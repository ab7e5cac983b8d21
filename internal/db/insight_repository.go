package db

import (
	"github.com/terraincognita07/jobtrack/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type InsightRepository struct {
	database *gorm.DB
}

func NewInsightRepository(database *gorm.DB) *InsightRepository {
	return &InsightRepository{database: database}
}

func (repo *InsightRepository) FindByUser(userID uint) (models.UserAIInsight, bool, error) {
	var insight models.UserAIInsight
	found, err := firstOrMissing(repo.database.Where("user_id = ?", userID).First(&insight))
	if err != nil || !found {
		return models.UserAIInsight{}, found, err
	}
	return insight, true, nil
}

// Save replaces the cached insight of insight.UserID.
func (repo *InsightRepository) Save(insight *models.UserAIInsight) error {
	return repo.database.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"insight_data", "last_updated"}),
	}).Create(insight).Error
}
