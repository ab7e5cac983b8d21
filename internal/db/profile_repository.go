package db

import (
	"github.com/terraincognita07/jobtrack/internal/models"
	"gorm.io/gorm"
)

type ProfileRepository struct {
	database *gorm.DB
}

func NewProfileRepository(database *gorm.DB) *ProfileRepository {
	return &ProfileRepository{database: database}
}

// FindOrCreateByUser returns the user's profile, inserting an empty one for
// accounts that predate profile creation at registration.
func (repo *ProfileRepository) FindOrCreateByUser(userID uint) (models.UserProfile, error) {
	profile := models.UserProfile{}
	err := repo.database.
		Where(models.UserProfile{UserID: userID}).
		Attrs(models.UserProfile{
			WorkExperiences: []models.WorkExperience{},
			Education:       []models.Education{},
			Skills:          []models.Skill{},
			Languages:       []models.Language{},
			Certifications:  []models.Certification{},
		}).
		FirstOrCreate(&profile).Error
	if err != nil {
		return models.UserProfile{}, err
	}
	return profile, nil
}

func (repo *ProfileRepository) Save(profile *models.UserProfile) error {
	return repo.database.
		Model(&models.UserProfile{}).
		Where("id = ? AND user_id = ?", profile.ID, profile.UserID).
		Select("*").
		Omit("id", "user_id", "created_at", "onboarding_completed").
		Updates(profile).Error
}

func (repo *ProfileRepository) MarkOnboardingCompleted(userID uint) error {
	return repo.database.Model(&models.UserProfile{}).
		Where("user_id = ?", userID).
		Update("onboarding_completed", true).Error
}
