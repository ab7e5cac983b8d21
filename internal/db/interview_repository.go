package db

import (
	"time"

	"github.com/terraincognita07/jobtrack/internal/models"
	"gorm.io/gorm"
)

var interviewColumns = []string{
	"interview_date", "interview_type", "phase_number", "location", "notes",
	"outcome", "salary_offered", "updated_at",
}

type InterviewRepository struct {
	database *gorm.DB
}

func NewInterviewRepository(database *gorm.DB) *InterviewRepository {
	return &InterviewRepository{database: database}
}

func (repo *InterviewRepository) Create(event *models.InterviewEvent) error {
	return repo.database.Create(event).Error
}

func (repo *InterviewRepository) ListByApplication(userID uint, applicationID uint) ([]models.InterviewEvent, error) {
	events := make([]models.InterviewEvent, 0)
	err := repo.database.
		Where("application_id = ? AND application_id IN (?)", applicationID, ownedApplicationIDs(repo.database, userID)).
		Order("phase_number ASC, interview_date ASC, id ASC").
		Find(&events).Error
	if err != nil {
		return nil, err
	}
	return events, nil
}

// ListBetween returns the user's interviews scheduled inside [from, to).
func (repo *InterviewRepository) ListBetween(userID uint, from time.Time, to time.Time) ([]models.InterviewEvent, error) {
	events := make([]models.InterviewEvent, 0)
	err := repo.database.
		Where("application_id IN (?)", ownedApplicationIDs(repo.database, userID)).
		Where("interview_date >= ? AND interview_date < ?", from, to).
		Order("interview_date ASC, id ASC").
		Find(&events).Error
	if err != nil {
		return nil, err
	}
	return events, nil
}

func (repo *InterviewRepository) FindForApplication(userID uint, applicationID uint, eventID uint) (models.InterviewEvent, bool, error) {
	var event models.InterviewEvent
	found, err := firstOrMissing(repo.database.
		Where("id = ? AND application_id = ?", eventID, applicationID).
		Where("application_id IN (?)", ownedApplicationIDs(repo.database, userID)).
		First(&event))
	return event, found, err
}

// Update persists the editable fields of an event already loaded through
// FindForApplication.
func (repo *InterviewRepository) Update(event *models.InterviewEvent) error {
	return repo.database.Model(&models.InterviewEvent{}).
		Where("id = ? AND application_id = ?", event.ID, event.ApplicationID).
		Select(interviewColumns).
		Updates(event).Error
}

func (repo *InterviewRepository) DeleteForApplication(userID uint, applicationID uint, eventID uint) (bool, error) {
	result := repo.database.
		Where("id = ? AND application_id = ?", eventID, applicationID).
		Where("application_id IN (?)", ownedApplicationIDs(repo.database, userID)).
		Delete(&models.InterviewEvent{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
