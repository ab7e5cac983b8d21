package db

import (
	"time"

	"github.com/terraincognita07/jobtrack/internal/models"
	"gorm.io/gorm"
)

type ReminderRepository struct {
	database *gorm.DB
}

func NewReminderRepository(database *gorm.DB) *ReminderRepository {
	return &ReminderRepository{database: database}
}

func (repo *ReminderRepository) Create(reminder *models.Reminder) error {
	return repo.database.Create(reminder).Error
}

func (repo *ReminderRepository) ownedBy(userID uint) *gorm.DB {
	return repo.database.Where("application_id IN (?)", ownedApplicationIDs(repo.database, userID))
}

func (repo *ReminderRepository) ListByUser(userID uint, includeDismissed bool) ([]models.Reminder, error) {
	query := repo.ownedBy(userID)
	if !includeDismissed {
		query = query.Where("is_dismissed = ?", false)
	}
	reminders := make([]models.Reminder, 0)
	if err := query.Order("remind_at ASC, id ASC").Find(&reminders).Error; err != nil {
		return nil, err
	}
	return reminders, nil
}

// ListDue returns undismissed reminders whose time is at or before now.
func (repo *ReminderRepository) ListDue(userID uint, now time.Time) ([]models.Reminder, error) {
	reminders := make([]models.Reminder, 0)
	err := repo.ownedBy(userID).
		Where("is_dismissed = ? AND remind_at <= ?", false, now).
		Order("remind_at ASC, id ASC").
		Find(&reminders).Error
	if err != nil {
		return nil, err
	}
	return reminders, nil
}

func (repo *ReminderRepository) ListByApplication(userID uint, applicationID uint) ([]models.Reminder, error) {
	reminders := make([]models.Reminder, 0)
	err := repo.ownedBy(userID).
		Where("application_id = ?", applicationID).
		Order("remind_at ASC, id ASC").
		Find(&reminders).Error
	if err != nil {
		return nil, err
	}
	return reminders, nil
}

func (repo *ReminderRepository) FindByIDForUser(userID uint, reminderID uint) (models.Reminder, bool, error) {
	var reminder models.Reminder
	found, err := firstOrMissing(repo.ownedBy(userID).Where("id = ?", reminderID).First(&reminder))
	return reminder, found, err
}

// Dismiss sets is_dismissed on an owned reminder. Dismissing twice is not an error.
func (repo *ReminderRepository) Dismiss(userID uint, reminderID uint) (models.Reminder, bool, error) {
	reminder, found, err := repo.FindByIDForUser(userID, reminderID)
	if err != nil || !found {
		return models.Reminder{}, found, err
	}
	if reminder.IsDismissed {
		return reminder, true, nil
	}
	if err := repo.database.Model(&models.Reminder{}).
		Where("id = ?", reminder.ID).
		Update("is_dismissed", true).Error; err != nil {
		return models.Reminder{}, true, err
	}
	reminder.IsDismissed = true
	return reminder, true, nil
}

func (repo *ReminderRepository) DeleteForUser(userID uint, reminderID uint) (bool, error) {
	result := repo.ownedBy(userID).Where("id = ?", reminderID).Delete(&models.Reminder{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
