package services

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/terraincognita07/jobtrack/internal/models"
)

var (
	ErrReminderNotFound = errors.New("reminder not found")
	ErrReminderInvalid  = errors.New("invalid reminder")
)

const maxReminderMessageLength = 500

type ReminderRepository interface {
	Create(reminder *models.Reminder) error
	ListByUser(userID uint, includeDismissed bool) ([]models.Reminder, error)
	ListDue(userID uint, now time.Time) ([]models.Reminder, error)
	Dismiss(userID uint, reminderID uint) (models.Reminder, bool, error)
	DeleteForUser(userID uint, reminderID uint) (bool, error)
}

type ReminderService struct {
	reminders    ReminderRepository
	applications ApplicationOwnership
	now          func() time.Time
}

func NewReminderService(reminders ReminderRepository, applications ApplicationOwnership) *ReminderService {
	return &ReminderService{reminders: reminders, applications: applications, now: time.Now}
}

func (service *ReminderService) List(userID uint, includeDismissed bool) ([]models.Reminder, error) {
	return service.reminders.ListByUser(userID, includeDismissed)
}

// Upcoming lists reminders that are due and still pending.
func (service *ReminderService) Upcoming(userID uint) ([]models.Reminder, error) {
	return service.reminders.ListDue(userID, service.now().UTC())
}

func (service *ReminderService) Create(userID uint, applicationID uint, remindAtRaw string, messageRaw string) (models.Reminder, error) {
	owned, err := service.applications.ExistsForUser(userID, applicationID)
	if err != nil {
		return models.Reminder{}, err
	}
	if !owned {
		return models.Reminder{}, ErrApplicationNotFound
	}

	message := strings.TrimSpace(messageRaw)
	if strings.TrimSpace(remindAtRaw) == "" || message == "" {
		return models.Reminder{}, fmt.Errorf("%w: remind_at and message are required", ErrReminderInvalid)
	}
	if utf8.RuneCountInString(message) > maxReminderMessageLength {
		return models.Reminder{}, fmt.Errorf("%w: message must be at most %d characters", ErrReminderInvalid, maxReminderMessageLength)
	}
	remindAt, err := ParseDateTime(remindAtRaw)
	if err != nil {
		return models.Reminder{}, fmt.Errorf("%w: remind_at must be an ISO date or timestamp", ErrReminderInvalid)
	}

	reminder := models.Reminder{ApplicationID: applicationID, RemindAt: remindAt, Message: message}
	if err := service.reminders.Create(&reminder); err != nil {
		return models.Reminder{}, err
	}
	return reminder, nil
}

// Dismiss is monotonic: a dismissed reminder stays dismissed and dismissing
// it again succeeds without change.
func (service *ReminderService) Dismiss(userID uint, reminderID uint) (models.Reminder, error) {
	reminder, found, err := service.reminders.Dismiss(userID, reminderID)
	if err != nil {
		return models.Reminder{}, err
	}
	if !found {
		return models.Reminder{}, ErrReminderNotFound
	}
	return reminder, nil
}

func (service *ReminderService) Delete(userID uint, reminderID uint) error {
	deleted, err := service.reminders.DeleteForUser(userID, reminderID)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrReminderNotFound
	}
	return nil
}
