package db

import (
	"time"

	"github.com/terraincognita07/jobtrack/internal/models"
)

// ApplicationChildren reads the per-application collections through their
// owner-scoped repositories.
type ApplicationChildren struct {
	documents    *DocumentRepository
	reminders    *ReminderRepository
	interviews   *InterviewRepository
	chatMessages *ChatMessageRepository
}

func (children *ApplicationChildren) Documents(userID uint, applicationID uint) ([]models.Document, error) {
	return children.documents.ListByApplication(userID, applicationID)
}

func (children *ApplicationChildren) Reminders(userID uint, applicationID uint) ([]models.Reminder, error) {
	return children.reminders.ListByApplication(userID, applicationID)
}

func (children *ApplicationChildren) Interviews(userID uint, applicationID uint) ([]models.InterviewEvent, error) {
	return children.interviews.ListByApplication(userID, applicationID)
}

func (children *ApplicationChildren) ChatMessages(userID uint, applicationID uint) ([]models.ChatMessage, error) {
	return children.chatMessages.ListByApplication(userID, applicationID)
}

func (children *ApplicationChildren) InterviewsBetween(userID uint, from time.Time, to time.Time) ([]models.InterviewEvent, error) {
	return children.interviews.ListBetween(userID, from, to)
}
