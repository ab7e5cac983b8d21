package db

import (
	"github.com/terraincognita07/jobtrack/internal/models"
	"gorm.io/gorm"
)

type ChatMessageRepository struct {
	database *gorm.DB
}

func NewChatMessageRepository(database *gorm.DB) *ChatMessageRepository {
	return &ChatMessageRepository{database: database}
}

// CreateExchange stores a user prompt and the assistant reply together.
func (repo *ChatMessageRepository) CreateExchange(messages ...*models.ChatMessage) error {
	return repo.database.Transaction(func(tx *gorm.DB) error {
		for _, message := range messages {
			if err := tx.Create(message).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (repo *ChatMessageRepository) ListByApplication(userID uint, applicationID uint) ([]models.ChatMessage, error) {
	messages := make([]models.ChatMessage, 0)
	err := repo.database.
		Where("user_id = ? AND application_id = ?", userID, applicationID).
		Order("created_at ASC, id ASC").
		Find(&messages).Error
	if err != nil {
		return nil, err
	}
	return messages, nil
}
