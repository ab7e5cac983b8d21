package db

import (
	"errors"

	"github.com/terraincognita07/jobtrack/internal/models"
	"gorm.io/gorm"
)

type Repositories struct {
	Users        *UserRepository
	Invites      *InviteRepository
	Profiles     *ProfileRepository
	Settings     *SettingRepository
	Applications *ApplicationRepository
	Documents    *DocumentRepository
	Reminders    *ReminderRepository
	Interviews   *InterviewRepository
	ChatMessages *ChatMessageRepository
	Consultant   *ConsultantRepository
	Insights     *InsightRepository
	Children     *ApplicationChildren
}

func NewRepositories(database *gorm.DB) *Repositories {
	repos := &Repositories{
		Users:        NewUserRepository(database),
		Invites:      NewInviteRepository(database),
		Profiles:     NewProfileRepository(database),
		Settings:     NewSettingRepository(database),
		Applications: NewApplicationRepository(database),
		Documents:    NewDocumentRepository(database),
		Reminders:    NewReminderRepository(database),
		Interviews:   NewInterviewRepository(database),
		ChatMessages: NewChatMessageRepository(database),
		Consultant:   NewConsultantRepository(database),
		Insights:     NewInsightRepository(database),
	}
	repos.Children = &ApplicationChildren{
		documents:    repos.Documents,
		reminders:    repos.Reminders,
		interviews:   repos.Interviews,
		chatMessages: repos.ChatMessages,
	}
	return repos
}

// ownedApplicationIDs is the ownership filter for rows that reach their user
// through the parent application.
func ownedApplicationIDs(database *gorm.DB, userID uint) *gorm.DB {
	return database.Model(&models.Application{}).Select("id").Where("user_id = ?", userID)
}

func firstOrMissing(result *gorm.DB) (bool, error) {
	if result.Error == nil {
		return true, nil
	}
	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return false, nil
	}
	return false, result.Error
}
