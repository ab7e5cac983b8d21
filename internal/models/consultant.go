package models

import (
	"time"

	"gorm.io/datatypes"
)

const (
	DefaultConsultantTitle = "New Session"
	DefaultConsultantTopic = "general"
)

type ConsultantSession struct {
	ID            uint                `gorm:"primaryKey" json:"id"`
	UserID        uint                `gorm:"not null;index;<-:create" json:"-"`
	ApplicationID *uint               `gorm:"index" json:"application_id"`
	Title         string              `gorm:"not null;default:New Session" json:"title"`
	Topic         string              `gorm:"not null;default:general" json:"topic"`
	Summary       string              `json:"summary"`
	Messages      []ConsultantMessage `gorm:"foreignKey:SessionID" json:"messages,omitempty"`
	MessageCount  int                 `gorm:"-" json:"message_count"`
	CreatedAt     time.Time           `json:"created_at"`
	UpdatedAt     time.Time           `json:"updated_at"`
}

type ConsultantMessage struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	SessionID uint      `gorm:"not null;index" json:"session_id"`
	Role      string    `gorm:"not null" json:"role"`
	Content   string    `gorm:"not null" json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// UserAIInsight caches the latest history analysis of a user, one row per user.
type UserAIInsight struct {
	ID          uint           `gorm:"primaryKey" json:"-"`
	UserID      uint           `gorm:"not null;uniqueIndex" json:"-"`
	InsightData datatypes.JSON `gorm:"type:text;not null" json:"data"`
	LastUpdated time.Time      `gorm:"not null" json:"last_updated"`
}

func (UserAIInsight) TableName() string {
	return "user_ai_insights"
}
