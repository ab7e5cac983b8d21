package models

import "time"

const (
	DocCategoryCV          = "cv"
	DocCategoryCoverLetter = "cover_letter"
	DocCategoryOther       = "other"
)

type Document struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	UserID         uint      `gorm:"not null;index" json:"-"`
	ApplicationID  *uint     `gorm:"index" json:"application_id"`
	Filename       string    `gorm:"not null" json:"filename"`
	StoredFilename string    `gorm:"not null" json:"stored_filename"`
	FileType       string    `gorm:"not null" json:"file_type"`
	FileSize       int64     `gorm:"not null" json:"file_size"`
	DocCategory    string    `gorm:"not null;default:cv" json:"doc_category"`
	CloudURL       string    `gorm:"column:cloud_url" json:"cloud_url"`
	UploadedAt     time.Time `gorm:"not null" json:"uploaded_at"`
}

type Reminder struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	ApplicationID uint      `gorm:"not null;index" json:"application_id"`
	RemindAt      time.Time `gorm:"not null" json:"remind_at"`
	Message       string    `gorm:"not null" json:"message"`
	IsDismissed   bool      `gorm:"not null;default:false" json:"is_dismissed"`
	CreatedAt     time.Time `json:"created_at"`
}

const (
	InterviewPhoneScreen = "phone_screen"
	InterviewTechnical   = "technical"
	InterviewBehavioral  = "behavioral"
	InterviewFinal       = "final"
	InterviewOther       = "other"
)

const (
	OutcomePending = "pending"
	OutcomePassed  = "passed"
	OutcomeFailed  = "failed"
	OutcomeOffer   = "offer"
)

func IsValidInterviewType(value string) bool {
	switch value {
	case InterviewPhoneScreen, InterviewTechnical, InterviewBehavioral, InterviewFinal, InterviewOther:
		return true
	default:
		return false
	}
}

func IsValidInterviewOutcome(value string) bool {
	switch value {
	case OutcomePending, OutcomePassed, OutcomeFailed, OutcomeOffer:
		return true
	default:
		return false
	}
}

type InterviewEvent struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	ApplicationID uint      `gorm:"not null;index" json:"application_id"`
	InterviewDate time.Time `gorm:"not null" json:"interview_date"`
	InterviewType string    `gorm:"not null;default:other" json:"interview_type"`
	PhaseNumber   int       `gorm:"not null;default:1" json:"phase_number"`
	Location      string    `json:"location"`
	Notes         string    `json:"notes"`
	Outcome       string    `gorm:"not null;default:pending" json:"outcome"`
	SalaryOffered string    `json:"salary_offered"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

const (
	ChatRoleUser      = "user"
	ChatRoleAssistant = "assistant"
)

type ChatMessage struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	UserID        uint      `gorm:"not null;index" json:"-"`
	ApplicationID *uint     `gorm:"index" json:"application_id"`
	Role          string    `gorm:"not null" json:"role"`
	Content       string    `gorm:"not null" json:"content"`
	Step          string    `json:"step"`
	CreatedAt     time.Time `json:"created_at"`
}

type Setting struct {
	ID     uint   `gorm:"primaryKey" json:"-"`
	UserID uint   `gorm:"not null;uniqueIndex:uidx_settings_user_key" json:"-"`
	Key    string `gorm:"not null;uniqueIndex:uidx_settings_user_key" json:"key"`
	Value  string `json:"value"`
}
