package models

import (
	"time"

	"gorm.io/datatypes"
)

const (
	StatusDraft     = "draft"
	StatusSent      = "sent"
	StatusInterview = "interview"
	StatusRejected  = "rejected"
)

// ApplicationStatuses lists the workflow states in their display order.
func ApplicationStatuses() []string {
	return []string{StatusDraft, StatusSent, StatusInterview, StatusRejected}
}

func IsValidStatus(status string) bool {
	switch status {
	case StatusDraft, StatusSent, StatusInterview, StatusRejected:
		return true
	default:
		return false
	}
}

type Application struct {
	ID                       uint           `gorm:"primaryKey" json:"id"`
	UserID                   uint           `gorm:"not null;index;<-:create" json:"user_id"`
	Company                  string         `gorm:"not null" json:"company"`
	Role                     string         `gorm:"not null" json:"role"`
	Location                 string         `json:"location"`
	Status                   string         `gorm:"not null;default:draft" json:"status"`
	SalaryMin                *int           `json:"salary_min"`
	SalaryMax                *int           `json:"salary_max"`
	SalaryCurrency           string         `gorm:"not null;default:EUR" json:"salary_currency"`
	URL                      string         `gorm:"column:url" json:"url"`
	JobDescription           string         `json:"job_description"`
	Requirements             string         `json:"requirements"`
	Notes                    string         `json:"notes"`
	AISummary                string         `gorm:"column:ai_summary" json:"ai_summary"`
	AppliedDate              time.Time      `gorm:"type:date;not null" json:"applied_date"`
	ResponseDate             *time.Time     `gorm:"type:date" json:"response_date"`
	Deadline                 *time.Time     `gorm:"type:date" json:"deadline"`
	MatchScore               *float64       `json:"match_score"`
	MatchAnalysis            datatypes.JSON `gorm:"type:text" json:"match_analysis"`
	JobPostingText           string         `json:"job_posting_text"`
	GeneratedCVHTML          string         `gorm:"column:generated_cv_html" json:"generated_cv_html"`
	GeneratedCoverLetterHTML string         `gorm:"column:generated_cover_letter_html" json:"generated_cover_letter_html"`
	CreatedAt                time.Time      `json:"created_at"`
	UpdatedAt                time.Time      `json:"updated_at"`
}

// StatusHistory rows are append-only. FromStatus is nil only for the creation entry.
type StatusHistory struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	ApplicationID uint      `gorm:"not null;index" json:"application_id"`
	FromStatus    *string   `json:"from_status"`
	ToStatus      string    `gorm:"not null" json:"to_status"`
	ChangedAt     time.Time `gorm:"not null" json:"changed_at"`
	Note          string    `json:"note"`
}

type ApplicationSummary struct {
	ID         uint     `json:"id"`
	Company    string   `json:"company"`
	Role       string   `json:"role"`
	Status     string   `json:"status"`
	MatchScore *float64 `json:"match_score"`
}

func (application Application) Summary() ApplicationSummary {
	return ApplicationSummary{
		ID:         application.ID,
		Company:    application.Company,
		Role:       application.Role,
		Status:     application.Status,
		MatchScore: application.MatchScore,
	}
}

func (StatusHistory) TableName() string {
	return "status_histories"
}
