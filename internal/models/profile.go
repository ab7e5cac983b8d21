package models

import "time"

type WorkExperience struct {
	Title       string `json:"title"`
	Company     string `json:"company,omitempty"`
	Location    string `json:"location,omitempty"`
	StartDate   string `json:"start_date,omitempty"`
	EndDate     string `json:"end_date,omitempty"`
	Current     bool   `json:"current,omitempty"`
	Description string `json:"description,omitempty"`
}

type Education struct {
	Degree      string `json:"degree"`
	Institution string `json:"institution,omitempty"`
	Field       string `json:"field,omitempty"`
	StartDate   string `json:"start_date,omitempty"`
	EndDate     string `json:"end_date,omitempty"`
	Description string `json:"description,omitempty"`
}

type Skill struct {
	Name  string `json:"name"`
	Level string `json:"level,omitempty"`
}

type Language struct {
	Name        string `json:"name"`
	Proficiency string `json:"proficiency,omitempty"`
}

type Certification struct {
	Name   string `json:"name"`
	Issuer string `json:"issuer,omitempty"`
	Date   string `json:"date,omitempty"`
	URL    string `json:"url,omitempty"`
}

type UserProfile struct {
	ID                  uint             `gorm:"primaryKey" json:"id"`
	UserID              uint             `gorm:"not null;uniqueIndex" json:"-"`
	FullName            string           `json:"full_name"`
	Email               string           `json:"email"`
	Phone               string           `json:"phone"`
	Location            string           `json:"location"`
	LinkedInURL         string           `gorm:"column:linkedin_url" json:"linkedin_url"`
	PortfolioURL        string           `gorm:"column:portfolio_url" json:"portfolio_url"`
	ProfessionalSummary string           `json:"professional_summary"`
	WorkExperiences     []WorkExperience `gorm:"serializer:json" json:"work_experiences"`
	Education           []Education      `gorm:"serializer:json" json:"education"`
	Skills              []Skill          `gorm:"serializer:json" json:"skills"`
	Languages           []Language       `gorm:"serializer:json" json:"languages"`
	Certifications      []Certification  `gorm:"serializer:json" json:"certifications"`
	OnboardingCompleted bool             `gorm:"not null;default:false" json:"onboarding_completed"`
	CreatedAt           time.Time        `json:"created_at"`
	UpdatedAt           time.Time        `json:"updated_at"`
}
