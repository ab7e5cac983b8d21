package services

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/terraincognita07/jobtrack/internal/models"
)

const maxProfileFullNameLength = 120

var ErrProfileInvalid = errors.New("invalid profile")

type ProfileRepository interface {
	FindOrCreateByUser(userID uint) (models.UserProfile, error)
	Save(profile *models.UserProfile) error
	MarkOnboardingCompleted(userID uint) error
}

// ProfileInput is a partial profile update. Nil fields are left untouched; a
// non-nil list replaces the stored list.
type ProfileInput struct {
	FullName            *string                  `json:"full_name"`
	Email               *string                  `json:"email"`
	Phone               *string                  `json:"phone"`
	Location            *string                  `json:"location"`
	LinkedInURL         *string                  `json:"linkedin_url"`
	PortfolioURL        *string                  `json:"portfolio_url"`
	ProfessionalSummary *string                  `json:"professional_summary"`
	WorkExperiences     *[]models.WorkExperience `json:"work_experiences"`
	Education           *[]models.Education      `json:"education"`
	Skills              *[]models.Skill          `json:"skills"`
	Languages           *[]models.Language       `json:"languages"`
	Certifications      *[]models.Certification  `json:"certifications"`
}

type ProfileService struct {
	profiles ProfileRepository
}

func NewProfileService(profiles ProfileRepository) *ProfileService {
	return &ProfileService{profiles: profiles}
}

func (service *ProfileService) Get(userID uint) (models.UserProfile, error) {
	return service.profiles.FindOrCreateByUser(userID)
}

func (service *ProfileService) Update(userID uint, input ProfileInput) (models.UserProfile, error) {
	profile, err := service.profiles.FindOrCreateByUser(userID)
	if err != nil {
		return models.UserProfile{}, err
	}
	if err := applyProfileInput(&profile, input); err != nil {
		return models.UserProfile{}, err
	}
	if err := service.profiles.Save(&profile); err != nil {
		return models.UserProfile{}, err
	}
	return profile, nil
}

func (service *ProfileService) OnboardingCompleted(userID uint) (bool, error) {
	profile, err := service.profiles.FindOrCreateByUser(userID)
	if err != nil {
		return false, err
	}
	return profile.OnboardingCompleted, nil
}

// CompleteOnboarding sets the flag. Nothing ever clears it.
func (service *ProfileService) CompleteOnboarding(userID uint) error {
	if _, err := service.profiles.FindOrCreateByUser(userID); err != nil {
		return err
	}
	return service.profiles.MarkOnboardingCompleted(userID)
}

func applyProfileInput(profile *models.UserProfile, input ProfileInput) error {
	if input.FullName != nil {
		fullName := strings.TrimSpace(*input.FullName)
		if utf8.RuneCountInString(fullName) > maxProfileFullNameLength {
			return fmt.Errorf("%w: full_name must be at most %d characters", ErrProfileInvalid, maxProfileFullNameLength)
		}
		profile.FullName = fullName
	}
	if input.Email != nil {
		email := strings.TrimSpace(*input.Email)
		if email != "" {
			email = NormalizeAuthEmail(email)
			if email == "" {
				return fmt.Errorf("%w: email is not valid", ErrProfileInvalid)
			}
		}
		profile.Email = email
	}
	assignTrimmed(&profile.Phone, input.Phone)
	assignTrimmed(&profile.Location, input.Location)
	assignTrimmed(&profile.LinkedInURL, input.LinkedInURL)
	assignTrimmed(&profile.PortfolioURL, input.PortfolioURL)
	assignRaw(&profile.ProfessionalSummary, input.ProfessionalSummary)

	if input.WorkExperiences != nil {
		experiences, err := normalizeProfileRecords(*input.WorkExperiences, "work_experiences", "title", func(record *models.WorkExperience) *string {
			return &record.Title
		})
		if err != nil {
			return err
		}
		profile.WorkExperiences = experiences
	}
	if input.Education != nil {
		education, err := normalizeProfileRecords(*input.Education, "education", "degree", func(record *models.Education) *string {
			return &record.Degree
		})
		if err != nil {
			return err
		}
		profile.Education = education
	}
	if input.Skills != nil {
		skills, err := normalizeProfileRecords(*input.Skills, "skills", "name", func(record *models.Skill) *string {
			return &record.Name
		})
		if err != nil {
			return err
		}
		profile.Skills = skills
	}
	if input.Languages != nil {
		languages, err := normalizeProfileRecords(*input.Languages, "languages", "name", func(record *models.Language) *string {
			return &record.Name
		})
		if err != nil {
			return err
		}
		profile.Languages = languages
	}
	if input.Certifications != nil {
		certifications, err := normalizeProfileRecords(*input.Certifications, "certifications", "name", func(record *models.Certification) *string {
			return &record.Name
		})
		if err != nil {
			return err
		}
		profile.Certifications = certifications
	}
	return nil
}

// normalizeProfileRecords trims the identifying field of every record and
// rejects records where it is empty.
func normalizeProfileRecords[T any](records []T, collection string, field string, key func(*T) *string) ([]T, error) {
	normalized := make([]T, 0, len(records))
	for index := range records {
		record := records[index]
		identifier := key(&record)
		*identifier = strings.TrimSpace(*identifier)
		if *identifier == "" {
			return nil, fmt.Errorf("%w: %s[%d].%s is required", ErrProfileInvalid, collection, index, field)
		}
		normalized = append(normalized, record)
	}
	return normalized, nil
}
