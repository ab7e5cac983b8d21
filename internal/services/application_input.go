package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/terraincognita07/jobtrack/internal/models"
	"gorm.io/datatypes"
)

var ErrApplicationInvalid = errors.New("invalid application")

const isoDateLayout = "2006-01-02"

// ApplicationInput carries a create or partial-update request. A nil field is
// left untouched; an empty date string clears an optional date.
type ApplicationInput struct {
	Company                  *string         `json:"company"`
	Role                     *string         `json:"role"`
	Location                 *string         `json:"location"`
	Status                   *string         `json:"status"`
	SalaryMin                *int            `json:"salary_min"`
	SalaryMax                *int            `json:"salary_max"`
	SalaryCurrency           *string         `json:"salary_currency"`
	URL                      *string         `json:"url"`
	JobDescription           *string         `json:"job_description"`
	Requirements             *string         `json:"requirements"`
	Notes                    *string         `json:"notes"`
	AppliedDate              *string         `json:"applied_date"`
	ResponseDate             *string         `json:"response_date"`
	Deadline                 *string         `json:"deadline"`
	MatchScore               *float64        `json:"match_score"`
	MatchAnalysis            json.RawMessage `json:"match_analysis"`
	JobPostingText           *string         `json:"job_posting_text"`
	GeneratedCVHTML          *string         `json:"generated_cv_html"`
	GeneratedCoverLetterHTML *string         `json:"generated_cover_letter_html"`
}

func ParseISODate(raw string) (time.Time, error) {
	parsed, err := time.Parse(isoDateLayout, strings.TrimSpace(raw))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: date %q must use YYYY-MM-DD", ErrApplicationInvalid, raw)
	}
	return parsed, nil
}

func parseOptionalDate(raw string) (*time.Time, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	parsed, err := ParseISODate(raw)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}

// applyApplicationInput copies the set fields of input onto application and
// validates the result.
func applyApplicationInput(application *models.Application, input ApplicationInput) error {
	assignTrimmed(&application.Company, input.Company)
	assignTrimmed(&application.Role, input.Role)
	assignTrimmed(&application.Location, input.Location)
	assignTrimmed(&application.URL, input.URL)
	assignTrimmed(&application.SalaryCurrency, input.SalaryCurrency)
	assignRaw(&application.JobDescription, input.JobDescription)
	assignRaw(&application.Requirements, input.Requirements)
	assignRaw(&application.Notes, input.Notes)
	assignRaw(&application.JobPostingText, input.JobPostingText)
	assignRaw(&application.GeneratedCVHTML, input.GeneratedCVHTML)
	assignRaw(&application.GeneratedCoverLetterHTML, input.GeneratedCoverLetterHTML)

	if input.SalaryMin != nil {
		application.SalaryMin = input.SalaryMin
	}
	if input.SalaryMax != nil {
		application.SalaryMax = input.SalaryMax
	}
	if input.MatchScore != nil {
		application.MatchScore = input.MatchScore
	}
	if len(input.MatchAnalysis) > 0 {
		if string(input.MatchAnalysis) == "null" {
			application.MatchAnalysis = nil
		} else {
			if !json.Valid(input.MatchAnalysis) {
				return fmt.Errorf("%w: match_analysis must be valid JSON", ErrApplicationInvalid)
			}
			application.MatchAnalysis = datatypes.JSON(input.MatchAnalysis)
		}
	}

	if input.AppliedDate != nil && strings.TrimSpace(*input.AppliedDate) != "" {
		applied, err := ParseISODate(*input.AppliedDate)
		if err != nil {
			return err
		}
		application.AppliedDate = applied
	}
	if input.ResponseDate != nil {
		responded, err := parseOptionalDate(*input.ResponseDate)
		if err != nil {
			return err
		}
		application.ResponseDate = responded
	}
	if input.Deadline != nil {
		deadline, err := parseOptionalDate(*input.Deadline)
		if err != nil {
			return err
		}
		application.Deadline = deadline
	}

	return validateApplication(*application)
}

func validateApplication(application models.Application) error {
	if application.Company == "" || application.Role == "" {
		return fmt.Errorf("%w: company and role are required", ErrApplicationInvalid)
	}
	if application.SalaryMin != nil && *application.SalaryMin < 0 {
		return fmt.Errorf("%w: salary_min must not be negative", ErrApplicationInvalid)
	}
	if application.SalaryMin != nil && application.SalaryMax != nil && *application.SalaryMax < *application.SalaryMin {
		return fmt.Errorf("%w: salary_max must not be lower than salary_min", ErrApplicationInvalid)
	}
	if application.MatchScore != nil && (*application.MatchScore < 0 || *application.MatchScore > 10) {
		return fmt.Errorf("%w: match_score must be between 0 and 10", ErrApplicationInvalid)
	}
	return nil
}

func assignTrimmed(target *string, value *string) {
	if value != nil {
		*target = strings.TrimSpace(*value)
	}
}

func assignRaw(target *string, value *string) {
	if value != nil {
		*target = *value
	}
}
