package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/terraincognita07/jobtrack/internal/models"
)

var (
	ErrInterviewNotFound = errors.New("interview not found")
	ErrInterviewInvalid  = errors.New("invalid interview")
)

type InterviewRepository interface {
	Create(event *models.InterviewEvent) error
	ListByApplication(userID uint, applicationID uint) ([]models.InterviewEvent, error)
	FindForApplication(userID uint, applicationID uint, eventID uint) (models.InterviewEvent, bool, error)
	Update(event *models.InterviewEvent) error
	DeleteForApplication(userID uint, applicationID uint, eventID uint) (bool, error)
}

type InterviewInput struct {
	InterviewDate *string `json:"interview_date"`
	InterviewType *string `json:"interview_type"`
	PhaseNumber   *int    `json:"phase_number"`
	Location      *string `json:"location"`
	Notes         *string `json:"notes"`
	Outcome       *string `json:"outcome"`
	SalaryOffered *string `json:"salary_offered"`
}

// InterviewService keeps interview rounds. An outcome never changes the
// parent application's status; the two are tracked independently.
type InterviewService struct {
	interviews   InterviewRepository
	applications ApplicationOwnership
	now          func() time.Time
}

func NewInterviewService(interviews InterviewRepository, applications ApplicationOwnership) *InterviewService {
	return &InterviewService{interviews: interviews, applications: applications, now: time.Now}
}

func (service *InterviewService) ensureOwned(userID uint, applicationID uint) error {
	owned, err := service.applications.ExistsForUser(userID, applicationID)
	if err != nil {
		return err
	}
	if !owned {
		return ErrApplicationNotFound
	}
	return nil
}

func (service *InterviewService) List(userID uint, applicationID uint) ([]models.InterviewEvent, error) {
	if err := service.ensureOwned(userID, applicationID); err != nil {
		return nil, err
	}
	return service.interviews.ListByApplication(userID, applicationID)
}

func (service *InterviewService) Create(userID uint, applicationID uint, input InterviewInput) (models.InterviewEvent, error) {
	if err := service.ensureOwned(userID, applicationID); err != nil {
		return models.InterviewEvent{}, err
	}
	if input.InterviewDate == nil || strings.TrimSpace(*input.InterviewDate) == "" {
		return models.InterviewEvent{}, fmt.Errorf("%w: interview_date is required", ErrInterviewInvalid)
	}

	event := models.InterviewEvent{
		ApplicationID: applicationID,
		InterviewType: models.InterviewOther,
		PhaseNumber:   1,
		Outcome:       models.OutcomePending,
	}
	if err := applyInterviewInput(&event, input); err != nil {
		return models.InterviewEvent{}, err
	}
	if err := service.interviews.Create(&event); err != nil {
		return models.InterviewEvent{}, err
	}
	return event, nil
}

func (service *InterviewService) Update(userID uint, applicationID uint, eventID uint, input InterviewInput) (models.InterviewEvent, error) {
	if err := service.ensureOwned(userID, applicationID); err != nil {
		return models.InterviewEvent{}, err
	}
	event, found, err := service.interviews.FindForApplication(userID, applicationID, eventID)
	if err != nil {
		return models.InterviewEvent{}, err
	}
	if !found {
		return models.InterviewEvent{}, ErrInterviewNotFound
	}

	if err := applyInterviewInput(&event, input); err != nil {
		return models.InterviewEvent{}, err
	}
	event.UpdatedAt = service.now().UTC()
	if err := service.interviews.Update(&event); err != nil {
		return models.InterviewEvent{}, err
	}
	return event, nil
}

func (service *InterviewService) Delete(userID uint, applicationID uint, eventID uint) error {
	if err := service.ensureOwned(userID, applicationID); err != nil {
		return err
	}
	deleted, err := service.interviews.DeleteForApplication(userID, applicationID, eventID)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrInterviewNotFound
	}
	return nil
}

func applyInterviewInput(event *models.InterviewEvent, input InterviewInput) error {
	if input.InterviewDate != nil && strings.TrimSpace(*input.InterviewDate) != "" {
		when, err := ParseDateTime(*input.InterviewDate)
		if err != nil {
			return fmt.Errorf("%w: interview_date has an invalid format", ErrInterviewInvalid)
		}
		event.InterviewDate = when
	}
	if input.InterviewType != nil {
		value := strings.TrimSpace(*input.InterviewType)
		if !models.IsValidInterviewType(value) {
			return fmt.Errorf("%w: interview_type must be one of phone_screen, technical, behavioral, final, other", ErrInterviewInvalid)
		}
		event.InterviewType = value
	}
	if input.Outcome != nil {
		value := strings.TrimSpace(*input.Outcome)
		if !models.IsValidInterviewOutcome(value) {
			return fmt.Errorf("%w: outcome must be one of pending, passed, failed, offer", ErrInterviewInvalid)
		}
		event.Outcome = value
	}
	if input.PhaseNumber != nil {
		if *input.PhaseNumber < 1 {
			return fmt.Errorf("%w: phase_number must be at least 1", ErrInterviewInvalid)
		}
		event.PhaseNumber = *input.PhaseNumber
	}
	assignTrimmed(&event.Location, input.Location)
	assignRaw(&event.Notes, input.Notes)
	assignTrimmed(&event.SalaryOffered, input.SalaryOffered)
	return nil
}
