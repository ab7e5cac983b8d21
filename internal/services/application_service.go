package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/terraincognita07/jobtrack/internal/models"
)

var (
	ErrInvalidStatus       = errors.New("invalid status")
	ErrApplicationNotFound = errors.New("application not found")
	ErrCalendarInvalid     = errors.New("invalid calendar month")
)

type ApplicationRepository interface {
	CreateWithHistory(application *models.Application, entry *models.StatusHistory) error
	FindByIDForUser(userID uint, applicationID uint) (models.Application, bool, error)
	ExistsForUser(userID uint, applicationID uint) (bool, error)
	List(userID uint, query models.ApplicationQuery) ([]models.Application, int64, error)
	ListForCalendar(userID uint, from time.Time, to time.Time, status string) ([]models.Application, error)
	UpdateDetails(application *models.Application) (bool, error)
	UpdateColumns(userID uint, applicationID uint, values map[string]any) (bool, error)
	ChangeStatus(userID uint, applicationID uint, change func(application *models.Application) (models.StatusHistory, error)) (models.Application, bool, error)
	DeleteForUser(userID uint, applicationID uint) ([]models.Document, bool, error)
	History(applicationID uint) ([]models.StatusHistory, error)
}

// ApplicationChildren reads the collections shown on the application detail view.
type ApplicationChildren interface {
	Documents(userID uint, applicationID uint) ([]models.Document, error)
	Reminders(userID uint, applicationID uint) ([]models.Reminder, error)
	Interviews(userID uint, applicationID uint) ([]models.InterviewEvent, error)
	ChatMessages(userID uint, applicationID uint) ([]models.ChatMessage, error)
	InterviewsBetween(userID uint, from time.Time, to time.Time) ([]models.InterviewEvent, error)
}

type BlobRemover interface {
	Delete(ctx context.Context, name string) error
}

type ApplicationWithHistory struct {
	models.Application
	StatusHistory []models.StatusHistory `json:"status_history"`
}

type ApplicationDetail struct {
	models.Application
	Documents       []models.Document       `json:"documents"`
	Reminders       []models.Reminder       `json:"reminders"`
	StatusHistory   []models.StatusHistory  `json:"status_history"`
	ChatMessages    []models.ChatMessage    `json:"chat_messages"`
	InterviewEvents []models.InterviewEvent `json:"interview_events"`
}

type CalendarView struct {
	Applications []models.Application    `json:"applications"`
	Interviews   []models.InterviewEvent `json:"interviews"`
	Month        int                     `json:"month"`
	Year         int                     `json:"year"`
}

type ApplicationService struct {
	applications ApplicationRepository
	children     ApplicationChildren
	blobs        BlobRemover
	now          func() time.Time
}

func NewApplicationService(applications ApplicationRepository, children ApplicationChildren, blobs BlobRemover) *ApplicationService {
	return &ApplicationService{
		applications: applications,
		children:     children,
		blobs:        blobs,
		now:          time.Now,
	}
}

func (service *ApplicationService) Create(userID uint, input ApplicationInput, note string) (models.Application, error) {
	now := service.now()
	application := models.Application{
		UserID:         userID,
		Status:         models.StatusDraft,
		SalaryCurrency: "EUR",
		AppliedDate:    dateOnly(now),
	}

	if input.Status != nil && strings.TrimSpace(*input.Status) != "" {
		status := strings.TrimSpace(*input.Status)
		if err := ValidateStatus(status); err != nil {
			return models.Application{}, err
		}
		application.Status = status
	}
	if err := applyApplicationInput(&application, input); err != nil {
		return models.Application{}, err
	}
	if application.SalaryCurrency == "" {
		application.SalaryCurrency = "EUR"
	}

	entry := models.StatusHistory{
		FromStatus: nil,
		ToStatus:   application.Status,
		ChangedAt:  now.UTC(),
		Note:       note,
	}
	if err := service.applications.CreateWithHistory(&application, &entry); err != nil {
		return models.Application{}, err
	}
	return application, nil
}

func (service *ApplicationService) Get(userID uint, applicationID uint) (models.Application, error) {
	application, found, err := service.applications.FindByIDForUser(userID, applicationID)
	if err != nil {
		return models.Application{}, err
	}
	if !found {
		return models.Application{}, ErrApplicationNotFound
	}
	return application, nil
}

// EnsureOwned fails with ErrApplicationNotFound unless userID owns the application.
func (service *ApplicationService) EnsureOwned(userID uint, applicationID uint) error {
	owned, err := service.applications.ExistsForUser(userID, applicationID)
	if err != nil {
		return err
	}
	if !owned {
		return ErrApplicationNotFound
	}
	return nil
}

func (service *ApplicationService) Detail(userID uint, applicationID uint) (ApplicationDetail, error) {
	application, err := service.Get(userID, applicationID)
	if err != nil {
		return ApplicationDetail{}, err
	}

	detail := ApplicationDetail{Application: application}
	if detail.Documents, err = service.children.Documents(userID, applicationID); err != nil {
		return ApplicationDetail{}, err
	}
	if detail.Reminders, err = service.children.Reminders(userID, applicationID); err != nil {
		return ApplicationDetail{}, err
	}
	if detail.StatusHistory, err = service.applications.History(applicationID); err != nil {
		return ApplicationDetail{}, err
	}
	if detail.ChatMessages, err = service.children.ChatMessages(userID, applicationID); err != nil {
		return ApplicationDetail{}, err
	}
	if detail.InterviewEvents, err = service.children.Interviews(userID, applicationID); err != nil {
		return ApplicationDetail{}, err
	}
	return detail, nil
}

func (service *ApplicationService) List(userID uint, params ApplicationListParams) (models.ApplicationPage, error) {
	query, err := NormalizeApplicationQuery(params)
	if err != nil {
		return models.ApplicationPage{}, err
	}

	applications, total, err := service.applications.List(userID, query)
	if err != nil {
		return models.ApplicationPage{}, err
	}
	return models.ApplicationPage{
		Applications: applications,
		Total:        total,
		Page:         query.Page,
		Pages:        pageCount(total, query.PerPage),
	}, nil
}

// Calendar returns the applications applied or due in the month together with
// the interviews scheduled in it. Zero year or month means the current one.
func (service *ApplicationService) Calendar(userID uint, year int, month int, status string) (CalendarView, error) {
	today := service.now()
	if year == 0 {
		year = today.Year()
	}
	if month == 0 {
		month = int(today.Month())
	}
	if month < 1 || month > 12 || year < 1970 || year > 9999 {
		return CalendarView{}, ErrCalendarInvalid
	}
	status = strings.TrimSpace(status)
	if status != "" {
		if err := ValidateStatus(status); err != nil {
			return CalendarView{}, err
		}
	}

	from := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)

	applications, err := service.applications.ListForCalendar(userID, from, to, status)
	if err != nil {
		return CalendarView{}, err
	}
	interviews, err := service.children.InterviewsBetween(userID, from, to)
	if err != nil {
		return CalendarView{}, err
	}
	return CalendarView{Applications: applications, Interviews: interviews, Month: month, Year: year}, nil
}

// Update applies a partial update of the non-status fields.
func (service *ApplicationService) Update(userID uint, applicationID uint, input ApplicationInput) (models.Application, error) {
	application, err := service.Get(userID, applicationID)
	if err != nil {
		return models.Application{}, err
	}

	if err := applyApplicationInput(&application, input); err != nil {
		return models.Application{}, err
	}
	application.UpdatedAt = service.now().UTC()

	updated, err := service.applications.UpdateDetails(&application)
	if err != nil {
		return models.Application{}, err
	}
	if !updated {
		return models.Application{}, ErrApplicationNotFound
	}
	return application, nil
}

// UpdateGenerated stores collaborator output on an owned application.
func (service *ApplicationService) UpdateGenerated(userID uint, applicationID uint, values map[string]any) error {
	values["updated_at"] = service.now().UTC()
	updated, err := service.applications.UpdateColumns(userID, applicationID, values)
	if err != nil {
		return err
	}
	if !updated {
		return ErrApplicationNotFound
	}
	return nil
}

// ChangeStatus moves the application to newStatus, applies the transition
// effects and appends one history entry, all in one transaction.
func (service *ApplicationService) ChangeStatus(userID uint, applicationID uint, newStatus string, note string) (ApplicationWithHistory, error) {
	newStatus = strings.TrimSpace(newStatus)
	if err := ValidateStatus(newStatus); err != nil {
		return ApplicationWithHistory{}, err
	}

	now := service.now()
	application, found, err := service.applications.ChangeStatus(userID, applicationID, func(current *models.Application) (models.StatusHistory, error) {
		entry := applyStatusTransition(current, newStatus, note, now)
		current.UpdatedAt = now.UTC()
		entry.ChangedAt = now.UTC()
		return entry, nil
	})
	if err != nil {
		return ApplicationWithHistory{}, err
	}
	if !found {
		return ApplicationWithHistory{}, ErrApplicationNotFound
	}

	history, err := service.applications.History(application.ID)
	if err != nil {
		return ApplicationWithHistory{}, err
	}
	return ApplicationWithHistory{Application: application, StatusHistory: history}, nil
}

func (service *ApplicationService) History(userID uint, applicationID uint) ([]models.StatusHistory, error) {
	if err := service.EnsureOwned(userID, applicationID); err != nil {
		return nil, err
	}
	return service.applications.History(applicationID)
}

// Delete removes the application and its dependents, then releases the
// document blobs. Blob failures are logged and do not fail the delete.
func (service *ApplicationService) Delete(ctx context.Context, userID uint, applicationID uint) error {
	documents, found, err := service.applications.DeleteForUser(userID, applicationID)
	if err != nil {
		return fmt.Errorf("delete application: %w", err)
	}
	if !found {
		return ErrApplicationNotFound
	}
	for _, document := range documents {
		releaseBlob(ctx, service.blobs, document)
	}
	return nil
}

func releaseBlob(ctx context.Context, blobs BlobRemover, document models.Document) {
	if blobs == nil || document.StoredFilename == "" {
		return
	}
	if err := blobs.Delete(ctx, document.StoredFilename); err != nil {
		log.Printf("document %d: blob cleanup failed for %s: %v", document.ID, document.StoredFilename, err)
	}
}
