package db

import (
	"time"

	"github.com/terraincognita07/jobtrack/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// detailColumns are the application fields a full update may touch. Status is
// changed only through ChangeStatus and the owner never changes.
var detailColumns = []string{
	"company", "role", "location", "salary_min", "salary_max", "salary_currency",
	"url", "job_description", "requirements", "notes", "applied_date", "response_date",
	"deadline", "match_score", "match_analysis", "job_posting_text", "generated_cv_html",
	"generated_cover_letter_html", "updated_at",
}

type ApplicationRepository struct {
	database *gorm.DB
}

func NewApplicationRepository(database *gorm.DB) *ApplicationRepository {
	return &ApplicationRepository{database: database}
}

// CreateWithHistory inserts the application and its creation history entry atomically.
func (repo *ApplicationRepository) CreateWithHistory(application *models.Application, entry *models.StatusHistory) error {
	return repo.database.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(application).Error; err != nil {
			return err
		}
		entry.ApplicationID = application.ID
		return tx.Create(entry).Error
	})
}

func (repo *ApplicationRepository) FindByIDForUser(userID uint, applicationID uint) (models.Application, bool, error) {
	var application models.Application
	found, err := firstOrMissing(repo.database.
		Where("id = ? AND user_id = ?", applicationID, userID).
		First(&application))
	return application, found, err
}

func (repo *ApplicationRepository) ExistsForUser(userID uint, applicationID uint) (bool, error) {
	var matched int64
	err := repo.database.Model(&models.Application{}).
		Where("id = ? AND user_id = ?", applicationID, userID).
		Count(&matched).Error
	return matched > 0, err
}

func (repo *ApplicationRepository) List(userID uint, query models.ApplicationQuery) ([]models.Application, int64, error) {
	filtered := repo.database.Model(&models.Application{}).Where("user_id = ?", userID)
	if query.Status != "" {
		filtered = filtered.Where("status = ?", query.Status)
	}
	if query.Search != "" {
		pattern := "%" + query.Search + "%"
		filtered = filtered.Where(
			"(company LIKE ? OR role LIKE ? OR location LIKE ? OR notes LIKE ?)",
			pattern, pattern, pattern, pattern,
		)
	}

	var total int64
	if err := filtered.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	applications := make([]models.Application, 0, query.PerPage)
	err := filtered.
		Order(clause.OrderByColumn{Column: clause.Column{Name: query.SortBy}, Desc: query.Descending}).
		Order(clause.OrderByColumn{Column: clause.Column{Name: "id"}, Desc: query.Descending}).
		Offset((query.Page - 1) * query.PerPage).
		Limit(query.PerPage).
		Find(&applications).Error
	if err != nil {
		return nil, 0, err
	}
	return applications, total, nil
}

func (repo *ApplicationRepository) ListByUser(userID uint) ([]models.Application, error) {
	applications := make([]models.Application, 0)
	err := repo.database.
		Where("user_id = ?", userID).
		Order("applied_date DESC, id DESC").
		Find(&applications).Error
	if err != nil {
		return nil, err
	}
	return applications, nil
}

func (repo *ApplicationRepository) ListRecent(userID uint, limit int) ([]models.Application, error) {
	applications := make([]models.Application, 0, limit)
	err := repo.database.
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&applications).Error
	if err != nil {
		return nil, err
	}
	return applications, nil
}

// ListForCalendar returns applications applied or due inside [from, to).
func (repo *ApplicationRepository) ListForCalendar(userID uint, from time.Time, to time.Time, status string) ([]models.Application, error) {
	query := repo.database.
		Where("user_id = ?", userID).
		Where("(applied_date >= ? AND applied_date < ?) OR (deadline >= ? AND deadline < ?)", from, to, from, to)
	if status != "" {
		query = query.Where("status = ?", status)
	}

	applications := make([]models.Application, 0)
	if err := query.Order("applied_date ASC, id ASC").Find(&applications).Error; err != nil {
		return nil, err
	}
	return applications, nil
}

// UpdateDetails writes the editable columns of an owned application.
func (repo *ApplicationRepository) UpdateDetails(application *models.Application) (bool, error) {
	result := repo.database.Model(&models.Application{}).
		Where("id = ? AND user_id = ?", application.ID, application.UserID).
		Select(detailColumns).
		Updates(application)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// UpdateColumns writes collaborator output (summaries, match data, generated
// HTML) onto an owned application.
func (repo *ApplicationRepository) UpdateColumns(userID uint, applicationID uint, values map[string]any) (bool, error) {
	if _, ok := values["updated_at"]; !ok {
		values["updated_at"] = time.Now().UTC()
	}
	result := repo.database.Model(&models.Application{}).
		Where("id = ? AND user_id = ?", applicationID, userID).
		Updates(values)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// ChangeStatus loads the owned application, lets change mutate it and describe
// the transition, then persists the new state and the history entry in one
// transaction. An error from change aborts without writing anything.
func (repo *ApplicationRepository) ChangeStatus(
	userID uint,
	applicationID uint,
	change func(application *models.Application) (models.StatusHistory, error),
) (models.Application, bool, error) {
	var application models.Application
	found := true

	err := repo.database.Transaction(func(tx *gorm.DB) error {
		loaded, err := firstOrMissing(tx.Where("id = ? AND user_id = ?", applicationID, userID).First(&application))
		if err != nil {
			return err
		}
		if !loaded {
			found = false
			return nil
		}

		entry, err := change(&application)
		if err != nil {
			return err
		}

		if err := tx.Model(&models.Application{}).
			Where("id = ? AND user_id = ?", application.ID, userID).
			Updates(map[string]any{
				"status":        application.Status,
				"response_date": application.ResponseDate,
				"updated_at":    application.UpdatedAt,
			}).Error; err != nil {
			return err
		}

		entry.ApplicationID = application.ID
		return tx.Create(&entry).Error
	})
	if err != nil || !found {
		return models.Application{}, found, err
	}
	return application, true, nil
}

// DeleteForUser removes the application with every dependent row and returns
// the document records whose blobs are now orphaned.
func (repo *ApplicationRepository) DeleteForUser(userID uint, applicationID uint) ([]models.Document, bool, error) {
	documents := make([]models.Document, 0)
	found := true

	err := repo.database.Transaction(func(tx *gorm.DB) error {
		var application models.Application
		loaded, err := firstOrMissing(tx.Where("id = ? AND user_id = ?", applicationID, userID).First(&application))
		if err != nil {
			return err
		}
		if !loaded {
			found = false
			return nil
		}

		if err := tx.Where("application_id = ?", application.ID).Find(&documents).Error; err != nil {
			return err
		}

		children := []any{
			&models.StatusHistory{},
			&models.Document{},
			&models.Reminder{},
			&models.InterviewEvent{},
			&models.ChatMessage{},
		}
		for _, child := range children {
			if err := tx.Where("application_id = ?", application.ID).Delete(child).Error; err != nil {
				return err
			}
		}
		// Consultant sessions outlive the application they were linked to.
		if err := tx.Model(&models.ConsultantSession{}).
			Where("application_id = ?", application.ID).
			Update("application_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&application).Error
	})
	if err != nil || !found {
		return nil, found, err
	}
	return documents, true, nil
}

// History returns the application's transitions newest first. Callers must
// have verified ownership of applicationID.
func (repo *ApplicationRepository) History(applicationID uint) ([]models.StatusHistory, error) {
	entries := make([]models.StatusHistory, 0)
	err := repo.database.
		Where("application_id = ?", applicationID).
		Order("changed_at DESC, id DESC").
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// CountDistinctReached counts the user's applications that ever transitioned
// into status, whatever their current status is.
func (repo *ApplicationRepository) CountDistinctReached(userID uint, status string) (int64, error) {
	var count int64
	err := repo.database.Model(&models.StatusHistory{}).
		Where("to_status = ?", status).
		Where("application_id IN (?)", ownedApplicationIDs(repo.database, userID)).
		Distinct("application_id").
		Count(&count).Error
	return count, err
}

func (repo *ApplicationRepository) TransitionsInto(userID uint, status string) ([]models.StatusHistory, error) {
	entries := make([]models.StatusHistory, 0)
	err := repo.database.
		Where("to_status = ?", status).
		Where("application_id IN (?)", ownedApplicationIDs(repo.database, userID)).
		Order("changed_at ASC, id ASC").
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

func (repo *ApplicationRepository) RecentStatusChanges(userID uint, limit int) ([]models.StatusChange, error) {
	changes := make([]models.StatusChange, 0, limit)
	err := repo.database.Table("status_histories").
		Select("status_histories.id, status_histories.application_id, applications.company, applications.role, " +
			"status_histories.from_status, status_histories.to_status, status_histories.changed_at, status_histories.note").
		Joins("JOIN applications ON applications.id = status_histories.application_id").
		Where("applications.user_id = ?", userID).
		Order("status_histories.changed_at DESC, status_histories.id DESC").
		Limit(limit).
		Scan(&changes).Error
	if err != nil {
		return nil, err
	}
	return changes, nil
}
