package db

import (
	"time"

	"github.com/terraincognita07/jobtrack/internal/models"
	"gorm.io/gorm"
)

type ConsultantRepository struct {
	database *gorm.DB
}

func NewConsultantRepository(database *gorm.DB) *ConsultantRepository {
	return &ConsultantRepository{database: database}
}

type sessionMessageCount struct {
	SessionID uint
	Count     int
}

// ListByUser returns the user's sessions, most recently active first. A
// non-nil applicationID narrows the list to sessions linked to it.
func (repo *ConsultantRepository) ListByUser(userID uint, applicationID *uint) ([]models.ConsultantSession, error) {
	sessions := make([]models.ConsultantSession, 0)
	query := repo.database.Where("user_id = ?", userID)
	if applicationID != nil {
		query = query.Where("application_id = ?", *applicationID)
	}
	if err := query.Order("updated_at DESC, id DESC").Find(&sessions).Error; err != nil {
		return nil, err
	}
	if len(sessions) == 0 {
		return sessions, nil
	}

	ids := make([]uint, 0, len(sessions))
	for _, session := range sessions {
		ids = append(ids, session.ID)
	}
	counts := make([]sessionMessageCount, 0, len(sessions))
	err := repo.database.Model(&models.ConsultantMessage{}).
		Select("session_id, COUNT(*) AS count").
		Where("session_id IN ?", ids).
		Group("session_id").
		Scan(&counts).Error
	if err != nil {
		return nil, err
	}
	byID := make(map[uint]int, len(counts))
	for _, count := range counts {
		byID[count.SessionID] = count.Count
	}
	for index := range sessions {
		sessions[index].MessageCount = byID[sessions[index].ID]
	}
	return sessions, nil
}

func (repo *ConsultantRepository) Create(session *models.ConsultantSession) error {
	return repo.database.Create(session).Error
}

// FindByIDForUser loads the session with its messages in chronological order.
func (repo *ConsultantRepository) FindByIDForUser(userID uint, sessionID uint) (models.ConsultantSession, bool, error) {
	var session models.ConsultantSession
	found, err := firstOrMissing(repo.database.
		Preload("Messages", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("created_at ASC, id ASC")
		}).
		Where("id = ? AND user_id = ?", sessionID, userID).
		First(&session))
	if err != nil || !found {
		return models.ConsultantSession{}, found, err
	}
	session.MessageCount = len(session.Messages)
	return session, true, nil
}

// UpdateFields changes the given columns of an owned session and bumps updated_at.
func (repo *ConsultantRepository) UpdateFields(userID uint, sessionID uint, values map[string]any, now time.Time) (bool, error) {
	values["updated_at"] = now
	result := repo.database.Model(&models.ConsultantSession{}).
		Where("id = ? AND user_id = ?", sessionID, userID).
		Updates(values)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// AppendExchange stores both sides of a consultation turn. It reports false
// when the session does not belong to the user.
func (repo *ConsultantRepository) AppendExchange(userID uint, sessionID uint, messages []models.ConsultantMessage, now time.Time) (bool, error) {
	found := true
	err := repo.database.Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.ConsultantSession{}).
			Where("id = ? AND user_id = ?", sessionID, userID).
			Update("updated_at", now)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			found = false
			return nil
		}
		for index := range messages {
			messages[index].SessionID = sessionID
			if err := tx.Create(&messages[index]).Error; err != nil {
				return err
			}
		}
		return nil
	})
	return found, err
}

func (repo *ConsultantRepository) DeleteForUser(userID uint, sessionID uint) (bool, error) {
	found := true
	err := repo.database.Transaction(func(tx *gorm.DB) error {
		var session models.ConsultantSession
		loaded, err := firstOrMissing(tx.Where("id = ? AND user_id = ?", sessionID, userID).First(&session))
		if err != nil {
			return err
		}
		if !loaded {
			found = false
			return nil
		}
		if err := tx.Where("session_id = ?", session.ID).Delete(&models.ConsultantMessage{}).Error; err != nil {
			return err
		}
		return tx.Delete(&session).Error
	})
	return found, err
}
