package db

import (
	"github.com/terraincognita07/jobtrack/internal/models"
	"gorm.io/gorm"
)

type DocumentRepository struct {
	database *gorm.DB
}

func NewDocumentRepository(database *gorm.DB) *DocumentRepository {
	return &DocumentRepository{database: database}
}

func (repo *DocumentRepository) Create(document *models.Document) error {
	return repo.database.Create(document).Error
}

func (repo *DocumentRepository) ListByApplication(userID uint, applicationID uint) ([]models.Document, error) {
	documents := make([]models.Document, 0)
	err := repo.database.
		Where("user_id = ? AND application_id = ?", userID, applicationID).
		Order("uploaded_at DESC, id DESC").
		Find(&documents).Error
	if err != nil {
		return nil, err
	}
	return documents, nil
}

func (repo *DocumentRepository) FindByIDForUser(userID uint, documentID uint) (models.Document, bool, error) {
	var document models.Document
	found, err := firstOrMissing(repo.database.
		Where("id = ? AND user_id = ?", documentID, userID).
		First(&document))
	return document, found, err
}

// DeleteForUser removes the metadata row and returns it so the caller can
// release the blob.
func (repo *DocumentRepository) DeleteForUser(userID uint, documentID uint) (models.Document, bool, error) {
	var document models.Document
	found := true
	err := repo.database.Transaction(func(tx *gorm.DB) error {
		loaded, err := firstOrMissing(tx.Where("id = ? AND user_id = ?", documentID, userID).First(&document))
		if err != nil {
			return err
		}
		if !loaded {
			found = false
			return nil
		}
		return tx.Delete(&document).Error
	})
	if err != nil || !found {
		return models.Document{}, found, err
	}
	return document, true, nil
}
