package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/terraincognita07/jobtrack/internal/models"
	"github.com/terraincognita07/jobtrack/internal/storage"
)

var (
	ErrDocumentNotFound    = errors.New("document not found")
	ErrDocumentInvalid     = errors.New("invalid document")
	ErrDocumentTooLarge    = errors.New("document too large")
	ErrDocumentStoreFailed = errors.New("document storage failed")
)

var allowedDocumentExtensions = map[string]struct{}{
	".pdf":  {},
	".doc":  {},
	".docx": {},
	".txt":  {},
	".png":  {},
	".jpg":  {},
	".jpeg": {},
}

type DocumentRepository interface {
	Create(document *models.Document) error
	ListByApplication(userID uint, applicationID uint) ([]models.Document, error)
	FindByIDForUser(userID uint, documentID uint) (models.Document, bool, error)
	DeleteForUser(userID uint, documentID uint) (models.Document, bool, error)
}

type ApplicationOwnership interface {
	ExistsForUser(userID uint, applicationID uint) (bool, error)
}

type BlobStore interface {
	Put(ctx context.Context, filename string, contentType string, body io.Reader) (storage.Object, error)
	Open(ctx context.Context, name string) (io.ReadCloser, error)
	Delete(ctx context.Context, name string) error
}

type DocumentUpload struct {
	Filename    string
	ContentType string
	Size        int64
	Category    string
	Body        io.Reader
}

type DocumentService struct {
	documents    DocumentRepository
	applications ApplicationOwnership
	blobs        BlobStore
	maxBytes     int64
}

func NewDocumentService(documents DocumentRepository, applications ApplicationOwnership, blobs BlobStore, maxBytes int64) *DocumentService {
	return &DocumentService{
		documents:    documents,
		applications: applications,
		blobs:        blobs,
		maxBytes:     maxBytes,
	}
}

func NormalizeDocCategory(raw string) (string, error) {
	category := strings.ToLower(strings.TrimSpace(raw))
	switch category {
	case "":
		return models.DocCategoryCV, nil
	case models.DocCategoryCV, models.DocCategoryCoverLetter, models.DocCategoryOther:
		return category, nil
	default:
		return "", fmt.Errorf("%w: doc_category must be cv, cover_letter or other", ErrDocumentInvalid)
	}
}

func cleanUploadFilename(raw string) (string, error) {
	filename := path.Base(strings.ReplaceAll(strings.TrimSpace(raw), "\\", "/"))
	if filename == "" || filename == "." || filename == "/" {
		return "", fmt.Errorf("%w: no file selected", ErrDocumentInvalid)
	}
	if _, ok := allowedDocumentExtensions[strings.ToLower(path.Ext(filename))]; !ok {
		return "", fmt.Errorf("%w: file type not allowed, allowed: pdf, doc, docx, txt, png, jpg, jpeg", ErrDocumentInvalid)
	}
	return filename, nil
}

func (service *DocumentService) ensureOwned(userID uint, applicationID uint) error {
	owned, err := service.applications.ExistsForUser(userID, applicationID)
	if err != nil {
		return err
	}
	if !owned {
		return ErrApplicationNotFound
	}
	return nil
}

func (service *DocumentService) Upload(ctx context.Context, userID uint, applicationID uint, upload DocumentUpload) (models.Document, error) {
	if err := service.ensureOwned(userID, applicationID); err != nil {
		return models.Document{}, err
	}
	filename, err := cleanUploadFilename(upload.Filename)
	if err != nil {
		return models.Document{}, err
	}
	category, err := NormalizeDocCategory(upload.Category)
	if err != nil {
		return models.Document{}, err
	}
	if service.maxBytes > 0 && upload.Size > service.maxBytes {
		return models.Document{}, ErrDocumentTooLarge
	}

	contentType := strings.TrimSpace(upload.ContentType)
	if contentType == "" {
		contentType = storage.ContentTypeFor(filename)
	}
	return service.store(ctx, userID, &applicationID, filename, contentType, category, upload.Body)
}

// StoreGenerated persists renderer output as a document of the user.
func (service *DocumentService) StoreGenerated(ctx context.Context, userID uint, applicationID *uint, filename string, category string, content []byte) (models.Document, error) {
	if applicationID != nil {
		if err := service.ensureOwned(userID, *applicationID); err != nil {
			return models.Document{}, err
		}
	}
	normalized, err := NormalizeDocCategory(category)
	if err != nil {
		return models.Document{}, err
	}
	return service.store(ctx, userID, applicationID, filename, storage.ContentTypeFor(filename), normalized, bytes.NewReader(content))
}

func (service *DocumentService) store(ctx context.Context, userID uint, applicationID *uint, filename string, contentType string, category string, body io.Reader) (models.Document, error) {
	object, err := service.blobs.Put(ctx, filename, contentType, body)
	if err != nil {
		return models.Document{}, fmt.Errorf("%w: %v", ErrDocumentStoreFailed, err)
	}

	document := models.Document{
		UserID:         userID,
		ApplicationID:  applicationID,
		Filename:       filename,
		StoredFilename: object.Name,
		FileType:       contentType,
		FileSize:       object.Size,
		DocCategory:    category,
		CloudURL:       object.URL,
		UploadedAt:     time.Now().UTC(),
	}
	if err := service.documents.Create(&document); err != nil {
		releaseBlob(ctx, service.blobs, document)
		return models.Document{}, err
	}
	return document, nil
}

func (service *DocumentService) List(userID uint, applicationID uint) ([]models.Document, error) {
	if err := service.ensureOwned(userID, applicationID); err != nil {
		return nil, err
	}
	return service.documents.ListByApplication(userID, applicationID)
}

// Open returns the metadata and a reader for the blob. The caller closes the reader.
func (service *DocumentService) Open(ctx context.Context, userID uint, documentID uint) (models.Document, io.ReadCloser, error) {
	document, found, err := service.documents.FindByIDForUser(userID, documentID)
	if err != nil {
		return models.Document{}, nil, err
	}
	if !found {
		return models.Document{}, nil, ErrDocumentNotFound
	}

	reader, err := service.blobs.Open(ctx, document.StoredFilename)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			return models.Document{}, nil, ErrDocumentNotFound
		}
		return models.Document{}, nil, fmt.Errorf("%w: %v", ErrDocumentStoreFailed, err)
	}
	return document, reader, nil
}

// Delete removes the metadata row first. The blob is released best-effort
// afterwards, so a storage outage never blocks the delete.
func (service *DocumentService) Delete(ctx context.Context, userID uint, documentID uint) error {
	document, found, err := service.documents.DeleteForUser(userID, documentID)
	if err != nil {
		return err
	}
	if !found {
		return ErrDocumentNotFound
	}
	releaseBlob(ctx, service.blobs, document)
	return nil
}
