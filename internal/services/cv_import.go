package services

import (
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
)

var ErrCVUnreadable = errors.New("cv could not be read")

type PDFTextExtractor interface {
	ExtractText(content []byte) (string, error)
}

// CVImportService turns an uploaded CV into plain text the profile
// extraction can work on.
type CVImportService struct {
	extractor PDFTextExtractor
	maxBytes  int64
}

func NewCVImportService(extractor PDFTextExtractor, maxBytes int64) *CVImportService {
	return &CVImportService{extractor: extractor, maxBytes: maxBytes}
}

func (service *CVImportService) ExtractText(filename string, body io.Reader) (string, error) {
	if strings.ToLower(path.Ext(strings.TrimSpace(filename))) != ".pdf" {
		return "", fmt.Errorf("%w: only PDF files are supported", ErrCVUnreadable)
	}

	reader := body
	if service.maxBytes > 0 {
		reader = io.LimitReader(body, service.maxBytes+1)
	}
	content, err := io.ReadAll(reader)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrCVUnreadable, err)
	}
	if service.maxBytes > 0 && int64(len(content)) > service.maxBytes {
		return "", ErrDocumentTooLarge
	}

	text, err := service.extractor.ExtractText(content)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrCVUnreadable, err)
	}
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("%w: no text found, the PDF may be a scanned image", ErrCVUnreadable)
	}
	return text, nil
}
