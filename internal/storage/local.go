package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

type LocalStore struct {
	basePath string
}

func NewLocalStore(basePath string) (*LocalStore, error) {
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("create storage directory: %w", err)
	}
	return &LocalStore{basePath: basePath}, nil
}

func (store *LocalStore) Put(ctx context.Context, filename string, contentType string, body io.Reader) (Object, error) {
	name := objectName(uuid.New(), filename)
	fullPath := filepath.Join(store.basePath, filepath.FromSlash(name))

	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return Object{}, fmt.Errorf("create object directory: %w", err)
	}
	file, err := os.OpenFile(fullPath, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o600)
	if err != nil {
		return Object{}, fmt.Errorf("create object: %w", err)
	}

	written, copyErr := io.Copy(file, body)
	closeErr := file.Close()
	if copyErr != nil || closeErr != nil {
		_ = os.Remove(fullPath)
		return Object{}, fmt.Errorf("write object: %w", errors.Join(copyErr, closeErr))
	}

	return Object{Name: name, Size: written}, nil
}

func (store *LocalStore) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	if !validObjectName(name) {
		return nil, ErrObjectNotFound
	}
	file, err := os.Open(filepath.Join(store.basePath, filepath.FromSlash(name)))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrObjectNotFound
		}
		return nil, fmt.Errorf("open object: %w", err)
	}
	return file, nil
}

// Delete removes the object. A missing object is not an error.
func (store *LocalStore) Delete(ctx context.Context, name string) error {
	if !validObjectName(name) {
		return fmt.Errorf("invalid object name %q", name)
	}
	err := os.Remove(filepath.Join(store.basePath, filepath.FromSlash(name)))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("delete object: %w", err)
	}
	return nil
}
