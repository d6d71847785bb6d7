package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// LocalStorage keeps project documents on the local filesystem under a base
// directory, mirroring the storage-path layout used for S3 keys. Intended
// for development and single-node deployments.
type LocalStorage struct {
	basePath string
}

// NewLocalStorage creates a local storage rooted at basePath
func NewLocalStorage(basePath string) (*LocalStorage, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage root %s: %w", basePath, err)
	}
	return &LocalStorage{basePath: basePath}, nil
}

// Upload writes a document under prefix and returns its storage path
func (l *LocalStorage) Upload(ctx context.Context, prefix string, fileID uuid.UUID, filename string, data io.Reader) (string, error) {
	storagePath := generateStoragePath(prefix, fileID, filename)
	fullPath := filepath.Join(l.basePath, storagePath)

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return "", fmt.Errorf("failed to create directory for %s: %w", storagePath, err)
	}

	out, err := os.Create(fullPath)
	if err != nil {
		return "", fmt.Errorf("failed to create %s: %w", storagePath, err)
	}
	defer out.Close()

	if _, err := io.Copy(out, data); err != nil {
		os.Remove(fullPath)
		return "", fmt.Errorf("failed to write %s: %w", storagePath, err)
	}

	return storagePath, nil
}

// Download opens a stored document for reading
func (l *LocalStorage) Download(ctx context.Context, storagePath string) (io.ReadCloser, error) {
	file, err := os.Open(filepath.Join(l.basePath, storagePath))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("file not found: %s", storagePath)
		}
		return nil, fmt.Errorf("failed to open %s: %w", storagePath, err)
	}
	return file, nil
}

// Delete removes a stored document. Deleting a missing file is not an error.
func (l *LocalStorage) Delete(ctx context.Context, storagePath string) error {
	err := os.Remove(filepath.Join(l.basePath, storagePath))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete %s: %w", storagePath, err)
	}
	return nil
}
