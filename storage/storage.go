package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Storage abstracts where project documents live. Paths returned by Upload
// are opaque to callers and valid for Download and Delete.
type Storage interface {
	// Upload stores a document under the given prefix and returns its
	// storage path
	Upload(ctx context.Context, prefix string, fileID uuid.UUID, filename string, data io.Reader) (string, error)

	// Download retrieves a document by storage path
	Download(ctx context.Context, storagePath string) (io.ReadCloser, error)

	// Delete removes a document by storage path
	Delete(ctx context.Context, storagePath string) error
}

// StorageType selects the backing store
type StorageType string

const (
	StorageTypeLocal StorageType = "local"
	StorageTypeS3    StorageType = "s3"
)

// StorageConfig holds backend configuration
type StorageConfig struct {
	Type         StorageType
	LocalPath    string
	S3Bucket     string
	S3Region     string
	AWSAccessKey string
	AWSSecretKey string
}

// NewStorage creates a storage backend from explicit configuration
func NewStorage(cfg StorageConfig) (Storage, error) {
	switch cfg.Type {
	case StorageTypeLocal:
		return NewLocalStorage(cfg.LocalPath)
	case StorageTypeS3:
		if cfg.S3Bucket == "" {
			return nil, errors.New("S3 bucket is required for s3 storage")
		}
		return NewS3Storage(cfg)
	default:
		return nil, fmt.Errorf("unknown storage type: %s", cfg.Type)
	}
}

// NewStorageFromEnv builds the storage configuration from environment
// variables. Defaults to local storage under ./storage/files.
func NewStorageFromEnv() (Storage, error) {
	cfg := StorageConfig{
		Type:         StorageType(os.Getenv("STORAGE_TYPE")),
		LocalPath:    os.Getenv("STORAGE_LOCAL_PATH"),
		S3Bucket:     os.Getenv("AWS_S3_BUCKET"),
		S3Region:     os.Getenv("AWS_REGION"),
		AWSAccessKey: os.Getenv("AWS_ACCESS_KEY_ID"),
		AWSSecretKey: os.Getenv("AWS_SECRET_ACCESS_KEY"),
	}

	if cfg.Type == "" {
		cfg.Type = StorageTypeLocal
	}
	if cfg.LocalPath == "" {
		cfg.LocalPath = "./storage/files"
	}
	if cfg.S3Region == "" {
		cfg.S3Region = "us-east-1"
	}

	return NewStorage(cfg)
}

// ProjectPrefix builds the storage prefix for one project document type,
// e.g. projects/<id>/protocol
func ProjectPrefix(projectID uuid.UUID, fileType string) string {
	return fmt.Sprintf("projects/%s/%s", projectID, fileType)
}

// generateStoragePath derives a unique storage path from the file id and a
// sanitized filename
func generateStoragePath(prefix string, fileID uuid.UUID, filename string) string {
	ext := filepath.Ext(filename)
	baseName := strings.TrimSuffix(filename, ext)
	baseName = strings.NewReplacer(" ", "_", "/", "_", "\\", "_").Replace(baseName)
	return fmt.Sprintf("%s/%s_%s%s", prefix, fileID.String(), baseName, ext)
}
