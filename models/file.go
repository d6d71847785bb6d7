package models

import (
	"time"

	"github.com/google/uuid"
)

// FileType categorizes an uploaded project document
type FileType string

const (
	FileTypeProtocol FileType = "protocol"
	FileTypeConsent  FileType = "consent"
	FileTypeOther    FileType = "other"
)

// FileVersion represents one uploaded version of a project document
type FileVersion struct {
	ID            uuid.UUID `json:"id"`
	ProjectID     uuid.UUID `json:"project_id"`
	FileType      FileType  `json:"file_type"`
	FileName      string    `json:"file_name"`
	MimeType      string    `json:"mime_type"`
	FileSize      int64     `json:"file_size"`
	StoragePath   string    `json:"storage_path"`
	VersionNumber int       `json:"version_number"`
	Notes         string    `json:"notes,omitempty"`
	UploadedBy    uuid.UUID `json:"uploaded_by"`
	CreatedAt     time.Time `json:"created_at"`
}
