package repository

import (
	"context"

	"trialcover-backend/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// FileRepository handles database operations for project file versions
type FileRepository struct {
	db DB
}

// NewFileRepository creates a new file repository
func NewFileRepository(db DB) *FileRepository {
	return &FileRepository{db: db}
}

const fileColumns = `id, project_id, file_type, file_name, mime_type,
		file_size, storage_path, version_number, notes, uploaded_by, created_at`

func scanFileVersion(row pgx.Row) (*models.FileVersion, error) {
	file := &models.FileVersion{}
	err := row.Scan(
		&file.ID,
		&file.ProjectID,
		&file.FileType,
		&file.FileName,
		&file.MimeType,
		&file.FileSize,
		&file.StoragePath,
		&file.VersionNumber,
		&file.Notes,
		&file.UploadedBy,
		&file.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return file, nil
}

// Create records a new file version. The version number is assigned here, in
// the same statement, so concurrent uploads of the same document type never
// collide.
func (r *FileRepository) Create(ctx context.Context, file *models.FileVersion) error {
	query := `
		INSERT INTO file_versions (
			project_id, file_type, file_name, mime_type, file_size,
			storage_path, version_number, notes, uploaded_by
		) VALUES (
			$1, $2, $3, $4, $5, $6,
			COALESCE((SELECT MAX(version_number) FROM file_versions
				WHERE project_id = $1 AND file_type = $2), 0) + 1,
			$7, $8
		) RETURNING id, version_number, created_at`

	err := r.db.QueryRow(
		ctx, query,
		file.ProjectID,
		file.FileType,
		file.FileName,
		file.MimeType,
		file.FileSize,
		file.StoragePath,
		file.Notes,
		file.UploadedBy,
	).Scan(&file.ID, &file.VersionNumber, &file.CreatedAt)

	return err
}

// GetByID retrieves a file version by ID
func (r *FileRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.FileVersion, error) {
	query := `SELECT ` + fileColumns + ` FROM file_versions WHERE id = $1`
	return scanFileVersion(r.db.QueryRow(ctx, query, id))
}

// ListByProjectID retrieves all file versions for a project, newest first
func (r *FileRepository) ListByProjectID(ctx context.Context, projectID uuid.UUID, fileType *models.FileType) ([]*models.FileVersion, error) {
	query := `SELECT ` + fileColumns + ` FROM file_versions WHERE project_id = $1`
	args := []interface{}{projectID}

	if fileType != nil {
		query += " AND file_type = $2"
		args = append(args, *fileType)
	}

	query += " ORDER BY file_type, version_number DESC"

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var files []*models.FileVersion
	for rows.Next() {
		file, err := scanFileVersion(rows)
		if err != nil {
			return nil, err
		}
		files = append(files, file)
	}

	return files, rows.Err()
}

// GetLatest retrieves the newest version of a project document type
func (r *FileRepository) GetLatest(ctx context.Context, projectID uuid.UUID, fileType models.FileType) (*models.FileVersion, error) {
	query := `SELECT ` + fileColumns + ` FROM file_versions
		WHERE project_id = $1 AND file_type = $2
		ORDER BY version_number DESC
		LIMIT 1`
	return scanFileVersion(r.db.QueryRow(ctx, query, projectID, fileType))
}

// Delete deletes a file version record
func (r *FileRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM file_versions WHERE id = $1`
	_, err := r.db.Exec(ctx, query, id)
	return err
}
