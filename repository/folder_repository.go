package repository

import (
	"context"

	"trialcover-backend/models"

	"github.com/google/uuid"
)

// FolderRepository handles database operations for inquiry folders
type FolderRepository struct {
	db DB
}

// NewFolderRepository creates a new folder repository
func NewFolderRepository(db DB) *FolderRepository {
	return &FolderRepository{db: db}
}

// Create creates a new inquiry folder
func (r *FolderRepository) Create(ctx context.Context, folder *models.InquiryFolder) error {
	query := `
		INSERT INTO inquiry_folders (user_id, name, description)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`

	err := r.db.QueryRow(ctx, query, folder.UserID, folder.Name, folder.Description).
		Scan(&folder.ID, &folder.CreatedAt)

	return err
}

// GetByID retrieves a folder by ID
func (r *FolderRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.InquiryFolder, error) {
	query := `
		SELECT id, user_id, name, description, created_at
		FROM inquiry_folders
		WHERE id = $1`

	folder := &models.InquiryFolder{}
	err := r.db.QueryRow(ctx, query, id).Scan(
		&folder.ID,
		&folder.UserID,
		&folder.Name,
		&folder.Description,
		&folder.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	return folder, nil
}

// ListByUserID retrieves a user's folders
func (r *FolderRepository) ListByUserID(ctx context.Context, userID uuid.UUID) ([]*models.InquiryFolder, error) {
	query := `
		SELECT id, user_id, name, description, created_at
		FROM inquiry_folders
		WHERE user_id = $1
		ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var folders []*models.InquiryFolder
	for rows.Next() {
		folder := &models.InquiryFolder{}
		err := rows.Scan(
			&folder.ID,
			&folder.UserID,
			&folder.Name,
			&folder.Description,
			&folder.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		folders = append(folders, folder)
	}

	return folders, rows.Err()
}

// Rename updates a folder's name and description
func (r *FolderRepository) Rename(ctx context.Context, id uuid.UUID, name string, description *string) error {
	query := `UPDATE inquiry_folders SET name = $2, description = $3 WHERE id = $1`
	_, err := r.db.Exec(ctx, query, id, name, description)
	return err
}

// Delete deletes a folder. Projects in the folder keep existing with a cleared
// folder reference via the schema's ON DELETE SET NULL.
func (r *FolderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM inquiry_folders WHERE id = $1`
	_, err := r.db.Exec(ctx, query, id)
	return err
}
