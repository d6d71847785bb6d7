package repository

import (
	"context"

	"trialcover-backend/models"

	"github.com/google/uuid"
)

// ProfileRepository handles database operations for user profiles
type ProfileRepository struct {
	db DB
}

// NewProfileRepository creates a new profile repository
func NewProfileRepository(db DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

// Create creates a new profile
func (r *ProfileRepository) Create(ctx context.Context, profile *models.Profile) error {
	query := `
		INSERT INTO profiles (email, password_hash, company_name, contact_name, phone)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at`

	err := r.db.QueryRow(
		ctx, query,
		profile.Email,
		profile.PasswordHash,
		profile.CompanyName,
		profile.ContactName,
		profile.Phone,
	).Scan(&profile.ID, &profile.CreatedAt, &profile.UpdatedAt)

	return err
}

// GetByID retrieves a profile by ID
func (r *ProfileRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Profile, error) {
	query := `
		SELECT id, email, password_hash, company_name, contact_name, phone,
			created_at, updated_at
		FROM profiles
		WHERE id = $1`

	profile := &models.Profile{}
	err := r.db.QueryRow(ctx, query, id).Scan(
		&profile.ID,
		&profile.Email,
		&profile.PasswordHash,
		&profile.CompanyName,
		&profile.ContactName,
		&profile.Phone,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return profile, nil
}

// GetByEmail retrieves a profile by email
func (r *ProfileRepository) GetByEmail(ctx context.Context, email string) (*models.Profile, error) {
	query := `
		SELECT id, email, password_hash, company_name, contact_name, phone,
			created_at, updated_at
		FROM profiles
		WHERE email = $1`

	profile := &models.Profile{}
	err := r.db.QueryRow(ctx, query, email).Scan(
		&profile.ID,
		&profile.Email,
		&profile.PasswordHash,
		&profile.CompanyName,
		&profile.ContactName,
		&profile.Phone,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return profile, nil
}

// Update updates a profile's contact details
func (r *ProfileRepository) Update(ctx context.Context, profile *models.Profile) error {
	query := `
		UPDATE profiles
		SET company_name = $2, contact_name = $3, phone = $4, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`

	err := r.db.QueryRow(
		ctx, query,
		profile.ID,
		profile.CompanyName,
		profile.ContactName,
		profile.Phone,
	).Scan(&profile.UpdatedAt)

	return err
}
