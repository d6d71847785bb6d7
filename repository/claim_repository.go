package repository

import (
	"context"

	"trialcover-backend/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ClaimRepository handles database operations for claims
type ClaimRepository struct {
	db DB
}

// NewClaimRepository creates a new claim repository
func NewClaimRepository(db DB) *ClaimRepository {
	return &ClaimRepository{db: db}
}

const claimColumns = `id, project_id, user_id, subject_name, invoice_amount,
		medical_insurance_amount, deductible, payment_ratio, claimed_amount,
		approved_amount, invoice_url, medical_record_url, status,
		created_at, updated_at`

func scanClaim(row pgx.Row) (*models.Claim, error) {
	claim := &models.Claim{}
	err := row.Scan(
		&claim.ID,
		&claim.ProjectID,
		&claim.UserID,
		&claim.SubjectName,
		&claim.InvoiceAmount,
		&claim.MedicalInsuranceAmount,
		&claim.Deductible,
		&claim.PaymentRatio,
		&claim.ClaimedAmount,
		&claim.ApprovedAmount,
		&claim.InvoiceURL,
		&claim.MedicalRecordURL,
		&claim.Status,
		&claim.CreatedAt,
		&claim.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return claim, nil
}

// Create creates a new claim
func (r *ClaimRepository) Create(ctx context.Context, claim *models.Claim) error {
	query := `
		INSERT INTO claims (
			project_id, user_id, subject_name, invoice_amount,
			medical_insurance_amount, deductible, payment_ratio,
			claimed_amount, invoice_url, medical_record_url, status
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, created_at, updated_at`

	err := r.db.QueryRow(
		ctx, query,
		claim.ProjectID,
		claim.UserID,
		claim.SubjectName,
		claim.InvoiceAmount,
		claim.MedicalInsuranceAmount,
		claim.Deductible,
		claim.PaymentRatio,
		claim.ClaimedAmount,
		claim.InvoiceURL,
		claim.MedicalRecordURL,
		claim.Status,
	).Scan(&claim.ID, &claim.CreatedAt, &claim.UpdatedAt)

	return err
}

// GetByID retrieves a claim by ID
func (r *ClaimRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Claim, error) {
	query := `SELECT ` + claimColumns + ` FROM claims WHERE id = $1`
	return scanClaim(r.db.QueryRow(ctx, query, id))
}

// ListByProjectID retrieves all claims filed against a project
func (r *ClaimRepository) ListByProjectID(ctx context.Context, projectID uuid.UUID) ([]*models.Claim, error) {
	query := `SELECT ` + claimColumns + ` FROM claims WHERE project_id = $1 ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var claims []*models.Claim
	for rows.Next() {
		claim, err := scanClaim(rows)
		if err != nil {
			return nil, err
		}
		claims = append(claims, claim)
	}

	return claims, rows.Err()
}

// ListByUserID retrieves a user's claims
func (r *ClaimRepository) ListByUserID(ctx context.Context, userID uuid.UUID, status *models.ClaimStatus) ([]*models.Claim, error) {
	query := `SELECT ` + claimColumns + ` FROM claims WHERE user_id = $1`
	args := []interface{}{userID}

	if status != nil {
		query += " AND status = $2"
		args = append(args, *status)
	}

	query += " ORDER BY created_at DESC"

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var claims []*models.Claim
	for rows.Next() {
		claim, err := scanClaim(rows)
		if err != nil {
			return nil, err
		}
		claims = append(claims, claim)
	}

	return claims, rows.Err()
}

// TransitionStatus atomically adjudicates a claim. The update only applies
// while the stored status matches expected; zero rows affected means another
// adjudication won.
func (r *ClaimRepository) TransitionStatus(
	ctx context.Context,
	id uuid.UUID,
	expected models.ClaimStatus,
	next models.ClaimStatus,
	approvedAmount *int64,
) (int64, error) {
	query := `
		UPDATE claims SET
			status = $2,
			approved_amount = COALESCE($3, approved_amount),
			updated_at = NOW()
		WHERE id = $1 AND status = $4`

	tag, err := r.db.Exec(ctx, query, id, next, approvedAmount, expected)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
