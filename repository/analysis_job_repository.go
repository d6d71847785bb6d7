package repository

import (
	"context"

	"trialcover-backend/models"

	"github.com/google/uuid"
)

// AnalysisJobRepository handles database operations for analysis jobs
type AnalysisJobRepository struct {
	db DB
}

// NewAnalysisJobRepository creates a new analysis job repository
func NewAnalysisJobRepository(db DB) *AnalysisJobRepository {
	return &AnalysisJobRepository{db: db}
}

// Create creates a new analysis job
func (r *AnalysisJobRepository) Create(ctx context.Context, job *models.AnalysisJob) error {
	query := `
		INSERT INTO analysis_jobs (user_id, status, current_step, steps)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at`

	err := r.db.QueryRow(
		ctx, query,
		job.UserID,
		job.Status,
		job.CurrentStep,
		job.Steps,
	).Scan(&job.ID, &job.CreatedAt, &job.UpdatedAt)

	return err
}

// GetByID retrieves an analysis job by ID
func (r *AnalysisJobRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.AnalysisJob, error) {
	query := `
		SELECT id, user_id, status, current_step, steps, result,
			error_message, created_at, updated_at, completed_at
		FROM analysis_jobs
		WHERE id = $1`

	job := &models.AnalysisJob{}
	var result models.AnalysisResult
	var hasResult bool

	err := r.db.QueryRow(ctx, query, id).Scan(
		&job.ID,
		&job.UserID,
		&job.Status,
		&job.CurrentStep,
		&job.Steps,
		&resultScanner{result: &result, present: &hasResult},
		&job.ErrorMessage,
		&job.CreatedAt,
		&job.UpdatedAt,
		&job.CompletedAt,
	)
	if err != nil {
		return nil, err
	}

	if hasResult {
		job.Result = &result
	}

	return job, nil
}

// resultScanner scans a nullable JSONB result column and records whether a
// value was present, so GetByID can leave Result nil for unfinished jobs.
type resultScanner struct {
	result  *models.AnalysisResult
	present *bool
}

func (s *resultScanner) Scan(value interface{}) error {
	if value == nil {
		*s.present = false
		return nil
	}
	*s.present = true
	return s.result.Scan(value)
}

// UpdateProgress updates the job's current step and step list
func (r *AnalysisJobRepository) UpdateProgress(ctx context.Context, id uuid.UUID, currentStep string, steps models.AnalysisSteps) error {
	query := `
		UPDATE analysis_jobs
		SET status = $2, current_step = $3, steps = $4, updated_at = NOW()
		WHERE id = $1`

	_, err := r.db.Exec(ctx, query, id, models.JobStatusInProgress, currentStep, steps)
	return err
}

// Complete marks the job completed and stores its result
func (r *AnalysisJobRepository) Complete(ctx context.Context, id uuid.UUID, steps models.AnalysisSteps, result *models.AnalysisResult) error {
	query := `
		UPDATE analysis_jobs
		SET status = $2, current_step = NULL, steps = $3, result = $4,
			updated_at = NOW(), completed_at = NOW()
		WHERE id = $1`

	_, err := r.db.Exec(ctx, query, id, models.JobStatusCompleted, steps, result)
	return err
}

// Fail marks the job failed with an error message
func (r *AnalysisJobRepository) Fail(ctx context.Context, id uuid.UUID, steps models.AnalysisSteps, errorMessage string) error {
	query := `
		UPDATE analysis_jobs
		SET status = $2, steps = $3, error_message = $4,
			updated_at = NOW(), completed_at = NOW()
		WHERE id = $1`

	_, err := r.db.Exec(ctx, query, id, models.JobStatusFailed, steps, errorMessage)
	return err
}
