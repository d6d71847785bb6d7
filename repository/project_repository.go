package repository

import (
	"context"
	"fmt"

	"trialcover-backend/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ProjectRepository handles database operations for projects
type ProjectRepository struct {
	db DB
}

// NewProjectRepository creates a new project repository
func NewProjectRepository(db DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

const projectColumns = `id, user_id, folder_id, project_code, name,
		protocol_number, trial_phase, trial_drug, sponsor, subject_count,
		indication, duration_months, site_count, risk_factors,
		auto_filled_fields, field_confidence,
		ai_risk_score, coverage_per_subject, premium_min, premium_max,
		risk_factor, final_premium, status, created_at, updated_at`

func scanProject(row pgx.Row) (*models.Project, error) {
	project := &models.Project{}
	err := row.Scan(
		&project.ID,
		&project.UserID,
		&project.FolderID,
		&project.ProjectCode,
		&project.Name,
		&project.ProtocolNumber,
		&project.TrialPhase,
		&project.TrialDrug,
		&project.Sponsor,
		&project.SubjectCount,
		&project.Indication,
		&project.DurationMonths,
		&project.SiteCount,
		&project.RiskFactors,
		&project.AutoFilledFields,
		&project.FieldConfidence,
		&project.AIRiskScore,
		&project.CoveragePerSubject,
		&project.PremiumMin,
		&project.PremiumMax,
		&project.RiskFactor,
		&project.FinalPremium,
		&project.Status,
		&project.CreatedAt,
		&project.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return project, nil
}

// Create creates a new project
func (r *ProjectRepository) Create(ctx context.Context, project *models.Project) error {
	query := `
		INSERT INTO projects (
			user_id, folder_id, project_code, name,
			protocol_number, trial_phase, trial_drug, sponsor, subject_count,
			indication, duration_months, site_count, risk_factors,
			auto_filled_fields, field_confidence,
			ai_risk_score, coverage_per_subject, premium_min, premium_max,
			risk_factor, final_premium, status
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14,
			$15, $16, $17, $18, $19, $20, $21, $22
		) RETURNING id, created_at, updated_at`

	err := r.db.QueryRow(
		ctx, query,
		project.UserID,
		project.FolderID,
		project.ProjectCode,
		project.Name,
		project.ProtocolNumber,
		project.TrialPhase,
		project.TrialDrug,
		project.Sponsor,
		project.SubjectCount,
		project.Indication,
		project.DurationMonths,
		project.SiteCount,
		project.RiskFactors,
		project.AutoFilledFields,
		project.FieldConfidence,
		project.AIRiskScore,
		project.CoveragePerSubject,
		project.PremiumMin,
		project.PremiumMax,
		project.RiskFactor,
		project.FinalPremium,
		project.Status,
	).Scan(&project.ID, &project.CreatedAt, &project.UpdatedAt)

	return err
}

// GetByID retrieves a project by ID
func (r *ProjectRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects WHERE id = $1`
	return scanProject(r.db.QueryRow(ctx, query, id))
}

// Update updates a project's intake fields and extraction provenance
func (r *ProjectRepository) Update(ctx context.Context, project *models.Project) error {
	query := `
		UPDATE projects SET
			folder_id = $2,
			name = $3,
			protocol_number = $4,
			trial_phase = $5,
			trial_drug = $6,
			sponsor = $7,
			subject_count = $8,
			indication = $9,
			duration_months = $10,
			site_count = $11,
			risk_factors = $12,
			auto_filled_fields = $13,
			field_confidence = $14,
			ai_risk_score = $15,
			premium_min = $16,
			premium_max = $17,
			updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`

	err := r.db.QueryRow(
		ctx, query,
		project.ID,
		project.FolderID,
		project.Name,
		project.ProtocolNumber,
		project.TrialPhase,
		project.TrialDrug,
		project.Sponsor,
		project.SubjectCount,
		project.Indication,
		project.DurationMonths,
		project.SiteCount,
		project.RiskFactors,
		project.AutoFilledFields,
		project.FieldConfidence,
		project.AIRiskScore,
		project.PremiumMin,
		project.PremiumMax,
	).Scan(&project.UpdatedAt)

	return err
}

// TransitionStatus atomically moves a project between underwriting states.
// The update only applies while the stored status matches expected, so two
// concurrent operators cannot both finalize the same case. Returns the rows
// affected: zero means the status changed underneath the caller.
func (r *ProjectRepository) TransitionStatus(
	ctx context.Context,
	id uuid.UUID,
	expected []models.ProjectStatus,
	next models.ProjectStatus,
	riskFactor *float64,
	finalPremium *int64,
) (int64, error) {
	query := `
		UPDATE projects SET
			status = $2,
			risk_factor = COALESCE($3, risk_factor),
			final_premium = COALESCE($4, final_premium),
			updated_at = NOW()
		WHERE id = $1 AND status = ANY($5)`

	statuses := make([]string, len(expected))
	for i, s := range expected {
		statuses[i] = string(s)
	}

	tag, err := r.db.Exec(ctx, query, id, next, riskFactor, finalPremium, statuses)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// ListByUserID retrieves a user's projects with optional status/folder filters
// and a name/code/indication search term
func (r *ProjectRepository) ListByUserID(
	ctx context.Context,
	userID uuid.UUID,
	status *models.ProjectStatus,
	folderID *uuid.UUID,
	search string,
	limit, offset int,
) ([]*models.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects WHERE user_id = $1`

	args := []interface{}{userID}
	argIndex := 2

	if status != nil {
		query += fmt.Sprintf(" AND status = $%d", argIndex)
		args = append(args, *status)
		argIndex++
	}

	if folderID != nil {
		query += fmt.Sprintf(" AND folder_id = $%d", argIndex)
		args = append(args, *folderID)
		argIndex++
	}

	if search != "" {
		query += fmt.Sprintf(" AND (name ILIKE $%d OR project_code ILIKE $%d OR indication ILIKE $%d)", argIndex, argIndex, argIndex)
		args = append(args, "%"+search+"%")
		argIndex++
	}

	query += " ORDER BY created_at DESC"

	if limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argIndex)
		args = append(args, limit)
		argIndex++
		if offset > 0 {
			query += fmt.Sprintf(" OFFSET $%d", argIndex)
			args = append(args, offset)
		}
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var projects []*models.Project
	for rows.Next() {
		project, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, project)
	}

	return projects, rows.Err()
}

// Stats aggregates the quote pipeline counters for a user
func (r *ProjectRepository) Stats(ctx context.Context, userID uuid.UUID) (*models.ProjectStats, error) {
	stats := &models.ProjectStats{}
	query := `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE status = 'quoted'),
			COUNT(*) FILTER (WHERE status = 'approved'),
			COALESCE(SUM(final_premium), 0)
		FROM projects
		WHERE user_id = $1`

	err := r.db.QueryRow(ctx, query, userID).Scan(
		&stats.Total,
		&stats.Quoted,
		&stats.Approved,
		&stats.TotalFinalPremium,
	)
	if err != nil {
		return nil, err
	}

	return stats, nil
}

// Delete deletes a project
func (r *ProjectRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM projects WHERE id = $1`
	_, err := r.db.Exec(ctx, query, id)
	return err
}
