package service

import (
	"context"
	"testing"
	"time"

	"trialcover-backend/models"
	"trialcover-backend/repository"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var underwritingProjectColumns = []string{
	"id", "user_id", "folder_id", "project_code", "name",
	"protocol_number", "trial_phase", "trial_drug", "sponsor", "subject_count",
	"indication", "duration_months", "site_count", "risk_factors",
	"auto_filled_fields", "field_confidence",
	"ai_risk_score", "coverage_per_subject", "premium_min", "premium_max",
	"risk_factor", "final_premium", "status", "created_at", "updated_at",
}

func newUnderwritingTestService(t *testing.T) (*UnderwritingService, pgxmock.PgxPoolIface) {
	t.Helper()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)

	svc := NewUnderwritingService(
		UnderwritingWithProjectRepository(repository.NewProjectRepository(mock)),
	)
	return svc, mock
}

func projectRow(id uuid.UUID, status models.ProjectStatus) *pgxmock.Rows {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	return pgxmock.NewRows(underwritingProjectColumns).AddRow(
		id, uuid.New(), nil, "TC-2025-0001", "某单抗注射液III期临床研究",
		"PROT-482193", models.PhaseIII, "某单抗注射液", "演示药业有限公司", 120,
		"非小细胞肺癌", 18, 6, []string{"肿瘤受试者"},
		[]string{"sponsor"}, []byte(`{"sponsor":91}`),
		64, int64(500000), int64(138240), int64(168960),
		1.0, nil, status, now, now,
	)
}

func TestApproveRejectedProjectFailsBeforeUpdate(t *testing.T) {
	svc, mock := newUnderwritingTestService(t)
	projectID := uuid.New()

	mock.ExpectQuery("FROM projects WHERE id").
		WithArgs(projectID).
		WillReturnRows(projectRow(projectID, models.StatusRejected))

	_, err := svc.ApproveProject(context.Background(), ApproveProjectRequest{ProjectID: projectID})
	require.ErrorIs(t, err, ErrInvalidStateTransition)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRejectApprovedProjectFailsBeforeUpdate(t *testing.T) {
	svc, mock := newUnderwritingTestService(t)
	projectID := uuid.New()

	mock.ExpectQuery("FROM projects WHERE id").
		WithArgs(projectID).
		WillReturnRows(projectRow(projectID, models.StatusApproved))

	_, err := svc.RejectProject(context.Background(), RejectProjectRequest{ProjectID: projectID})
	require.ErrorIs(t, err, ErrInvalidStateTransition)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGenerateQuoteFromApprovedProjectFails(t *testing.T) {
	svc, mock := newUnderwritingTestService(t)
	projectID := uuid.New()

	mock.ExpectQuery("FROM projects WHERE id").
		WithArgs(projectID).
		WillReturnRows(projectRow(projectID, models.StatusApproved))

	_, err := svc.GenerateQuote(context.Background(), GenerateQuoteRequest{
		ProjectID:  projectID,
		RiskFactor: 1.2,
	})
	require.ErrorIs(t, err, ErrInvalidStateTransition)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGenerateQuoteConflictsWhenStatusChanges(t *testing.T) {
	svc, mock := newUnderwritingTestService(t)
	projectID := uuid.New()

	mock.ExpectQuery("FROM projects WHERE id").
		WithArgs(projectID).
		WillReturnRows(projectRow(projectID, models.StatusPending))
	mock.ExpectExec("UPDATE projects SET").
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	_, err := svc.GenerateQuote(context.Background(), GenerateQuoteRequest{
		ProjectID:  projectID,
		RiskFactor: 1.2,
	})
	require.ErrorIs(t, err, ErrConcurrentModification)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApproveProjectConflictsWhenStatusChanges(t *testing.T) {
	svc, mock := newUnderwritingTestService(t)
	projectID := uuid.New()

	mock.ExpectQuery("FROM projects WHERE id").
		WithArgs(projectID).
		WillReturnRows(projectRow(projectID, models.StatusQuoted))
	mock.ExpectExec("UPDATE projects SET").
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	_, err := svc.ApproveProject(context.Background(), ApproveProjectRequest{ProjectID: projectID})
	require.ErrorIs(t, err, ErrConcurrentModification)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGenerateQuoteClampsAndPersistsAdjustment(t *testing.T) {
	svc, mock := newUnderwritingTestService(t)
	projectID := uuid.New()

	mock.ExpectQuery("FROM projects WHERE id").
		WithArgs(projectID).
		WillReturnRows(projectRow(projectID, models.StatusQuoted))
	mock.ExpectExec("UPDATE projects SET").
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	result, err := svc.GenerateQuote(context.Background(), GenerateQuoteRequest{
		ProjectID:  projectID,
		RiskFactor: 3.2,
	})
	require.NoError(t, err)

	assert.Equal(t, models.StatusQuoted, result.Project.Status)
	assert.Equal(t, 2.5, result.Project.RiskFactor)
	require.NotNil(t, result.Project.FinalPremium)
	assert.Equal(t, int64(240000), *result.Project.FinalPremium)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApproveQuotedProject(t *testing.T) {
	svc, mock := newUnderwritingTestService(t)
	projectID := uuid.New()

	mock.ExpectQuery("FROM projects WHERE id").
		WithArgs(projectID).
		WillReturnRows(projectRow(projectID, models.StatusQuoted))
	mock.ExpectExec("UPDATE projects SET").
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	result, err := svc.ApproveProject(context.Background(), ApproveProjectRequest{ProjectID: projectID})
	require.NoError(t, err)
	assert.Equal(t, models.StatusApproved, result.Project.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}
