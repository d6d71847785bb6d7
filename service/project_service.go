package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"trialcover-backend/extraction"
	"trialcover-backend/models"
	"trialcover-backend/pricing"
	"trialcover-backend/repository"

	"github.com/google/uuid"
)

// ProjectService handles business logic for insurance projects
type ProjectService struct {
	projectRepo *repository.ProjectRepository
	folderRepo  *repository.FolderRepository
}

// ProjectServiceOption is a functional option for ProjectService
type ProjectServiceOption func(*ProjectService)

// WithProjectRepository sets the project repository
func WithProjectRepository(repo *repository.ProjectRepository) ProjectServiceOption {
	return func(s *ProjectService) {
		s.projectRepo = repo
	}
}

// WithFolderRepository sets the folder repository
func WithFolderRepository(repo *repository.FolderRepository) ProjectServiceOption {
	return func(s *ProjectService) {
		s.folderRepo = repo
	}
}

// NewProjectService creates a new project service
func NewProjectService(opts ...ProjectServiceOption) *ProjectService {
	s := &ProjectService{}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var (
	ErrProjectNotFound = errors.New("project not found")
	ErrFolderNotFound  = errors.New("inquiry folder not found")
	ErrNotProjectOwner = errors.New("project does not belong to user")
)

// CreateProjectRequest represents a request to create a project from an
// intake, typically the reconciled output of an analysis job
type CreateProjectRequest struct {
	UserID           uuid.UUID
	FolderID         *uuid.UUID
	Intake           models.TrialIntake
	AutoFilledFields []string
	FieldConfidence  models.FieldConfidence
}

// CreateProjectResult represents the result of creating a project
type CreateProjectResult struct {
	Project *models.Project
}

// CreateProject persists an intake as a pending project with its initial
// machine quote
func (s *ProjectService) CreateProject(ctx context.Context, req CreateProjectRequest) (*CreateProjectResult, error) {
	if s.projectRepo == nil {
		return nil, errors.New("project repository not set")
	}

	if req.FolderID != nil && s.folderRepo != nil {
		folder, err := s.folderRepo.GetByID(ctx, *req.FolderID)
		if err != nil {
			return nil, ErrFolderNotFound
		}
		if folder.UserID != req.UserID {
			return nil, ErrFolderNotFound
		}
	}

	quote := pricing.CalculatePremium(req.Intake)
	riskFactor := pricing.RiskFactor(req.Intake)

	autoFilled := req.AutoFilledFields
	if autoFilled == nil {
		autoFilled = []string{}
	}
	confidence := req.FieldConfidence
	if confidence == nil {
		confidence = make(models.FieldConfidence)
	}

	project := &models.Project{
		UserID:      req.UserID,
		FolderID:    req.FolderID,
		ProjectCode: newProjectCode(time.Now()),
		Name:        req.Intake.ProtocolName,

		ProtocolNumber: req.Intake.ProtocolNumber,
		TrialPhase:     req.Intake.TrialPhase,
		TrialDrug:      req.Intake.TrialDrug,
		Sponsor:        req.Intake.Sponsor,
		SubjectCount:   req.Intake.SubjectCount,
		Indication:     req.Intake.Indication,
		DurationMonths: req.Intake.DurationMonths,
		SiteCount:      req.Intake.SiteCount,
		RiskFactors:    req.Intake.RiskFactors,

		AutoFilledFields: autoFilled,
		FieldConfidence:  confidence,

		AIRiskScore:        quote.RiskScore,
		CoveragePerSubject: quote.CoveragePerSubject,
		PremiumMin:         quote.PremiumMin,
		PremiumMax:         quote.PremiumMax,
		RiskFactor:         riskFactor,
		Status:             models.StatusPending,
	}

	if project.RiskFactors == nil {
		project.RiskFactors = []string{}
	}

	err := s.projectRepo.Create(ctx, project)
	if err != nil {
		return nil, err
	}

	return &CreateProjectResult{Project: project}, nil
}

// newProjectCode derives a short human-facing case number
func newProjectCode(now time.Time) string {
	return fmt.Sprintf("TC-%s-%04d", now.Format("20060102"), now.UnixMilli()%10000)
}

// GetProjectRequest represents a request to get a project
type GetProjectRequest struct {
	ID     uuid.UUID
	UserID uuid.UUID
}

// GetProjectResult represents the result of getting a project
type GetProjectResult struct {
	Project *models.Project
}

// GetProject retrieves a project, enforcing ownership
func (s *ProjectService) GetProject(ctx context.Context, req GetProjectRequest) (*GetProjectResult, error) {
	if s.projectRepo == nil {
		return nil, errors.New("project repository not set")
	}

	project, err := s.projectRepo.GetByID(ctx, req.ID)
	if err != nil {
		return nil, ErrProjectNotFound
	}
	if project.UserID != req.UserID {
		return nil, ErrNotProjectOwner
	}

	return &GetProjectResult{Project: project}, nil
}

// UpdateProjectRequest represents a request to update a project's intake.
// Fields holds only the fields the user changed; each one leaves the
// auto-filled set and loses its confidence entry.
type UpdateProjectRequest struct {
	ID       uuid.UUID
	UserID   uuid.UUID
	FolderID *uuid.UUID
	Fields   map[string]interface{}
}

// UpdateProjectResult represents the result of updating a project
type UpdateProjectResult struct {
	Project *models.Project
}

// UpdateProject applies user edits to a project's intake, clears extraction
// provenance for the edited fields and recomputes the machine quote
func (s *ProjectService) UpdateProject(ctx context.Context, req UpdateProjectRequest) (*UpdateProjectResult, error) {
	if s.projectRepo == nil {
		return nil, errors.New("project repository not set")
	}

	project, err := s.projectRepo.GetByID(ctx, req.ID)
	if err != nil {
		return nil, ErrProjectNotFound
	}
	if project.UserID != req.UserID {
		return nil, ErrNotProjectOwner
	}

	draft := draftFromProject(project)

	for field, value := range req.Fields {
		if err := applyFieldEdit(project, field, value); err != nil {
			return nil, err
		}
		draft.MarkEdited(field)
	}

	if req.FolderID != nil {
		project.FolderID = req.FolderID
	}

	project.AutoFilledFields = draft.AutoFilledFields()
	project.FieldConfidence = draft.Confidence

	quote := pricing.CalculatePremium(project.Intake())
	project.AIRiskScore = quote.RiskScore
	project.PremiumMin = quote.PremiumMin
	project.PremiumMax = quote.PremiumMax

	err = s.projectRepo.Update(ctx, project)
	if err != nil {
		return nil, err
	}

	return &UpdateProjectResult{Project: project}, nil
}

// draftFromProject rebuilds the provenance draft stored on the project so
// MarkEdited semantics apply across requests
func draftFromProject(project *models.Project) *extraction.IntakeDraft {
	draft := extraction.NewIntakeDraft(project.Intake(), project.AutoFilledFields, project.FieldConfidence)
	return draft
}

// applyFieldEdit writes one user-edited field onto the project
func applyFieldEdit(project *models.Project, field string, value interface{}) error {
	switch field {
	case extraction.FieldProtocolNumber:
		s, ok := value.(string)
		if !ok {
			return fmt.Errorf("field %s: expected string", field)
		}
		project.ProtocolNumber = s
	case extraction.FieldProtocolName:
		s, ok := value.(string)
		if !ok {
			return fmt.Errorf("field %s: expected string", field)
		}
		project.Name = s
	case extraction.FieldTrialDrug:
		s, ok := value.(string)
		if !ok {
			return fmt.Errorf("field %s: expected string", field)
		}
		project.TrialDrug = s
	case extraction.FieldTrialPhase:
		s, ok := value.(string)
		if !ok {
			return fmt.Errorf("field %s: expected string", field)
		}
		project.TrialPhase = models.TrialPhase(s)
	case extraction.FieldSponsor:
		s, ok := value.(string)
		if !ok {
			return fmt.Errorf("field %s: expected string", field)
		}
		project.Sponsor = s
	case extraction.FieldIndication:
		s, ok := value.(string)
		if !ok {
			return fmt.Errorf("field %s: expected string", field)
		}
		project.Indication = s
	case extraction.FieldSubjectCount:
		n, err := intFieldValue(field, value)
		if err != nil {
			return err
		}
		project.SubjectCount = n
	case extraction.FieldDurationMonths:
		n, err := intFieldValue(field, value)
		if err != nil {
			return err
		}
		project.DurationMonths = n
	case extraction.FieldSiteCount:
		n, err := intFieldValue(field, value)
		if err != nil {
			return err
		}
		project.SiteCount = n
	case "riskFactors":
		tags, err := stringSliceFieldValue(field, value)
		if err != nil {
			return err
		}
		project.RiskFactors = tags
	default:
		return fmt.Errorf("unknown intake field: %s", field)
	}
	return nil
}

// intFieldValue accepts the types JSON decoding produces for numbers
func intFieldValue(field string, value interface{}) (int, error) {
	switch v := value.(type) {
	case float64:
		return int(v), nil
	case int:
		return v, nil
	default:
		return 0, fmt.Errorf("field %s: expected number", field)
	}
}

func stringSliceFieldValue(field string, value interface{}) ([]string, error) {
	switch v := value.(type) {
	case []string:
		return v, nil
	case []interface{}:
		tags := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("field %s: expected string array", field)
			}
			tags = append(tags, s)
		}
		return tags, nil
	default:
		return nil, fmt.Errorf("field %s: expected string array", field)
	}
}

// ListProjectsRequest represents a request to list projects
type ListProjectsRequest struct {
	UserID   uuid.UUID
	Status   *models.ProjectStatus
	FolderID *uuid.UUID
	Search   string
	Limit    int
	Offset   int
}

// ListProjectsResult represents the result of listing projects
type ListProjectsResult struct {
	Projects []*models.Project
}

// ListProjects lists a user's projects
func (s *ProjectService) ListProjects(ctx context.Context, req ListProjectsRequest) (*ListProjectsResult, error) {
	if s.projectRepo == nil {
		return nil, errors.New("project repository not set")
	}

	projects, err := s.projectRepo.ListByUserID(ctx, req.UserID, req.Status, req.FolderID, req.Search, req.Limit, req.Offset)
	if err != nil {
		return nil, err
	}

	return &ListProjectsResult{Projects: projects}, nil
}

// GetStatsRequest represents a request for the dashboard stats
type GetStatsRequest struct {
	UserID uuid.UUID
}

// GetStatsResult represents the result of the stats aggregation
type GetStatsResult struct {
	Stats *models.ProjectStats
}

// GetStats aggregates the user's quote pipeline counters
func (s *ProjectService) GetStats(ctx context.Context, req GetStatsRequest) (*GetStatsResult, error) {
	if s.projectRepo == nil {
		return nil, errors.New("project repository not set")
	}

	stats, err := s.projectRepo.Stats(ctx, req.UserID)
	if err != nil {
		return nil, err
	}

	return &GetStatsResult{Stats: stats}, nil
}

// DeleteProjectRequest represents a request to delete a project
type DeleteProjectRequest struct {
	ID     uuid.UUID
	UserID uuid.UUID
}

// DeleteProjectResult represents the result of deleting a project
type DeleteProjectResult struct{}

// DeleteProject deletes a project after an ownership check
func (s *ProjectService) DeleteProject(ctx context.Context, req DeleteProjectRequest) (*DeleteProjectResult, error) {
	if s.projectRepo == nil {
		return nil, errors.New("project repository not set")
	}

	project, err := s.projectRepo.GetByID(ctx, req.ID)
	if err != nil {
		return nil, ErrProjectNotFound
	}
	if project.UserID != req.UserID {
		return nil, ErrNotProjectOwner
	}

	err = s.projectRepo.Delete(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	return &DeleteProjectResult{}, nil
}
