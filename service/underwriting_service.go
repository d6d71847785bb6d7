package service

import (
	"context"
	"errors"
	"fmt"

	"trialcover-backend/models"
	"trialcover-backend/pricing"
	"trialcover-backend/repository"

	"github.com/google/uuid"
)

// UnderwritingService drives a project through the quote lifecycle
type UnderwritingService struct {
	projectRepo *repository.ProjectRepository
}

// UnderwritingServiceOption is a functional option for UnderwritingService
type UnderwritingServiceOption func(*UnderwritingService)

// UnderwritingWithProjectRepository sets the project repository
func UnderwritingWithProjectRepository(repo *repository.ProjectRepository) UnderwritingServiceOption {
	return func(s *UnderwritingService) {
		s.projectRepo = repo
	}
}

// NewUnderwritingService creates a new underwriting service
func NewUnderwritingService(opts ...UnderwritingServiceOption) *UnderwritingService {
	s := &UnderwritingService{}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var (
	// ErrInvalidStateTransition is returned when the requested status change
	// is not allowed from the project's current status.
	ErrInvalidStateTransition = errors.New("invalid project state transition")

	// ErrConcurrentModification is returned when another request changed the
	// project's status between read and write.
	ErrConcurrentModification = errors.New("project was modified concurrently")
)

// GenerateQuoteRequest represents an underwriter's premium adjustment
type GenerateQuoteRequest struct {
	ProjectID  uuid.UUID
	RiskFactor float64
}

// GenerateQuoteResult represents the result of generating a quote
type GenerateQuoteResult struct {
	Project *models.Project
	Quote   models.QuoteResult
}

// GenerateQuote applies an underwriter-adjusted risk factor to a project and
// moves it to quoted. Allowed from pending or quoted; re-quoting an already
// quoted case overwrites the previous adjustment.
func (s *UnderwritingService) GenerateQuote(ctx context.Context, req GenerateQuoteRequest) (*GenerateQuoteResult, error) {
	if s.projectRepo == nil {
		return nil, errors.New("project repository not set")
	}

	project, err := s.projectRepo.GetByID(ctx, req.ProjectID)
	if err != nil {
		return nil, ErrProjectNotFound
	}

	if !project.Status.CanTransitionTo(models.StatusQuoted) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidStateTransition, project.Status, models.StatusQuoted)
	}

	riskFactor := pricing.ClampRiskFactor(req.RiskFactor)
	quote := pricing.AdjustPremium(project.SubjectCount, riskFactor)
	finalPremium := pricing.FinalPremium(project.SubjectCount, riskFactor)

	affected, err := s.projectRepo.TransitionStatus(
		ctx,
		project.ID,
		[]models.ProjectStatus{models.StatusPending, models.StatusQuoted},
		models.StatusQuoted,
		&riskFactor,
		&finalPremium,
	)
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, ErrConcurrentModification
	}

	project.Status = models.StatusQuoted
	project.RiskFactor = riskFactor
	project.FinalPremium = &finalPremium
	project.PremiumMin = quote.PremiumMin
	project.PremiumMax = quote.PremiumMax

	return &GenerateQuoteResult{Project: project, Quote: quote}, nil
}

// ApproveProjectRequest represents a request to approve a quoted project
type ApproveProjectRequest struct {
	ProjectID uuid.UUID
}

// ApproveProjectResult represents the result of approving a project
type ApproveProjectResult struct {
	Project *models.Project
}

// ApproveProject moves a quoted project to approved, fixing its premium
func (s *UnderwritingService) ApproveProject(ctx context.Context, req ApproveProjectRequest) (*ApproveProjectResult, error) {
	project, err := s.transition(ctx, req.ProjectID, models.StatusApproved)
	if err != nil {
		return nil, err
	}
	return &ApproveProjectResult{Project: project}, nil
}

// RejectProjectRequest represents a request to reject a project
type RejectProjectRequest struct {
	ProjectID uuid.UUID
}

// RejectProjectResult represents the result of rejecting a project
type RejectProjectResult struct {
	Project *models.Project
}

// RejectProject declines a pending or quoted project
func (s *UnderwritingService) RejectProject(ctx context.Context, req RejectProjectRequest) (*RejectProjectResult, error) {
	project, err := s.transition(ctx, req.ProjectID, models.StatusRejected)
	if err != nil {
		return nil, err
	}
	return &RejectProjectResult{Project: project}, nil
}

// transition performs a terminal status change with a compare-and-swap on
// the current status
func (s *UnderwritingService) transition(ctx context.Context, projectID uuid.UUID, next models.ProjectStatus) (*models.Project, error) {
	if s.projectRepo == nil {
		return nil, errors.New("project repository not set")
	}

	project, err := s.projectRepo.GetByID(ctx, projectID)
	if err != nil {
		return nil, ErrProjectNotFound
	}

	if !project.Status.CanTransitionTo(next) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidStateTransition, project.Status, next)
	}

	affected, err := s.projectRepo.TransitionStatus(
		ctx,
		project.ID,
		[]models.ProjectStatus{project.Status},
		next,
		nil,
		nil,
	)
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, ErrConcurrentModification
	}

	project.Status = next
	return project, nil
}
