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

// ClaimService handles subject injury claims
type ClaimService struct {
	claimRepo   *repository.ClaimRepository
	projectRepo *repository.ProjectRepository
}

// ClaimServiceOption is a functional option for ClaimService
type ClaimServiceOption func(*ClaimService)

// ClaimWithClaimRepository sets the claim repository
func ClaimWithClaimRepository(repo *repository.ClaimRepository) ClaimServiceOption {
	return func(s *ClaimService) {
		s.claimRepo = repo
	}
}

// ClaimWithProjectRepository sets the project repository
func ClaimWithProjectRepository(repo *repository.ProjectRepository) ClaimServiceOption {
	return func(s *ClaimService) {
		s.projectRepo = repo
	}
}

// NewClaimService creates a new claim service
func NewClaimService(opts ...ClaimServiceOption) *ClaimService {
	s := &ClaimService{}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var (
	ErrClaimNotFound      = errors.New("claim not found")
	ErrProjectNotApproved = errors.New("claims require an approved project")
)

// SubmitClaimRequest represents a request to file a claim
type SubmitClaimRequest struct {
	ProjectID              uuid.UUID
	UserID                 uuid.UUID
	SubjectName            string
	InvoiceAmount          int64
	MedicalInsuranceAmount int64
	InvoiceURL             *string
	MedicalRecordURL       *string
}

// SubmitClaimResult represents the result of filing a claim
type SubmitClaimResult struct {
	Claim *models.Claim
}

// SubmitClaim files a claim against an approved project. The claimed amount
// is computed from the settlement formula at submission time.
func (s *ClaimService) SubmitClaim(ctx context.Context, req SubmitClaimRequest) (*SubmitClaimResult, error) {
	if s.claimRepo == nil {
		return nil, errors.New("claim repository not set")
	}
	if s.projectRepo == nil {
		return nil, errors.New("project repository not set")
	}

	project, err := s.projectRepo.GetByID(ctx, req.ProjectID)
	if err != nil {
		return nil, ErrProjectNotFound
	}
	if project.UserID != req.UserID {
		return nil, ErrNotProjectOwner
	}
	if project.Status != models.StatusApproved {
		return nil, ErrProjectNotApproved
	}

	claim := &models.Claim{
		ProjectID:              req.ProjectID,
		UserID:                 req.UserID,
		SubjectName:            req.SubjectName,
		InvoiceAmount:          req.InvoiceAmount,
		MedicalInsuranceAmount: req.MedicalInsuranceAmount,
		Deductible:             pricing.Deductible,
		PaymentRatio:           pricing.PaymentRatio,
		ClaimedAmount:          pricing.ComputeClaim(req.InvoiceAmount, req.MedicalInsuranceAmount),
		InvoiceURL:             req.InvoiceURL,
		MedicalRecordURL:       req.MedicalRecordURL,
		Status:                 models.ClaimStatusPending,
	}

	err = s.claimRepo.Create(ctx, claim)
	if err != nil {
		return nil, err
	}

	return &SubmitClaimResult{Claim: claim}, nil
}

// ListClaimsRequest represents a request to list claims
type ListClaimsRequest struct {
	UserID    uuid.UUID
	ProjectID *uuid.UUID
	Status    *models.ClaimStatus
}

// ListClaimsResult represents the result of listing claims
type ListClaimsResult struct {
	Claims []*models.Claim
}

// ListClaims lists claims for a user, optionally scoped to one project
func (s *ClaimService) ListClaims(ctx context.Context, req ListClaimsRequest) (*ListClaimsResult, error) {
	if s.claimRepo == nil {
		return nil, errors.New("claim repository not set")
	}

	if req.ProjectID != nil {
		claims, err := s.claimRepo.ListByProjectID(ctx, *req.ProjectID)
		if err != nil {
			return nil, err
		}
		return &ListClaimsResult{Claims: claims}, nil
	}

	claims, err := s.claimRepo.ListByUserID(ctx, req.UserID, req.Status)
	if err != nil {
		return nil, err
	}

	return &ListClaimsResult{Claims: claims}, nil
}

// AdjudicateClaimRequest represents an adjudication decision on a claim
type AdjudicateClaimRequest struct {
	ClaimID uuid.UUID
	Approve bool
	// ApprovedAmount overrides the computed settlement when approving;
	// nil approves the claimed amount as-is.
	ApprovedAmount *int64
}

// AdjudicateClaimResult represents the result of adjudicating a claim
type AdjudicateClaimResult struct {
	Claim *models.Claim
}

// AdjudicateClaim approves or rejects a pending claim
func (s *ClaimService) AdjudicateClaim(ctx context.Context, req AdjudicateClaimRequest) (*AdjudicateClaimResult, error) {
	if s.claimRepo == nil {
		return nil, errors.New("claim repository not set")
	}

	claim, err := s.claimRepo.GetByID(ctx, req.ClaimID)
	if err != nil {
		return nil, ErrClaimNotFound
	}

	next := models.ClaimStatusRejected
	var approvedAmount *int64
	if req.Approve {
		next = models.ClaimStatusApproved
		amount := claim.ClaimedAmount
		if req.ApprovedAmount != nil {
			amount = *req.ApprovedAmount
		}
		approvedAmount = &amount
	}

	if !claim.Status.CanTransitionTo(next) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidStateTransition, claim.Status, next)
	}

	affected, err := s.claimRepo.TransitionStatus(ctx, claim.ID, claim.Status, next, approvedAmount)
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, ErrConcurrentModification
	}

	claim.Status = next
	claim.ApprovedAmount = approvedAmount

	return &AdjudicateClaimResult{Claim: claim}, nil
}

// MarkClaimPaidRequest represents a request to mark an approved claim paid
type MarkClaimPaidRequest struct {
	ClaimID uuid.UUID
}

// MarkClaimPaidResult represents the result of marking a claim paid
type MarkClaimPaidResult struct {
	Claim *models.Claim
}

// MarkClaimPaid records payout of an approved claim
func (s *ClaimService) MarkClaimPaid(ctx context.Context, req MarkClaimPaidRequest) (*MarkClaimPaidResult, error) {
	if s.claimRepo == nil {
		return nil, errors.New("claim repository not set")
	}

	claim, err := s.claimRepo.GetByID(ctx, req.ClaimID)
	if err != nil {
		return nil, ErrClaimNotFound
	}

	if !claim.Status.CanTransitionTo(models.ClaimStatusPaid) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidStateTransition, claim.Status, models.ClaimStatusPaid)
	}

	affected, err := s.claimRepo.TransitionStatus(ctx, claim.ID, claim.Status, models.ClaimStatusPaid, nil)
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, ErrConcurrentModification
	}

	claim.Status = models.ClaimStatusPaid

	return &MarkClaimPaidResult{Claim: claim}, nil
}
