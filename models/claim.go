package models

import (
	"time"

	"github.com/google/uuid"
)

// ClaimStatus represents the adjudication status of a claim
type ClaimStatus string

const (
	ClaimStatusPending  ClaimStatus = "pending"
	ClaimStatusApproved ClaimStatus = "approved"
	ClaimStatusRejected ClaimStatus = "rejected"
	ClaimStatusPaid     ClaimStatus = "paid"
)

// CanTransitionTo reports whether moving from s to next is a valid
// adjudication transition. Only approved claims can be paid.
func (s ClaimStatus) CanTransitionTo(next ClaimStatus) bool {
	switch next {
	case ClaimStatusApproved, ClaimStatusRejected:
		return s == ClaimStatusPending
	case ClaimStatusPaid:
		return s == ClaimStatusApproved
	default:
		return false
	}
}

// Claim represents a subject injury claim against a project's policy
type Claim struct {
	ID                     uuid.UUID   `json:"id"`
	ProjectID              uuid.UUID   `json:"project_id"`
	UserID                 uuid.UUID   `json:"user_id"`
	SubjectName            string      `json:"subject_name"`
	InvoiceAmount          int64       `json:"invoice_amount"`
	MedicalInsuranceAmount int64       `json:"medical_insurance_amount"`
	Deductible             int64       `json:"deductible"`
	PaymentRatio           float64     `json:"payment_ratio"`
	ClaimedAmount          int64       `json:"claimed_amount"`
	ApprovedAmount         *int64      `json:"approved_amount,omitempty"`
	InvoiceURL             *string     `json:"invoice_url,omitempty"`
	MedicalRecordURL       *string     `json:"medical_record_url,omitempty"`
	Status                 ClaimStatus `json:"status"`
	CreatedAt              time.Time   `json:"created_at"`
	UpdatedAt              time.Time   `json:"updated_at"`
}
