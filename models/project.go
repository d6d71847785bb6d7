package models

import (
	"time"

	"github.com/google/uuid"
)

// ProjectStatus represents the underwriting status of a project
type ProjectStatus string

const (
	StatusPending  ProjectStatus = "pending"
	StatusQuoted   ProjectStatus = "quoted"
	StatusApproved ProjectStatus = "approved"
	StatusRejected ProjectStatus = "rejected"
)

// CanTransitionTo reports whether moving from s to next is a valid
// underwriting transition. quoted -> quoted is a re-quote and is allowed;
// approved and rejected are terminal.
func (s ProjectStatus) CanTransitionTo(next ProjectStatus) bool {
	switch next {
	case StatusQuoted:
		return s == StatusPending || s == StatusQuoted
	case StatusApproved:
		return s == StatusQuoted
	case StatusRejected:
		return s == StatusPending || s == StatusQuoted
	default:
		return false
	}
}

// IsTerminal reports whether no further transitions are allowed from s.
func (s ProjectStatus) IsTerminal() bool {
	return s == StatusApproved || s == StatusRejected
}

// Project represents a clinical-trial insurance project: a persisted trial
// intake plus its quote band, underwriting state and extraction provenance.
type Project struct {
	ID          uuid.UUID  `json:"id"`
	UserID      uuid.UUID  `json:"user_id"`
	FolderID    *uuid.UUID `json:"folder_id,omitempty"`
	ProjectCode string     `json:"project_code"`
	Name        string     `json:"name"`

	// Trial intake fields
	ProtocolNumber string     `json:"protocol_number"`
	TrialPhase     TrialPhase `json:"trial_phase"`
	TrialDrug      string     `json:"trial_drug"`
	Sponsor        string     `json:"sponsor"`
	SubjectCount   int        `json:"subject_count"`
	Indication     string     `json:"indication"`
	DurationMonths int        `json:"duration_months"`
	SiteCount      int        `json:"site_count"`
	RiskFactors    []string   `json:"risk_factors"`

	// Extraction provenance
	AutoFilledFields []string        `json:"auto_filled_fields"`
	FieldConfidence  FieldConfidence `json:"field_confidence"`

	// Quote and underwriting
	AIRiskScore        int           `json:"ai_risk_score"`
	CoveragePerSubject int64         `json:"coverage_per_subject"`
	PremiumMin         int64         `json:"premium_min"`
	PremiumMax         int64         `json:"premium_max"`
	RiskFactor         float64       `json:"risk_factor"`
	FinalPremium       *int64        `json:"final_premium,omitempty"`
	Status             ProjectStatus `json:"status"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Intake assembles the project's trial-intake view for the calculator.
func (p *Project) Intake() TrialIntake {
	return TrialIntake{
		ProtocolNumber: p.ProtocolNumber,
		ProtocolName:   p.Name,
		TrialDrug:      p.TrialDrug,
		TrialPhase:     p.TrialPhase,
		Sponsor:        p.Sponsor,
		SubjectCount:   p.SubjectCount,
		Indication:     p.Indication,
		DurationMonths: p.DurationMonths,
		SiteCount:      p.SiteCount,
		RiskFactors:    p.RiskFactors,
	}
}

// ProjectStats summarizes the quote pipeline for the dashboard cards.
type ProjectStats struct {
	Total             int   `json:"total"`
	Quoted            int   `json:"quoted"`
	Approved          int   `json:"approved"`
	TotalFinalPremium int64 `json:"total_final_premium"`
}
