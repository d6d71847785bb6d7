package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// AnalysisJobStatus represents the status of a protocol analysis job
type AnalysisJobStatus string

const (
	JobStatusPending    AnalysisJobStatus = "pending"
	JobStatusInProgress AnalysisJobStatus = "in_progress"
	JobStatusCompleted  AnalysisJobStatus = "completed"
	JobStatusFailed     AnalysisJobStatus = "failed"
)

// AnalysisStep represents a step in the protocol analysis pipeline
type AnalysisStep struct {
	Name        string `json:"name"`
	Status      string `json:"status"` // "pending", "in_progress", "completed", "failed"
	Description string `json:"description,omitempty"`
}

// AnalysisSteps represents the ordered steps of an analysis job
type AnalysisSteps []AnalysisStep

// Value implements driver.Valuer for JSONB
func (a AnalysisSteps) Value() (driver.Value, error) {
	return json.Marshal(a)
}

// Scan implements sql.Scanner for JSONB
func (a *AnalysisSteps) Scan(value interface{}) error {
	if value == nil {
		*a = make(AnalysisSteps, 0)
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		*a = make(AnalysisSteps, 0)
		return nil
	}

	if len(bytes) == 0 {
		*a = make(AnalysisSteps, 0)
		return nil
	}

	return json.Unmarshal(bytes, a)
}

// AnalysisResult is the completed output of a protocol analysis job: the
// reconciled intake, which fields the AI filled and how confidently, the tier
// tally shown to the user, and the initial quote.
type AnalysisResult struct {
	Intake     TrialIntake     `json:"intake"`
	AutoFilled []string        `json:"auto_filled"`
	Confidence FieldConfidence `json:"confidence"`
	TierCounts map[string]int  `json:"tier_counts"`
	Quote      QuoteResult     `json:"quote"`
}

// Value implements driver.Valuer for JSONB
func (r AnalysisResult) Value() (driver.Value, error) {
	return json.Marshal(r)
}

// Scan implements sql.Scanner for JSONB
func (r *AnalysisResult) Scan(value interface{}) error {
	if value == nil {
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return nil
	}

	if len(bytes) == 0 {
		return nil
	}

	return json.Unmarshal(bytes, r)
}

// AnalysisJob represents a protocol analysis job entity
type AnalysisJob struct {
	ID           uuid.UUID         `json:"id"`
	UserID       uuid.UUID         `json:"user_id"`
	Status       AnalysisJobStatus `json:"status"`
	CurrentStep  *string           `json:"current_step,omitempty"`
	Steps        AnalysisSteps     `json:"steps"`
	Result       *AnalysisResult   `json:"result,omitempty"`
	ErrorMessage *string           `json:"error_message,omitempty"`
	CreatedAt    time.Time         `json:"created_at"`
	UpdatedAt    time.Time         `json:"updated_at"`
	CompletedAt  *time.Time        `json:"completed_at,omitempty"`
}
