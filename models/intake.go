package models

import (
	"database/sql/driver"
	"encoding/json"
)

// TrialPhase represents a clinical trial phase label
type TrialPhase string

const (
	PhaseI       TrialPhase = "I期"
	PhaseItoII   TrialPhase = "I/II期"
	PhaseII      TrialPhase = "II期"
	PhaseIItoIII TrialPhase = "II/III期"
	PhaseIII     TrialPhase = "III期"
	PhaseIV      TrialPhase = "IV期"
	PhaseBE      TrialPhase = "BE试验"
)

// TrialIntake represents the structured facts of one clinical trial protocol
// used for pricing. Unset numeric fields are zero, never negative, so the
// calculator's arithmetic stays total.
type TrialIntake struct {
	ProtocolNumber string     `json:"protocol_number"`
	ProtocolName   string     `json:"protocol_name"`
	TrialDrug      string     `json:"trial_drug"`
	TrialPhase     TrialPhase `json:"trial_phase"`
	Sponsor        string     `json:"sponsor"`
	SubjectCount   int        `json:"subject_count"`
	Indication     string     `json:"indication"`
	DurationMonths int        `json:"duration_months"`
	SiteCount      int        `json:"site_count"`
	RiskFactors    []string   `json:"risk_factors"`
}

// FieldConfidence maps an intake field name to its extraction confidence
// score in [0,100]. Entries exist only for machine-filled fields; a missing
// entry means "not applicable", not zero certainty.
type FieldConfidence map[string]int

// Value implements driver.Valuer for JSONB
func (f FieldConfidence) Value() (driver.Value, error) {
	return json.Marshal(f)
}

// Scan implements sql.Scanner for JSONB
func (f *FieldConfidence) Scan(value interface{}) error {
	if value == nil {
		*f = make(FieldConfidence)
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		*f = make(FieldConfidence)
		return nil
	}

	if len(bytes) == 0 {
		*f = make(FieldConfidence)
		return nil
	}

	return json.Unmarshal(bytes, f)
}
