package extraction

import (
	"fmt"
	"sort"
	"time"

	"trialcover-backend/models"
)

// Intake field names, as used in the auto-filled set and confidence map.
// These match the keys of the extraction schema, except that the schema's
// drugType lands in the intake's trialDrug field.
const (
	FieldProtocolNumber = "protocolNumber"
	FieldProtocolName   = "protocolName"
	FieldTrialDrug      = "trialDrug"
	FieldTrialPhase     = "trialPhase"
	FieldSponsor        = "sponsor"
	FieldSubjectCount   = "subjectCount"
	FieldIndication     = "indication"
	FieldDurationMonths = "durationMonths"
	FieldSiteCount      = "siteCount"
)

// ExtractionResult is the loosely-typed payload returned by the protocol
// analysis model. Absent fields unmarshal to zero values and are treated as
// "not provided", never as an error. The confidence sub-object is keyed by
// the extraction schema's field names (drugType, not trialDrug).
type ExtractionResult struct {
	ProtocolNumber string         `json:"protocolNumber"`
	ProtocolName   string         `json:"protocolName"`
	TrialPhase     string         `json:"trialPhase"`
	SubjectCount   int            `json:"subjectCount"`
	DrugType       string         `json:"drugType"`
	Indication     string         `json:"indication"`
	Sponsor        string         `json:"sponsor"`
	DurationMonths int            `json:"durationMonths"`
	SiteCount      int            `json:"siteCount"`
	Risks          []string       `json:"risks"`
	Confidence     map[string]int `json:"confidence"`
}

// IntakeDraft is the reconciler's output: a fully-defaulted intake plus the
// provenance of its machine-filled fields. It is explicit state threaded
// through subsequent edit calls, not hidden component state.
type IntakeDraft struct {
	Intake     models.TrialIntake
	autoFilled map[string]bool
	Confidence models.FieldConfidence
}

// NewIntakeDraft rebuilds a draft from persisted provenance, so edit
// semantics apply to fields filled in an earlier request.
func NewIntakeDraft(intake models.TrialIntake, autoFilled []string, confidence models.FieldConfidence) *IntakeDraft {
	draft := &IntakeDraft{
		Intake:     intake,
		autoFilled: make(map[string]bool, len(autoFilled)),
		Confidence: make(models.FieldConfidence, len(confidence)),
	}
	for _, field := range autoFilled {
		draft.autoFilled[field] = true
	}
	for field, score := range confidence {
		draft.Confidence[field] = score
	}
	return draft
}

// AutoFilled reports whether the field is attributed to the extraction model
func (d *IntakeDraft) AutoFilled(field string) bool {
	return d.autoFilled[field]
}

// AutoFilledFields returns the auto-filled field names in stable order
func (d *IntakeDraft) AutoFilledFields() []string {
	fields := make([]string, 0, len(d.autoFilled))
	for f := range d.autoFilled {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return fields
}

// MarkEdited records that the user changed a field's value. The field is no
// longer attributable to the extraction model: it leaves the auto-filled set
// and its confidence entry is dropped.
func (d *IntakeDraft) MarkEdited(field string) {
	delete(d.autoFilled, field)
	delete(d.Confidence, field)
}

// Tally counts the confidence tiers of the remaining auto-filled fields
func (d *IntakeDraft) Tally() TierCounts {
	return Tally(d.Confidence)
}

// Reconcile merges a raw extraction result over a previous intake. Raw values
// win; absent values keep the previous ones; protocolNumber and protocolName
// synthesize fallbacks when still empty, so the user always sees those fields
// filled. now feeds the protocolNumber fallback.
func Reconcile(raw ExtractionResult, previous models.TrialIntake, now time.Time) *IntakeDraft {
	draft := &IntakeDraft{
		Intake:     previous,
		autoFilled: make(map[string]bool),
		Confidence: make(models.FieldConfidence),
	}

	if raw.ProtocolNumber != "" {
		draft.Intake.ProtocolNumber = raw.ProtocolNumber
		draft.autoFilled[FieldProtocolNumber] = true
	}
	if raw.ProtocolName != "" {
		draft.Intake.ProtocolName = raw.ProtocolName
		draft.autoFilled[FieldProtocolName] = true
	}
	if raw.DrugType != "" {
		draft.Intake.TrialDrug = raw.DrugType
		draft.autoFilled[FieldTrialDrug] = true
	}
	if raw.TrialPhase != "" {
		draft.Intake.TrialPhase = models.TrialPhase(raw.TrialPhase)
		draft.autoFilled[FieldTrialPhase] = true
	}
	if raw.Sponsor != "" {
		draft.Intake.Sponsor = raw.Sponsor
		draft.autoFilled[FieldSponsor] = true
	}
	if raw.SubjectCount > 0 {
		draft.Intake.SubjectCount = raw.SubjectCount
		draft.autoFilled[FieldSubjectCount] = true
	}
	if raw.Indication != "" {
		draft.Intake.Indication = raw.Indication
		draft.autoFilled[FieldIndication] = true
	}
	if raw.DurationMonths > 0 {
		draft.Intake.DurationMonths = raw.DurationMonths
		draft.autoFilled[FieldDurationMonths] = true
	}
	if raw.SiteCount > 0 {
		draft.Intake.SiteCount = raw.SiteCount
		draft.autoFilled[FieldSiteCount] = true
	}
	if len(raw.Risks) > 0 {
		draft.Intake.RiskFactors = raw.Risks
	}

	// Deterministic fallbacks so the form never shows these two empty
	if draft.Intake.ProtocolNumber == "" {
		draft.Intake.ProtocolNumber = fallbackProtocolNumber(now)
	}
	if draft.Intake.ProtocolName == "" {
		draft.Intake.ProtocolName = fallbackProtocolName(draft.Intake.Indication)
	}

	// Every auto-filled field carries a confidence entry; the extraction
	// schema keys drugType where the intake keys trialDrug.
	for field := range draft.autoFilled {
		key := field
		if field == FieldTrialDrug {
			key = "drugType"
		}
		score, ok := raw.Confidence[key]
		if !ok {
			score = DefaultConfidence
		}
		draft.Confidence[field] = Classify(score).Score
	}

	return draft
}

func fallbackProtocolNumber(now time.Time) string {
	millis := fmt.Sprintf("%d", now.UnixMilli())
	if len(millis) > 6 {
		millis = millis[len(millis)-6:]
	}
	return "PROT-" + millis
}

func fallbackProtocolName(indication string) string {
	if indication == "" {
		indication = "临床试验"
	}
	return indication + "研究"
}
