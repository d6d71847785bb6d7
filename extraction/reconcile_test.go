package extraction

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trialcover-backend/models"
)

var reconcileNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func TestReconcileExtractionWinsOverPrevious(t *testing.T) {
	previous := models.TrialIntake{
		ProtocolNumber: "OLD-001",
		ProtocolName:   "旧研究",
		Sponsor:        "旧申办方",
		SubjectCount:   50,
	}
	raw := ExtractionResult{
		ProtocolNumber: "CTP-2025-001",
		TrialPhase:     "II期",
		SubjectCount:   120,
		Confidence: map[string]int{
			"protocolNumber": 95,
			"trialPhase":     88,
			"subjectCount":   92,
		},
	}

	draft := Reconcile(raw, previous, reconcileNow)

	assert.Equal(t, "CTP-2025-001", draft.Intake.ProtocolNumber)
	assert.Equal(t, models.PhaseII, draft.Intake.TrialPhase)
	assert.Equal(t, 120, draft.Intake.SubjectCount)
	// Absent in the extraction, so the previous values survive
	assert.Equal(t, "旧研究", draft.Intake.ProtocolName)
	assert.Equal(t, "旧申办方", draft.Intake.Sponsor)

	assert.True(t, draft.AutoFilled(FieldProtocolNumber))
	assert.True(t, draft.AutoFilled(FieldTrialPhase))
	assert.True(t, draft.AutoFilled(FieldSubjectCount))
	assert.False(t, draft.AutoFilled(FieldProtocolName))
	assert.False(t, draft.AutoFilled(FieldSponsor))
}

func TestReconcileDrugTypeFillsTrialDrug(t *testing.T) {
	raw := ExtractionResult{
		DrugType: "PD-1单抗",
		Confidence: map[string]int{
			"drugType": 91,
		},
	}

	draft := Reconcile(raw, models.TrialIntake{}, reconcileNow)

	assert.Equal(t, "PD-1单抗", draft.Intake.TrialDrug)
	assert.True(t, draft.AutoFilled(FieldTrialDrug))
	assert.Equal(t, 91, draft.Confidence[FieldTrialDrug])
}

func TestReconcileDefaultConfidence(t *testing.T) {
	raw := ExtractionResult{
		Sponsor:    "某某医药",
		Confidence: map[string]int{},
	}

	draft := Reconcile(raw, models.TrialIntake{}, reconcileNow)

	assert.Equal(t, DefaultConfidence, draft.Confidence[FieldSponsor])
}

func TestReconcileClampsConfidenceScores(t *testing.T) {
	raw := ExtractionResult{
		Indication: "非小细胞肺癌",
		Confidence: map[string]int{
			"indication": 140,
		},
	}

	draft := Reconcile(raw, models.TrialIntake{}, reconcileNow)

	assert.Equal(t, 100, draft.Confidence[FieldIndication])
}

func TestReconcileFallbacksAreNotAutoFilled(t *testing.T) {
	draft := Reconcile(ExtractionResult{}, models.TrialIntake{}, reconcileNow)

	require.NotEmpty(t, draft.Intake.ProtocolNumber)
	assert.Regexp(t, `^PROT-\d{6}$`, draft.Intake.ProtocolNumber)
	assert.Equal(t, "临床试验研究", draft.Intake.ProtocolName)

	assert.False(t, draft.AutoFilled(FieldProtocolNumber))
	assert.False(t, draft.AutoFilled(FieldProtocolName))
	assert.Empty(t, draft.Confidence)
}

func TestReconcileFallbackNameUsesIndication(t *testing.T) {
	raw := ExtractionResult{
		Indication: "2型糖尿病",
		Confidence: map[string]int{"indication": 85},
	}

	draft := Reconcile(raw, models.TrialIntake{}, reconcileNow)

	assert.Equal(t, "2型糖尿病研究", draft.Intake.ProtocolName)
	assert.False(t, draft.AutoFilled(FieldProtocolName))
}

func TestReconcileIgnoresNonPositiveCounts(t *testing.T) {
	previous := models.TrialIntake{SubjectCount: 80, DurationMonths: 12}
	raw := ExtractionResult{SubjectCount: 0, DurationMonths: -3}

	draft := Reconcile(raw, previous, reconcileNow)

	assert.Equal(t, 80, draft.Intake.SubjectCount)
	assert.Equal(t, 12, draft.Intake.DurationMonths)
	assert.False(t, draft.AutoFilled(FieldSubjectCount))
	assert.False(t, draft.AutoFilled(FieldDurationMonths))
}

func TestMarkEditedRemovesProvenance(t *testing.T) {
	raw := ExtractionResult{
		Sponsor:    "某某医药",
		TrialPhase: "III期",
		Confidence: map[string]int{"sponsor": 90, "trialPhase": 95},
	}
	draft := Reconcile(raw, models.TrialIntake{}, reconcileNow)
	require.True(t, draft.AutoFilled(FieldSponsor))

	draft.MarkEdited(FieldSponsor)

	assert.False(t, draft.AutoFilled(FieldSponsor))
	_, ok := draft.Confidence[FieldSponsor]
	assert.False(t, ok)
	// The other field is untouched
	assert.True(t, draft.AutoFilled(FieldTrialPhase))
	assert.Equal(t, TierCounts{High: 1}, draft.Tally())
}

func TestNewIntakeDraftRestoresProvenance(t *testing.T) {
	intake := models.TrialIntake{Sponsor: "某某医药", SubjectCount: 60}
	confidence := models.FieldConfidence{
		FieldSponsor:      88,
		FieldSubjectCount: 95,
	}

	draft := NewIntakeDraft(intake, []string{FieldSponsor, FieldSubjectCount}, confidence)

	assert.True(t, draft.AutoFilled(FieldSponsor))
	assert.True(t, draft.AutoFilled(FieldSubjectCount))
	assert.Equal(t, []string{FieldSponsor, FieldSubjectCount}, draft.AutoFilledFields())

	draft.MarkEdited(FieldSubjectCount)
	assert.Equal(t, []string{FieldSponsor}, draft.AutoFilledFields())
	// The caller's confidence map is not shared
	assert.Equal(t, 95, confidence[FieldSubjectCount])
}
