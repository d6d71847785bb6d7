package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProjectStatusTransitions(t *testing.T) {
	tests := []struct {
		from    ProjectStatus
		to      ProjectStatus
		allowed bool
	}{
		{StatusPending, StatusQuoted, true},
		{StatusPending, StatusRejected, true},
		{StatusPending, StatusApproved, false},
		{StatusQuoted, StatusQuoted, true},
		{StatusQuoted, StatusApproved, true},
		{StatusQuoted, StatusRejected, true},
		{StatusApproved, StatusQuoted, false},
		{StatusApproved, StatusRejected, false},
		{StatusRejected, StatusQuoted, false},
		{StatusRejected, StatusApproved, false},
		{StatusQuoted, StatusPending, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+" to "+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.allowed, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestProjectStatusIsTerminal(t *testing.T) {
	assert.False(t, StatusPending.IsTerminal())
	assert.False(t, StatusQuoted.IsTerminal())
	assert.True(t, StatusApproved.IsTerminal())
	assert.True(t, StatusRejected.IsTerminal())
}

func TestProjectIntake(t *testing.T) {
	p := Project{
		Name:           "某某药物II期研究",
		ProtocolNumber: "CTP-2025-001",
		TrialPhase:     PhaseII,
		TrialDrug:      "PD-1单抗",
		SubjectCount:   120,
		RiskFactors:    []string{"肿瘤受试者"},
	}

	intake := p.Intake()

	assert.Equal(t, "CTP-2025-001", intake.ProtocolNumber)
	assert.Equal(t, "某某药物II期研究", intake.ProtocolName)
	assert.Equal(t, PhaseII, intake.TrialPhase)
	assert.Equal(t, 120, intake.SubjectCount)
	assert.Equal(t, []string{"肿瘤受试者"}, intake.RiskFactors)
}
