package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"trialcover-backend/models"
)

func TestRiskFactorPhaseAdjustments(t *testing.T) {
	tests := []struct {
		phase    models.TrialPhase
		expected float64
	}{
		{models.PhaseI, 1.5},
		{models.PhaseItoII, 1.8},
		{models.PhaseII, 1.3},
		{models.PhaseIItoIII, 1.3},
		{models.PhaseIII, 1.0},
		{models.PhaseIV, 1.0},
		{models.PhaseBE, 1.0},
		{models.TrialPhase(""), 1.0},
		{models.TrialPhase("未知期别"), 1.0},
	}

	for _, tt := range tests {
		t.Run(string(tt.phase), func(t *testing.T) {
			factor := RiskFactor(models.TrialIntake{TrialPhase: tt.phase})
			assert.InDelta(t, tt.expected, factor, 1e-9)
		})
	}
}

func TestRiskFactorTagLoadings(t *testing.T) {
	tests := []struct {
		name     string
		tags     []string
		expected float64
	}{
		{"high-risk tag", []string{"肿瘤受试者"}, 1.2},
		{"medium-risk tag", []string{"多次给药"}, 1.1},
		{"high wins over medium in one tag", []string{"老年肿瘤患者"}, 1.2},
		{"each tag counts once", []string{"肿瘤", "基因治疗"}, 1.4},
		{"mixed tags accumulate", []string{"癌症适应症", "注射给药"}, 1.3},
		{"unmatched tag adds nothing", []string{"健康受试者"}, 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			factor := RiskFactor(models.TrialIntake{RiskFactors: tt.tags})
			assert.InDelta(t, tt.expected, factor, 1e-9)
		})
	}
}

func TestCalculatePremium(t *testing.T) {
	intake := models.TrialIntake{
		TrialPhase:   models.PhaseII,
		SubjectCount: 200,
		RiskFactors:  []string{"肿瘤受试者", "注射给药"},
	}

	// risk factor 1.0 + 0.3 + 0.2 + 0.1 = 1.6; base 200 * 800 * 1.6 = 256000
	quote := CalculatePremium(intake)

	assert.Equal(t, int64(230400), quote.PremiumMin)
	assert.Equal(t, int64(281600), quote.PremiumMax)
	assert.Equal(t, 64, quote.RiskScore)
	assert.Equal(t, int64(500000), quote.CoveragePerSubject)
	assert.Equal(t, int64(100000000), quote.TotalCoverage)
}

func TestCalculatePremiumDefaultsSubjectCount(t *testing.T) {
	quote := CalculatePremium(models.TrialIntake{TrialPhase: models.PhaseIII})

	// 100 subjects * 800 * 1.0
	assert.Equal(t, int64(72000), quote.PremiumMin)
	assert.Equal(t, int64(88000), quote.PremiumMax)
	assert.Equal(t, int64(50000000), quote.TotalCoverage)
}

func TestCalculatePremiumEmptyIntake(t *testing.T) {
	quote := CalculatePremium(models.TrialIntake{})

	assert.Equal(t, int64(72000), quote.PremiumMin)
	assert.Equal(t, int64(88000), quote.PremiumMax)
	assert.Equal(t, 40, quote.RiskScore)
}

func TestRiskScoreCapsAtHundred(t *testing.T) {
	// 40 * 2.6 = 104, capped
	quote := quoteFromFactor(10, 2.6)
	assert.Equal(t, 100, quote.RiskScore)
}
