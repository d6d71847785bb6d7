// Package pricing implements the risk-scoring and premium engine for
// clinical-trial liability insurance. Every function is pure and total:
// degenerate input yields a degenerate but well-defined quote.
package pricing

import (
	"math"
	"strings"

	"trialcover-backend/models"
)

// Business constants of the current product.
const (
	// BaseRate is the per-subject base premium in currency units.
	BaseRate = 800

	// CoveragePerSubject is the per-subject coverage limit.
	CoveragePerSubject = 500000

	// DefaultSubjectCount substitutes a zero/absent subject count so a
	// half-filled intake never produces a zero quote.
	DefaultSubjectCount = 100
)

// phaseAdjustments maps a trial phase to its risk-factor adjustment. Lookup
// is by exact label; phase labels overlap as substrings ("III期" contains
// both "I" and "II"), so substring matching would double-charge.
var phaseAdjustments = map[models.TrialPhase]float64{
	models.PhaseI:       0.5,
	models.PhaseItoII:   0.8,
	models.PhaseII:      0.3,
	models.PhaseIItoIII: 0.3,
	models.PhaseIII:     0,
	models.PhaseIV:      0,
	models.PhaseBE:      0,
}

// Risk-tag term sets. A tag is matched against the high-risk terms first and
// contributes at most once.
var (
	highRiskTerms   = []string{"肿瘤", "癌", "CAR-T", "基因", "儿童", "未成年"}
	mediumRiskTerms = []string{"老年", "多次给药", "注射"}
)

const (
	highRiskLoading   = 0.2
	mediumRiskLoading = 0.1
)

// RiskFactor derives the multiplicative risk factor for an intake: 1.0 plus
// the phase adjustment plus one loading per matching risk tag.
func RiskFactor(intake models.TrialIntake) float64 {
	factor := 1.0
	factor += phaseAdjustments[intake.TrialPhase]

	for _, tag := range intake.RiskFactors {
		if containsAny(tag, highRiskTerms) {
			factor += highRiskLoading
		} else if containsAny(tag, mediumRiskTerms) {
			factor += mediumRiskLoading
		}
	}

	return factor
}

// CalculatePremium computes the initial quote for a trial intake. It is
// deterministic and never fails.
func CalculatePremium(intake models.TrialIntake) models.QuoteResult {
	subjectCount := intake.SubjectCount
	if subjectCount <= 0 {
		subjectCount = DefaultSubjectCount
	}

	return quoteFromFactor(subjectCount, RiskFactor(intake))
}

// quoteFromFactor applies the shared tail of the formula: point estimate,
// ±10% band, risk score and coverage totals.
func quoteFromFactor(subjectCount int, riskFactor float64) models.QuoteResult {
	basePremium := float64(subjectCount) * BaseRate * riskFactor

	return models.QuoteResult{
		PremiumMin:         int64(math.Round(basePremium * 0.9)),
		PremiumMax:         int64(math.Round(basePremium * 1.1)),
		RiskScore:          riskScore(riskFactor),
		CoveragePerSubject: CoveragePerSubject,
		TotalCoverage:      int64(subjectCount) * CoveragePerSubject,
	}
}

// riskScore maps a risk factor onto the 0-100 display scale.
func riskScore(riskFactor float64) int {
	score := int(math.Round(riskFactor * 40))
	if score > 100 {
		score = 100
	}
	if score < 0 {
		score = 0
	}
	return score
}

func containsAny(tag string, terms []string) bool {
	for _, term := range terms {
		if strings.Contains(tag, term) {
			return true
		}
	}
	return false
}
