package pricing

import (
	"math"

	"trialcover-backend/models"
)

// Underwriter slider bounds for the manual risk factor.
const (
	MinRiskFactor = 0.8
	MaxRiskFactor = 2.5
)

// ClampRiskFactor forces a manual risk factor into [MinRiskFactor,
// MaxRiskFactor]. Out-of-range input is clamped, not rejected.
func ClampRiskFactor(riskFactor float64) float64 {
	if math.IsNaN(riskFactor) {
		return MinRiskFactor
	}
	if riskFactor < MinRiskFactor {
		return MinRiskFactor
	}
	if riskFactor > MaxRiskFactor {
		return MaxRiskFactor
	}
	return riskFactor
}

// AdjustPremium recomputes a quote with an underwriter-supplied risk factor,
// bypassing the phase and risk-tag derivation. The subject count is used as
// given; intake defaulting has already happened by the time a case is being
// adjusted.
func AdjustPremium(subjectCount int, riskFactor float64) models.QuoteResult {
	return quoteFromFactor(subjectCount, ClampRiskFactor(riskFactor))
}

// FinalPremium is the point estimate of the adjustment formula, the figure
// recorded on the case as its bindable premium.
func FinalPremium(subjectCount int, riskFactor float64) int64 {
	basePremium := float64(subjectCount) * BaseRate * ClampRiskFactor(riskFactor)
	return int64(math.Round(basePremium))
}
