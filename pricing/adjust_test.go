package pricing

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClampRiskFactor(t *testing.T) {
	assert.Equal(t, 0.8, ClampRiskFactor(0.5))
	assert.Equal(t, 0.8, ClampRiskFactor(0.8))
	assert.Equal(t, 1.3, ClampRiskFactor(1.3))
	assert.Equal(t, 2.5, ClampRiskFactor(2.5))
	assert.Equal(t, 2.5, ClampRiskFactor(3.0))
	assert.Equal(t, 0.8, ClampRiskFactor(math.NaN()))
}

func TestAdjustPremium(t *testing.T) {
	quote := AdjustPremium(100, 1.5)

	// 100 * 800 * 1.5 = 120000
	assert.Equal(t, int64(108000), quote.PremiumMin)
	assert.Equal(t, int64(132000), quote.PremiumMax)
	assert.Equal(t, 60, quote.RiskScore)
	assert.Equal(t, int64(50000000), quote.TotalCoverage)
}

func TestAdjustPremiumClampsFactor(t *testing.T) {
	quote := AdjustPremium(100, 5.0)

	// clamped to 2.5: 100 * 800 * 2.5 = 200000
	assert.Equal(t, int64(180000), quote.PremiumMin)
	assert.Equal(t, int64(220000), quote.PremiumMax)
}

func TestFinalPremium(t *testing.T) {
	assert.Equal(t, int64(120000), FinalPremium(100, 1.5))
	assert.Equal(t, int64(64000), FinalPremium(100, 0.1))
	assert.Equal(t, int64(200000), FinalPremium(100, 9.9))
}
