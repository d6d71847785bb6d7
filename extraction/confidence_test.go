package extraction

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"trialcover-backend/models"
)

func TestClassifyTierBoundaries(t *testing.T) {
	tests := []struct {
		name  string
		score int
		tier  Tier
		label string
	}{
		{"exactly 90 is high", 90, TierHigh, "高确定性"},
		{"89 is medium", 89, TierMedium, "较确定"},
		{"exactly 70 is medium", 70, TierMedium, "较确定"},
		{"69 is low", 69, TierLow, "需核实"},
		{"100 is high", 100, TierHigh, "高确定性"},
		{"0 is low", 0, TierLow, "需核实"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Classify(tt.score)
			assert.Equal(t, tt.score, c.Score)
			assert.Equal(t, tt.tier, c.Tier)
			assert.Equal(t, tt.label, c.Label)
		})
	}
}

func TestClassifyClampsOutOfRangeScores(t *testing.T) {
	low := Classify(-5)
	assert.Equal(t, 0, low.Score)
	assert.Equal(t, TierLow, low.Tier)

	high := Classify(150)
	assert.Equal(t, 100, high.Score)
	assert.Equal(t, TierHigh, high.Tier)
}

func TestTallyCountsPerTier(t *testing.T) {
	confidence := models.FieldConfidence{
		"protocolNumber": 95,
		"trialPhase":     90,
		"trialDrug":      75,
		"subjectCount":   40,
	}

	counts := Tally(confidence)

	assert.Equal(t, 2, counts.High)
	assert.Equal(t, 1, counts.Medium)
	assert.Equal(t, 1, counts.Low)
}

func TestTallyEmptyConfidence(t *testing.T) {
	counts := Tally(models.FieldConfidence{})
	assert.Equal(t, TierCounts{}, counts)
}

func TestTierCountsMap(t *testing.T) {
	counts := TierCounts{High: 3, Medium: 2, Low: 1}

	assert.Equal(t, map[string]int{
		"high":   3,
		"medium": 2,
		"low":    1,
	}, counts.Map())
}
