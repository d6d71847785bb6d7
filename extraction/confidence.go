package extraction

import "trialcover-backend/models"

// Tier classifies an extraction confidence score
type Tier string

const (
	TierHigh   Tier = "high"
	TierMedium Tier = "medium"
	TierLow    Tier = "low"
)

// Tier boundaries. Exactly 90 is high, exactly 70 is medium.
const (
	highThreshold   = 90
	mediumThreshold = 70
)

// DefaultConfidence is assigned to auto-filled fields whose extraction
// response omitted a confidence entry.
const DefaultConfidence = 75

// Classification is the result of classifying a confidence score
type Classification struct {
	Score int    `json:"score"`
	Tier  Tier   `json:"tier"`
	Label string `json:"label"`
}

// Classify maps a confidence score to its tier and display label. Scores
// outside [0,100] are clamped; the clamped score is returned.
func Classify(score int) Classification {
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}

	switch {
	case score >= highThreshold:
		return Classification{Score: score, Tier: TierHigh, Label: "高确定性"}
	case score >= mediumThreshold:
		return Classification{Score: score, Tier: TierMedium, Label: "较确定"}
	default:
		return Classification{Score: score, Tier: TierLow, Label: "需核实"}
	}
}

// TierCounts tallies classifications per tier
type TierCounts struct {
	High   int `json:"high"`
	Medium int `json:"medium"`
	Low    int `json:"low"`
}

// Tally counts confidence tiers over every auto-filled field's entry
func Tally(confidence models.FieldConfidence) TierCounts {
	var counts TierCounts
	for _, score := range confidence {
		switch Classify(score).Tier {
		case TierHigh:
			counts.High++
		case TierMedium:
			counts.Medium++
		default:
			counts.Low++
		}
	}
	return counts
}

// Map converts the tally to the string-keyed form stored in job results.
func (c TierCounts) Map() map[string]int {
	return map[string]int{
		string(TierHigh):   c.High,
		string(TierMedium): c.Medium,
		string(TierLow):    c.Low,
	}
}
