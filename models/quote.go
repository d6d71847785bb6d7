package models

// QuoteResult is the derived output of the premium calculator. It is never
// stored on its own; the interesting parts are copied onto the project when
// a quote is confirmed.
type QuoteResult struct {
	PremiumMin         int64 `json:"premium_min"`
	PremiumMax         int64 `json:"premium_max"`
	RiskScore          int   `json:"risk_score"`
	CoveragePerSubject int64 `json:"coverage_per_subject"`
	TotalCoverage      int64 `json:"total_coverage"`
}
