package pricing

import "math"

// Claim settlement terms of the current product.
const (
	// Deductible is the per-claim amount borne by the insured.
	Deductible = 1000

	// PaymentRatio is the insurer's share after the deductible.
	PaymentRatio = 0.8
)

// ComputeClaim settles a subject claim: (invoice − medical insurance −
// deductible) × payment ratio, floored at zero.
func ComputeClaim(invoiceAmount, medicalInsuranceAmount int64) int64 {
	payable := float64(invoiceAmount-medicalInsuranceAmount-Deductible) * PaymentRatio
	if payable <= 0 {
		return 0
	}
	return int64(math.Round(payable))
}
