// Package scoring implements the pure priority-scoring function used to rank
// loans. Scores combine urgency, interest impact, late-fee pressure, credit
// impact, and an inflation adjustment for variable-rate loans.
package scoring

import (
	"math"

	"loan-scheduler/internal/model"
	"loan-scheduler/pkg/constants"
	"loan-scheduler/pkg/mathutil"
)

// ComputeUrgency maps days-until-due to a normalized urgency in (0, 1].
// Overdue loans (days <= 0) saturate at 1.0; future due dates decay
// logarithmically so far-out loans keep a small but nonzero urgency.
func ComputeUrgency(days int) float64 {
	if days <= 0 {
		return 1.0
	}
	return 1.0 / (1.0 + math.Log1p(float64(days)))
}

// ComputePriority returns the priority score for a loan under the given
// session inflation rate. Settled loans get a sentinel minimum so they sort
// below every active loan regardless of their other attributes.
func ComputePriority(loan model.Loan, inflationRate float64) float64 {
	if loan.Settled() {
		return constants.SettledScore
	}

	urgency := ComputeUrgency(loan.DaysUntilDue)
	interestImpact := (loan.AnnualRate / constants.PercentageMultiplier) * (loan.Principal / constants.PrincipalScale)

	// Late fee normalized per unit of principal, capped to avoid blow-up on
	// near-zero principals. Penalties matter more as the due date approaches.
	penaltyRatio := loan.LateFee / math.Max(1.0, loan.Principal)
	penaltyRatio = mathutil.Clamp(penaltyRatio, 0.0, constants.PenaltyRatioCap)
	penaltyWeight := penaltyRatio * constants.PenaltyScale * urgency

	creditImpact := loan.CreditFactor * constants.CreditScale

	inflationAdj := 0.0
	if loan.VariableRate {
		// Inflation erodes the real burden of variable-rate debt, so it
		// lowers effective priority.
		inflationAdj = -inflationRate * loan.InflationSensitivity * (loan.Principal / constants.PrincipalScale)
	}

	priority := interestImpact*constants.InterestWeight +
		penaltyWeight*constants.PenaltyTermWeight +
		creditImpact*constants.CreditWeight +
		urgency*constants.UrgencyWeight +
		inflationAdj

	// Applied after the weighted sum, not to individual terms.
	if loan.DaysUntilDue <= constants.ShortTermBoostDays {
		priority *= constants.ShortTermBoost
	}

	return priority
}
