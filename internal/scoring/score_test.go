package scoring

import (
	"math"
	"testing"

	"loan-scheduler/internal/model"
	"loan-scheduler/pkg/constants"
)

func TestComputeUrgencyOverdue(t *testing.T) {
	tests := []struct {
		name string
		days int
	}{
		{name: "Due today", days: 0},
		{name: "One day overdue", days: -1},
		{name: "Long overdue", days: -365},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ComputeUrgency(tt.days); got != 1.0 {
				t.Errorf("ComputeUrgency(%d) = %v, expected exactly 1.0", tt.days, got)
			}
		})
	}
}

func TestComputeUrgencyDecay(t *testing.T) {
	previous := 1.0
	for _, days := range []int{1, 2, 5, 10, 30, 60, 365, 10000} {
		got := ComputeUrgency(days)
		if got <= 0 || got >= 1 {
			t.Errorf("ComputeUrgency(%d) = %v, expected value in (0, 1)", days, got)
		}
		if got >= previous {
			t.Errorf("ComputeUrgency(%d) = %v, expected strictly less than %v", days, got, previous)
		}
		previous = got
	}
}

func TestComputeUrgencyKnownValue(t *testing.T) {
	// days = 30 gives 1 / (1 + ln(31))
	expected := 1.0 / (1.0 + math.Log1p(30))
	if got := ComputeUrgency(30); math.Abs(got-expected) > 1e-12 {
		t.Errorf("ComputeUrgency(30) = %v, expected %v", got, expected)
	}
}

func TestComputePrioritySettled(t *testing.T) {
	tests := []struct {
		name      string
		principal float64
	}{
		{name: "Zero principal", principal: 0},
		{name: "Below epsilon", principal: 1e-7},
		{name: "At epsilon", principal: constants.SettledEpsilon},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loan := model.Loan{
				ID:           1,
				Name:         "Settled",
				Principal:    tt.principal,
				AnnualRate:   99,
				DaysUntilDue: -100,
				LateFee:      10000,
				CreditFactor: 1,
			}
			if got := ComputePriority(loan, 0.05); got != constants.SettledScore {
				t.Errorf("ComputePriority() = %v, expected sentinel %v", got, constants.SettledScore)
			}
		})
	}
}

func TestComputePriorityKnownValue(t *testing.T) {
	loan := model.Loan{
		ID:           1,
		Name:         "Car",
		Principal:    10000,
		AnnualRate:   12,
		DaysUntilDue: 30,
		LateFee:      500,
		CreditFactor: 0.5,
	}

	// Recompute the formula by hand for comparison.
	urgency := 1.0 / (1.0 + math.Log1p(30))
	interest := (12.0 / 100.0) * (10000.0 / 1000.0)
	penalty := (500.0 / 10000.0) * 10000.0 * urgency
	credit := 0.5 * 100.0
	expected := interest*1.5 + penalty*0.8 + credit*0.8 + urgency*5000.0

	if got := ComputePriority(loan, 0.05); math.Abs(got-expected) > 1e-9 {
		t.Errorf("ComputePriority() = %v, expected %v", got, expected)
	}
}

func TestComputePriorityShortTermBoost(t *testing.T) {
	loan := model.Loan{
		ID:           1,
		Name:         "Near due",
		Principal:    2000,
		AnnualRate:   10,
		DaysUntilDue: 5,
		LateFee:      100,
		CreditFactor: 0.3,
	}

	urgency := 1.0 / (1.0 + math.Log1p(5))
	interest := (10.0 / 100.0) * (2000.0 / 1000.0)
	penalty := (100.0 / 2000.0) * 10000.0 * urgency
	credit := 0.3 * 100.0
	unboosted := interest*1.5 + penalty*0.8 + credit*0.8 + urgency*5000.0
	expected := unboosted * 1.25

	if got := ComputePriority(loan, 0.05); math.Abs(got-expected) > 1e-9 {
		t.Errorf("ComputePriority() = %v, expected boosted %v", got, expected)
	}

	// One day past the cutoff the multiplier must not apply.
	loan.DaysUntilDue = 6
	urgency6 := 1.0 / (1.0 + math.Log1p(6))
	penalty6 := (100.0 / 2000.0) * 10000.0 * urgency6
	expected6 := interest*1.5 + penalty6*0.8 + credit*0.8 + urgency6*5000.0
	if got := ComputePriority(loan, 0.05); math.Abs(got-expected6) > 1e-9 {
		t.Errorf("ComputePriority() = %v, expected unboosted %v", got, expected6)
	}
}

func TestComputePriorityRateMonotonicity(t *testing.T) {
	base := model.Loan{
		ID:           1,
		Name:         "Loan",
		Principal:    5000,
		DaysUntilDue: 20,
		LateFee:      200,
		CreditFactor: 0.4,
	}

	previous := math.Inf(-1)
	for _, rate := range []float64{0, 1, 5, 12, 25, 60} {
		loan := base
		loan.AnnualRate = rate
		got := ComputePriority(loan, 0.05)
		if got < previous {
			t.Errorf("ComputePriority() with rate %.1f = %v, decreased from %v", rate, got, previous)
		}
		previous = got
	}
}

func TestComputePriorityLateFeeMonotonicity(t *testing.T) {
	base := model.Loan{
		ID:           1,
		Name:         "Loan",
		Principal:    5000,
		AnnualRate:   10,
		DaysUntilDue: 20,
		CreditFactor: 0.4,
	}

	previous := math.Inf(-1)
	for _, fee := range []float64{0, 50, 200, 1000, 10000} {
		loan := base
		loan.LateFee = fee
		got := ComputePriority(loan, 0.05)
		if got < previous {
			t.Errorf("ComputePriority() with late fee %.1f = %v, decreased from %v", fee, got, previous)
		}
		previous = got
	}
}

func TestComputePriorityInflationAdjustment(t *testing.T) {
	fixed := model.Loan{
		ID:           1,
		Name:         "Fixed",
		Principal:    8000,
		AnnualRate:   9,
		DaysUntilDue: 45,
		LateFee:      150,
		CreditFactor: 0.2,
	}
	variable := fixed
	variable.ID = 2
	variable.Name = "Variable"
	variable.VariableRate = true
	variable.InflationSensitivity = 0.8

	fixedScore := ComputePriority(fixed, 0.05)
	variableScore := ComputePriority(variable, 0.05)
	if variableScore >= fixedScore {
		t.Errorf("variable-rate score %v should be below fixed-rate score %v under positive inflation", variableScore, fixedScore)
	}

	// With zero inflation the adjustment vanishes.
	if got := ComputePriority(variable, 0); got != ComputePriority(fixed, 0) {
		t.Errorf("expected identical scores at zero inflation, got %v vs %v", got, ComputePriority(fixed, 0))
	}

	// Expected magnitude of the adjustment: -rate * sensitivity * principal/1000.
	expectedAdj := -0.05 * 0.8 * (8000.0 / 1000.0)
	if diff := variableScore - fixedScore; math.Abs(diff-expectedAdj) > 1e-9 {
		t.Errorf("inflation adjustment = %v, expected %v", diff, expectedAdj)
	}
}

func TestComputePriorityPenaltyClamp(t *testing.T) {
	// A tiny active principal with a huge fee hits the ratio cap.
	loan := model.Loan{
		ID:           1,
		Name:         "Tiny",
		Principal:    0.5,
		AnnualRate:   10,
		DaysUntilDue: 100,
		LateFee:      1e9,
	}

	urgency := 1.0 / (1.0 + math.Log1p(100))
	interest := (10.0 / 100.0) * (0.5 / 1000.0)
	penalty := 5000.0 * 10000.0 * urgency
	expected := interest*1.5 + penalty*0.8 + urgency*5000.0

	if got := ComputePriority(loan, 0.05); math.Abs(got-expected) > 1e-6 {
		t.Errorf("ComputePriority() = %v, expected clamped %v", got, expected)
	}
}

func TestComputePriorityNearDueOutranksFarTerm(t *testing.T) {
	loanA := model.Loan{
		ID:           1,
		Name:         "Loan A",
		Principal:    10000,
		AnnualRate:   12,
		DaysUntilDue: 3,
		LateFee:      500,
		CreditFactor: 0.5,
	}
	loanB := model.Loan{
		ID:           2,
		Name:         "Loan B",
		Principal:    5000,
		AnnualRate:   8,
		DaysUntilDue: 60,
		LateFee:      100,
		CreditFactor: 0.2,
	}

	scoreA := ComputePriority(loanA, 0.05)
	scoreB := ComputePriority(loanB, 0.05)
	if scoreA <= scoreB {
		t.Errorf("near-due loan A (%v) should outrank far-term loan B (%v)", scoreA, scoreB)
	}
}
