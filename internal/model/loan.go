// Package model defines the loan record tracked by the scheduler.
package model

import (
	"fmt"

	"loan-scheduler/pkg/constants"
)

// Loan is a financial obligation tracked over a session. Only Principal and
// DaysUntilDue change after creation; every other field is fixed.
type Loan struct {
	ID                   int     `json:"id" yaml:"id"`
	Name                 string  `json:"name" yaml:"name"`
	Principal            float64 `json:"principal" yaml:"principal"`
	AnnualRate           float64 `json:"annualRate" yaml:"annualRate"`
	DaysUntilDue         int     `json:"daysUntilDue" yaml:"daysUntilDue"`
	LateFee              float64 `json:"lateFee" yaml:"lateFee"`
	CreditFactor         float64 `json:"creditFactor" yaml:"creditFactor"`
	VariableRate         bool    `json:"variableRate" yaml:"variableRate"`
	InflationSensitivity float64 `json:"inflationSensitivity" yaml:"inflationSensitivity"`
}

// Settled reports whether the loan's principal has been driven to the
// settlement threshold and the loan counts as fully repaid.
func (l Loan) Settled() bool {
	return l.Principal <= constants.SettledEpsilon
}

// Validate checks the ranges the scheduler depends on. The collaborator shell
// performs format validation; these are the defensive range checks.
func (l Loan) Validate() error {
	if l.Name == "" {
		return fmt.Errorf("loan %d: name must not be empty", l.ID)
	}
	if l.Principal < 0 {
		return fmt.Errorf("loan %s: principal must be >= 0, got %.2f", l.Name, l.Principal)
	}
	if l.LateFee < 0 {
		return fmt.Errorf("loan %s: late fee must be >= 0, got %.2f", l.Name, l.LateFee)
	}
	if l.CreditFactor < 0 || l.CreditFactor > 1 {
		return fmt.Errorf("loan %s: credit factor must be in [0, 1], got %.2f", l.Name, l.CreditFactor)
	}
	if l.InflationSensitivity < 0 || l.InflationSensitivity > 1 {
		return fmt.Errorf("loan %s: inflation sensitivity must be in [0, 1], got %.2f", l.Name, l.InflationSensitivity)
	}
	return nil
}
