package domain

import (
	"math"
	"strconv"

	dErrors "registrar/pkg/domain-errors"
)

// MaxCreditUnit is the largest weight a single course may carry.
const MaxCreditUnit = 10

// CreditUnit is the numeric weight of one course toward a semester total.
// Invariant: 0 <= value <= MaxCreditUnit and value is a multiple of 0.5.
//
// Semester totals routinely exceed MaxCreditUnit, so totals are plain float64
// values and never CreditUnit.
type CreditUnit float64

// ParseCreditUnit validates v as a CreditUnit.
func ParseCreditUnit(v float64) (CreditUnit, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, dErrors.New(dErrors.CodeInvalidInput, "credit units must be a finite number")
	}
	if v < 0 {
		return 0, dErrors.New(dErrors.CodeInvalidInput, "credit units cannot be negative")
	}
	if v > MaxCreditUnit {
		return 0, dErrors.New(dErrors.CodeInvalidInput, "credit units cannot exceed "+strconv.Itoa(MaxCreditUnit))
	}
	if math.Mod(v*2, 1) != 0 {
		return 0, dErrors.New(dErrors.CodeInvalidInput, "credit units must be a multiple of 0.5")
	}
	return CreditUnit(v), nil
}

// MustCreditUnit is ParseCreditUnit for constants and tests.
func MustCreditUnit(v float64) CreditUnit {
	c, err := ParseCreditUnit(v)
	if err != nil {
		panic(err)
	}
	return c
}

// Float returns the credit weight as a float64 for summing.
func (c CreditUnit) Float() float64 {
	return float64(c)
}
