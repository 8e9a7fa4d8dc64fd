package model

import (
	"math"

	"github.com/shopspring/decimal"

	"github.com/mustafa-shahin/lf10-project/internal/domain/apperr"
	"github.com/mustafa-shahin/lf10-project/internal/domain/valueobject"
)

// Product limits for the two loan types.
const (
	MaxImmediateAmount      = 40_000
	MaxInstallmentTermYears = 5
	MaxImmediateTermYears   = 10
	MaxBuildingTermYears    = 20
)

// LoanRequest is the customer-supplied part of an application.
type LoanRequest struct {
	LoanType        valueobject.LoanType
	LoanSubtype     valueobject.LoanSubtype
	RequestedAmount decimal.Decimal
	// RepaymentAmount is the yearly repayment of an installment loan; the
	// term is derived from it.
	RepaymentAmount decimal.Decimal
	TermYears       int
}

// Normalize validates the request against the product limits and returns it
// with the effective term filled in. Violations are marked apperr.ErrValidation.
//
// Requests for a loan type the policy does not know are returned unchanged so
// that underwriting can reject them with a reason.
func (r LoanRequest) Normalize() (LoanRequest, error) {
	if r.RequestedAmount.LessThanOrEqual(decimal.Zero) {
		return r, apperr.Validation("requested amount must be positive")
	}
	if !r.LoanType.IsKnown() {
		return r, nil
	}
	if !r.LoanSubtype.AllowedFor(r.LoanType) {
		return r, apperr.Validation("loan subtype %q is not available for %s loans", r.LoanSubtype, r.LoanType)
	}

	switch {
	case r.LoanType.Equal(valueobject.LoanTypeImmediate):
		return r.normalizeImmediate()
	default:
		return r.normalizeBuilding()
	}
}

func (r LoanRequest) normalizeImmediate() (LoanRequest, error) {
	if r.RequestedAmount.GreaterThan(decimal.NewFromInt(MaxImmediateAmount)) {
		return r, apperr.Validation("immediate loans are limited to %d", MaxImmediateAmount)
	}

	if !r.LoanSubtype.Equal(valueobject.LoanSubtypeInstallment) {
		if r.TermYears <= 0 {
			return r, apperr.Validation("term must be at least one year")
		}
		if r.TermYears > MaxImmediateTermYears {
			return r, apperr.Validation("immediate loans are limited to %d years", MaxImmediateTermYears)
		}
		return r, nil
	}

	if r.RepaymentAmount.LessThanOrEqual(decimal.Zero) {
		return r, apperr.Validation("installment loans need a positive repayment amount")
	}
	years := r.RequestedAmount.Div(r.RepaymentAmount).InexactFloat64()
	if years > MaxInstallmentTermYears {
		return r, apperr.Validation("installment loans must be repaid within %d years", MaxInstallmentTermYears)
	}
	r.TermYears = int(math.Ceil(years))
	return r, nil
}

func (r LoanRequest) normalizeBuilding() (LoanRequest, error) {
	if r.TermYears <= 0 {
		return r, apperr.Validation("term must be at least one year")
	}
	if r.TermYears > MaxBuildingTermYears {
		return r, apperr.Validation("building loans are limited to %d years", MaxBuildingTermYears)
	}
	return r, nil
}

// Financials are the applicant's figures used for the coverage ratios of a
// building loan.
type Financials struct {
	AvailableIncome      float64
	ExistingMonthlyDebt  float64
	CollateralValue      float64
	TotalOutstandingDebt float64
}

// Ratios computes DSCR and CCR for a building loan. Immediate loans carry
// zero placeholders and are never ratio-gated.
func (r LoanRequest) Ratios(f Financials) (dscr, ccr float64) {
	if !r.LoanType.Equal(valueobject.LoanTypeBuilding) {
		return 0, 0
	}
	calc := RatioCalculator{}
	amount := r.RequestedAmount.InexactFloat64()
	dscr = calc.DSCRDefault(f.AvailableIncome, f.ExistingMonthlyDebt, amount, r.TermYears)
	ccr = calc.CCR(f.CollateralValue, f.TotalOutstandingDebt, amount)
	return dscr, ccr
}
