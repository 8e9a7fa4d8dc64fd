package model

import (
	"math"

	"github.com/shopspring/decimal"
)

// ---------------------------------------------------------------------------
// RatioCalculator – pure affordability arithmetic
// ---------------------------------------------------------------------------

// DefaultDSCRRatePercent is the annual rate assumed for the prospective loan
// when computing DSCR.
const DefaultDSCRRatePercent = 5.0

// RatioCalculator computes the amortized payment and the coverage ratios used
// by underwriting. It has no state; the zero value is ready to use.
//
// Neither ratio ever fails: a zero or negative denominator means the applicant
// carries no debt burden, which is reported as +Inf.
type RatioCalculator struct{}

// MonthlyPayment returns the fixed monthly instalment of an amortizing loan.
//
//	r = annualRatePercent / 100 / 12
//	n = termYears * 12
//	payment = P * r * (1+r)^n / ((1+r)^n - 1)
//
// A zero rate yields exactly principal / n. A non-positive term yields 0.
func (RatioCalculator) MonthlyPayment(principal, annualRatePercent float64, termYears int) float64 {
	n := termYears * 12
	if n <= 0 {
		return 0
	}
	if annualRatePercent == 0 {
		return principal / float64(n)
	}
	r := annualRatePercent / 100 / 12
	factor := math.Pow(1+r, float64(n))
	return principal * r * factor / (factor - 1)
}

// RoundedMonthlyPayment is MonthlyPayment rounded to cents, as stored on an
// application and quoted in offers.
func (c RatioCalculator) RoundedMonthlyPayment(principal decimal.Decimal, annualRatePercent float64, termYears int) decimal.Decimal {
	p := c.MonthlyPayment(principal.InexactFloat64(), annualRatePercent, termYears)
	return decimal.NewFromFloat(p).Round(2)
}

// DSCR is available income divided by all monthly debt service including the
// requested loan, amortized at annualRatePercent.
func (c RatioCalculator) DSCR(
	availableIncome, existingMonthlyDebt, requestedAmount float64,
	termYears int,
	annualRatePercent float64,
) float64 {
	total := existingMonthlyDebt + c.MonthlyPayment(requestedAmount, annualRatePercent, termYears)
	if total <= 0 {
		return math.Inf(1)
	}
	return availableIncome / total
}

// DSCRDefault is DSCR at DefaultDSCRRatePercent.
func (c RatioCalculator) DSCRDefault(availableIncome, existingMonthlyDebt, requestedAmount float64, termYears int) float64 {
	return c.DSCR(availableIncome, existingMonthlyDebt, requestedAmount, termYears, DefaultDSCRRatePercent)
}

// CCR is collateral value divided by all outstanding debt including the
// requested amount.
func (RatioCalculator) CCR(collateralValue, totalOutstandingDebt, requestedAmount float64) float64 {
	total := totalOutstandingDebt + requestedAmount
	if total <= 0 {
		return math.Inf(1)
	}
	return collateralValue / total
}
