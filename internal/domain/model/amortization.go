package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// AmortizationEntry is an immutable value object representing one period in an
// amortization schedule.
type AmortizationEntry struct {
	DueDate          time.Time
	Payment          decimal.Decimal
	Principal        decimal.Decimal
	Interest         decimal.Decimal
	RemainingBalance decimal.Decimal
	Period           int
}

// RepaymentPlan summarises a fixed-payment loan.
type RepaymentPlan struct {
	MonthlyPayment decimal.Decimal
	TotalPayments  decimal.Decimal
	TotalInterest  decimal.Decimal
	Schedule       []AmortizationEntry
}

// NewRepaymentPlan computes the payment totals and the full amortization
// schedule for a loan of termYears at annualRatePercent, with the first
// instalment due one month after startDate.
//
// Totals are derived from the rounded monthly payment. The final period pays
// off whatever balance the rounding left behind.
func NewRepaymentPlan(
	principal decimal.Decimal,
	annualRatePercent float64,
	termYears int,
	startDate time.Time,
) RepaymentPlan {
	termMonths := termYears * 12
	if termMonths <= 0 || principal.LessThanOrEqual(decimal.Zero) {
		return RepaymentPlan{}
	}

	monthlyPayment := RatioCalculator{}.RoundedMonthlyPayment(principal, annualRatePercent, termYears)
	totalPayments := monthlyPayment.Mul(decimal.NewFromInt(int64(termMonths))).Round(2)

	return RepaymentPlan{
		MonthlyPayment: monthlyPayment,
		TotalPayments:  totalPayments,
		TotalInterest:  totalPayments.Sub(principal).Round(2),
		Schedule:       amortize(principal, monthlyPayment, annualRatePercent, termMonths, startDate),
	}
}

func amortize(
	principal, monthlyPayment decimal.Decimal,
	annualRatePercent float64,
	termMonths int,
	startDate time.Time,
) []AmortizationEntry {
	monthlyRate := decimal.NewFromFloat(annualRatePercent).
		Div(decimal.NewFromInt(100)).
		Div(decimal.NewFromInt(12))

	schedule := make([]AmortizationEntry, 0, termMonths)
	remaining := principal

	for period := 1; period <= termMonths; period++ {
		interest := remaining.Mul(monthlyRate).Round(2)
		principalPart := monthlyPayment.Sub(interest)
		payment := monthlyPayment

		if period == termMonths {
			principalPart = remaining
			payment = principalPart.Add(interest)
		}

		remaining = remaining.Sub(principalPart)
		if remaining.LessThan(decimal.Zero) {
			remaining = decimal.Zero
		}

		schedule = append(schedule, AmortizationEntry{
			Period:           period,
			DueDate:          startDate.AddDate(0, period, 0),
			Payment:          payment.Round(2),
			Principal:        principalPart.Round(2),
			Interest:         interest,
			RemainingBalance: remaining.Round(2),
		})
	}

	return schedule
}
