package usecase

import (
	"context"
	"time"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/mustafa-shahin/lf10-project/internal/application/dto"
	"github.com/mustafa-shahin/lf10-project/internal/domain/apperr"
	"github.com/mustafa-shahin/lf10-project/internal/domain/model"
)

// GetRepaymentPlanUseCase is the loan calculator.
type GetRepaymentPlanUseCase struct {
	clock func() time.Time
}

// NewGetRepaymentPlanUseCase creates the calculator use case.
func NewGetRepaymentPlanUseCase(clock func() time.Time) *GetRepaymentPlanUseCase {
	if clock == nil {
		clock = func() time.Time { return time.Now().UTC() }
	}
	return &GetRepaymentPlanUseCase{clock: clock}
}

// Execute returns payment totals and the amortization schedule. Without a
// start date the schedule starts today.
func (uc *GetRepaymentPlanUseCase) Execute(
	_ context.Context,
	req dto.RepaymentPlanRequest,
) (dto.RepaymentPlanResponse, error) {
	if err := dto.Validate(req); err != nil {
		return dto.RepaymentPlanResponse{}, err
	}
	if req.Amount.LessThanOrEqual(decimal.Zero) {
		return dto.RepaymentPlanResponse{}, apperr.Validation("amount must be positive")
	}

	start := req.StartDate
	if start.IsZero() {
		start = uc.clock()
	}
	plan := model.NewRepaymentPlan(req.Amount, req.InterestRate, req.TermYears, start)

	return dto.RepaymentPlanResponse{
		MonthlyPayment: plan.MonthlyPayment,
		TotalPayments:  plan.TotalPayments,
		TotalInterest:  plan.TotalInterest,
		Schedule: lo.Map(plan.Schedule, func(e model.AmortizationEntry, _ int) dto.AmortizationEntryResponse {
			return dto.AmortizationEntryResponse{
				Period:           e.Period,
				DueDate:          e.DueDate,
				Payment:          e.Payment,
				Principal:        e.Principal,
				Interest:         e.Interest,
				RemainingBalance: e.RemainingBalance,
			}
		}),
	}, nil
}
