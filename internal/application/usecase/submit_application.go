package usecase

import (
	"context"
	"fmt"

	"github.com/mustafa-shahin/lf10-project/internal/application/dto"
	"github.com/mustafa-shahin/lf10-project/internal/domain/apperr"
	"github.com/mustafa-shahin/lf10-project/internal/domain/model"
	"github.com/mustafa-shahin/lf10-project/internal/domain/port"
	"github.com/mustafa-shahin/lf10-project/internal/domain/service"
	"github.com/mustafa-shahin/lf10-project/internal/domain/valueobject"
)

// SubmitApplicationUseCase validates a customer's request, scores it and
// records the resulting application.
type SubmitApplicationUseCase struct {
	workflow
	scores      port.CreditScoreProvider
	underwriter *service.UnderwritingEngine
	defaultRate float64
}

// NewSubmitApplicationUseCase wires dependencies. defaultRate is the annual
// interest rate in percent stored on new applications.
func NewSubmitApplicationUseCase(
	deps Dependencies,
	scores port.CreditScoreProvider,
	underwriter *service.UnderwritingEngine,
	defaultRate float64,
) *SubmitApplicationUseCase {
	return &SubmitApplicationUseCase{
		workflow:    newWorkflow(deps),
		scores:      scores,
		underwriter: underwriter,
		defaultRate: defaultRate,
	}
}

// Execute submits an application. Invalid loan parameters are reported as a
// rejected outcome, not as an error.
func (uc *SubmitApplicationUseCase) Execute(
	ctx context.Context,
	req dto.SubmitApplicationRequest,
) (dto.SubmitApplicationResponse, error) {
	// 1. Check the caller.
	actor, err := uc.authorize(ctx, req.ActorID, valueobject.ActionSubmitApplication)
	if err != nil {
		return dto.SubmitApplicationResponse{}, err
	}

	// 2. Validate the loan parameters against the product limits.
	loanReq, err := buildLoanRequest(req)
	if err != nil {
		if apperr.IsValidation(err) {
			uc.Logger.Info("application rejected at validation", "applicant_id", actor.ID, "reason", err.Error())
			return dto.SubmitApplicationResponse{Rejected: true, Reason: err.Error()}, nil
		}
		return dto.SubmitApplicationResponse{}, err
	}

	// 3. Coverage ratios (building loans only).
	dscr, ccr := loanReq.Ratios(model.Financials{
		AvailableIncome:      req.AvailableIncome,
		ExistingMonthlyDebt:  req.ExistingMonthlyDebt,
		CollateralValue:      req.CollateralValue,
		TotalOutstandingDebt: req.TotalOutstandingDebt,
	})

	// 4. Credit score.
	score, err := uc.scores.Score(ctx, actor.ID)
	if err != nil {
		return dto.SubmitApplicationResponse{}, fmt.Errorf("fetch credit score: %w", err)
	}

	// 5. Underwriting.
	result := uc.underwriter.Evaluate(service.EvaluationInput{
		LoanType:    loanReq.LoanType,
		CreditScore: score,
		DSCR:        dscr,
		CCR:         ccr,
	})
	uc.Metrics.RecordVerdict(string(result.Verdict))

	// 6. Create the aggregate.
	app, err := model.NewApplication(actor.ID, loanReq, model.Assessment{
		CreditScore:                  score,
		DSCR:                         dscr,
		CCR:                          ccr,
		Decision:                     result.Decision,
		Reason:                       result.Reason,
		NeedsManagerApproval:         result.NeedsManagerApproval,
		RequiresAdditionalCollateral: result.RequiresAdditionalCollateral,
	}, uc.defaultRate, uc.Clock())
	if err != nil {
		return dto.SubmitApplicationResponse{}, fmt.Errorf("create application: %w", err)
	}

	// 7. Persist.
	err = uc.Tx.WithinTx(ctx, func(ctx context.Context) error {
		return uc.Applications.Insert(ctx, app)
	})
	if err != nil {
		return dto.SubmitApplicationResponse{}, fmt.Errorf("save application: %w", err)
	}
	uc.Logger.Info("application submitted",
		"application_id", app.ID(),
		"applicant_id", actor.ID,
		"loan_type", app.LoanType().String(),
		"verdict", string(result.Verdict),
		"needs_manager_approval", app.NeedsManagerApproval(),
	)

	// 8. Side effects after commit.
	uc.publish(ctx, app)
	if app.Status().IsTerminal() {
		uc.sendStatusEmail(ctx, app)
	} else if app.NeedsManagerApproval() {
		uc.notifyManagers(ctx, app, nil)
	}

	resp := toApplicationResponse(app)
	return dto.SubmitApplicationResponse{
		Application: &resp,
		Rejected:    app.Status().Equal(valueobject.ApplicationStatusRejected),
		Reason:      app.Reason(),
	}, nil
}

// buildLoanRequest parses and normalises the raw request. Every failure is
// marked as a validation error.
func buildLoanRequest(req dto.SubmitApplicationRequest) (model.LoanRequest, error) {
	if err := dto.Validate(req); err != nil {
		return model.LoanRequest{}, err
	}

	loanType := valueobject.ParseLoanTypeLenient(req.LoanType)
	subtype, err := parseSubtype(loanType, req.LoanSubtype)
	if err != nil {
		return model.LoanRequest{}, err
	}

	return model.LoanRequest{
		LoanType:        loanType,
		LoanSubtype:     subtype,
		RequestedAmount: req.RequestedAmount,
		RepaymentAmount: req.RepaymentAmount,
		TermYears:       req.TermYears,
	}.Normalize()
}

// parseSubtype defaults building loans to annuity, the only subtype they allow.
func parseSubtype(loanType valueobject.LoanType, raw string) (valueobject.LoanSubtype, error) {
	if raw == "" {
		if loanType.Equal(valueobject.LoanTypeBuilding) {
			return valueobject.LoanSubtypeAnnuity, nil
		}
		if loanType.IsKnown() {
			return valueobject.LoanSubtype{}, apperr.Validation("loan subtype is required for %s loans", loanType)
		}
		return valueobject.LoanSubtype{}, nil
	}
	subtype, err := valueobject.NewLoanSubtype(raw)
	if err != nil {
		return valueobject.LoanSubtype{}, apperr.Validation("%v", err)
	}
	return subtype, nil
}
