package usecase

import (
	"context"

	"github.com/mustafa-shahin/lf10-project/internal/application/dto"
	"github.com/mustafa-shahin/lf10-project/internal/domain/model"
	"github.com/mustafa-shahin/lf10-project/internal/domain/valueobject"
)

// EmployeeDecideUseCase records an employee's accept or reject decision.
type EmployeeDecideUseCase struct {
	workflow
}

// NewEmployeeDecideUseCase wires dependencies.
func NewEmployeeDecideUseCase(deps Dependencies) *EmployeeDecideUseCase {
	return &EmployeeDecideUseCase{workflow: newWorkflow(deps)}
}

// Execute finalises the application. Accepting an application whose
// collateral is short routes it to the managers instead.
func (uc *EmployeeDecideUseCase) Execute(
	ctx context.Context,
	req dto.EmployeeDecisionRequest,
) (dto.ApplicationResponse, error) {
	if err := dto.Validate(req); err != nil {
		return dto.ApplicationResponse{}, err
	}
	actor, err := uc.authorize(ctx, req.ActorID, valueobject.ActionEmployeeDecide)
	if err != nil {
		return dto.ApplicationResponse{}, err
	}

	escalated := false
	app, err := uc.transition(ctx, "employee_decide", req.ApplicationID, func(app model.Application) (model.Application, error) {
		if req.Accept && app.NeedsCollateralReview() {
			next, _, err := app.Escalate(actor.ID, uc.Clock())
			escalated = err == nil
			return next, err
		}
		return app.EmployeeDecide(req.Accept, actor.ID, uc.Clock())
	})
	if err != nil {
		return dto.ApplicationResponse{}, err
	}

	if escalated {
		uc.Logger.Info("collateral review required, application sent to managers",
			"application_id", app.ID(),
			"employee_id", actor.ID,
		)
		uc.notifyManagers(ctx, app, &actor)
		return toApplicationResponse(app), nil
	}

	uc.sendStatusEmail(ctx, app)
	return toApplicationResponse(app), nil
}
