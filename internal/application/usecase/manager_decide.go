package usecase

import (
	"context"

	"github.com/mustafa-shahin/lf10-project/internal/application/dto"
	"github.com/mustafa-shahin/lf10-project/internal/domain/model"
	"github.com/mustafa-shahin/lf10-project/internal/domain/valueobject"
)

// ManagerDecideUseCase records a manager's verdict on an escalated application.
type ManagerDecideUseCase struct {
	workflow
}

// NewManagerDecideUseCase wires dependencies.
func NewManagerDecideUseCase(deps Dependencies) *ManagerDecideUseCase {
	return &ManagerDecideUseCase{workflow: newWorkflow(deps)}
}

// Execute approves or rejects the application, then informs the handling
// employee and, on rejection, the customer.
func (uc *ManagerDecideUseCase) Execute(
	ctx context.Context,
	req dto.ManagerDecisionRequest,
) (dto.ApplicationResponse, error) {
	if err := dto.Validate(req); err != nil {
		return dto.ApplicationResponse{}, err
	}
	actor, err := uc.authorize(ctx, req.ActorID, valueobject.ActionManagerDecide)
	if err != nil {
		return dto.ApplicationResponse{}, err
	}

	app, err := uc.transition(ctx, "manager_decide", req.ApplicationID, func(app model.Application) (model.Application, error) {
		return app.ManagerDecide(req.Approve, actor.ID, req.Note, uc.Clock())
	})
	if err != nil {
		return dto.ApplicationResponse{}, err
	}

	if uc.Dispatcher != nil {
		if _, err := uc.Dispatcher.NotifyEmployeeOfManagerDecision(ctx, app, actor, app.HandledBy(), req.Approve); err != nil {
			uc.Logger.Error("failed to notify handling employee",
				"application_id", app.ID(),
				"employee_id", app.HandledBy(),
				"error", err,
			)
		}
	}
	if !req.Approve {
		uc.sendStatusEmail(ctx, app)
	}
	return toApplicationResponse(app), nil
}
