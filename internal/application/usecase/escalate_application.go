package usecase

import (
	"context"

	"github.com/mustafa-shahin/lf10-project/internal/application/dto"
	"github.com/mustafa-shahin/lf10-project/internal/domain/model"
	"github.com/mustafa-shahin/lf10-project/internal/domain/valueobject"
)

// EscalateApplicationUseCase routes an application to the managers.
type EscalateApplicationUseCase struct {
	workflow
}

// NewEscalateApplicationUseCase wires dependencies.
func NewEscalateApplicationUseCase(deps Dependencies) *EscalateApplicationUseCase {
	return &EscalateApplicationUseCase{workflow: newWorkflow(deps)}
}

// Execute escalates the application. Escalating twice returns the current
// state and notifies nobody the second time.
func (uc *EscalateApplicationUseCase) Execute(
	ctx context.Context,
	req dto.ApplicationActionRequest,
) (dto.ApplicationResponse, error) {
	if err := dto.Validate(req); err != nil {
		return dto.ApplicationResponse{}, err
	}
	actor, err := uc.authorize(ctx, req.ActorID, valueobject.ActionEscalate)
	if err != nil {
		return dto.ApplicationResponse{}, err
	}

	changed := false
	app, err := uc.transition(ctx, "escalate", req.ApplicationID, func(app model.Application) (model.Application, error) {
		next, ok, err := app.Escalate(actor.ID, uc.Clock())
		changed = ok
		return next, err
	})
	if err != nil {
		return dto.ApplicationResponse{}, err
	}

	if changed {
		uc.notifyManagers(ctx, app, &actor)
	}
	return toApplicationResponse(app), nil
}
