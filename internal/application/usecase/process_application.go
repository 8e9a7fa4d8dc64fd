package usecase

import (
	"context"

	"github.com/mustafa-shahin/lf10-project/internal/application/dto"
	"github.com/mustafa-shahin/lf10-project/internal/domain/model"
	"github.com/mustafa-shahin/lf10-project/internal/domain/valueobject"
)

// ProcessApplicationUseCase lets a staff member claim an application.
type ProcessApplicationUseCase struct {
	workflow
}

// NewProcessApplicationUseCase wires dependencies.
func NewProcessApplicationUseCase(deps Dependencies) *ProcessApplicationUseCase {
	return &ProcessApplicationUseCase{workflow: newWorkflow(deps)}
}

// Execute records the actor as handler and tells the customer their
// application is being worked on.
func (uc *ProcessApplicationUseCase) Execute(
	ctx context.Context,
	req dto.ApplicationActionRequest,
) (dto.ApplicationResponse, error) {
	if err := dto.Validate(req); err != nil {
		return dto.ApplicationResponse{}, err
	}
	actor, err := uc.authorize(ctx, req.ActorID, valueobject.ActionProcessApplication)
	if err != nil {
		return dto.ApplicationResponse{}, err
	}

	app, err := uc.transition(ctx, "claim", req.ApplicationID, func(app model.Application) (model.Application, error) {
		return app.Claim(actor.ID, uc.Clock())
	})
	if err != nil {
		return dto.ApplicationResponse{}, err
	}

	uc.sendProcessingEmail(ctx, app, actor)
	return toApplicationResponse(app), nil
}
