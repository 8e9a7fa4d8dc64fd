package usecase

import (
	"context"

	"github.com/mustafa-shahin/lf10-project/internal/application/dto"
	"github.com/mustafa-shahin/lf10-project/internal/domain/model"
	"github.com/mustafa-shahin/lf10-project/internal/domain/valueobject"
)

// CreateOfferUseCase attaches loan terms to an approved application and mails
// them to the customer.
type CreateOfferUseCase struct {
	workflow
}

// NewCreateOfferUseCase wires dependencies.
func NewCreateOfferUseCase(deps Dependencies) *CreateOfferUseCase {
	return &CreateOfferUseCase{workflow: newWorkflow(deps)}
}

// Execute creates the offer. When the offer email goes out, offer_sent is
// recorded in a second compare-and-swap update; a failure there is logged.
func (uc *CreateOfferUseCase) Execute(
	ctx context.Context,
	req dto.CreateOfferRequest,
) (dto.ApplicationResponse, error) {
	if err := dto.Validate(req); err != nil {
		return dto.ApplicationResponse{}, err
	}
	actor, err := uc.authorize(ctx, req.ActorID, valueobject.ActionCreateOffer)
	if err != nil {
		return dto.ApplicationResponse{}, err
	}

	app, err := uc.transition(ctx, "create_offer", req.ApplicationID, func(app model.Application) (model.Application, error) {
		return app.CreateOffer(req.InterestRate, uc.Clock())
	})
	if err != nil {
		return dto.ApplicationResponse{}, err
	}
	uc.Logger.Info("loan offer created",
		"application_id", app.ID(),
		"actor_id", actor.ID,
		"interest_rate", app.InterestRate(),
	)

	if !uc.sendOfferEmail(ctx, app) {
		return toApplicationResponse(app), nil
	}

	sent, err := uc.transition(ctx, "offer_sent", app.ID(), func(current model.Application) (model.Application, error) {
		return current.MarkOfferSent(uc.Clock())
	})
	if err != nil {
		uc.Logger.Error("failed to record sent offer", "application_id", app.ID(), "error", err)
		return toApplicationResponse(app), nil
	}
	return toApplicationResponse(sent), nil
}
