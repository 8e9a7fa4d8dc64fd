package usecase

import (
	"context"
	"fmt"

	"github.com/mustafa-shahin/lf10-project/internal/application/dto"
	"github.com/mustafa-shahin/lf10-project/internal/domain/apperr"
	"github.com/mustafa-shahin/lf10-project/internal/domain/port"
	"github.com/mustafa-shahin/lf10-project/internal/domain/valueobject"
)

// GetApplicationUseCase retrieves a loan application by ID.
type GetApplicationUseCase struct {
	workflow
}

// NewGetApplicationUseCase wires dependencies.
func NewGetApplicationUseCase(deps Dependencies) *GetApplicationUseCase {
	return &GetApplicationUseCase{workflow: newWorkflow(deps)}
}

// Execute returns the application. Customers only see their own; to them a
// foreign application does not exist.
func (uc *GetApplicationUseCase) Execute(
	ctx context.Context,
	req dto.ApplicationActionRequest,
) (dto.ApplicationResponse, error) {
	if err := dto.Validate(req); err != nil {
		return dto.ApplicationResponse{}, err
	}
	actor, err := uc.Persons.FindByID(ctx, req.ActorID)
	if err != nil {
		return dto.ApplicationResponse{}, fmt.Errorf("load actor: %w", err)
	}

	app, err := uc.Applications.FindByID(ctx, req.ApplicationID)
	if err != nil {
		return dto.ApplicationResponse{}, fmt.Errorf("find application: %w", err)
	}
	if !actor.Role.Allows(valueobject.ActionViewAllApplications) && app.ApplicantID() != actor.ID {
		return dto.ApplicationResponse{}, apperr.NotFound("application %s not found", req.ApplicationID)
	}
	return toApplicationResponse(app), nil
}

// ListApplicationsUseCase lists applications visible to the actor.
type ListApplicationsUseCase struct {
	workflow
}

// NewListApplicationsUseCase wires dependencies.
func NewListApplicationsUseCase(deps Dependencies) *ListApplicationsUseCase {
	return &ListApplicationsUseCase{workflow: newWorkflow(deps)}
}

// Execute lists the actor's own applications, or all of them for staff.
func (uc *ListApplicationsUseCase) Execute(
	ctx context.Context,
	req dto.ListApplicationsRequest,
) (dto.ListApplicationsResponse, error) {
	if err := dto.Validate(req); err != nil {
		return dto.ListApplicationsResponse{}, err
	}
	actor, err := uc.Persons.FindByID(ctx, req.ActorID)
	if err != nil {
		return dto.ListApplicationsResponse{}, fmt.Errorf("load actor: %w", err)
	}

	filter := port.ApplicationFilter{Limit: req.Limit, Offset: req.Offset}
	if !actor.Role.Allows(valueobject.ActionViewAllApplications) {
		filter.ApplicantID = actor.ID
	}
	if req.Status != "" {
		status, err := valueobject.NewApplicationStatus(req.Status)
		if err != nil {
			return dto.ListApplicationsResponse{}, apperr.Validation("%v", err)
		}
		filter.Status = status
	}

	apps, err := uc.Applications.List(ctx, filter)
	if err != nil {
		return dto.ListApplicationsResponse{}, fmt.Errorf("list applications: %w", err)
	}
	return dto.ListApplicationsResponse{Applications: toApplicationResponses(apps)}, nil
}
