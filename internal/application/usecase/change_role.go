package usecase

import (
	"context"
	"fmt"

	"github.com/mustafa-shahin/lf10-project/internal/application/dto"
	"github.com/mustafa-shahin/lf10-project/internal/domain/apperr"
	"github.com/mustafa-shahin/lf10-project/internal/domain/valueobject"
)

// ChangePersonRoleUseCase lets an admin change somebody's role.
type ChangePersonRoleUseCase struct {
	workflow
}

// NewChangePersonRoleUseCase wires dependencies.
func NewChangePersonRoleUseCase(deps Dependencies) *ChangePersonRoleUseCase {
	return &ChangePersonRoleUseCase{workflow: newWorkflow(deps)}
}

// Execute updates the role and returns the updated person.
func (uc *ChangePersonRoleUseCase) Execute(
	ctx context.Context,
	req dto.ChangeRoleRequest,
) (dto.PersonResponse, error) {
	if err := dto.Validate(req); err != nil {
		return dto.PersonResponse{}, err
	}
	actor, err := uc.authorize(ctx, req.ActorID, valueobject.ActionChangeRole)
	if err != nil {
		return dto.PersonResponse{}, err
	}
	role, err := valueobject.NewRole(req.Role)
	if err != nil {
		return dto.PersonResponse{}, apperr.Validation("%v", err)
	}

	person, err := uc.Persons.FindByID(ctx, req.PersonID)
	if err != nil {
		return dto.PersonResponse{}, fmt.Errorf("find person: %w", err)
	}
	if err := uc.Persons.UpdateRole(ctx, person.ID, role); err != nil {
		return dto.PersonResponse{}, fmt.Errorf("update role: %w", err)
	}
	uc.Logger.Info("person role changed",
		"person_id", person.ID,
		"from", person.Role.String(),
		"to", role.String(),
		"admin_id", actor.ID,
	)

	person.Role = role
	return toPersonResponse(person), nil
}
