package usecase

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/mustafa-shahin/lf10-project/internal/application/dto"
	"github.com/mustafa-shahin/lf10-project/internal/domain/apperr"
	"github.com/mustafa-shahin/lf10-project/internal/domain/model"
	"github.com/mustafa-shahin/lf10-project/pkg/auth"
)

// RegisterPersonUseCase opens an account and signs the newcomer in.
type RegisterPersonUseCase struct {
	workflow
}

// NewRegisterPersonUseCase wires dependencies.
func NewRegisterPersonUseCase(deps Dependencies) *RegisterPersonUseCase {
	return &RegisterPersonUseCase{workflow: newWorkflow(deps)}
}

// Execute stores the person with a bcrypt hash of the password. The very
// first account becomes an admin, later ones are customers.
func (uc *RegisterPersonUseCase) Execute(ctx context.Context, req dto.RegisterRequest) (dto.AuthResponse, error) {
	if err := dto.Validate(req); err != nil {
		return dto.AuthResponse{}, err
	}
	if len(req.Password) > auth.MaxPasswordBytes {
		return dto.AuthResponse{}, apperr.Validation("password must not exceed %d bytes", auth.MaxPasswordBytes)
	}
	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return dto.AuthResponse{}, err
	}

	person := model.Person{
		ID:        uuid.NewString(),
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     model.NormalizeEmail(req.Email),
	}
	err = uc.Tx.WithinTx(ctx, func(ctx context.Context) error {
		_, _, err := uc.Accounts.FindByEmail(ctx, person.Email)
		switch {
		case err == nil:
			return apperr.Conflict("email %s is already in use", person.Email)
		case !apperr.IsNotFound(err):
			return fmt.Errorf("look up email: %w", err)
		}

		existing, err := uc.Accounts.Count(ctx)
		if err != nil {
			return err
		}
		person.Role = model.RoleForNewAccount(existing)
		return uc.Accounts.Create(ctx, person, hash)
	})
	if err != nil {
		return dto.AuthResponse{}, err
	}
	uc.Logger.Info("person registered", "person_id", person.ID, "role", person.Role.String())

	return uc.signIn(person)
}

// LoginUseCase checks credentials and issues an access token.
type LoginUseCase struct {
	workflow
}

// NewLoginUseCase wires dependencies.
func NewLoginUseCase(deps Dependencies) *LoginUseCase {
	return &LoginUseCase{workflow: newWorkflow(deps)}
}

// Execute fails with the same authorization error for an unknown email and
// a wrong password.
func (uc *LoginUseCase) Execute(ctx context.Context, req dto.LoginRequest) (dto.AuthResponse, error) {
	if err := dto.Validate(req); err != nil {
		return dto.AuthResponse{}, err
	}
	person, hash, err := uc.Accounts.FindByEmail(ctx, model.NormalizeEmail(req.Email))
	if err != nil {
		if apperr.IsNotFound(err) {
			return dto.AuthResponse{}, errInvalidCredentials()
		}
		return dto.AuthResponse{}, fmt.Errorf("look up email: %w", err)
	}
	if !auth.CheckPassword(hash, req.Password) {
		uc.Logger.Warn("login rejected", "person_id", person.ID)
		return dto.AuthResponse{}, errInvalidCredentials()
	}
	return uc.signIn(person)
}

func errInvalidCredentials() error {
	return apperr.WithHint(apperr.Authorization("invalid email or password"), "Invalid email or password")
}

func (w workflow) signIn(p model.Person) (dto.AuthResponse, error) {
	token, err := w.Tokens.GenerateToken(p.ID, p.Role.String())
	if err != nil {
		return dto.AuthResponse{}, fmt.Errorf("issue token: %w", err)
	}
	return dto.AuthResponse{Token: token, Person: toPersonResponse(p)}, nil
}
