package usecase_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mustafa-shahin/lf10-project/internal/application/dto"
	"github.com/mustafa-shahin/lf10-project/internal/application/usecase"
	"github.com/mustafa-shahin/lf10-project/internal/domain/apperr"
	"github.com/mustafa-shahin/lf10-project/internal/domain/valueobject"
	"github.com/mustafa-shahin/lf10-project/pkg/auth"
)

func registerRequest(email string) dto.RegisterRequest {
	return dto.RegisterRequest{
		FirstName: "Nina",
		LastName:  "Neu",
		Email:     email,
		Password:  "s3cret-password",
	}
}

func TestRegisterPerson_Execute(t *testing.T) {
	t.Run("first account becomes admin", func(t *testing.T) {
		f := newFixture(t)
		f.persons = newMockPersonRepository()
		f.deps.Persons, f.deps.Accounts = f.persons, f.persons

		resp, err := usecase.NewRegisterPersonUseCase(f.deps).Execute(context.Background(), registerRequest("Nina@Example.com"))
		require.NoError(t, err)

		assert.Equal(t, "admin", resp.Person.Role)
		assert.Equal(t, "nina@example.com", resp.Person.Email)
		assert.Equal(t, "token-"+resp.Person.ID+"-admin", resp.Token)
		assert.Equal(t, 1, f.tx.commits)

		stored := f.persons.persons[resp.Person.ID]
		assert.Equal(t, valueobject.RoleAdmin, stored.Role)
		hash := f.persons.hashes[resp.Person.ID]
		assert.NotEqual(t, "s3cret-password", hash)
		assert.True(t, auth.CheckPassword(hash, "s3cret-password"))
	})

	t.Run("later accounts are customers", func(t *testing.T) {
		f := newFixture(t)

		resp, err := usecase.NewRegisterPersonUseCase(f.deps).Execute(context.Background(), registerRequest("nina@example.com"))
		require.NoError(t, err)
		assert.Equal(t, "customer", resp.Person.Role)
		assert.Equal(t, []string{resp.Token}, f.tokens.issued)
	})

	t.Run("taken email", func(t *testing.T) {
		f := newFixture(t)
		before := len(f.persons.persons)

		_, err := usecase.NewRegisterPersonUseCase(f.deps).Execute(context.Background(), registerRequest("CLARA@example.com"))
		assert.True(t, apperr.IsConflict(err))
		assert.Len(t, f.persons.persons, before)
		assert.Equal(t, 1, f.tx.rollbacks)
		assert.Empty(t, f.tokens.issued)
	})

	t.Run("invalid requests", func(t *testing.T) {
		tests := []struct {
			name string
			req  dto.RegisterRequest
		}{
			{name: "short password", req: dto.RegisterRequest{FirstName: "N", LastName: "N", Email: "n@example.com", Password: "short"}},
			{name: "bad email", req: dto.RegisterRequest{FirstName: "N", LastName: "N", Email: "not-an-email", Password: "s3cret-password"}},
			{name: "missing name", req: dto.RegisterRequest{Email: "n@example.com", Password: "s3cret-password"}},
			{name: "password beyond bcrypt limit", req: dto.RegisterRequest{FirstName: "N", LastName: "N", Email: "n@example.com", Password: strings.Repeat("ü", 40)}},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				f := newFixture(t)
				_, err := usecase.NewRegisterPersonUseCase(f.deps).Execute(context.Background(), tt.req)
				assert.True(t, apperr.IsValidation(err), "got %v", err)
				assert.Zero(t, f.tx.commits)
			})
		}
	})

	t.Run("store failure", func(t *testing.T) {
		f := newFixture(t)
		f.persons.createErr = apperr.Conflict("person nina@example.com: already exists")

		_, err := usecase.NewRegisterPersonUseCase(f.deps).Execute(context.Background(), registerRequest("nina@example.com"))
		assert.True(t, apperr.IsConflict(err))
		assert.Empty(t, f.tokens.issued)
	})
}

func TestLogin_Execute(t *testing.T) {
	newRegistered := func(t *testing.T) *fixture {
		t.Helper()
		f := newFixture(t)
		hash, err := auth.HashPassword("s3cret-password")
		require.NoError(t, err)
		f.persons.hashes[employee.ID] = hash
		return f
	}

	t.Run("valid credentials", func(t *testing.T) {
		f := newRegistered(t)

		resp, err := usecase.NewLoginUseCase(f.deps).Execute(context.Background(), dto.LoginRequest{
			Email:    "Erika@Example.com",
			Password: "s3cret-password",
		})
		require.NoError(t, err)
		assert.Equal(t, "token-employee-1-employee", resp.Token)
		assert.Equal(t, employee.ID, resp.Person.ID)
		assert.Equal(t, "employee", resp.Person.Role)
	})

	tests := []struct {
		name  string
		email string
		pass  string
	}{
		{name: "wrong password", email: "erika@example.com", pass: "wrong-password"},
		{name: "unknown email", email: "nobody@example.com", pass: "s3cret-password"},
		{name: "person without password", email: "max@example.com", pass: "s3cret-password"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newRegistered(t)
			_, err := usecase.NewLoginUseCase(f.deps).Execute(context.Background(), dto.LoginRequest{Email: tt.email, Password: tt.pass})
			assert.True(t, apperr.IsAuthorization(err))
			assert.EqualError(t, err, "invalid email or password")
			assert.Empty(t, f.tokens.issued)
		})
	}

	t.Run("token signing fails", func(t *testing.T) {
		f := newRegistered(t)
		f.tokens.err = errors.New("no private key")

		_, err := usecase.NewLoginUseCase(f.deps).Execute(context.Background(), dto.LoginRequest{
			Email:    "erika@example.com",
			Password: "s3cret-password",
		})
		assert.ErrorContains(t, err, "issue token: no private key")
	})
}
