package usecase_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mustafa-shahin/lf10-project/internal/application/dto"
	"github.com/mustafa-shahin/lf10-project/internal/application/usecase"
	"github.com/mustafa-shahin/lf10-project/internal/domain/apperr"
	"github.com/mustafa-shahin/lf10-project/internal/domain/event"
	"github.com/mustafa-shahin/lf10-project/internal/domain/service"
)

func newSubmitUseCase(f *fixture, scores *mockCreditScoreProvider) *usecase.SubmitApplicationUseCase {
	return usecase.NewSubmitApplicationUseCase(
		f.deps, scores, service.NewUnderwritingEngine(service.DefaultUnderwritingPolicy()), 5,
	)
}

func immediateRequest() dto.SubmitApplicationRequest {
	return dto.SubmitApplicationRequest{
		ActorID:         customer.ID,
		LoanType:        "immediate",
		LoanSubtype:     "bullet",
		RequestedAmount: decimal.NewFromInt(20_000),
		TermYears:       4,
	}
}

func buildingRequest() dto.SubmitApplicationRequest {
	return dto.SubmitApplicationRequest{
		ActorID:         customer.ID,
		LoanType:        "building",
		RequestedAmount: decimal.NewFromInt(100_000),
		TermYears:       10,
		AvailableIncome: 5000,
		CollateralValue: 150_000,
	}
}

func TestSubmitApplication_Execute(t *testing.T) {
	t.Run("good immediate loan waits for an employee", func(t *testing.T) {
		f := newFixture(t)
		uc := newSubmitUseCase(f, fixedScore(700))

		resp, err := uc.Execute(context.Background(), immediateRequest())
		require.NoError(t, err)

		require.NotNil(t, resp.Application)
		assert.False(t, resp.Rejected)
		assert.Equal(t, "in-processing", resp.Application.Status)
		assert.Equal(t, "pending", resp.Application.Decision)
		assert.Equal(t, service.ReasonRecommendApproval, resp.Application.Reason)
		assert.False(t, resp.Application.NeedsManagerApproval)
		assert.Equal(t, 5.0, resp.Application.InterestRate)
		assert.Nil(t, resp.Application.DecidedAt)
		assert.Zero(t, float64(resp.Application.DSCR))

		assert.Len(t, f.apps.apps, 1)
		assert.Equal(t, 1, f.tx.commits)
		assert.Equal(t, []string{"loanflow.application.submitted"}, f.publisher.types())
		assert.Equal(t, []string{string(service.VerdictRecommendApproval)}, f.metrics.verdicts)
		assert.Empty(t, f.notifications.saved)
		assert.Empty(t, f.email.statusEmails)
	})

	t.Run("score below minimum is rejected at once", func(t *testing.T) {
		f := newFixture(t)
		uc := newSubmitUseCase(f, fixedScore(500))

		resp, err := uc.Execute(context.Background(), buildingRequest())
		require.NoError(t, err)

		assert.True(t, resp.Rejected)
		assert.Equal(t, service.ReasonScoreTooLow, resp.Reason)
		require.NotNil(t, resp.Application)
		assert.Equal(t, "rejected", resp.Application.Status)
		assert.NotNil(t, resp.Application.DecidedAt)
		assert.False(t, resp.Application.NeedsManagerApproval)

		assert.Equal(t, []string{"loanflow.application.submitted", "loanflow.application.rejected"}, f.publisher.types())
		require.Len(t, f.email.statusEmails, 1)
		assert.Equal(t, customer.Email, f.email.statusEmails[0].To)
		assert.Empty(t, f.notifications.saved)
	})

	t.Run("marginal score escalates to every manager", func(t *testing.T) {
		f := newFixture(t)
		uc := newSubmitUseCase(f, fixedScore(600))

		resp, err := uc.Execute(context.Background(), immediateRequest())
		require.NoError(t, err)

		assert.True(t, resp.Application.NeedsManagerApproval)
		assert.Equal(t, "in-processing", resp.Application.Status)
		assert.Equal(t, []string{manager1.ID, manager2.ID}, f.notifications.recipients())
		for _, n := range f.notifications.saved {
			assert.Empty(t, n.SenderID)
			assert.Equal(t, resp.Application.ID, n.ApplicationID)
		}
		assert.Len(t, f.email.approvalEmails, 2)
	})

	t.Run("reference building scenario", func(t *testing.T) {
		f := newFixture(t)
		uc := newSubmitUseCase(f, fixedScore(700))

		resp, err := uc.Execute(context.Background(), buildingRequest())
		require.NoError(t, err)

		app := resp.Application
		assert.Equal(t, "annuity", app.LoanSubtype)
		assert.Equal(t, "pending", app.Decision)
		assert.Equal(t, service.ReasonRecommendApproval, app.Reason)
		assert.False(t, app.NeedsManagerApproval)
		assert.GreaterOrEqual(t, float64(app.DSCR), 2.0)
		assert.Equal(t, 1.5, float64(app.CCR))
		assert.Equal(t, 700, app.CreditScore)
	})

	t.Run("short collateral is flagged", func(t *testing.T) {
		f := newFixture(t)
		uc := newSubmitUseCase(f, fixedScore(700))
		req := buildingRequest()
		req.CollateralValue = 50_000

		resp, err := uc.Execute(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, service.ReasonAdditionalCollateral, resp.Application.Reason)
		assert.True(t, resp.Application.RequiresAdditionalCollateral)
		assert.False(t, resp.Rejected)
	})

	t.Run("unknown loan type is rejected by underwriting", func(t *testing.T) {
		f := newFixture(t)
		uc := newSubmitUseCase(f, fixedScore(800))
		req := immediateRequest()
		req.LoanType = "leasing"
		req.LoanSubtype = ""

		resp, err := uc.Execute(context.Background(), req)
		require.NoError(t, err)
		assert.True(t, resp.Rejected)
		assert.Equal(t, service.ReasonUnknownLoanType, resp.Reason)
	})

	t.Run("invalid parameters come back as a rejection", func(t *testing.T) {
		f := newFixture(t)
		scored := false
		uc := newSubmitUseCase(f, &mockCreditScoreProvider{
			scoreFunc: func(context.Context, string) (int, error) {
				scored = true
				return 700, nil
			},
		})
		req := immediateRequest()
		req.RequestedAmount = decimal.NewFromInt(50_000)

		resp, err := uc.Execute(context.Background(), req)
		require.NoError(t, err)
		assert.True(t, resp.Rejected)
		assert.Nil(t, resp.Application)
		assert.Contains(t, resp.Reason, "40000")
		assert.False(t, scored)
		assert.Empty(t, f.apps.apps)
	})

	t.Run("wrong subtype for building loans", func(t *testing.T) {
		f := newFixture(t)
		uc := newSubmitUseCase(f, fixedScore(700))
		req := buildingRequest()
		req.LoanSubtype = "bullet"

		resp, err := uc.Execute(context.Background(), req)
		require.NoError(t, err)
		assert.True(t, resp.Rejected)
		assert.Empty(t, f.apps.apps)
	})

	t.Run("staff may not submit", func(t *testing.T) {
		f := newFixture(t)
		uc := newSubmitUseCase(f, fixedScore(700))
		req := immediateRequest()
		req.ActorID = employee.ID

		_, err := uc.Execute(context.Background(), req)
		require.Error(t, err)
		assert.True(t, apperr.IsAuthorization(err))
	})

	t.Run("score provider failure", func(t *testing.T) {
		f := newFixture(t)
		uc := newSubmitUseCase(f, &mockCreditScoreProvider{
			scoreFunc: func(context.Context, string) (int, error) { return 0, fmt.Errorf("unavailable") },
		})

		_, err := uc.Execute(context.Background(), immediateRequest())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "fetch credit score")
		assert.Empty(t, f.apps.apps)
	})

	t.Run("publish failure does not fail the submission", func(t *testing.T) {
		f := newFixture(t)
		f.publisher.publishFunc = func(context.Context, ...event.DomainEvent) error { return fmt.Errorf("broker down") }
		uc := newSubmitUseCase(f, fixedScore(700))

		resp, err := uc.Execute(context.Background(), immediateRequest())
		require.NoError(t, err)
		assert.NotNil(t, resp.Application)
	})
}
