package model_test

import (
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mustafa-shahin/lf10-project/internal/domain/apperr"
	"github.com/mustafa-shahin/lf10-project/internal/domain/model"
	"github.com/mustafa-shahin/lf10-project/internal/domain/valueobject"
)

func TestLoanRequest_Normalize(t *testing.T) {
	tests := []struct {
		name     string
		req      model.LoanRequest
		wantErr  bool
		wantTerm int
	}{
		{
			name: "installment term derived from repayment",
			req: model.LoanRequest{
				LoanType:        valueobject.LoanTypeImmediate,
				LoanSubtype:     valueobject.LoanSubtypeInstallment,
				RequestedAmount: decimal.NewFromInt(10_000),
				RepaymentAmount: decimal.NewFromInt(3_000),
			},
			wantTerm: 4,
		},
		{
			name: "installment exceeding five years",
			req: model.LoanRequest{
				LoanType:        valueobject.LoanTypeImmediate,
				LoanSubtype:     valueobject.LoanSubtypeInstallment,
				RequestedAmount: decimal.NewFromInt(10_000),
				RepaymentAmount: decimal.NewFromInt(1_000),
			},
			wantErr: true,
		},
		{
			name: "installment without repayment",
			req: model.LoanRequest{
				LoanType:        valueobject.LoanTypeImmediate,
				LoanSubtype:     valueobject.LoanSubtypeInstallment,
				RequestedAmount: decimal.NewFromInt(10_000),
			},
			wantErr: true,
		},
		{
			name: "immediate above limit",
			req: model.LoanRequest{
				LoanType:        valueobject.LoanTypeImmediate,
				LoanSubtype:     valueobject.LoanSubtypeBullet,
				RequestedAmount: decimal.NewFromInt(40_001),
				TermYears:       3,
			},
			wantErr: true,
		},
		{
			name: "immediate bullet keeps term",
			req: model.LoanRequest{
				LoanType:        valueobject.LoanTypeImmediate,
				LoanSubtype:     valueobject.LoanSubtypeBullet,
				RequestedAmount: decimal.NewFromInt(40_000),
				TermYears:       3,
			},
			wantTerm: 3,
		},
		{
			name: "immediate annuity at ten years",
			req: model.LoanRequest{
				LoanType:        valueobject.LoanTypeImmediate,
				LoanSubtype:     valueobject.LoanSubtypeAnnuity,
				RequestedAmount: decimal.NewFromInt(20_000),
				TermYears:       10,
			},
			wantTerm: 10,
		},
		{
			name: "immediate beyond ten years",
			req: model.LoanRequest{
				LoanType:        valueobject.LoanTypeImmediate,
				LoanSubtype:     valueobject.LoanSubtypeBullet,
				RequestedAmount: decimal.NewFromInt(20_000),
				TermYears:       11,
			},
			wantErr: true,
		},
		{
			name: "building with wrong subtype",
			req: model.LoanRequest{
				LoanType:        valueobject.LoanTypeBuilding,
				LoanSubtype:     valueobject.LoanSubtypeBullet,
				RequestedAmount: decimal.NewFromInt(100_000),
				TermYears:       10,
			},
			wantErr: true,
		},
		{
			name: "building beyond twenty years",
			req: model.LoanRequest{
				LoanType:        valueobject.LoanTypeBuilding,
				LoanSubtype:     valueobject.LoanSubtypeAnnuity,
				RequestedAmount: decimal.NewFromInt(100_000),
				TermYears:       21,
			},
			wantErr: true,
		},
		{
			name: "non-positive amount",
			req: model.LoanRequest{
				LoanType:        valueobject.LoanTypeBuilding,
				LoanSubtype:     valueobject.LoanSubtypeAnnuity,
				RequestedAmount: decimal.Zero,
				TermYears:       10,
			},
			wantErr: true,
		},
		{
			name: "unknown type passes through",
			req: model.LoanRequest{
				LoanType:        valueobject.ParseLoanTypeLenient("leasing"),
				RequestedAmount: decimal.NewFromInt(5_000),
				TermYears:       2,
			},
			wantTerm: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.req.Normalize()
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, apperr.IsValidation(err), "expected validation error, got %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantTerm, got.TermYears)
		})
	}
}

func TestLoanRequest_Ratios(t *testing.T) {
	f := model.Financials{AvailableIncome: 5000, CollateralValue: 150_000}

	t.Run("building loans compute both ratios", func(t *testing.T) {
		req := model.LoanRequest{
			LoanType:        valueobject.LoanTypeBuilding,
			LoanSubtype:     valueobject.LoanSubtypeAnnuity,
			RequestedAmount: decimal.NewFromInt(100_000),
			TermYears:       10,
		}
		dscr, ccr := req.Ratios(f)
		assert.InDelta(t, 5000/model.RatioCalculator{}.MonthlyPayment(100_000, 5, 10), dscr, 1e-9)
		assert.Equal(t, 1.5, ccr)
	})

	t.Run("immediate loans carry zero placeholders", func(t *testing.T) {
		req := model.LoanRequest{
			LoanType:        valueobject.LoanTypeImmediate,
			LoanSubtype:     valueobject.LoanSubtypeBullet,
			RequestedAmount: decimal.NewFromInt(10_000),
			TermYears:       2,
		}
		dscr, ccr := req.Ratios(f)
		assert.Zero(t, dscr)
		assert.Zero(t, ccr)
	})

	t.Run("debt-free building loan is unbounded", func(t *testing.T) {
		req := model.LoanRequest{LoanType: valueobject.LoanTypeBuilding, TermYears: 0}
		dscr, ccr := req.Ratios(f)
		assert.True(t, math.IsInf(dscr, 1))
		assert.True(t, math.IsInf(ccr, 1))
	})
}
