package model_test

import (
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/mustafa-shahin/lf10-project/internal/domain/model"
)

func TestRatioCalculator_MonthlyPayment(t *testing.T) {
	calc := model.RatioCalculator{}

	t.Run("zero rate is exact principal over months", func(t *testing.T) {
		assert.Equal(t, 10000.0/60, calc.MonthlyPayment(10000, 0, 5))
	})

	t.Run("amortization formula", func(t *testing.T) {
		// 100k over 10 years at 5% is the textbook 1060.66.
		assert.InDelta(t, 1060.66, calc.MonthlyPayment(100_000, 5, 10), 0.005)
	})

	t.Run("non-positive term yields zero", func(t *testing.T) {
		assert.Zero(t, calc.MonthlyPayment(10000, 5, 0))
		assert.Zero(t, calc.MonthlyPayment(10000, 5, -3))
	})

	t.Run("rounded to cents", func(t *testing.T) {
		got := calc.RoundedMonthlyPayment(decimal.NewFromInt(100_000), 5, 10)
		assert.True(t, got.Equal(decimal.RequireFromString("1060.66")), got.String())
	})
}

func TestRatioCalculator_DSCR(t *testing.T) {
	calc := model.RatioCalculator{}

	t.Run("income over total monthly debt", func(t *testing.T) {
		payment := calc.MonthlyPayment(100_000, 5, 10)
		assert.InDelta(t, 5000/(200+payment), calc.DSCR(5000, 200, 100_000, 10, 5), 1e-9)
	})

	t.Run("default rate is five percent", func(t *testing.T) {
		assert.Equal(t,
			calc.DSCR(5000, 0, 100_000, 10, 5),
			calc.DSCRDefault(5000, 0, 100_000, 10))
	})

	t.Run("no debt burden is unbounded", func(t *testing.T) {
		assert.True(t, math.IsInf(calc.DSCR(5000, 0, 0, 10, 5), 1))
		assert.True(t, math.IsInf(calc.DSCR(5000, -100, 0, 10, 5), 1))
		assert.True(t, math.IsInf(calc.DSCR(5000, 0, 100_000, 0, 5), 1))
	})
}

func TestRatioCalculator_CCR(t *testing.T) {
	calc := model.RatioCalculator{}

	assert.Equal(t, 1.5, calc.CCR(150_000, 0, 100_000))
	assert.Equal(t, 1.0, calc.CCR(150_000, 50_000, 100_000))
	assert.True(t, math.IsInf(calc.CCR(150_000, 0, 0), 1))
	assert.True(t, math.IsInf(calc.CCR(150_000, -10, 0), 1))
}
