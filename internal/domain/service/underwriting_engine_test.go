package service_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mustafa-shahin/lf10-project/internal/domain/model"
	"github.com/mustafa-shahin/lf10-project/internal/domain/service"
	"github.com/mustafa-shahin/lf10-project/internal/domain/valueobject"
)

func newEngine() *service.UnderwritingEngine {
	return service.NewUnderwritingEngine(service.DefaultUnderwritingPolicy())
}

func TestUnderwritingEngine_ScoreTooLow(t *testing.T) {
	engine := newEngine()
	loanTypes := []valueobject.LoanType{
		valueobject.LoanTypeImmediate,
		valueobject.LoanTypeBuilding,
		valueobject.ParseLoanTypeLenient("leasing"),
	}

	for _, lt := range loanTypes {
		for _, score := range []int{0, 300, 500, 578} {
			for _, ratio := range []float64{0, 0.5, 1.5, 3, math.Inf(1)} {
				r := engine.Evaluate(service.EvaluationInput{LoanType: lt, CreditScore: score, DSCR: ratio, CCR: ratio})
				require.True(t, r.Rejected(), "score %d type %s", score, lt)
				assert.Equal(t, service.ReasonScoreTooLow, r.Reason)
				assert.True(t, r.Decision.Equal(valueobject.DecisionRejected))
				assert.False(t, r.NeedsManagerApproval)
			}
		}
	}
}

func TestUnderwritingEngine_Immediate(t *testing.T) {
	engine := newEngine()

	t.Run("good score recommends without escalation", func(t *testing.T) {
		r := engine.Evaluate(service.EvaluationInput{LoanType: valueobject.LoanTypeImmediate, CreditScore: 700})
		assert.Equal(t, service.VerdictRecommendApproval, r.Verdict)
		assert.True(t, r.Decision.Equal(valueobject.DecisionPending), "recommendation is never final")
		assert.Equal(t, service.ReasonRecommendApproval, r.Reason)
		assert.False(t, r.NeedsManagerApproval)
	})

	t.Run("ratios are ignored", func(t *testing.T) {
		r := engine.Evaluate(service.EvaluationInput{LoanType: valueobject.LoanTypeImmediate, CreditScore: 700, DSCR: 0.1, CCR: 0.1})
		assert.Equal(t, service.VerdictRecommendApproval, r.Verdict)
		assert.False(t, r.NeedsManagerApproval)
	})

	t.Run("score boundaries", func(t *testing.T) {
		r := engine.Evaluate(service.EvaluationInput{LoanType: valueobject.LoanTypeImmediate, CreditScore: 579})
		assert.False(t, r.Rejected())
		assert.True(t, r.NeedsManagerApproval)

		r = engine.Evaluate(service.EvaluationInput{LoanType: valueobject.LoanTypeImmediate, CreditScore: 669})
		assert.True(t, r.NeedsManagerApproval)

		r = engine.Evaluate(service.EvaluationInput{LoanType: valueobject.LoanTypeImmediate, CreditScore: 670})
		assert.False(t, r.NeedsManagerApproval)
	})
}

func TestUnderwritingEngine_Building(t *testing.T) {
	engine := newEngine()

	tests := []struct {
		name        string
		score       int
		dscr, ccr   float64
		verdict     service.Verdict
		reason      string
		escalate    bool
		needsCollat bool
	}{
		{name: "dscr below one", score: 700, dscr: 0.9, ccr: 5, verdict: service.VerdictRejected, reason: service.ReasonDSCRTooLow, escalate: true},
		{name: "strong dscr and ccr", score: 700, dscr: 2, ccr: 0.75, verdict: service.VerdictRecommendApproval, reason: service.ReasonRecommendApproval},
		{name: "adequate dscr full collateral", score: 700, dscr: 1.5, ccr: 1, verdict: service.VerdictRecommendApproval, reason: service.ReasonRecommendApproval},
		{name: "adequate dscr low dscr escalates", score: 700, dscr: 1.2, ccr: 1.2, verdict: service.VerdictRecommendApproval, reason: service.ReasonRecommendApproval, escalate: true},
		{name: "adequate dscr short collateral", score: 700, dscr: 1.5, ccr: 0.9, verdict: service.VerdictPending, reason: service.ReasonAdditionalCollateral, needsCollat: true},
		{name: "strong dscr short collateral", score: 700, dscr: 2.5, ccr: 0.5, verdict: service.VerdictPending, reason: service.ReasonAdditionalCollateral, needsCollat: true},
		{name: "unbounded ratios", score: 700, dscr: math.Inf(1), ccr: math.Inf(1), verdict: service.VerdictRecommendApproval, reason: service.ReasonRecommendApproval},
		{name: "low score escalates", score: 600, dscr: 3, ccr: 1, verdict: service.VerdictRecommendApproval, reason: service.ReasonRecommendApproval, escalate: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := engine.Evaluate(service.EvaluationInput{
				LoanType:    valueobject.LoanTypeBuilding,
				CreditScore: tt.score,
				DSCR:        tt.dscr,
				CCR:         tt.ccr,
			})
			assert.Equal(t, tt.verdict, r.Verdict)
			assert.Equal(t, tt.reason, r.Reason)
			assert.Equal(t, tt.escalate, r.NeedsManagerApproval)
			assert.Equal(t, tt.needsCollat, r.RequiresAdditionalCollateral)
		})
	}
}

func TestUnderwritingEngine_StrongBuildingNeverRejected(t *testing.T) {
	engine := newEngine()
	for score := 579; score <= 1000; score += 7 {
		for _, dscr := range []float64{2, 2.01, 3.5, 10, math.Inf(1)} {
			for _, ccr := range []float64{0.75, 0.8, 1, 4, math.Inf(1)} {
				r := engine.Evaluate(service.EvaluationInput{
					LoanType: valueobject.LoanTypeBuilding, CreditScore: score, DSCR: dscr, CCR: ccr,
				})
				require.False(t, r.Rejected(), "score=%d dscr=%v ccr=%v", score, dscr, ccr)
			}
		}
	}
}

func TestUnderwritingEngine_EscalationFlag(t *testing.T) {
	engine := newEngine()
	for _, score := range []int{579, 600, 669, 670, 800} {
		for _, dscr := range []float64{1, 1.39, 1.4, 2.5} {
			r := engine.Evaluate(service.EvaluationInput{
				LoanType: valueobject.LoanTypeBuilding, CreditScore: score, DSCR: dscr, CCR: 2,
			})
			want := score < 670 || dscr < 1.4
			assert.Equal(t, want, r.NeedsManagerApproval, "score=%d dscr=%v", score, dscr)
		}
	}
}

func TestUnderwritingEngine_UnknownLoanType(t *testing.T) {
	r := newEngine().Evaluate(service.EvaluationInput{LoanType: valueobject.ParseLoanTypeLenient("leasing"), CreditScore: 800})
	assert.True(t, r.Rejected())
	assert.Equal(t, service.ReasonUnknownLoanType, r.Reason)
}

func TestUnderwritingEngine_ReferenceScenario(t *testing.T) {
	calc := model.RatioCalculator{}
	payment := calc.MonthlyPayment(100_000, 5, 10)
	dscr := calc.DSCR(5000, 0, 100_000, 10, 5)
	ccr := calc.CCR(150_000, 0, 100_000)

	assert.InDelta(t, 5000/payment, dscr, 1e-9)
	assert.Equal(t, 1.5, ccr)

	r := newEngine().Evaluate(service.EvaluationInput{
		LoanType: valueobject.LoanTypeBuilding, CreditScore: 700, DSCR: dscr, CCR: ccr,
	})
	require.GreaterOrEqual(t, dscr, 2.0)
	assert.True(t, r.Decision.Equal(valueobject.DecisionPending))
	assert.Equal(t, service.ReasonRecommendApproval, r.Reason)
	assert.False(t, r.NeedsManagerApproval)
}

func TestUnderwritingPolicy_Validate(t *testing.T) {
	assert.NoError(t, service.DefaultUnderwritingPolicy().Validate())

	p := service.DefaultUnderwritingPolicy()
	p.EscalationCreditScore = 500
	assert.Error(t, p.Validate())

	p = service.DefaultUnderwritingPolicy()
	p.StrongDSCR = 0.5
	assert.Error(t, p.Validate())

	p = service.DefaultUnderwritingPolicy()
	p.StandardCCR = 0
	assert.Error(t, p.Validate())
}

func TestUnderwritingPolicy_LogValue(t *testing.T) {
	policy := service.DefaultUnderwritingPolicy()
	policy.MinCreditScore = 600

	var buf bytes.Buffer
	slog.New(slog.NewJSONHandler(&buf, nil)).Info("underwriting policy", "policy", service.NewUnderwritingEngine(policy).Policy())

	var line struct {
		Policy map[string]float64 `json:"policy"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, map[string]float64{
		"min_credit_score":        600,
		"escalation_credit_score": 670,
		"escalation_dscr":         1.4,
		"min_dscr":                1,
		"strong_dscr":             2,
		"strong_ccr":              0.75,
		"standard_ccr":            1,
	}, line.Policy)
}
