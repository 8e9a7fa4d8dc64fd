package service

import (
	"errors"
	"log/slog"

	"github.com/mustafa-shahin/lf10-project/internal/domain/valueobject"
)

// ---------------------------------------------------------------------------
// UnderwritingPolicy – configurable thresholds
// ---------------------------------------------------------------------------

// UnderwritingPolicy holds every threshold the engine applies.
type UnderwritingPolicy struct {
	// MinCreditScore rejects any application scoring strictly below it.
	MinCreditScore int
	// EscalationCreditScore flags applications scoring strictly below it.
	EscalationCreditScore int
	// EscalationDSCR flags building loans whose DSCR is strictly below it.
	EscalationDSCR float64
	MinDSCR        float64
	StrongDSCR     float64
	// StrongCCR is the collateral floor when DSCR is at least StrongDSCR.
	StrongCCR float64
	// StandardCCR is the collateral floor when DSCR is between MinDSCR and StrongDSCR.
	StandardCCR float64
}

// DefaultUnderwritingPolicy returns the canonical thresholds.
func DefaultUnderwritingPolicy() UnderwritingPolicy {
	return UnderwritingPolicy{
		MinCreditScore:        579,
		EscalationCreditScore: 670,
		EscalationDSCR:        1.4,
		MinDSCR:               1,
		StrongDSCR:            2,
		StrongCCR:             0.75,
		StandardCCR:           1,
	}
}

// LogValue renders the thresholds as one structured log group.
func (p UnderwritingPolicy) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("min_credit_score", p.MinCreditScore),
		slog.Int("escalation_credit_score", p.EscalationCreditScore),
		slog.Float64("escalation_dscr", p.EscalationDSCR),
		slog.Float64("min_dscr", p.MinDSCR),
		slog.Float64("strong_dscr", p.StrongDSCR),
		slog.Float64("strong_ccr", p.StrongCCR),
		slog.Float64("standard_ccr", p.StandardCCR),
	)
}

// Validate checks that the thresholds are internally consistent.
func (p UnderwritingPolicy) Validate() error {
	switch {
	case p.MinCreditScore < 0 || p.MinCreditScore > 1000:
		return errors.New("min credit score must be within [0, 1000]")
	case p.EscalationCreditScore < p.MinCreditScore:
		return errors.New("escalation credit score must not be below the min credit score")
	case p.MinDSCR <= 0:
		return errors.New("min DSCR must be positive")
	case p.StrongDSCR < p.MinDSCR:
		return errors.New("strong DSCR must not be below the min DSCR")
	case p.StrongCCR <= 0 || p.StandardCCR <= 0:
		return errors.New("CCR thresholds must be positive")
	}
	return nil
}

// ---------------------------------------------------------------------------
// UnderwritingEngine – rule-based decisioning
// ---------------------------------------------------------------------------

// Verdict is the raw policy outcome before the human workflow is applied.
type Verdict string

const (
	VerdictRecommendApproval Verdict = "recommend-approved"
	VerdictPending           Verdict = "pending"
	VerdictRejected          Verdict = "rejected"
)

// Reasons reported by the engine.
const (
	ReasonScoreTooLow          = "score too low"
	ReasonDSCRTooLow           = "DSCR too low"
	ReasonRecommendApproval    = "recommend approval"
	ReasonAdditionalCollateral = "additional collateral required — one month delay"
	ReasonInsufficientRatios   = "insufficient DSCR/CCR"
	ReasonUnknownLoanType      = "unknown loan type"
)

// EvaluationInput carries everything the policy looks at. DSCR and CCR are
// only read for building loans.
type EvaluationInput struct {
	LoanType    valueobject.LoanType
	CreditScore int
	DSCR        float64
	CCR         float64
}

// UnderwritingResult holds the outcome of the underwriting evaluation.
type UnderwritingResult struct {
	Verdict Verdict
	// Decision is what gets persisted: a recommended approval is never final
	// and is recorded as pending until a human confirms it.
	Decision             valueobject.Decision
	Reason               string
	NeedsManagerApproval bool
	// RequiresAdditionalCollateral marks the building-loan case where ratios
	// are adequate but collateral is short.
	RequiresAdditionalCollateral bool
}

// Rejected reports whether the application is rejected outright.
func (r UnderwritingResult) Rejected() bool { return r.Verdict == VerdictRejected }

// UnderwritingEngine encapsulates rule-based credit decisioning.
type UnderwritingEngine struct {
	policy UnderwritingPolicy
}

// NewUnderwritingEngine returns an engine applying the given policy.
func NewUnderwritingEngine(policy UnderwritingPolicy) *UnderwritingEngine {
	return &UnderwritingEngine{policy: policy}
}

// Policy returns the thresholds in effect.
func (e *UnderwritingEngine) Policy() UnderwritingPolicy { return e.policy }

// Evaluate applies the policy in order:
//
//  1. score below MinCreditScore rejects immediately
//  2. escalation flag = score below EscalationCreditScore, or (building) DSCR below EscalationDSCR
//  3. immediate loans are recommended for approval
//  4. building loans are gated on DSCR and CCR
//  5. any other loan type is rejected
func (e *UnderwritingEngine) Evaluate(in EvaluationInput) UnderwritingResult {
	p := e.policy

	if in.CreditScore < p.MinCreditScore {
		return reject(ReasonScoreTooLow, false)
	}

	ratiosDefined := in.LoanType.Equal(valueobject.LoanTypeBuilding)
	escalate := in.CreditScore < p.EscalationCreditScore ||
		(ratiosDefined && in.DSCR < p.EscalationDSCR)

	switch {
	case in.LoanType.Equal(valueobject.LoanTypeImmediate):
		return recommend(escalate)
	case in.LoanType.Equal(valueobject.LoanTypeBuilding):
		return e.evaluateBuilding(in, escalate)
	default:
		return reject(ReasonUnknownLoanType, escalate)
	}
}

func (e *UnderwritingEngine) evaluateBuilding(in EvaluationInput, escalate bool) UnderwritingResult {
	p := e.policy
	dscr, ccr := in.DSCR, in.CCR

	strong := dscr >= p.StrongDSCR
	adequate := dscr >= p.MinDSCR && dscr < p.StrongDSCR

	switch {
	case dscr < p.MinDSCR:
		return reject(ReasonDSCRTooLow, escalate)
	case strong && ccr >= p.StrongCCR:
		return recommend(escalate)
	case adequate && ccr >= p.StandardCCR:
		return recommend(escalate)
	case (adequate && ccr < p.StandardCCR) || (strong && ccr < p.StrongCCR):
		return UnderwritingResult{
			Verdict:                      VerdictPending,
			Decision:                     valueobject.DecisionPending,
			Reason:                       ReasonAdditionalCollateral,
			NeedsManagerApproval:         escalate,
			RequiresAdditionalCollateral: true,
		}
	default:
		return reject(ReasonInsufficientRatios, escalate)
	}
}

func recommend(escalate bool) UnderwritingResult {
	return UnderwritingResult{
		Verdict:              VerdictRecommendApproval,
		Decision:             valueobject.DecisionPending,
		Reason:               ReasonRecommendApproval,
		NeedsManagerApproval: escalate,
	}
}

func reject(reason string, escalate bool) UnderwritingResult {
	return UnderwritingResult{
		Verdict:              VerdictRejected,
		Decision:             valueobject.DecisionRejected,
		Reason:               reason,
		NeedsManagerApproval: escalate,
	}
}
