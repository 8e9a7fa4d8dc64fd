package event

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/mustafa-shahin/lf10-project/pkg/events"
)

// DomainEvent is an alias for the shared pkg/events.DomainEvent interface.
type DomainEvent = events.DomainEvent

const aggregateApplication = "Application"

// ---------------------------------------------------------------------------
// Application Events
// ---------------------------------------------------------------------------

// ApplicationSubmitted is raised when a scored application enters the workflow.
type ApplicationSubmitted struct {
	events.BaseEvent
	ApplicantID          string          `json:"applicant_id"`
	LoanType             string          `json:"loan_type"`
	RequestedAmount      decimal.Decimal `json:"requested_amount"`
	TermYears            int             `json:"term_years"`
	CreditScore          int             `json:"credit_score"`
	Decision             string          `json:"decision"`
	Reason               string          `json:"reason"`
	NeedsManagerApproval bool            `json:"needs_manager_approval"`
}

func NewApplicationSubmitted(
	applicationID, applicantID, loanType string,
	amount decimal.Decimal, termYears, creditScore int,
	decision, reason string, needsManagerApproval bool,
	now time.Time,
) ApplicationSubmitted {
	return ApplicationSubmitted{
		BaseEvent:            events.NewBaseEvent("loanflow.application.submitted", applicationID, aggregateApplication, now),
		ApplicantID:          applicantID,
		LoanType:             loanType,
		RequestedAmount:      amount,
		TermYears:            termYears,
		CreditScore:          creditScore,
		Decision:             decision,
		Reason:               reason,
		NeedsManagerApproval: needsManagerApproval,
	}
}

// ApplicationClaimed is raised when a staff member takes over processing.
type ApplicationClaimed struct {
	events.BaseEvent
	HandledBy string `json:"handled_by"`
}

func NewApplicationClaimed(applicationID, handledBy string, now time.Time) ApplicationClaimed {
	return ApplicationClaimed{
		BaseEvent: events.NewBaseEvent("loanflow.application.claimed", applicationID, aggregateApplication, now),
		HandledBy: handledBy,
	}
}

// ApplicationEscalated is raised when an application is routed to managers.
type ApplicationEscalated struct {
	events.BaseEvent
	EscalatedBy string `json:"escalated_by"`
}

func NewApplicationEscalated(applicationID, escalatedBy string, now time.Time) ApplicationEscalated {
	return ApplicationEscalated{
		BaseEvent:   events.NewBaseEvent("loanflow.application.escalated", applicationID, aggregateApplication, now),
		EscalatedBy: escalatedBy,
	}
}

// ManagerDecisionRecorded is raised when a manager approves or rejects an
// escalated application.
type ManagerDecisionRecorded struct {
	events.BaseEvent
	ManagerID string `json:"manager_id"`
	Approved  bool   `json:"approved"`
	Note      string `json:"note,omitempty"`
}

func NewManagerDecisionRecorded(applicationID, managerID string, approved bool, note string, now time.Time) ManagerDecisionRecorded {
	return ManagerDecisionRecorded{
		BaseEvent: events.NewBaseEvent("loanflow.application.manager_decision", applicationID, aggregateApplication, now),
		ManagerID: managerID,
		Approved:  approved,
		Note:      note,
	}
}

// ApplicationApproved is raised when an application reaches the approved state.
type ApplicationApproved struct {
	events.BaseEvent
	DecidedBy      string          `json:"decided_by"`
	MonthlyPayment decimal.Decimal `json:"monthly_payment"`
}

func NewApplicationApproved(applicationID, decidedBy string, monthlyPayment decimal.Decimal, now time.Time) ApplicationApproved {
	return ApplicationApproved{
		BaseEvent:      events.NewBaseEvent("loanflow.application.approved", applicationID, aggregateApplication, now),
		DecidedBy:      decidedBy,
		MonthlyPayment: monthlyPayment,
	}
}

// ApplicationRejected is raised when an application reaches the rejected state,
// either automatically at submission or by a human decision.
type ApplicationRejected struct {
	events.BaseEvent
	DecidedBy string `json:"decided_by,omitempty"`
	Reason    string `json:"reason"`
}

func NewApplicationRejected(applicationID, decidedBy, reason string, now time.Time) ApplicationRejected {
	return ApplicationRejected{
		BaseEvent: events.NewBaseEvent("loanflow.application.rejected", applicationID, aggregateApplication, now),
		DecidedBy: decidedBy,
		Reason:    reason,
	}
}

// LoanOfferCreated is raised when terms are attached to an approved application.
type LoanOfferCreated struct {
	events.BaseEvent
	InterestRate   float64         `json:"interest_rate"`
	MonthlyPayment decimal.Decimal `json:"monthly_payment"`
	TermYears      int             `json:"term_years"`
}

func NewLoanOfferCreated(applicationID string, rate float64, monthlyPayment decimal.Decimal, termYears int, now time.Time) LoanOfferCreated {
	return LoanOfferCreated{
		BaseEvent:      events.NewBaseEvent("loanflow.application.offer_created", applicationID, aggregateApplication, now),
		InterestRate:   rate,
		MonthlyPayment: monthlyPayment,
		TermYears:      termYears,
	}
}
