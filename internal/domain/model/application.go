package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mustafa-shahin/lf10-project/internal/domain/apperr"
	"github.com/mustafa-shahin/lf10-project/internal/domain/event"
	"github.com/mustafa-shahin/lf10-project/internal/domain/valueobject"
)

// ---------------------------------------------------------------------------
// Application aggregate root
// ---------------------------------------------------------------------------

// Application is an immutable aggregate. Every transition returns a new copy
// and leaves the receiver untouched, so a failed guard never mutates state.
type Application struct {
	id                           string
	applicantID                  string
	loanType                     valueobject.LoanType
	loanSubtype                  valueobject.LoanSubtype
	requestedAmount              decimal.Decimal
	repaymentAmount              decimal.Decimal
	termYears                    int
	status                       valueobject.ApplicationStatus
	decision                     valueobject.Decision
	reason                       string
	dscr                         float64
	ccr                          float64
	creditScore                  int
	needsManagerApproval         bool
	requiresAdditionalCollateral bool
	managerApproval              valueobject.ManagerApproval
	approvalNote                 string
	handledBy                    string
	managerID                    string
	interestRate                 float64
	monthlyPayment               decimal.Decimal
	offerCreated                 bool
	offerSent                    bool
	version                      int
	createdAt                    time.Time
	updatedAt                    time.Time
	decidedAt                    *time.Time
	domainEvents                 []event.DomainEvent
}

// Assessment is the underwriting outcome applied when an application is created.
type Assessment struct {
	CreditScore                  int
	DSCR                         float64
	CCR                          float64
	Decision                     valueobject.Decision
	Reason                       string
	NeedsManagerApproval         bool
	RequiresAdditionalCollateral bool
}

// ---------------------------------------------------------------------------
// Constructors
// ---------------------------------------------------------------------------

// NewApplication creates a scored application. A rejected assessment makes the
// application terminal immediately; anything else leaves it in processing
// with a pending decision.
func NewApplication(
	applicantID string,
	req LoanRequest,
	assessment Assessment,
	interestRate float64,
	now time.Time,
) (Application, error) {
	if applicantID == "" {
		return Application{}, apperr.Validation("applicant ID is required")
	}
	if req.LoanType.IsZero() {
		return Application{}, apperr.Validation("loan type is required")
	}
	if req.RequestedAmount.LessThanOrEqual(decimal.Zero) {
		return Application{}, apperr.Validation("requested amount must be positive")
	}
	if assessment.CreditScore < 0 || assessment.CreditScore > 1000 {
		return Application{}, apperr.Validation("credit score %d outside [0, 1000]", assessment.CreditScore)
	}
	if interestRate < 0 {
		return Application{}, apperr.Validation("interest rate must not be negative")
	}

	dscr, ccr := assessment.DSCR, assessment.CCR
	if !req.LoanType.Equal(valueobject.LoanTypeBuilding) {
		dscr, ccr = 0, 0
	}

	app := Application{
		id:                           uuid.New().String(),
		applicantID:                  applicantID,
		loanType:                     req.LoanType,
		loanSubtype:                  req.LoanSubtype,
		requestedAmount:              req.RequestedAmount,
		repaymentAmount:              req.RepaymentAmount,
		termYears:                    req.TermYears,
		reason:                       assessment.Reason,
		dscr:                         dscr,
		ccr:                          ccr,
		creditScore:                  assessment.CreditScore,
		needsManagerApproval:         assessment.NeedsManagerApproval,
		requiresAdditionalCollateral: assessment.RequiresAdditionalCollateral,
		interestRate:                 interestRate,
		version:                      1,
		createdAt:                    now,
		updatedAt:                    now,
	}

	if assessment.Decision.Equal(valueobject.DecisionRejected) {
		app.status = valueobject.ApplicationStatusRejected
		app.decision = valueobject.DecisionRejected
		decided := now
		app.decidedAt = &decided
	} else {
		app.status = valueobject.ApplicationStatusInProcessing
		app.decision = valueobject.DecisionPending
	}

	app.domainEvents = append(app.domainEvents, event.NewApplicationSubmitted(
		app.id, applicantID, req.LoanType.String(), req.RequestedAmount, req.TermYears,
		assessment.CreditScore, app.decision.String(), assessment.Reason, assessment.NeedsManagerApproval, now,
	))
	if app.status.Equal(valueobject.ApplicationStatusRejected) {
		app.domainEvents = append(app.domainEvents, event.NewApplicationRejected(app.id, "", assessment.Reason, now))
	}
	return app, nil
}

// ApplicationSnapshot carries every persisted field for ReconstructApplication.
type ApplicationSnapshot struct {
	ID                           string
	ApplicantID                  string
	LoanType                     valueobject.LoanType
	LoanSubtype                  valueobject.LoanSubtype
	RequestedAmount              decimal.Decimal
	RepaymentAmount              decimal.Decimal
	TermYears                    int
	Status                       valueobject.ApplicationStatus
	Decision                     valueobject.Decision
	Reason                       string
	DSCR                         float64
	CCR                          float64
	CreditScore                  int
	NeedsManagerApproval         bool
	RequiresAdditionalCollateral bool
	ManagerApproval              valueobject.ManagerApproval
	ApprovalNote                 string
	HandledBy                    string
	ManagerID                    string
	InterestRate                 float64
	MonthlyPayment               decimal.Decimal
	OfferCreated                 bool
	OfferSent                    bool
	Version                      int
	CreatedAt                    time.Time
	UpdatedAt                    time.Time
	DecidedAt                    *time.Time
}

// ReconstructApplication rebuilds an aggregate from persistence without side-effects.
func ReconstructApplication(s ApplicationSnapshot) Application {
	return Application{
		id:                           s.ID,
		applicantID:                  s.ApplicantID,
		loanType:                     s.LoanType,
		loanSubtype:                  s.LoanSubtype,
		requestedAmount:              s.RequestedAmount,
		repaymentAmount:              s.RepaymentAmount,
		termYears:                    s.TermYears,
		status:                       s.Status,
		decision:                     s.Decision,
		reason:                       s.Reason,
		dscr:                         s.DSCR,
		ccr:                          s.CCR,
		creditScore:                  s.CreditScore,
		needsManagerApproval:         s.NeedsManagerApproval,
		requiresAdditionalCollateral: s.RequiresAdditionalCollateral,
		managerApproval:              s.ManagerApproval,
		approvalNote:                 s.ApprovalNote,
		handledBy:                    s.HandledBy,
		managerID:                    s.ManagerID,
		interestRate:                 s.InterestRate,
		monthlyPayment:               s.MonthlyPayment,
		offerCreated:                 s.OfferCreated,
		offerSent:                    s.OfferSent,
		version:                      s.Version,
		createdAt:                    s.CreatedAt,
		updatedAt:                    s.UpdatedAt,
		decidedAt:                    s.DecidedAt,
	}
}

// ---------------------------------------------------------------------------
// State transitions (each returns a new copy)
// ---------------------------------------------------------------------------

// Claim records the staff member now processing the application.
func (a Application) Claim(actorID string, now time.Time) (Application, error) {
	if err := a.requireInProcessing("claim"); err != nil {
		return a, err
	}
	next := a.advance(now)
	next.handledBy = actorID
	next.decision = valueobject.DecisionPending
	next.domainEvents = append(next.domainEvents, event.NewApplicationClaimed(a.id, actorID, now))
	return next, nil
}

// Escalate routes the application to the managers and records actorID as the
// handling employee. The second return value is false when the application
// was already escalated. The flag is then left alone, and only a different
// handler produces a new version.
func (a Application) Escalate(actorID string, now time.Time) (Application, bool, error) {
	if err := a.requireInProcessing("escalate"); err != nil {
		return a, false, err
	}
	if a.needsManagerApproval {
		if a.handledBy == actorID {
			return a, false, nil
		}
		next := a.advance(now)
		next.handledBy = actorID
		next.decision = valueobject.DecisionPending
		next.domainEvents = append(next.domainEvents, event.NewApplicationClaimed(a.id, actorID, now))
		return next, false, nil
	}
	next := a.advance(now)
	next.needsManagerApproval = true
	next.handledBy = actorID
	next.decision = valueobject.DecisionPending
	next.domainEvents = append(next.domainEvents, event.NewApplicationEscalated(a.id, actorID, now))
	return next, true, nil
}

// EmployeeDecide finalises the application on an employee's authority.
// Escalated applications without a manager verdict cannot be decided here.
func (a Application) EmployeeDecide(accept bool, actorID string, now time.Time) (Application, error) {
	if a.AwaitingManager() {
		return a, apperr.State("application %s awaits a manager decision", a.id)
	}
	if err := a.requireInProcessing("decide"); err != nil {
		return a, err
	}
	next := a.advance(now)
	next.handledBy = actorID
	if accept {
		next.approve(actorID, now)
	} else {
		next.reject(actorID, "rejected by employee", now)
	}
	return next, nil
}

// ManagerDecide records the manager verdict on an escalated application. The
// verdict and note are immutable once recorded.
func (a Application) ManagerDecide(approve bool, actorID, note string, now time.Time) (Application, error) {
	if !a.needsManagerApproval {
		return a, apperr.State("application %s was not escalated", a.id)
	}
	if a.managerApproval.IsSet() {
		return a, apperr.State("application %s already has a manager decision", a.id)
	}
	if err := a.requireInProcessing("record a manager decision on"); err != nil {
		return a, err
	}

	next := a.advance(now)
	next.managerID = actorID
	next.approvalNote = note
	next.domainEvents = append(next.domainEvents, event.NewManagerDecisionRecorded(a.id, actorID, approve, note, now))
	if approve {
		next.managerApproval = valueobject.ManagerApprovalApproved
		next.approve(actorID, now)
	} else {
		next.managerApproval = valueobject.ManagerApprovalRejected
		reason := "not approved by manager"
		if note != "" {
			reason = "manager decision: " + note
		}
		next.reject(actorID, reason, now)
	}
	return next, nil
}

// CreateOffer attaches loan terms to an approved application, once.
func (a Application) CreateOffer(interestRate float64, now time.Time) (Application, error) {
	if interestRate < 0 {
		return a, apperr.Validation("interest rate must not be negative")
	}
	if !a.decision.Equal(valueobject.DecisionApproved) {
		return a, apperr.State("offers can only be created for approved applications")
	}
	if a.offerCreated {
		return a, apperr.State("application %s already has an offer", a.id)
	}
	next := a.advance(now)
	next.interestRate = interestRate
	next.monthlyPayment = RatioCalculator{}.RoundedMonthlyPayment(a.requestedAmount, interestRate, a.termYears)
	next.offerCreated = true
	next.domainEvents = append(next.domainEvents, event.NewLoanOfferCreated(
		a.id, interestRate, next.monthlyPayment, a.termYears, now,
	))
	return next, nil
}

// MarkOfferSent records that the offer reached the customer.
func (a Application) MarkOfferSent(now time.Time) (Application, error) {
	if !a.offerCreated {
		return a, apperr.State("application %s has no offer", a.id)
	}
	if a.offerSent {
		return a, nil
	}
	next := a.advance(now)
	next.offerSent = true
	return next, nil
}

// ---------------------------------------------------------------------------
// Queries
// ---------------------------------------------------------------------------

// AwaitingManager reports whether the application is escalated and still
// waiting for the manager verdict.
func (a Application) AwaitingManager() bool {
	return a.needsManagerApproval && !a.managerApproval.IsSet()
}

// NeedsCollateralReview reports whether an acceptance must go through the
// managers because collateral is short.
func (a Application) NeedsCollateralReview() bool {
	return a.requiresAdditionalCollateral && !a.needsManagerApproval
}

// ---------------------------------------------------------------------------
// Accessors
// ---------------------------------------------------------------------------

func (a Application) ID() string { return a.id }
func (a Application) ApplicantID() string { return a.applicantID }
func (a Application) LoanType() valueobject.LoanType { return a.loanType }
func (a Application) LoanSubtype() valueobject.LoanSubtype { return a.loanSubtype }
func (a Application) RequestedAmount() decimal.Decimal { return a.requestedAmount }
func (a Application) RepaymentAmount() decimal.Decimal { return a.repaymentAmount }
func (a Application) TermYears() int { return a.termYears }
func (a Application) Status() valueobject.ApplicationStatus { return a.status }
func (a Application) Decision() valueobject.Decision { return a.decision }
func (a Application) Reason() string { return a.reason }
func (a Application) DSCR() float64 { return a.dscr }
func (a Application) CCR() float64 { return a.ccr }
func (a Application) CreditScore() int { return a.creditScore }
func (a Application) NeedsManagerApproval() bool { return a.needsManagerApproval }
func (a Application) RequiresAdditionalCollateral() bool { return a.requiresAdditionalCollateral }
func (a Application) ManagerApproval() valueobject.ManagerApproval { return a.managerApproval }
func (a Application) ApprovalNote() string { return a.approvalNote }
func (a Application) HandledBy() string { return a.handledBy }
func (a Application) ManagerID() string { return a.managerID }
func (a Application) InterestRate() float64 { return a.interestRate }
func (a Application) MonthlyPayment() decimal.Decimal { return a.monthlyPayment }
func (a Application) OfferCreated() bool { return a.offerCreated }
func (a Application) OfferSent() bool { return a.offerSent }
func (a Application) Version() int { return a.version }
func (a Application) CreatedAt() time.Time { return a.createdAt }
func (a Application) UpdatedAt() time.Time { return a.updatedAt }
func (a Application) DecidedAt() *time.Time { return a.decidedAt }
func (a Application) DomainEvents() []event.DomainEvent { return a.domainEvents }

// ClearEvents returns a copy with an empty event list (call after publishing).
func (a Application) ClearEvents() Application {
	next := a
	next.domainEvents = nil
	return next
}

// ---------------------------------------------------------------------------
// helpers
// ---------------------------------------------------------------------------

func (a Application) requireInProcessing(verb string) error {
	if !a.status.Equal(valueobject.ApplicationStatusInProcessing) {
		return apperr.State("cannot %s application %s in status %s", verb, a.id, a.status)
	}
	return nil
}

// advance starts a transition: a copy with its own event slice, a bumped
// version and a fresh timestamp.
func (a Application) advance(now time.Time) Application {
	next := a
	next.version = a.version + 1
	next.updatedAt = now
	next.domainEvents = copyEvents(a.domainEvents)
	return next
}

func (a *Application) approve(actorID string, now time.Time) {
	a.status = valueobject.ApplicationStatusApproved
	a.decision = valueobject.DecisionApproved
	a.monthlyPayment = RatioCalculator{}.RoundedMonthlyPayment(a.requestedAmount, a.interestRate, a.termYears)
	decided := now
	a.decidedAt = &decided
	a.domainEvents = append(a.domainEvents, event.NewApplicationApproved(a.id, actorID, a.monthlyPayment, now))
}

func (a *Application) reject(actorID, reason string, now time.Time) {
	a.status = valueobject.ApplicationStatusRejected
	a.decision = valueobject.DecisionRejected
	a.reason = reason
	decided := now
	a.decidedAt = &decided
	a.domainEvents = append(a.domainEvents, event.NewApplicationRejected(a.id, actorID, reason, now))
}

func copyEvents(src []event.DomainEvent) []event.DomainEvent {
	if len(src) == 0 {
		return nil
	}
	dst := make([]event.DomainEvent, len(src))
	copy(dst, src)
	return dst
}
