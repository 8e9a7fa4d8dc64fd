package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ---------------------------------------------------------------------------
// Request DTOs
// ---------------------------------------------------------------------------

// SubmitApplicationRequest carries a customer's loan request and the figures
// used for the coverage ratios of building loans.
type SubmitApplicationRequest struct {
	ActorID              string          `json:"actor_id" validate:"required"`
	LoanType             string          `json:"loan_type" validate:"required,max=32"`
	LoanSubtype          string          `json:"loan_subtype" validate:"omitempty,oneof=installment bullet annuity"`
	RequestedAmount      decimal.Decimal `json:"requested_amount"`
	RepaymentAmount      decimal.Decimal `json:"repayment_amount"`
	TermYears            int             `json:"term_years" validate:"gte=0,lte=50"`
	AvailableIncome      float64         `json:"available_income" validate:"gte=0"`
	ExistingMonthlyDebt  float64         `json:"existing_monthly_debt" validate:"gte=0"`
	CollateralValue      float64         `json:"collateral_value" validate:"gte=0"`
	TotalOutstandingDebt float64         `json:"total_outstanding_debt" validate:"gte=0"`
}

// EmployeeDecisionRequest accepts or rejects an application.
type EmployeeDecisionRequest struct {
	ActorID       string `json:"actor_id" validate:"required"`
	ApplicationID string `json:"application_id" validate:"required"`
	Accept        bool   `json:"accept"`
}

// ManagerDecisionRequest records a manager verdict on an escalated application.
type ManagerDecisionRequest struct {
	ActorID       string `json:"actor_id" validate:"required"`
	ApplicationID string `json:"application_id" validate:"required"`
	Approve       bool   `json:"approve"`
	Note          string `json:"note" validate:"max=2000"`
}

// ApplicationActionRequest identifies an application and the person acting on it.
type ApplicationActionRequest struct {
	ActorID       string `json:"actor_id" validate:"required"`
	ApplicationID string `json:"application_id" validate:"required"`
}

// CreateOfferRequest attaches loan terms to an approved application.
type CreateOfferRequest struct {
	ActorID       string  `json:"actor_id" validate:"required"`
	ApplicationID string  `json:"application_id" validate:"required"`
	InterestRate  float64 `json:"interest_rate"`
}

// ListApplicationsRequest filters the application list.
type ListApplicationsRequest struct {
	ActorID string `json:"actor_id" validate:"required"`
	Status  string `json:"status" validate:"omitempty,oneof=in-processing approved rejected"`
	Limit   int    `json:"limit" validate:"gte=0,lte=500"`
	Offset  int    `json:"offset" validate:"gte=0"`
}

// RepaymentPlanRequest asks for the payment schedule of a hypothetical loan.
type RepaymentPlanRequest struct {
	Amount       decimal.Decimal `json:"amount"`
	InterestRate float64         `json:"interest_rate" validate:"gte=0,lte=100"`
	TermYears    int             `json:"term_years" validate:"gt=0,lte=50"`
	StartDate    time.Time       `json:"start_date"`
}

// ChangeRoleRequest assigns a new role to a person.
type ChangeRoleRequest struct {
	ActorID  string `json:"actor_id" validate:"required"`
	PersonID string `json:"person_id" validate:"required"`
	Role     string `json:"role" validate:"required,oneof=customer employee manager admin director"`
}

// RegisterRequest opens an account with a password.
type RegisterRequest struct {
	FirstName string `json:"first_name" validate:"required,max=100"`
	LastName  string `json:"last_name" validate:"required,max=100"`
	Email     string `json:"email" validate:"required,email,max=254"`
	Password  string `json:"password" validate:"required,min=8,max=72"`
}

// LoginRequest exchanges credentials for an access token.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// ---------------------------------------------------------------------------
// Response DTOs
// ---------------------------------------------------------------------------

// ApplicationResponse is the external representation of a loan application.
type ApplicationResponse struct {
	ID                           string          `json:"id"`
	ApplicantID                  string          `json:"applicant_id"`
	LoanType                     string          `json:"loan_type"`
	LoanSubtype                  string          `json:"loan_subtype,omitempty"`
	RequestedAmount              decimal.Decimal `json:"requested_amount"`
	RepaymentAmount              decimal.Decimal `json:"repayment_amount"`
	TermYears                    int             `json:"term_years"`
	Status                       string          `json:"status"`
	Decision                     string          `json:"decision"`
	Reason                       string          `json:"reason,omitempty"`
	DSCR                         Ratio           `json:"dscr"`
	CCR                          Ratio           `json:"ccr"`
	CreditScore                  int             `json:"credit_score"`
	NeedsManagerApproval         bool            `json:"needs_manager_approval"`
	RequiresAdditionalCollateral bool            `json:"requires_additional_collateral"`
	ManagerApproved              *bool           `json:"manager_approved"`
	ApprovalNote                 string          `json:"approval_note,omitempty"`
	HandledBy                    string          `json:"handled_by,omitempty"`
	ManagerID                    string          `json:"manager_id,omitempty"`
	InterestRate                 float64         `json:"interest_rate"`
	MonthlyPayment               decimal.Decimal `json:"monthly_payment"`
	OfferCreated                 bool            `json:"offer_created"`
	OfferSent                    bool            `json:"offer_sent"`
	Version                      int             `json:"version"`
	CreatedAt                    time.Time       `json:"created_at"`
	UpdatedAt                    time.Time       `json:"updated_at"`
	DecidedAt                    *time.Time      `json:"decided_at,omitempty"`
}

// SubmitApplicationResponse reports the outcome of a submission. Invalid loan
// parameters come back as Rejected with a reason instead of an error.
type SubmitApplicationResponse struct {
	Application *ApplicationResponse `json:"application,omitempty"`
	Rejected    bool                 `json:"rejected"`
	Reason      string               `json:"reason,omitempty"`
}

// ListApplicationsResponse wraps a page of applications.
type ListApplicationsResponse struct {
	Applications []ApplicationResponse `json:"applications"`
}

// AmortizationEntryResponse represents a single amortization schedule entry.
type AmortizationEntryResponse struct {
	Period           int             `json:"period"`
	DueDate          time.Time       `json:"due_date"`
	Payment          decimal.Decimal `json:"payment"`
	Principal        decimal.Decimal `json:"principal"`
	Interest         decimal.Decimal `json:"interest"`
	RemainingBalance decimal.Decimal `json:"remaining_balance"`
}

// RepaymentPlanResponse is the output of the loan calculator.
type RepaymentPlanResponse struct {
	MonthlyPayment decimal.Decimal             `json:"monthly_payment"`
	TotalPayments  decimal.Decimal             `json:"total_payments"`
	TotalInterest  decimal.Decimal             `json:"total_interest"`
	Schedule       []AmortizationEntryResponse `json:"schedule"`
}

// PersonResponse is the external representation of a person.
type PersonResponse struct {
	ID        string `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Role      string `json:"role"`
}

// AuthResponse carries the bearer token issued on registration or login.
type AuthResponse struct {
	Token  string         `json:"token"`
	Person PersonResponse `json:"person"`
}

// NotificationResponse is the external representation of a notification.
type NotificationResponse struct {
	ID            string    `json:"id"`
	SenderID      string    `json:"sender_id,omitempty"`
	ApplicationID string    `json:"application_id"`
	Message       string    `json:"message"`
	Type          string    `json:"type"`
	Read          bool      `json:"read"`
	CreatedAt     time.Time `json:"created_at"`
}
