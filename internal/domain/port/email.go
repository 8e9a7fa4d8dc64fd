package port

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// LoanStatusEmail tells a customer the outcome of an application.
type LoanStatusEmail struct {
	To            string
	Name          string
	ApplicationID string
	Date          time.Time
	LoanType      string
	Status        string
	Reason        string
}

// LoanOfferEmail carries the terms of an offer.
type LoanOfferEmail struct {
	To             string
	Name           string
	ApplicationID  string
	LoanType       string
	Amount         decimal.Decimal
	InterestRate   float64
	MonthlyPayment decimal.Decimal
	TermYears      int
}

// ManagerApprovalEmail asks a manager to decide an escalated application.
type ManagerApprovalEmail struct {
	To            string
	ManagerName   string
	RequesterName string
	ApplicationID string
	LoanType      string
	Amount        decimal.Decimal
	CreditScore   int
}

// LoanProcessingEmail tells a customer that a staff member picked up the application.
type LoanProcessingEmail struct {
	To            string
	Name          string
	ApplicationID string
	LoanType      string
	HandlerName   string
}

// EmailNotifier delivers outward messages. Callers treat every failure as
// non-fatal.
type EmailNotifier interface {
	SendLoanStatusEmail(ctx context.Context, msg LoanStatusEmail) error
	SendLoanOfferEmail(ctx context.Context, msg LoanOfferEmail) error
	SendManagerApprovalNeededEmail(ctx context.Context, msg ManagerApprovalEmail) error
	SendLoanProcessingEmail(ctx context.Context, msg LoanProcessingEmail) error
}
