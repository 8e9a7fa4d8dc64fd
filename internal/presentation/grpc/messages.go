package grpc

import "github.com/mustafa-shahin/lf10-project/internal/application/dto"

// Request messages. The acting person always comes from the token, never
// from the message. RegisterPerson and Login are the only calls without one.

type SubmitApplicationRequest struct {
	LoanType             string  `json:"loan_type"`
	LoanSubtype          string  `json:"loan_subtype"`
	RequestedAmount      string  `json:"requested_amount"`
	RepaymentAmount      string  `json:"repayment_amount"`
	TermYears            int32   `json:"term_years"`
	AvailableIncome      float64 `json:"available_income"`
	ExistingMonthlyDebt  float64 `json:"existing_monthly_debt"`
	CollateralValue      float64 `json:"collateral_value"`
	TotalOutstandingDebt float64 `json:"total_outstanding_debt"`
}

type ApplicationIDRequest struct {
	ApplicationID string `json:"application_id"`
}

type ListApplicationsRequest struct {
	Status string `json:"status"`
	Limit  int32  `json:"limit"`
	Offset int32  `json:"offset"`
}

type EmployeeDecisionRequest struct {
	ApplicationID string `json:"application_id"`
	Accept        bool   `json:"accept"`
}

type ManagerDecisionRequest struct {
	ApplicationID string `json:"application_id"`
	Approve       bool   `json:"approve"`
	Note          string `json:"note"`
}

// CreateOfferRequest uses the configured default rate when InterestRate is
// absent.
type CreateOfferRequest struct {
	ApplicationID string   `json:"application_id"`
	InterestRate  *float64 `json:"interest_rate,omitempty"`
}

type RepaymentPlanRequest struct {
	Amount       string  `json:"amount"`
	InterestRate float64 `json:"interest_rate"`
	TermYears    int32   `json:"term_years"`
	// StartDate is YYYY-MM-DD; empty means today.
	StartDate string `json:"start_date"`
}

type ChangeRoleRequest struct {
	PersonID string `json:"person_id"`
	Role     string `json:"role"`
}

type ListNotificationsRequest struct {
	UnreadOnly bool `json:"unread_only"`
}

type NotificationIDRequest struct {
	NotificationID string `json:"notification_id"`
}

type RegisterPersonRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Response messages reuse the application DTOs where the shapes match.

type ListNotificationsResponse struct {
	Notifications []dto.NotificationResponse `json:"notifications"`
	Unread        int32                      `json:"unread"`
}

type MarkNotificationReadResponse struct {
	Updated bool `json:"updated"`
}
