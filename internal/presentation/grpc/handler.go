package grpc

import (
	"context"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/mustafa-shahin/lf10-project/internal/application/dto"
	"github.com/mustafa-shahin/lf10-project/internal/application/usecase"
	"github.com/mustafa-shahin/lf10-project/internal/domain/apperr"
	"github.com/mustafa-shahin/lf10-project/pkg/auth"
)

// actorFromContext returns the authenticated person id.
func actorFromContext(ctx context.Context) (string, error) {
	claims, ok := auth.ClaimsFromContext(ctx)
	if !ok {
		return "", status.Error(codes.Unauthenticated, "authentication required")
	}
	return claims.PersonID, nil
}

// parseAmount accepts an empty string as zero.
func parseAmount(field, raw string) (decimal.Decimal, error) {
	if raw == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Decimal{}, status.Errorf(codes.InvalidArgument, "invalid %s: %v", field, err)
	}
	return d, nil
}

// Compile-time assertion that WorkflowHandler implements LoanWorkflowServiceServer.
var _ LoanWorkflowServiceServer = (*WorkflowHandler)(nil)

// WorkflowHandler implements the gRPC LoanWorkflowService server.
type WorkflowHandler struct {
	UnimplementedLoanWorkflowServiceServer
	uc     usecase.Set
	logger *slog.Logger
}

func NewWorkflowHandler(uc usecase.Set, logger *slog.Logger) *WorkflowHandler {
	return &WorkflowHandler{uc: uc, logger: logger}
}

func (h *WorkflowHandler) SubmitApplication(ctx context.Context, req *SubmitApplicationRequest) (*dto.SubmitApplicationResponse, error) {
	actorID, err := actorFromContext(ctx)
	if err != nil {
		return nil, err
	}
	requested, err := parseAmount("requested_amount", req.RequestedAmount)
	if err != nil {
		return nil, err
	}
	repayment, err := parseAmount("repayment_amount", req.RepaymentAmount)
	if err != nil {
		return nil, err
	}

	resp, err := h.uc.Submit.Execute(ctx, dto.SubmitApplicationRequest{
		ActorID:              actorID,
		LoanType:             req.LoanType,
		LoanSubtype:          req.LoanSubtype,
		RequestedAmount:      requested,
		RepaymentAmount:      repayment,
		TermYears:            int(req.TermYears),
		AvailableIncome:      req.AvailableIncome,
		ExistingMonthlyDebt:  req.ExistingMonthlyDebt,
		CollateralValue:      req.CollateralValue,
		TotalOutstandingDebt: req.TotalOutstandingDebt,
	})
	if err != nil {
		return nil, toStatus(ctx, h.logger, "SubmitApplication", err)
	}
	return &resp, nil
}

func (h *WorkflowHandler) GetApplication(ctx context.Context, req *ApplicationIDRequest) (*dto.ApplicationResponse, error) {
	return h.applicationAction(ctx, "GetApplication", h.uc.Get, req)
}

func (h *WorkflowHandler) ListApplications(ctx context.Context, req *ListApplicationsRequest) (*dto.ListApplicationsResponse, error) {
	actorID, err := actorFromContext(ctx)
	if err != nil {
		return nil, err
	}
	resp, err := h.uc.List.Execute(ctx, dto.ListApplicationsRequest{
		ActorID: actorID,
		Status:  req.Status,
		Limit:   int(req.Limit),
		Offset:  int(req.Offset),
	})
	if err != nil {
		return nil, toStatus(ctx, h.logger, "ListApplications", err)
	}
	return &resp, nil
}

func (h *WorkflowHandler) EmployeeDecide(ctx context.Context, req *EmployeeDecisionRequest) (*dto.ApplicationResponse, error) {
	actorID, err := actorFromContext(ctx)
	if err != nil {
		return nil, err
	}
	resp, err := h.uc.EmployeeDecide.Execute(ctx, dto.EmployeeDecisionRequest{
		ActorID:       actorID,
		ApplicationID: req.ApplicationID,
		Accept:        req.Accept,
	})
	if err != nil {
		return nil, toStatus(ctx, h.logger, "EmployeeDecide", err)
	}
	return &resp, nil
}

func (h *WorkflowHandler) EscalateApplication(ctx context.Context, req *ApplicationIDRequest) (*dto.ApplicationResponse, error) {
	return h.applicationAction(ctx, "EscalateApplication", h.uc.Escalate, req)
}

func (h *WorkflowHandler) ManagerDecide(ctx context.Context, req *ManagerDecisionRequest) (*dto.ApplicationResponse, error) {
	actorID, err := actorFromContext(ctx)
	if err != nil {
		return nil, err
	}
	resp, err := h.uc.ManagerDecide.Execute(ctx, dto.ManagerDecisionRequest{
		ActorID:       actorID,
		ApplicationID: req.ApplicationID,
		Approve:       req.Approve,
		Note:          req.Note,
	})
	if err != nil {
		return nil, toStatus(ctx, h.logger, "ManagerDecide", err)
	}
	return &resp, nil
}

func (h *WorkflowHandler) ProcessApplication(ctx context.Context, req *ApplicationIDRequest) (*dto.ApplicationResponse, error) {
	return h.applicationAction(ctx, "ProcessApplication", h.uc.Process, req)
}

func (h *WorkflowHandler) CreateOffer(ctx context.Context, req *CreateOfferRequest) (*dto.ApplicationResponse, error) {
	actorID, err := actorFromContext(ctx)
	if err != nil {
		return nil, err
	}
	rate := h.uc.DefaultInterestRate
	if req.InterestRate != nil {
		rate = *req.InterestRate
	}
	resp, err := h.uc.CreateOffer.Execute(ctx, dto.CreateOfferRequest{
		ActorID:       actorID,
		ApplicationID: req.ApplicationID,
		InterestRate:  rate,
	})
	if err != nil {
		return nil, toStatus(ctx, h.logger, "CreateOffer", err)
	}
	return &resp, nil
}

func (h *WorkflowHandler) GetRepaymentPlan(ctx context.Context, req *RepaymentPlanRequest) (*dto.RepaymentPlanResponse, error) {
	if _, err := actorFromContext(ctx); err != nil {
		return nil, err
	}
	amount, err := parseAmount("amount", req.Amount)
	if err != nil {
		return nil, err
	}
	var start time.Time
	if req.StartDate != "" {
		start, err = time.Parse(time.DateOnly, req.StartDate)
		if err != nil {
			return nil, status.Errorf(codes.InvalidArgument, "invalid start_date: %v", err)
		}
	}
	resp, err := h.uc.RepaymentPlan.Execute(ctx, dto.RepaymentPlanRequest{
		Amount:       amount,
		InterestRate: req.InterestRate,
		TermYears:    int(req.TermYears),
		StartDate:    start,
	})
	if err != nil {
		return nil, toStatus(ctx, h.logger, "GetRepaymentPlan", err)
	}
	return &resp, nil
}

func (h *WorkflowHandler) ChangePersonRole(ctx context.Context, req *ChangeRoleRequest) (*dto.PersonResponse, error) {
	actorID, err := actorFromContext(ctx)
	if err != nil {
		return nil, err
	}
	resp, err := h.uc.ChangeRole.Execute(ctx, dto.ChangeRoleRequest{
		ActorID:  actorID,
		PersonID: req.PersonID,
		Role:     req.Role,
	})
	if err != nil {
		return nil, toStatus(ctx, h.logger, "ChangePersonRole", err)
	}
	return &resp, nil
}

func (h *WorkflowHandler) ListNotifications(ctx context.Context, req *ListNotificationsRequest) (*ListNotificationsResponse, error) {
	actorID, err := actorFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if h.uc.Notifications == nil {
		return nil, status.Error(codes.Unavailable, "notifications are not configured")
	}
	list, err := h.uc.Notifications.ListForUser(ctx, actorID, req.UnreadOnly)
	if err != nil {
		return nil, toStatus(ctx, h.logger, "ListNotifications", err)
	}
	unread, err := h.uc.Notifications.UnreadCount(ctx, actorID)
	if err != nil {
		return nil, toStatus(ctx, h.logger, "ListNotifications", err)
	}
	return &ListNotificationsResponse{
		Notifications: usecase.ToNotificationResponses(list),
		Unread:        int32(unread),
	}, nil
}

func (h *WorkflowHandler) MarkNotificationRead(ctx context.Context, req *NotificationIDRequest) (*MarkNotificationReadResponse, error) {
	actorID, err := actorFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if h.uc.Notifications == nil {
		return nil, status.Error(codes.Unavailable, "notifications are not configured")
	}
	if req.NotificationID == "" {
		return nil, status.Error(codes.InvalidArgument, "notification_id is required")
	}
	ok, err := h.uc.Notifications.MarkAsRead(ctx, req.NotificationID, actorID)
	if err != nil {
		return nil, toStatus(ctx, h.logger, "MarkNotificationRead", err)
	}
	return &MarkNotificationReadResponse{Updated: ok}, nil
}

func (h *WorkflowHandler) applicationAction(
	ctx context.Context,
	method string,
	exec usecase.Executor[dto.ApplicationActionRequest, dto.ApplicationResponse],
	req *ApplicationIDRequest,
) (*dto.ApplicationResponse, error) {
	actorID, err := actorFromContext(ctx)
	if err != nil {
		return nil, err
	}
	resp, err := exec.Execute(ctx, dto.ApplicationActionRequest{
		ActorID:       actorID,
		ApplicationID: req.ApplicationID,
	})
	if err != nil {
		return nil, toStatus(ctx, h.logger, method, err)
	}
	return &resp, nil
}

func (h *WorkflowHandler) RegisterPerson(ctx context.Context, req *RegisterPersonRequest) (*dto.AuthResponse, error) {
	resp, err := h.uc.Register.Execute(ctx, dto.RegisterRequest{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  req.Password,
	})
	if err != nil {
		return nil, toStatus(ctx, h.logger, "RegisterPerson", err)
	}
	return &resp, nil
}

func (h *WorkflowHandler) Login(ctx context.Context, req *LoginRequest) (*dto.AuthResponse, error) {
	resp, err := h.uc.Login.Execute(ctx, dto.LoginRequest{Email: req.Email, Password: req.Password})
	if err != nil {
		if apperr.IsAuthorization(err) {
			return nil, status.Error(codes.Unauthenticated, err.Error())
		}
		return nil, toStatus(ctx, h.logger, "Login", err)
	}
	return &resp, nil
}
