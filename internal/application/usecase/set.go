package usecase

import (
	"context"
	"time"

	"github.com/mustafa-shahin/lf10-project/internal/application/dto"
	"github.com/mustafa-shahin/lf10-project/internal/domain/model"
	"github.com/mustafa-shahin/lf10-project/internal/domain/port"
	"github.com/mustafa-shahin/lf10-project/internal/domain/service"
)

// Executor is the shape shared by every use case.
type Executor[Req, Resp any] interface {
	Execute(ctx context.Context, req Req) (Resp, error)
}

// ExecutorFunc adapts a function to Executor.
type ExecutorFunc[Req, Resp any] func(ctx context.Context, req Req) (Resp, error)

func (f ExecutorFunc[Req, Resp]) Execute(ctx context.Context, req Req) (Resp, error) {
	return f(ctx, req)
}

// NotificationService is the part of the notification dispatcher the
// transports expose.
type NotificationService interface {
	ListForUser(ctx context.Context, actorID string, unreadOnly bool) ([]model.Notification, error)
	UnreadCount(ctx context.Context, actorID string) (int, error)
	MarkAsRead(ctx context.Context, notificationID, actorID string) (bool, error)
	MarkAllAsRead(ctx context.Context, actorID string) (int, error)
	Delete(ctx context.Context, notificationID, actorID string) (bool, error)
}

// Set is every operation the transports serve.
type Set struct {
	Submit         Executor[dto.SubmitApplicationRequest, dto.SubmitApplicationResponse]
	Get            Executor[dto.ApplicationActionRequest, dto.ApplicationResponse]
	List           Executor[dto.ListApplicationsRequest, dto.ListApplicationsResponse]
	EmployeeDecide Executor[dto.EmployeeDecisionRequest, dto.ApplicationResponse]
	Escalate       Executor[dto.ApplicationActionRequest, dto.ApplicationResponse]
	ManagerDecide  Executor[dto.ManagerDecisionRequest, dto.ApplicationResponse]
	Process        Executor[dto.ApplicationActionRequest, dto.ApplicationResponse]
	CreateOffer    Executor[dto.CreateOfferRequest, dto.ApplicationResponse]
	RepaymentPlan  Executor[dto.RepaymentPlanRequest, dto.RepaymentPlanResponse]
	ChangeRole     Executor[dto.ChangeRoleRequest, dto.PersonResponse]
	Register       Executor[dto.RegisterRequest, dto.AuthResponse]
	Login          Executor[dto.LoginRequest, dto.AuthResponse]
	Notifications  NotificationService
	// DefaultInterestRate is applied to offers created without a rate.
	DefaultInterestRate float64
}

// NewSet builds every use case over the same dependencies.
func NewSet(
	deps Dependencies,
	scores port.CreditScoreProvider,
	underwriter *service.UnderwritingEngine,
	defaultRate float64,
) Set {
	clock := deps.Clock
	if clock == nil {
		clock = func() time.Time { return time.Now().UTC() }
	}
	s := Set{
		Submit:              NewSubmitApplicationUseCase(deps, scores, underwriter, defaultRate),
		Get:                 NewGetApplicationUseCase(deps),
		List:                NewListApplicationsUseCase(deps),
		EmployeeDecide:      NewEmployeeDecideUseCase(deps),
		Escalate:            NewEscalateApplicationUseCase(deps),
		ManagerDecide:       NewManagerDecideUseCase(deps),
		Process:             NewProcessApplicationUseCase(deps),
		CreateOffer:         NewCreateOfferUseCase(deps),
		RepaymentPlan:       NewGetRepaymentPlanUseCase(clock),
		ChangeRole:          NewChangePersonRoleUseCase(deps),
		Register:            NewRegisterPersonUseCase(deps),
		Login:               NewLoginUseCase(deps),
		DefaultInterestRate: defaultRate,
	}
	if deps.Dispatcher != nil {
		s.Notifications = deps.Dispatcher
	}
	return s
}
