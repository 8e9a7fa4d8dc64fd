package grpc

// proto.go is the hand-written equivalent of the generated service stubs for
// loanflow.v1.LoanWorkflowService.

import (
	"context"

	grpclib "google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/mustafa-shahin/lf10-project/internal/application/dto"
)

const serviceName = "loanflow.v1.LoanWorkflowService"

// PublicMethods are served without a bearer token.
var PublicMethods = []string{
	"/" + serviceName + "/RegisterPerson",
	"/" + serviceName + "/Login",
	"/grpc.health.v1.Health/Check",
	"/grpc.health.v1.Health/Watch",
}

// LoanWorkflowServiceServer is the server API for LoanWorkflowService.
type LoanWorkflowServiceServer interface {
	SubmitApplication(context.Context, *SubmitApplicationRequest) (*dto.SubmitApplicationResponse, error)
	GetApplication(context.Context, *ApplicationIDRequest) (*dto.ApplicationResponse, error)
	ListApplications(context.Context, *ListApplicationsRequest) (*dto.ListApplicationsResponse, error)
	EmployeeDecide(context.Context, *EmployeeDecisionRequest) (*dto.ApplicationResponse, error)
	EscalateApplication(context.Context, *ApplicationIDRequest) (*dto.ApplicationResponse, error)
	ManagerDecide(context.Context, *ManagerDecisionRequest) (*dto.ApplicationResponse, error)
	ProcessApplication(context.Context, *ApplicationIDRequest) (*dto.ApplicationResponse, error)
	CreateOffer(context.Context, *CreateOfferRequest) (*dto.ApplicationResponse, error)
	GetRepaymentPlan(context.Context, *RepaymentPlanRequest) (*dto.RepaymentPlanResponse, error)
	ChangePersonRole(context.Context, *ChangeRoleRequest) (*dto.PersonResponse, error)
	ListNotifications(context.Context, *ListNotificationsRequest) (*ListNotificationsResponse, error)
	MarkNotificationRead(context.Context, *NotificationIDRequest) (*MarkNotificationReadResponse, error)
	RegisterPerson(context.Context, *RegisterPersonRequest) (*dto.AuthResponse, error)
	Login(context.Context, *LoginRequest) (*dto.AuthResponse, error)
	mustEmbedUnimplementedLoanWorkflowServiceServer()
}

// UnimplementedLoanWorkflowServiceServer provides forward-compatible default implementations.
type UnimplementedLoanWorkflowServiceServer struct{}

func (UnimplementedLoanWorkflowServiceServer) SubmitApplication(context.Context, *SubmitApplicationRequest) (*dto.SubmitApplicationResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method SubmitApplication not implemented")
}
func (UnimplementedLoanWorkflowServiceServer) GetApplication(context.Context, *ApplicationIDRequest) (*dto.ApplicationResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method GetApplication not implemented")
}
func (UnimplementedLoanWorkflowServiceServer) ListApplications(context.Context, *ListApplicationsRequest) (*dto.ListApplicationsResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ListApplications not implemented")
}
func (UnimplementedLoanWorkflowServiceServer) EmployeeDecide(context.Context, *EmployeeDecisionRequest) (*dto.ApplicationResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method EmployeeDecide not implemented")
}
func (UnimplementedLoanWorkflowServiceServer) EscalateApplication(context.Context, *ApplicationIDRequest) (*dto.ApplicationResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method EscalateApplication not implemented")
}
func (UnimplementedLoanWorkflowServiceServer) ManagerDecide(context.Context, *ManagerDecisionRequest) (*dto.ApplicationResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ManagerDecide not implemented")
}
func (UnimplementedLoanWorkflowServiceServer) ProcessApplication(context.Context, *ApplicationIDRequest) (*dto.ApplicationResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ProcessApplication not implemented")
}
func (UnimplementedLoanWorkflowServiceServer) CreateOffer(context.Context, *CreateOfferRequest) (*dto.ApplicationResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method CreateOffer not implemented")
}
func (UnimplementedLoanWorkflowServiceServer) GetRepaymentPlan(context.Context, *RepaymentPlanRequest) (*dto.RepaymentPlanResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method GetRepaymentPlan not implemented")
}
func (UnimplementedLoanWorkflowServiceServer) ChangePersonRole(context.Context, *ChangeRoleRequest) (*dto.PersonResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ChangePersonRole not implemented")
}
func (UnimplementedLoanWorkflowServiceServer) ListNotifications(context.Context, *ListNotificationsRequest) (*ListNotificationsResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ListNotifications not implemented")
}
func (UnimplementedLoanWorkflowServiceServer) MarkNotificationRead(context.Context, *NotificationIDRequest) (*MarkNotificationReadResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method MarkNotificationRead not implemented")
}
func (UnimplementedLoanWorkflowServiceServer) RegisterPerson(context.Context, *RegisterPersonRequest) (*dto.AuthResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method RegisterPerson not implemented")
}
func (UnimplementedLoanWorkflowServiceServer) Login(context.Context, *LoginRequest) (*dto.AuthResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method Login not implemented")
}
func (UnimplementedLoanWorkflowServiceServer) mustEmbedUnimplementedLoanWorkflowServiceServer() {}

// RegisterLoanWorkflowServiceServer registers srv with the gRPC server.
func RegisterLoanWorkflowServiceServer(s grpclib.ServiceRegistrar, srv LoanWorkflowServiceServer) {
	s.RegisterService(&loanWorkflowServiceDesc, srv)
}

// unary adapts a typed server method to a grpc.MethodDesc handler.
func unary[Req any, Resp any](
	method string,
	call func(LoanWorkflowServiceServer, context.Context, *Req) (*Resp, error),
) grpclib.MethodDesc {
	return grpclib.MethodDesc{
		MethodName: method,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpclib.UnaryServerInterceptor) (any, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(LoanWorkflowServiceServer), ctx, in)
			}
			info := &grpclib.UnaryServerInfo{
				Server:     srv,
				FullMethod: "/" + serviceName + "/" + method,
			}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(LoanWorkflowServiceServer), ctx, req.(*Req))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

var loanWorkflowServiceDesc = grpclib.ServiceDesc{
	ServiceName: serviceName,
	HandlerType: (*LoanWorkflowServiceServer)(nil),
	Methods: []grpclib.MethodDesc{
		unary("SubmitApplication", LoanWorkflowServiceServer.SubmitApplication),
		unary("GetApplication", LoanWorkflowServiceServer.GetApplication),
		unary("ListApplications", LoanWorkflowServiceServer.ListApplications),
		unary("EmployeeDecide", LoanWorkflowServiceServer.EmployeeDecide),
		unary("EscalateApplication", LoanWorkflowServiceServer.EscalateApplication),
		unary("ManagerDecide", LoanWorkflowServiceServer.ManagerDecide),
		unary("ProcessApplication", LoanWorkflowServiceServer.ProcessApplication),
		unary("CreateOffer", LoanWorkflowServiceServer.CreateOffer),
		unary("GetRepaymentPlan", LoanWorkflowServiceServer.GetRepaymentPlan),
		unary("ChangePersonRole", LoanWorkflowServiceServer.ChangePersonRole),
		unary("ListNotifications", LoanWorkflowServiceServer.ListNotifications),
		unary("MarkNotificationRead", LoanWorkflowServiceServer.MarkNotificationRead),
		unary("RegisterPerson", LoanWorkflowServiceServer.RegisterPerson),
		unary("Login", LoanWorkflowServiceServer.Login),
	},
	Streams:  []grpclib.StreamDesc{},
	Metadata: "loanflow/v1/loan_workflow.proto",
}
