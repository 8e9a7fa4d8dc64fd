package grpc

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"time"

	"go.opentelemetry.io/otel"
	otelcodes "go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
	"google.golang.org/grpc/status"

	"github.com/mustafa-shahin/lf10-project/pkg/auth"
	"github.com/mustafa-shahin/lf10-project/pkg/observability"
	"github.com/mustafa-shahin/lf10-project/pkg/tlsutil"
)

// ServerOptions configures the optional parts of the gRPC server.
type ServerOptions struct {
	// TLS is enabled when a certificate and key are set. A CA file adds
	// client certificate verification.
	TLS        tlsutil.Files
	Reflection bool
	Requests   *observability.RequestMetrics
}

// Server wraps a gRPC server with the workflow handler registered.
type Server struct {
	gs     *grpc.Server
	health *health.Server
	logger *slog.Logger
}

// NewServer creates and configures the gRPC server.
func NewServer(handler LoanWorkflowServiceServer, jwtService *auth.JWTService, logger *slog.Logger, opts ServerOptions) (*Server, error) {
	authInterceptor := auth.UnaryAuthInterceptor(jwtService, PublicMethods)

	serverOpts := []grpc.ServerOption{
		grpc.ChainUnaryInterceptor(observeInterceptor(logger, opts.Requests), authInterceptor),
	}

	if opts.TLS.Enabled() {
		creds, err := tlsutil.ServerCredentials(opts.TLS)
		if err != nil {
			return nil, fmt.Errorf("load TLS credentials: %w", err)
		}
		serverOpts = append(serverOpts, grpc.Creds(creds))
		logger.Info("gRPC TLS enabled", "cert", opts.TLS.CertFile, "mutual", opts.TLS.Mutual())
	} else {
		logger.Info("gRPC TLS not configured, running without TLS")
	}

	gs := grpc.NewServer(serverOpts...)

	healthSrv := health.NewServer()
	healthpb.RegisterHealthServer(gs, healthSrv)
	healthSrv.SetServingStatus(serviceName, healthpb.HealthCheckResponse_SERVING)

	if opts.Reflection {
		reflection.Register(gs)
	}

	RegisterLoanWorkflowServiceServer(gs, handler)

	return &Server{gs: gs, health: healthSrv, logger: logger}, nil
}

// Serve starts the gRPC server on the specified address.
func (s *Server) Serve(addr string) error {
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}
	return s.ServeListener(lis)
}

// ServeListener serves on an existing listener.
func (s *Server) ServeListener(lis net.Listener) error {
	s.logger.Info("gRPC server listening", "addr", lis.Addr().String())
	return s.gs.Serve(lis)
}

// GracefulStop marks the service as not serving and drains in-flight calls.
func (s *Server) GracefulStop() {
	s.logger.Info("gRPC server shutting down")
	s.health.Shutdown()
	s.gs.GracefulStop()
}

// observeInterceptor opens a server span, records request metrics and logs
// failed calls.
func observeInterceptor(logger *slog.Logger, requests *observability.RequestMetrics) grpc.UnaryServerInterceptor {
	tracer := otel.Tracer("loanflow/grpc")
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		ctx, span := tracer.Start(ctx, info.FullMethod, trace.WithSpanKind(trace.SpanKindServer))
		defer span.End()

		start := time.Now()
		resp, err := handler(ctx, req)
		code := status.Code(err)

		requests.Record(ctx, "grpc", info.FullMethod, code.String(), time.Since(start))
		if err != nil {
			span.SetStatus(otelcodes.Error, code.String())
			logger.DebugContext(ctx, "gRPC call failed", "method", info.FullMethod, "code", code.String())
		}
		return resp, err
	}
}
