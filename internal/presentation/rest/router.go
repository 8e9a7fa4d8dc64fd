package rest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"

	"github.com/mustafa-shahin/lf10-project/internal/application/usecase"
	"github.com/mustafa-shahin/lf10-project/internal/presentation/draft"
	"github.com/mustafa-shahin/lf10-project/pkg/auth"
	"github.com/mustafa-shahin/lf10-project/pkg/observability"
)

// RouterConfig carries everything the HTTP API serves.
type RouterConfig struct {
	Service   string
	UseCases  usecase.Set
	Drafts    *draft.Store
	JWT       *auth.JWTService
	Metrics   http.Handler
	Requests  *observability.RequestMetrics
	Readiness map[string]Pinger
	// RateLimit is a limiter rate such as "100-M". Empty disables limiting.
	RateLimit string
	Logger    *slog.Logger
}

// NewRouter builds the gin engine.
//
//	GET  /healthz, /readyz, /metrics          unauthenticated
//	GET  /api/v1/repayment-plan                unauthenticated calculator
//	POST /api/v1/auth/register, /auth/login    unauthenticated, issue tokens
//	     /api/v1/drafts/...                    authenticated
//	     /api/v1/notifications/...             authenticated
func NewRouter(cfg RouterConfig) (*gin.Engine, error) {
	r := gin.New()
	r.Use(gin.Recovery(), RequestLogger(cfg.Logger, cfg.Requests), ErrorHandler(cfg.Logger))

	NewHealthHandler(cfg.Service, cfg.Readiness).RegisterRoutes(r)
	if cfg.Metrics != nil {
		r.GET("/metrics", gin.WrapH(cfg.Metrics))
	}

	api := r.Group("/api/v1")
	if cfg.RateLimit != "" {
		rate, err := limiter.NewRateFromFormatted(cfg.RateLimit)
		if err != nil {
			return nil, fmt.Errorf("parse rate limit %q: %w", cfg.RateLimit, err)
		}
		api.Use(RateLimit(limiter.New(memory.NewStore(), rate), cfg.Logger))
	}
	NewCalculatorHandler(cfg.UseCases.RepaymentPlan).RegisterRoutes(api)
	if cfg.UseCases.Register != nil && cfg.UseCases.Login != nil {
		NewAccountHandler(cfg.UseCases.Register, cfg.UseCases.Login).RegisterRoutes(api)
	}

	secured := api.Group("")
	secured.Use(Authenticate(cfg.JWT, cfg.Logger))
	NewDraftHandler(cfg.Drafts, cfg.UseCases.Submit).RegisterRoutes(secured)
	if cfg.UseCases.Notifications != nil {
		NewNotificationHandler(cfg.UseCases.Notifications).RegisterRoutes(secured)
	}
	return r, nil
}

// Server runs the HTTP API.
type Server struct {
	srv    *http.Server
	logger *slog.Logger
}

func NewServer(addr string, handler http.Handler, logger *slog.Logger) *Server {
	return &Server{
		srv: &http.Server{
			Addr:              addr,
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		},
		logger: logger,
	}
}

// Serve blocks until the server stops. A graceful shutdown is not an error.
func (s *Server) Serve() error {
	s.logger.Info("HTTP server listening", "addr", s.srv.Addr)
	if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("HTTP server shutting down")
	return s.srv.Shutdown(ctx)
}
