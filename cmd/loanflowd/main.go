package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mustafa-shahin/lf10-project/internal/application/notification"
	"github.com/mustafa-shahin/lf10-project/internal/application/usecase"
	"github.com/mustafa-shahin/lf10-project/internal/domain/port"
	"github.com/mustafa-shahin/lf10-project/internal/domain/service"
	"github.com/mustafa-shahin/lf10-project/internal/infrastructure/adapter"
	"github.com/mustafa-shahin/lf10-project/internal/infrastructure/config"
	"github.com/mustafa-shahin/lf10-project/internal/infrastructure/email"
	"github.com/mustafa-shahin/lf10-project/internal/infrastructure/kafka"
	pgRepo "github.com/mustafa-shahin/lf10-project/internal/infrastructure/persistence/postgres"
	"github.com/mustafa-shahin/lf10-project/internal/presentation/draft"
	grpcPresentation "github.com/mustafa-shahin/lf10-project/internal/presentation/grpc"
	"github.com/mustafa-shahin/lf10-project/internal/presentation/rest"
	"github.com/mustafa-shahin/lf10-project/migrations"
	"github.com/mustafa-shahin/lf10-project/pkg/auth"
	pkgkafka "github.com/mustafa-shahin/lf10-project/pkg/kafka"
	"github.com/mustafa-shahin/lf10-project/pkg/observability"
	pkgpostgres "github.com/mustafa-shahin/lf10-project/pkg/postgres"
	"github.com/mustafa-shahin/lf10-project/pkg/tlsutil"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		slog.Error("loanflowd exited", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger := observability.InitLogger(observability.LogConfig{
		Level:   cfg.Observability.LogLevel,
		Format:  cfg.Observability.LogFormat,
		Service: cfg.ServiceName,
	})
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	logger.Info("starting loanflowd",
		"http_port", cfg.HTTPPort,
		"grpc_port", cfg.GRPCPort,
	)

	shutdownTracer, err := observability.InitTracer(ctx, observability.TracingConfig{
		ServiceName: cfg.ServiceName,
		Endpoint:    cfg.Observability.OTLPEndpoint,
		Insecure:    true,
	})
	if err != nil {
		logger.Warn("failed to initialize tracer, continuing without tracing", "error", err)
	} else {
		defer func() { _ = shutdownTracer(context.Background()) }() //nolint:errcheck // best-effort tracer shutdown
	}

	metrics, metricsHandler, err := observability.InitMetrics(observability.MetricsConfig{ServiceName: cfg.ServiceName})
	if err != nil {
		return fmt.Errorf("init metrics: %w", err)
	}
	defer func() { _ = metrics.Shutdown(context.Background()) }() //nolint:errcheck // best-effort flush

	// Database.
	dbCfg := pkgpostgres.Config{
		Host:            cfg.DB.Host,
		Port:            cfg.DB.Port,
		User:            cfg.DB.User,
		Password:        cfg.DB.Password,
		Database:        cfg.DB.Name,
		SSLMode:         cfg.DB.SSLMode,
		ApplicationName: cfg.ServiceName,
		MaxConns:        cfg.DB.MaxConns,
	}
	dbCtx, dbCancel := context.WithTimeout(ctx, 10*time.Second)
	defer dbCancel()

	pool, err := pkgpostgres.NewPool(dbCtx, dbCfg)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer pool.Close()
	logger.Info("connected to database")

	if cfg.DB.Migrations {
		status, migErr := pkgpostgres.RunMigrations(dbCfg.DSN(), migrations.FS, ".")
		if migErr != nil {
			return fmt.Errorf("run migrations: %w", migErr)
		}
		logger.Info("database schema ready", "version", status.Version, "applied", status.Applied)
	}

	applications := pgRepo.NewApplicationRepo(pool, pgRepo.WithLegacyStatusTokens(cfg.LegacyStatusStorage))
	persons := pgRepo.NewPersonRepo(pool)
	notifications := pgRepo.NewNotificationRepo(pool)

	// Outbound adapters.
	publisher, closePublisher, err := newPublisher(cfg.Kafka, logger)
	if err != nil {
		return err
	}
	defer closePublisher()

	renderer, err := email.NewRenderer(cfg.Email.BankName)
	if err != nil {
		return fmt.Errorf("load email templates: %w", err)
	}
	notifier, err := newEmailNotifier(ctx, cfg.Email, renderer, logger)
	if err != nil {
		return err
	}

	scores, err := adapter.NewCreditScoreProvider(cfg.CreditScoreProvider, cfg.CreditScoreSeed)
	if err != nil {
		return fmt.Errorf("credit score provider: %w", err)
	}

	jwtSvc, err := newJWTService(cfg.JWT)
	if err != nil {
		return fmt.Errorf("initialize JWT service: %w", err)
	}

	// Use cases.
	deps := usecase.Dependencies{
		Applications: applications,
		Persons:      persons,
		Accounts:     persons,
		Tokens:       jwtSvc,
		Tx:           pkgpostgres.NewTransactor(pool),
		Publisher:    publisher,
		Email:        notifier,
		Dispatcher:   notification.NewDispatcher(notifications, persons, notifier, logger),
		Metrics:      metrics.Workflow,
		Logger:       logger,
	}
	engine := service.NewUnderwritingEngine(cfg.Underwriting)
	logger.Info("underwriting policy loaded", "policy", engine.Policy())
	useCases := usecase.NewSet(deps, scores, engine, cfg.DefaultInterestRate)

	drafts := draft.NewStore(cfg.DraftTTL)
	if err := metrics.RegisterGauge("loanflow_drafts_open", "Draft applications held in memory.", func() float64 {
		return float64(drafts.Count())
	}); err != nil {
		return fmt.Errorf("register drafts gauge: %w", err)
	}

	// gRPC server.
	grpcServer, err := grpcPresentation.NewServer(
		grpcPresentation.NewWorkflowHandler(useCases, logger),
		jwtSvc,
		logger,
		grpcServerOptions(cfg, metrics.Requests),
	)
	if err != nil {
		return fmt.Errorf("create gRPC server: %w", err)
	}

	// HTTP server.
	router, err := rest.NewRouter(rest.RouterConfig{
		Service:   cfg.ServiceName,
		UseCases:  useCases,
		Drafts:    drafts,
		JWT:       jwtSvc,
		Metrics:   metricsHandler,
		Requests:  metrics.Requests,
		Readiness: map[string]rest.Pinger{"postgres": pool},
		RateLimit: cfg.RateLimit,
		Logger:    logger,
	})
	if err != nil {
		return fmt.Errorf("create HTTP router: %w", err)
	}
	httpServer := rest.NewServer(cfg.HTTPAddr(), router, logger)

	errCh := make(chan error, 2)
	go func() {
		if err := grpcServer.Serve(cfg.GRPCAddr()); err != nil {
			errCh <- fmt.Errorf("gRPC server: %w", err)
		}
	}()
	go func() {
		if err := httpServer.Serve(); err != nil {
			errCh <- fmt.Errorf("HTTP server: %w", err)
		}
	}()

	var serveErr error
	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case serveErr = <-errCh:
		logger.Error("server error", "error", serveErr)
	}

	grpcServer.GracefulStop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error", "error", err)
	}

	logger.Info("loanflowd stopped")
	return serveErr
}

// newPublisher returns a Kafka-backed event publisher, or a log-only one when
// no brokers are configured.
func newPublisher(cfg config.KafkaConfig, logger *slog.Logger) (port.EventPublisher, func(), error) {
	if len(cfg.Brokers) == 0 {
		logger.Warn("no Kafka brokers configured, domain events are only logged")
		return kafka.NewLogPublisher(logger), func() {}, nil
	}
	producerCfg := pkgkafka.Config{
		Brokers:  cfg.Brokers,
		ClientID: cfg.ClientID,
		TLS:      cfg.TLS,
	}
	if cfg.SASLEnabled {
		producerCfg.SASL = &pkgkafka.SASLConfig{
			Mechanism: cfg.SASLMechanism,
			Username:  cfg.SASLUsername,
			Password:  cfg.SASLPassword,
		}
	}
	producer, err := pkgkafka.NewProducer(producerCfg)
	if err != nil {
		return nil, nil, fmt.Errorf("create kafka producer: %w", err)
	}
	closeFn := func() {
		if err := producer.Close(); err != nil {
			logger.Error("failed to close kafka producer", "error", err)
		}
	}
	return kafka.NewEventPublisher(producer, cfg.Topic, logger), closeFn, nil
}

func newEmailNotifier(ctx context.Context, cfg config.EmailConfig, renderer *email.Renderer, logger *slog.Logger) (*email.Notifier, error) {
	switch cfg.Provider {
	case "ses":
		n, err := email.NewSESNotifier(ctx, cfg.AWSRegion, cfg.From, renderer, logger)
		if err != nil {
			return nil, fmt.Errorf("create SES notifier: %w", err)
		}
		return n, nil
	case "smtp":
		return email.NewSMTPNotifier(email.SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUser,
			Password: cfg.SMTPPass,
			From:     cfg.From,
			StartTLS: cfg.SMTPTLS,
		}, renderer, logger), nil
	case "log":
		return email.NewLogNotifier(renderer, logger), nil
	default:
		return nil, errors.New("unknown email provider " + cfg.Provider)
	}
}

// newJWTService signs and validates RS256 tokens with a private key file,
// only validates them with a public key file, and falls back to HS256 with
// the shared secret.
func newJWTService(cfg config.JWTConfig) (*auth.JWTService, error) {
	jwtCfg := auth.JWTConfig{
		Issuer:     cfg.Issuer,
		Expiration: cfg.Expiry,
	}
	switch {
	case cfg.PrivateKeyFile != "":
		keyData, err := auth.LoadKeyFromFile(cfg.PrivateKeyFile)
		if err != nil {
			return nil, fmt.Errorf("load private key: %w", err)
		}
		jwtCfg.PrivateKeyPEM = string(keyData)
	case cfg.PublicKeyFile != "":
		keyData, err := auth.LoadKeyFromFile(cfg.PublicKeyFile)
		if err != nil {
			return nil, fmt.Errorf("load public key: %w", err)
		}
		jwtCfg.PublicKeyPEM = string(keyData)
	default:
		jwtCfg.Secret = cfg.Secret
	}
	return auth.NewJWTService(jwtCfg)
}

func grpcServerOptions(cfg config.Config, requests *observability.RequestMetrics) grpcPresentation.ServerOptions {
	opts := grpcPresentation.ServerOptions{
		Reflection: cfg.GRPCReflection,
		Requests:   requests,
	}
	if cfg.TLS.Enabled {
		opts.TLS = tlsutil.Files{
			CertFile: cfg.TLS.CertFile,
			KeyFile:  cfg.TLS.KeyFile,
			CAFile:   cfg.TLS.CAFile,
		}
	}
	return opts
}
