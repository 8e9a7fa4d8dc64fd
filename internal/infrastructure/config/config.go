package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/mustafa-shahin/lf10-project/internal/domain/service"
)

type DatabaseConfig struct {
	Host       string
	Port       int
	User       string
	Password   string
	Name       string
	SSLMode    string
	MaxConns   int32
	Migrations bool
}

type KafkaConfig struct {
	Brokers       []string
	Topic         string
	ClientID      string
	TLS           bool
	SASLEnabled   bool
	SASLMechanism string
	SASLUsername  string
	SASLPassword  string
}

type JWTConfig struct {
	Secret string
	// PrivateKeyFile switches to RS256 and lets login sign tokens.
	PrivateKeyFile string
	// PublicKeyFile switches validation to RS256 tokens issued elsewhere.
	// Login cannot sign tokens in that mode.
	PublicKeyFile string
	Issuer        string
	Expiry        time.Duration
}

type EmailConfig struct {
	// Provider is one of ses, smtp or log.
	Provider  string
	From      string
	BankName  string
	AWSRegion string
	SMTPHost  string
	SMTPPort  int
	SMTPUser  string
	SMTPPass  string
	SMTPTLS   bool
}

type TLSConfig struct {
	Enabled  bool
	CertFile string
	KeyFile  string
	CAFile   string
}

type ObservabilityConfig struct {
	LogLevel     string
	LogFormat    string
	OTLPEndpoint string
}

type Config struct {
	ServiceName    string
	GRPCPort       int
	HTTPPort       int
	GRPCReflection bool
	DB             DatabaseConfig
	Kafka          KafkaConfig
	JWT            JWTConfig
	Email          EmailConfig
	TLS            TLSConfig
	Observability  ObservabilityConfig

	Underwriting        service.UnderwritingPolicy
	DefaultInterestRate float64
	CreditScoreProvider string
	CreditScoreSeed     int64

	DraftTTL            time.Duration
	RateLimit           string
	LegacyStatusStorage bool
}

// Validate reports every configuration problem at once.
func (c Config) Validate() error {
	var errs []error
	if c.DB.Password == "" {
		errs = append(errs, errors.New("DB_PASSWORD environment variable is required"))
	}
	if c.JWT.PrivateKeyFile == "" && c.JWT.PublicKeyFile == "" && len(c.JWT.Secret) < 32 {
		errs = append(errs, errors.New("JWT_SECRET must be at least 32 characters"))
	}
	switch c.Email.Provider {
	case "log":
	case "ses":
		if c.Email.AWSRegion == "" {
			errs = append(errs, errors.New("AWS_REGION is required for the ses email provider"))
		}
	case "smtp":
		if c.Email.SMTPHost == "" {
			errs = append(errs, errors.New("SMTP_HOST is required for the smtp email provider"))
		}
	default:
		errs = append(errs, fmt.Errorf("EMAIL_PROVIDER %q is not one of ses, smtp, log", c.Email.Provider))
	}
	if c.Email.Provider != "log" && c.Email.From == "" {
		errs = append(errs, errors.New("EMAIL_FROM is required"))
	}
	if c.TLS.Enabled && (c.TLS.CertFile == "" || c.TLS.KeyFile == "") {
		errs = append(errs, errors.New("TLS_CERT_FILE and TLS_KEY_FILE are required when TLS is enabled"))
	}
	if err := c.Underwriting.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("underwriting: %w", err))
	}
	if c.DefaultInterestRate < 0 {
		errs = append(errs, errors.New("DEFAULT_INTEREST_RATE must not be negative"))
	}
	if c.DraftTTL <= 0 {
		errs = append(errs, errors.New("DRAFT_TTL must be positive"))
	}
	return errors.Join(errs...)
}

func setDefaults(v *viper.Viper) {
	defaults := service.DefaultUnderwritingPolicy()

	v.SetDefault("SERVICE_NAME", "loanflowd")
	v.SetDefault("GRPC_PORT", 9090)
	v.SetDefault("HTTP_PORT", 8080)
	v.SetDefault("GRPC_REFLECTION", false)

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "loanflow")
	v.SetDefault("DB_PASSWORD", "")
	v.SetDefault("DB_NAME", "loanflow")
	v.SetDefault("DB_SSLMODE", "require")
	v.SetDefault("DB_MAX_CONNS", 10)
	v.SetDefault("DB_RUN_MIGRATIONS", true)

	v.SetDefault("KAFKA_BROKERS", "")
	v.SetDefault("KAFKA_TOPIC", "loanflow.application-events")
	v.SetDefault("KAFKA_TLS", false)
	v.SetDefault("KAFKA_SASL_ENABLED", false)
	v.SetDefault("KAFKA_SASL_MECHANISM", "PLAIN")

	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("JWT_ISSUER", "loanflow")
	v.SetDefault("JWT_EXPIRY", "1h")

	v.SetDefault("EMAIL_PROVIDER", "log")
	v.SetDefault("EMAIL_FROM", "")
	v.SetDefault("BANK_NAME", "Kreditbank")
	v.SetDefault("AWS_REGION", "eu-central-1")
	v.SetDefault("SMTP_PORT", 587)
	v.SetDefault("SMTP_TLS", true)

	v.SetDefault("TLS_ENABLED", false)

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
	v.SetDefault("OTEL_EXPORTER_OTLP_ENDPOINT", "")

	v.SetDefault("UNDERWRITING_MIN_CREDIT_SCORE", defaults.MinCreditScore)
	v.SetDefault("UNDERWRITING_ESCALATION_CREDIT_SCORE", defaults.EscalationCreditScore)
	v.SetDefault("UNDERWRITING_ESCALATION_DSCR", defaults.EscalationDSCR)
	v.SetDefault("UNDERWRITING_MIN_DSCR", defaults.MinDSCR)
	v.SetDefault("UNDERWRITING_STRONG_DSCR", defaults.StrongDSCR)
	v.SetDefault("UNDERWRITING_STRONG_CCR", defaults.StrongCCR)
	v.SetDefault("UNDERWRITING_STANDARD_CCR", defaults.StandardCCR)
	v.SetDefault("DEFAULT_INTEREST_RATE", 5.0)
	v.SetDefault("CREDIT_SCORE_PROVIDER", "random")
	v.SetDefault("CREDIT_SCORE_SEED", 0)

	v.SetDefault("DRAFT_TTL", "168h")
	v.SetDefault("RATE_LIMIT", "100-M")
	v.SetDefault("STORAGE_LEGACY_STATUS", false)
}

// Load reads configuration from the environment. A .env file in the working
// directory is loaded first when present; real environment variables win.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()
	return fromViper(v)
}

func fromViper(v *viper.Viper) (Config, error) {
	jwtExpiry, err := time.ParseDuration(v.GetString("JWT_EXPIRY"))
	if err != nil {
		return Config{}, fmt.Errorf("JWT_EXPIRY: %w", err)
	}
	draftTTL, err := time.ParseDuration(v.GetString("DRAFT_TTL"))
	if err != nil {
		return Config{}, fmt.Errorf("DRAFT_TTL: %w", err)
	}

	return Config{
		ServiceName:    v.GetString("SERVICE_NAME"),
		GRPCPort:       v.GetInt("GRPC_PORT"),
		HTTPPort:       v.GetInt("HTTP_PORT"),
		GRPCReflection: v.GetBool("GRPC_REFLECTION"),
		DB: DatabaseConfig{
			Host:       v.GetString("DB_HOST"),
			Port:       v.GetInt("DB_PORT"),
			User:       v.GetString("DB_USER"),
			Password:   v.GetString("DB_PASSWORD"),
			Name:       v.GetString("DB_NAME"),
			SSLMode:    v.GetString("DB_SSLMODE"),
			MaxConns:   v.GetInt32("DB_MAX_CONNS"),
			Migrations: v.GetBool("DB_RUN_MIGRATIONS"),
		},
		Kafka: KafkaConfig{
			Brokers:       splitList(v.GetString("KAFKA_BROKERS")),
			Topic:         v.GetString("KAFKA_TOPIC"),
			ClientID:      v.GetString("SERVICE_NAME"),
			TLS:           v.GetBool("KAFKA_TLS"),
			SASLEnabled:   v.GetBool("KAFKA_SASL_ENABLED"),
			SASLMechanism: v.GetString("KAFKA_SASL_MECHANISM"),
			SASLUsername:  v.GetString("KAFKA_SASL_USERNAME"),
			SASLPassword:  v.GetString("KAFKA_SASL_PASSWORD"),
		},
		JWT: JWTConfig{
			Secret:         v.GetString("JWT_SECRET"),
			PrivateKeyFile: v.GetString("JWT_PRIVATE_KEY_FILE"),
			PublicKeyFile:  v.GetString("JWT_PUBLIC_KEY_FILE"),
			Issuer:         v.GetString("JWT_ISSUER"),
			Expiry:         jwtExpiry,
		},
		Email: EmailConfig{
			Provider:  strings.ToLower(v.GetString("EMAIL_PROVIDER")),
			From:      v.GetString("EMAIL_FROM"),
			BankName:  v.GetString("BANK_NAME"),
			AWSRegion: v.GetString("AWS_REGION"),
			SMTPHost:  v.GetString("SMTP_HOST"),
			SMTPPort:  v.GetInt("SMTP_PORT"),
			SMTPUser:  v.GetString("SMTP_USER"),
			SMTPPass:  v.GetString("SMTP_PASS"),
			SMTPTLS:   v.GetBool("SMTP_TLS"),
		},
		TLS: TLSConfig{
			Enabled:  v.GetBool("TLS_ENABLED"),
			CertFile: v.GetString("TLS_CERT_FILE"),
			KeyFile:  v.GetString("TLS_KEY_FILE"),
			CAFile:   v.GetString("TLS_CA_FILE"),
		},
		Observability: ObservabilityConfig{
			LogLevel:     v.GetString("LOG_LEVEL"),
			LogFormat:    v.GetString("LOG_FORMAT"),
			OTLPEndpoint: v.GetString("OTEL_EXPORTER_OTLP_ENDPOINT"),
		},
		Underwriting: service.UnderwritingPolicy{
			MinCreditScore:        v.GetInt("UNDERWRITING_MIN_CREDIT_SCORE"),
			EscalationCreditScore: v.GetInt("UNDERWRITING_ESCALATION_CREDIT_SCORE"),
			EscalationDSCR:        v.GetFloat64("UNDERWRITING_ESCALATION_DSCR"),
			MinDSCR:               v.GetFloat64("UNDERWRITING_MIN_DSCR"),
			StrongDSCR:            v.GetFloat64("UNDERWRITING_STRONG_DSCR"),
			StrongCCR:             v.GetFloat64("UNDERWRITING_STRONG_CCR"),
			StandardCCR:           v.GetFloat64("UNDERWRITING_STANDARD_CCR"),
		},
		DefaultInterestRate: v.GetFloat64("DEFAULT_INTEREST_RATE"),
		CreditScoreProvider: v.GetString("CREDIT_SCORE_PROVIDER"),
		CreditScoreSeed:     v.GetInt64("CREDIT_SCORE_SEED"),
		DraftTTL:            draftTTL,
		RateLimit:           v.GetString("RATE_LIMIT"),
		LegacyStatusStorage: v.GetBool("STORAGE_LEGACY_STATUS"),
	}, nil
}

func (c Config) GRPCAddr() string {
	return fmt.Sprintf(":%d", c.GRPCPort)
}

func (c Config) HTTPAddr() string {
	return fmt.Sprintf(":%d", c.HTTPPort)
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
