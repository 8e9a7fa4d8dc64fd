package email

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"net/smtp"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
	"github.com/google/uuid"

	"github.com/mustafa-shahin/lf10-project/internal/domain/port"
)

// Sender delivers a rendered message.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// Notifier implements port.EmailNotifier on top of a Sender.
type Notifier struct {
	renderer *Renderer
	sender   Sender
	logger   *slog.Logger
}

// NewNotifier combines a renderer and a sender.
func NewNotifier(renderer *Renderer, sender Sender, logger *slog.Logger) *Notifier {
	return &Notifier{renderer: renderer, sender: sender, logger: logger}
}

func (n *Notifier) SendLoanStatusEmail(ctx context.Context, msg port.LoanStatusEmail) error {
	return n.deliver(ctx, "loan_status", func() (Message, error) { return n.renderer.LoanStatus(msg) })
}

func (n *Notifier) SendLoanOfferEmail(ctx context.Context, msg port.LoanOfferEmail) error {
	return n.deliver(ctx, "loan_offer", func() (Message, error) { return n.renderer.LoanOffer(msg) })
}

func (n *Notifier) SendManagerApprovalNeededEmail(ctx context.Context, msg port.ManagerApprovalEmail) error {
	return n.deliver(ctx, "manager_approval", func() (Message, error) { return n.renderer.ManagerApproval(msg) })
}

func (n *Notifier) SendLoanProcessingEmail(ctx context.Context, msg port.LoanProcessingEmail) error {
	return n.deliver(ctx, "loan_processing", func() (Message, error) { return n.renderer.LoanProcessing(msg) })
}

func (n *Notifier) deliver(ctx context.Context, kind string, render func() (Message, error)) error {
	msg, err := render()
	if err != nil {
		return err
	}
	if err := n.sender.Send(ctx, msg); err != nil {
		return fmt.Errorf("send %s email: %w", kind, err)
	}
	n.logger.Info("email sent", "kind", kind, "to", msg.To)
	return nil
}

// ---------------------------------------------------------------------------
// SES
// ---------------------------------------------------------------------------

// SESAPI is the subset of the SES client used here.
type SESAPI interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

// SESSender sends through Amazon SES.
type SESSender struct {
	client SESAPI
	from   string
}

// NewSESSender wraps an SES client.
func NewSESSender(client SESAPI, from string) *SESSender {
	return &SESSender{client: client, from: from}
}

// NewSESNotifier loads the default AWS configuration for region and returns
// a notifier sending through SES.
func NewSESNotifier(ctx context.Context, region, from string, renderer *Renderer, logger *slog.Logger) (*Notifier, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return NewNotifier(renderer, NewSESSender(ses.NewFromConfig(cfg), from), logger), nil
}

func (s *SESSender) Send(ctx context.Context, msg Message) error {
	_, err := s.client.SendEmail(ctx, &ses.SendEmailInput{
		Source: aws.String(s.from),
		Destination: &types.Destination{
			ToAddresses: []string{msg.To},
		},
		Message: &types.Message{
			Subject: &types.Content{Data: aws.String(msg.Subject), Charset: aws.String("UTF-8")},
			Body: &types.Body{
				Text: &types.Content{Data: aws.String(msg.Text), Charset: aws.String("UTF-8")},
				Html: &types.Content{Data: aws.String(msg.HTML), Charset: aws.String("UTF-8")},
			},
		},
	})
	return err
}

// ---------------------------------------------------------------------------
// SMTP
// ---------------------------------------------------------------------------

// SMTPConfig configures SMTPSender.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	StartTLS bool
}

// SMTPSender sends through an SMTP relay.
type SMTPSender struct {
	cfg SMTPConfig
}

// NewSMTPNotifier returns a notifier sending through the relay in cfg.
func NewSMTPNotifier(cfg SMTPConfig, renderer *Renderer, logger *slog.Logger) *Notifier {
	return NewNotifier(renderer, &SMTPSender{cfg: cfg}, logger)
}

func (s *SMTPSender) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context cancelled before sending email: %w", err)
	}
	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)

	var auth smtp.Auth
	if s.cfg.Username != "" && s.cfg.Password != "" {
		auth = smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	}

	client, err := smtp.Dial(addr)
	if err != nil {
		return fmt.Errorf("connect to SMTP server: %w", err)
	}
	defer client.Close()

	if s.cfg.StartTLS {
		if err := client.StartTLS(&tls.Config{ServerName: s.cfg.Host, MinVersion: tls.VersionTLS12}); err != nil {
			return fmt.Errorf("start TLS: %w", err)
		}
	}
	if auth != nil {
		if err := client.Auth(auth); err != nil {
			return fmt.Errorf("SMTP authentication failed: %w", err)
		}
	}
	if err := client.Mail(s.cfg.From); err != nil {
		return fmt.Errorf("set sender: %w", err)
	}
	if err := client.Rcpt(msg.To); err != nil {
		return fmt.Errorf("set recipient %s: %w", msg.To, err)
	}
	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("open data writer: %w", err)
	}
	if _, err := w.Write([]byte(buildMIME(s.cfg.From, msg))); err != nil {
		return fmt.Errorf("write message: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("close data writer: %w", err)
	}
	return client.Quit()
}

// buildMIME renders a multipart/alternative message with text and HTML parts.
func buildMIME(from string, msg Message) string {
	boundary := "loanflow-" + uuid.NewString()
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", msg.To)
	fmt.Fprintf(&b, "Subject: %s\r\n", msg.Subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	fmt.Fprintf(&b, "Content-Type: multipart/alternative; boundary=%q\r\n\r\n", boundary)

	fmt.Fprintf(&b, "--%s\r\nContent-Type: text/plain; charset=UTF-8\r\n\r\n%s\r\n", boundary, msg.Text)
	fmt.Fprintf(&b, "--%s\r\nContent-Type: text/html; charset=UTF-8\r\n\r\n%s\r\n", boundary, msg.HTML)
	fmt.Fprintf(&b, "--%s--\r\n", boundary)
	return b.String()
}

// ---------------------------------------------------------------------------
// Log
// ---------------------------------------------------------------------------

// LogSender writes messages to the log instead of sending them. Used in
// development and when no provider is configured.
type LogSender struct {
	logger *slog.Logger
}

// NewLogNotifier returns a notifier that only logs.
func NewLogNotifier(renderer *Renderer, logger *slog.Logger) *Notifier {
	return NewNotifier(renderer, &LogSender{logger: logger}, logger)
}

func (s *LogSender) Send(_ context.Context, msg Message) error {
	s.logger.Info("email not sent, log provider active",
		"to", msg.To,
		"subject", msg.Subject,
		"body", msg.Text,
	)
	return nil
}
