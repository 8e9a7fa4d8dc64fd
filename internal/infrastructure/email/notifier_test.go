package email

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mustafa-shahin/lf10-project/internal/domain/port"
)

type mockSES struct {
	sendFunc func(ctx context.Context, in *ses.SendEmailInput) (*ses.SendEmailOutput, error)
	inputs   []*ses.SendEmailInput
}

func (m *mockSES) SendEmail(ctx context.Context, in *ses.SendEmailInput, _ ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
	m.inputs = append(m.inputs, in)
	if m.sendFunc != nil {
		return m.sendFunc(ctx, in)
	}
	return &ses.SendEmailOutput{}, nil
}

type recordingSender struct {
	sent []Message
	err  error
}

func (r *recordingSender) Send(_ context.Context, msg Message) error {
	r.sent = append(r.sent, msg)
	return r.err
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestRenderer(t *testing.T) *Renderer {
	t.Helper()
	r, err := NewRenderer("Kreditbank")
	require.NoError(t, err)
	return r
}

func TestRenderer(t *testing.T) {
	r := newTestRenderer(t)

	t.Run("status with reason", func(t *testing.T) {
		msg, err := r.LoanStatus(port.LoanStatusEmail{
			To:            "clara@example.com",
			Name:          "Clara",
			ApplicationID: "app-1",
			Date:          time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC),
			LoanType:      "building",
			Status:        "rejected",
			Reason:        "score too low",
		})
		require.NoError(t, err)
		assert.Equal(t, "clara@example.com", msg.To)
		assert.Equal(t, "Kreditbank - Update on your loan application", msg.Subject)
		assert.Contains(t, msg.HTML, "Dear Clara")
		assert.Contains(t, msg.HTML, "15.06.2025")
		assert.Contains(t, msg.HTML, "<strong>rejected</strong>")
		assert.Contains(t, msg.Text, "Reason: score too low")
		assert.NotContains(t, msg.Text, "<p>")
	})

	t.Run("status without reason", func(t *testing.T) {
		msg, err := r.LoanStatus(port.LoanStatusEmail{To: "a@b.de", Name: "A", Status: "approved"})
		require.NoError(t, err)
		assert.NotContains(t, msg.HTML, "Reason")
	})

	t.Run("offer formats money", func(t *testing.T) {
		msg, err := r.LoanOffer(port.LoanOfferEmail{
			To:             "clara@example.com",
			Name:           "Clara",
			ApplicationID:  "app-1",
			LoanType:       "immediate",
			Amount:         decimal.NewFromInt(20_000),
			InterestRate:   4.5,
			MonthlyPayment: decimal.RequireFromString("456.07"),
			TermYears:      4,
		})
		require.NoError(t, err)
		assert.Contains(t, msg.HTML, "20000.00 EUR")
		assert.Contains(t, msg.HTML, "456.07 EUR")
		assert.Contains(t, msg.HTML, "4.50 %")
	})

	t.Run("manager approval is addressed to the manager", func(t *testing.T) {
		msg, err := r.ManagerApproval(port.ManagerApprovalEmail{
			To:            "max@example.com",
			ManagerName:   "Max Mann",
			RequesterName: "Erika Muster",
			ApplicationID: "app-9",
			LoanType:      "building",
			Amount:        decimal.NewFromInt(100_000),
			CreditScore:   640,
		})
		require.NoError(t, err)
		assert.Equal(t, "Kreditbank - Approval needed for application #app-9", msg.Subject)
		assert.Contains(t, msg.HTML, "Dear Max Mann")
		assert.Contains(t, msg.Text, "Erika Muster needs your approval")
	})

	t.Run("user content is escaped", func(t *testing.T) {
		msg, err := r.LoanProcessing(port.LoanProcessingEmail{
			To: "a@b.de", Name: "<script>x</script>", HandlerName: "Erika",
		})
		require.NoError(t, err)
		assert.NotContains(t, msg.HTML, "<script>")
	})

	t.Run("empty recipient", func(t *testing.T) {
		_, err := r.LoanProcessing(port.LoanProcessingEmail{Name: "A"})
		assert.Error(t, err)
	})
}

func TestNotifier(t *testing.T) {
	t.Run("renders and sends", func(t *testing.T) {
		sender := &recordingSender{}
		n := NewNotifier(newTestRenderer(t), sender, discardLogger())

		err := n.SendLoanProcessingEmail(context.Background(), port.LoanProcessingEmail{
			To: "clara@example.com", Name: "Clara", ApplicationID: "app-1", LoanType: "building", HandlerName: "Erika Muster",
		})
		require.NoError(t, err)
		require.Len(t, sender.sent, 1)
		assert.Contains(t, sender.sent[0].Text, "processed by Erika Muster")
	})

	t.Run("send failure is returned", func(t *testing.T) {
		sender := &recordingSender{err: errors.New("relay down")}
		n := NewNotifier(newTestRenderer(t), sender, discardLogger())

		err := n.SendLoanStatusEmail(context.Background(), port.LoanStatusEmail{To: "a@b.de", Name: "A"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "relay down")
	})

	t.Run("log sender never fails", func(t *testing.T) {
		n := NewLogNotifier(newTestRenderer(t), discardLogger())
		err := n.SendManagerApprovalNeededEmail(context.Background(), port.ManagerApprovalEmail{To: "max@example.com"})
		assert.NoError(t, err)
	})
}

func TestSESSender_Send(t *testing.T) {
	t.Run("builds the SES request", func(t *testing.T) {
		client := &mockSES{}
		s := NewSESSender(client, "noreply@kreditbank.de")

		err := s.Send(context.Background(), Message{To: "clara@example.com", Subject: "Hi", HTML: "<p>x</p>", Text: "x"})
		require.NoError(t, err)
		require.Len(t, client.inputs, 1)

		in := client.inputs[0]
		assert.Equal(t, "noreply@kreditbank.de", *in.Source)
		assert.Equal(t, []string{"clara@example.com"}, in.Destination.ToAddresses)
		assert.Equal(t, "Hi", *in.Message.Subject.Data)
		assert.Equal(t, "<p>x</p>", *in.Message.Body.Html.Data)
		assert.Equal(t, "x", *in.Message.Body.Text.Data)
	})

	t.Run("client error", func(t *testing.T) {
		client := &mockSES{sendFunc: func(context.Context, *ses.SendEmailInput) (*ses.SendEmailOutput, error) {
			return nil, errors.New("throttled")
		}}
		err := NewSESSender(client, "x@y.de").Send(context.Background(), Message{To: "a@b.de"})
		assert.EqualError(t, err, "throttled")
	})
}

func TestBuildMIME(t *testing.T) {
	raw := buildMIME("noreply@kreditbank.de", Message{To: "a@b.de", Subject: "Offer", HTML: "<p>hi</p>", Text: "hi"})

	assert.True(t, strings.HasPrefix(raw, "From: noreply@kreditbank.de\r\nTo: a@b.de\r\nSubject: Offer\r\n"))
	assert.Contains(t, raw, "multipart/alternative")
	assert.Contains(t, raw, "Content-Type: text/plain; charset=UTF-8\r\n\r\nhi\r\n")
	assert.Contains(t, raw, "Content-Type: text/html; charset=UTF-8\r\n\r\n<p>hi</p>\r\n")
	assert.True(t, strings.HasSuffix(raw, "--\r\n"))
}

func TestSMTPSender_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := (&SMTPSender{cfg: SMTPConfig{Host: "localhost", Port: 1}}).Send(ctx, Message{To: "a@b.de"})
	assert.ErrorIs(t, err, context.Canceled)
}
