package email

import (
	"bytes"
	"fmt"
	"html"
	"html/template"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/mustafa-shahin/lf10-project/internal/domain/port"
)

// Message is a rendered email ready for a Sender.
type Message struct {
	To      string
	Subject string
	HTML    string
	Text    string
}

const layout = `{{define "layout"}}<!DOCTYPE html>
<html><body style="font-family: sans-serif">
<p>Dear {{.Name}},</p>
{{template "content" .}}
<p>Kind regards,<br>{{.Bank}}</p>
</body></html>{{end}}`

var bodies = map[string]string{
	"loan_status": `{{define "content"}}
<p>there is an update on your {{.Msg.LoanType}} loan application #{{.Msg.ApplicationID}} from {{.Msg.Date.Format "02.01.2006"}}.</p>
<p>Status: <strong>{{.Msg.Status}}</strong></p>
{{if .Msg.Reason}}<p>Reason: {{.Msg.Reason}}</p>{{end}}
{{end}}`,
	"loan_offer": `{{define "content"}}
<p>we are pleased to make you an offer for your {{.Msg.LoanType}} loan application #{{.Msg.ApplicationID}}.</p>
<table>
<tr><td>Amount</td><td>{{money .Msg.Amount}}</td></tr>
<tr><td>Interest rate</td><td>{{printf "%.2f" .Msg.InterestRate}} %</td></tr>
<tr><td>Term</td><td>{{.Msg.TermYears}} years</td></tr>
<tr><td>Monthly payment</td><td>{{money .Msg.MonthlyPayment}}</td></tr>
</table>
{{end}}`,
	"manager_approval": `{{define "content"}}
<p>{{.Msg.RequesterName}} needs your approval for {{.Msg.LoanType}} loan application #{{.Msg.ApplicationID}}.</p>
<p>Amount: {{money .Msg.Amount}}<br>Credit score: {{.Msg.CreditScore}}</p>
{{end}}`,
	"loan_processing": `{{define "content"}}
<p>your {{.Msg.LoanType}} loan application #{{.Msg.ApplicationID}} is now being processed by {{.Msg.HandlerName}}.</p>
{{end}}`,
}

type view struct {
	Name string
	Bank string
	Msg  any
}

var (
	tagPattern   = regexp.MustCompile(`<[^>]*>`)
	spacePattern = regexp.MustCompile(`[ \t]*\n[\s]*`)
)

// plainText derives the text alternative from the rendered HTML.
func plainText(body string) string {
	text := tagPattern.ReplaceAllString(body, " ")
	text = spacePattern.ReplaceAllString(text, "\n")
	return strings.TrimSpace(html.UnescapeString(text))
}

// Renderer turns the notifier messages into subject and body.
type Renderer struct {
	bank      string
	templates map[string]*template.Template
}

// NewRenderer parses the built-in templates. bank is used in the signature
// and subjects.
func NewRenderer(bank string) (*Renderer, error) {
	funcs := template.FuncMap{
		"money": func(d decimal.Decimal) string { return d.StringFixed(2) + " EUR" },
	}
	r := &Renderer{bank: bank, templates: make(map[string]*template.Template, len(bodies))}
	for name, body := range bodies {
		t, err := template.New(name).Funcs(funcs).Parse(layout)
		if err != nil {
			return nil, fmt.Errorf("parse layout: %w", err)
		}
		if _, err := t.Parse(body); err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		r.templates[name] = t
	}
	return r, nil
}

// LoanStatus renders the status update sent after a decision.
func (r *Renderer) LoanStatus(msg port.LoanStatusEmail) (Message, error) {
	return r.render("loan_status", msg.To, r.bank+" - Update on your loan application", msg.Name, msg)
}

// LoanOffer renders the offer email.
func (r *Renderer) LoanOffer(msg port.LoanOfferEmail) (Message, error) {
	return r.render("loan_offer", msg.To, r.bank+" - Your loan offer", msg.Name, msg)
}

// ManagerApproval renders the request sent to each manager on escalation.
func (r *Renderer) ManagerApproval(msg port.ManagerApprovalEmail) (Message, error) {
	subject := fmt.Sprintf("%s - Approval needed for application #%s", r.bank, msg.ApplicationID)
	return r.render("manager_approval", msg.To, subject, msg.ManagerName, msg)
}

// LoanProcessing renders the notice that a staff member claimed the application.
func (r *Renderer) LoanProcessing(msg port.LoanProcessingEmail) (Message, error) {
	return r.render("loan_processing", msg.To, r.bank+" - Your loan application is being processed", msg.Name, msg)
}

func (r *Renderer) render(name, to, subject, recipient string, data any) (Message, error) {
	if strings.TrimSpace(to) == "" {
		return Message{}, fmt.Errorf("email %s: recipient address is empty", name)
	}
	var buf bytes.Buffer
	err := r.templates[name].ExecuteTemplate(&buf, "layout", view{Name: recipient, Bank: r.bank, Msg: data})
	if err != nil {
		return Message{}, fmt.Errorf("render %s: %w", name, err)
	}
	return Message{To: to, Subject: subject, HTML: buf.String(), Text: plainText(buf.String())}, nil
}
