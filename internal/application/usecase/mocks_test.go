package usecase_test

import (
	"context"
	"io"
	"log/slog"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/mustafa-shahin/lf10-project/internal/application/notification"
	"github.com/mustafa-shahin/lf10-project/internal/application/usecase"
	"github.com/mustafa-shahin/lf10-project/internal/domain/apperr"
	"github.com/mustafa-shahin/lf10-project/internal/domain/event"
	"github.com/mustafa-shahin/lf10-project/internal/domain/model"
	"github.com/mustafa-shahin/lf10-project/internal/domain/port"
	"github.com/mustafa-shahin/lf10-project/internal/domain/valueobject"
)

// --- Mock implementations ---

type mockApplicationRepository struct {
	insertFunc func(ctx context.Context, app model.Application) error
	updateFunc func(ctx context.Context, app model.Application, expected valueobject.ApplicationStatus) error
	apps       map[string]model.Application
	updates    int
	lastFilter port.ApplicationFilter
}

func newMockApplicationRepository(apps ...model.Application) *mockApplicationRepository {
	m := &mockApplicationRepository{apps: map[string]model.Application{}}
	for _, app := range apps {
		m.apps[app.ID()] = app.ClearEvents()
	}
	return m
}

func (m *mockApplicationRepository) Insert(ctx context.Context, app model.Application) error {
	if m.insertFunc != nil {
		if err := m.insertFunc(ctx, app); err != nil {
			return err
		}
	}
	m.apps[app.ID()] = app.ClearEvents()
	return nil
}

func (m *mockApplicationRepository) Update(ctx context.Context, app model.Application, expected valueobject.ApplicationStatus) error {
	if m.updateFunc != nil {
		if err := m.updateFunc(ctx, app, expected); err != nil {
			return err
		}
	}
	stored, ok := m.apps[app.ID()]
	if !ok || !stored.Status().Equal(expected) || stored.Version() != app.Version()-1 {
		return apperr.Conflict("application %s was modified concurrently", app.ID())
	}
	m.updates++
	m.apps[app.ID()] = app.ClearEvents()
	return nil
}

func (m *mockApplicationRepository) FindByID(_ context.Context, id string) (model.Application, error) {
	app, ok := m.apps[id]
	if !ok {
		return model.Application{}, apperr.NotFound("application %s not found", id)
	}
	return app, nil
}

func (m *mockApplicationRepository) List(_ context.Context, filter port.ApplicationFilter) ([]model.Application, error) {
	m.lastFilter = filter
	var out []model.Application
	for _, app := range m.apps {
		if filter.ApplicantID != "" && app.ApplicantID() != filter.ApplicantID {
			continue
		}
		if !filter.Status.IsZero() && !app.Status().Equal(filter.Status) {
			continue
		}
		out = append(out, app)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID() < out[j].ID() })
	return out, nil
}

type mockPersonRepository struct {
	persons     map[string]model.Person
	hashes      map[string]string
	updateCalls int
	createErr   error
}

func newMockPersonRepository(people ...model.Person) *mockPersonRepository {
	m := &mockPersonRepository{persons: map[string]model.Person{}, hashes: map[string]string{}}
	for _, p := range people {
		m.persons[p.ID] = p
	}
	return m
}

func (m *mockPersonRepository) FindByID(_ context.Context, id string) (model.Person, error) {
	p, ok := m.persons[id]
	if !ok {
		return model.Person{}, apperr.NotFound("person %s not found", id)
	}
	return p, nil
}

func (m *mockPersonRepository) ListByRole(_ context.Context, role valueobject.Role) ([]model.Person, error) {
	var out []model.Person
	for _, p := range m.persons {
		if p.Role == role {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *mockPersonRepository) UpdateRole(_ context.Context, id string, role valueobject.Role) error {
	p, ok := m.persons[id]
	if !ok {
		return apperr.NotFound("person %s not found", id)
	}
	m.updateCalls++
	p.Role = role
	m.persons[id] = p
	return nil
}

func (m *mockPersonRepository) Create(_ context.Context, p model.Person, passwordHash string) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.persons[p.ID] = p
	m.hashes[p.ID] = passwordHash
	return nil
}

func (m *mockPersonRepository) FindByEmail(_ context.Context, email string) (model.Person, string, error) {
	for _, p := range m.persons {
		if strings.EqualFold(p.Email, email) {
			return p, m.hashes[p.ID], nil
		}
	}
	return model.Person{}, "", apperr.NotFound("person with email %s not found", email)
}

func (m *mockPersonRepository) Count(context.Context) (int, error) {
	return len(m.persons), nil
}

type mockTokenIssuer struct {
	err    error
	issued []string
}

func (m *mockTokenIssuer) GenerateToken(personID, role string) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	token := "token-" + personID + "-" + role
	m.issued = append(m.issued, token)
	return token, nil
}

type mockNotificationRepository struct {
	saved []model.Notification
}

func (m *mockNotificationRepository) Save(_ context.Context, n model.Notification) error {
	m.saved = append(m.saved, n)
	return nil
}

func (m *mockNotificationRepository) FindByID(_ context.Context, id string) (model.Notification, error) {
	for _, n := range m.saved {
		if n.ID == id {
			return n, nil
		}
	}
	return model.Notification{}, apperr.NotFound("notification %s not found", id)
}

func (m *mockNotificationRepository) ListForRecipient(_ context.Context, recipientID string, _ bool) ([]model.Notification, error) {
	var out []model.Notification
	for _, n := range m.saved {
		if n.RecipientID == recipientID {
			out = append(out, n)
		}
	}
	return out, nil
}

func (m *mockNotificationRepository) MarkRead(context.Context, string) error { return nil }
func (m *mockNotificationRepository) MarkAllRead(context.Context, string) (int, error) {
	return 0, nil
}
func (m *mockNotificationRepository) Delete(context.Context, string) error { return nil }
func (m *mockNotificationRepository) CountUnread(context.Context, string) (int, error) {
	return 0, nil
}

func (m *mockNotificationRepository) recipients() []string {
	out := make([]string, 0, len(m.saved))
	for _, n := range m.saved {
		out = append(out, n.RecipientID)
	}
	sort.Strings(out)
	return out
}

// mockTransactor runs fn directly; commits is the number of successful runs.
type mockTransactor struct {
	commits   int
	rollbacks int
}

func (m *mockTransactor) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if err := fn(ctx); err != nil {
		m.rollbacks++
		return err
	}
	m.commits++
	return nil
}

type mockEventPublisher struct {
	publishFunc     func(ctx context.Context, events ...event.DomainEvent) error
	publishedEvents []event.DomainEvent
}

func (m *mockEventPublisher) Publish(ctx context.Context, evts ...event.DomainEvent) error {
	if m.publishFunc != nil {
		return m.publishFunc(ctx, evts...)
	}
	m.publishedEvents = append(m.publishedEvents, evts...)
	return nil
}

func (m *mockEventPublisher) types() []string {
	out := make([]string, 0, len(m.publishedEvents))
	for _, e := range m.publishedEvents {
		out = append(out, e.EventType())
	}
	return out
}

type mockCreditScoreProvider struct {
	scoreFunc func(ctx context.Context, applicantID string) (int, error)
}

func (m *mockCreditScoreProvider) Score(ctx context.Context, applicantID string) (int, error) {
	if m.scoreFunc != nil {
		return m.scoreFunc(ctx, applicantID)
	}
	return 750, nil
}

func fixedScore(score int) *mockCreditScoreProvider {
	return &mockCreditScoreProvider{
		scoreFunc: func(context.Context, string) (int, error) { return score, nil },
	}
}

type mockEmailNotifier struct {
	err            error
	statusEmails   []port.LoanStatusEmail
	offerEmails    []port.LoanOfferEmail
	approvalEmails []port.ManagerApprovalEmail
	processEmails  []port.LoanProcessingEmail
}

func (m *mockEmailNotifier) SendLoanStatusEmail(_ context.Context, msg port.LoanStatusEmail) error {
	m.statusEmails = append(m.statusEmails, msg)
	return m.err
}

func (m *mockEmailNotifier) SendLoanOfferEmail(_ context.Context, msg port.LoanOfferEmail) error {
	m.offerEmails = append(m.offerEmails, msg)
	return m.err
}

func (m *mockEmailNotifier) SendManagerApprovalNeededEmail(_ context.Context, msg port.ManagerApprovalEmail) error {
	m.approvalEmails = append(m.approvalEmails, msg)
	return m.err
}

func (m *mockEmailNotifier) SendLoanProcessingEmail(_ context.Context, msg port.LoanProcessingEmail) error {
	m.processEmails = append(m.processEmails, msg)
	return m.err
}

type mockMetrics struct {
	verdicts    []string
	transitions []string
}

func (m *mockMetrics) RecordVerdict(v string)    { m.verdicts = append(m.verdicts, v) }
func (m *mockMetrics) RecordTransition(t string) { m.transitions = append(m.transitions, t) }

// --- Fixture ---

var (
	testNow  = time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)
	customer = model.Person{ID: "customer-1", FirstName: "Clara", LastName: "Kunde", Email: "clara@example.com", Role: valueobject.RoleCustomer}
	employee = model.Person{ID: "employee-1", FirstName: "Erika", LastName: "Muster", Email: "erika@example.com", Role: valueobject.RoleEmployee}
	manager1 = model.Person{ID: "manager-1", FirstName: "Max", LastName: "Mann", Email: "max@example.com", Role: valueobject.RoleManager}
	manager2 = model.Person{ID: "manager-2", FirstName: "Mia", LastName: "Maus", Email: "mia@example.com", Role: valueobject.RoleManager}
	admin    = model.Person{ID: "admin-1", FirstName: "Ada", LastName: "Admin", Email: "ada@example.com", Role: valueobject.RoleAdmin}
	director = model.Person{ID: "director-1", FirstName: "Dora", LastName: "Direktor", Role: valueobject.RoleDirector}
)

type fixture struct {
	apps          *mockApplicationRepository
	persons       *mockPersonRepository
	notifications *mockNotificationRepository
	tx            *mockTransactor
	publisher     *mockEventPublisher
	email         *mockEmailNotifier
	metrics       *mockMetrics
	tokens        *mockTokenIssuer
	deps          usecase.Dependencies
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))
}

func newFixture(t *testing.T, apps ...model.Application) *fixture {
	t.Helper()
	f := &fixture{
		apps:          newMockApplicationRepository(apps...),
		persons:       newMockPersonRepository(customer, employee, manager1, manager2, admin, director),
		notifications: &mockNotificationRepository{},
		tx:            &mockTransactor{},
		publisher:     &mockEventPublisher{},
		email:         &mockEmailNotifier{},
		metrics:       &mockMetrics{},
		tokens:        &mockTokenIssuer{},
	}
	f.deps = usecase.Dependencies{
		Applications: f.apps,
		Persons:      f.persons,
		Accounts:     f.persons,
		Tokens:       f.tokens,
		Tx:           f.tx,
		Publisher:    f.publisher,
		Email:        f.email,
		Dispatcher:   notification.NewDispatcher(f.notifications, f.persons, f.email, testLogger()),
		Metrics:      f.metrics,
		Logger:       testLogger(),
		Clock:        func() time.Time { return testNow },
	}
	return f
}
