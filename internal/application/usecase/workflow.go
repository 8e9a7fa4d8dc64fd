package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/mustafa-shahin/lf10-project/internal/application/notification"
	"github.com/mustafa-shahin/lf10-project/internal/domain/apperr"
	"github.com/mustafa-shahin/lf10-project/internal/domain/model"
	"github.com/mustafa-shahin/lf10-project/internal/domain/port"
	"github.com/mustafa-shahin/lf10-project/internal/domain/valueobject"
)

// WorkflowMetrics receives counters for underwriting verdicts and lifecycle
// transitions.
type WorkflowMetrics interface {
	RecordVerdict(verdict string)
	RecordTransition(transition string)
}

type noopMetrics struct{}

func (noopMetrics) RecordVerdict(string)    {}
func (noopMetrics) RecordTransition(string) {}

// Dependencies bundles the collaborators shared by the lifecycle use cases.
type Dependencies struct {
	Applications port.ApplicationRepository
	Persons      port.PersonRepository
	Accounts     port.AccountRepository
	Tokens       port.TokenIssuer
	Tx           port.Transactor
	Publisher    port.EventPublisher
	Email        port.EmailNotifier
	Dispatcher   *notification.Dispatcher
	Metrics      WorkflowMetrics
	Logger       *slog.Logger
	Clock        func() time.Time
}

// workflow carries the shared steps of every transition.
type workflow struct {
	Dependencies
}

func newWorkflow(deps Dependencies) workflow {
	if deps.Metrics == nil {
		deps.Metrics = noopMetrics{}
	}
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.Clock == nil {
		deps.Clock = func() time.Time { return time.Now().UTC() }
	}
	return workflow{Dependencies: deps}
}

// authorize loads the acting person and re-checks the role against action.
func (w workflow) authorize(ctx context.Context, actorID string, action valueobject.Action) (model.Person, error) {
	actor, err := w.Persons.FindByID(ctx, actorID)
	if err != nil {
		if apperr.IsNotFound(err) {
			return model.Person{}, apperr.Authorization("unknown actor %s", actorID)
		}
		return model.Person{}, fmt.Errorf("load actor: %w", err)
	}
	if err := actor.Authorize(action); err != nil {
		return model.Person{}, err
	}
	return actor, nil
}

// transitionStep derives the next state of an application. Returning the
// input unchanged (same version) skips the write.
type transitionStep func(app model.Application) (model.Application, error)

// transition loads the application, applies step and writes the result with a
// compare-and-swap on the status it was loaded with, all in one transaction.
// Domain events are published after commit.
func (w workflow) transition(ctx context.Context, name, applicationID string, step transitionStep) (model.Application, error) {
	var before, after model.Application
	err := w.Tx.WithinTx(ctx, func(ctx context.Context) error {
		loaded, err := w.Applications.FindByID(ctx, applicationID)
		if err != nil {
			return fmt.Errorf("find application: %w", err)
		}
		next, err := step(loaded)
		if err != nil {
			return err
		}
		before, after = loaded, next
		if next.Version() == loaded.Version() {
			return nil
		}
		if err := w.Applications.Update(ctx, next, loaded.Status()); err != nil {
			return fmt.Errorf("update application: %w", err)
		}
		return nil
	})
	if err != nil {
		return model.Application{}, err
	}

	if after.Version() != before.Version() {
		w.Metrics.RecordTransition(name)
		w.Logger.Info("application transitioned",
			"transition", name,
			"application_id", after.ID(),
			"status", after.Status().String(),
			"decision", after.Decision().String(),
		)
	}
	w.publish(ctx, after)
	return after.ClearEvents(), nil
}

// publish is best-effort: the state change is already committed.
func (w workflow) publish(ctx context.Context, app model.Application) {
	evts := app.DomainEvents()
	if len(evts) == 0 || w.Publisher == nil {
		return
	}
	if err := w.Publisher.Publish(ctx, evts...); err != nil {
		w.Logger.Error("failed to publish domain events",
			"application_id", app.ID(),
			"events", len(evts),
			"error", err,
		)
	}
}

// applicant returns the owner of app, or false when it cannot be loaded.
func (w workflow) applicant(ctx context.Context, app model.Application) (model.Person, bool) {
	p, err := w.Persons.FindByID(ctx, app.ApplicantID())
	if err != nil {
		w.Logger.Error("failed to load applicant",
			"application_id", app.ID(),
			"applicant_id", app.ApplicantID(),
			"error", err,
		)
		return model.Person{}, false
	}
	return p, p.Email != ""
}

func (w workflow) sendStatusEmail(ctx context.Context, app model.Application) {
	if w.Email == nil {
		return
	}
	customer, ok := w.applicant(ctx, app)
	if !ok {
		return
	}
	err := w.Email.SendLoanStatusEmail(ctx, port.LoanStatusEmail{
		To:            customer.Email,
		Name:          customer.FirstName,
		ApplicationID: app.ID(),
		Date:          app.CreatedAt(),
		LoanType:      app.LoanType().String(),
		Status:        app.Status().String(),
		Reason:        app.Reason(),
	})
	w.logEmailFailure(app, "status", err)
}

func (w workflow) sendOfferEmail(ctx context.Context, app model.Application) bool {
	if w.Email == nil {
		return false
	}
	customer, ok := w.applicant(ctx, app)
	if !ok {
		return false
	}
	err := w.Email.SendLoanOfferEmail(ctx, port.LoanOfferEmail{
		To:             customer.Email,
		Name:           customer.FirstName,
		ApplicationID:  app.ID(),
		LoanType:       app.LoanType().String(),
		Amount:         app.RequestedAmount(),
		InterestRate:   app.InterestRate(),
		MonthlyPayment: app.MonthlyPayment(),
		TermYears:      app.TermYears(),
	})
	w.logEmailFailure(app, "offer", err)
	return err == nil
}

func (w workflow) sendProcessingEmail(ctx context.Context, app model.Application, handler model.Person) {
	if w.Email == nil {
		return
	}
	customer, ok := w.applicant(ctx, app)
	if !ok {
		return
	}
	err := w.Email.SendLoanProcessingEmail(ctx, port.LoanProcessingEmail{
		To:            customer.Email,
		Name:          customer.FirstName,
		ApplicationID: app.ID(),
		LoanType:      app.LoanType().String(),
		HandlerName:   handler.FullName(),
	})
	w.logEmailFailure(app, "processing", err)
}

func (w workflow) logEmailFailure(app model.Application, kind string, err error) {
	if err == nil {
		return
	}
	w.Logger.Error("failed to send email",
		"kind", kind,
		"application_id", app.ID(),
		"error", err,
	)
}

// notifyManagers swallows dispatcher failures; the decision is already recorded.
func (w workflow) notifyManagers(ctx context.Context, app model.Application, requester *model.Person) {
	if w.Dispatcher == nil {
		return
	}
	if _, err := w.Dispatcher.NotifyManagersForApproval(ctx, app, requester); err != nil {
		w.Logger.Error("failed to notify managers",
			"application_id", app.ID(),
			"error", err,
		)
	}
}
