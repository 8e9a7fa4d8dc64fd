package port

import (
	"context"

	"github.com/mustafa-shahin/lf10-project/internal/domain/event"
	"github.com/mustafa-shahin/lf10-project/internal/domain/model"
	"github.com/mustafa-shahin/lf10-project/internal/domain/valueobject"
)

// ---------------------------------------------------------------------------
// Repository ports (driven/secondary adapters)
// ---------------------------------------------------------------------------

// ApplicationFilter narrows ListApplications. Zero fields do not filter.
type ApplicationFilter struct {
	ApplicantID string
	Status      valueobject.ApplicationStatus
	Limit       int
	Offset      int
}

// ApplicationRepository persists and retrieves loan applications.
type ApplicationRepository interface {
	Insert(ctx context.Context, app model.Application) error
	// Update writes app only if the stored row still has expectedStatus and
	// the version app was derived from. Otherwise it returns an
	// apperr.ErrConflict error and writes nothing.
	Update(ctx context.Context, app model.Application, expectedStatus valueobject.ApplicationStatus) error
	FindByID(ctx context.Context, id string) (model.Application, error)
	List(ctx context.Context, filter ApplicationFilter) ([]model.Application, error)
}

// PersonRepository reads people and their roles.
type PersonRepository interface {
	FindByID(ctx context.Context, id string) (model.Person, error)
	ListByRole(ctx context.Context, role valueobject.Role) ([]model.Person, error)
	UpdateRole(ctx context.Context, id string, role valueobject.Role) error
}

// AccountRepository stores people together with their login secret.
type AccountRepository interface {
	// Create fails with an apperr.ErrConflict error when the email is taken.
	Create(ctx context.Context, p model.Person, passwordHash string) error
	// FindByEmail matches case-insensitively and returns the stored hash,
	// which is empty for people who never registered a password.
	FindByEmail(ctx context.Context, email string) (model.Person, string, error)
	Count(ctx context.Context) (int, error)
}

// NotificationRepository persists in-app notifications.
type NotificationRepository interface {
	Save(ctx context.Context, n model.Notification) error
	FindByID(ctx context.Context, id string) (model.Notification, error)
	// ListForRecipient returns newest first.
	ListForRecipient(ctx context.Context, recipientID string, unreadOnly bool) ([]model.Notification, error)
	MarkRead(ctx context.Context, id string) error
	MarkAllRead(ctx context.Context, recipientID string) (int, error)
	Delete(ctx context.Context, id string) error
	CountUnread(ctx context.Context, recipientID string) (int, error)
}

// Transactor runs fn in one unit of work. Repositories called with the ctx
// handed to fn take part in it; fn's error rolls everything back.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// ---------------------------------------------------------------------------
// Event publisher port
// ---------------------------------------------------------------------------

// EventPublisher publishes domain events to external consumers.
type EventPublisher interface {
	Publish(ctx context.Context, events ...event.DomainEvent) error
}

// ---------------------------------------------------------------------------
// External service ports
// ---------------------------------------------------------------------------

// CreditScoreProvider yields a creditworthiness score in [0, 1000].
type CreditScoreProvider interface {
	Score(ctx context.Context, applicantID string) (int, error)
}

// TokenIssuer signs access tokens for authenticated people.
type TokenIssuer interface {
	GenerateToken(personID, role string) (string, error)
}
