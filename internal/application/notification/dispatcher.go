// Package notification fans workflow events out to the people who have to act
// on them, as in-app notifications and best-effort emails.
package notification

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/samber/lo"

	"github.com/mustafa-shahin/lf10-project/internal/domain/apperr"
	"github.com/mustafa-shahin/lf10-project/internal/domain/model"
	"github.com/mustafa-shahin/lf10-project/internal/domain/port"
	"github.com/mustafa-shahin/lf10-project/internal/domain/valueobject"
)

// Dispatcher creates and manages in-app notifications.
type Dispatcher struct {
	notifications port.NotificationRepository
	persons       port.PersonRepository
	email         port.EmailNotifier
	logger        *slog.Logger
	now           func() time.Time
}

// NewDispatcher wires dependencies. email may be nil, in which case managers
// only receive in-app notifications.
func NewDispatcher(
	notifications port.NotificationRepository,
	persons port.PersonRepository,
	email port.EmailNotifier,
	logger *slog.Logger,
) *Dispatcher {
	return &Dispatcher{
		notifications: notifications,
		persons:       persons,
		email:         email,
		logger:        logger,
		now:           func() time.Time { return time.Now().UTC() },
	}
}

// NotifyManagersForApproval creates one approval request per manager and
// returns the new notification IDs. A nil requester marks the request as
// raised by automatic underwriting. Having no managers is logged, not failed.
func (d *Dispatcher) NotifyManagersForApproval(
	ctx context.Context,
	app model.Application,
	requester *model.Person,
) ([]string, error) {
	managers, err := d.persons.ListByRole(ctx, valueobject.RoleManager)
	if err != nil {
		return nil, fmt.Errorf("list managers: %w", err)
	}
	if len(managers) == 0 {
		d.logger.Warn("no managers to notify", "application_id", app.ID())
		return nil, nil
	}

	senderID := ""
	requesterName := "Automatic underwriting"
	if requester != nil {
		senderID = requester.ID
		requesterName = requester.FullName()
	}
	message := model.ApprovalRequestMessage(app, requester)
	now := d.now()

	ids := make([]string, 0, len(managers))
	for _, manager := range managers {
		n := model.NewNotification(manager.ID, senderID, app.ID(), message, model.NotificationApprovalRequest, now)
		if err := d.notifications.Save(ctx, n); err != nil {
			return ids, fmt.Errorf("save notification for manager %s: %w", manager.ID, err)
		}
		ids = append(ids, n.ID)
	}

	d.emailManagers(ctx, app, managers, requesterName)

	d.logger.Info("managers notified for approval",
		"application_id", app.ID(),
		"managers", len(managers),
	)
	return ids, nil
}

func (d *Dispatcher) emailManagers(ctx context.Context, app model.Application, managers []model.Person, requesterName string) {
	if d.email == nil {
		return
	}
	for _, manager := range managers {
		if manager.Email == "" {
			continue
		}
		err := d.email.SendManagerApprovalNeededEmail(ctx, port.ManagerApprovalEmail{
			To:            manager.Email,
			ManagerName:   manager.FirstName,
			RequesterName: requesterName,
			ApplicationID: app.ID(),
			LoanType:      app.LoanType().String(),
			Amount:        app.RequestedAmount(),
			CreditScore:   app.CreditScore(),
		})
		if err != nil {
			d.logger.Error("failed to send manager approval email",
				"application_id", app.ID(),
				"manager_id", manager.ID,
				"error", err,
			)
		}
	}
}

// NotifyEmployeeOfManagerDecision tells the employee handling the application
// how the manager decided. It returns the notification ID, or "" when nobody
// handles the application.
func (d *Dispatcher) NotifyEmployeeOfManagerDecision(
	ctx context.Context,
	app model.Application,
	manager model.Person,
	employeeID string,
	approved bool,
) (string, error) {
	if employeeID == "" {
		d.logger.Info("no handling employee to notify", "application_id", app.ID())
		return "", nil
	}
	n := model.NewNotification(
		employeeID, manager.ID, app.ID(),
		model.ManagerDecisionMessage(app, manager, approved),
		model.NotificationInfo, d.now(),
	)
	if err := d.notifications.Save(ctx, n); err != nil {
		return "", fmt.Errorf("save notification: %w", err)
	}
	return n.ID, nil
}

// MarkAsRead marks a notification read for its recipient. It returns false
// when the notification does not exist or belongs to someone else, and true
// when it is (or already was) read.
func (d *Dispatcher) MarkAsRead(ctx context.Context, notificationID, actorID string) (bool, error) {
	n, ok, err := d.owned(ctx, notificationID, actorID)
	if err != nil || !ok {
		return false, err
	}
	if n.Read {
		return true, nil
	}
	if err := d.notifications.MarkRead(ctx, n.ID); err != nil {
		return false, fmt.Errorf("mark read: %w", err)
	}
	return true, nil
}

// MarkAllAsRead marks every unread notification of the actor and returns how
// many changed.
func (d *Dispatcher) MarkAllAsRead(ctx context.Context, actorID string) (int, error) {
	count, err := d.notifications.MarkAllRead(ctx, actorID)
	if err != nil {
		return 0, fmt.Errorf("mark all read: %w", err)
	}
	return count, nil
}

// Delete removes a notification owned by the actor. It returns false when the
// notification does not exist or belongs to someone else.
func (d *Dispatcher) Delete(ctx context.Context, notificationID, actorID string) (bool, error) {
	n, ok, err := d.owned(ctx, notificationID, actorID)
	if err != nil || !ok {
		return false, err
	}
	if err := d.notifications.Delete(ctx, n.ID); err != nil {
		return false, fmt.Errorf("delete notification: %w", err)
	}
	return true, nil
}

// ListForUser returns the actor's notifications, newest first.
func (d *Dispatcher) ListForUser(ctx context.Context, actorID string, unreadOnly bool) ([]model.Notification, error) {
	list, err := d.notifications.ListForRecipient(ctx, actorID, unreadOnly)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	list = lo.Filter(list, func(n model.Notification, _ int) bool { return n.OwnedBy(actorID) })
	slices.SortStableFunc(list, func(a, b model.Notification) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return list, nil
}

// UnreadCount returns the number of unread notifications of the actor.
func (d *Dispatcher) UnreadCount(ctx context.Context, actorID string) (int, error) {
	count, err := d.notifications.CountUnread(ctx, actorID)
	if err != nil {
		return 0, fmt.Errorf("count unread: %w", err)
	}
	return count, nil
}

func (d *Dispatcher) owned(ctx context.Context, notificationID, actorID string) (model.Notification, bool, error) {
	n, err := d.notifications.FindByID(ctx, notificationID)
	if err != nil {
		if apperr.IsNotFound(err) {
			return model.Notification{}, false, nil
		}
		return model.Notification{}, false, fmt.Errorf("find notification: %w", err)
	}
	if !n.OwnedBy(actorID) {
		d.logger.Warn("notification not owned by actor",
			"notification_id", notificationID,
			"actor_id", actorID,
		)
		return model.Notification{}, false, nil
	}
	return n, true, nil
}
