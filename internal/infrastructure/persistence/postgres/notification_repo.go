package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/mustafa-shahin/lf10-project/internal/domain/apperr"
	"github.com/mustafa-shahin/lf10-project/internal/domain/model"
	pkgpostgres "github.com/mustafa-shahin/lf10-project/pkg/postgres"
)

// NotificationRepo implements port.NotificationRepository.
type NotificationRepo struct {
	db pkgpostgres.Querier
}

// NewNotificationRepo creates a new repository backed by PostgreSQL.
func NewNotificationRepo(db pkgpostgres.Querier) *NotificationRepo {
	return &NotificationRepo{db: db}
}

const notificationColumns = `id, recipient_id, sender_id, application_id, message, type, read, created_at`

// Save inserts a notification.
func (r *NotificationRepo) Save(ctx context.Context, n model.Notification) error {
	_, err := pkgpostgres.QuerierFromContext(ctx, r.db).Exec(ctx,
		`INSERT INTO notifications (`+notificationColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		n.ID, n.RecipientID, nullable(n.SenderID), n.ApplicationID, n.Message, string(n.Type), n.Read, n.CreatedAt,
	)
	if err != nil {
		return translateError(err, "notification %s", n.ID)
	}
	return nil
}

// FindByID retrieves a notification.
func (r *NotificationRepo) FindByID(ctx context.Context, id string) (model.Notification, error) {
	row := pkgpostgres.QuerierFromContext(ctx, r.db).QueryRow(ctx,
		`SELECT `+notificationColumns+` FROM notifications WHERE id = $1`, id)
	n, err := scanNotification(row)
	if err != nil {
		return model.Notification{}, translateError(err, "notification %s", id)
	}
	return n, nil
}

// ListForRecipient returns the recipient's notifications, newest first.
func (r *NotificationRepo) ListForRecipient(ctx context.Context, recipientID string, unreadOnly bool) ([]model.Notification, error) {
	query := `SELECT ` + notificationColumns + ` FROM notifications WHERE recipient_id = $1`
	if unreadOnly {
		query += ` AND NOT read`
	}
	query += ` ORDER BY created_at DESC, id`

	rows, err := pkgpostgres.QuerierFromContext(ctx, r.db).Query(ctx, query, recipientID)
	if err != nil {
		return nil, fmt.Errorf("query notifications: %w", err)
	}
	defer rows.Close()

	var result []model.Notification
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, fmt.Errorf("scan notification: %w", err)
		}
		result = append(result, n)
	}
	return result, rows.Err()
}

// MarkRead flags one notification as read.
func (r *NotificationRepo) MarkRead(ctx context.Context, id string) error {
	tag, err := pkgpostgres.QuerierFromContext(ctx, r.db).Exec(ctx,
		`UPDATE notifications SET read = TRUE WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("mark notification %s read: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("notification %s not found", id)
	}
	return nil
}

// MarkAllRead flags every unread notification of the recipient and returns
// how many changed.
func (r *NotificationRepo) MarkAllRead(ctx context.Context, recipientID string) (int, error) {
	tag, err := pkgpostgres.QuerierFromContext(ctx, r.db).Exec(ctx,
		`UPDATE notifications SET read = TRUE WHERE recipient_id = $1 AND NOT read`, recipientID)
	if err != nil {
		return 0, fmt.Errorf("mark notifications read: %w", err)
	}
	return int(tag.RowsAffected()), nil
}

// Delete removes a notification.
func (r *NotificationRepo) Delete(ctx context.Context, id string) error {
	tag, err := pkgpostgres.QuerierFromContext(ctx, r.db).Exec(ctx,
		`DELETE FROM notifications WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete notification %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("notification %s not found", id)
	}
	return nil
}

// CountUnread returns the number of unread notifications of the recipient.
func (r *NotificationRepo) CountUnread(ctx context.Context, recipientID string) (int, error) {
	var count int
	err := pkgpostgres.QuerierFromContext(ctx, r.db).QueryRow(ctx,
		`SELECT count(*) FROM notifications WHERE recipient_id = $1 AND NOT read`, recipientID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count unread notifications: %w", err)
	}
	return count, nil
}

func scanNotification(s scannable) (model.Notification, error) {
	var (
		n         model.Notification
		senderID  *string
		typ       string
		createdAt time.Time
	)
	err := s.Scan(&n.ID, &n.RecipientID, &senderID, &n.ApplicationID, &n.Message, &typ, &n.Read, &createdAt)
	if err != nil {
		return model.Notification{}, err
	}
	n.SenderID = stringOrEmpty(senderID)
	n.Type = model.NotificationType(typ)
	n.CreatedAt = createdAt.UTC()
	return n, nil
}
