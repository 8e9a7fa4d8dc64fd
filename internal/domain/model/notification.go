package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// NotificationType distinguishes actionable requests from plain information.
type NotificationType string

const (
	NotificationApprovalRequest NotificationType = "approval_request"
	NotificationInfo            NotificationType = "info"
)

// Notification is an in-app message to one recipient about one application.
type Notification struct {
	ID            string
	RecipientID   string
	SenderID      string // empty for messages raised by automatic underwriting
	ApplicationID string
	Message       string
	Type          NotificationType
	Read          bool
	CreatedAt     time.Time
}

// NewNotification creates an unread notification.
func NewNotification(recipientID, senderID, applicationID, message string, typ NotificationType, now time.Time) Notification {
	return Notification{
		ID:            uuid.New().String(),
		RecipientID:   recipientID,
		SenderID:      senderID,
		ApplicationID: applicationID,
		Message:       message,
		Type:          typ,
		CreatedAt:     now,
	}
}

// OwnedBy reports whether personID is the recipient.
func (n Notification) OwnedBy(personID string) bool {
	return n.RecipientID != "" && n.RecipientID == personID
}

// ApprovalRequestMessage is the text managers receive when an application is
// routed to them. A nil requester means the escalation came from underwriting.
func ApprovalRequestMessage(app Application, requester *Person) string {
	from := "Automatic underwriting"
	if requester != nil {
		from = requester.FullName()
	}
	return fmt.Sprintf("%s needs your approval for %s loan application #%s (%s)",
		from, app.LoanType(), app.ID(), app.RequestedAmount().StringFixed(2))
}

// ManagerDecisionMessage is the text the handling employee receives once a
// manager has decided.
func ManagerDecisionMessage(app Application, manager Person, approved bool) string {
	verdict := "rejected"
	if approved {
		verdict = "approved"
	}
	return fmt.Sprintf("%s has %s application #%s", manager.FullName(), verdict, app.ID())
}
