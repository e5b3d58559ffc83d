package relationship

import "context"

// EventType names a notification sent to a user.
type EventType string

const (
	EventFriendRequestReceived EventType = "friend_request.received"
	EventFriendRequestAccepted EventType = "friend_request.accepted"
	EventDateProposed          EventType = "date.proposed"
	EventDateApproved          EventType = "date.approved"
	EventDateRejected          EventType = "date.rejected"
)

// Event is delivered to UserID after a mutation has been persisted.
type Event struct {
	Type    EventType
	UserID  uint
	Email   string
	Payload any
}

// Notifier receives events. Delivery is best effort and must not block.
type Notifier interface {
	Notify(ctx context.Context, ev Event)
}

type noopNotifier struct{}

func (noopNotifier) Notify(context.Context, Event) {}
