package domain

import "time"

type NotificationKind string

const (
	NotifyQuoteReceived  NotificationKind = "quote_received"
	NotifyQuoteAccepted  NotificationKind = "quote_accepted"
	NotifyQuoteRejected  NotificationKind = "quote_rejected"
	NotifyPaymentDone    NotificationKind = "payment_succeeded"
	NotifyReviewReceived NotificationKind = "review_received"
	NotifyNewMessage     NotificationKind = "new_message"
)

type Notification struct {
	ID        int64
	UserID    int64
	Kind      NotificationKind
	Payload   []byte // kind-specific JSON
	Read      bool
	Queued    bool // pending pickup by the fanout worker
	CreatedAt time.Time
}

type NotificationsPage struct {
	Items []Notification
	Meta  PageMeta
}
