package models

import "time"

// NotificationCategory buckets notifications for preference resolution.
type NotificationCategory string

const (
	CategoryRequestSubmitted NotificationCategory = "REQUEST_SUBMITTED"
	CategoryRequestDecided   NotificationCategory = "REQUEST_DECIDED"
	CategoryRequestFinalized NotificationCategory = "REQUEST_FINALIZED"
	CategoryRequestCancelled NotificationCategory = "REQUEST_CANCELLED"
)

// Notification is an in-app inbox row created by the dispatcher; only the
// recipient mutates it, and only to mark it read.
type Notification struct {
	ID          string               `db:"id" json:"id"`
	RecipientID string               `db:"recipient_id" json:"recipient_id"`
	Category    NotificationCategory `db:"category" json:"category"`
	Title       string               `db:"title" json:"title"`
	Body        string               `db:"body" json:"body"`
	DeepLink    *string              `db:"deep_link" json:"deep_link,omitempty"`
	Payload     []byte               `db:"payload" json:"payload,omitempty"`
	Read        bool                 `db:"read" json:"read"`
	CreatedAt   time.Time            `db:"created_at" json:"created_at"`
}

// NotificationFilter constrains inbox queries.
type NotificationFilter struct {
	RecipientID string
	UnreadOnly  bool
	Limit       int
	Offset      int
}
