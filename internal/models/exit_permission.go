package models

import "time"

// ExitPermission covers leaving the premises during working hours.
// Single approval tier, timestamps rather than dates.
type ExitPermission struct {
	RequestCore
	StartAt time.Time `db:"start_at" json:"start_at"`
	EndAt   time.Time `db:"end_at" json:"end_at"`
	Reason  *string   `db:"reason" json:"reason,omitempty"`
}

// Hours returns the requested duration in hours.
func (e *ExitPermission) Hours() float64 {
	return e.EndAt.Sub(e.StartAt).Hours()
}

// ExitPermissionFilter constrains listing queries.
type ExitPermissionFilter struct {
	RequesterID string
	ApproverID  string
	Status      []RequestStatus
	Limit       int
	Offset      int
}
