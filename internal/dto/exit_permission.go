package dto

import "time"

// CreateExitPermissionRequest describes the exit permission payload.
type CreateExitPermissionRequest struct {
	StartAt time.Time `json:"start_at" validate:"required"`
	EndAt   time.Time `json:"end_at" validate:"required"`
	Reason  string    `json:"reason"`
}

// ExitPermissionQuery filters exit permission listings.
type ExitPermissionQuery struct {
	Status string `form:"status"`
	Limit  int    `form:"limit"`
	Offset int    `form:"offset"`
}
