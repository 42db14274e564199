package dto

import "time"

// CreateLeaveRequest describes the leave creation payload.
type CreateLeaveRequest struct {
	LeaveTypeID string    `json:"leave_type_id" validate:"required"`
	StartDate   time.Time `json:"start_date" validate:"required"`
	EndDate     time.Time `json:"end_date" validate:"required"`
	HalfDay     bool      `json:"half_day"`
	Reason      string    `json:"reason"`
}

// AttachCertificateRequest links an uploaded supporting document.
type AttachCertificateRequest struct {
	Path string `json:"path" validate:"required"`
}

// LeaveQuery filters leave listings.
type LeaveQuery struct {
	Status      string `form:"status"`
	LeaveTypeID string `form:"leave_type_id"`
	Year        int    `form:"year"`
	Limit       int    `form:"limit"`
	Offset      int    `form:"offset"`
}

// BalanceResponse reports consumed and remaining allowance for one type/year.
type BalanceResponse struct {
	LeaveTypeID string  `json:"leave_type_id"`
	Year        int     `json:"year"`
	Allowance   string  `json:"allowance"`
	UsedDays    string  `json:"used_days"`
	Remaining   *string `json:"remaining,omitempty"`
	Uncapped    bool    `json:"uncapped"`
}

// UpsertLeaveTypeRequest creates or updates reference data.
type UpsertLeaveTypeRequest struct {
	Code                string `json:"code" validate:"required"`
	Label               string `json:"label" validate:"required"`
	AnnualAllowance     string `json:"annual_allowance" validate:"required"`
	RequiresCertificate bool   `json:"requires_certificate"`
}

// CreateHolidayRequest registers a non-working date.
type CreateHolidayRequest struct {
	Date  time.Time `json:"date" validate:"required"`
	Label string    `json:"label" validate:"required"`
}
