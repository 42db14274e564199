package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// LeaveType is admin-maintained reference data. An annual allowance of zero
// means the type is uncapped (e.g. unpaid leave) and never fails balance checks.
type LeaveType struct {
	ID                  string          `db:"id" json:"id"`
	Code                string          `db:"code" json:"code"`
	Label               string          `db:"label" json:"label"`
	AnnualAllowance     decimal.Decimal `db:"annual_allowance" json:"annual_allowance"`
	RequiresCertificate bool            `db:"requires_certificate" json:"requires_certificate"`
	CreatedAt           time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt           time.Time       `db:"updated_at" json:"updated_at"`
}

// Uncapped reports whether the type has no annual quota.
func (t *LeaveType) Uncapped() bool {
	return t.AnnualAllowance.IsZero()
}

// LeaveRequest is the dual-tier request aggregate. Days always equals the
// working-day count over [StartDate, EndDate] minus the half-day adjustment.
type LeaveRequest struct {
	RequestCore
	LeaveTypeID     string          `db:"leave_type_id" json:"leave_type_id"`
	StartDate       time.Time       `db:"start_date" json:"start_date"`
	EndDate         time.Time       `db:"end_date" json:"end_date"`
	Days            decimal.Decimal `db:"days" json:"days"`
	HalfDay         bool            `db:"half_day" json:"half_day"`
	Reason          *string         `db:"reason" json:"reason,omitempty"`
	CertificatePath *string         `db:"certificate_path" json:"certificate_path,omitempty"`
}

// LeaveFilter constrains leave listing queries.
type LeaveFilter struct {
	RequesterID string
	ApproverID  string
	Status      []RequestStatus
	LeaveTypeID string
	Year        int
	Limit       int
	Offset      int
}
