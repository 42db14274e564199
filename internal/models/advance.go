package models

import "github.com/shopspring/decimal"

// AdvanceRequest asks for a salary advance. Single approval tier: the manager
// (or an administrator) decision is terminal.
type AdvanceRequest struct {
	RequestCore
	Amount      decimal.Decimal `db:"amount" json:"amount"`
	Currency    string          `db:"currency" json:"currency"`
	Reason      *string         `db:"reason" json:"reason,omitempty"`
	PeriodYear  *int            `db:"period_year" json:"period_year,omitempty"`
	PeriodMonth *int            `db:"period_month" json:"period_month,omitempty"`
}

// AdvanceFilter constrains advance listing queries.
type AdvanceFilter struct {
	RequesterID string
	ApproverID  string
	Status      []RequestStatus
	Limit       int
	Offset      int
}
