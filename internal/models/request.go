package models

import "time"

// RequestStatus enumerates the workflow states shared by every request kind.
type RequestStatus string

const (
	StatusDraft           RequestStatus = "DRAFT"
	StatusSubmitted       RequestStatus = "SUBMITTED"
	StatusManagerApproved RequestStatus = "MANAGER_APPROVED"
	StatusApproved        RequestStatus = "APPROVED"
	StatusRejected        RequestStatus = "REJECTED"
	StatusCancelled       RequestStatus = "CANCELLED"
)

// IsTerminal reports whether no further transition is legal from the status.
func (s RequestStatus) IsTerminal() bool {
	return s == StatusApproved || s == StatusRejected || s == StatusCancelled
}

// Decision is an approver's verdict on a pending tier.
type Decision string

const (
	DecisionApprove Decision = "APPROVE"
	DecisionReject  Decision = "REJECT"
)

// RequestKind distinguishes the three request aggregates sharing the workflow.
type RequestKind string

const (
	KindLeave          RequestKind = "LEAVE"
	KindAdvance        RequestKind = "ADVANCE"
	KindExitPermission RequestKind = "EXIT_PERMISSION"
)

// RequestCore carries the workflow fields common to every request kind.
// Approver references are resolved from the requester's manager assignment at
// creation time and are never rewritten once a decision is recorded against them.
type RequestCore struct {
	ID              string        `db:"id" json:"id"`
	RequesterID     string        `db:"requester_id" json:"requester_id"`
	ManagerID       *string       `db:"manager_id" json:"manager_id,omitempty"`
	Manager2ID      *string       `db:"manager2_id" json:"manager2_id,omitempty"`
	Status          RequestStatus `db:"status" json:"status"`
	ManagerComment  *string       `db:"manager_comment" json:"manager_comment,omitempty"`
	Manager2Comment *string       `db:"manager2_comment" json:"manager2_comment,omitempty"`
	FinalComment    *string       `db:"final_comment" json:"final_comment,omitempty"`
	ManagerDecideBy *string       `db:"manager_decided_by" json:"manager_decided_by,omitempty"`
	ManagerDecideAt *time.Time    `db:"manager_decided_at" json:"manager_decided_at,omitempty"`
	FinalDecideBy   *string       `db:"final_decided_by" json:"final_decided_by,omitempty"`
	FinalDecideAt   *time.Time    `db:"final_decided_at" json:"final_decided_at,omitempty"`
	SignerName      *string       `db:"signer_name" json:"signer_name,omitempty"`
	SignedAt        *time.Time    `db:"signed_at" json:"signed_at,omitempty"`
	CreatedAt       time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time     `db:"updated_at" json:"updated_at"`
}

// IsApprover reports whether the given user id occupies one of the two
// manager-tier slots. Either slot satisfies the tier on its own.
func (c *RequestCore) IsApprover(userID string) bool {
	if c.ManagerID != nil && *c.ManagerID == userID {
		return true
	}
	if c.Manager2ID != nil && *c.Manager2ID == userID {
		return true
	}
	return false
}
