package models

import "time"

// AuditAction constants tag workflow trail entries.
const (
	AuditActionCreate           = "CREATE"
	AuditActionSubmit           = "SUBMIT"
	AuditActionManagerApprove   = "MANAGER_APPROVE"
	AuditActionManagerReject    = "MANAGER_REJECT"
	AuditActionFinalApprove     = "FINAL_APPROVE"
	AuditActionFinalReject      = "FINAL_REJECT"
	AuditActionCancel           = "CANCEL"
	AuditActionSign             = "SIGN_HR"
	AuditActionUploadAttachment = "UPLOAD_ATTACHMENT"
	AuditActionArchive          = "ARCHIVE"
)

// AuditEntry is an append-only trail record keyed by request. Entries are
// never updated or deleted once written.
type AuditEntry struct {
	ID          string      `db:"id" json:"id"`
	RequestID   string      `db:"request_id" json:"request_id"`
	RequestKind RequestKind `db:"request_kind" json:"request_kind"`
	Action      string      `db:"action" json:"action"`
	ActorID     string      `db:"actor_id" json:"actor_id"`
	Comment     *string     `db:"comment" json:"comment,omitempty"`
	CreatedAt   time.Time   `db:"created_at" json:"created_at"`
}
