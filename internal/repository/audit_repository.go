package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/maher-jaber/rh-altra-api/internal/models"
)

// AuditRepository appends workflow trail entries. Rows are never updated.
type AuditRepository struct {
	db *sqlx.DB
}

// NewAuditRepository constructs the repository.
func NewAuditRepository(db *sqlx.DB) *AuditRepository {
	return &AuditRepository{db: db}
}

// Create appends one audit entry.
func (r *AuditRepository) Create(ctx context.Context, entry *models.AuditEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO audit_entries (id, request_id, request_kind, action, actor_id, comment, created_at)
		VALUES (:id, :request_id, :request_kind, :action, :actor_id, :comment, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, entry); err != nil {
		return fmt.Errorf("create audit entry: %w", err)
	}
	return nil
}

// ListByRequest returns the trail for one request, newest first.
func (r *AuditRepository) ListByRequest(ctx context.Context, requestID string) ([]models.AuditEntry, error) {
	const query = `SELECT id, request_id, request_kind, action, actor_id, comment, created_at
		FROM audit_entries WHERE request_id = $1 ORDER BY created_at DESC`
	var entries []models.AuditEntry
	if err := r.db.SelectContext(ctx, &entries, query, requestID); err != nil {
		return nil, fmt.Errorf("list audit entries: %w", err)
	}
	return entries, nil
}
