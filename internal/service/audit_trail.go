package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/maher-jaber/rh-altra-api/internal/models"
	appErrors "github.com/maher-jaber/rh-altra-api/pkg/errors"
)

type auditStore interface {
	Create(ctx context.Context, entry *models.AuditEntry) error
	ListByRequest(ctx context.Context, requestID string) ([]models.AuditEntry, error)
}

// AuditTrail appends workflow trail entries. Recording is best-effort
// observability: a storage failure is logged and never fails the caller.
type AuditTrail struct {
	repo   auditStore
	logger *zap.Logger
}

// NewAuditTrail constructs the recorder.
func NewAuditTrail(repo auditStore, logger *zap.Logger) *AuditTrail {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuditTrail{repo: repo, logger: logger}
}

// Record appends one entry for a workflow action.
func (t *AuditTrail) Record(ctx context.Context, requestID string, kind models.RequestKind, action, actorID string, comment *string) {
	entry := &models.AuditEntry{
		RequestID:   requestID,
		RequestKind: kind,
		Action:      action,
		ActorID:     actorID,
		Comment:     comment,
	}
	if err := t.repo.Create(ctx, entry); err != nil {
		t.logger.Warn("failed to persist audit entry",
			zap.String("request_id", requestID),
			zap.String("action", action),
			zap.Error(err))
	}
}

// List returns the trail for one request, newest first.
func (t *AuditTrail) List(ctx context.Context, requestID string) ([]models.AuditEntry, error) {
	entries, err := t.repo.ListByRequest(ctx, requestID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list audit entries")
	}
	return entries, nil
}
