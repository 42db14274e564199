package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/maher-jaber/rh-altra-api/internal/models"
)

const advanceColumns = `id, requester_id, manager_id, manager2_id, status,
	manager_comment, manager2_comment, final_comment,
	manager_decided_by, manager_decided_at, final_decided_by, final_decided_at,
	signer_name, signed_at, created_at, updated_at,
	amount, currency, reason, period_year, period_month`

// AdvanceRequestRepository persists single-tier salary advance requests.
type AdvanceRequestRepository struct {
	db *sqlx.DB
}

// NewAdvanceRequestRepository constructs the repository.
func NewAdvanceRequestRepository(db *sqlx.DB) *AdvanceRequestRepository {
	return &AdvanceRequestRepository{db: db}
}

// Create inserts a new advance row.
func (r *AdvanceRequestRepository) Create(ctx context.Context, advance *models.AdvanceRequest) error {
	if advance.ID == "" {
		advance.ID = uuid.NewString()
	}
	if advance.Status == "" {
		advance.Status = models.StatusDraft
	}
	now := time.Now().UTC()
	if advance.CreatedAt.IsZero() {
		advance.CreatedAt = now
	}
	advance.UpdatedAt = now

	const query = `INSERT INTO advance_requests (` + advanceColumns + `)
		VALUES (:id, :requester_id, :manager_id, :manager2_id, :status,
		:manager_comment, :manager2_comment, :final_comment,
		:manager_decided_by, :manager_decided_at, :final_decided_by, :final_decided_at,
		:signer_name, :signed_at, :created_at, :updated_at,
		:amount, :currency, :reason, :period_year, :period_month)`
	if _, err := r.db.NamedExecContext(ctx, query, advance); err != nil {
		return fmt.Errorf("create advance request: %w", err)
	}
	return nil
}

// GetByID fetches an advance request by identifier.
func (r *AdvanceRequestRepository) GetByID(ctx context.Context, id string) (*models.AdvanceRequest, error) {
	query := `SELECT ` + advanceColumns + ` FROM advance_requests WHERE id = $1`
	var advance models.AdvanceRequest
	if err := r.db.GetContext(ctx, &advance, query, id); err != nil {
		return nil, err
	}
	return &advance, nil
}

// GetCore returns the workflow core for the state machine.
func (r *AdvanceRequestRepository) GetCore(ctx context.Context, id string) (*models.RequestCore, error) {
	advance, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	core := advance.RequestCore
	return &core, nil
}

// Transition applies a guarded workflow status update.
func (r *AdvanceRequestRepository) Transition(ctx context.Context, params TransitionParams) error {
	return applyTransition(ctx, r.db, "advance_requests", params)
}

// List returns advance requests matching the filter, newest first.
func (r *AdvanceRequestRepository) List(ctx context.Context, filter models.AdvanceFilter) ([]models.AdvanceRequest, error) {
	builder := strings.Builder{}
	args := make([]interface{}, 0, 4)
	builder.WriteString(`SELECT ` + advanceColumns + ` FROM advance_requests`)

	conditions := make([]string, 0, 3)
	if filter.RequesterID != "" {
		args = append(args, filter.RequesterID)
		conditions = append(conditions, fmt.Sprintf("requester_id = $%d", len(args)))
	}
	if filter.ApproverID != "" {
		args = append(args, filter.ApproverID)
		conditions = append(conditions, fmt.Sprintf("(manager_id = $%d OR manager2_id = $%d)", len(args), len(args)))
	}
	if len(filter.Status) > 0 {
		conditions = append(conditions, fmt.Sprintf("status IN (%s)", statusPlaceholders(filter.Status, &args)))
	}
	if len(conditions) > 0 {
		builder.WriteString(" WHERE ")
		builder.WriteString(strings.Join(conditions, " AND "))
	}
	builder.WriteString(" ORDER BY created_at DESC")

	limit := filter.Limit
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}
	builder.WriteString(fmt.Sprintf(" LIMIT %d OFFSET %d", limit, offset))

	var requests []models.AdvanceRequest
	if err := r.db.SelectContext(ctx, &requests, builder.String(), args...); err != nil {
		return nil, fmt.Errorf("list advance requests: %w", err)
	}
	return requests, nil
}
