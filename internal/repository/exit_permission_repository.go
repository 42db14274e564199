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

const exitColumns = `id, requester_id, manager_id, manager2_id, status,
	manager_comment, manager2_comment, final_comment,
	manager_decided_by, manager_decided_at, final_decided_by, final_decided_at,
	signer_name, signed_at, created_at, updated_at,
	start_at, end_at, reason`

// ExitPermissionRepository persists single-tier exit permission requests.
type ExitPermissionRepository struct {
	db *sqlx.DB
}

// NewExitPermissionRepository constructs the repository.
func NewExitPermissionRepository(db *sqlx.DB) *ExitPermissionRepository {
	return &ExitPermissionRepository{db: db}
}

// Create inserts a new exit permission row.
func (r *ExitPermissionRepository) Create(ctx context.Context, exit *models.ExitPermission) error {
	if exit.ID == "" {
		exit.ID = uuid.NewString()
	}
	if exit.Status == "" {
		exit.Status = models.StatusDraft
	}
	now := time.Now().UTC()
	if exit.CreatedAt.IsZero() {
		exit.CreatedAt = now
	}
	exit.UpdatedAt = now

	const query = `INSERT INTO exit_permissions (` + exitColumns + `)
		VALUES (:id, :requester_id, :manager_id, :manager2_id, :status,
		:manager_comment, :manager2_comment, :final_comment,
		:manager_decided_by, :manager_decided_at, :final_decided_by, :final_decided_at,
		:signer_name, :signed_at, :created_at, :updated_at,
		:start_at, :end_at, :reason)`
	if _, err := r.db.NamedExecContext(ctx, query, exit); err != nil {
		return fmt.Errorf("create exit permission: %w", err)
	}
	return nil
}

// GetByID fetches an exit permission by identifier.
func (r *ExitPermissionRepository) GetByID(ctx context.Context, id string) (*models.ExitPermission, error) {
	query := `SELECT ` + exitColumns + ` FROM exit_permissions WHERE id = $1`
	var exit models.ExitPermission
	if err := r.db.GetContext(ctx, &exit, query, id); err != nil {
		return nil, err
	}
	return &exit, nil
}

// GetCore returns the workflow core for the state machine.
func (r *ExitPermissionRepository) GetCore(ctx context.Context, id string) (*models.RequestCore, error) {
	exit, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	core := exit.RequestCore
	return &core, nil
}

// Transition applies a guarded workflow status update.
func (r *ExitPermissionRepository) Transition(ctx context.Context, params TransitionParams) error {
	return applyTransition(ctx, r.db, "exit_permissions", params)
}

// List returns exit permissions matching the filter, newest first.
func (r *ExitPermissionRepository) List(ctx context.Context, filter models.ExitPermissionFilter) ([]models.ExitPermission, error) {
	builder := strings.Builder{}
	args := make([]interface{}, 0, 4)
	builder.WriteString(`SELECT ` + exitColumns + ` FROM exit_permissions`)

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

	var requests []models.ExitPermission
	if err := r.db.SelectContext(ctx, &requests, builder.String(), args...); err != nil {
		return nil, fmt.Errorf("list exit permissions: %w", err)
	}
	return requests, nil
}
