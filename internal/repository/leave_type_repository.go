package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/maher-jaber/rh-altra-api/internal/models"
)

// LeaveTypeRepository persists admin-maintained leave type reference data.
type LeaveTypeRepository struct {
	db *sqlx.DB
}

// NewLeaveTypeRepository constructs the repository.
func NewLeaveTypeRepository(db *sqlx.DB) *LeaveTypeRepository {
	return &LeaveTypeRepository{db: db}
}

// GetByID fetches a leave type by identifier.
func (r *LeaveTypeRepository) GetByID(ctx context.Context, id string) (*models.LeaveType, error) {
	const query = `SELECT id, code, label, annual_allowance, requires_certificate, created_at, updated_at
		FROM leave_types WHERE id = $1`
	var leaveType models.LeaveType
	if err := r.db.GetContext(ctx, &leaveType, query, id); err != nil {
		return nil, err
	}
	return &leaveType, nil
}

// List returns every leave type ordered by code.
func (r *LeaveTypeRepository) List(ctx context.Context) ([]models.LeaveType, error) {
	const query = `SELECT id, code, label, annual_allowance, requires_certificate, created_at, updated_at
		FROM leave_types ORDER BY code`
	var types []models.LeaveType
	if err := r.db.SelectContext(ctx, &types, query); err != nil {
		return nil, fmt.Errorf("list leave types: %w", err)
	}
	return types, nil
}

// Upsert creates or updates a leave type keyed by code.
func (r *LeaveTypeRepository) Upsert(ctx context.Context, leaveType *models.LeaveType) error {
	if leaveType.ID == "" {
		leaveType.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if leaveType.CreatedAt.IsZero() {
		leaveType.CreatedAt = now
	}
	leaveType.UpdatedAt = now

	const query = `INSERT INTO leave_types (id, code, label, annual_allowance, requires_certificate, created_at, updated_at)
		VALUES (:id, :code, :label, :annual_allowance, :requires_certificate, :created_at, :updated_at)
		ON CONFLICT (code) DO UPDATE SET
		label = EXCLUDED.label,
		annual_allowance = EXCLUDED.annual_allowance,
		requires_certificate = EXCLUDED.requires_certificate,
		updated_at = EXCLUDED.updated_at`
	if _, err := r.db.NamedExecContext(ctx, query, leaveType); err != nil {
		return fmt.Errorf("upsert leave type: %w", err)
	}
	return nil
}
