package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/maher-jaber/rh-altra-api/internal/models"
)

// Sentinel errors raised by the serialized create path when the re-check
// inside the transaction detects a conflicting concurrent insert.
var (
	ErrOverlapping     = errors.New("overlapping active request")
	ErrBalanceExceeded = errors.New("annual allowance exceeded")
)

const leaveColumns = `id, requester_id, manager_id, manager2_id, status,
	manager_comment, manager2_comment, final_comment,
	manager_decided_by, manager_decided_at, final_decided_by, final_decided_at,
	signer_name, signed_at, created_at, updated_at,
	leave_type_id, start_date, end_date, days, half_day, reason, certificate_path`

// LeaveRequestRepository persists the dual-tier leave workflow aggregate.
type LeaveRequestRepository struct {
	db *sqlx.DB
}

// NewLeaveRequestRepository constructs the repository.
func NewLeaveRequestRepository(db *sqlx.DB) *LeaveRequestRepository {
	return &LeaveRequestRepository{db: db}
}

// CreateLeaveParams carries the validated row plus the balance guard inputs
// re-checked inside the transaction.
type CreateLeaveParams struct {
	Leave     *models.LeaveRequest
	Capped    bool
	Allowance decimal.Decimal
}

// Create inserts the leave row inside a serializable transaction, re-running
// the overlap and balance checks so that two concurrent creates for the same
// requester cannot both pass eligibility.
func (r *LeaveRequestRepository) Create(ctx context.Context, params CreateLeaveParams) error {
	leave := params.Leave
	if leave.ID == "" {
		leave.ID = uuid.NewString()
	}
	if leave.Status == "" {
		leave.Status = models.StatusDraft
	}
	now := time.Now().UTC()
	if leave.CreatedAt.IsZero() {
		leave.CreatedAt = now
	}
	leave.UpdatedAt = now

	tx, err := r.db.BeginTxx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return fmt.Errorf("begin leave create: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	var overlaps bool
	const overlapQuery = `SELECT EXISTS (
		SELECT 1 FROM leave_requests
		WHERE requester_id = $1 AND status NOT IN ($2, $3)
		AND start_date <= $4 AND end_date >= $5)`
	if err := tx.GetContext(ctx, &overlaps, overlapQuery,
		leave.RequesterID, models.StatusRejected, models.StatusCancelled,
		leave.EndDate, leave.StartDate); err != nil {
		return fmt.Errorf("check leave overlap: %w", err)
	}
	if overlaps {
		return ErrOverlapping
	}

	if params.Capped {
		var used decimal.Decimal
		const usedQuery = `SELECT COALESCE(SUM(days), 0) FROM leave_requests
			WHERE requester_id = $1 AND leave_type_id = $2 AND status = $3
			AND start_date >= $4 AND end_date <= $5`
		yearStart := time.Date(leave.StartDate.Year(), 1, 1, 0, 0, 0, 0, time.UTC)
		yearEnd := time.Date(leave.StartDate.Year(), 12, 31, 0, 0, 0, 0, time.UTC)
		if err := tx.GetContext(ctx, &used, usedQuery,
			leave.RequesterID, leave.LeaveTypeID, models.StatusApproved, yearStart, yearEnd); err != nil {
			return fmt.Errorf("check leave balance: %w", err)
		}
		if used.Add(leave.Days).GreaterThan(params.Allowance) {
			return ErrBalanceExceeded
		}
	}

	const insert = `INSERT INTO leave_requests (` + leaveColumns + `)
		VALUES (:id, :requester_id, :manager_id, :manager2_id, :status,
		:manager_comment, :manager2_comment, :final_comment,
		:manager_decided_by, :manager_decided_at, :final_decided_by, :final_decided_at,
		:signer_name, :signed_at, :created_at, :updated_at,
		:leave_type_id, :start_date, :end_date, :days, :half_day, :reason, :certificate_path)`
	if _, err := tx.NamedExecContext(ctx, insert, leave); err != nil {
		return fmt.Errorf("create leave request: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit leave create: %w", err)
	}
	return nil
}

// GetByID fetches a leave request by identifier.
func (r *LeaveRequestRepository) GetByID(ctx context.Context, id string) (*models.LeaveRequest, error) {
	query := `SELECT ` + leaveColumns + ` FROM leave_requests WHERE id = $1`
	var leave models.LeaveRequest
	if err := r.db.GetContext(ctx, &leave, query, id); err != nil {
		return nil, err
	}
	return &leave, nil
}

// GetCore returns the workflow core of a leave request for the state machine.
func (r *LeaveRequestRepository) GetCore(ctx context.Context, id string) (*models.RequestCore, error) {
	leave, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	core := leave.RequestCore
	return &core, nil
}

// Transition applies a guarded workflow status update.
func (r *LeaveRequestRepository) Transition(ctx context.Context, params TransitionParams) error {
	return applyTransition(ctx, r.db, "leave_requests", params)
}

// List returns leave requests matching the filter, newest first.
func (r *LeaveRequestRepository) List(ctx context.Context, filter models.LeaveFilter) ([]models.LeaveRequest, error) {
	builder := strings.Builder{}
	args := make([]interface{}, 0, 6)
	builder.WriteString(`SELECT ` + leaveColumns + ` FROM leave_requests`)

	conditions := make([]string, 0, 4)
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
	if filter.LeaveTypeID != "" {
		args = append(args, filter.LeaveTypeID)
		conditions = append(conditions, fmt.Sprintf("leave_type_id = $%d", len(args)))
	}
	if filter.Year > 0 {
		args = append(args, time.Date(filter.Year, 1, 1, 0, 0, 0, 0, time.UTC))
		conditions = append(conditions, fmt.Sprintf("start_date >= $%d", len(args)))
		args = append(args, time.Date(filter.Year, 12, 31, 0, 0, 0, 0, time.UTC))
		conditions = append(conditions, fmt.Sprintf("start_date <= $%d", len(args)))
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

	var requests []models.LeaveRequest
	if err := r.db.SelectContext(ctx, &requests, builder.String(), args...); err != nil {
		return nil, fmt.Errorf("list leave requests: %w", err)
	}
	return requests, nil
}

// HasOverlap reports whether a non-rejected, non-cancelled request by the same
// requester intersects [start, end].
func (r *LeaveRequestRepository) HasOverlap(ctx context.Context, requesterID string, start, end time.Time) (bool, error) {
	const query = `SELECT EXISTS (
		SELECT 1 FROM leave_requests
		WHERE requester_id = $1 AND status NOT IN ($2, $3)
		AND start_date <= $4 AND end_date >= $5)`
	var overlaps bool
	if err := r.db.GetContext(ctx, &overlaps, query,
		requesterID, models.StatusRejected, models.StatusCancelled, end, start); err != nil {
		return false, fmt.Errorf("check leave overlap: %w", err)
	}
	return overlaps, nil
}

// UsedDays sums finally-approved day counts for a requester, type and year.
func (r *LeaveRequestRepository) UsedDays(ctx context.Context, requesterID, leaveTypeID string, year int) (decimal.Decimal, error) {
	const query = `SELECT COALESCE(SUM(days), 0) FROM leave_requests
		WHERE requester_id = $1 AND leave_type_id = $2 AND status = $3
		AND start_date >= $4 AND end_date <= $5`
	yearStart := time.Date(year, 1, 1, 0, 0, 0, 0, time.UTC)
	yearEnd := time.Date(year, 12, 31, 0, 0, 0, 0, time.UTC)
	var used decimal.Decimal
	if err := r.db.GetContext(ctx, &used, query,
		requesterID, leaveTypeID, models.StatusApproved, yearStart, yearEnd); err != nil {
		return decimal.Zero, fmt.Errorf("sum used days: %w", err)
	}
	return used, nil
}

// AttachCertificate stores the supporting document path on a draft request.
func (r *LeaveRequestRepository) AttachCertificate(ctx context.Context, id, path string) error {
	const query = `UPDATE leave_requests SET certificate_path = $1, updated_at = $2
		WHERE id = $3 AND status = $4`
	result, err := r.db.ExecContext(ctx, query, path, time.Now().UTC(), id, models.StatusDraft)
	if err != nil {
		return fmt.Errorf("attach certificate: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check certificate rows: %w", err)
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}
