package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/maher-jaber/rh-altra-api/internal/models"
)

// TransitionParams groups the columns a workflow transition may touch. The
// update is guarded by the expected source status: a concurrent transition
// that already moved the row makes the write affect zero rows, surfaced as
// sql.ErrNoRows so the caller can reject the stale attempt.
type TransitionParams struct {
	ID         string
	FromStatus models.RequestStatus
	ToStatus   models.RequestStatus

	ManagerComment  *string
	Manager2Tier    bool
	ManagerDecideBy *string
	ManagerDecideAt *time.Time

	FinalComment  *string
	FinalDecideBy *string
	FinalDecideAt *time.Time

	SignerName *string
	SignedAt   *time.Time
}

// applyTransition performs the guarded status update against the given table.
// Shared by the three request repositories since the workflow shape is
// identical across kinds.
func applyTransition(ctx context.Context, db *sqlx.DB, table string, params TransitionParams) error {
	setParts := []string{"status = :to_status", "updated_at = :updated_at"}
	args := map[string]interface{}{
		"id":          params.ID,
		"from_status": params.FromStatus,
		"to_status":   params.ToStatus,
		"updated_at":  time.Now().UTC(),
	}

	if params.ManagerComment != nil {
		column := "manager_comment"
		if params.Manager2Tier {
			column = "manager2_comment"
		}
		setParts = append(setParts, fmt.Sprintf("%s = :manager_comment", column))
		args["manager_comment"] = params.ManagerComment
	}
	if params.ManagerDecideBy != nil {
		setParts = append(setParts, "manager_decided_by = :manager_decided_by", "manager_decided_at = :manager_decided_at")
		args["manager_decided_by"] = params.ManagerDecideBy
		args["manager_decided_at"] = params.ManagerDecideAt
	}
	if params.FinalComment != nil {
		setParts = append(setParts, "final_comment = :final_comment")
		args["final_comment"] = params.FinalComment
	}
	if params.FinalDecideBy != nil {
		setParts = append(setParts, "final_decided_by = :final_decided_by", "final_decided_at = :final_decided_at")
		args["final_decided_by"] = params.FinalDecideBy
		args["final_decided_at"] = params.FinalDecideAt
	}
	if params.SignerName != nil {
		setParts = append(setParts, "signer_name = :signer_name", "signed_at = :signed_at")
		args["signer_name"] = params.SignerName
		args["signed_at"] = params.SignedAt
	}

	query := fmt.Sprintf("UPDATE %s SET %s WHERE id = :id AND status = :from_status",
		table, strings.Join(setParts, ", "))

	result, err := db.NamedExecContext(ctx, query, args)
	if err != nil {
		return fmt.Errorf("transition %s: %w", table, err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check %s transition rows: %w", table, err)
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func statusPlaceholders(statuses []models.RequestStatus, args *[]interface{}) string {
	placeholders := make([]string, len(statuses))
	for i, status := range statuses {
		*args = append(*args, status)
		placeholders[i] = fmt.Sprintf("$%d", len(*args))
	}
	return strings.Join(placeholders, ",")
}
