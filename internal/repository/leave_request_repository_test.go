package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maher-jaber/rh-altra-api/internal/models"
)

func newLeaveRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	sqlxDB := sqlx.NewDb(db, "postgres")
	cleanup := func() {
		_ = sqlxDB.Close()
		db.Close()
	}
	return sqlxDB, mock, cleanup
}

func strPtr(s string) *string { return &s }

func sampleLeave() *models.LeaveRequest {
	return &models.LeaveRequest{
		RequestCore: models.RequestCore{
			RequesterID: "emp-1",
			ManagerID:   strPtr("mgr-1"),
		},
		LeaveTypeID: "lt-annual",
		StartDate:   time.Date(2025, time.June, 2, 0, 0, 0, 0, time.UTC),
		EndDate:     time.Date(2025, time.June, 6, 0, 0, 0, 0, time.UTC),
		Days:        decimal.NewFromInt(5),
	}
}

func TestLeaveRepositoryCreateInsertsAfterChecks(t *testing.T) {
	db, mock, cleanup := newLeaveRepoMock(t)
	defer cleanup()
	repo := NewLeaveRequestRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS")).
		WithArgs("emp-1", models.StatusRejected, models.StatusCancelled, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COALESCE(SUM(days), 0)")).
		WithArgs("emp-1", "lt-annual", models.StatusApproved, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow("3"))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO leave_requests")).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	leave := sampleLeave()
	err := repo.Create(context.Background(), CreateLeaveParams{
		Leave:     leave,
		Capped:    true,
		Allowance: decimal.NewFromInt(20),
	})
	require.NoError(t, err)
	assert.NotEmpty(t, leave.ID)
	assert.Equal(t, models.StatusDraft, leave.Status)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestLeaveRepositoryCreateRejectsOverlap(t *testing.T) {
	db, mock, cleanup := newLeaveRepoMock(t)
	defer cleanup()
	repo := NewLeaveRequestRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS")).
		WithArgs("emp-1", models.StatusRejected, models.StatusCancelled, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectRollback()

	err := repo.Create(context.Background(), CreateLeaveParams{Leave: sampleLeave()})
	require.ErrorIs(t, err, ErrOverlapping)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestLeaveRepositoryCreateRejectsExceededBalance(t *testing.T) {
	db, mock, cleanup := newLeaveRepoMock(t)
	defer cleanup()
	repo := NewLeaveRequestRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS")).
		WithArgs("emp-1", models.StatusRejected, models.StatusCancelled, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COALESCE(SUM(days), 0)")).
		WithArgs("emp-1", "lt-annual", models.StatusApproved, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow("16"))
	mock.ExpectRollback()

	err := repo.Create(context.Background(), CreateLeaveParams{
		Leave:     sampleLeave(),
		Capped:    true,
		Allowance: decimal.NewFromInt(20),
	})
	require.ErrorIs(t, err, ErrBalanceExceeded)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestLeaveRepositoryTransitionGuarded(t *testing.T) {
	db, mock, cleanup := newLeaveRepoMock(t)
	defer cleanup()
	repo := NewLeaveRequestRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE leave_requests SET status = $1, updated_at = $2 WHERE id = $3 AND status = $4")).
		WithArgs(models.StatusSubmitted, sqlmock.AnyArg(), "lr-1", models.StatusDraft).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Transition(context.Background(), TransitionParams{
		ID:         "lr-1",
		FromStatus: models.StatusDraft,
		ToStatus:   models.StatusSubmitted,
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestLeaveRepositoryTransitionStaleStatus(t *testing.T) {
	db, mock, cleanup := newLeaveRepoMock(t)
	defer cleanup()
	repo := NewLeaveRequestRepository(db)

	// A concurrent transition already moved the row: zero rows affected.
	mock.ExpectExec(regexp.QuoteMeta("UPDATE leave_requests")).
		WithArgs(models.StatusManagerApproved, sqlmock.AnyArg(), "lr-1", models.StatusSubmitted).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Transition(context.Background(), TransitionParams{
		ID:         "lr-1",
		FromStatus: models.StatusSubmitted,
		ToStatus:   models.StatusManagerApproved,
	})
	require.ErrorIs(t, err, sql.ErrNoRows)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestLeaveRepositoryTransitionSecondTierComment(t *testing.T) {
	db, mock, cleanup := newLeaveRepoMock(t)
	defer cleanup()
	repo := NewLeaveRequestRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("manager2_comment = $3, manager_decided_by = $4, manager_decided_at = $5")).
		WithArgs(models.StatusManagerApproved, sqlmock.AnyArg(), "looks fine", "mgr-2", sqlmock.AnyArg(), "lr-1", models.StatusSubmitted).
		WillReturnResult(sqlmock.NewResult(0, 1))

	now := time.Now().UTC()
	err := repo.Transition(context.Background(), TransitionParams{
		ID:              "lr-1",
		FromStatus:      models.StatusSubmitted,
		ToStatus:        models.StatusManagerApproved,
		ManagerComment:  strPtr("looks fine"),
		Manager2Tier:    true,
		ManagerDecideBy: strPtr("mgr-2"),
		ManagerDecideAt: &now,
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestLeaveRepositoryAttachCertificateRequiresDraft(t *testing.T) {
	db, mock, cleanup := newLeaveRepoMock(t)
	defer cleanup()
	repo := NewLeaveRequestRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE leave_requests SET certificate_path = $1")).
		WithArgs("certs/c1.pdf", sqlmock.AnyArg(), "lr-1", models.StatusDraft).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.AttachCertificate(context.Background(), "lr-1", "certs/c1.pdf")
	require.ErrorIs(t, err, sql.ErrNoRows)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestLeaveRepositoryUsedDays(t *testing.T) {
	db, mock, cleanup := newLeaveRepoMock(t)
	defer cleanup()
	repo := NewLeaveRequestRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COALESCE(SUM(days), 0)")).
		WithArgs("emp-1", "lt-annual", models.StatusApproved, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow("7.5"))

	used, err := repo.UsedDays(context.Background(), "emp-1", "lt-annual", 2025)
	require.NoError(t, err)
	assert.Equal(t, "7.5", used.String())
	require.NoError(t, mock.ExpectationsWereMet())
}
