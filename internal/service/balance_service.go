package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/maher-jaber/rh-altra-api/internal/models"
	appErrors "github.com/maher-jaber/rh-altra-api/pkg/errors"
)

type leaveUsageReader interface {
	UsedDays(ctx context.Context, requesterID, leaveTypeID string, year int) (decimal.Decimal, error)
}

type leaveTypeReader interface {
	GetByID(ctx context.Context, id string) (*models.LeaveType, error)
}

// BalanceService aggregates consumed leave against annual allowances.
// Read-only; only finally-approved requests count against balance.
type BalanceService struct {
	leaves leaveUsageReader
	types  leaveTypeReader
	logger *zap.Logger
}

// NewBalanceService constructs the service.
func NewBalanceService(leaves leaveUsageReader, types leaveTypeReader, logger *zap.Logger) *BalanceService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BalanceService{leaves: leaves, types: types, logger: logger}
}

// UsedDays sums finally-approved day counts for the requester, type and year.
func (s *BalanceService) UsedDays(ctx context.Context, requesterID, leaveTypeID string, year int) (decimal.Decimal, error) {
	used, err := s.leaves.UsedDays(ctx, requesterID, leaveTypeID, year)
	if err != nil {
		return decimal.Zero, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to compute used days")
	}
	return used, nil
}

// Remaining returns the unused allowance, or nil when the type is uncapped.
// Callers must treat nil as "no limit", never as zero remaining.
func (s *BalanceService) Remaining(ctx context.Context, requesterID, leaveTypeID string, year int) (*decimal.Decimal, error) {
	leaveType, err := s.types.GetByID(ctx, leaveTypeID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "leave type not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load leave type")
	}
	if leaveType.Uncapped() {
		return nil, nil
	}
	used, err := s.UsedDays(ctx, requesterID, leaveTypeID, year)
	if err != nil {
		return nil, err
	}
	remaining := leaveType.AnnualAllowance.Sub(used)
	if remaining.IsNegative() {
		remaining = decimal.Zero
	}
	return &remaining, nil
}
