package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/maher-jaber/rh-altra-api/internal/models"
	appErrors "github.com/maher-jaber/rh-altra-api/pkg/errors"
)

type leaveTypeReaderStub struct {
	types map[string]*models.LeaveType
}

func (s *leaveTypeReaderStub) GetByID(ctx context.Context, id string) (*models.LeaveType, error) {
	if lt, ok := s.types[id]; ok {
		return lt, nil
	}
	return nil, sql.ErrNoRows
}

func TestRemainingCapped(t *testing.T) {
	types := &leaveTypeReaderStub{types: map[string]*models.LeaveType{
		"lt-annual": cappedType(20),
	}}
	svc := NewBalanceService(&usageStub{used: decimal.NewFromInt(7)}, types, nil)

	remaining, err := svc.Remaining(context.Background(), "u1", "lt-annual", 2025)
	require.NoError(t, err)
	require.NotNil(t, remaining)
	require.Equal(t, "13", remaining.String())
}

func TestRemainingUncappedIsNil(t *testing.T) {
	types := &leaveTypeReaderStub{types: map[string]*models.LeaveType{
		"lt-unpaid": {ID: "lt-unpaid", Code: "UNPAID", Label: "Unpaid leave"},
	}}
	svc := NewBalanceService(&usageStub{used: decimal.NewFromInt(40)}, types, nil)

	remaining, err := svc.Remaining(context.Background(), "u1", "lt-unpaid", 2025)
	require.NoError(t, err)
	require.Nil(t, remaining)
}

func TestRemainingFlooredAtZero(t *testing.T) {
	types := &leaveTypeReaderStub{types: map[string]*models.LeaveType{
		"lt-annual": cappedType(5),
	}}
	svc := NewBalanceService(&usageStub{used: decimal.NewFromInt(8)}, types, nil)

	remaining, err := svc.Remaining(context.Background(), "u1", "lt-annual", 2025)
	require.NoError(t, err)
	require.NotNil(t, remaining)
	require.True(t, remaining.IsZero())
}

func TestRemainingUnknownType(t *testing.T) {
	svc := NewBalanceService(&usageStub{}, &leaveTypeReaderStub{}, nil)
	_, err := svc.Remaining(context.Background(), "u1", "missing", 2025)
	requireCode(t, err, appErrors.ErrNotFound.Code)
}

func TestRemainingIsReadOnly(t *testing.T) {
	// Repeated reads see the same value: balance queries never mutate state.
	types := &leaveTypeReaderStub{types: map[string]*models.LeaveType{
		"lt-annual": cappedType(20),
	}}
	svc := NewBalanceService(&usageStub{used: decimal.NewFromInt(7)}, types, nil)

	first, err := svc.Remaining(context.Background(), "u1", "lt-annual", 2025)
	require.NoError(t, err)
	second, err := svc.Remaining(context.Background(), "u1", "lt-annual", 2025)
	require.NoError(t, err)
	require.True(t, first.Equal(*second))
}
