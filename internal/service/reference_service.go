package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/maher-jaber/rh-altra-api/internal/dto"
	"github.com/maher-jaber/rh-altra-api/internal/models"
	appErrors "github.com/maher-jaber/rh-altra-api/pkg/errors"
)

type leaveTypeStore interface {
	GetByID(ctx context.Context, id string) (*models.LeaveType, error)
	List(ctx context.Context) ([]models.LeaveType, error)
	Upsert(ctx context.Context, leaveType *models.LeaveType) error
}

type holidayStore interface {
	List(ctx context.Context) ([]models.Holiday, error)
	Create(ctx context.Context, holiday *models.Holiday) error
	Delete(ctx context.Context, id string) error
}

// ReferenceService maintains the admin-managed reference data the workflow
// reads: leave types and the holiday calendar.
type ReferenceService struct {
	types    leaveTypeStore
	holidays holidayStore
	logger   *zap.Logger
}

// NewReferenceService constructs the service.
func NewReferenceService(types leaveTypeStore, holidays holidayStore, logger *zap.Logger) *ReferenceService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReferenceService{types: types, holidays: holidays, logger: logger}
}

// ListLeaveTypes returns all leave types.
func (s *ReferenceService) ListLeaveTypes(ctx context.Context) ([]models.LeaveType, error) {
	types, err := s.types.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list leave types")
	}
	return types, nil
}

// UpsertLeaveType creates or updates a leave type keyed by code.
func (s *ReferenceService) UpsertLeaveType(ctx context.Context, req *dto.UpsertLeaveTypeRequest) (*models.LeaveType, error) {
	allowance, err := decimal.NewFromString(req.AnnualAllowance)
	if err != nil || allowance.IsNegative() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "annual allowance must be a non-negative number")
	}
	leaveType := &models.LeaveType{
		Code:                req.Code,
		Label:               req.Label,
		AnnualAllowance:     allowance,
		RequiresCertificate: req.RequiresCertificate,
	}
	if err := s.types.Upsert(ctx, leaveType); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to upsert leave type")
	}
	return leaveType, nil
}

// GetLeaveType fetches one leave type.
func (s *ReferenceService) GetLeaveType(ctx context.Context, id string) (*models.LeaveType, error) {
	leaveType, err := s.types.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "leave type not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load leave type")
	}
	return leaveType, nil
}

// ListHolidays returns the holiday calendar.
func (s *ReferenceService) ListHolidays(ctx context.Context) ([]models.Holiday, error) {
	holidays, err := s.holidays.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list holidays")
	}
	return holidays, nil
}

// CreateHoliday registers a non-working date. Dates are normalized to UTC
// midnight so uniqueness is per calendar day.
func (s *ReferenceService) CreateHoliday(ctx context.Context, req *dto.CreateHolidayRequest) (*models.Holiday, error) {
	date := req.Date.UTC()
	date = time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	holiday := &models.Holiday{Date: date, Label: req.Label}
	if err := s.holidays.Create(ctx, holiday); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrConflict.Code, appErrors.ErrConflict.Status, "holiday already registered for this date")
	}
	return holiday, nil
}

// DeleteHoliday removes a calendar date.
func (s *ReferenceService) DeleteHoliday(ctx context.Context, id string) error {
	if err := s.holidays.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "holiday not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete holiday")
	}
	return nil
}
