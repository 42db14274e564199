package service

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/maher-jaber/rh-altra-api/internal/models"
	appErrors "github.com/maher-jaber/rh-altra-api/pkg/errors"
)

type overlapReader interface {
	HasOverlap(ctx context.Context, requesterID string, start, end time.Time) (bool, error)
}

type holidayReader interface {
	ListBetween(ctx context.Context, start, end time.Time) ([]models.Holiday, error)
}

// EligibilityService validates candidate leave requests before creation or
// submission. Pure checks: a rejected validation never leaves side effects,
// and every rejection carries the reason code the UI surfaces.
type EligibilityService struct {
	overlaps overlapReader
	holidays holidayReader
	usage    leaveUsageReader
	logger   *zap.Logger
}

// NewEligibilityService constructs the service.
func NewEligibilityService(overlaps overlapReader, holidays holidayReader, usage leaveUsageReader, logger *zap.Logger) *EligibilityService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EligibilityService{overlaps: overlaps, holidays: holidays, usage: usage, logger: logger}
}

// ValidateCreate checks date ordering, working-day content, overlap with the
// requester's active requests, and balance sufficiency for capped types.
// Returns the charged day count on success. Ranges crossing a year boundary
// are rejected outright since balance is tracked per calendar year.
func (s *EligibilityService) ValidateCreate(ctx context.Context, requesterID string, leaveType *models.LeaveType, start, end time.Time, halfDay bool, settings models.WorkflowSettings) (decimal.Decimal, error) {
	if end.Before(start) {
		return decimal.Zero, appErrors.ErrInvalidDates
	}
	if start.Year() != end.Year() {
		return decimal.Zero, appErrors.Clone(appErrors.ErrInvalidDates, "leave ranges must not cross a year boundary")
	}

	holidays, err := s.holidays.ListBetween(ctx, start, end)
	if err != nil {
		return decimal.Zero, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load holidays")
	}
	workingDays := CountWorkingDays(start, end, settings.WeekendDays, HolidayDates(holidays))
	if workingDays == 0 {
		return decimal.Zero, appErrors.ErrNoWorkingDays
	}
	days := LeaveDays(workingDays, halfDay)

	overlaps, err := s.overlaps.HasOverlap(ctx, requesterID, start, end)
	if err != nil {
		return decimal.Zero, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check overlap")
	}
	if overlaps {
		return decimal.Zero, appErrors.ErrOverlap
	}

	if !leaveType.Uncapped() {
		used, err := s.usage.UsedDays(ctx, requesterID, leaveType.ID, start.Year())
		if err != nil {
			return decimal.Zero, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to compute used days")
		}
		if used.Add(days).GreaterThan(leaveType.AnnualAllowance) {
			return decimal.Zero, appErrors.ErrInsufficientBalance
		}
	}

	return days, nil
}

// ValidateSubmit checks submission preconditions: a type that requires a
// supporting certificate cannot be submitted without one attached.
func (s *EligibilityService) ValidateSubmit(leave *models.LeaveRequest, leaveType *models.LeaveType) error {
	if leaveType.RequiresCertificate && (leave.CertificatePath == nil || *leave.CertificatePath == "") {
		return appErrors.ErrCertificateRequired
	}
	return nil
}
