package service

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/maher-jaber/rh-altra-api/internal/models"
	appErrors "github.com/maher-jaber/rh-altra-api/pkg/errors"
)

type overlapStub struct {
	overlaps bool
	calls    int
}

func (o *overlapStub) HasOverlap(ctx context.Context, requesterID string, start, end time.Time) (bool, error) {
	o.calls++
	return o.overlaps, nil
}

type holidayStub struct {
	holidays []models.Holiday
}

func (h *holidayStub) ListBetween(ctx context.Context, start, end time.Time) ([]models.Holiday, error) {
	return h.holidays, nil
}

type usageStub struct {
	used decimal.Decimal
}

func (u *usageStub) UsedDays(ctx context.Context, requesterID, leaveTypeID string, year int) (decimal.Decimal, error) {
	return u.used, nil
}

func newEligibility(overlaps *overlapStub, holidays *holidayStub, usage *usageStub) *EligibilityService {
	return NewEligibilityService(overlaps, holidays, usage, nil)
}

func cappedType(allowance int64) *models.LeaveType {
	return &models.LeaveType{
		ID:              "lt-annual",
		Code:            "ANNUAL",
		Label:           "Annual leave",
		AnnualAllowance: decimal.NewFromInt(allowance),
	}
}

func TestValidateCreateRejectsReversedRange(t *testing.T) {
	svc := newEligibility(&overlapStub{}, &holidayStub{}, &usageStub{})
	_, err := svc.ValidateCreate(context.Background(), "u1", cappedType(20),
		date(2025, time.June, 8), date(2025, time.June, 2), false, models.DefaultWorkflowSettings())
	requireCode(t, err, appErrors.ErrInvalidDates.Code)
}

func TestValidateCreateRejectsYearBoundary(t *testing.T) {
	svc := newEligibility(&overlapStub{}, &holidayStub{}, &usageStub{})
	_, err := svc.ValidateCreate(context.Background(), "u1", cappedType(20),
		date(2025, time.December, 29), date(2026, time.January, 2), false, models.DefaultWorkflowSettings())
	requireCode(t, err, appErrors.ErrInvalidDates.Code)
}

func TestValidateCreateRejectsWeekendOnlyRange(t *testing.T) {
	svc := newEligibility(&overlapStub{}, &holidayStub{}, &usageStub{})
	// Saturday and Sunday only.
	_, err := svc.ValidateCreate(context.Background(), "u1", cappedType(20),
		date(2025, time.June, 7), date(2025, time.June, 8), false, models.DefaultWorkflowSettings())
	requireCode(t, err, appErrors.ErrNoWorkingDays.Code)
}

func TestValidateCreateRejectsOverlap(t *testing.T) {
	svc := newEligibility(&overlapStub{overlaps: true}, &holidayStub{}, &usageStub{})
	_, err := svc.ValidateCreate(context.Background(), "u1", cappedType(20),
		date(2025, time.June, 2), date(2025, time.June, 6), false, models.DefaultWorkflowSettings())
	requireCode(t, err, appErrors.ErrOverlap.Code)
}

func TestValidateCreateBalance(t *testing.T) {
	// Allowance 5, already used 3. A 4-day request must fail, a 2-day must pass.
	usage := &usageStub{used: decimal.NewFromInt(3)}
	svc := newEligibility(&overlapStub{}, &holidayStub{}, usage)

	_, err := svc.ValidateCreate(context.Background(), "u1", cappedType(5),
		date(2025, time.June, 2), date(2025, time.June, 5), false, models.DefaultWorkflowSettings())
	requireCode(t, err, appErrors.ErrInsufficientBalance.Code)

	days, err := svc.ValidateCreate(context.Background(), "u1", cappedType(5),
		date(2025, time.June, 2), date(2025, time.June, 3), false, models.DefaultWorkflowSettings())
	require.NoError(t, err)
	require.Equal(t, "2", days.String())
}

func TestValidateCreateExactAllowanceBoundary(t *testing.T) {
	// used + requested == allowance is allowed.
	usage := &usageStub{used: decimal.NewFromInt(3)}
	svc := newEligibility(&overlapStub{}, &holidayStub{}, usage)
	days, err := svc.ValidateCreate(context.Background(), "u1", cappedType(5),
		date(2025, time.June, 2), date(2025, time.June, 3), false, models.DefaultWorkflowSettings())
	require.NoError(t, err)
	require.Equal(t, "2", days.String())
}

func TestValidateCreateUncappedNeverFailsBalance(t *testing.T) {
	usage := &usageStub{used: decimal.NewFromInt(500)}
	svc := newEligibility(&overlapStub{}, &holidayStub{}, usage)
	unpaid := &models.LeaveType{ID: "lt-unpaid", Code: "UNPAID", Label: "Unpaid leave"}
	days, err := svc.ValidateCreate(context.Background(), "u1", unpaid,
		date(2025, time.June, 2), date(2025, time.June, 6), false, models.DefaultWorkflowSettings())
	require.NoError(t, err)
	require.Equal(t, "5", days.String())
}

func TestValidateCreateHalfDayCharge(t *testing.T) {
	svc := newEligibility(&overlapStub{}, &holidayStub{}, &usageStub{})
	days, err := svc.ValidateCreate(context.Background(), "u1", cappedType(20),
		date(2025, time.June, 2), date(2025, time.June, 6), true, models.DefaultWorkflowSettings())
	require.NoError(t, err)
	require.Equal(t, "4.5", days.String())
}

func TestValidateSubmitCertificate(t *testing.T) {
	svc := newEligibility(&overlapStub{}, &holidayStub{}, &usageStub{})
	sick := &models.LeaveType{ID: "lt-sick", RequiresCertificate: true}
	leave := &models.LeaveRequest{}

	err := svc.ValidateSubmit(leave, sick)
	requireCode(t, err, appErrors.ErrCertificateRequired.Code)

	path := "certs/c1.pdf"
	leave.CertificatePath = &path
	require.NoError(t, svc.ValidateSubmit(leave, sick))
}

func requireCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	require.Equal(t, code, appErr.Code)
}
