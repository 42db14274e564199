package service

import (
	"context"
	"database/sql"
	"errors"

	"go.uber.org/zap"

	"github.com/maher-jaber/rh-altra-api/internal/dto"
	"github.com/maher-jaber/rh-altra-api/internal/models"
	"github.com/maher-jaber/rh-altra-api/internal/repository"
	appErrors "github.com/maher-jaber/rh-altra-api/pkg/errors"
)

type leaveStore interface {
	Create(ctx context.Context, params repository.CreateLeaveParams) error
	GetByID(ctx context.Context, id string) (*models.LeaveRequest, error)
	List(ctx context.Context, filter models.LeaveFilter) ([]models.LeaveRequest, error)
	AttachCertificate(ctx context.Context, id, path string) error
}

// LeaveService orchestrates the dual-tier leave request lifecycle around the
// shared approval engine: creation with eligibility checks, certificate
// attachment, listing scoped by the caller's role, and balance reads.
type LeaveService struct {
	leaves      leaveStore
	types       leaveTypeReader
	users       userReader
	eligibility *EligibilityService
	balance     *BalanceService
	settings    settingsSnapshotter
	audit       *AuditTrail
	logger      *zap.Logger
}

// NewLeaveService constructs the service.
func NewLeaveService(leaves leaveStore, types leaveTypeReader, users userReader, eligibility *EligibilityService, balance *BalanceService, settings settingsSnapshotter, audit *AuditTrail, logger *zap.Logger) *LeaveService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LeaveService{
		leaves:      leaves,
		types:       types,
		users:       users,
		eligibility: eligibility,
		balance:     balance,
		settings:    settings,
		audit:       audit,
		logger:      logger,
	}
}

func (s *LeaveService) loadType(ctx context.Context, id string) (*models.LeaveType, error) {
	leaveType, err := s.types.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "leave type not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load leave type")
	}
	return leaveType, nil
}

// Create validates eligibility against the current settings snapshot and
// inserts a draft with approvers resolved from the requester's assignments.
func (s *LeaveService) Create(ctx context.Context, actor *models.JWTClaims, req *dto.CreateLeaveRequest) (*models.LeaveRequest, error) {
	leaveType, err := s.loadType(ctx, req.LeaveTypeID)
	if err != nil {
		return nil, err
	}

	snapshot := s.settings.Snapshot(ctx)
	days, err := s.eligibility.ValidateCreate(ctx, actor.UserID, leaveType, req.StartDate, req.EndDate, req.HalfDay, snapshot)
	if err != nil {
		return nil, err
	}

	requester, err := s.users.GetByID(ctx, actor.UserID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load requester")
	}

	leave := &models.LeaveRequest{
		RequestCore: models.RequestCore{
			RequesterID: actor.UserID,
			ManagerID:   requester.ManagerID,
			Manager2ID:  requester.Manager2ID,
			Status:      models.StatusDraft,
		},
		LeaveTypeID: req.LeaveTypeID,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		Days:        days,
		HalfDay:     req.HalfDay,
	}
	if req.Reason != "" {
		leave.Reason = &req.Reason
	}

	err = s.leaves.Create(ctx, repository.CreateLeaveParams{
		Leave:     leave,
		Capped:    !leaveType.Uncapped(),
		Allowance: leaveType.AnnualAllowance,
	})
	switch {
	case errors.Is(err, repository.ErrOverlapping):
		return nil, appErrors.ErrOverlap
	case errors.Is(err, repository.ErrBalanceExceeded):
		return nil, appErrors.ErrInsufficientBalance
	case err != nil:
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create leave request")
	}

	s.audit.Record(ctx, leave.ID, models.KindLeave, models.AuditActionCreate, actor.UserID, nil)
	return leave, nil
}

// Get returns one leave request, visible to the requester, its approvers and
// administrative roles only.
func (s *LeaveService) Get(ctx context.Context, actor *models.JWTClaims, id string) (*models.LeaveRequest, error) {
	leave, err := s.leaves.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "leave request not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load leave request")
	}
	if !canView(&leave.RequestCore, actor) {
		return nil, appErrors.ErrForbidden
	}
	return leave, nil
}

// List returns leave requests scoped to the caller: employees see their own,
// managers additionally see requests awaiting them, administrators see all.
func (s *LeaveService) List(ctx context.Context, actor *models.JWTClaims, query *dto.LeaveQuery) ([]models.LeaveRequest, error) {
	filter := models.LeaveFilter{
		Status:      parseStatusFilter(query.Status),
		LeaveTypeID: query.LeaveTypeID,
		Year:        query.Year,
		Limit:       query.Limit,
		Offset:      query.Offset,
	}
	switch {
	case actor.Role.IsAdministrative():
		// unrestricted
	case actor.Role == models.RoleManager:
		filter.ApproverID = actor.UserID
	default:
		filter.RequesterID = actor.UserID
	}
	requests, err := s.leaves.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list leave requests")
	}
	return requests, nil
}

// ListOwn returns the caller's own requests regardless of role.
func (s *LeaveService) ListOwn(ctx context.Context, actor *models.JWTClaims, query *dto.LeaveQuery) ([]models.LeaveRequest, error) {
	filter := models.LeaveFilter{
		RequesterID: actor.UserID,
		Status:      parseStatusFilter(query.Status),
		LeaveTypeID: query.LeaveTypeID,
		Year:        query.Year,
		Limit:       query.Limit,
		Offset:      query.Offset,
	}
	requests, err := s.leaves.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list leave requests")
	}
	return requests, nil
}

// AttachCertificate links a supporting document to the requester's own draft.
func (s *LeaveService) AttachCertificate(ctx context.Context, actor *models.JWTClaims, id, path string) error {
	leave, err := s.Get(ctx, actor, id)
	if err != nil {
		return err
	}
	if leave.RequesterID != actor.UserID {
		return appErrors.ErrForbidden
	}
	if err := s.leaves.AttachCertificate(ctx, id, path); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.ErrInvalidTransition
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to attach certificate")
	}
	s.audit.Record(ctx, id, models.KindLeave, models.AuditActionUploadAttachment, actor.UserID, nil)
	return nil
}

// Balance reports used and remaining days for one type and year.
func (s *LeaveService) Balance(ctx context.Context, requesterID, leaveTypeID string, year int) (*dto.BalanceResponse, error) {
	leaveType, err := s.loadType(ctx, leaveTypeID)
	if err != nil {
		return nil, err
	}
	used, err := s.balance.UsedDays(ctx, requesterID, leaveTypeID, year)
	if err != nil {
		return nil, err
	}
	resp := &dto.BalanceResponse{
		LeaveTypeID: leaveTypeID,
		Year:        year,
		Allowance:   leaveType.AnnualAllowance.String(),
		UsedDays:    used.String(),
		Uncapped:    leaveType.Uncapped(),
	}
	if !leaveType.Uncapped() {
		remaining, err := s.balance.Remaining(ctx, requesterID, leaveTypeID, year)
		if err != nil {
			return nil, err
		}
		if remaining != nil {
			str := remaining.String()
			resp.Remaining = &str
		}
	}
	return resp, nil
}

// SubmitCheck is the submission precondition hook registered with the
// approval engine: certificate-backed types cannot be submitted bare.
func (s *LeaveService) SubmitCheck(ctx context.Context, id string) error {
	leave, err := s.leaves.GetByID(ctx, id)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load leave request")
	}
	leaveType, err := s.loadType(ctx, leave.LeaveTypeID)
	if err != nil {
		return err
	}
	return s.eligibility.ValidateSubmit(leave, leaveType)
}

func canView(core *models.RequestCore, actor *models.JWTClaims) bool {
	if actor.Role.IsAdministrative() {
		return true
	}
	return core.RequesterID == actor.UserID || core.IsApprover(actor.UserID)
}

func parseStatusFilter(raw string) []models.RequestStatus {
	if raw == "" {
		return nil
	}
	return []models.RequestStatus{models.RequestStatus(raw)}
}
