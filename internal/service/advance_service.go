package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/maher-jaber/rh-altra-api/internal/dto"
	"github.com/maher-jaber/rh-altra-api/internal/models"
	appErrors "github.com/maher-jaber/rh-altra-api/pkg/errors"
)

type advanceStore interface {
	Create(ctx context.Context, advance *models.AdvanceRequest) error
	GetByID(ctx context.Context, id string) (*models.AdvanceRequest, error)
	List(ctx context.Context, filter models.AdvanceFilter) ([]models.AdvanceRequest, error)
}

// AdvanceService orchestrates single-tier salary advance requests.
type AdvanceService struct {
	advances advanceStore
	users    userReader
	audit    *AuditTrail
	logger   *zap.Logger
}

// NewAdvanceService constructs the service.
func NewAdvanceService(advances advanceStore, users userReader, audit *AuditTrail, logger *zap.Logger) *AdvanceService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AdvanceService{advances: advances, users: users, audit: audit, logger: logger}
}

// Create inserts a draft advance with approvers resolved from the requester's
// manager assignments.
func (s *AdvanceService) Create(ctx context.Context, actor *models.JWTClaims, req *dto.CreateAdvanceRequest) (*models.AdvanceRequest, error) {
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil || !amount.IsPositive() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "amount must be a positive number")
	}

	requester, err := s.users.GetByID(ctx, actor.UserID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load requester")
	}

	advance := &models.AdvanceRequest{
		RequestCore: models.RequestCore{
			RequesterID: actor.UserID,
			ManagerID:   requester.ManagerID,
			Manager2ID:  requester.Manager2ID,
			Status:      models.StatusDraft,
		},
		Amount:      amount,
		Currency:    strings.ToUpper(req.Currency),
		PeriodYear:  req.PeriodYear,
		PeriodMonth: req.PeriodMonth,
	}
	if req.Reason != "" {
		advance.Reason = &req.Reason
	}

	if err := s.advances.Create(ctx, advance); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create advance request")
	}

	s.audit.Record(ctx, advance.ID, models.KindAdvance, models.AuditActionCreate, actor.UserID, nil)
	return advance, nil
}

// Get returns one advance request, visible to the requester, its approvers
// and administrative roles only.
func (s *AdvanceService) Get(ctx context.Context, actor *models.JWTClaims, id string) (*models.AdvanceRequest, error) {
	advance, err := s.advances.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "advance request not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load advance request")
	}
	if !canView(&advance.RequestCore, actor) {
		return nil, appErrors.ErrForbidden
	}
	return advance, nil
}

// List returns advance requests scoped to the caller's role.
func (s *AdvanceService) List(ctx context.Context, actor *models.JWTClaims, query *dto.AdvanceQuery) ([]models.AdvanceRequest, error) {
	filter := models.AdvanceFilter{
		Status: parseStatusFilter(query.Status),
		Limit:  query.Limit,
		Offset: query.Offset,
	}
	switch {
	case actor.Role.IsAdministrative():
	case actor.Role == models.RoleManager:
		filter.ApproverID = actor.UserID
	default:
		filter.RequesterID = actor.UserID
	}
	requests, err := s.advances.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list advance requests")
	}
	return requests, nil
}
