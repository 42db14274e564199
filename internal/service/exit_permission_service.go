package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/maher-jaber/rh-altra-api/internal/dto"
	"github.com/maher-jaber/rh-altra-api/internal/models"
	appErrors "github.com/maher-jaber/rh-altra-api/pkg/errors"
)

type exitPermissionStore interface {
	Create(ctx context.Context, exit *models.ExitPermission) error
	GetByID(ctx context.Context, id string) (*models.ExitPermission, error)
	List(ctx context.Context, filter models.ExitPermissionFilter) ([]models.ExitPermission, error)
}

// ExitPermissionService orchestrates single-tier exit permission requests.
// Duration is bounded by the configurable maximum from workflow settings.
type ExitPermissionService struct {
	exits    exitPermissionStore
	users    userReader
	settings settingsSnapshotter
	audit    *AuditTrail
	logger   *zap.Logger
}

// NewExitPermissionService constructs the service.
func NewExitPermissionService(exits exitPermissionStore, users userReader, settings settingsSnapshotter, audit *AuditTrail, logger *zap.Logger) *ExitPermissionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExitPermissionService{exits: exits, users: users, settings: settings, audit: audit, logger: logger}
}

// Create inserts a draft exit permission after bounding the window.
func (s *ExitPermissionService) Create(ctx context.Context, actor *models.JWTClaims, req *dto.CreateExitPermissionRequest) (*models.ExitPermission, error) {
	if !req.EndAt.After(req.StartAt) {
		return nil, appErrors.ErrInvalidDates
	}
	snapshot := s.settings.Snapshot(ctx)
	hours := req.EndAt.Sub(req.StartAt).Hours()
	if snapshot.ExitMaxHours > 0 && hours > snapshot.ExitMaxHours {
		return nil, appErrors.Clone(appErrors.ErrValidation,
			fmt.Sprintf("exit permission may not exceed %.1f hours", snapshot.ExitMaxHours))
	}

	requester, err := s.users.GetByID(ctx, actor.UserID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load requester")
	}

	exit := &models.ExitPermission{
		RequestCore: models.RequestCore{
			RequesterID: actor.UserID,
			ManagerID:   requester.ManagerID,
			Manager2ID:  requester.Manager2ID,
			Status:      models.StatusDraft,
		},
		StartAt: req.StartAt,
		EndAt:   req.EndAt,
	}
	if req.Reason != "" {
		exit.Reason = &req.Reason
	}

	if err := s.exits.Create(ctx, exit); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create exit permission")
	}

	s.audit.Record(ctx, exit.ID, models.KindExitPermission, models.AuditActionCreate, actor.UserID, nil)
	return exit, nil
}

// Get returns one exit permission, visible to the requester, its approvers
// and administrative roles only.
func (s *ExitPermissionService) Get(ctx context.Context, actor *models.JWTClaims, id string) (*models.ExitPermission, error) {
	exit, err := s.exits.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "exit permission not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load exit permission")
	}
	if !canView(&exit.RequestCore, actor) {
		return nil, appErrors.ErrForbidden
	}
	return exit, nil
}

// List returns exit permissions scoped to the caller's role.
func (s *ExitPermissionService) List(ctx context.Context, actor *models.JWTClaims, query *dto.ExitPermissionQuery) ([]models.ExitPermission, error) {
	filter := models.ExitPermissionFilter{
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
	requests, err := s.exits.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list exit permissions")
	}
	return requests, nil
}
