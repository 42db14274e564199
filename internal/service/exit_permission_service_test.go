package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/maher-jaber/rh-altra-api/internal/dto"
	"github.com/maher-jaber/rh-altra-api/internal/models"
	appErrors "github.com/maher-jaber/rh-altra-api/pkg/errors"
)

type exitStoreStub struct {
	created []*models.ExitPermission
}

func (s *exitStoreStub) Create(ctx context.Context, exit *models.ExitPermission) error {
	if exit.ID == "" {
		exit.ID = "ep-1"
	}
	s.created = append(s.created, exit)
	return nil
}

func (s *exitStoreStub) GetByID(ctx context.Context, id string) (*models.ExitPermission, error) {
	for _, exit := range s.created {
		if exit.ID == id {
			return exit, nil
		}
	}
	return nil, context.Canceled
}

func (s *exitStoreStub) List(ctx context.Context, filter models.ExitPermissionFilter) ([]models.ExitPermission, error) {
	return nil, nil
}

type userReaderStub struct {
	user *models.User
}

func (u *userReaderStub) GetByID(ctx context.Context, id string) (*models.User, error) {
	return u.user, nil
}

type cappedSnapshotStub struct {
	settings models.WorkflowSettings
}

func (c cappedSnapshotStub) Snapshot(ctx context.Context) models.WorkflowSettings {
	return c.settings
}

func newExitService(store *exitStoreStub, maxHours float64) *ExitPermissionService {
	settings := models.DefaultWorkflowSettings()
	settings.ExitMaxHours = maxHours
	users := &userReaderStub{user: &models.User{ID: "emp-1", ManagerID: strptr("mgr-1")}}
	return NewExitPermissionService(store, users, cappedSnapshotStub{settings: settings},
		NewAuditTrail(&auditRepoStub{}, nil), nil)
}

func exitWindow(hours float64) *dto.CreateExitPermissionRequest {
	start := time.Date(2025, time.June, 3, 9, 0, 0, 0, time.UTC)
	return &dto.CreateExitPermissionRequest{
		StartAt: start,
		EndAt:   start.Add(time.Duration(hours * float64(time.Hour))),
		Reason:  "medical appointment",
	}
}

func TestExitPermissionCreateWithinCap(t *testing.T) {
	store := &exitStoreStub{}
	svc := newExitService(store, 4)

	exit, err := svc.Create(context.Background(), claims("emp-1", models.RoleEmployee), exitWindow(2))
	require.NoError(t, err)
	require.Equal(t, models.StatusDraft, exit.Status)
	require.Equal(t, "emp-1", exit.RequesterID)
	require.NotNil(t, exit.ManagerID)
	require.Len(t, store.created, 1)
}

func TestExitPermissionCreateExceedsCap(t *testing.T) {
	svc := newExitService(&exitStoreStub{}, 4)
	_, err := svc.Create(context.Background(), claims("emp-1", models.RoleEmployee), exitWindow(6))
	requireCode(t, err, appErrors.ErrValidation.Code)
}

func TestExitPermissionCreateUncappedWhenZero(t *testing.T) {
	svc := newExitService(&exitStoreStub{}, 0)
	_, err := svc.Create(context.Background(), claims("emp-1", models.RoleEmployee), exitWindow(10))
	require.NoError(t, err)
}

func TestExitPermissionCreateRejectsInvertedWindow(t *testing.T) {
	svc := newExitService(&exitStoreStub{}, 4)
	req := exitWindow(2)
	req.StartAt, req.EndAt = req.EndAt, req.StartAt
	_, err := svc.Create(context.Background(), claims("emp-1", models.RoleEmployee), req)
	requireCode(t, err, appErrors.ErrInvalidDates.Code)
}
