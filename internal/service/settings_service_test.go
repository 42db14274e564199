package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/maher-jaber/rh-altra-api/internal/models"
	appErrors "github.com/maher-jaber/rh-altra-api/pkg/errors"
)

type settingsRepoStub struct {
	rows    map[string]string
	listErr error
}

func (s *settingsRepoStub) ListByKeys(ctx context.Context, keys []string) ([]models.Setting, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	result := make([]models.Setting, 0, len(keys))
	for _, key := range keys {
		if value, ok := s.rows[key]; ok {
			result = append(result, models.Setting{Key: key, Value: value})
		}
	}
	return result, nil
}

func (s *settingsRepoStub) Upsert(ctx context.Context, setting *models.Setting) error {
	if s.rows == nil {
		s.rows = make(map[string]string)
	}
	s.rows[setting.Key] = setting.Value
	return nil
}

func TestSnapshotParsesStoredValues(t *testing.T) {
	repo := &settingsRepoStub{rows: map[string]string{
		models.SettingWeekendDays:       "5,6",
		models.SettingNotificationPrefs: `{"MANAGER":{"all":false}}`,
		models.SettingExitMaxHours:      "4",
	}}
	svc := NewSettingsService(repo, nil)

	snapshot := svc.Snapshot(context.Background())
	require.Equal(t, []int{5, 6}, snapshot.WeekendDays)
	require.False(t, snapshot.EmailAllowed(models.RoleManager, models.CategoryRequestSubmitted))
	require.InDelta(t, 4.0, snapshot.ExitMaxHours, 0.001)
}

func TestSnapshotDegradesToDefaultsOnStorageError(t *testing.T) {
	repo := &settingsRepoStub{listErr: errors.New("db down")}
	svc := NewSettingsService(repo, nil)

	snapshot := svc.Snapshot(context.Background())
	require.Equal(t, models.DefaultWorkflowSettings().WeekendDays, snapshot.WeekendDays)
	require.True(t, snapshot.EmailAllowed(models.RoleEmployee, models.CategoryRequestDecided))
	require.Zero(t, snapshot.ExitMaxHours)
}

func TestSnapshotIgnoresUnparsableValues(t *testing.T) {
	repo := &settingsRepoStub{rows: map[string]string{
		models.SettingWeekendDays:  "6,banana",
		models.SettingExitMaxHours: "-2",
	}}
	svc := NewSettingsService(repo, nil)

	snapshot := svc.Snapshot(context.Background())
	require.Equal(t, []int{6, 7}, snapshot.WeekendDays)
	require.Zero(t, snapshot.ExitMaxHours)
}

func TestUpdateRoundTrips(t *testing.T) {
	repo := &settingsRepoStub{}
	svc := NewSettingsService(repo, nil)

	err := svc.Update(context.Background(), models.WorkflowSettings{
		WeekendDays:  []int{5, 6},
		EmailPrefs:   map[models.UserRole]models.EmailPreference{models.RoleEmployee: {All: true}},
		ExitMaxHours: 3.5,
	})
	require.NoError(t, err)

	snapshot := svc.Snapshot(context.Background())
	require.Equal(t, []int{5, 6}, snapshot.WeekendDays)
	require.InDelta(t, 3.5, snapshot.ExitMaxHours, 0.001)
}

func TestUpdateRejectsInvalidWeekendDay(t *testing.T) {
	svc := NewSettingsService(&settingsRepoStub{}, nil)
	err := svc.Update(context.Background(), models.WorkflowSettings{WeekendDays: []int{0}})
	requireCode(t, err, appErrors.ErrValidation.Code)
}
