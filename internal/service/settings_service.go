package service

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/maher-jaber/rh-altra-api/internal/models"
	appErrors "github.com/maher-jaber/rh-altra-api/pkg/errors"
)

type settingsStore interface {
	ListByKeys(ctx context.Context, keys []string) ([]models.Setting, error)
	Upsert(ctx context.Context, setting *models.Setting) error
}

// SettingsService materializes the typed workflow configuration snapshot.
// Callers load the snapshot once at the start of a logical operation so every
// eligibility and notification decision within it sees consistent values.
type SettingsService struct {
	repo   settingsStore
	logger *zap.Logger
}

// NewSettingsService constructs the service.
func NewSettingsService(repo settingsStore, logger *zap.Logger) *SettingsService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SettingsService{repo: repo, logger: logger}
}

// Snapshot loads the workflow settings, falling back to defaults for any key
// that is missing or unparsable. A storage failure also degrades to defaults:
// the workflow must keep functioning on the stock configuration.
func (s *SettingsService) Snapshot(ctx context.Context) models.WorkflowSettings {
	snapshot := models.DefaultWorkflowSettings()

	rows, err := s.repo.ListByKeys(ctx, []string{
		models.SettingWeekendDays,
		models.SettingNotificationPrefs,
		models.SettingExitMaxHours,
	})
	if err != nil {
		s.logger.Warn("failed to load workflow settings, using defaults", zap.Error(err))
		return snapshot
	}

	for _, row := range rows {
		switch row.Key {
		case models.SettingWeekendDays:
			if days := parseWeekendDays(row.Value); days != nil {
				snapshot.WeekendDays = days
			}
		case models.SettingNotificationPrefs:
			var prefs map[models.UserRole]models.EmailPreference
			if err := json.Unmarshal([]byte(row.Value), &prefs); err != nil {
				s.logger.Warn("invalid notification prefs setting", zap.Error(err))
				continue
			}
			snapshot.EmailPrefs = prefs
		case models.SettingExitMaxHours:
			hours, err := strconv.ParseFloat(strings.TrimSpace(row.Value), 64)
			if err != nil || hours < 0 {
				s.logger.Warn("invalid exit max hours setting", zap.String("value", row.Value))
				continue
			}
			snapshot.ExitMaxHours = hours
		}
	}
	return snapshot
}

// Update replaces the stored workflow settings.
func (s *SettingsService) Update(ctx context.Context, settings models.WorkflowSettings) error {
	for _, d := range settings.WeekendDays {
		if d < 1 || d > 7 {
			return appErrors.Clone(appErrors.ErrValidation, "weekend days must be ISO weekday numbers 1-7")
		}
	}

	parts := make([]string, len(settings.WeekendDays))
	for i, d := range settings.WeekendDays {
		parts[i] = strconv.Itoa(d)
	}
	if err := s.repo.Upsert(ctx, &models.Setting{Key: models.SettingWeekendDays, Value: strings.Join(parts, ",")}); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store weekend days")
	}

	prefs, err := json.Marshal(settings.EmailPrefs)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to encode notification prefs")
	}
	if err := s.repo.Upsert(ctx, &models.Setting{Key: models.SettingNotificationPrefs, Value: string(prefs)}); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store notification prefs")
	}

	value := strconv.FormatFloat(settings.ExitMaxHours, 'f', -1, 64)
	if err := s.repo.Upsert(ctx, &models.Setting{Key: models.SettingExitMaxHours, Value: value}); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store exit max hours")
	}
	return nil
}

func parseWeekendDays(raw string) []int {
	parts := strings.Split(raw, ",")
	days := make([]int, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		d, err := strconv.Atoi(part)
		if err != nil || d < 1 || d > 7 {
			return nil
		}
		days = append(days, d)
	}
	return days
}
