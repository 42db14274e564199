package dto

import "github.com/maher-jaber/rh-altra-api/internal/models"

// UpdateWorkflowSettingsRequest replaces the workflow configuration snapshot.
type UpdateWorkflowSettingsRequest struct {
	WeekendDays  []int                                      `json:"weekend_days" validate:"required,min=0,max=7,dive,min=1,max=7"`
	EmailPrefs   map[models.UserRole]models.EmailPreference `json:"email_prefs"`
	ExitMaxHours float64                                    `json:"exit_max_hours" validate:"min=0"`
}
