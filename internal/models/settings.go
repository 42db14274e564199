package models

import "time"

// Setting is one row of the key-value settings store.
type Setting struct {
	Key       string    `db:"key" json:"key"`
	Value     string    `db:"value" json:"value"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Setting keys consumed by the workflow.
const (
	SettingWeekendDays       = "weekend_days"
	SettingNotificationPrefs = "notification_prefs"
	SettingExitMaxHours      = "exit_max_hours"
)

// EmailPreference resolves whether a role bucket receives email for a
// category. All acts as the default when no per-category override exists.
type EmailPreference struct {
	All        bool                          `json:"all"`
	Categories map[NotificationCategory]bool `json:"categories,omitempty"`
}

// Allows resolves the effective preference for one category.
func (p EmailPreference) Allows(category NotificationCategory) bool {
	if p.Categories != nil {
		if v, ok := p.Categories[category]; ok {
			return v
		}
	}
	return p.All
}

// WorkflowSettings is the typed configuration snapshot loaded once per logical
// operation so that every decision within it sees consistent values.
type WorkflowSettings struct {
	// WeekendDays holds ISO weekday numbers (1=Monday .. 7=Sunday).
	WeekendDays  []int                        `json:"weekend_days"`
	EmailPrefs   map[UserRole]EmailPreference `json:"email_prefs"`
	ExitMaxHours float64                      `json:"exit_max_hours"`
}

// DefaultWorkflowSettings returns the fallback snapshot: Saturday/Sunday
// weekend, email on for everyone, no exit-hours cap.
func DefaultWorkflowSettings() WorkflowSettings {
	return WorkflowSettings{
		WeekendDays: []int{6, 7},
		EmailPrefs: map[UserRole]EmailPreference{
			RoleEmployee: {All: true},
			RoleManager:  {All: true},
			RoleHR:       {All: true},
			RoleAdmin:    {All: true},
		},
	}
}

// IsWeekend reports whether the date falls on a configured weekend day.
func (s WorkflowSettings) IsWeekend(t time.Time) bool {
	iso := int(t.Weekday())
	if iso == 0 {
		iso = 7
	}
	for _, d := range s.WeekendDays {
		if d == iso {
			return true
		}
	}
	return false
}

// EmailAllowed resolves the email preference for a recipient role and category.
// Unknown roles default to allowed.
func (s WorkflowSettings) EmailAllowed(role UserRole, category NotificationCategory) bool {
	pref, ok := s.EmailPrefs[role]
	if !ok {
		return true
	}
	return pref.Allows(category)
}
