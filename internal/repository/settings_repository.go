package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/maher-jaber/rh-altra-api/internal/models"
)

// SettingsRepository persists the global key-value settings store.
type SettingsRepository struct {
	db *sqlx.DB
}

// NewSettingsRepository constructs the repository.
func NewSettingsRepository(db *sqlx.DB) *SettingsRepository {
	return &SettingsRepository{db: db}
}

// Get fetches one setting by key.
func (r *SettingsRepository) Get(ctx context.Context, key string) (*models.Setting, error) {
	const query = `SELECT key, value, updated_at FROM settings WHERE key = $1`
	var setting models.Setting
	if err := r.db.GetContext(ctx, &setting, query, key); err != nil {
		return nil, err
	}
	return &setting, nil
}

// ListByKeys fetches the settings matching the given keys.
func (r *SettingsRepository) ListByKeys(ctx context.Context, keys []string) ([]models.Setting, error) {
	query, args, err := sqlx.In(`SELECT key, value, updated_at FROM settings WHERE key IN (?)`, keys)
	if err != nil {
		return nil, fmt.Errorf("build settings query: %w", err)
	}
	query = r.db.Rebind(query)
	var settings []models.Setting
	if err := r.db.SelectContext(ctx, &settings, query, args...); err != nil {
		return nil, fmt.Errorf("list settings: %w", err)
	}
	return settings, nil
}

// Upsert writes one setting.
func (r *SettingsRepository) Upsert(ctx context.Context, setting *models.Setting) error {
	setting.UpdatedAt = time.Now().UTC()
	const query = `INSERT INTO settings (key, value, updated_at)
		VALUES (:key, :value, :updated_at)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at`
	if _, err := r.db.NamedExecContext(ctx, query, setting); err != nil {
		return fmt.Errorf("upsert setting: %w", err)
	}
	return nil
}
