package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/maher-jaber/rh-altra-api/internal/models"
)

// HolidayRepository persists the non-working calendar dates.
type HolidayRepository struct {
	db *sqlx.DB
}

// NewHolidayRepository constructs the repository.
func NewHolidayRepository(db *sqlx.DB) *HolidayRepository {
	return &HolidayRepository{db: db}
}

// ListBetween returns holidays inside [start, end], the window callers use to
// feed the working-day calculator without loading the whole table.
func (r *HolidayRepository) ListBetween(ctx context.Context, start, end time.Time) ([]models.Holiday, error) {
	const query = `SELECT id, date, label, created_at FROM holidays
		WHERE date >= $1 AND date <= $2 ORDER BY date`
	var holidays []models.Holiday
	if err := r.db.SelectContext(ctx, &holidays, query, start, end); err != nil {
		return nil, fmt.Errorf("list holidays: %w", err)
	}
	return holidays, nil
}

// List returns every registered holiday ordered by date.
func (r *HolidayRepository) List(ctx context.Context) ([]models.Holiday, error) {
	const query = `SELECT id, date, label, created_at FROM holidays ORDER BY date`
	var holidays []models.Holiday
	if err := r.db.SelectContext(ctx, &holidays, query); err != nil {
		return nil, fmt.Errorf("list holidays: %w", err)
	}
	return holidays, nil
}

// Create registers a holiday; the date is unique.
func (r *HolidayRepository) Create(ctx context.Context, holiday *models.Holiday) error {
	if holiday.ID == "" {
		holiday.ID = uuid.NewString()
	}
	if holiday.CreatedAt.IsZero() {
		holiday.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO holidays (id, date, label, created_at)
		VALUES (:id, :date, :label, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, holiday); err != nil {
		return fmt.Errorf("create holiday: %w", err)
	}
	return nil
}

// Delete removes a holiday by identifier.
func (r *HolidayRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM holidays WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete holiday: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check holiday delete rows: %w", err)
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}
