package models

import "time"

// Holiday is an admin-maintained non-working calendar date, unique per date.
type Holiday struct {
	ID        string    `db:"id" json:"id"`
	Date      time.Time `db:"date" json:"date"`
	Label     string    `db:"label" json:"label"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
