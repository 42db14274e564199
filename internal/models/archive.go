package models

import "time"

// Archive references the durable signed document produced when a leave request
// receives final approval. The most recent row per request is authoritative.
type Archive struct {
	ID          string    `db:"id" json:"id"`
	RequestID   string    `db:"request_id" json:"request_id"`
	FilePath    string    `db:"file_path" json:"file_path"`
	ContentHash string    `db:"content_hash" json:"content_hash"`
	SizeBytes   int64     `db:"size_bytes" json:"size_bytes"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}
