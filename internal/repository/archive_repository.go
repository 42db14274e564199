package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/maher-jaber/rh-altra-api/internal/models"
)

// ArchiveRepository persists archive metadata for finalized leave requests.
type ArchiveRepository struct {
	db *sqlx.DB
}

// NewArchiveRepository constructs the repository.
func NewArchiveRepository(db *sqlx.DB) *ArchiveRepository {
	return &ArchiveRepository{db: db}
}

// Create inserts archive metadata.
func (r *ArchiveRepository) Create(ctx context.Context, archive *models.Archive) error {
	if archive.ID == "" {
		archive.ID = uuid.NewString()
	}
	if archive.CreatedAt.IsZero() {
		archive.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO archives (id, request_id, file_path, content_hash, size_bytes, created_at)
		VALUES (:id, :request_id, :file_path, :content_hash, :size_bytes, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, archive); err != nil {
		return fmt.Errorf("create archive: %w", err)
	}
	return nil
}

// LatestByRequest returns the authoritative (most recent) archive for a request.
func (r *ArchiveRepository) LatestByRequest(ctx context.Context, requestID string) (*models.Archive, error) {
	const query = `SELECT id, request_id, file_path, content_hash, size_bytes, created_at
		FROM archives WHERE request_id = $1 ORDER BY created_at DESC LIMIT 1`
	var archive models.Archive
	if err := r.db.GetContext(ctx, &archive, query, requestID); err != nil {
		return nil, err
	}
	return &archive, nil
}

// GetByID fetches archive metadata by identifier.
func (r *ArchiveRepository) GetByID(ctx context.Context, id string) (*models.Archive, error) {
	const query = `SELECT id, request_id, file_path, content_hash, size_bytes, created_at
		FROM archives WHERE id = $1`
	var archive models.Archive
	if err := r.db.GetContext(ctx, &archive, query, id); err != nil {
		return nil, err
	}
	return &archive, nil
}
