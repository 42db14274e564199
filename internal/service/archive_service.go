package service

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/maher-jaber/rh-altra-api/internal/models"
	appErrors "github.com/maher-jaber/rh-altra-api/pkg/errors"
	"github.com/maher-jaber/rh-altra-api/pkg/export"
	"github.com/maher-jaber/rh-altra-api/pkg/storage"
)

type archiveStore interface {
	Create(ctx context.Context, archive *models.Archive) error
	LatestByRequest(ctx context.Context, requestID string) (*models.Archive, error)
	GetByID(ctx context.Context, id string) (*models.Archive, error)
}

type leaveReader interface {
	GetByID(ctx context.Context, id string) (*models.LeaveRequest, error)
}

type userReader interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
}

// ArchiveService produces and serves the durable decision document written
// when a leave request receives final approval. Finalization is best-effort:
// the approval has already committed, so rendering or storage failures are
// logged and the archive can be regenerated by a later finalization.
type ArchiveService struct {
	archives archiveStore
	leaves   leaveReader
	types    leaveTypeReader
	users    userReader
	exporter *export.PDFExporter
	storage  *storage.LocalStorage
	signer   *storage.SignedURLSigner
	audit    *AuditTrail
	logger   *zap.Logger
}

// NewArchiveService constructs the service.
func NewArchiveService(archives archiveStore, leaves leaveReader, types leaveTypeReader, users userReader, exporter *export.PDFExporter, store *storage.LocalStorage, signer *storage.SignedURLSigner, audit *AuditTrail, logger *zap.Logger) *ArchiveService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ArchiveService{
		archives: archives,
		leaves:   leaves,
		types:    types,
		users:    users,
		exporter: exporter,
		storage:  store,
		signer:   signer,
		audit:    audit,
		logger:   logger,
	}
}

// Finalize renders the decision PDF, stores it and records its metadata.
// Failures never propagate to the caller.
func (s *ArchiveService) Finalize(ctx context.Context, requestID, signerName string, signature []byte) {
	leave, err := s.leaves.GetByID(ctx, requestID)
	if err != nil {
		s.logger.Error("archive: failed to load leave request", zap.String("request_id", requestID), zap.Error(err))
		return
	}
	if leave.Status != models.StatusApproved {
		s.logger.Warn("archive: request not finally approved", zap.String("request_id", requestID), zap.String("status", string(leave.Status)))
		return
	}

	doc := export.LeaveDocument{
		Reference:  requestID,
		StartDate:  leave.StartDate.Format("2006-01-02"),
		EndDate:    leave.EndDate.Format("2006-01-02"),
		Days:       leave.Days.String(),
		SignerName: signerName,
		SignedAt:   time.Now().UTC().Format("2006-01-02 15:04"),
	}
	if leave.Reason != nil {
		doc.Reason = *leave.Reason
	}
	if leave.SignedAt != nil {
		doc.SignedAt = leave.SignedAt.UTC().Format("2006-01-02 15:04")
	}
	if leaveType, err := s.types.GetByID(ctx, leave.LeaveTypeID); err == nil {
		doc.LeaveType = leaveType.Label
	} else {
		s.logger.Warn("archive: failed to resolve leave type", zap.String("request_id", requestID), zap.Error(err))
		doc.LeaveType = leave.LeaveTypeID
	}
	if employee, err := s.users.GetByID(ctx, leave.RequesterID); err == nil {
		doc.EmployeeName = employee.FullName
	} else {
		s.logger.Warn("archive: failed to resolve employee", zap.String("request_id", requestID), zap.Error(err))
		doc.EmployeeName = leave.RequesterID
	}
	if leave.ManagerDecideBy != nil {
		if manager, err := s.users.GetByID(ctx, *leave.ManagerDecideBy); err == nil {
			doc.ManagerName = manager.FullName
		}
	}

	data, err := s.exporter.Render(doc)
	if err != nil {
		s.logger.Error("archive: failed to render decision document", zap.String("request_id", requestID), zap.Error(err))
		return
	}

	relPath := fmt.Sprintf("%d/%s.pdf", leave.StartDate.Year(), requestID)
	if _, err := s.storage.Save(relPath, data); err != nil {
		s.logger.Error("archive: failed to store decision document", zap.String("request_id", requestID), zap.Error(err))
		return
	}
	if len(signature) > 0 {
		sigPath := fmt.Sprintf("%d/%s.sig", leave.StartDate.Year(), requestID)
		if _, err := s.storage.Save(sigPath, signature); err != nil {
			s.logger.Warn("archive: failed to store signature image", zap.String("request_id", requestID), zap.Error(err))
		}
	}

	hash := sha256.Sum256(data)
	archive := &models.Archive{
		RequestID:   requestID,
		FilePath:    relPath,
		ContentHash: hex.EncodeToString(hash[:]),
		SizeBytes:   int64(len(data)),
	}
	if err := s.archives.Create(ctx, archive); err != nil {
		s.logger.Error("archive: failed to record archive metadata", zap.String("request_id", requestID), zap.Error(err))
		return
	}

	if s.audit != nil {
		actorID := leave.RequesterID
		if leave.FinalDecideBy != nil {
			actorID = *leave.FinalDecideBy
		}
		s.audit.Record(ctx, requestID, models.KindLeave, models.AuditActionArchive, actorID, nil)
	}

	s.logger.Info("archived finalized leave request",
		zap.String("request_id", requestID),
		zap.String("archive_id", archive.ID),
		zap.Int64("size_bytes", archive.SizeBytes))
}

// SignedLink returns a time-limited download token for the request's latest
// archive.
func (s *ArchiveService) SignedLink(ctx context.Context, requestID string) (string, time.Time, error) {
	archive, err := s.archives.LatestByRequest(ctx, requestID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", time.Time{}, appErrors.Clone(appErrors.ErrNotFound, "no archive for this request")
		}
		return "", time.Time{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load archive")
	}
	token, expiresAt, err := s.signer.Generate(archive.ID, archive.FilePath)
	if err != nil {
		return "", time.Time{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sign download link")
	}
	return token, expiresAt, nil
}

// OpenByToken validates a signed token and opens the referenced document.
// The returned file must be closed by the caller.
func (s *ArchiveService) OpenByToken(ctx context.Context, token string) (*os.File, *models.Archive, error) {
	archiveID, relPath, _, err := s.signer.Parse(token, false)
	if err != nil {
		return nil, nil, appErrors.Clone(appErrors.ErrForbidden, "invalid or expired download link")
	}
	archive, err := s.archives.GetByID(ctx, archiveID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, appErrors.Clone(appErrors.ErrNotFound, "archive not found")
		}
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load archive")
	}
	if archive.FilePath != relPath {
		return nil, nil, appErrors.Clone(appErrors.ErrForbidden, "invalid or expired download link")
	}
	file, err := s.storage.Open(archive.FilePath)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to open archive file")
	}
	return file, archive, nil
}
