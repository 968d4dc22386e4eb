package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/SpaceTrucker2196/MaterialsAndPractices-sub005/internal/models"
	appErrors "github.com/SpaceTrucker2196/MaterialsAndPractices-sub005/pkg/errors"
)

type auditStore interface {
	Create(ctx context.Context, entry *models.AuditTrailEntry) error
	GetByInspection(ctx context.Context, inspectionID string) (*models.AuditTrailEntry, error)
	List(ctx context.Context) ([]models.AuditTrailEntry, error)
}

// AuditService owns the integrity ledger: one immutable entry per sealed
// inspection, carrying the file hash and a derived verification code.
type AuditService struct {
	repo   auditStore
	logger *zap.Logger
}

// NewAuditService constructs the ledger facade.
func NewAuditService(repo auditStore, logger *zap.Logger) *AuditService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuditService{repo: repo, logger: logger}
}

// SaveEntry validates and persists an audit entry. Defaults are filled
// in for id, timestamps, short hash, and verification code so callers
// only need to supply the inspection id and the file hash.
func (s *AuditService) SaveEntry(ctx context.Context, entry *models.AuditTrailEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	if entry.LongHash == "" {
		entry.LongHash = entry.FileHash
	}
	if entry.ShortHash == "" {
		entry.ShortHash = models.ShortHash(entry.FileHash)
	}
	if entry.VerificationCode == "" {
		entry.VerificationCode = models.VerificationCode(entry.InspectionID, entry.FileHash, entry.CreatedAt)
	}
	if err := entry.Validate(); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInvalidHash.Code, appErrors.ErrInvalidHash.Status, "invalid audit entry")
	}
	if err := s.repo.Create(ctx, entry); err != nil {
		return appErrors.Wrap(err, appErrors.ErrAuditTrailCreation.Code, appErrors.ErrAuditTrailCreation.Status, "failed to persist audit entry")
	}
	s.logger.Sugar().Infow("audit entry recorded",
		"inspection_id", entry.InspectionID,
		"short_hash", entry.ShortHash,
		"verification_code", entry.VerificationCode,
	)
	return nil
}

// GetByInspection resolves the ledger entry for one inspection.
func (s *AuditService) GetByInspection(ctx context.Context, inspectionID string) (*models.AuditTrailEntry, error) {
	entry, err := s.repo.GetByInspection(ctx, inspectionID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrInspectionNotFound
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load audit entry")
	}
	return entry, nil
}

// List returns the full ledger, newest first.
func (s *AuditService) List(ctx context.Context) ([]models.AuditTrailEntry, error) {
	entries, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list audit entries")
	}
	return entries, nil
}

// Verify recomputes the verification code for an entry and reports
// whether the stored code still matches. A mismatch means either the
// stored hash or the stored timestamp was altered after sealing.
func (s *AuditService) Verify(ctx context.Context, inspectionID string) (bool, *models.AuditTrailEntry, error) {
	entry, err := s.GetByInspection(ctx, inspectionID)
	if err != nil {
		return false, nil, err
	}
	expected := models.VerificationCode(entry.InspectionID, entry.FileHash, entry.CreatedAt)
	return expected == entry.VerificationCode, entry, nil
}
