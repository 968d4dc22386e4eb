package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/SpaceTrucker2196/MaterialsAndPractices-sub005/internal/models"
	appErrors "github.com/SpaceTrucker2196/MaterialsAndPractices-sub005/pkg/errors"
	"github.com/SpaceTrucker2196/MaterialsAndPractices-sub005/pkg/storage"
)

type inspectionReader interface {
	List(ctx context.Context) ([]models.CompletedInspection, error)
	ListBetween(ctx context.Context, from, to time.Time) ([]models.CompletedInspection, error)
}

type auditReader interface {
	List(ctx context.Context) ([]models.AuditTrailEntry, error)
}

type reconcileMetrics interface {
	ReconciliationRun(clean bool)
	DiscrepancyFound(kind string, count int)
	RecordCacheOperation(hit bool)
}

type reportCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}

// ReconciliationService compares the record store against the physical
// completed-record directory. It is strictly read-only: it classifies
// discrepancies but never repairs, deletes, or rewrites anything.
type ReconciliationService struct {
	inspections inspectionReader
	audits      auditReader
	vault       *storage.Vault
	cache       reportCache
	metrics     reconcileMetrics
	cacheTTL    time.Duration
	logger      *zap.Logger
}

// NewReconciliationService constructs the reconciler.
func NewReconciliationService(inspections inspectionReader, audits auditReader, vault *storage.Vault, cache reportCache, metrics reconcileMetrics, cacheTTL time.Duration, logger *zap.Logger) *ReconciliationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cacheTTL <= 0 {
		cacheTTL = 10 * time.Minute
	}
	return &ReconciliationService{
		inspections: inspections,
		audits:      audits,
		vault:       vault,
		cache:       cache,
		metrics:     metrics,
		cacheTTL:    cacheTTL,
		logger:      logger,
	}
}

// Reconcile takes a snapshot of both views of truth and classifies every
// discrepancy. A result with non-empty buckets is still a success:
// detecting silent loss or tampering is the whole purpose of the run.
func (s *ReconciliationService) Reconcile(ctx context.Context) (*models.ReconciliationResult, error) {
	records, err := s.inspections.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load inspection records")
	}
	entries, err := s.audits.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load audit entries")
	}
	files, err := s.vault.List(storage.DirCompleted)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrFileOperationFailed.Code, appErrors.ErrFileOperationFailed.Status, "failed to list completed records directory")
	}

	entryByInspection := make(map[string]models.AuditTrailEntry, len(entries))
	for _, e := range entries {
		entryByInspection[e.InspectionID] = e
	}
	knownFiles := make(map[string]struct{}, len(records))

	result := &models.ReconciliationResult{
		CheckedAt:          time.Now().UTC(),
		RecordsChecked:     len(records),
		FilesChecked:       len(files),
		MissingFiles:       []string{},
		OrphanedRecords:    []string{},
		InconsistentHashes: []models.HashMismatch{},
		NewFiles:           []string{},
	}

	for _, record := range records {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		knownFiles[record.FileName] = struct{}{}

		entry, sealed := entryByInspection[record.ID]
		if !sealed {
			result.OrphanedRecords = append(result.OrphanedRecords, record.ID)
		}

		if !s.vault.Exists(storage.DirCompleted, record.FileName) {
			result.MissingFiles = append(result.MissingFiles, record.ID)
			continue
		}
		if !sealed {
			// No sealed hash to compare against; the orphan bucket
			// already carries this record.
			continue
		}

		actual, err := s.vault.HashFile(s.vault.Path(storage.DirCompleted, record.FileName))
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrFileOperationFailed.Code, appErrors.ErrFileOperationFailed.Status, fmt.Sprintf("failed to rehash %s", record.FileName))
		}
		if actual != entry.FileHash {
			result.InconsistentHashes = append(result.InconsistentHashes, models.HashMismatch{
				FileID:       record.ID,
				ExpectedHash: entry.FileHash,
				ActualHash:   actual,
			})
		}
	}

	for _, name := range files {
		if _, known := knownFiles[name]; !known {
			result.NewFiles = append(result.NewFiles, name)
		}
	}

	if s.metrics != nil {
		s.metrics.ReconciliationRun(result.Clean())
		s.metrics.DiscrepancyFound("missing_file", len(result.MissingFiles))
		s.metrics.DiscrepancyFound("orphaned_record", len(result.OrphanedRecords))
		s.metrics.DiscrepancyFound("inconsistent_hash", len(result.InconsistentHashes))
		s.metrics.DiscrepancyFound("new_file", len(result.NewFiles))
	}

	if result.Clean() {
		s.logger.Sugar().Infow("reconciliation clean",
			"records", result.RecordsChecked,
			"files", result.FilesChecked,
		)
	} else {
		s.logger.Sugar().Warnw("reconciliation found discrepancies",
			"missing_files", len(result.MissingFiles),
			"orphaned_records", len(result.OrphanedRecords),
			"inconsistent_hashes", len(result.InconsistentHashes),
			"new_files", len(result.NewFiles),
		)
	}

	return result, nil
}

// GenerateAuditReport aggregates completed inspections inside the window.
// Results are cached per window; the cache is invalidated whenever a new
// record is sealed.
func (s *ReconciliationService) GenerateAuditReport(ctx context.Context, from, to time.Time) (*models.AuditReport, error) {
	if to.Before(from) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "report window end precedes start")
	}

	cacheKey := fmt.Sprintf("audit_report:%d:%d", from.Unix(), to.Unix())
	if s.cache != nil {
		var cached models.AuditReport
		if err := s.cache.Get(ctx, cacheKey, &cached); err == nil {
			if s.metrics != nil {
				s.metrics.RecordCacheOperation(true)
			}
			return &cached, nil
		}
		if s.metrics != nil {
			s.metrics.RecordCacheOperation(false)
		}
	}

	records, err := s.inspections.ListBetween(ctx, from, to)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load inspections for report window")
	}

	report := &models.AuditReport{
		From:              from,
		To:                to,
		TotalInspections:  len(records),
		ByCategory:        make(map[models.TemplateCategory]int),
		InspectorActivity: make(map[string]int),
		GeneratedAt:       time.Now().UTC(),
	}

	var scoreSum float64
	for _, record := range records {
		score := record.ComplianceScore()
		scoreSum += score
		if record.HasCriticalGap() {
			report.CriticalIssues++
		}
		report.ByCategory[record.Category]++
		for _, inspector := range record.Context.Inspectors {
			report.InspectorActivity[inspector.Name]++
		}
	}
	if len(records) > 0 {
		report.ComplianceRate = scoreSum / float64(len(records))
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, cacheKey, report, s.cacheTTL); err != nil {
			s.logger.Sugar().Warnw("audit report cache write failed", "error", err)
		}
	}

	return report, nil
}
