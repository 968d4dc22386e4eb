package service

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/SpaceTrucker2196/MaterialsAndPractices-sub005/internal/dto"
	"github.com/SpaceTrucker2196/MaterialsAndPractices-sub005/internal/models"
	appErrors "github.com/SpaceTrucker2196/MaterialsAndPractices-sub005/pkg/errors"
	"github.com/SpaceTrucker2196/MaterialsAndPractices-sub005/pkg/storage"
)

type workingTemplateResolver interface {
	GetByName(ctx context.Context, name string) (*models.WorkingTemplate, error)
}

type inspectionStore interface {
	Create(ctx context.Context, i *models.CompletedInspection) error
	GetByID(ctx context.Context, id string) (*models.CompletedInspection, error)
	List(ctx context.Context) ([]models.CompletedInspection, error)
}

type auditEntryWriter interface {
	SaveEntry(ctx context.Context, entry *models.AuditTrailEntry) error
}

type sealMetrics interface {
	InspectionSealed(category string)
}

type reportCacheInvalidator interface {
	DeleteByPattern(ctx context.Context, pattern string) error
}

// InspectionService seals completed inspection records: it binds a
// working template to run-time context, commits the populated file
// atomically, hashes the persisted bytes, and registers the audit entry.
type InspectionService struct {
	working   workingTemplateResolver
	repo      inspectionStore
	audit     auditEntryWriter
	vault     *storage.Vault
	validator *validator.Validate
	metrics   sealMetrics
	cache     reportCacheInvalidator
	logger    *zap.Logger
}

// NewInspectionService constructs the generator.
func NewInspectionService(working workingTemplateResolver, repo inspectionStore, audit auditEntryWriter, vault *storage.Vault, validate *validator.Validate, metrics sealMetrics, cache reportCacheInvalidator, logger *zap.Logger) *InspectionService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InspectionService{
		working:   working,
		repo:      repo,
		audit:     audit,
		vault:     vault,
		validator: validate,
		metrics:   metrics,
		cache:     cache,
		logger:    logger,
	}
}

// CreateFromWorkingTemplate produces a sealed record from a working
// template and run-time context. The returned CreatedInspectionInfo is
// the only channel through which the audit trail learns about the record.
func (s *InspectionService) CreateFromWorkingTemplate(ctx context.Context, req dto.CreateInspectionRequest) (*models.CreatedInspectionInfo, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid inspection payload")
	}
	inspContext := req.Context()
	if err := inspContext.Validate(); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInvalidInspectionData.Code, appErrors.ErrInvalidInspectionData.Status, "invalid inspection context")
	}
	for _, item := range req.CompletedItems {
		if err := item.Validate(); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInvalidInspectionData.Code, appErrors.ErrInvalidInspectionData.Status, "invalid checklist item")
		}
	}

	working, err := s.working.GetByName(ctx, req.WorkingTemplateName)
	if err != nil {
		return nil, err
	}

	completedAt := time.Now().UTC()
	recordID, err := generateRecordID(working.Name, completedAt)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to generate record id")
	}

	meta, _, _ := models.ParseTemplateContent(working.RawContent)
	content := populateContent(working.RawContent, recordID, completedAt, meta, inspContext)

	fileName := recordID + ".md"
	filePath, err := s.vault.WriteAtomic(storage.DirCompleted, fileName, []byte(content))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrFileOperationFailed.Code, appErrors.ErrFileOperationFailed.Status, "failed to write completed record")
	}

	// Hash what is actually on disk, not the in-memory buffer, so a later
	// read-back-and-rehash is a true tamper check.
	fileHash, err := s.vault.HashFile(filePath)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrFileOperationFailed.Code, appErrors.ErrFileOperationFailed.Status, "failed to hash completed record")
	}
	shortHash := models.ShortHash(fileHash)

	record := &models.CompletedInspection{
		ID:                recordID,
		TemplateID:        working.SourceTemplateID,
		WorkingTemplateID: working.ID,
		Name:              working.Name,
		Category:          meta.Category,
		CompletedAt:       completedAt,
		Context:           inspContext,
		CompletedItems:    models.ChecklistItemList(req.CompletedItems),
		FileName:          fileName,
		FilePath:          filePath,
	}
	if err := s.repo.Create(ctx, record); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrSaveOperationFailed.Code, appErrors.ErrSaveOperationFailed.Status, "failed to register completed record")
	}

	entry := &models.AuditTrailEntry{
		InspectionID:     recordID,
		FileHash:         fileHash,
		ShortHash:        shortHash,
		LongHash:         fileHash,
		CreatedAt:        completedAt,
		Inspector:        inspContext.Inspectors[0].Name,
		VerificationCode: models.VerificationCode(recordID, fileHash, completedAt),
	}
	if err := s.audit.SaveEntry(ctx, entry); err != nil {
		// The record row stays; reconciliation surfaces it under
		// orphanedRecords until the entry is repaired.
		return nil, appErrors.Wrap(err, appErrors.ErrAuditTrailCreation.Code, appErrors.ErrAuditTrailCreation.Status, "failed to create audit trail entry")
	}

	if s.metrics != nil {
		s.metrics.InspectionSealed(string(meta.Category))
	}
	if s.cache != nil {
		if err := s.cache.DeleteByPattern(ctx, "audit_report:*"); err != nil {
			s.logger.Sugar().Warnw("report cache invalidation failed", "error", err)
		}
	}

	return &models.CreatedInspectionInfo{
		ID:          recordID,
		FileName:    fileName,
		FilePath:    filePath,
		FileHash:    fileHash,
		ShortHash:   shortHash,
		CompletedAt: completedAt,
		Context:     inspContext,
	}, nil
}

// Get resolves a completed inspection by id.
func (s *InspectionService) Get(ctx context.Context, id string) (*models.CompletedInspection, error) {
	record, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrInspectionNotFound
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load inspection")
	}
	return record, nil
}

// List returns all completed inspections, newest first.
func (s *InspectionService) List(ctx context.Context) ([]models.CompletedInspection, error) {
	records, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list inspections")
	}
	return records, nil
}

// generateRecordID builds `<ISO-date>_<workingName>_<8-hex>`: the date
// prefix keeps directory listings chronological, the random suffix keeps
// same-day repeats unique.
func generateRecordID(workingName string, at time.Time) (string, error) {
	buf := make([]byte, 4)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("random suffix: %w", err)
	}
	name := storage.SanitizeFileName(workingName)
	return fmt.Sprintf("%s_%s_%s", at.Format("2006-01-02"), name, hex.EncodeToString(buf)), nil
}

// populateContent performs variable substitution: a header block is
// inserted immediately after the title line, and documented {{vars}}
// with known context values are replaced. Content with no newline gets
// the header prepended instead; the body is always preserved intact.
func populateContent(raw, recordID string, at time.Time, meta models.TemplateMeta, ctx models.InspectionContext) string {
	header := buildHeader(recordID, at, meta, ctx)

	substituted := substituteVariables(raw, at, ctx)

	idx := strings.Index(substituted, "\n")
	if idx < 0 {
		return header + substituted
	}
	return substituted[:idx+1] + header + substituted[idx+1:]
}

func buildHeader(recordID string, at time.Time, meta models.TemplateMeta, ctx models.InspectionContext) string {
	var b strings.Builder

	names := make([]string, 0, len(ctx.Inspectors))
	for _, inspector := range ctx.Inspectors {
		names = append(names, inspector.Name)
	}

	b.WriteString("\n")
	fmt.Fprintf(&b, "**Inspection ID:** %s\n", recordID)
	fmt.Fprintf(&b, "**Date:** %s\n", at.Format("2006-01-02"))
	fmt.Fprintf(&b, "**Time:** %s\n", at.Format("15:04:05"))
	fmt.Fprintf(&b, "**Inspectors:** %s\n", strings.Join(names, ", "))
	if ctx.Team != nil {
		fmt.Fprintf(&b, "**Team:** %s\n", ctx.Team.Name)
	}
	if meta.Category != "" {
		fmt.Fprintf(&b, "**Category:** %s\n", meta.Category)
	}
	if ctx.Schedule.Frequency != "" {
		fmt.Fprintf(&b, "**Frequency:** %s\n", ctx.Schedule.Frequency)
	}
	if ctx.Schedule.TimeOfDay != "" {
		fmt.Fprintf(&b, "**Time of Day:** %s\n", ctx.Schedule.TimeOfDay)
	}
	if ref := ctx.EntityReference; ref != nil {
		fmt.Fprintf(&b, "**Entity:** %s (%s %s)\n", ref.EntityName, ref.EntityType, ref.EntityID)
		if ref.FarmID != nil {
			fmt.Fprintf(&b, "**Farm ID:** %s\n", *ref.FarmID)
		}
		if ref.FieldID != nil {
			fmt.Fprintf(&b, "**Field ID:** %s\n", *ref.FieldID)
		}
		if ref.LotID != nil {
			fmt.Fprintf(&b, "**Lot ID:** %s\n", *ref.LotID)
		}
	}

	return b.String()
}

func substituteVariables(raw string, at time.Time, ctx models.InspectionContext) string {
	values := map[string]string{
		"inspection_date": at.Format("2006-01-02"),
	}
	if len(ctx.Inspectors) > 0 {
		values["inspector_name"] = ctx.Inspectors[0].Name
	}
	if ref := ctx.EntityReference; ref != nil {
		switch ref.EntityType {
		case models.EntityFarm:
			values["farm_name"] = ref.EntityName
		case models.EntityField:
			values["field_name"] = ref.EntityName
		}
		if ref.FarmID != nil && values["farm_name"] == "" {
			values["farm_name"] = *ref.FarmID
		}
	}

	for name, value := range values {
		raw = strings.ReplaceAll(raw, "{{"+name+"}}", value)
	}
	return raw
}
