package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/SpaceTrucker2196/MaterialsAndPractices-sub005/internal/dto"
	"github.com/SpaceTrucker2196/MaterialsAndPractices-sub005/internal/models"
	appErrors "github.com/SpaceTrucker2196/MaterialsAndPractices-sub005/pkg/errors"
	"github.com/SpaceTrucker2196/MaterialsAndPractices-sub005/pkg/storage"
)

type templateStore interface {
	Create(ctx context.Context, t *models.InspectionTemplate) error
	GetByID(ctx context.Context, id string) (*models.InspectionTemplate, error)
	List(ctx context.Context) ([]models.InspectionTemplate, error)
	Count(ctx context.Context) (int, error)
	Delete(ctx context.Context, id string) (int64, error)
}

// CatalogService stores and serves immutable master templates. Template
// files live under InspectionTemplates/ alongside the store rows.
type CatalogService struct {
	repo      templateStore
	vault     *storage.Vault
	validator *validator.Validate
	logger    *zap.Logger
}

// NewCatalogService constructs the catalog.
func NewCatalogService(repo templateStore, vault *storage.Vault, validate *validator.Validate, logger *zap.Logger) *CatalogService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CatalogService{repo: repo, vault: vault, validator: validate, logger: logger}
}

// List returns every master template with parsed checklist items.
// An empty catalog returns an empty slice, never an error.
func (s *CatalogService) List(ctx context.Context) ([]models.InspectionTemplate, error) {
	templates, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list templates")
	}
	for i := range templates {
		s.attachItems(&templates[i])
	}
	return templates, nil
}

// Get resolves one master template by id.
func (s *CatalogService) Get(ctx context.Context, id string) (*models.InspectionTemplate, error) {
	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrTemplateNotFound
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load template")
	}
	s.attachItems(t)
	return t, nil
}

// Save validates and publishes a master template: file first, then the
// store row, so a failed row insert never leaves a registered template
// without its file.
func (s *CatalogService) Save(ctx context.Context, req dto.SaveTemplateRequest) (*models.InspectionTemplate, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid template payload")
	}

	meta, items, err := models.ParseTemplateContent(req.RawContent)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInvalidInspectionData.Code, appErrors.ErrInvalidInspectionData.Status, "template content not parseable")
	}

	version := req.Version
	if version == "" {
		version = meta.Version
	}
	if version == "" {
		version = "1.0.0"
	}

	template := &models.InspectionTemplate{
		Name:           req.Name,
		Category:       meta.Category,
		Version:        version,
		RawContent:     req.RawContent,
		ChecklistItems: items,
	}
	if err := template.Validate(); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInvalidInspectionData.Code, appErrors.ErrInvalidInspectionData.Status, "template failed validation")
	}

	if _, err := s.vault.WriteAtomic(storage.DirTemplates, template.FileName(), []byte(template.RawContent)); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrFileOperationFailed.Code, appErrors.ErrFileOperationFailed.Status, "failed to write template file")
	}
	if err := s.repo.Create(ctx, template); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrSaveOperationFailed.Code, appErrors.ErrSaveOperationFailed.Status, "failed to save template")
	}
	return template, nil
}

// Delete removes a master template and its file.
func (s *CatalogService) Delete(ctx context.Context, id string) error {
	t, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if _, err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrSaveOperationFailed.Code, appErrors.ErrSaveOperationFailed.Status, "failed to delete template")
	}
	if err := s.vault.Delete(storage.DirTemplates, t.FileName()); err != nil {
		s.logger.Sugar().Warnw("template file removal failed", "template_id", id, "error", err)
	}
	return nil
}

// SeedTemplatesIfNeeded installs the built-in templates exactly once.
// A non-empty catalog is left untouched, so repeated startups never
// create duplicate names. Returns the number of templates installed.
func (s *CatalogService) SeedTemplatesIfNeeded(ctx context.Context) (int, error) {
	count, err := s.repo.Count(ctx)
	if err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to inspect catalog")
	}
	if count > 0 {
		return 0, nil
	}

	installed := 0
	for _, seed := range seedTemplates() {
		content := renderSeedTemplate(seed)
		if _, err := s.Save(ctx, dto.SaveTemplateRequest{
			Name:       seed.name,
			Version:    seed.version,
			RawContent: content,
		}); err != nil {
			return installed, err
		}
		installed++
	}
	s.logger.Sugar().Infow("catalog seeded", "templates", installed)
	return installed, nil
}

// Summaries projects the catalog into list rows.
func (s *CatalogService) Summaries(ctx context.Context) ([]dto.TemplateSummary, error) {
	templates, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	summaries := make([]dto.TemplateSummary, 0, len(templates))
	for _, t := range templates {
		dist := make(map[string]int, 4)
		for p, n := range t.PriorityDistribution() {
			dist[string(p)] = n
		}
		summaries = append(summaries, dto.TemplateSummary{
			ID:        t.ID,
			Name:      t.Name,
			Category:  string(t.Category),
			Version:   t.Version,
			ItemCount: len(t.ChecklistItems),
			Priority:  dist,
		})
	}
	return summaries, nil
}

func (s *CatalogService) attachItems(t *models.InspectionTemplate) {
	if len(t.ChecklistItems) > 0 {
		return
	}
	_, items, err := models.ParseTemplateContent(t.RawContent)
	if err != nil {
		s.logger.Sugar().Warnw("template content not parseable", "template_id", t.ID, "error", err)
		return
	}
	t.ChecklistItems = items
}
