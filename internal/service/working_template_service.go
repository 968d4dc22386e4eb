package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/SpaceTrucker2196/MaterialsAndPractices-sub005/internal/models"
	appErrors "github.com/SpaceTrucker2196/MaterialsAndPractices-sub005/pkg/errors"
	"github.com/SpaceTrucker2196/MaterialsAndPractices-sub005/pkg/storage"
)

type workingTemplateStore interface {
	Create(ctx context.Context, w *models.WorkingTemplate) error
	GetByName(ctx context.Context, name string) (*models.WorkingTemplate, error)
	List(ctx context.Context) ([]models.WorkingTemplate, error)
	Delete(ctx context.Context, name string) (int64, error)
}

type masterResolver interface {
	Get(ctx context.Context, id string) (*models.InspectionTemplate, error)
}

// WorkingTemplateService derives mutable, farm-specific copies from
// master templates. The copy is verbatim and carries provenance only;
// master edits never propagate.
type WorkingTemplateService struct {
	repo    workingTemplateStore
	catalog masterResolver
	vault   *storage.Vault
	logger  *zap.Logger
}

// NewWorkingTemplateService constructs the manager.
func NewWorkingTemplateService(repo workingTemplateStore, catalog masterResolver, vault *storage.Vault, logger *zap.Logger) *WorkingTemplateService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WorkingTemplateService{repo: repo, catalog: catalog, vault: vault, logger: logger}
}

// Create copies the master template's content under a new name in the
// working namespace. The file write is atomic: either the full content
// lands under the new name or nothing does.
func (s *WorkingTemplateService) Create(ctx context.Context, templateID, newName string) (*models.WorkingTemplate, error) {
	newName = strings.TrimSpace(newName)
	if newName == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "working template name required")
	}

	master, err := s.catalog.Get(ctx, templateID)
	if err != nil {
		return nil, err
	}

	working := &models.WorkingTemplate{
		SourceTemplateID: master.ID,
		Name:             newName,
		RawContent:       master.RawContent,
	}

	if _, err := s.vault.WriteAtomic(storage.DirWorking, working.FileName(), []byte(working.RawContent)); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrFileOperationFailed.Code, appErrors.ErrFileOperationFailed.Status, "failed to write working template file")
	}
	if err := s.repo.Create(ctx, working); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrSaveOperationFailed.Code, appErrors.ErrSaveOperationFailed.Status, "failed to save working template")
	}
	return working, nil
}

// GetByName resolves a working template.
func (s *WorkingTemplateService) GetByName(ctx context.Context, name string) (*models.WorkingTemplate, error) {
	w, err := s.repo.GetByName(ctx, name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrWorkingTemplateNotFound
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load working template")
	}
	if _, items, parseErr := models.ParseTemplateContent(w.RawContent); parseErr == nil {
		w.ChecklistItems = items
	}
	return w, nil
}

// List returns every working template.
func (s *WorkingTemplateService) List(ctx context.Context) ([]models.WorkingTemplate, error) {
	working, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list working templates")
	}
	return working, nil
}

// Delete removes a working template and its file once no longer needed.
func (s *WorkingTemplateService) Delete(ctx context.Context, name string) error {
	w, err := s.GetByName(ctx, name)
	if err != nil {
		return err
	}
	if _, err := s.repo.Delete(ctx, name); err != nil {
		return appErrors.Wrap(err, appErrors.ErrSaveOperationFailed.Code, appErrors.ErrSaveOperationFailed.Status, "failed to delete working template")
	}
	if err := s.vault.Delete(storage.DirWorking, w.FileName()); err != nil {
		s.logger.Sugar().Warnw("working template file removal failed", "name", name, "error", err)
	}
	return nil
}
