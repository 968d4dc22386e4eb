package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SpaceTrucker2196/MaterialsAndPractices-sub005/internal/dto"
	"github.com/SpaceTrucker2196/MaterialsAndPractices-sub005/internal/models"
	appErrors "github.com/SpaceTrucker2196/MaterialsAndPractices-sub005/pkg/errors"
	"github.com/SpaceTrucker2196/MaterialsAndPractices-sub005/pkg/storage"
)

type stubTemplateStore struct {
	templates map[string]*models.InspectionTemplate
}

func newStubTemplateStore() *stubTemplateStore {
	return &stubTemplateStore{templates: make(map[string]*models.InspectionTemplate)}
}

func (s *stubTemplateStore) Create(_ context.Context, t *models.InspectionTemplate) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	copied := *t
	s.templates[t.ID] = &copied
	return nil
}

func (s *stubTemplateStore) GetByID(_ context.Context, id string) (*models.InspectionTemplate, error) {
	t, ok := s.templates[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copied := *t
	return &copied, nil
}

func (s *stubTemplateStore) List(_ context.Context) ([]models.InspectionTemplate, error) {
	out := make([]models.InspectionTemplate, 0, len(s.templates))
	for _, t := range s.templates {
		out = append(out, *t)
	}
	return out, nil
}

func (s *stubTemplateStore) Count(_ context.Context) (int, error) {
	return len(s.templates), nil
}

func (s *stubTemplateStore) Delete(_ context.Context, id string) (int64, error) {
	if _, ok := s.templates[id]; !ok {
		return 0, nil
	}
	delete(s.templates, id)
	return 1, nil
}

func newTestCatalog(t *testing.T) (*CatalogService, *stubTemplateStore, *storage.Vault) {
	t.Helper()
	vault, err := storage.NewVault(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, vault.EnsureDirectories())
	store := newStubTemplateStore()
	return NewCatalogService(store, vault, nil, nil), store, vault
}

func TestSeedTemplatesInstallsOnce(t *testing.T) {
	svc, store, vault := newTestCatalog(t)
	ctx := context.Background()

	installed, err := svc.SeedTemplatesIfNeeded(ctx)
	require.NoError(t, err)
	assert.Equal(t, 10, installed)
	assert.Len(t, store.templates, 10)

	names := make(map[string]bool, len(store.templates))
	for _, tmpl := range store.templates {
		names[tmpl.Name] = true
		assert.True(t, vault.Exists(storage.DirTemplates, tmpl.FileName()),
			"template file missing for %s", tmpl.Name)
	}
	assert.True(t, names["Soil_Fertility_Management"])

	// Second startup leaves a populated catalog untouched.
	installed, err = svc.SeedTemplatesIfNeeded(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, installed)
	assert.Len(t, store.templates, 10)
}

func TestSeedTemplatesRoundTripThroughParser(t *testing.T) {
	svc, store, _ := newTestCatalog(t)

	_, err := svc.SeedTemplatesIfNeeded(context.Background())
	require.NoError(t, err)

	for _, tmpl := range store.templates {
		loaded, err := svc.Get(context.Background(), tmpl.ID)
		require.NoError(t, err)
		assert.NotEmpty(t, loaded.ChecklistItems, "seed %s parsed with no items", tmpl.Name)
		assert.True(t, loaded.Category.Valid())
	}
}

func TestCatalogSaveRejectsContentWithoutChecklist(t *testing.T) {
	svc, _, _ := newTestCatalog(t)

	_, err := svc.Save(context.Background(), dto.SaveTemplateRequest{
		Name:       "Broken",
		RawContent: "just a paragraph with no checklist markers",
	})
	require.Error(t, err)
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrInvalidInspectionData.Code, appErr.Code)
}

func TestCatalogGetNotFound(t *testing.T) {
	svc, _, _ := newTestCatalog(t)

	_, err := svc.Get(context.Background(), "missing")
	require.ErrorIs(t, err, appErrors.ErrTemplateNotFound)
}

func TestCatalogDeleteRemovesRowAndFile(t *testing.T) {
	svc, store, vault := newTestCatalog(t)
	ctx := context.Background()

	_, err := svc.SeedTemplatesIfNeeded(ctx)
	require.NoError(t, err)

	var target *models.InspectionTemplate
	for _, tmpl := range store.templates {
		target = tmpl
		break
	}
	require.NotNil(t, target)

	require.NoError(t, svc.Delete(ctx, target.ID))
	assert.NotContains(t, store.templates, target.ID)
	assert.False(t, vault.Exists(storage.DirTemplates, target.FileName()))
}
