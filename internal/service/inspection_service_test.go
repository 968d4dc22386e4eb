package service

import (
	"context"
	"database/sql"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SpaceTrucker2196/MaterialsAndPractices-sub005/internal/dto"
	"github.com/SpaceTrucker2196/MaterialsAndPractices-sub005/internal/models"
	appErrors "github.com/SpaceTrucker2196/MaterialsAndPractices-sub005/pkg/errors"
	"github.com/SpaceTrucker2196/MaterialsAndPractices-sub005/pkg/storage"
)

type stubWorkingResolver struct {
	byName map[string]*models.WorkingTemplate
}

func (s *stubWorkingResolver) GetByName(_ context.Context, name string) (*models.WorkingTemplate, error) {
	w, ok := s.byName[name]
	if !ok {
		return nil, appErrors.ErrWorkingTemplateNotFound
	}
	copied := *w
	return &copied, nil
}

type stubInspectionStore struct {
	records map[string]*models.CompletedInspection
}

func newStubInspectionStore() *stubInspectionStore {
	return &stubInspectionStore{records: make(map[string]*models.CompletedInspection)}
}

func (s *stubInspectionStore) Create(_ context.Context, i *models.CompletedInspection) error {
	copied := *i
	s.records[i.ID] = &copied
	return nil
}

func (s *stubInspectionStore) GetByID(_ context.Context, id string) (*models.CompletedInspection, error) {
	r, ok := s.records[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copied := *r
	return &copied, nil
}

func (s *stubInspectionStore) List(_ context.Context) ([]models.CompletedInspection, error) {
	out := make([]models.CompletedInspection, 0, len(s.records))
	for _, r := range s.records {
		out = append(out, *r)
	}
	return out, nil
}

func (s *stubInspectionStore) ListBetween(_ context.Context, from, to time.Time) ([]models.CompletedInspection, error) {
	out := make([]models.CompletedInspection, 0, len(s.records))
	for _, r := range s.records {
		if r.CompletedAt.Before(from) || r.CompletedAt.After(to) {
			continue
		}
		out = append(out, *r)
	}
	return out, nil
}

type stubAuditWriter struct {
	entries []*models.AuditTrailEntry
	fail    error
}

func (s *stubAuditWriter) SaveEntry(_ context.Context, entry *models.AuditTrailEntry) error {
	if s.fail != nil {
		return s.fail
	}
	s.entries = append(s.entries, entry)
	return nil
}

func newTestInspectionService(t *testing.T) (*InspectionService, *stubWorkingResolver, *stubInspectionStore, *stubAuditWriter, *storage.Vault) {
	t.Helper()
	vault, err := storage.NewVault(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, vault.EnsureDirectories())

	resolver := &stubWorkingResolver{byName: map[string]*models.WorkingTemplate{
		"Soil Check A": {
			ID:               "wt-1",
			SourceTemplateID: "tpl-1",
			Name:             "Soil Check A",
			RawContent:       renderSeedTemplate(seedTemplates()[0]),
		},
	}}
	store := newStubInspectionStore()
	audit := &stubAuditWriter{}
	svc := NewInspectionService(resolver, store, audit, vault, nil, nil, nil, nil)
	return svc, resolver, store, audit, vault
}

func validInspectionRequest() dto.CreateInspectionRequest {
	completedAt := time.Now().UTC()
	by := "Dana Reyes"
	return dto.CreateInspectionRequest{
		WorkingTemplateName: "Soil Check A",
		Inspectors:          []models.Inspector{{ID: "ins-1", Name: "Dana Reyes", CanInspect: true}},
		Schedule:            models.ScheduleContext{TimeOfDay: "Morning", Frequency: "Weekly"},
		CompletedItems: []models.ChecklistItem{
			{
				ID:          "1.1",
				Description: "Soil test results on file and less than 12 months old",
				Priority:    models.PriorityCritical,
				IsCompleted: true,
				CompletedAt: &completedAt,
				CompletedBy: &by,
			},
		},
	}
}

func TestCreateFromWorkingTemplateSealsRecord(t *testing.T) {
	svc, _, store, audit, vault := newTestInspectionService(t)

	info, err := svc.CreateFromWorkingTemplate(context.Background(), validInspectionRequest())
	require.NoError(t, err)

	assert.Len(t, info.FileHash, 64)
	assert.Len(t, info.ShortHash, 8)
	assert.Equal(t, info.FileHash[:8], info.ShortHash)
	assert.True(t, strings.HasPrefix(info.ID, time.Now().UTC().Format("2006-01-02")+"_Soil_Check_A_"))
	assert.Equal(t, info.ID+".md", info.FileName)

	// The sealed file is on disk and its bytes hash to the registered value.
	data, err := os.ReadFile(info.FilePath)
	require.NoError(t, err)
	onDisk, err := vault.HashFile(info.FilePath)
	require.NoError(t, err)
	assert.Equal(t, info.FileHash, onDisk)

	// The header lands after the title line and carries the run context.
	content := string(data)
	lines := strings.SplitN(content, "\n", 3)
	assert.True(t, strings.HasPrefix(lines[0], "# "))
	assert.Contains(t, content, "**Inspection ID:** "+info.ID)
	assert.Contains(t, content, "**Inspectors:** Dana Reyes")
	assert.Contains(t, content, "**Frequency:** Weekly")

	record, ok := store.records[info.ID]
	require.True(t, ok)
	assert.Equal(t, "tpl-1", record.TemplateID)
	assert.Equal(t, "wt-1", record.WorkingTemplateID)
	assert.Equal(t, models.CategorySoilHealth, record.Category)

	require.Len(t, audit.entries, 1)
	entry := audit.entries[0]
	assert.Equal(t, info.ID, entry.InspectionID)
	assert.Equal(t, info.FileHash, entry.FileHash)
	assert.Equal(t, models.VerificationCode(info.ID, info.FileHash, info.CompletedAt), entry.VerificationCode)
}

func TestCreateFromWorkingTemplateSubstitutesVariables(t *testing.T) {
	svc, resolver, _, _, _ := newTestInspectionService(t)
	resolver.byName["Field Walk"] = &models.WorkingTemplate{
		ID:               "wt-2",
		SourceTemplateID: "tpl-1",
		Name:             "Field Walk",
		RawContent:       "# Field Walk\nFarm: {{farm_name}} inspected by {{inspector_name}} on {{inspection_date}}\n",
	}

	req := validInspectionRequest()
	req.WorkingTemplateName = "Field Walk"
	req.EntityReference = &models.EntityReference{
		EntityID:   "farm-9",
		EntityType: models.EntityFarm,
		EntityName: "Tall Grass Farm",
	}

	info, err := svc.CreateFromWorkingTemplate(context.Background(), req)
	require.NoError(t, err)

	data, err := os.ReadFile(info.FilePath)
	require.NoError(t, err)
	content := string(data)
	assert.Contains(t, content, "Farm: Tall Grass Farm inspected by Dana Reyes")
	assert.NotContains(t, content, "{{farm_name}}")
	assert.NotContains(t, content, "{{inspector_name}}")
	assert.NotContains(t, content, "{{inspection_date}}")
	assert.Contains(t, content, "**Entity:** Tall Grass Farm (FARM farm-9)")
}

func TestCreateFromWorkingTemplateRejectsInvalidItems(t *testing.T) {
	svc, _, store, _, _ := newTestInspectionService(t)

	req := validInspectionRequest()
	req.CompletedItems[0].CompletedBy = nil // completed without a completing inspector

	_, err := svc.CreateFromWorkingTemplate(context.Background(), req)
	require.Error(t, err)
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrInvalidInspectionData.Code, appErr.Code)
	assert.Empty(t, store.records)
}

func TestCreateFromWorkingTemplateRejectsMissingInspectors(t *testing.T) {
	svc, _, _, _, _ := newTestInspectionService(t)

	req := validInspectionRequest()
	req.Inspectors = nil

	_, err := svc.CreateFromWorkingTemplate(context.Background(), req)
	require.Error(t, err)
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
}

func TestCreateFromWorkingTemplateUnknownTemplate(t *testing.T) {
	svc, _, _, _, _ := newTestInspectionService(t)

	req := validInspectionRequest()
	req.WorkingTemplateName = "No Such Template"

	_, err := svc.CreateFromWorkingTemplate(context.Background(), req)
	require.ErrorIs(t, err, appErrors.ErrWorkingTemplateNotFound)
}

func TestInspectionGetNotFound(t *testing.T) {
	svc, _, _, _, _ := newTestInspectionService(t)

	_, err := svc.Get(context.Background(), "missing")
	require.ErrorIs(t, err, appErrors.ErrInspectionNotFound)
}

func TestPopulateContentWithoutNewline(t *testing.T) {
	ctx := models.InspectionContext{
		Inspectors: []models.Inspector{{ID: "ins-1", Name: "Dana Reyes", CanInspect: true}},
	}
	out := populateContent("single line only", "rec-1", time.Now().UTC(), models.TemplateMeta{}, ctx)
	assert.True(t, strings.Contains(out, "**Inspection ID:** rec-1"))
	assert.True(t, strings.HasSuffix(out, "single line only"))
}
