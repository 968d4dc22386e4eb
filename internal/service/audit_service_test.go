package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SpaceTrucker2196/MaterialsAndPractices-sub005/internal/models"
	appErrors "github.com/SpaceTrucker2196/MaterialsAndPractices-sub005/pkg/errors"
)

type stubAuditStore struct {
	byInspection map[string]*models.AuditTrailEntry
}

func newStubAuditStore() *stubAuditStore {
	return &stubAuditStore{byInspection: make(map[string]*models.AuditTrailEntry)}
}

func (s *stubAuditStore) Create(_ context.Context, entry *models.AuditTrailEntry) error {
	copied := *entry
	s.byInspection[entry.InspectionID] = &copied
	return nil
}

func (s *stubAuditStore) GetByInspection(_ context.Context, inspectionID string) (*models.AuditTrailEntry, error) {
	e, ok := s.byInspection[inspectionID]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copied := *e
	return &copied, nil
}

func (s *stubAuditStore) List(_ context.Context) ([]models.AuditTrailEntry, error) {
	out := make([]models.AuditTrailEntry, 0, len(s.byInspection))
	for _, e := range s.byInspection {
		out = append(out, *e)
	}
	return out, nil
}

const testFileHash = "9f86d081884c7d659a2feaa0c55ad015a3bf4f1b2b0b822cd15d6c15b0f00a08"

func TestAuditSaveEntryFillsDefaults(t *testing.T) {
	store := newStubAuditStore()
	svc := NewAuditService(store, nil)

	entry := &models.AuditTrailEntry{
		InspectionID: "rec-1",
		FileHash:     testFileHash,
		Inspector:    "Dana Reyes",
	}
	require.NoError(t, svc.SaveEntry(context.Background(), entry))

	assert.NotEmpty(t, entry.ID)
	assert.False(t, entry.CreatedAt.IsZero())
	assert.Equal(t, testFileHash, entry.LongHash)
	assert.Equal(t, testFileHash[:8], entry.ShortHash)
	assert.Equal(t, models.VerificationCode("rec-1", testFileHash, entry.CreatedAt), entry.VerificationCode)
	assert.Contains(t, store.byInspection, "rec-1")
}

func TestAuditSaveEntryRejectsMissingHash(t *testing.T) {
	svc := NewAuditService(newStubAuditStore(), nil)

	err := svc.SaveEntry(context.Background(), &models.AuditTrailEntry{InspectionID: "rec-1"})
	require.Error(t, err)
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrInvalidHash.Code, appErr.Code)
}

func TestAuditGetByInspectionNotFound(t *testing.T) {
	svc := NewAuditService(newStubAuditStore(), nil)

	_, err := svc.GetByInspection(context.Background(), "missing")
	require.ErrorIs(t, err, appErrors.ErrInspectionNotFound)
}

func TestAuditVerify(t *testing.T) {
	store := newStubAuditStore()
	svc := NewAuditService(store, nil)

	entry := &models.AuditTrailEntry{
		InspectionID: "rec-1",
		FileHash:     testFileHash,
		Inspector:    "Dana Reyes",
	}
	require.NoError(t, svc.SaveEntry(context.Background(), entry))

	valid, got, err := svc.Verify(context.Background(), "rec-1")
	require.NoError(t, err)
	assert.True(t, valid)
	assert.Equal(t, entry.VerificationCode, got.VerificationCode)

	// Altering the stored timestamp after sealing breaks the code.
	store.byInspection["rec-1"].CreatedAt = entry.CreatedAt.Add(time.Hour)
	valid, _, err = svc.Verify(context.Background(), "rec-1")
	require.NoError(t, err)
	assert.False(t, valid)
}
