package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/SpaceTrucker2196/MaterialsAndPractices-sub005/internal/models"
)

func newInspectionRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestInspectionRepositoryCreateAndGet(t *testing.T) {
	db, mock, cleanup := newInspectionRepoMock(t)
	defer cleanup()

	repo := NewInspectionRepository(db)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO completed_inspections")).
		WillReturnResult(sqlmock.NewResult(1, 1))

	record := &models.CompletedInspection{
		ID:                "2026-08-27_Soil_Check_A_a1b2c3d4",
		TemplateID:        "tpl-1",
		WorkingTemplateID: "wt-1",
		Name:              "Soil Check A",
		Category:          models.CategorySoilHealth,
		CompletedAt:       time.Now().UTC(),
		Context: models.InspectionContext{
			Inspectors: []models.Inspector{{ID: "ins-1", Name: "Dana Reyes", CanInspect: true}},
		},
		CompletedItems: models.ChecklistItemList{
			{ID: "1.1", Description: "Check soil pH", Priority: models.PriorityCritical, IsCompleted: true},
		},
		FileName: "2026-08-27_Soil_Check_A_a1b2c3d4.md",
		FilePath: "/vault/CompletedInspectionTemplates/2026-08-27_Soil_Check_A_a1b2c3d4.md",
	}
	require.NoError(t, repo.Create(context.Background(), record))
	require.False(t, record.CreatedAt.IsZero())

	ctxJSON, err := json.Marshal(record.Context)
	require.NoError(t, err)
	itemsJSON, err := json.Marshal(record.CompletedItems)
	require.NoError(t, err)

	rows := sqlmock.NewRows([]string{
		"id", "template_id", "working_template_id", "name", "category",
		"completed_at", "context", "completed_items", "file_name", "file_path", "created_at",
	}).AddRow(
		record.ID, record.TemplateID, record.WorkingTemplateID, record.Name, string(record.Category),
		record.CompletedAt, ctxJSON, itemsJSON, record.FileName, record.FilePath, record.CreatedAt,
	)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, template_id, working_template_id, name, category")).
		WithArgs(record.ID).
		WillReturnRows(rows)

	found, err := repo.GetByID(context.Background(), record.ID)
	require.NoError(t, err)
	require.Equal(t, record.ID, found.ID)
	require.Len(t, found.Context.Inspectors, 1)
	require.Equal(t, "Dana Reyes", found.Context.Inspectors[0].Name)
	require.Len(t, found.CompletedItems, 1)
	require.True(t, found.CompletedItems[0].IsCompleted)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestInspectionRepositoryGetNotFound(t *testing.T) {
	db, mock, cleanup := newInspectionRepoMock(t)
	defer cleanup()

	repo := NewInspectionRepository(db)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, template_id, working_template_id, name, category")).
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), "missing")
	require.ErrorIs(t, err, sql.ErrNoRows)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestInspectionRepositoryListBetween(t *testing.T) {
	db, mock, cleanup := newInspectionRepoMock(t)
	defer cleanup()

	repo := NewInspectionRepository(db)
	from := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 8, 31, 23, 59, 59, 0, time.UTC)

	rows := sqlmock.NewRows([]string{
		"id", "template_id", "working_template_id", "name", "category",
		"completed_at", "context", "completed_items", "file_name", "file_path", "created_at",
	}).AddRow(
		"rec-1", "tpl-1", "wt-1", "Soil Check A", "SOIL_HEALTH",
		from.Add(24*time.Hour), []byte(`{"inspectors":[]}`), []byte(`[]`), "rec-1.md", "/vault/rec-1.md", from,
	)
	mock.ExpectQuery(regexp.QuoteMeta("WHERE completed_at >= $1 AND completed_at <= $2")).
		WithArgs(from, to).
		WillReturnRows(rows)

	records, err := repo.ListBetween(context.Background(), from, to)
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.Equal(t, "rec-1", records[0].ID)
	require.NoError(t, mock.ExpectationsWereMet())
}
