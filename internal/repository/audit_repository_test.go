package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/SpaceTrucker2196/MaterialsAndPractices-sub005/internal/models"
)

func newAuditRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestAuditRepositoryCreateFillsDefaults(t *testing.T) {
	db, mock, cleanup := newAuditRepoMock(t)
	defer cleanup()

	repo := NewAuditRepository(db)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO audit_trail_entries")).
		WillReturnResult(sqlmock.NewResult(1, 1))

	entry := &models.AuditTrailEntry{
		InspectionID:     "rec-1",
		FileHash:         "0f343b0931126a20f133d67c2b018a3b1b85564ea4bc2ef2cc6a3f2e1a0d5a7c",
		ShortHash:        "0f343b09",
		LongHash:         "0f343b0931126a20f133d67c2b018a3b1b85564ea4bc2ef2cc6a3f2e1a0d5a7c",
		Inspector:        "Dana Reyes",
		VerificationCode: "a1b2c3d4",
	}
	require.NoError(t, repo.Create(context.Background(), entry))
	require.NotEmpty(t, entry.ID)
	require.False(t, entry.CreatedAt.IsZero())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAuditRepositoryGetByInspection(t *testing.T) {
	db, mock, cleanup := newAuditRepoMock(t)
	defer cleanup()

	repo := NewAuditRepository(db)
	createdAt := time.Now().UTC()
	rows := sqlmock.NewRows([]string{
		"id", "inspection_id", "file_hash", "short_hash", "long_hash",
		"created_at", "inspector", "verification_code",
	}).AddRow(
		"aud-1", "rec-1", "deadbeef", "deadbeef", "deadbeef",
		createdAt, "Dana Reyes", "a1b2c3d4",
	)
	mock.ExpectQuery(regexp.QuoteMeta("FROM audit_trail_entries WHERE inspection_id = $1")).
		WithArgs("rec-1").
		WillReturnRows(rows)

	entry, err := repo.GetByInspection(context.Background(), "rec-1")
	require.NoError(t, err)
	require.Equal(t, "aud-1", entry.ID)
	require.Equal(t, "rec-1", entry.InspectionID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAuditRepositoryGetByInspectionNotFound(t *testing.T) {
	db, mock, cleanup := newAuditRepoMock(t)
	defer cleanup()

	repo := NewAuditRepository(db)
	mock.ExpectQuery(regexp.QuoteMeta("FROM audit_trail_entries WHERE inspection_id = $1")).
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByInspection(context.Background(), "missing")
	require.ErrorIs(t, err, sql.ErrNoRows)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAuditRepositoryList(t *testing.T) {
	db, mock, cleanup := newAuditRepoMock(t)
	defer cleanup()

	repo := NewAuditRepository(db)
	rows := sqlmock.NewRows([]string{
		"id", "inspection_id", "file_hash", "short_hash", "long_hash",
		"created_at", "inspector", "verification_code",
	}).
		AddRow("aud-1", "rec-1", "aaaa", "aaaa", "aaaa", time.Now(), "Dana Reyes", "11111111").
		AddRow("aud-2", "rec-2", "bbbb", "bbbb", "bbbb", time.Now(), "Kim Osei", "22222222")
	mock.ExpectQuery(regexp.QuoteMeta("FROM audit_trail_entries ORDER BY created_at")).
		WillReturnRows(rows)

	entries, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.Equal(t, "aud-2", entries[1].ID)
	require.NoError(t, mock.ExpectationsWereMet())
}
