package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/SpaceTrucker2196/MaterialsAndPractices-sub005/internal/models"
)

func newReportRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestReportRepositoryCreateDefaults(t *testing.T) {
	db, mock, cleanup := newReportRepoMock(t)
	defer cleanup()

	repo := NewReportRepository(db)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO report_jobs")).
		WillReturnResult(sqlmock.NewResult(1, 1))

	job := &models.ReportJob{
		Params: models.ReportJobParams{
			From:   time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
			To:     time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC),
			Format: models.ReportFormatCSV,
		},
		CreatedBy: "ins-1",
	}
	require.NoError(t, repo.Create(context.Background(), job))
	require.NotEmpty(t, job.ID)
	require.Equal(t, models.ReportStatusQueued, job.Status)
	require.False(t, job.CreatedAt.IsZero())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestReportRepositoryUpdateBuildsPartialSet(t *testing.T) {
	db, mock, cleanup := newReportRepoMock(t)
	defer cleanup()

	repo := NewReportRepository(db)
	status := models.ReportStatusProcessing
	progress := 10
	mock.ExpectExec(regexp.QuoteMeta("UPDATE report_jobs SET status = $1, progress = $2 WHERE id = $3")).
		WithArgs(status, progress, "job-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Update(context.Background(), "job-1", UpdateReportJobParams{
		Status:   &status,
		Progress: &progress,
	}))

	// No fields set means no statement is issued at all.
	require.NoError(t, repo.Update(context.Background(), "job-1", UpdateReportJobParams{}))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestReportRepositoryListQueued(t *testing.T) {
	db, mock, cleanup := newReportRepoMock(t)
	defer cleanup()

	repo := NewReportRepository(db)
	rows := sqlmock.NewRows([]string{
		"id", "params", "status", "progress", "result_url", "created_by", "created_at", "finished_at", "error_message",
	}).AddRow(
		"job-1", []byte(`{"from":"2026-08-01T00:00:00Z","to":"2026-08-31T00:00:00Z","format":"csv"}`),
		"QUEUED", 0, nil, "ins-1", time.Now(), nil, nil,
	)
	mock.ExpectQuery(regexp.QuoteMeta("WHERE status = 'QUEUED' ORDER BY created_at ASC LIMIT $1")).
		WithArgs(20).
		WillReturnRows(rows)

	jobs, err := repo.ListQueued(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	require.Equal(t, models.ReportFormatCSV, jobs[0].Params.Format)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestReportRepositoryListFinishedBefore(t *testing.T) {
	db, mock, cleanup := newReportRepoMock(t)
	defer cleanup()

	repo := NewReportRepository(db)
	cutoff := time.Now().Add(-24 * time.Hour)
	finishedAt := cutoff.Add(-time.Hour)
	url := "/api/v1/export/token"
	rows := sqlmock.NewRows([]string{
		"id", "params", "status", "progress", "result_url", "created_by", "created_at", "finished_at", "error_message",
	}).AddRow(
		"job-1", []byte(`{"format":"pdf"}`), "FINISHED", 100, url, "ins-1",
		finishedAt.Add(-time.Minute), finishedAt, nil,
	)
	mock.ExpectQuery(regexp.QuoteMeta("WHERE status = 'FINISHED' AND finished_at < $1")).
		WithArgs(cutoff, 100).
		WillReturnRows(rows)

	jobs, err := repo.ListFinishedBefore(context.Background(), cutoff, 0)
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	require.NotNil(t, jobs[0].ResultURL)
	require.Equal(t, url, *jobs[0].ResultURL)
	require.NoError(t, mock.ExpectationsWereMet())
}
