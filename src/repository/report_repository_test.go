package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"prettytrace/src/model"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 sqlDB,
		PreferSimpleProtocol: true,
	}), &gorm.Config{})
	require.NoError(t, err)
	return gormDB, mock
}

func TestReportRepositoryCreate(t *testing.T) {
	mockDB, mock := newMockDB(t)
	repo := &ReportRepository{db: mockDB}

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO "error_reports"`).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	rep := &model.ErrorReport{
		ID:      "7b0d7a1e-0000-0000-0000-000000000001",
		Service: "prettytrace",
		Mode:    "call",
		Message: "division by zero",
		Report:  "  File ...",
		Level:   "error",
	}
	require.NoError(t, repo.Create(context.Background(), rep))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestReportRepositoryRecent(t *testing.T) {
	mockDB, mock := newMockDB(t)
	repo := &ReportRepository{db: mockDB}

	createdAt := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"id", "service", "mode", "message", "report", "level", "created_at"}).
		AddRow("id-2", "prettytrace", "recover", "kaboom", "report-2", "error", createdAt.Add(time.Hour)).
		AddRow("id-1", "prettytrace", "call", "boom", "report-1", "error", createdAt)

	mock.ExpectQuery(`SELECT \* FROM "error_reports" ORDER BY created_at DESC`).
		WillReturnRows(rows)

	reports, err := repo.Recent(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, reports, 2)
	require.Equal(t, "id-2", reports[0].ID, "reports must come back newest first")
	require.Equal(t, "id-1", reports[1].ID)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestReportRepositoryFindByIDNotFound(t *testing.T) {
	mockDB, mock := newMockDB(t)
	repo := &ReportRepository{db: mockDB}

	mock.ExpectQuery(`SELECT \* FROM "error_reports" WHERE id = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.FindByID(context.Background(), "missing")
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestHandleReportPersists(t *testing.T) {
	mockDB, mock := newMockDB(t)
	repo := &ReportRepository{db: mockDB}

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO "error_reports"`).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	repo.HandleReport(errors.New("boom"), "  File ...\n\nerrorString: boom")

	require.NoError(t, mock.ExpectationsWereMet())
}
