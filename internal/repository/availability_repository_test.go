package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/ref-assign-api/internal/models"
)

func newAvailabilityRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestAvailabilityRepositoryCreateAndList(t *testing.T) {
	db, mock, cleanup := newAvailabilityRepoMock(t)
	defer cleanup()

	repo := NewAvailabilityRepository(db)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO availability_windows")).
		WillReturnResult(sqlmock.NewResult(1, 1))

	window := &models.AvailabilityWindow{
		OfficialID: "off-1",
		Date:       "2026-03-01",
		StartTime:  "09:00",
		EndTime:    "17:00",
		Available:  true,
	}
	require.NoError(t, repo.Create(context.Background(), window))
	require.NotEmpty(t, window.ID)

	rows := sqlmock.NewRows([]string{"id", "official_id", "date", "start_time", "end_time", "available", "created_at"}).
		AddRow(window.ID, "off-1", "2026-03-01", "09:00", "17:00", true, time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, official_id, date")).
		WithArgs("off-1").
		WillReturnRows(rows)

	windows, err := repo.ListByOfficial(context.Background(), "off-1")
	require.NoError(t, err)
	require.Len(t, windows, 1)
	require.True(t, windows[0].Available)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAvailabilityRepositoryDelete(t *testing.T) {
	db, mock, cleanup := newAvailabilityRepoMock(t)
	defer cleanup()

	repo := NewAvailabilityRepository(db)
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM availability_windows")).
		WithArgs("win-1", "off-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Delete(context.Background(), "off-1", "win-1"))

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM availability_windows")).
		WithArgs("win-missing", "off-1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.Error(t, repo.Delete(context.Background(), "off-1", "win-missing"))
	require.NoError(t, mock.ExpectationsWereMet())
}
