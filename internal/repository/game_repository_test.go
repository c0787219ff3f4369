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

func newGameRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func gameRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "home_team", "away_team", "venue", "latitude", "longitude", "start_time", "required_level", "required_officials", "wage_multiplier", "created_at", "updated_at"})
}

func TestGameRepositoryCreateDefaultsMultiplier(t *testing.T) {
	db, mock, cleanup := newGameRepoMock(t)
	defer cleanup()

	repo := NewGameRepository(db)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO games")).
		WillReturnResult(sqlmock.NewResult(1, 1))

	game := &models.Game{
		HomeTeam:          "Ravens",
		AwayTeam:          "Wolves",
		Venue:             "North Arena",
		StartTime:         time.Date(2026, 3, 1, 18, 0, 0, 0, time.UTC),
		RequiredLevel:     2,
		RequiredOfficials: 3,
	}
	require.NoError(t, repo.Create(context.Background(), game))
	require.NotEmpty(t, game.ID)
	require.Equal(t, 1.0, game.WageMultiplier)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGameRepositoryListByStartRange(t *testing.T) {
	db, mock, cleanup := newGameRepoMock(t)
	defer cleanup()

	repo := NewGameRepository(db)
	from := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, 7)

	rows := gameRows().
		AddRow("game-1", "Ravens", "Wolves", "North Arena", nil, nil, from.Add(18*time.Hour), 2, 3, 1.0, time.Now(), time.Now()).
		AddRow("game-2", "Bears", "Hawks", "South Arena", nil, nil, from.Add(42*time.Hour), 1, 2, 1.5, time.Now(), time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, home_team, away_team")).
		WithArgs(from, to).
		WillReturnRows(rows)

	games, err := repo.ListByStartRange(context.Background(), from, to)
	require.NoError(t, err)
	require.Len(t, games, 2)
	require.Equal(t, "game-1", games[0].ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGameRepositoryListFilters(t *testing.T) {
	db, mock, cleanup := newGameRepoMock(t)
	defer cleanup()

	repo := NewGameRepository(db)
	from := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	rows := gameRows().
		AddRow("game-1", "Ravens", "Wolves", "North Arena", nil, nil, from.Add(18*time.Hour), 2, 3, 1.0, time.Now(), time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, home_team, away_team")).
		WithArgs(from, 2).
		WillReturnRows(rows)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*)")).
		WithArgs(from, 2).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	games, total, err := repo.List(context.Background(), models.GameFilter{From: &from, MinLevel: 2})
	require.NoError(t, err)
	require.Len(t, games, 1)
	require.Equal(t, 1, total)
	require.NoError(t, mock.ExpectationsWereMet())
}
