package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/ref-assign-api/internal/models"
)

// GameRepository manages persistence for games.
type GameRepository struct {
	db *sqlx.DB
}

// NewGameRepository constructs a GameRepository.
func NewGameRepository(db *sqlx.DB) *GameRepository {
	return &GameRepository{db: db}
}

const gameColumns = "id, home_team, away_team, venue, latitude, longitude, start_time, required_level, required_officials, wage_multiplier, created_at, updated_at"

// List returns games matching filters along with total count.
func (r *GameRepository) List(ctx context.Context, filter models.GameFilter) ([]models.Game, int, error) {
	base := "FROM games WHERE 1=1"
	var conditions []string
	var args []interface{}

	if filter.From != nil {
		conditions = append(conditions, fmt.Sprintf("start_time >= $%d", len(args)+1))
		args = append(args, *filter.From)
	}
	if filter.To != nil {
		conditions = append(conditions, fmt.Sprintf("start_time <= $%d", len(args)+1))
		args = append(args, *filter.To)
	}
	if filter.MinLevel > 0 {
		conditions = append(conditions, fmt.Sprintf("required_level >= $%d", len(args)+1))
		args = append(args, filter.MinLevel)
	}

	if len(conditions) > 0 {
		base += " AND " + strings.Join(conditions, " AND ")
	}

	order := strings.ToUpper(filter.SortOrder)
	if order != "ASC" && order != "DESC" {
		order = "ASC"
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	offset := (page - 1) * size

	query := fmt.Sprintf("SELECT %s %s ORDER BY start_time %s LIMIT %d OFFSET %d", gameColumns, base, order, size, offset)
	var games []models.Game
	if err := r.db.SelectContext(ctx, &games, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list games: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count games: %w", err)
	}

	return games, total, nil
}

// FindByID fetches a game by ID.
func (r *GameRepository) FindByID(ctx context.Context, id string) (*models.Game, error) {
	query := fmt.Sprintf("SELECT %s FROM games WHERE id = $1", gameColumns)
	var game models.Game
	if err := r.db.GetContext(ctx, &game, query, id); err != nil {
		return nil, err
	}
	return &game, nil
}

// ListByStartRange returns games starting inside the half-open range, ordered
// by start time so runs are reproducible.
func (r *GameRepository) ListByStartRange(ctx context.Context, from, to time.Time) ([]models.Game, error) {
	query := fmt.Sprintf("SELECT %s FROM games WHERE start_time >= $1 AND start_time < $2 ORDER BY start_time, id", gameColumns)
	var games []models.Game
	if err := r.db.SelectContext(ctx, &games, query, from, to); err != nil {
		return nil, fmt.Errorf("list games by range: %w", err)
	}
	return games, nil
}

// Create inserts a new game record.
func (r *GameRepository) Create(ctx context.Context, game *models.Game) error {
	if game.ID == "" {
		game.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if game.CreatedAt.IsZero() {
		game.CreatedAt = now
	}
	game.UpdatedAt = now
	if game.WageMultiplier == 0 {
		game.WageMultiplier = 1.0
	}

	const query = `INSERT INTO games (id, home_team, away_team, venue, latitude, longitude, start_time, required_level, required_officials, wage_multiplier, created_at, updated_at)
		VALUES (:id, :home_team, :away_team, :venue, :latitude, :longitude, :start_time, :required_level, :required_officials, :wage_multiplier, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, game); err != nil {
		return fmt.Errorf("create game: %w", err)
	}
	return nil
}
