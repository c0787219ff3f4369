package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/ref-assign-api/internal/models"
)

// AssignmentRepository persists the assignments produced by a run.
type AssignmentRepository struct {
	db *sqlx.DB
}

// NewAssignmentRepository constructs an AssignmentRepository.
func NewAssignmentRepository(db *sqlx.DB) *AssignmentRepository {
	return &AssignmentRepository{db: db}
}

// BulkCreateWithTx inserts a run's assignments inside the caller's transaction.
func (r *AssignmentRepository) BulkCreateWithTx(ctx context.Context, tx *sqlx.Tx, assignments []models.Assignment) error {
	if len(assignments) == 0 {
		return nil
	}
	const query = `INSERT INTO assignments (id, game_id, official_id, slot_index, wage, distance_km, level_at_assignment, created_at)
		VALUES (:id, :game_id, :official_id, :slot_index, :wage, :distance_km, :level_at_assignment, :created_at)`
	now := time.Now().UTC()
	for i := range assignments {
		if assignments[i].ID == "" {
			assignments[i].ID = uuid.NewString()
		}
		if assignments[i].CreatedAt.IsZero() {
			assignments[i].CreatedAt = now
		}
		if _, err := tx.NamedExecContext(ctx, query, assignments[i]); err != nil {
			return fmt.Errorf("insert assignment: %w", err)
		}
	}
	return nil
}

// DeleteForGamesWithTx clears previous assignments for the games being
// re-assigned, inside the caller's transaction.
func (r *AssignmentRepository) DeleteForGamesWithTx(ctx context.Context, tx *sqlx.Tx, gameIDs []string) error {
	if len(gameIDs) == 0 {
		return nil
	}
	query, args, err := sqlx.In("DELETE FROM assignments WHERE game_id IN (?)", gameIDs)
	if err != nil {
		return fmt.Errorf("build delete query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, tx.Rebind(query), args...); err != nil {
		return fmt.Errorf("delete assignments: %w", err)
	}
	return nil
}

// ListByGame returns assignments for a game with official context.
func (r *AssignmentRepository) ListByGame(ctx context.Context, gameID string) ([]models.AssignmentDetail, error) {
	const query = `SELECT a.id, a.game_id, a.official_id, a.slot_index, a.wage, a.distance_km, a.level_at_assignment, a.created_at,
			o.full_name AS official_name, g.venue, g.start_time
		FROM assignments a
		JOIN officials o ON o.id = a.official_id
		JOIN games g ON g.id = a.game_id
		WHERE a.game_id = $1
		ORDER BY a.slot_index`
	var assignments []models.AssignmentDetail
	if err := r.db.SelectContext(ctx, &assignments, query, gameID); err != nil {
		return nil, fmt.Errorf("list assignments by game: %w", err)
	}
	return assignments, nil
}

// ListByOfficial returns assignments held by one official, soonest first.
func (r *AssignmentRepository) ListByOfficial(ctx context.Context, officialID string) ([]models.AssignmentDetail, error) {
	const query = `SELECT a.id, a.game_id, a.official_id, a.slot_index, a.wage, a.distance_km, a.level_at_assignment, a.created_at,
			o.full_name AS official_name, g.venue, g.start_time
		FROM assignments a
		JOIN officials o ON o.id = a.official_id
		JOIN games g ON g.id = a.game_id
		WHERE a.official_id = $1
		ORDER BY g.start_time`
	var assignments []models.AssignmentDetail
	if err := r.db.SelectContext(ctx, &assignments, query, officialID); err != nil {
		return nil, fmt.Errorf("list assignments by official: %w", err)
	}
	return assignments, nil
}
