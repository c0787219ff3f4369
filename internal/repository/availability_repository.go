package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/ref-assign-api/internal/models"
)

// AvailabilityRepository manages persistence for availability windows.
type AvailabilityRepository struct {
	db *sqlx.DB
}

// NewAvailabilityRepository constructs an AvailabilityRepository.
func NewAvailabilityRepository(db *sqlx.DB) *AvailabilityRepository {
	return &AvailabilityRepository{db: db}
}

const windowColumns = "id, official_id, date, start_time, end_time, available, created_at"

// ListByOfficial returns every window declared by an official, newest date first.
func (r *AvailabilityRepository) ListByOfficial(ctx context.Context, officialID string) ([]models.AvailabilityWindow, error) {
	query := fmt.Sprintf("SELECT %s FROM availability_windows WHERE official_id = $1 ORDER BY date DESC, start_time", windowColumns)
	var windows []models.AvailabilityWindow
	if err := r.db.SelectContext(ctx, &windows, query, officialID); err != nil {
		return nil, fmt.Errorf("list windows: %w", err)
	}
	return windows, nil
}

// Create inserts a new availability window.
func (r *AvailabilityRepository) Create(ctx context.Context, window *models.AvailabilityWindow) error {
	if window.ID == "" {
		window.ID = uuid.NewString()
	}
	if window.CreatedAt.IsZero() {
		window.CreatedAt = time.Now().UTC()
	}

	const query = `INSERT INTO availability_windows (id, official_id, date, start_time, end_time, available, created_at)
		VALUES (:id, :official_id, :date, :start_time, :end_time, :available, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, window); err != nil {
		return fmt.Errorf("create window: %w", err)
	}
	return nil
}

// Delete removes a window owned by the official.
func (r *AvailabilityRepository) Delete(ctx context.Context, officialID, windowID string) error {
	const query = `DELETE FROM availability_windows WHERE id = $1 AND official_id = $2`
	result, err := r.db.ExecContext(ctx, query, windowID, officialID)
	if err != nil {
		return fmt.Errorf("delete window: %w", err)
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return fmt.Errorf("delete window: no rows affected")
	}
	return nil
}
