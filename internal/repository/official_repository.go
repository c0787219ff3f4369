package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/ref-assign-api/internal/models"
)

// OfficialRepository manages persistence for officials.
type OfficialRepository struct {
	db *sqlx.DB
}

// NewOfficialRepository constructs an OfficialRepository.
func NewOfficialRepository(db *sqlx.DB) *OfficialRepository {
	return &OfficialRepository{db: db}
}

const officialColumns = "id, full_name, email, phone, latitude, longitude, certification_level, base_rate, active, created_at, updated_at"

// List returns officials matching filters along with total count.
func (r *OfficialRepository) List(ctx context.Context, filter models.OfficialFilter) ([]models.Official, int, error) {
	base := "FROM officials WHERE 1=1"
	var conditions []string
	var args []interface{}

	if filter.Active != nil {
		conditions = append(conditions, fmt.Sprintf("active = $%d", len(args)+1))
		args = append(args, *filter.Active)
	}
	if filter.MinLevel > 0 {
		conditions = append(conditions, fmt.Sprintf("certification_level >= $%d", len(args)+1))
		args = append(args, filter.MinLevel)
	}
	if filter.Search != "" {
		search := "%" + strings.ToLower(filter.Search) + "%"
		conditions = append(conditions, fmt.Sprintf("(LOWER(full_name) LIKE $%d OR LOWER(email) LIKE $%d)", len(args)+1, len(args)+1))
		args = append(args, search)
	}

	if len(conditions) > 0 {
		base += " AND " + strings.Join(conditions, " AND ")
	}

	sortBy := filter.SortBy
	if sortBy == "" {
		sortBy = "created_at"
	}
	allowedSorts := map[string]string{
		"full_name":           "full_name",
		"email":               "email",
		"certification_level": "certification_level",
		"created_at":          "created_at",
	}
	column, ok := allowedSorts[sortBy]
	if !ok {
		column = "created_at"
	}

	order := strings.ToUpper(filter.SortOrder)
	if order != "ASC" && order != "DESC" {
		order = "DESC"
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

	query := fmt.Sprintf("SELECT %s %s ORDER BY %s %s LIMIT %d OFFSET %d", officialColumns, base, column, order, size, offset)
	var officials []models.Official
	if err := r.db.SelectContext(ctx, &officials, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list officials: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count officials: %w", err)
	}

	return officials, total, nil
}

// FindByID fetches an official by ID.
func (r *OfficialRepository) FindByID(ctx context.Context, id string) (*models.Official, error) {
	query := fmt.Sprintf("SELECT %s FROM officials WHERE id = $1", officialColumns)
	var official models.Official
	if err := r.db.GetContext(ctx, &official, query, id); err != nil {
		return nil, err
	}
	return &official, nil
}

// ExistsByEmail checks if another official uses the same email.
func (r *OfficialRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	const query = "SELECT 1 FROM officials WHERE LOWER(email) = LOWER($1) LIMIT 1"
	var exists int
	if err := r.db.GetContext(ctx, &exists, query, email); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check official email: %w", err)
	}
	return true, nil
}

// Create inserts a new official record.
func (r *OfficialRepository) Create(ctx context.Context, official *models.Official) error {
	if official.ID == "" {
		official.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if official.CreatedAt.IsZero() {
		official.CreatedAt = now
	}
	official.UpdatedAt = now

	const query = `INSERT INTO officials (id, full_name, email, phone, latitude, longitude, certification_level, base_rate, active, created_at, updated_at)
		VALUES (:id, :full_name, :email, :phone, :latitude, :longitude, :certification_level, :base_rate, :active, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, official); err != nil {
		return fmt.Errorf("create official: %w", err)
	}
	return nil
}

// Deactivate sets an official's active flag to false.
func (r *OfficialRepository) Deactivate(ctx context.Context, id string) error {
	const query = `UPDATE officials SET active = FALSE, updated_at = $2 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, time.Now().UTC()); err != nil {
		return fmt.Errorf("deactivate official: %w", err)
	}
	return nil
}

// ListWithWindows loads every official together with their availability
// windows falling inside the date range. The engine consumes the result as a
// frozen snapshot.
func (r *OfficialRepository) ListWithWindows(ctx context.Context, fromDate, toDate string) ([]models.OfficialDetail, error) {
	query := fmt.Sprintf("SELECT %s FROM officials ORDER BY id", officialColumns)
	var officials []models.Official
	if err := r.db.SelectContext(ctx, &officials, query); err != nil {
		return nil, fmt.Errorf("list officials: %w", err)
	}

	const windowQuery = `SELECT id, official_id, date, start_time, end_time, available, created_at
		FROM availability_windows WHERE date >= $1 AND date <= $2 ORDER BY official_id, date, start_time`
	var windows []models.AvailabilityWindow
	if err := r.db.SelectContext(ctx, &windows, windowQuery, fromDate, toDate); err != nil {
		return nil, fmt.Errorf("list availability windows: %w", err)
	}

	byOfficial := make(map[string][]models.AvailabilityWindow, len(officials))
	for _, w := range windows {
		byOfficial[w.OfficialID] = append(byOfficial[w.OfficialID], w)
	}

	details := make([]models.OfficialDetail, 0, len(officials))
	for _, official := range officials {
		details = append(details, models.OfficialDetail{
			Official: official,
			Windows:  byOfficial[official.ID],
		})
	}
	return details, nil
}
