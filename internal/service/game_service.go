package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/ref-assign-api/internal/dto"
	"github.com/noah-isme/ref-assign-api/internal/models"
	appErrors "github.com/noah-isme/ref-assign-api/pkg/errors"
)

type gameRepository interface {
	List(ctx context.Context, filter models.GameFilter) ([]models.Game, int, error)
	FindByID(ctx context.Context, id string) (*models.Game, error)
	Create(ctx context.Context, game *models.Game) error
}

// GameService handles game scheduling.
type GameService struct {
	games     gameRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewGameService constructs a GameService.
func NewGameService(games gameRepository, validate *validator.Validate, logger *zap.Logger) *GameService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GameService{games: games, validator: validate, logger: logger}
}

// List returns games matching the filter with pagination metadata.
func (s *GameService) List(ctx context.Context, filter models.GameFilter) ([]models.Game, *models.Pagination, error) {
	games, total, err := s.games.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list games")
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	return games, &models.Pagination{Page: page, PageSize: size, TotalCount: total}, nil
}

// Get fetches one game by ID.
func (s *GameService) Get(ctx context.Context, id string) (*models.Game, error) {
	game, err := s.games.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "game not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch game")
	}
	return game, nil
}

// Create schedules a new game.
func (s *GameService) Create(ctx context.Context, req dto.CreateGameRequest) (*models.Game, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid game payload")
	}

	startTime, err := time.Parse(time.RFC3339, req.StartTime)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "startTime must be an RFC 3339 timestamp")
	}

	multiplier := req.WageMultiplier
	if multiplier == 0 {
		multiplier = 1.0
	}

	game := &models.Game{
		HomeTeam:          req.HomeTeam,
		AwayTeam:          req.AwayTeam,
		Venue:             req.Venue,
		Latitude:          req.Latitude,
		Longitude:         req.Longitude,
		StartTime:         startTime.UTC(),
		RequiredLevel:     req.RequiredLevel,
		RequiredOfficials: req.RequiredOfficials,
		WageMultiplier:    multiplier,
	}
	if err := s.games.Create(ctx, game); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create game")
	}

	s.logger.Info("game scheduled",
		zap.String("game_id", game.ID),
		zap.String("venue", game.Venue),
		zap.Time("start_time", game.StartTime),
		zap.Int("required_officials", game.RequiredOfficials),
	)
	return game, nil
}
