package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/noah-isme/ref-assign-api/internal/dto"
	"github.com/noah-isme/ref-assign-api/internal/engine"
	"github.com/noah-isme/ref-assign-api/internal/models"
	"github.com/noah-isme/ref-assign-api/internal/repository"
	appErrors "github.com/noah-isme/ref-assign-api/pkg/errors"
	"github.com/noah-isme/ref-assign-api/pkg/export"
)

type officialSource interface {
	ListWithWindows(ctx context.Context, fromDate, toDate string) ([]models.OfficialDetail, error)
}

type gameSource interface {
	ListByStartRange(ctx context.Context, from, to time.Time) ([]models.Game, error)
}

type assignmentStore interface {
	BulkCreateWithTx(ctx context.Context, tx *sqlx.Tx, assignments []models.Assignment) error
	DeleteForGamesWithTx(ctx context.Context, tx *sqlx.Tx, gameIDs []string) error
	ListByGame(ctx context.Context, gameID string) ([]models.AssignmentDetail, error)
	ListByOfficial(ctx context.Context, officialID string) ([]models.AssignmentDetail, error)
}

type reportCache interface {
	SaveLatest(ctx context.Context, report *models.RunReport) error
	Latest(ctx context.Context) (*models.RunReport, error)
}

type runTxProvider interface {
	BeginTxx(ctx context.Context, opts *sql.TxOptions) (*sqlx.Tx, error)
}

type runObserver interface {
	ObserveRun(report *models.RunReport, duration time.Duration)
}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset, title string) ([]byte, error)
}

// AssignmentRunConfig carries engine defaults for API-triggered runs.
type AssignmentRunConfig struct {
	ConflictBufferHours float64
	TopKWindow          int
	ExportTitle         string
}

// AssignmentRunService loads a frozen snapshot of officials and games, runs
// the assignment engine over it and persists the resulting assignments.
type AssignmentRunService struct {
	officials   officialSource
	games       gameSource
	assignments assignmentStore
	cache       reportCache
	tx          runTxProvider
	metrics     runObserver
	csv         csvRenderer
	pdf         pdfRenderer
	validator   *validator.Validate
	logger      *zap.Logger
	cfg         AssignmentRunConfig
}

// NewAssignmentRunService wires run dependencies.
func NewAssignmentRunService(
	officials officialSource,
	games gameSource,
	assignments assignmentStore,
	cache reportCache,
	tx runTxProvider,
	metrics runObserver,
	csv csvRenderer,
	pdf pdfRenderer,
	validate *validator.Validate,
	logger *zap.Logger,
	cfg AssignmentRunConfig,
) *AssignmentRunService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AssignmentRunService{
		officials:   officials,
		games:       games,
		assignments: assignments,
		cache:       cache,
		tx:          tx,
		metrics:     metrics,
		csv:         csv,
		pdf:         pdf,
		validator:   validate,
		logger:      logger,
		cfg:         cfg,
	}
}

// Execute runs one assignment pass over games starting inside [from, to].
// Unless DryRun is set, previous assignments for those games are replaced
// transactionally with the new ones.
func (s *AssignmentRunService) Execute(ctx context.Context, req dto.RunAssignmentsRequest) (*dto.RunAssignmentsResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid assignment run payload")
	}

	from, err := time.Parse("2006-01-02", req.From)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "from must be a YYYY-MM-DD date")
	}
	to, err := time.Parse("2006-01-02", req.To)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "to must be a YYYY-MM-DD date")
	}
	if to.Before(from) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "to must not precede from")
	}

	games, err := s.games.ListByStartRange(ctx, from, to.AddDate(0, 0, 1))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load games")
	}
	if len(games) == 0 {
		return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "no games scheduled in the requested range")
	}

	officials, err := s.officials.ListWithWindows(ctx, req.From, req.To)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load officials")
	}

	buffer := s.cfg.ConflictBufferHours
	if req.BufferHours > 0 {
		buffer = req.BufferHours
	}
	selector, err := engine.NewSelector(engine.Config{
		ConflictBufferHours: buffer,
		TopKWindow:          s.cfg.TopKWindow,
		Seed:                req.Seed,
	}, s.logger)
	if err != nil {
		return nil, err
	}

	started := time.Now()
	report, err := selector.Run(officials, games)
	if err != nil {
		return nil, err
	}
	duration := time.Since(started)

	persisted := false
	if !req.DryRun {
		if err := s.persist(ctx, games, report.Assignments); err != nil {
			return nil, err
		}
		persisted = true
	}

	if s.cache != nil {
		if err := s.cache.SaveLatest(ctx, report); err != nil {
			s.logger.Warn("failed to cache run report", zap.Error(err))
		}
	}
	if s.metrics != nil {
		s.metrics.ObserveRun(report, duration)
	}

	s.logger.Info("assignment run completed",
		zap.Int("games", report.GamesProcessed),
		zap.Int("assignments", len(report.Assignments)),
		zap.Int("unassigned", report.Unassigned),
		zap.Bool("persisted", persisted),
		zap.Int64("seed", report.Seed),
		zap.Duration("duration", duration),
	)

	return &dto.RunAssignmentsResponse{Report: report, Persisted: persisted}, nil
}

func (s *AssignmentRunService) persist(ctx context.Context, games []models.Game, assignments []models.Assignment) error {
	if s.tx == nil {
		return appErrors.Clone(appErrors.ErrInternal, "transaction provider missing")
	}
	tx, err := s.tx.BeginTxx(ctx, nil)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to begin transaction")
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	gameIDs := make([]string, 0, len(games))
	for _, game := range games {
		gameIDs = append(gameIDs, game.ID)
	}

	if err = s.assignments.DeleteForGamesWithTx(ctx, tx, gameIDs); err != nil {
		err = appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to clear previous assignments")
		return err
	}
	if err = s.assignments.BulkCreateWithTx(ctx, tx, assignments); err != nil {
		err = appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to persist assignments")
		return err
	}
	if err = tx.Commit(); err != nil {
		err = appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to commit assignment run")
		return err
	}
	return nil
}

// LatestReport returns the most recently cached run report.
func (s *AssignmentRunService) LatestReport(ctx context.Context) (*models.RunReport, error) {
	if s.cache == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "no run report available")
	}
	report, err := s.cache.Latest(ctx)
	if err != nil {
		if errors.Is(err, repository.ErrReportNotCached) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "no run report available")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load run report")
	}
	return report, nil
}

// ListByGame returns persisted assignments for one game.
func (s *AssignmentRunService) ListByGame(ctx context.Context, gameID string) ([]models.AssignmentDetail, error) {
	if gameID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "game id is required")
	}
	assignments, err := s.assignments.ListByGame(ctx, gameID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list assignments")
	}
	return assignments, nil
}

// ListByOfficial returns an official's persisted assignments, soonest first.
func (s *AssignmentRunService) ListByOfficial(ctx context.Context, officialID string) ([]models.AssignmentDetail, error) {
	if officialID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "official id is required")
	}
	assignments, err := s.assignments.ListByOfficial(ctx, officialID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list assignments")
	}
	return assignments, nil
}

// ExportLatest renders the cached report as CSV or PDF.
func (s *AssignmentRunService) ExportLatest(ctx context.Context, format string) ([]byte, string, error) {
	report, err := s.LatestReport(ctx)
	if err != nil {
		return nil, "", err
	}

	data := reportDataset(report)
	switch format {
	case "csv", "":
		if s.csv == nil {
			return nil, "", appErrors.Clone(appErrors.ErrPreconditionFailed, "csv export unavailable")
		}
		payload, err := s.csv.Render(data)
		if err != nil {
			return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv export")
		}
		return payload, "text/csv", nil
	case "pdf":
		if s.pdf == nil {
			return nil, "", appErrors.Clone(appErrors.ErrPreconditionFailed, "pdf export unavailable")
		}
		payload, err := s.pdf.Render(data, s.cfg.ExportTitle)
		if err != nil {
			return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf export")
		}
		return payload, "application/pdf", nil
	default:
		return nil, "", appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported export format %q", format))
	}
}

func reportDataset(report *models.RunReport) export.Dataset {
	headers := []string{"Game", "Official", "Slot", "Wage", "Distance (km)", "Level"}
	rows := make([]map[string]string, 0, len(report.Assignments))
	for _, a := range report.Assignments {
		rows = append(rows, map[string]string{
			"Game":          a.GameID,
			"Official":      a.OfficialID,
			"Slot":          strconv.Itoa(a.SlotIndex),
			"Wage":          strconv.FormatFloat(a.Wage, 'f', 2, 64),
			"Distance (km)": strconv.FormatFloat(a.DistanceKm, 'f', 2, 64),
			"Level":         strconv.Itoa(a.LevelAtAssignment),
		})
	}
	return export.Dataset{Headers: headers, Rows: rows}
}
