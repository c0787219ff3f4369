package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/ref-assign-api/internal/dto"
	"github.com/noah-isme/ref-assign-api/internal/engine"
	"github.com/noah-isme/ref-assign-api/internal/models"
	appErrors "github.com/noah-isme/ref-assign-api/pkg/errors"
)

type officialRepository interface {
	List(ctx context.Context, filter models.OfficialFilter) ([]models.Official, int, error)
	FindByID(ctx context.Context, id string) (*models.Official, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Create(ctx context.Context, official *models.Official) error
	Deactivate(ctx context.Context, id string) error
}

type windowRepository interface {
	ListByOfficial(ctx context.Context, officialID string) ([]models.AvailabilityWindow, error)
	Create(ctx context.Context, window *models.AvailabilityWindow) error
	Delete(ctx context.Context, officialID, windowID string) error
}

// OfficialService handles official registration and availability declarations.
type OfficialService struct {
	officials officialRepository
	windows   windowRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewOfficialService constructs an OfficialService.
func NewOfficialService(officials officialRepository, windows windowRepository, validate *validator.Validate, logger *zap.Logger) *OfficialService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OfficialService{officials: officials, windows: windows, validator: validate, logger: logger}
}

// List returns officials matching the filter with pagination metadata.
func (s *OfficialService) List(ctx context.Context, filter models.OfficialFilter) ([]models.Official, *models.Pagination, error) {
	officials, total, err := s.officials.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list officials")
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	return officials, &models.Pagination{Page: page, PageSize: size, TotalCount: total}, nil
}

// Get fetches one official by ID.
func (s *OfficialService) Get(ctx context.Context, id string) (*models.Official, error) {
	official, err := s.officials.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "official not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch official")
	}
	return official, nil
}

// Create registers a new official. Emails must be unique.
func (s *OfficialService) Create(ctx context.Context, req dto.CreateOfficialRequest) (*models.Official, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid official payload")
	}

	exists, err := s.officials.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check email")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, "email is already registered")
	}

	official := &models.Official{
		FullName:           req.FullName,
		Email:              req.Email,
		Phone:              req.Phone,
		Latitude:           req.Latitude,
		Longitude:          req.Longitude,
		CertificationLevel: req.CertificationLevel,
		BaseRate:           req.BaseRate,
		Active:             true,
	}
	if err := s.officials.Create(ctx, official); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create official")
	}

	s.logger.Info("official registered", zap.String("official_id", official.ID), zap.Int("level", official.CertificationLevel))
	return official, nil
}

// Deactivate retires an official from future assignment runs. Existing
// assignments stay untouched.
func (s *OfficialService) Deactivate(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.officials.Deactivate(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to deactivate official")
	}
	s.logger.Info("official deactivated", zap.String("official_id", id))
	return nil
}

// Windows lists an official's declared availability windows.
func (s *OfficialService) Windows(ctx context.Context, officialID string) ([]models.AvailabilityWindow, error) {
	if _, err := s.Get(ctx, officialID); err != nil {
		return nil, err
	}
	windows, err := s.windows.ListByOfficial(ctx, officialID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list windows")
	}
	return windows, nil
}

// SubmitWindow validates and stores one availability window. Malformed
// windows are rejected before anything is written.
func (s *OfficialService) SubmitWindow(ctx context.Context, officialID string, req dto.SubmitWindowRequest) (*models.AvailabilityWindow, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid window payload")
	}
	if _, err := s.Get(ctx, officialID); err != nil {
		return nil, err
	}

	window := models.AvailabilityWindow{
		OfficialID: officialID,
		Date:       req.Date,
		StartTime:  req.StartTime,
		EndTime:    req.EndTime,
		Available:  *req.Available,
	}
	if err := engine.ValidateWindow(window); err != nil {
		return nil, err
	}

	if err := s.windows.Create(ctx, &window); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store window")
	}

	s.logger.Info("availability window declared",
		zap.String("official_id", officialID),
		zap.String("date", window.Date),
		zap.Bool("available", window.Available),
	)
	return &window, nil
}

// RemoveWindow deletes a declared window owned by the official.
func (s *OfficialService) RemoveWindow(ctx context.Context, officialID, windowID string) error {
	if _, err := s.Get(ctx, officialID); err != nil {
		return err
	}
	if err := s.windows.Delete(ctx, officialID, windowID); err != nil {
		return appErrors.Clone(appErrors.ErrNotFound, "window not found")
	}
	return nil
}

// CheckAvailability resolves an official's status for an ad-hoc interval
// using the same window semantics the assignment engine applies.
func (s *OfficialService) CheckAvailability(ctx context.Context, officialID string, req dto.CheckAvailabilityRequest) (*dto.CheckAvailabilityResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid availability query")
	}
	official, err := s.Get(ctx, officialID)
	if err != nil {
		return nil, err
	}

	probe := models.AvailabilityWindow{Date: req.Date, StartTime: req.StartTime, EndTime: req.EndTime}
	if err := engine.ValidateWindow(probe); err != nil {
		return nil, err
	}
	span, err := engine.WindowSpan(probe)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInvalidWindow.Code, appErrors.ErrInvalidWindow.Status, "invalid availability query")
	}
	interval := engine.Interval{Date: req.Date, Span: span}

	windows, err := s.windows.ListByOfficial(ctx, officialID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list windows")
	}

	idx := engine.NewAvailabilityIndex([]models.OfficialDetail{{Official: *official, Windows: windows}})
	status := idx.Status(officialID, interval)

	return &dto.CheckAvailabilityResponse{
		OfficialID: officialID,
		Status:     availabilityStatusLabel(status),
		Score:      idx.Score(officialID, interval),
	}, nil
}

func availabilityStatusLabel(status engine.AvailabilityStatus) string {
	switch status {
	case engine.AvailabilityDeclared:
		return "AVAILABLE"
	case engine.AvailabilityBlocked:
		return "BLOCKED"
	default:
		return "UNKNOWN"
	}
}
