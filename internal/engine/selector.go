package engine

import (
	"fmt"
	"math"
	"math/rand"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/ref-assign-api/internal/models"
	appErrors "github.com/noah-isme/ref-assign-api/pkg/errors"
)

const (
	defaultBufferHours  = 2.0
	defaultTopKWindow   = 5
	defaultGameDuration = 2 * time.Hour
)

// Config tunes one assignment run.
type Config struct {
	// ConflictBufferHours is the minimum gap between two committed
	// assignments for the same official. Zero disables the gap entirely;
	// DefaultConfig carries the standard 2 hours.
	ConflictBufferHours float64
	// TopKWindow bounds the random pick among the nearest candidates so a
	// single closest official is not systematically overloaded. Defaults to 5.
	TopKWindow int
	// GameDuration is the assumed length of a game when intersecting it with
	// availability windows. Defaults to 2h.
	GameDuration time.Duration
	// Seed feeds the candidate picker. Zero selects a time-based seed; runs
	// replayed with the same seed and inputs produce identical assignments.
	Seed int64
}

// DefaultConfig returns the standard run tuning: a 2 hour conflict buffer,
// a top-5 pick window and 2 hour games.
func DefaultConfig() Config {
	return Config{
		ConflictBufferHours: defaultBufferHours,
		TopKWindow:          defaultTopKWindow,
		GameDuration:        defaultGameDuration,
	}
}

// Selector runs the assignment pass: per game, filter eligible officials,
// rank by proximity and commit slots. Single-threaded per run; all inputs
// are pre-loaded and all outputs returned in memory.
type Selector struct {
	cfg    Config
	buffer time.Duration
	rng    *rand.Rand
	logger *zap.Logger
}

// NewSelector validates the configuration and prepares a run. Configuration
// problems fail here, before any game is processed.
func NewSelector(cfg Config, logger *zap.Logger) (*Selector, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.ConflictBufferHours < 0 {
		return nil, appErrors.Clone(appErrors.ErrConfiguration, fmt.Sprintf("conflict buffer hours must not be negative, got %v", cfg.ConflictBufferHours))
	}
	if cfg.TopKWindow < 0 {
		return nil, appErrors.Clone(appErrors.ErrConfiguration, fmt.Sprintf("top-k window must not be negative, got %d", cfg.TopKWindow))
	}
	if cfg.TopKWindow == 0 {
		cfg.TopKWindow = defaultTopKWindow
	}
	if cfg.GameDuration < 0 {
		return nil, appErrors.Clone(appErrors.ErrConfiguration, "game duration must not be negative")
	}
	if cfg.GameDuration == 0 {
		cfg.GameDuration = defaultGameDuration
	}
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	return &Selector{
		cfg:    cfg,
		buffer: time.Duration(cfg.ConflictBufferHours * float64(time.Hour)),
		rng:    rand.New(rand.NewSource(cfg.Seed)),
		logger: logger,
	}, nil
}

type candidate struct {
	official models.OfficialDetail
	distance float64
}

// Run executes one assignment pass over the given games. Input validation
// aborts the whole run before any assignment is attempted; per-game
// eligibility shortfalls are reported, never retried.
func (s *Selector) Run(officials []models.OfficialDetail, games []models.Game) (*models.RunReport, error) {
	if err := validateInputs(officials, games); err != nil {
		return nil, err
	}

	idx := NewAvailabilityIndex(officials)
	guard := NewConflictGuard(s.buffer)

	ordered := make([]models.Game, len(games))
	copy(ordered, games)
	sort.Slice(ordered, func(i, j int) bool {
		if ordered[i].StartTime.Equal(ordered[j].StartTime) {
			return ordered[i].ID < ordered[j].ID
		}
		return ordered[i].StartTime.Before(ordered[j].StartTime)
	})

	report := &models.RunReport{
		GamesProcessed: len(ordered),
		Seed:           s.cfg.Seed,
		GeneratedAt:    time.Now().UTC(),
	}

	for _, game := range ordered {
		outcome := s.assignGame(game, officials, idx, guard, report)
		report.Outcomes = append(report.Outcomes, outcome)
		switch outcome.Status {
		case models.GameFullyAssigned:
			report.FullyAssigned++
		case models.GamePartiallyAssigned:
			report.PartiallyAssigned++
		default:
			report.Unassigned++
		}
	}
	return report, nil
}

func (s *Selector) assignGame(
	game models.Game,
	officials []models.OfficialDetail,
	idx *AvailabilityIndex,
	guard *ConflictGuard,
	report *models.RunReport,
) models.GameOutcome {
	interval := GameInterval(game, s.cfg.GameDuration)

	candidates := make([]candidate, 0, len(officials))
	for _, official := range officials {
		if !Eligible(official, game, interval, guard, idx) {
			continue
		}
		candidates = append(candidates, candidate{
			official: official,
			distance: Distance(official.Official, game),
		})
	}
	eligibleCount := len(candidates)

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].distance == candidates[j].distance {
			return candidates[i].official.ID < candidates[j].official.ID
		}
		return candidates[i].distance < candidates[j].distance
	})

	filled := 0
	for slot := 0; slot < game.RequiredOfficials && len(candidates) > 0; slot++ {
		window := s.cfg.TopKWindow
		if window > len(candidates) {
			window = len(candidates)
		}
		pick := s.rng.Intn(window)
		chosen := candidates[pick]
		candidates = append(candidates[:pick], candidates[pick+1:]...)

		report.Assignments = append(report.Assignments, models.Assignment{
			GameID:            game.ID,
			OfficialID:        chosen.official.ID,
			SlotIndex:         slot,
			Wage:              roundCents(chosen.official.BaseRate * game.WageMultiplier),
			DistanceKm:        roundCents(chosen.distance),
			LevelAtAssignment: chosen.official.CertificationLevel,
		})
		guard.Commit(chosen.official.ID, game.StartTime)
		filled++

		s.logger.Debug("slot committed",
			zap.String("game_id", game.ID),
			zap.String("official_id", chosen.official.ID),
			zap.Int("slot", slot),
			zap.Float64("distance_km", chosen.distance),
		)
	}

	outcome := models.GameOutcome{
		GameID:             game.ID,
		RequiredSlots:      game.RequiredOfficials,
		FilledSlots:        filled,
		UnfilledSlots:      game.RequiredOfficials - filled,
		EligibleCandidates: eligibleCount,
	}
	fillable := eligibleCount
	if fillable > game.RequiredOfficials {
		fillable = game.RequiredOfficials
	}
	outcome.EligibleUnfilled = fillable - filled

	switch {
	case filled == game.RequiredOfficials:
		outcome.Status = models.GameFullyAssigned
	case filled > 0:
		outcome.Status = models.GamePartiallyAssigned
	default:
		outcome.Status = models.GameUnassigned
	}
	return outcome
}

func validateInputs(officials []models.OfficialDetail, games []models.Game) error {
	for _, official := range officials {
		if official.CertificationLevel < 1 {
			return appErrors.Clone(appErrors.ErrConfiguration, fmt.Sprintf("official %s has non-positive certification level %d", official.ID, official.CertificationLevel))
		}
		if official.BaseRate < 0 {
			return appErrors.Clone(appErrors.ErrConfiguration, fmt.Sprintf("official %s has negative base rate", official.ID))
		}
		for _, w := range official.Windows {
			if err := ValidateWindow(w); err != nil {
				return err
			}
		}
	}
	for _, game := range games {
		if game.RequiredOfficials < 1 {
			return appErrors.Clone(appErrors.ErrConfiguration, fmt.Sprintf("game %s requires %d officials, minimum is 1", game.ID, game.RequiredOfficials))
		}
		if game.RequiredLevel < 1 {
			return appErrors.Clone(appErrors.ErrConfiguration, fmt.Sprintf("game %s has non-positive required level %d", game.ID, game.RequiredLevel))
		}
		if game.WageMultiplier < 0 {
			return appErrors.Clone(appErrors.ErrConfiguration, fmt.Sprintf("game %s has negative wage multiplier", game.ID))
		}
	}
	return nil
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
