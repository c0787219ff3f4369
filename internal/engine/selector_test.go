package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/ref-assign-api/internal/models"
	appErrors "github.com/noah-isme/ref-assign-api/pkg/errors"
)

func coords(lat, lon float64) (*float64, *float64) {
	return &lat, &lon
}

func fixtureOfficial(id string, level int, rate float64, lat, lon float64, windows ...models.AvailabilityWindow) models.OfficialDetail {
	latPtr, lonPtr := coords(lat, lon)
	return models.OfficialDetail{
		Official: models.Official{
			ID:                 id,
			FullName:           "Official " + id,
			Latitude:           latPtr,
			Longitude:          lonPtr,
			CertificationLevel: level,
			BaseRate:           rate,
			Active:             true,
		},
		Windows: windows,
	}
}

func fixtureGame(id string, start time.Time, level, slots int, multiplier float64, lat, lon float64) models.Game {
	latPtr, lonPtr := coords(lat, lon)
	return models.Game{
		ID:                id,
		Venue:             "Arena " + id,
		Latitude:          latPtr,
		Longitude:         lonPtr,
		StartTime:         start,
		RequiredLevel:     level,
		RequiredOfficials: slots,
		WageMultiplier:    multiplier,
	}
}

func newTestSelector(t *testing.T, cfg Config) *Selector {
	t.Helper()
	def := DefaultConfig()
	if cfg.ConflictBufferHours == 0 {
		cfg.ConflictBufferHours = def.ConflictBufferHours
	}
	if cfg.TopKWindow == 0 {
		cfg.TopKWindow = def.TopKWindow
	}
	if cfg.Seed == 0 {
		cfg.Seed = 42
	}
	selector, err := NewSelector(cfg, nil)
	require.NoError(t, err)
	return selector
}

func TestSelectorConfigValidation(t *testing.T) {
	_, err := NewSelector(Config{ConflictBufferHours: -1}, nil)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConfiguration.Code, appErrors.FromError(err).Code)

	_, err = NewSelector(Config{TopKWindow: -3}, nil)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConfiguration.Code, appErrors.FromError(err).Code)
}

func TestSelectorRejectsInvalidInputsBeforeProcessing(t *testing.T) {
	start := time.Date(2025, 2, 1, 14, 0, 0, 0, time.UTC)

	cases := []struct {
		name      string
		officials []models.OfficialDetail
		games     []models.Game
		code      string
	}{
		{
			name:      "zero required slots",
			officials: []models.OfficialDetail{fixtureOfficial("r1", 3, 50, 51.05, -114.07)},
			games:     []models.Game{fixtureGame("g1", start, 2, 0, 1, 51.06, -114.08)},
			code:      appErrors.ErrConfiguration.Code,
		},
		{
			name:      "non-positive certification level",
			officials: []models.OfficialDetail{fixtureOfficial("r1", 0, 50, 51.05, -114.07)},
			games:     []models.Game{fixtureGame("g1", start, 2, 1, 1, 51.06, -114.08)},
			code:      appErrors.ErrConfiguration.Code,
		},
		{
			name: "malformed window",
			officials: []models.OfficialDetail{fixtureOfficial("r1", 3, 50, 51.05, -114.07,
				window("2025-02-01", "17:00", "09:00", true))},
			games: []models.Game{fixtureGame("g1", start, 2, 1, 1, 51.06, -114.08)},
			code:  appErrors.ErrInvalidWindow.Code,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			selector := newTestSelector(t, Config{})
			report, err := selector.Run(tc.officials, tc.games)
			require.Error(t, err)
			assert.Nil(t, report, "no partial run state survives a validation failure")
			assert.Equal(t, tc.code, appErrors.FromError(err).Code)
		})
	}
}

func TestSelectorAssignsNearbyAvailableOfficial(t *testing.T) {
	selector := newTestSelector(t, Config{})

	officials := []models.OfficialDetail{
		fixtureOfficial("ref-a", 3, 50, 51.05, -114.07,
			window("2025-02-01", "09:00", "17:00", true)),
	}
	games := []models.Game{
		fixtureGame("game-x", time.Date(2025, 2, 1, 14, 0, 0, 0, time.UTC), 2, 1, 1.2, 51.06, -114.08),
	}

	report, err := selector.Run(officials, games)
	require.NoError(t, err)
	require.Len(t, report.Assignments, 1)

	a := report.Assignments[0]
	assert.Equal(t, "ref-a", a.OfficialID)
	assert.Equal(t, "game-x", a.GameID)
	assert.Equal(t, 60.0, a.Wage, "wage is base rate times multiplier")
	assert.Equal(t, 3, a.LevelAtAssignment)
	assert.Greater(t, a.DistanceKm, 0.5)
	assert.Less(t, a.DistanceKm, 2.0)

	require.Len(t, report.Outcomes, 1)
	assert.Equal(t, models.GameFullyAssigned, report.Outcomes[0].Status)
	assert.Equal(t, 1, report.FullyAssigned)
}

func TestSelectorInactiveOfficialNeverEligible(t *testing.T) {
	selector := newTestSelector(t, Config{})

	o := fixtureOfficial("ref-a", 5, 50, 51.06, -114.08,
		window("2025-02-01", "00:00", "23:59", true))
	o.Active = false

	games := []models.Game{
		fixtureGame("game-x", time.Date(2025, 2, 1, 14, 0, 0, 0, time.UTC), 1, 1, 1, 51.06, -114.08),
	}

	report, err := selector.Run([]models.OfficialDetail{o}, games)
	require.NoError(t, err)
	assert.Empty(t, report.Assignments)
	assert.Equal(t, models.GameUnassigned, report.Outcomes[0].Status)
	assert.Equal(t, 0, report.Outcomes[0].EligibleCandidates)
}

func TestSelectorConflictBufferBlocksBackToBackGames(t *testing.T) {
	selector := newTestSelector(t, Config{ConflictBufferHours: 2})

	officials := []models.OfficialDetail{
		fixtureOfficial("ref-a", 3, 50, 51.05, -114.07),
	}
	start := time.Date(2025, 2, 1, 14, 0, 0, 0, time.UTC)
	games := []models.Game{
		fixtureGame("game-1", start, 1, 1, 1, 51.06, -114.08),
		fixtureGame("game-2", start.Add(time.Hour), 1, 1, 1, 51.06, -114.08),
	}

	report, err := selector.Run(officials, games)
	require.NoError(t, err)
	require.Len(t, report.Assignments, 1)
	assert.Equal(t, "game-1", report.Assignments[0].GameID)

	require.Len(t, report.Outcomes, 2)
	assert.Equal(t, models.GameFullyAssigned, report.Outcomes[0].Status)
	assert.Equal(t, models.GameUnassigned, report.Outcomes[1].Status)
	assert.Equal(t, 1, report.Unassigned)
}

func TestSelectorZeroBufferAllowsBackToBackGames(t *testing.T) {
	selector, err := NewSelector(Config{ConflictBufferHours: 0, TopKWindow: 5, Seed: 42}, nil)
	require.NoError(t, err)

	officials := []models.OfficialDetail{
		fixtureOfficial("ref-a", 3, 50, 51.05, -114.07),
	}
	start := time.Date(2025, 2, 1, 14, 0, 0, 0, time.UTC)
	games := []models.Game{
		fixtureGame("game-1", start, 1, 1, 1, 51.06, -114.08),
		fixtureGame("game-2", start.Add(time.Hour), 1, 1, 1, 51.06, -114.08),
	}

	report, err := selector.Run(officials, games)
	require.NoError(t, err)
	require.Len(t, report.Assignments, 2, "a zero buffer must not block the second game")
	assert.Equal(t, 2, report.FullyAssigned)
}

func TestSelectorLevelShortfallLeavesGameUnassigned(t *testing.T) {
	selector := newTestSelector(t, Config{})

	officials := []models.OfficialDetail{
		fixtureOfficial("ref-1", 1, 40, 51.05, -114.07),
		fixtureOfficial("ref-2", 2, 45, 51.05, -114.07),
		fixtureOfficial("ref-3", 3, 50, 51.05, -114.07),
	}
	games := []models.Game{
		fixtureGame("game-x", time.Date(2025, 2, 1, 14, 0, 0, 0, time.UTC), 4, 2, 1, 51.06, -114.08),
	}

	report, err := selector.Run(officials, games)
	require.NoError(t, err)
	assert.Empty(t, report.Assignments)

	outcome := report.Outcomes[0]
	assert.Equal(t, models.GameUnassigned, outcome.Status)
	assert.Equal(t, 0, outcome.EligibleCandidates)
	assert.Equal(t, 0, outcome.EligibleUnfilled)
	assert.Equal(t, 2, outcome.UnfilledSlots)
}

func TestSelectorExplicitBlockExcludesOfficial(t *testing.T) {
	selector := newTestSelector(t, Config{})

	officials := []models.OfficialDetail{
		fixtureOfficial("ref-a", 3, 50, 51.05, -114.07,
			window("2025-02-01", "09:00", "17:00", true),
			window("2025-02-01", "13:00", "16:00", false)),
	}
	games := []models.Game{
		fixtureGame("game-x", time.Date(2025, 2, 1, 14, 0, 0, 0, time.UTC), 1, 1, 1, 51.06, -114.08),
	}

	report, err := selector.Run(officials, games)
	require.NoError(t, err)
	assert.Empty(t, report.Assignments)
	assert.Equal(t, models.GameUnassigned, report.Outcomes[0].Status)
}

func TestSelectorPartialAssignment(t *testing.T) {
	selector := newTestSelector(t, Config{})

	officials := []models.OfficialDetail{
		fixtureOfficial("ref-1", 2, 40, 51.05, -114.07),
		fixtureOfficial("ref-2", 1, 45, 51.04, -114.06),
	}
	games := []models.Game{
		fixtureGame("game-x", time.Date(2025, 2, 1, 14, 0, 0, 0, time.UTC), 2, 3, 1, 51.06, -114.08),
	}

	report, err := selector.Run(officials, games)
	require.NoError(t, err)
	require.Len(t, report.Assignments, 1, "only the level-2 official qualifies")

	outcome := report.Outcomes[0]
	assert.Equal(t, models.GamePartiallyAssigned, outcome.Status)
	assert.Equal(t, 1, outcome.FilledSlots)
	assert.Equal(t, 2, outcome.UnfilledSlots)
	assert.Equal(t, 1, outcome.EligibleCandidates)
	assert.Equal(t, 0, outcome.EligibleUnfilled)
}

func TestSelectorUnknownLocationSortsLastButAssignable(t *testing.T) {
	selector := newTestSelector(t, Config{TopKWindow: 1})

	unlocated := fixtureOfficial("ref-far", 3, 50, 0, 0)
	unlocated.Latitude = nil
	unlocated.Longitude = nil

	officials := []models.OfficialDetail{
		unlocated,
		fixtureOfficial("ref-near", 3, 50, 51.05, -114.07),
	}
	games := []models.Game{
		fixtureGame("game-1", time.Date(2025, 2, 1, 14, 0, 0, 0, time.UTC), 1, 2, 1, 51.06, -114.08),
	}

	report, err := selector.Run(officials, games)
	require.NoError(t, err)
	require.Len(t, report.Assignments, 2)

	assert.Equal(t, "ref-near", report.Assignments[0].OfficialID)
	assert.Equal(t, "ref-far", report.Assignments[1].OfficialID)
	assert.Equal(t, float64(UnknownDistanceKm), report.Assignments[1].DistanceKm)
}

func TestSelectorDeterministicForFixedSeed(t *testing.T) {
	officials := make([]models.OfficialDetail, 0, 8)
	for i := 0; i < 8; i++ {
		officials = append(officials, fixtureOfficial(
			string(rune('a'+i))+"-ref", 3, 50,
			51.0+float64(i)*0.01, -114.0-float64(i)*0.01,
		))
	}
	start := time.Date(2025, 2, 1, 10, 0, 0, 0, time.UTC)
	games := []models.Game{
		fixtureGame("game-1", start, 1, 2, 1, 51.02, -114.02),
		fixtureGame("game-2", start.Add(5*time.Hour), 1, 3, 1, 51.05, -114.05),
		fixtureGame("game-3", start.Add(10*time.Hour), 1, 2, 1.5, 51.07, -114.07),
	}

	first, err := newTestSelector(t, Config{Seed: 1234}).Run(officials, games)
	require.NoError(t, err)
	second, err := newTestSelector(t, Config{Seed: 1234}).Run(officials, games)
	require.NoError(t, err)

	assert.Equal(t, first.Assignments, second.Assignments)
	assert.Equal(t, first.Outcomes, second.Outcomes)
	assert.Equal(t, int64(1234), first.Seed)
}

func TestSelectorProcessesGamesInStartOrder(t *testing.T) {
	selector := newTestSelector(t, Config{})

	officials := []models.OfficialDetail{
		fixtureOfficial("ref-a", 3, 50, 51.05, -114.07),
	}
	start := time.Date(2025, 2, 1, 9, 0, 0, 0, time.UTC)
	// Listed out of order on purpose; the earlier game must win the official.
	games := []models.Game{
		fixtureGame("game-late", start.Add(time.Hour), 1, 1, 1, 51.06, -114.08),
		fixtureGame("game-early", start, 1, 1, 1, 51.06, -114.08),
	}

	report, err := selector.Run(officials, games)
	require.NoError(t, err)
	require.Len(t, report.Assignments, 1)
	assert.Equal(t, "game-early", report.Assignments[0].GameID)
}
