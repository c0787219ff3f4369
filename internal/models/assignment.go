package models

import "time"

// GameStatus is the terminal classification for a game within one run.
type GameStatus string

const (
	GameFullyAssigned     GameStatus = "FULLY_ASSIGNED"
	GamePartiallyAssigned GameStatus = "PARTIALLY_ASSIGNED"
	GameUnassigned        GameStatus = "UNASSIGNED"
)

// Assignment links an official to one slot of a game. Immutable once created.
type Assignment struct {
	ID                string    `db:"id" json:"id"`
	GameID            string    `db:"game_id" json:"game_id"`
	OfficialID        string    `db:"official_id" json:"official_id"`
	SlotIndex         int       `db:"slot_index" json:"slot_index"`
	Wage              float64   `db:"wage" json:"wage"`
	DistanceKm        float64   `db:"distance_km" json:"distance_km"`
	LevelAtAssignment int       `db:"level_at_assignment" json:"level_at_assignment"`
	CreatedAt         time.Time `db:"created_at" json:"created_at"`
}

// AssignmentDetail enriches an assignment with descriptive fields.
type AssignmentDetail struct {
	Assignment
	OfficialName string    `db:"official_name" json:"official_name"`
	Venue        string    `db:"venue" json:"venue"`
	StartTime    time.Time `db:"start_time" json:"start_time"`
}

// GameOutcome is the per-game result of an assignment run.
type GameOutcome struct {
	GameID             string     `json:"game_id"`
	Status             GameStatus `json:"status"`
	RequiredSlots      int        `json:"required_slots"`
	FilledSlots        int        `json:"filled_slots"`
	UnfilledSlots      int        `json:"unfilled_slots"`
	EligibleCandidates int        `json:"eligible_candidates"`
	EligibleUnfilled   int        `json:"eligible_unfilled"`
}

// RunReport aggregates one assignment run for the caller to persist or render.
type RunReport struct {
	Assignments       []Assignment  `json:"assignments"`
	Outcomes          []GameOutcome `json:"outcomes"`
	GamesProcessed    int           `json:"games_processed"`
	FullyAssigned     int           `json:"fully_assigned"`
	PartiallyAssigned int           `json:"partially_assigned"`
	Unassigned        int           `json:"unassigned"`
	Seed              int64         `json:"seed"`
	GeneratedAt       time.Time     `json:"generated_at"`
}
