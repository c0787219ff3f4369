package models

import "time"

// Game represents a scheduled event requiring one or more officials.
type Game struct {
	ID                string    `db:"id" json:"id"`
	HomeTeam          string    `db:"home_team" json:"home_team"`
	AwayTeam          string    `db:"away_team" json:"away_team"`
	Venue             string    `db:"venue" json:"venue"`
	Latitude          *float64  `db:"latitude" json:"latitude,omitempty"`
	Longitude         *float64  `db:"longitude" json:"longitude,omitempty"`
	StartTime         time.Time `db:"start_time" json:"start_time"`
	RequiredLevel     int       `db:"required_level" json:"required_level"`
	RequiredOfficials int       `db:"required_officials" json:"required_officials"`
	WageMultiplier    float64   `db:"wage_multiplier" json:"wage_multiplier"`
	CreatedAt         time.Time `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time `db:"updated_at" json:"updated_at"`
}

// HasLocation reports whether the game venue has been geocoded.
func (g Game) HasLocation() bool {
	return g.Latitude != nil && g.Longitude != nil
}

// GameFilter describes query params for listing games.
type GameFilter struct {
	From      *time.Time
	To        *time.Time
	MinLevel  int
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}
