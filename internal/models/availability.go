package models

import "time"

// AvailabilityWindow is a half-open block of time an official has declared
// free (Available=true) or explicitly blocked (Available=false).
type AvailabilityWindow struct {
	ID         string    `db:"id" json:"id"`
	OfficialID string    `db:"official_id" json:"official_id"`
	Date       string    `db:"date" json:"date"`
	StartTime  string    `db:"start_time" json:"start_time"`
	EndTime    string    `db:"end_time" json:"end_time"`
	Available  bool      `db:"available" json:"available"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}
