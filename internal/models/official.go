package models

import "time"

// Official represents a certified referee eligible for game assignments.
type Official struct {
	ID                 string    `db:"id" json:"id"`
	FullName           string    `db:"full_name" json:"full_name"`
	Email              string    `db:"email" json:"email"`
	Phone              *string   `db:"phone" json:"phone,omitempty"`
	Latitude           *float64  `db:"latitude" json:"latitude,omitempty"`
	Longitude          *float64  `db:"longitude" json:"longitude,omitempty"`
	CertificationLevel int       `db:"certification_level" json:"certification_level"`
	BaseRate           float64   `db:"base_rate" json:"base_rate"`
	Active             bool      `db:"active" json:"active"`
	CreatedAt          time.Time `db:"created_at" json:"created_at"`
	UpdatedAt          time.Time `db:"updated_at" json:"updated_at"`
}

// OfficialDetail enriches an official with their availability windows.
type OfficialDetail struct {
	Official
	Windows []AvailabilityWindow `json:"windows"`
}

// HasLocation reports whether the official's home has been geocoded.
func (o Official) HasLocation() bool {
	return o.Latitude != nil && o.Longitude != nil
}

// OfficialFilter captures filtering options for listing officials.
type OfficialFilter struct {
	Search    string
	Active    *bool
	MinLevel  int
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}
