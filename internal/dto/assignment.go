package dto

import "github.com/noah-isme/ref-assign-api/internal/models"

// RunAssignmentsRequest triggers an assignment pass over games in a date range.
type RunAssignmentsRequest struct {
	From        string  `json:"from" validate:"required,datetime=2006-01-02"`
	To          string  `json:"to" validate:"required,datetime=2006-01-02"`
	Seed        int64   `json:"seed" validate:"omitempty"`
	BufferHours float64 `json:"bufferHours" validate:"omitempty,gt=0"`
	DryRun      bool    `json:"dryRun"`
}

// RunAssignmentsResponse returns the run report and whether it was persisted.
type RunAssignmentsResponse struct {
	Report    *models.RunReport `json:"report"`
	Persisted bool              `json:"persisted"`
}

// SubmitWindowRequest declares one availability window for an official.
type SubmitWindowRequest struct {
	Date      string `json:"date" validate:"required"`
	StartTime string `json:"startTime" validate:"required"`
	EndTime   string `json:"endTime" validate:"required"`
	Available *bool  `json:"available" validate:"required"`
}

// CheckAvailabilityRequest asks whether an official is free for an interval.
type CheckAvailabilityRequest struct {
	Date      string `json:"date" validate:"required,datetime=2006-01-02"`
	StartTime string `json:"startTime" validate:"required"`
	EndTime   string `json:"endTime" validate:"required"`
}

// CheckAvailabilityResponse reports the resolved status and coarse score.
type CheckAvailabilityResponse struct {
	OfficialID string `json:"officialId"`
	Status     string `json:"status"`
	Score      int    `json:"score"`
}

// CreateOfficialRequest registers a new official.
type CreateOfficialRequest struct {
	FullName           string   `json:"fullName" validate:"required"`
	Email              string   `json:"email" validate:"required,email"`
	Phone              *string  `json:"phone"`
	Latitude           *float64 `json:"latitude" validate:"omitempty,min=-90,max=90"`
	Longitude          *float64 `json:"longitude" validate:"omitempty,min=-180,max=180"`
	CertificationLevel int      `json:"certificationLevel" validate:"required,min=1"`
	BaseRate           float64  `json:"baseRate" validate:"min=0"`
}

// CreateGameRequest schedules a new game.
type CreateGameRequest struct {
	HomeTeam          string   `json:"homeTeam" validate:"required"`
	AwayTeam          string   `json:"awayTeam" validate:"required"`
	Venue             string   `json:"venue" validate:"required"`
	Latitude          *float64 `json:"latitude" validate:"omitempty,min=-90,max=90"`
	Longitude         *float64 `json:"longitude" validate:"omitempty,min=-180,max=180"`
	StartTime         string   `json:"startTime" validate:"required"`
	RequiredLevel     int      `json:"requiredLevel" validate:"required,min=1"`
	RequiredOfficials int      `json:"requiredOfficials" validate:"required,min=1"`
	WageMultiplier    float64  `json:"wageMultiplier" validate:"omitempty,min=0"`
}
