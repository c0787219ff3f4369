package engine

import "github.com/noah-isme/ref-assign-api/internal/models"

// Eligible applies the hard gates for assigning an official to a game:
// certification level, active flag, conflict buffer and declared
// unavailability. Any single failing gate excludes the official.
//
// Officials with no declared window for the game's date pass the gate; the
// unknown state only costs them the availability score, it is not a hard
// conflict.
func Eligible(o models.OfficialDetail, g models.Game, interval Interval, guard *ConflictGuard, idx *AvailabilityIndex) bool {
	if o.CertificationLevel < g.RequiredLevel {
		return false
	}
	if !o.Active {
		return false
	}
	if guard.HasConflict(o.ID, g.StartTime) {
		return false
	}
	if idx.Status(o.ID, interval) == AvailabilityBlocked {
		return false
	}
	return true
}
