package engine

import "time"

// ConflictGuard tracks start times already committed during one run and
// rejects candidates booked within the buffer of a new game. It is the only
// mutable run state and must not be shared across concurrent runs.
type ConflictGuard struct {
	buffer    time.Duration
	committed map[string][]time.Time
}

// NewConflictGuard creates a guard enforcing the given minimum gap between
// two committed assignments for the same official.
func NewConflictGuard(buffer time.Duration) *ConflictGuard {
	return &ConflictGuard{
		buffer:    buffer,
		committed: make(map[string][]time.Time),
	}
}

// HasConflict reports whether any committed start time for the official lies
// strictly within the buffer of the proposed start.
func (g *ConflictGuard) HasConflict(officialID string, start time.Time) bool {
	for _, committed := range g.committed[officialID] {
		gap := start.Sub(committed)
		if gap < 0 {
			gap = -gap
		}
		if gap < g.buffer {
			return true
		}
	}
	return false
}

// Commit records a start time against the official for the rest of the run.
func (g *ConflictGuard) Commit(officialID string, start time.Time) {
	g.committed[officialID] = append(g.committed[officialID], start)
}
