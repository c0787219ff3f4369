package engine

import "github.com/noah-isme/ref-assign-api/internal/models"

// AvailabilityStatus classifies how an official's declared windows relate to
// an interval.
type AvailabilityStatus int

const (
	// AvailabilityUnknown means no declared window touches the interval.
	AvailabilityUnknown AvailabilityStatus = iota
	// AvailabilityDeclared means at least one available window overlaps and
	// no unavailable window does.
	AvailabilityDeclared
	// AvailabilityBlocked means an explicitly unavailable window overlaps the
	// interval. Blocking wins over any overlapping available window.
	AvailabilityBlocked
)

const availableScore = 10

// AvailabilityIndex answers interval availability questions for a batch of
// officials. Built once per run from pre-loaded windows; performs no I/O.
type AvailabilityIndex struct {
	windows map[string]map[string][]models.AvailabilityWindow
}

// NewAvailabilityIndex indexes each official's windows by date. Windows are
// assumed validated; malformed ones are skipped.
func NewAvailabilityIndex(officials []models.OfficialDetail) *AvailabilityIndex {
	idx := &AvailabilityIndex{windows: make(map[string]map[string][]models.AvailabilityWindow, len(officials))}
	for _, official := range officials {
		if len(official.Windows) == 0 {
			continue
		}
		byDate := make(map[string][]models.AvailabilityWindow)
		for _, w := range official.Windows {
			byDate[w.Date] = append(byDate[w.Date], w)
		}
		idx.windows[official.ID] = byDate
	}
	return idx
}

// Status resolves overlapping windows most-restrictive-first: any blocked
// overlap hides every available one.
func (idx *AvailabilityIndex) Status(officialID string, interval Interval) AvailabilityStatus {
	byDate, ok := idx.windows[officialID]
	if !ok {
		return AvailabilityUnknown
	}
	status := AvailabilityUnknown
	for _, w := range byDate[interval.Date] {
		span, err := WindowSpan(w)
		if err != nil {
			continue
		}
		if !span.Overlaps(interval.Span) {
			continue
		}
		if !w.Available {
			return AvailabilityBlocked
		}
		status = AvailabilityDeclared
	}
	return status
}

// Score returns 10 when a declared window covers any part of the interval
// and nothing blocks it, otherwise 0. Partial overlap scores the same as
// full coverage; ranking granularity is left to the proximity cost.
func (idx *AvailabilityIndex) Score(officialID string, interval Interval) int {
	if idx.Status(officialID, interval) == AvailabilityDeclared {
		return availableScore
	}
	return 0
}
