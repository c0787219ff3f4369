package engine

import (
	"fmt"
	"time"

	"github.com/noah-isme/ref-assign-api/internal/models"
	appErrors "github.com/noah-isme/ref-assign-api/pkg/errors"
)

const (
	dateLayout  = "2006-01-02"
	clockLayout = "15:04"
	minutesPerDay = 24 * 60
)

// Span is a half-open [Start, End) interval in minutes from midnight.
type Span struct {
	Start int
	End   int
}

// Overlaps reports whether two spans intersect. Touching endpoints do not
// overlap.
func (s Span) Overlaps(o Span) bool {
	return s.Start < o.End && o.Start < s.End
}

// Interval places a span on a calendar date.
type Interval struct {
	Date string
	Span Span
}

// ParseClock converts a 24-hour HH:MM string into minutes from midnight.
// Hours and minutes must be zero padded; time.Parse alone would accept "9:00".
func ParseClock(raw string) (int, error) {
	if len(raw) != len(clockLayout) {
		return 0, fmt.Errorf("parse clock %q: must be HH:MM", raw)
	}
	t, err := time.Parse(clockLayout, raw)
	if err != nil {
		return 0, fmt.Errorf("parse clock %q: %w", raw, err)
	}
	return t.Hour()*60 + t.Minute(), nil
}

// ValidateWindow checks a declared availability window. Malformed windows are
// rejected, never silently corrected.
func ValidateWindow(w models.AvailabilityWindow) error {
	if w.Date == "" || w.StartTime == "" || w.EndTime == "" {
		return appErrors.Clone(appErrors.ErrInvalidWindow, "date, start time and end time are required")
	}
	if _, err := time.Parse(dateLayout, w.Date); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInvalidWindow.Code, appErrors.ErrInvalidWindow.Status, fmt.Sprintf("invalid date %q", w.Date))
	}
	start, err := ParseClock(w.StartTime)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInvalidWindow.Code, appErrors.ErrInvalidWindow.Status, fmt.Sprintf("invalid start time %q", w.StartTime))
	}
	end, err := ParseClock(w.EndTime)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInvalidWindow.Code, appErrors.ErrInvalidWindow.Status, fmt.Sprintf("invalid end time %q", w.EndTime))
	}
	if start >= end {
		return appErrors.Clone(appErrors.ErrInvalidWindow, fmt.Sprintf("start time %s must be before end time %s", w.StartTime, w.EndTime))
	}
	return nil
}

// WindowSpan converts a validated window into its clock span.
func WindowSpan(w models.AvailabilityWindow) (Span, error) {
	start, err := ParseClock(w.StartTime)
	if err != nil {
		return Span{}, err
	}
	end, err := ParseClock(w.EndTime)
	if err != nil {
		return Span{}, err
	}
	return Span{Start: start, End: end}, nil
}

// GameInterval derives the calendar interval a game occupies. Spans that
// would cross midnight are clamped to the end of the start date; the
// availability model is keyed by single dates.
func GameInterval(g models.Game, duration time.Duration) Interval {
	start := g.StartTime.UTC()
	startMin := start.Hour()*60 + start.Minute()
	endMin := startMin + int(duration.Minutes())
	if endMin > minutesPerDay {
		endMin = minutesPerDay
	}
	return Interval{
		Date: start.Format(dateLayout),
		Span: Span{Start: startMin, End: endMin},
	}
}
