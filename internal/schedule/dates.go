package schedule

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// DateLayouts lists the accepted date formats, tried in order. Dates without
// a zone are interpreted as UTC.
var DateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

// ParseDate parses an ISO date or date-time string.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("%w: empty", ErrInvalidDate)
	}
	for _, layout := range DateLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
}

// DaysBetween returns the signed number of fractional days from a to b.
func DaysBetween(a, b time.Time) float64 {
	return b.Sub(a).Hours() / 24
}

// Span parses the activity's start and finish dates. The returned error is a
// *ValidationError naming the offending field.
func (a Activity) Span() (start, finish time.Time, err error) {
	start, err = ParseDate(a.Start)
	if err != nil {
		return time.Time{}, time.Time{}, &ValidationError{Category: ValCatInvalidDate, ActivityID: a.ID, Field: "start", Err: err}
	}
	finish, err = ParseDate(a.Finish)
	if err != nil {
		return time.Time{}, time.Time{}, &ValidationError{Category: ValCatInvalidDate, ActivityID: a.ID, Field: "finish", Err: err}
	}
	return start, finish, nil
}

// Duration returns DurationDays when set, otherwise finish minus start in
// days, floored at zero. A DurationDays that is NaN, infinite or negative is
// rejected.
func (a Activity) Duration() (float64, error) {
	if a.DurationDays != nil {
		d := *a.DurationDays
		if math.IsNaN(d) || math.IsInf(d, 0) || d < 0 {
			return 0, &ValidationError{
				Category: ValCatInvalidNumber, ActivityID: a.ID, Field: "durationDays",
				Err: fmt.Errorf("%w: %v", ErrInvalidNumber, d),
			}
		}
		return d, nil
	}
	start, finish, err := a.Span()
	if err != nil {
		return 0, err
	}
	return math.Max(0, DaysBetween(start, finish)), nil
}

// Overlaps reports whether the half-open spans [s1, f1) and [s2, f2) intersect.
func Overlaps(s1, f1, s2, f2 time.Time) bool {
	return !(!f1.After(s2) || !f2.After(s1))
}
