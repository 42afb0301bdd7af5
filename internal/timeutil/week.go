package timeutil

import (
	"fmt"
	"regexp"
	"time"
)

// WeekKeyLayout is the layout of a stored week key (the Monday of the week).
const WeekKeyLayout = "2006-01-02"

// monthAbbrev holds the short month names used in register labels.
var monthAbbrev = [...]string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}

// StartOfDay returns midnight (00:00:00) of the given day in the same timezone
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// MondayOf returns Monday 00:00:00 local time of the week containing t.
// Go's Weekday() counts Sunday as 0, so (weekday+6)%7 gives the days elapsed
// since Monday.
func MondayOf(t time.Time) time.Time {
	local := t.Local()
	daysSinceMonday := (int(local.Weekday()) + 6) % 7
	return StartOfDay(local).AddDate(0, 0, -daysSinceMonday)
}

// SameWeek reports whether a and b fall in the same Monday-to-Sunday week.
func SameWeek(a, b time.Time) bool {
	ma, mb := MondayOf(a), MondayOf(b)
	return ma.Year() == mb.Year() && ma.YearDay() == mb.YearDay()
}

// WeekKey returns the calendar date of the Monday beginning t's week, as YYYY-MM-DD.
func WeekKey(t time.Time) string {
	return MondayOf(t).Format(WeekKeyLayout)
}

// ParseWeekKey parses a YYYY-MM-DD week key into local midnight of that date.
func ParseWeekKey(input string) (time.Time, error) {
	if input == "" {
		return time.Time{}, fmt.Errorf("week cannot be empty (use format YYYY-MM-DD, e.g., 2024-01-15)")
	}

	t, err := time.ParseInLocation(WeekKeyLayout, input, time.Local)
	if err != nil {
		return time.Time{}, buildWeekKeyError(input)
	}
	return StartOfDay(t), nil
}

func buildWeekKeyError(input string) error {
	isoPartialRe := regexp.MustCompile(`^\d{4}-\d{1,2}$`)
	yearOnlyRe := regexp.MustCompile(`^\d{4}$`)

	switch {
	case yearOnlyRe.MatchString(input):
		return fmt.Errorf("incomplete week '%s': missing month and day (use format YYYY-MM-DD, e.g., %s-01-15)", input, input)
	case isoPartialRe.MatchString(input):
		return fmt.Errorf("incomplete week '%s': missing day (use format YYYY-MM-DD, e.g., %s-15)", input, input)
	default:
		return fmt.Errorf("invalid week '%s' (use YYYY-MM-DD, e.g., 2024-01-15)", input)
	}
}

// WeekLabel renders a week key as "d-Mon" (e.g. "15-Jan").
// Keys that do not parse are returned unchanged.
func WeekLabel(weekKey string) string {
	t, err := ParseWeekKey(weekKey)
	if err != nil {
		return weekKey
	}
	return fmt.Sprintf("%d-%s", t.Day(), monthAbbrev[t.Month()-1])
}
