package utils

import (
	"fmt"
	"time"
)

const dateLayout = "2006-01-02"

// ParseDateBound parses a report filter bound given as YYYY-MM-DD or RFC3339.
// A date-only upper bound is moved to the start of the following day so the
// whole day is included when used with "<".
func ParseDateBound(value string, upper bool) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		if upper {
			return t.Add(time.Nanosecond), nil
		}
		return t, nil
	}

	t, err := time.Parse(dateLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD or RFC3339", value)
	}
	if upper {
		return t.AddDate(0, 0, 1), nil
	}
	return t, nil
}

// StartOfDay returns midnight of t's day in t's location.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// StartOfMonth returns midnight on the first day of t's month in t's location.
func StartOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}
