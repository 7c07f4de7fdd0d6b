package impulse

import (
	"strings"
	"time"

	"journal/internal/apperr"
)

var datetimeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

// WallClock keeps the clock fields of t and drops its zone, so hour-of-day and
// window comparisons see the time exactly as the user wrote it.
func WallClock(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, time.UTC)
}

// ParseDatetime accepts the layouts browsers and API clients send. Empty input means now.
func ParseDatetime(s string, now time.Time) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return WallClock(now), nil
	}
	for _, layout := range datetimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return WallClock(t), nil
		}
	}
	return time.Time{}, apperr.Invalid("datetime", "unrecognized format")
}
