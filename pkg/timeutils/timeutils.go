package timeutils

import (
	"fmt"
	"strconv"
	"time"
)

// NextDayBoundary returns local midnight following t, in t's location.
func NextDayBoundary(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d+1, 0, 0, 0, 0, t.Location())
}

// DayKey formats t as YYYY-MM-DD in its own location.
func DayKey(t time.Time) string {
	return t.Format("2006-01-02")
}

// SecondsCeil rounds d up to whole seconds. Negative durations yield 0.
func SecondsCeil(d time.Duration) int {
	if d <= 0 {
		return 0
	}
	return int((d + time.Second - 1) / time.Second)
}

// FormatUnixMilli renders a stored millisecond timestamp.
func FormatUnixMilli(ms int64) string {
	return strconv.FormatInt(ms, 10)
}

// ParseUnixMilli parses a stored millisecond timestamp.
func ParseUnixMilli(s string) (time.Time, error) {
	ms, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid timestamp %q: %w", s, err)
	}
	return time.UnixMilli(ms), nil
}
