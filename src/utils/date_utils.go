package utils

import (
	"fmt"
	"strings"
	"time"
)

const (
	TimestampFormat = "2006-01-02 15:04:05"
	DateFormat      = "2006-01-02"
)

// ParseTimestamp parses a timestamp string, tolerating a fractional-second
// suffix and bare dates.
func ParseTimestamp(value string) (time.Time, error) {
	s := strings.TrimSpace(value)
	if i := strings.IndexByte(s, '.'); i >= 0 {
		s = s[:i]
	}
	if t, err := time.Parse(TimestampFormat, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(DateFormat, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("unparseable timestamp %q: %w", value, err)
	}
	return t, nil
}

// DateOnly truncates a timestamp to calendar-date granularity in UTC.
// FX rates are matched at this granularity.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
