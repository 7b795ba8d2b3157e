package codec

import (
	"errors"
	"time"
)

// DateOnly is the layout accepted for calendar dates without a time part.
const DateOnly = "2006-01-02"

// ErrInvalidDate is returned by ParseDate for strings in no accepted layout.
var ErrInvalidDate = errors.New("codec: invalid date")

// ParseDate accepts RFC3339 (with or without fractional seconds) and plain
// YYYY-MM-DD dates, which are read as UTC midnight.
func ParseDate(s string) (time.Time, error) {
	if t, err := parseRFC3339(s); err == nil {
		return t, nil
	}
	if t, err := time.ParseInLocation(DateOnly, s, time.UTC); err == nil {
		return t, nil
	}
	return time.Time{}, ErrInvalidDate
}

// FormatDate renders t canonically: UTC, RFC3339 with trailing zeros trimmed.
func FormatDate(t time.Time) string { return formatRFC3339Canonical(t) }

func parseRFC3339(s string) (time.Time, error) {
	// Accept RFC3339Nano (trailing zeros optional)
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		if t2, err2 := time.Parse(time.RFC3339, s); err2 == nil {
			return t2, nil
		}
		return time.Time{}, err
	}
	return t, nil
}

func formatRFC3339Canonical(t time.Time) string {
	// Normalize to UTC and format using RFC3339Nano (Go trims trailing zeros)
	return t.UTC().Format(time.RFC3339Nano)
}
