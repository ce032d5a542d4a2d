package domain

import (
	"fmt"
	"strings"
	"time"
)

// DateTimeLayout is the fixed textual timestamp format used on every service
// boundary (API payloads, stats collector protocol).
const DateTimeLayout = "2006-01-02 15:04:05"

// ParseDateTime parses a boundary timestamp. Blank or malformed values return
// ErrInvalidInput.
func ParseDateTime(s string) (time.Time, error) {
	if strings.TrimSpace(s) == "" {
		return time.Time{}, fmt.Errorf("%w: timestamp must not be empty", ErrInvalidInput)
	}
	t, err := time.Parse(DateTimeLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: timestamp %q does not match %q", ErrInvalidInput, s, DateTimeLayout)
	}
	return t, nil
}

// FormatDateTime renders a timestamp in the boundary format.
func FormatDateTime(t time.Time) string {
	return t.Format(DateTimeLayout)
}
