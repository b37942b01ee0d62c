package domain

import (
	"fmt"
	"time"
)

// DateLayout is the wire format for all dates.
const DateLayout = "2006-01-02"

// OpenEndSentinel is the literal clients may send (and always receive) for
// an open-ended tenure. Internally an open end date is a nil *time.Time; the
// sentinel exists only at the API boundary.
const OpenEndSentinel = "9999-12-31"

// ParseDate parses a required YYYY-MM-DD date string.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", s)
	}
	return t, nil
}

// ParseEndDate parses an end date, normalizing the open-ended forms. An
// empty string and the far-future sentinel both mean "no end date yet".
func ParseEndDate(s string) (*time.Time, error) {
	if s == "" || s == OpenEndSentinel {
		return nil, nil
	}
	t, err := ParseDate(s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// FormatDate renders a date in wire format.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// FormatEndDate renders an end date, emitting the sentinel for open-ended
// records.
func FormatEndDate(t *time.Time) string {
	if t == nil {
		return OpenEndSentinel
	}
	return t.Format(DateLayout)
}
