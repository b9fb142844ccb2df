// Package timeslot normalizes the time and date strings that flow through
// booking forms. Appointment slots are stored as a calendar date plus a
// canonical 24-hour start time, with a 12-hour display string shown to staff
// and patients.
package timeslot

import (
	"strings"
	"time"
)

const (
	// DisplayLayout renders without a leading zero on the hour: "9:00 AM".
	DisplayLayout = "3:04 PM"

	// CanonicalLayout is the sortable 24-hour form persisted in start_time.
	CanonicalLayout = "15:04"

	DateLayout = "2006-01-02"
)

var inputLayouts = [...]string{DisplayLayout, CanonicalLayout}

// FormatTimeslot converts a 24-hour "HH:MM" value or an already formatted
// 12-hour value into the display form. Unparseable input is returned
// unchanged so the form layer can raise its own validation error.
func FormatTimeslot(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}

	upper := strings.ToUpper(s)
	if strings.Contains(upper, "AM") || strings.Contains(upper, "PM") {
		t, err := time.Parse(DisplayLayout, upper)
		if err != nil {
			return raw
		}
		return t.Format(DisplayLayout)
	}

	t, err := time.Parse(CanonicalLayout, s)
	if err != nil {
		return raw
	}
	return t.Format(DisplayLayout)
}

// ParseTimeslot converts "10:00 AM" or "09:30" into a comparable time of
// day. ok is false when nothing matched; the midnight value returned in that
// case is only a safe sort key and must not be treated as a parsed time.
func ParseTimeslot(raw string) (time.Time, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, false
	}

	for _, layout := range inputLayouts {
		if t, err := time.Parse(layout, strings.ToUpper(s)); err == nil {
			return t, true
		}
	}

	return time.Time{}, false
}

// Canonical returns the 24-hour "HH:MM" form of a time input, accepting the
// same formats as ParseTimeslot.
func Canonical(raw string) (string, bool) {
	t, ok := ParseTimeslot(raw)
	if !ok {
		return "", false
	}
	return t.Format(CanonicalLayout), true
}

// ParseDate parses a strict "YYYY-MM-DD" value. ok is false on empty or
// malformed input so callers can treat it as "filter not applied".
func ParseDate(raw string) (time.Time, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, false
	}

	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
