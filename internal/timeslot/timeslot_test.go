package timeslot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatTimeslot(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"14:00", "2:00 PM"},
		{"09:00", "9:00 AM"},
		{"00:30", "12:30 AM"},
		{"12:30", "12:30 PM"},
		{"9:00 AM", "9:00 AM"},
		{"09:00 am", "9:00 AM"},
		{"12:30 PM", "12:30 PM"},
		{"", ""},
		{"not a time", "not a time"},
		{"25:00", "25:00"},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, FormatTimeslot(tc.in), "input %q", tc.in)
	}
}

func TestParseTimeslot(t *testing.T) {
	got, ok := ParseTimeslot("10:00 AM")
	require.True(t, ok)
	assert.Equal(t, 10, got.Hour())
	assert.Equal(t, 0, got.Minute())

	got, ok = ParseTimeslot("09:30")
	require.True(t, ok)
	assert.Equal(t, 9, got.Hour())
	assert.Equal(t, 30, got.Minute())

	got, ok = ParseTimeslot("garbage")
	assert.False(t, ok)
	assert.True(t, got.IsZero())

	_, ok = ParseTimeslot("")
	assert.False(t, ok)
}

func TestRoundTrip(t *testing.T) {
	display := FormatTimeslot("14:00")
	require.Equal(t, "2:00 PM", display)

	parsed, ok := ParseTimeslot(display)
	require.True(t, ok)
	assert.Equal(t, 14, parsed.Hour())
	assert.Equal(t, 0, parsed.Minute())

	canonical, ok := Canonical(display)
	require.True(t, ok)
	assert.Equal(t, "14:00", canonical)
}

func TestParseDate(t *testing.T) {
	d, ok := ParseDate("2026-02-18")
	require.True(t, ok)
	assert.Equal(t, 2026, d.Year())
	assert.Equal(t, 18, d.Day())

	_, ok = ParseDate("18/02/2026")
	assert.False(t, ok)

	_, ok = ParseDate("")
	assert.False(t, ok)
}
