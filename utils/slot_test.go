package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsClockTime(t *testing.T) {
	valid := []string{"00:00", "09:30", "13:05", "23:59"}
	for _, s := range valid {
		assert.True(t, IsClockTime(s), "expected %q to be valid", s)
	}

	invalid := []string{"24:00", "9:30", "12:60", "12:5", "1200", "12:00:00", "ab:cd", ""}
	for _, s := range invalid {
		assert.False(t, IsClockTime(s), "expected %q to be invalid", s)
	}
}

func TestParseSlot(t *testing.T) {
	start, end, err := ParseSlot("2026-03-15", "09:00", "11:30")
	require.NoError(t, err)

	assert.Equal(t, time.Date(2026, 3, 15, 9, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2026, 3, 15, 11, 30, 0, 0, time.UTC), end)
}

func TestParseSlotRejectsBadInput(t *testing.T) {
	cases := []struct {
		name  string
		date  string
		start string
		end   string
	}{
		{"bad start clock", "2026-03-15", "25:00", "11:00"},
		{"bad end clock", "2026-03-15", "09:00", "11:60"},
		{"twelve hour clock", "2026-03-15", "9:00", "11:00"},
		{"bad date", "15/03/2026", "09:00", "11:00"},
		{"start equals end", "2026-03-15", "10:00", "10:00"},
		{"start after end", "2026-03-15", "14:00", "10:00"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := ParseSlot(tc.date, tc.start, tc.end)
			assert.Error(t, err)
		})
	}
}

func TestOverlaps(t *testing.T) {
	day := func(h, m int) time.Time {
		return time.Date(2026, 3, 15, h, m, 0, 0, time.UTC)
	}

	// Plain intersection
	assert.True(t, Overlaps(day(10, 0), day(12, 0), day(11, 0), day(13, 0)))
	// One slot fully inside the other
	assert.True(t, Overlaps(day(10, 0), day(14, 0), day(11, 0), day(12, 0)))
	assert.True(t, Overlaps(day(11, 0), day(12, 0), day(10, 0), day(14, 0)))
	// Identical slots
	assert.True(t, Overlaps(day(10, 0), day(12, 0), day(10, 0), day(12, 0)))

	// Back-to-back slots share an endpoint but do not conflict
	assert.False(t, Overlaps(day(10, 0), day(11, 0), day(11, 0), day(12, 0)))
	assert.False(t, Overlaps(day(11, 0), day(12, 0), day(10, 0), day(11, 0)))
	// Disjoint
	assert.False(t, Overlaps(day(8, 0), day(9, 0), day(15, 0), day(16, 0)))
}

func TestWithinWorkingHours(t *testing.T) {
	day := func(h, m int) time.Time {
		return time.Date(2026, 3, 15, h, m, 0, 0, time.UTC)
	}

	assert.True(t, WithinWorkingHours("09:00", "17:00", day(9, 0), day(17, 0)))
	assert.True(t, WithinWorkingHours("09:00", "17:00", day(10, 0), day(11, 30)))

	assert.False(t, WithinWorkingHours("09:00", "17:00", day(8, 30), day(10, 0)))
	assert.False(t, WithinWorkingHours("09:00", "17:00", day(16, 0), day(17, 30)))

	// Unset window means no restriction
	assert.True(t, WithinWorkingHours("", "", day(3, 0), day(4, 0)))
	assert.True(t, WithinWorkingHours("09:00", "", day(3, 0), day(4, 0)))
}
