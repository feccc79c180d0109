package timeutil

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeFixedOffset(t *testing.T) {
	tests := []struct {
		name      string
		dateLabel string
		timeLabel string
		expected  time.Time
	}{
		{
			name:      "early morning",
			dateLabel: "Sep 28",
			timeLabel: "4:30 AM",
			expected:  time.Date(2025, time.September, 28, 12, 30, 0, 0, time.UTC),
		},
		{
			name:      "noon stays twelve",
			dateLabel: "Sep 28",
			timeLabel: "12:00 PM",
			expected:  time.Date(2025, time.September, 28, 20, 0, 0, 0, time.UTC),
		},
		{
			name:      "midnight becomes zero",
			dateLabel: "Sep 28",
			timeLabel: "12:00 AM",
			expected:  time.Date(2025, time.September, 28, 8, 0, 0, 0, time.UTC),
		},
		{
			name:      "evening crosses into next utc day",
			dateLabel: "Sep 28",
			timeLabel: "11:59 PM",
			expected:  time.Date(2025, time.September, 29, 7, 59, 0, 0, time.UTC),
		},
		{
			name:      "afternoon",
			dateLabel: "Dec 1",
			timeLabel: "3:15 PM",
			expected:  time.Date(2025, time.December, 1, 23, 15, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Normalize(tt.dateLabel, tt.timeLabel, false, 2025)
			require.NoError(t, err)
			assert.True(t, got.Equal(tt.expected), "got %v, want %v", got, tt.expected)
		})
	}
}

func TestNormalizeAllDayZeroShift(t *testing.T) {
	got, err := Normalize("Sep 28", "All Day", true, 2025)
	require.NoError(t, err)

	want := time.Date(2025, time.September, 28, 0, 0, 0, 0, time.Local)
	assert.True(t, got.Equal(want), "all-day must be local midnight with no offset shift, got %v", got)

	// The sentinel label alone is enough even when the flag is unset.
	got2, err := Normalize("Sep 28", "All Day", false, 2025)
	require.NoError(t, err)
	assert.True(t, got2.Equal(want))
}

func TestNormalizeDeterministic(t *testing.T) {
	a, err := Normalize("Mar 3", "9:05 PM", false, 2026)
	require.NoError(t, err)
	b, err := Normalize("Mar 3", "9:05 PM", false, 2026)
	require.NoError(t, err)
	assert.Equal(t, a.UnixMilli(), b.UnixMilli())
}

func TestNormalizeMalformedLabels(t *testing.T) {
	tests := []struct {
		name      string
		dateLabel string
		timeLabel string
	}{
		{"empty date", "", "4:30 AM"},
		{"unknown month", "Foo 28", "4:30 AM"},
		{"missing day", "Sep", "4:30 AM"},
		{"day out of range", "Sep 32", "4:30 AM"},
		{"no meridiem", "Sep 28", "4:30"},
		{"bad meridiem", "Sep 28", "4:30 XM"},
		{"hour zero", "Sep 28", "0:30 AM"},
		{"hour thirteen", "Sep 28", "13:30 PM"},
		{"minute out of range", "Sep 28", "4:61 AM"},
		{"no colon", "Sep 28", "430 AM"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Normalize(tt.dateLabel, tt.timeLabel, false, 2025)
			require.Error(t, err)

			var malformed *MalformedTimeLabelError
			assert.True(t, errors.As(err, &malformed), "want MalformedTimeLabelError, got %T", err)
		})
	}
}

func TestNormalizeUpcomingRollsOver(t *testing.T) {
	now := time.Date(2025, time.December, 20, 0, 0, 0, 0, time.UTC)

	// A January label queried in late December means next year.
	got, err := NormalizeUpcoming("Jan 15", "All Day", true, now)
	require.NoError(t, err)
	assert.Equal(t, 2026, got.Year())

	// A date still ahead this year stays in this year.
	got, err = NormalizeUpcoming("Dec 25", "All Day", true, now)
	require.NoError(t, err)
	assert.Equal(t, 2025, got.Year())
}

func TestNormalizeEvent(t *testing.T) {
	ev := WallClockEvent{
		DateLabel:       "Oct 5",
		StartTimeLabel:  "8:00 AM",
		DurationMinutes: 45,
	}

	got, err := NormalizeEvent(ev, 2025)
	require.NoError(t, err)
	assert.Equal(t, 45, got.DurationMinutes)
	assert.False(t, got.AllDay)
	assert.True(t, got.StartInstant.Equal(time.Date(2025, time.October, 5, 16, 0, 0, 0, time.UTC)))
}
