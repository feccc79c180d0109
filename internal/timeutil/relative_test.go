package timeutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var relNow = time.Date(2025, time.September, 28, 12, 0, 0, 0, time.UTC)

func at(minutes int) time.Time {
	return relNow.Add(time.Duration(minutes) * time.Minute)
}

func TestFormatRelativeFutureBands(t *testing.T) {
	tests := []struct {
		name        string
		diffMinutes int
		expected    string
	}{
		{"zero is future", 0, "In 0m"},
		{"exact minutes inside first hour", 45, "In 45m"},
		{"sixty still minutes", 60, "In 60m"},
		{"remainder fifteen rounds down", 75, "In 1 hour"},
		{"remainder thirty rounds to half", 90, "In 1.5 hours"},
		{"remainder fifty rounds up", 110, "In 2 hours"},
		{"plural hours", 150, "In 2.5 hours"},
		{"top of hours band", 1439, "In 24 hours"},
		{"exactly one day", 1440, "In 1 day"},
		{"two days plus four hours rounds down", 2*1440 + 4*60, "In 2 days"},
		{"two days plus twelve hours rounds to half", 2*1440 + 12*60, "In 2.5 days"},
		{"two days plus twenty hours rounds up", 2*1440 + 20*60, "In 3 days"},
		{"six hour remainder still rounds down", 1440 + 6*60, "In 1 day"},
		{"just past six hour remainder", 1440 + 6*60 + 1, "In 1.5 days"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatRelative(at(tt.diffMinutes), relNow))
		})
	}
}

func TestFormatRelativePastBands(t *testing.T) {
	tests := []struct {
		name        string
		diffMinutes int
		expected    string
	}{
		{"minutes ago", -30, "30m ago"},
		{"hours and minutes ago", -125, "2h 5m ago"},
		{"just under a day ago", -1439, "23h 59m ago"},
		{"days and hours ago", -(1440 + 60), "1d 1h ago"},
		{"several days ago", -(3*1440 + 5*60 + 59), "3d 5h ago"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatRelative(at(tt.diffMinutes), relNow))
		})
	}
}

func TestDescribeFloorsSubMinuteDiffs(t *testing.T) {
	// Half a minute in the past is already one minute ago; half a
	// minute ahead is still zero minutes out.
	assert.Equal(t, "1m ago", FormatRelative(relNow.Add(-30*time.Second), relNow))
	assert.Equal(t, "In 0m", FormatRelative(relNow.Add(30*time.Second), relNow))
}

func TestDescribeStructuredResult(t *testing.T) {
	rel := Describe(at(90), relNow)
	assert.False(t, rel.IsPast)
	assert.Equal(t, BandHours, rel.Band)
	assert.Equal(t, 1.5, rel.Value)
	assert.Equal(t, "In 1.5 hours", rel.Label)

	rel = Describe(at(-125), relNow)
	assert.True(t, rel.IsPast)
	assert.Equal(t, BandHours, rel.Band)
	assert.InDelta(t, 125.0/60, rel.Value, 1e-9)

	rel = Describe(at(20*1440), relNow)
	assert.Equal(t, BandDays, rel.Band)
	assert.Equal(t, 20.0, rel.Value)
}

func TestSingularPlural(t *testing.T) {
	assert.Equal(t, "In 1 hour", FormatRelative(at(65), relNow))
	assert.Equal(t, "In 2 hours", FormatRelative(at(125), relNow))
	assert.Equal(t, "In 1 day", FormatRelative(at(1445), relNow))
	assert.Equal(t, "In 2 days", FormatRelative(at(2*1440), relNow))
	// Half values always read plural.
	assert.Equal(t, "In 1.5 hours", FormatRelative(at(95), relNow))
	assert.Equal(t, "In 1.5 days", FormatRelative(at(1440+12*60), relNow))
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "30 min", FormatDuration(30))
	assert.Equal(t, "1h", FormatDuration(60))
	assert.Equal(t, "1h 30m", FormatDuration(90))
	assert.Equal(t, "2h", FormatDuration(120))
	assert.Equal(t, "0 min", FormatDuration(0))
}
