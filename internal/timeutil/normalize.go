// Package timeutil normalizes the wall-clock labels emitted by the
// upstream calendar backend into absolute instants, and derives the
// relative-time labels and urgency levels the dashboard displays.
package timeutil

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// The upstream backend emits Pacific wall-clock strings with a fixed
// UTC-8 offset. No DST adjustment is applied; this reproduces the
// legacy fixed-offset behavior for parity with stored bookmarks.
const sourceOffsetHours = 8

// WallClockEvent is a raw event as the upstream backend emits it:
// a date label with no year, a 12-hour clock label (or "All Day"),
// and a duration. It is discarded after normalization.
type WallClockEvent struct {
	DateLabel       string // e.g. "Sep 28"
	StartTimeLabel  string // e.g. "4:30 AM" or "All Day"
	DurationMinutes int
	AllDay          bool
}

// NormalizedEvent is the canonical form after normalization. StartInstant
// is an absolute point in time; it is never stored back as a wall-clock
// string.
type NormalizedEvent struct {
	StartInstant    time.Time
	DurationMinutes int
	AllDay          bool
}

// MalformedTimeLabelError reports a date or time label that does not
// match the expected pattern. Callers decide whether to skip the event
// or surface the error; the normalizer never substitutes a default.
type MalformedTimeLabelError struct {
	Label  string
	Reason string
}

func (e *MalformedTimeLabelError) Error() string {
	return fmt.Sprintf("malformed time label %q: %s", e.Label, e.Reason)
}

var months = map[string]time.Month{
	"Jan": time.January, "Feb": time.February, "Mar": time.March,
	"Apr": time.April, "May": time.May, "Jun": time.June,
	"Jul": time.July, "Aug": time.August, "Sep": time.September,
	"Oct": time.October, "Nov": time.November, "Dec": time.December,
}

// AllDayLabel is the sentinel start-time label for all-day events.
const AllDayLabel = "All Day"

// Normalize converts a wall-clock label pair into an absolute instant.
//
// All-day events resolve to local midnight of the labeled date with no
// offset shift. Timed events are interpreted as Pacific wall-clock and
// shifted by the fixed UTC-8 source offset. The labels carry no year, so
// referenceYear supplies one; no rollover into the next year happens
// here (see NormalizeUpcoming).
//
// Invalid day-of-month combinations ("Feb 30") roll over per time.Date;
// that matches the behavior of the stored bookmarks and is accepted.
func Normalize(dateLabel, startTimeLabel string, allDay bool, referenceYear int) (time.Time, error) {
	month, day, err := parseDateLabel(dateLabel)
	if err != nil {
		return time.Time{}, err
	}

	if allDay || startTimeLabel == AllDayLabel {
		return time.Date(referenceYear, month, day, 0, 0, 0, 0, time.Local), nil
	}

	hour24, minute, err := parseClockLabel(startTimeLabel)
	if err != nil {
		return time.Time{}, err
	}

	wall := time.Date(referenceYear, month, day, hour24, minute, 0, 0, time.UTC)
	return wall.Add(sourceOffsetHours * time.Hour), nil
}

// NormalizeUpcoming is Normalize with explicit year rollover: if the
// labeled date resolves to an instant before now, the label is taken to
// mean the next calendar year. Used for holiday countdowns, where a
// label always names the next occurrence.
func NormalizeUpcoming(dateLabel, startTimeLabel string, allDay bool, now time.Time) (time.Time, error) {
	t, err := Normalize(dateLabel, startTimeLabel, allDay, now.Year())
	if err != nil {
		return time.Time{}, err
	}
	if t.Before(now) {
		return Normalize(dateLabel, startTimeLabel, allDay, now.Year()+1)
	}
	return t, nil
}

// NormalizeEvent normalizes a raw upstream event.
func NormalizeEvent(ev WallClockEvent, referenceYear int) (NormalizedEvent, error) {
	start, err := Normalize(ev.DateLabel, ev.StartTimeLabel, ev.AllDay, referenceYear)
	if err != nil {
		return NormalizedEvent{}, err
	}
	return NormalizedEvent{
		StartInstant:    start,
		DurationMinutes: ev.DurationMinutes,
		AllDay:          ev.AllDay,
	}, nil
}

func parseDateLabel(label string) (time.Month, int, error) {
	fields := strings.Fields(strings.TrimSpace(label))
	if len(fields) != 2 {
		return 0, 0, &MalformedTimeLabelError{Label: label, Reason: "want \"<Mon> <day>\""}
	}

	month, ok := months[fields[0]]
	if !ok {
		return 0, 0, &MalformedTimeLabelError{Label: label, Reason: "unknown month " + fields[0]}
	}

	day, err := strconv.Atoi(fields[1])
	if err != nil || day < 1 || day > 31 {
		return 0, 0, &MalformedTimeLabelError{Label: label, Reason: "bad day of month"}
	}

	return month, day, nil
}

func parseClockLabel(label string) (hour24, minute int, err error) {
	fields := strings.Fields(strings.TrimSpace(label))
	if len(fields) != 2 {
		return 0, 0, &MalformedTimeLabelError{Label: label, Reason: "want \"<h>:<mm> <AM|PM>\""}
	}

	clock, meridiem := fields[0], strings.ToUpper(fields[1])
	if meridiem != "AM" && meridiem != "PM" {
		return 0, 0, &MalformedTimeLabelError{Label: label, Reason: "want AM or PM"}
	}

	hm := strings.SplitN(clock, ":", 2)
	if len(hm) != 2 {
		return 0, 0, &MalformedTimeLabelError{Label: label, Reason: "missing minutes"}
	}

	hour, err1 := strconv.Atoi(hm[0])
	minute, err2 := strconv.Atoi(hm[1])
	if err1 != nil || err2 != nil || hour < 1 || hour > 12 || minute < 0 || minute > 59 {
		return 0, 0, &MalformedTimeLabelError{Label: label, Reason: "clock out of range"}
	}

	switch {
	case meridiem == "PM" && hour != 12:
		hour += 12
	case meridiem == "AM" && hour == 12:
		hour = 0
	}

	return hour, minute, nil
}
