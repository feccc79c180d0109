// Package holiday derives long-weekend spans and countdowns for the
// holidays and vacation planner.
package holiday

import (
	"time"

	"dayboard/internal/db"
	"dayboard/internal/timeutil"
)

// Span is a contiguous run of off days around a holiday, including any
// adjoining weekend days.
type Span struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
	Days  int       `json:"days"`
}

// Countdown is the display record for an upcoming holiday: its derived
// off-day span plus the relative label and color tone for the start.
type Countdown struct {
	Holiday     *db.Holiday
	Span        Span
	LongWeekend bool
	StartsIn    timeutil.Relative
	Tone        timeutil.CountdownTone
}

// DeriveSpan computes the contiguous off-day span for a holiday. A
// single day expands over adjoining weekend days in both directions; a
// vacation range additionally absorbs the weekends touching either end.
func DeriveSpan(h *db.Holiday) Span {
	start := dateOnly(h.StartsOn.Time)
	end := start
	if h.EndsOn != nil && !h.EndsOn.IsZero() {
		end = dateOnly(h.EndsOn.Time)
	}

	for isWeekend(start.AddDate(0, 0, -1)) {
		start = start.AddDate(0, 0, -1)
	}
	for isWeekend(end.AddDate(0, 0, 1)) {
		end = end.AddDate(0, 0, 1)
	}

	return Span{
		Start: start,
		End:   end,
		Days:  int(end.Sub(start).Hours()/24) + 1,
	}
}

// IsLongWeekend reports whether the span makes a long weekend: three or
// more contiguous off days touching a weekend.
func IsLongWeekend(s Span) bool {
	if s.Days < 3 {
		return false
	}
	for d := s.Start; !d.After(s.End); d = d.AddDate(0, 0, 1) {
		if isWeekend(d) {
			return true
		}
	}
	return false
}

// BuildCountdown assembles the display record for one holiday.
func BuildCountdown(h *db.Holiday, now time.Time) Countdown {
	span := DeriveSpan(h)
	rel := timeutil.Describe(span.Start, now)
	return Countdown{
		Holiday:     h,
		Span:        span,
		LongWeekend: IsLongWeekend(span),
		StartsIn:    rel,
		Tone:        timeutil.ClassifyCountdown(rel),
	}
}

// BuildCountdowns assembles countdowns for a list of holidays.
func BuildCountdowns(holidays []*db.Holiday, now time.Time) []Countdown {
	out := make([]Countdown, 0, len(holidays))
	for _, h := range holidays {
		out = append(out, BuildCountdown(h, now))
	}
	return out
}

// FromLabel builds a holiday row from a "<Mon> <day>" label, resolving
// it to the next occurrence: a label whose date already passed this
// year means next year.
func FromLabel(name, dateLabel string, now time.Time) (*db.Holiday, error) {
	on, err := timeutil.NormalizeUpcoming(dateLabel, timeutil.AllDayLabel, true, now)
	if err != nil {
		return nil, err
	}
	return &db.Holiday{
		Name:     name,
		Kind:     db.KindHolidayDay,
		StartsOn: db.NewLocalTime(on),
	}, nil
}

func dateOnly(t time.Time) time.Time {
	t = t.Local()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.Local)
}

func isWeekend(t time.Time) bool {
	wd := t.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}
