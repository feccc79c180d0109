package timeutil

import (
	"fmt"
	"time"
)

// Band is the magnitude range a relative-time value falls into.
type Band int

const (
	BandMinutes Band = iota
	BandHours
	BandDays
)

func (b Band) String() string {
	switch b {
	case BandMinutes:
		return "minutes"
	case BandHours:
		return "hours"
	case BandDays:
		return "days"
	default:
		return "unknown"
	}
}

// Relative is the structured result of describing a target instant
// against now. Classifiers consume Band and Value directly instead of
// re-parsing the rendered label.
type Relative struct {
	IsPast bool    `json:"is_past"`
	Band   Band    `json:"-"`
	Value  float64 `json:"value"` // magnitude in band units, e.g. 1.5 hours
	Label  string  `json:"label"`
}

// Describe computes the relative position of target against now.
//
// diffMinutes is floor((target-now)/1m), so an instant half a minute in
// the past already counts as one minute ago. The future branch uses
// exact minutes inside the first hour and round-to-nearest-half beyond
// it; the past branch always reports exact components. A zero diff is
// future ("In 0m"), never a special "now" case.
func Describe(target, now time.Time) Relative {
	diffMinutes := floorDiv(target.Sub(now).Milliseconds(), 60_000)

	if diffMinutes < 0 {
		return describePast(-diffMinutes)
	}
	return describeFuture(diffMinutes)
}

// FormatRelative renders the relative label for target against now.
func FormatRelative(target, now time.Time) string {
	return Describe(target, now).Label
}

func describePast(m int64) Relative {
	switch {
	case m < 60:
		return Relative{
			IsPast: true,
			Band:   BandMinutes,
			Value:  float64(m),
			Label:  fmt.Sprintf("%dm ago", m),
		}
	case m < 1440:
		return Relative{
			IsPast: true,
			Band:   BandHours,
			Value:  float64(m) / 60,
			Label:  fmt.Sprintf("%dh %dm ago", m/60, m%60),
		}
	default:
		return Relative{
			IsPast: true,
			Band:   BandDays,
			Value:  float64(m) / 1440,
			Label:  fmt.Sprintf("%dd %dh ago", m/1440, (m%1440)/60),
		}
	}
}

func describeFuture(dm int64) Relative {
	if dm <= 60 {
		return Relative{
			Band:  BandMinutes,
			Value: float64(dm),
			Label: fmt.Sprintf("In %dm", dm),
		}
	}

	if dm < 1440 {
		wholeHours := dm / 60
		rem := dm % 60
		switch {
		case rem <= 15:
			return futureWhole(BandHours, wholeHours, "hour")
		case rem <= 45:
			return Relative{
				Band:  BandHours,
				Value: float64(wholeHours) + 0.5,
				Label: fmt.Sprintf("In %d.5 hours", wholeHours),
			}
		default:
			return futureWhole(BandHours, wholeHours+1, "hour")
		}
	}

	wholeDays := dm / 1440
	remMinutes := dm % 1440
	switch {
	case remMinutes <= 6*60:
		return futureWhole(BandDays, wholeDays, "day")
	case remMinutes <= 18*60:
		return Relative{
			Band:  BandDays,
			Value: float64(wholeDays) + 0.5,
			Label: fmt.Sprintf("In %d.5 days", wholeDays),
		}
	default:
		return futureWhole(BandDays, wholeDays+1, "day")
	}
}

func futureWhole(band Band, n int64, unit string) Relative {
	if n != 1 {
		unit += "s"
	}
	return Relative{
		Band:  band,
		Value: float64(n),
		Label: fmt.Sprintf("In %d %s", n, unit),
	}
}

// floorDiv divides rounding toward negative infinity, so negative
// millisecond diffs land in the right minute bucket.
func floorDiv(a, b int64) int64 {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}
