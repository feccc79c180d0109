package timeutil

import "time"

// UrgencyLevel is a coarse severity classification of time-to-event,
// used by callers purely for presentation.
type UrgencyLevel int

const (
	// UrgencyPast marks events whose start has already passed. It is a
	// dedicated level so callers never see a past event misclassified
	// as critical and do not need to pre-filter.
	UrgencyPast UrgencyLevel = iota
	UrgencyCritical
	UrgencyWarning
	UrgencyNormal
	UrgencyFuture
)

func (u UrgencyLevel) String() string {
	switch u {
	case UrgencyPast:
		return "past"
	case UrgencyCritical:
		return "critical"
	case UrgencyWarning:
		return "warning"
	case UrgencyNormal:
		return "normal"
	case UrgencyFuture:
		return "future"
	default:
		return "unknown"
	}
}

// ClassifyUrgency buckets target against now. Bands are inclusive on
// their upper bound: 45 minutes is still critical, 120 still warning,
// 1440 still normal.
func ClassifyUrgency(target, now time.Time) UrgencyLevel {
	diffMinutes := floorDiv(target.Sub(now).Milliseconds(), 60_000)

	switch {
	case diffMinutes < 0:
		return UrgencyPast
	case diffMinutes <= 45:
		return UrgencyCritical
	case diffMinutes <= 120:
		return UrgencyWarning
	case diffMinutes <= 1440:
		return UrgencyNormal
	default:
		return UrgencyFuture
	}
}

// CountdownTone is the color bucket for long-range countdowns such as
// holidays and vacations.
type CountdownTone int

const (
	ToneFaded     CountdownTone = iota // already happened
	ToneImmediate                      // within hours or minutes
	ToneNear                           // under 20 days out
	ToneMid                            // 20-40 days
	ToneFar                            // 40-90 days
	ToneDistant                        // beyond 90 days
)

func (t CountdownTone) String() string {
	switch t {
	case ToneFaded:
		return "faded"
	case ToneImmediate:
		return "immediate"
	case ToneNear:
		return "near"
	case ToneMid:
		return "mid"
	case ToneFar:
		return "far"
	case ToneDistant:
		return "distant"
	default:
		return "unknown"
	}
}

// ClassifyCountdown buckets a structured relative value. It consumes
// Band and Value directly rather than re-parsing the rendered label.
func ClassifyCountdown(rel Relative) CountdownTone {
	if rel.IsPast {
		return ToneFaded
	}
	if rel.Band != BandDays {
		return ToneImmediate
	}
	switch {
	case rel.Value < 20:
		return ToneNear
	case rel.Value <= 40:
		return ToneMid
	case rel.Value <= 90:
		return ToneFar
	default:
		return ToneDistant
	}
}
