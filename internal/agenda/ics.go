package agenda

import (
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/google/uuid"

	"dayboard/internal/db"
)

// BuildICS renders the agenda plus the holiday planner as an ICS feed
// so external calendar apps can subscribe to the dashboard.
func BuildICS(events []Event, holidays []*db.Holiday, now time.Time) string {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)

	for _, e := range events {
		ev := cal.AddEvent(uuid.NewString() + "@dayboard")
		ev.SetDtStampTime(now)
		ev.SetSummary(e.Title)
		if e.AllDay {
			ev.SetAllDayStartAt(e.StartInstant)
			ev.SetAllDayEndAt(e.StartInstant.AddDate(0, 0, 1))
		} else {
			ev.SetStartAt(e.StartInstant)
			end := e.StartInstant.Add(time.Duration(e.DurationMinutes) * time.Minute)
			ev.SetEndAt(end)
		}
	}

	for _, h := range holidays {
		ev := cal.AddEvent(uuid.NewString() + "@dayboard")
		ev.SetDtStampTime(now)
		ev.SetSummary(h.Name)
		if h.Notes != "" {
			ev.SetDescription(h.Notes)
		}
		start := h.StartsOn.Time
		end := start.AddDate(0, 0, 1)
		if h.EndsOn != nil && !h.EndsOn.IsZero() {
			end = h.EndsOn.AddDate(0, 0, 1)
		}
		ev.SetAllDayStartAt(start)
		ev.SetAllDayEndAt(end)
	}

	return cal.Serialize()
}
