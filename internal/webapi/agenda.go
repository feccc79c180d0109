package webapi

import (
	"net/http"
	"time"

	"dayboard/internal/agenda"
	"dayboard/internal/timeutil"
)

// AgendaItem is one event in the agenda response, annotated with the
// display strings derived against the request's "now". Labels are
// recomputed per request and never stored.
type AgendaItem struct {
	Title     string    `json:"title"`
	Start     time.Time `json:"start"`
	AllDay    bool      `json:"all_day"`
	DateLabel string    `json:"date_label"`
	TimeLabel string    `json:"time_label"`
	Duration  string    `json:"duration"`
	Relative  string    `json:"relative"`
	Band      string    `json:"band"`
	IsPast    bool      `json:"is_past"`
	Urgency   string    `json:"urgency"`
}

// handleAgenda handles GET /agenda
func (s *Server) handleAgenda(w http.ResponseWriter, r *http.Request) {
	events, err := s.agenda.Events(r.Context())
	if err != nil {
		s.logger.Error("agenda fetch failed", "error", err)
		jsonError(w, "Failed to fetch agenda", http.StatusBadGateway)
		return
	}

	now := time.Now()
	items := make([]AgendaItem, 0, len(events))
	for _, e := range events {
		rel := timeutil.Describe(e.StartInstant, now)
		items = append(items, AgendaItem{
			Title:     e.Title,
			Start:     e.StartInstant,
			AllDay:    e.AllDay,
			DateLabel: e.DateLabel,
			TimeLabel: e.TimeLabel,
			Duration:  timeutil.FormatDuration(e.DurationMinutes),
			Relative:  rel.Label,
			Band:      rel.Band.String(),
			IsPast:    rel.IsPast,
			Urgency:   timeutil.ClassifyUrgency(e.StartInstant, now).String(),
		})
	}

	jsonResponse(w, items, http.StatusOK)
}

// handleAgendaRefresh handles POST /agenda/refresh
func (s *Server) handleAgendaRefresh(w http.ResponseWriter, r *http.Request) {
	events, err := s.agenda.Refresh(r.Context())
	if err != nil {
		s.logger.Error("agenda refresh failed", "error", err)
		jsonError(w, "Failed to refresh agenda", http.StatusBadGateway)
		return
	}
	jsonResponse(w, map[string]int{"events": len(events)}, http.StatusOK)
}

// handleCalendarICS handles GET /calendar.ics
func (s *Server) handleCalendarICS(w http.ResponseWriter, r *http.Request) {
	events, err := s.agenda.Events(r.Context())
	if err != nil {
		s.logger.Error("agenda fetch failed", "error", err)
		jsonError(w, "Failed to fetch agenda", http.StatusBadGateway)
		return
	}
	holidays, err := s.db.ListHolidays()
	if err != nil {
		s.logger.Error("list holidays failed", "error", err)
		jsonError(w, "Failed to list holidays", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(agenda.BuildICS(events, holidays, time.Now())))
}
