package webapi

import (
	"net/http"
	"time"

	"dayboard/internal/db"
	"dayboard/internal/holiday"
)

// HolidayResponse represents a holiday in JSON responses.
type HolidayResponse struct {
	ID       int64      `json:"id"`
	Name     string     `json:"name"`
	Kind     string     `json:"kind"`
	StartsOn time.Time  `json:"starts_on"`
	EndsOn   *time.Time `json:"ends_on,omitempty"`
	Notes    string     `json:"notes,omitempty"`
}

// HolidayCountdownResponse adds the derived off-day span and countdown.
type HolidayCountdownResponse struct {
	HolidayResponse
	SpanStart   time.Time `json:"span_start"`
	SpanEnd     time.Time `json:"span_end"`
	SpanDays    int       `json:"span_days"`
	LongWeekend bool      `json:"long_weekend"`
	StartsIn    string    `json:"starts_in"`
	Tone        string    `json:"tone"`
}

func holidayToResponse(h *db.Holiday) HolidayResponse {
	resp := HolidayResponse{
		ID:       h.ID,
		Name:     h.Name,
		Kind:     h.Kind,
		StartsOn: h.StartsOn.Time,
		Notes:    h.Notes,
	}
	if h.EndsOn != nil && !h.EndsOn.IsZero() {
		resp.EndsOn = &h.EndsOn.Time
	}
	return resp
}

// handleListHolidays handles GET /holidays
func (s *Server) handleListHolidays(w http.ResponseWriter, r *http.Request) {
	holidays, err := s.db.ListHolidays()
	if err != nil {
		s.logger.Error("list holidays failed", "error", err)
		jsonError(w, "Failed to list holidays", http.StatusInternalServerError)
		return
	}

	responses := make([]HolidayResponse, len(holidays))
	for i, h := range holidays {
		responses[i] = holidayToResponse(h)
	}
	jsonResponse(w, responses, http.StatusOK)
}

// handleUpcomingHolidays handles GET /holidays/upcoming
func (s *Server) handleUpcomingHolidays(w http.ResponseWriter, r *http.Request) {
	now := time.Now()
	holidays, err := s.db.UpcomingHolidays(now)
	if err != nil {
		s.logger.Error("list upcoming holidays failed", "error", err)
		jsonError(w, "Failed to list holidays", http.StatusInternalServerError)
		return
	}

	countdowns := holiday.BuildCountdowns(holidays, now)
	responses := make([]HolidayCountdownResponse, len(countdowns))
	for i, cd := range countdowns {
		responses[i] = HolidayCountdownResponse{
			HolidayResponse: holidayToResponse(cd.Holiday),
			SpanStart:       cd.Span.Start,
			SpanEnd:         cd.Span.End,
			SpanDays:        cd.Span.Days,
			LongWeekend:     cd.LongWeekend,
			StartsIn:        cd.StartsIn.Label,
			Tone:            cd.Tone.String(),
		}
	}
	jsonResponse(w, responses, http.StatusOK)
}

// HolidayRequest represents a request to create or update a holiday.
// Either a concrete start date or a "<Mon> <day>" label may be given;
// a label resolves to its next occurrence.
type HolidayRequest struct {
	Name      string     `json:"name"`
	Kind      string     `json:"kind"`
	StartsOn  *time.Time `json:"starts_on,omitempty"`
	EndsOn    *time.Time `json:"ends_on,omitempty"`
	DateLabel string     `json:"date_label,omitempty"`
	Notes     string     `json:"notes"`
}

func (s *Server) holidayFromRequest(req HolidayRequest) (*db.Holiday, error) {
	if req.DateLabel != "" {
		h, err := holiday.FromLabel(req.Name, req.DateLabel, time.Now())
		if err != nil {
			return nil, err
		}
		h.Notes = req.Notes
		if req.Kind != "" {
			h.Kind = req.Kind
		}
		return h, nil
	}

	h := &db.Holiday{Name: req.Name, Kind: req.Kind, Notes: req.Notes}
	if req.StartsOn != nil {
		h.StartsOn = db.NewLocalTime(*req.StartsOn)
	}
	if req.EndsOn != nil {
		ends := db.NewLocalTime(*req.EndsOn)
		h.EndsOn = &ends
	}
	return h, nil
}

// handleCreateHoliday handles POST /holidays
func (s *Server) handleCreateHoliday(w http.ResponseWriter, r *http.Request) {
	var req HolidayRequest
	if err := parseJSON(r, &req); err != nil {
		jsonError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Name == "" {
		jsonError(w, "Name is required", http.StatusBadRequest)
		return
	}
	if req.StartsOn == nil && req.DateLabel == "" {
		jsonError(w, "A start date or date label is required", http.StatusBadRequest)
		return
	}

	h, err := s.holidayFromRequest(req)
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := s.db.CreateHoliday(h); err != nil {
		s.logger.Error("create holiday failed", "error", err)
		jsonError(w, "Failed to create holiday", http.StatusInternalServerError)
		return
	}

	jsonResponse(w, holidayToResponse(h), http.StatusCreated)
}

// handleUpdateHoliday handles PUT /holidays/{id}
func (s *Server) handleUpdateHoliday(w http.ResponseWriter, r *http.Request) {
	id, err := getIDParam(r)
	if err != nil {
		jsonError(w, "Invalid holiday ID", http.StatusBadRequest)
		return
	}

	existing, err := s.db.GetHoliday(id)
	if err != nil {
		jsonError(w, "Failed to get holiday", http.StatusInternalServerError)
		return
	}
	if existing == nil {
		jsonError(w, "Holiday not found", http.StatusNotFound)
		return
	}

	var req HolidayRequest
	if err := parseJSON(r, &req); err != nil {
		jsonError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	h, err := s.holidayFromRequest(req)
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}
	h.ID = id
	if h.Name == "" {
		h.Name = existing.Name
	}
	if h.StartsOn.IsZero() {
		h.StartsOn = existing.StartsOn
	}

	if err := s.db.UpdateHoliday(h); err != nil {
		s.logger.Error("update holiday failed", "error", err)
		jsonError(w, "Failed to update holiday", http.StatusInternalServerError)
		return
	}

	jsonResponse(w, holidayToResponse(h), http.StatusOK)
}

// handleDeleteHoliday handles DELETE /holidays/{id}
func (s *Server) handleDeleteHoliday(w http.ResponseWriter, r *http.Request) {
	id, err := getIDParam(r)
	if err != nil {
		jsonError(w, "Invalid holiday ID", http.StatusBadRequest)
		return
	}

	if err := s.db.DeleteHoliday(id); err != nil {
		s.logger.Error("delete holiday failed", "error", err)
		jsonError(w, "Failed to delete holiday", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
