package webapi

import (
	"net/http"
	"time"

	"dayboard/internal/db"
	"dayboard/internal/timeutil"
)

// KeyEventResponse represents a bookmarked event in JSON responses.
type KeyEventResponse struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	DateLabel string    `json:"date_label,omitempty"`
	TimeLabel string    `json:"time_label,omitempty"`
	Start     time.Time `json:"start"`
	Duration  string    `json:"duration,omitempty"`
	AllDay    bool      `json:"all_day"`
	Relative  string    `json:"relative"`
	Urgency   string    `json:"urgency"`
	CreatedAt time.Time `json:"created_at"`
}

func keyEventToResponse(e *db.KeyEvent, now time.Time) *KeyEventResponse {
	resp := &KeyEventResponse{
		ID:        e.ID,
		Title:     e.Title,
		DateLabel: e.DateLabel,
		TimeLabel: e.TimeLabel,
		Start:     e.StartAt.Time,
		AllDay:    e.AllDay,
		Relative:  timeutil.FormatRelative(e.StartAt.Time, now),
		Urgency:   timeutil.ClassifyUrgency(e.StartAt.Time, now).String(),
		CreatedAt: e.CreatedAt.Time,
	}
	if e.DurationMinutes > 0 {
		resp.Duration = timeutil.FormatDuration(e.DurationMinutes)
	}
	return resp
}

// handleListKeyEvents handles GET /keyevents
func (s *Server) handleListKeyEvents(w http.ResponseWriter, r *http.Request) {
	opts := db.ListKeyEventsOptions{}
	if r.URL.Query().Get("upcoming") == "true" {
		now := time.Now()
		opts.After = &now
	}

	events, err := s.db.ListKeyEvents(opts)
	if err != nil {
		s.logger.Error("list key events failed", "error", err)
		jsonError(w, "Failed to list key events", http.StatusInternalServerError)
		return
	}

	now := time.Now()
	responses := make([]*KeyEventResponse, len(events))
	for i, e := range events {
		responses[i] = keyEventToResponse(e, now)
	}

	jsonResponse(w, responses, http.StatusOK)
}

// KeyEventRequest bookmarks an event by its upstream wall-clock labels.
// The labels are normalized server-side; malformed labels are rejected,
// not defaulted.
type KeyEventRequest struct {
	Title           string `json:"title"`
	DateLabel       string `json:"date_label"`
	TimeLabel       string `json:"time_label"`
	DurationMinutes int    `json:"duration_minutes"`
	AllDay          bool   `json:"all_day"`
}

func (s *Server) keyEventFromRequest(req KeyEventRequest) (*db.KeyEvent, error) {
	start, err := timeutil.Normalize(req.DateLabel, req.TimeLabel, req.AllDay, time.Now().Year())
	if err != nil {
		return nil, err
	}
	return &db.KeyEvent{
		Title:           req.Title,
		DateLabel:       req.DateLabel,
		TimeLabel:       req.TimeLabel,
		StartAt:         db.NewLocalTime(start),
		DurationMinutes: req.DurationMinutes,
		AllDay:          req.AllDay,
	}, nil
}

// handleCreateKeyEvent handles POST /keyevents
func (s *Server) handleCreateKeyEvent(w http.ResponseWriter, r *http.Request) {
	var req KeyEventRequest
	if err := parseJSON(r, &req); err != nil {
		jsonError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Title == "" {
		jsonError(w, "Title is required", http.StatusBadRequest)
		return
	}

	event, err := s.keyEventFromRequest(req)
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := s.db.CreateKeyEvent(event); err != nil {
		s.logger.Error("create key event failed", "error", err)
		jsonError(w, "Failed to create key event", http.StatusInternalServerError)
		return
	}

	jsonResponse(w, keyEventToResponse(event, time.Now()), http.StatusCreated)
}

// handleUpdateKeyEvent handles PUT /keyevents/{id}
func (s *Server) handleUpdateKeyEvent(w http.ResponseWriter, r *http.Request) {
	id, err := getIDParam(r)
	if err != nil {
		jsonError(w, "Invalid key event ID", http.StatusBadRequest)
		return
	}

	existing, err := s.db.GetKeyEvent(id)
	if err != nil {
		jsonError(w, "Failed to get key event", http.StatusInternalServerError)
		return
	}
	if existing == nil {
		jsonError(w, "Key event not found", http.StatusNotFound)
		return
	}

	var req KeyEventRequest
	if err := parseJSON(r, &req); err != nil {
		jsonError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	event, err := s.keyEventFromRequest(req)
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}
	event.ID = id
	if event.Title == "" {
		event.Title = existing.Title
	}

	if err := s.db.UpdateKeyEvent(event); err != nil {
		s.logger.Error("update key event failed", "error", err)
		jsonError(w, "Failed to update key event", http.StatusInternalServerError)
		return
	}

	jsonResponse(w, keyEventToResponse(event, time.Now()), http.StatusOK)
}

// handleDeleteKeyEvent handles DELETE /keyevents/{id}
func (s *Server) handleDeleteKeyEvent(w http.ResponseWriter, r *http.Request) {
	id, err := getIDParam(r)
	if err != nil {
		jsonError(w, "Invalid key event ID", http.StatusBadRequest)
		return
	}

	if err := s.db.DeleteKeyEvent(id); err != nil {
		s.logger.Error("delete key event failed", "error", err)
		jsonError(w, "Failed to delete key event", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
