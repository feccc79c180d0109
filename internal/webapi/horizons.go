package webapi

import (
	"net/http"
	"time"

	"dayboard/internal/db"
	"dayboard/internal/timeutil"
)

// HorizonResponse represents a horizon in JSON responses.
type HorizonResponse struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Notes     string    `json:"notes,omitempty"`
	TargetAt  time.Time `json:"target_at"`
	Relative  string    `json:"relative"`
	IsPast    bool      `json:"is_past"`
	Position  int       `json:"position"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func horizonToResponse(h *db.Horizon, now time.Time) *HorizonResponse {
	rel := timeutil.Describe(h.TargetAt.Time, now)
	return &HorizonResponse{
		ID:        h.ID,
		Title:     h.Title,
		Notes:     h.Notes,
		TargetAt:  h.TargetAt.Time,
		Relative:  rel.Label,
		IsPast:    rel.IsPast,
		Position:  h.Position,
		CreatedAt: h.CreatedAt.Time,
		UpdatedAt: h.UpdatedAt.Time,
	}
}

// handleListHorizons handles GET /horizons
func (s *Server) handleListHorizons(w http.ResponseWriter, r *http.Request) {
	var (
		horizons []*db.Horizon
		err      error
	)
	if r.URL.Query().Get("upcoming") == "true" {
		horizons, err = s.db.UpcomingHorizons(time.Now())
	} else {
		horizons, err = s.db.ListHorizons()
	}
	if err != nil {
		s.logger.Error("list horizons failed", "error", err)
		jsonError(w, "Failed to list horizons", http.StatusInternalServerError)
		return
	}

	now := time.Now()
	responses := make([]*HorizonResponse, len(horizons))
	for i, h := range horizons {
		responses[i] = horizonToResponse(h, now)
	}

	jsonResponse(w, responses, http.StatusOK)
}

// HorizonRequest represents a request to create or update a horizon.
type HorizonRequest struct {
	Title    string    `json:"title"`
	Notes    string    `json:"notes"`
	TargetAt time.Time `json:"target_at"`
}

// handleCreateHorizon handles POST /horizons
func (s *Server) handleCreateHorizon(w http.ResponseWriter, r *http.Request) {
	var req HorizonRequest
	if err := parseJSON(r, &req); err != nil {
		jsonError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Title == "" {
		jsonError(w, "Title is required", http.StatusBadRequest)
		return
	}
	if req.TargetAt.IsZero() {
		jsonError(w, "Target date is required", http.StatusBadRequest)
		return
	}

	horizon := &db.Horizon{
		Title:    req.Title,
		Notes:    req.Notes,
		TargetAt: db.NewLocalTime(req.TargetAt),
	}
	if err := s.db.CreateHorizon(horizon); err != nil {
		s.logger.Error("create horizon failed", "error", err)
		jsonError(w, "Failed to create horizon", http.StatusInternalServerError)
		return
	}

	jsonResponse(w, horizonToResponse(horizon, time.Now()), http.StatusCreated)
}

// handleGetHorizon handles GET /horizons/{id}
func (s *Server) handleGetHorizon(w http.ResponseWriter, r *http.Request) {
	id, err := getIDParam(r)
	if err != nil {
		jsonError(w, "Invalid horizon ID", http.StatusBadRequest)
		return
	}

	horizon, err := s.db.GetHorizon(id)
	if err != nil {
		s.logger.Error("get horizon failed", "error", err)
		jsonError(w, "Failed to get horizon", http.StatusInternalServerError)
		return
	}
	if horizon == nil {
		jsonError(w, "Horizon not found", http.StatusNotFound)
		return
	}

	jsonResponse(w, horizonToResponse(horizon, time.Now()), http.StatusOK)
}

// handleUpdateHorizon handles PUT /horizons/{id}
func (s *Server) handleUpdateHorizon(w http.ResponseWriter, r *http.Request) {
	id, err := getIDParam(r)
	if err != nil {
		jsonError(w, "Invalid horizon ID", http.StatusBadRequest)
		return
	}

	horizon, err := s.db.GetHorizon(id)
	if err != nil {
		jsonError(w, "Failed to get horizon", http.StatusInternalServerError)
		return
	}
	if horizon == nil {
		jsonError(w, "Horizon not found", http.StatusNotFound)
		return
	}

	var req HorizonRequest
	if err := parseJSON(r, &req); err != nil {
		jsonError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if req.Title != "" {
		horizon.Title = req.Title
	}
	horizon.Notes = req.Notes
	if !req.TargetAt.IsZero() {
		horizon.TargetAt = db.NewLocalTime(req.TargetAt)
	}

	if err := s.db.UpdateHorizon(horizon); err != nil {
		s.logger.Error("update horizon failed", "error", err)
		jsonError(w, "Failed to update horizon", http.StatusInternalServerError)
		return
	}

	jsonResponse(w, horizonToResponse(horizon, time.Now()), http.StatusOK)
}

// handleReorderHorizons handles POST /horizons/reorder
func (s *Server) handleReorderHorizons(w http.ResponseWriter, r *http.Request) {
	var req ReorderRequest
	if err := parseJSON(r, &req); err != nil {
		jsonError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if len(req.IDs) == 0 {
		jsonError(w, "IDs are required", http.StatusBadRequest)
		return
	}

	if err := s.db.ReorderHorizons(req.IDs); err != nil {
		s.logger.Error("reorder horizons failed", "error", err)
		jsonError(w, "Failed to reorder horizons", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// handleDeleteHorizon handles DELETE /horizons/{id}
func (s *Server) handleDeleteHorizon(w http.ResponseWriter, r *http.Request) {
	id, err := getIDParam(r)
	if err != nil {
		jsonError(w, "Invalid horizon ID", http.StatusBadRequest)
		return
	}

	if err := s.db.DeleteHorizon(id); err != nil {
		s.logger.Error("delete horizon failed", "error", err)
		jsonError(w, "Failed to delete horizon", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
