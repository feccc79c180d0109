package webapi

import (
	"net/http"
	"time"

	"dayboard/internal/db"
	"dayboard/internal/timeutil"
)

// TodoResponse represents a todo in JSON responses.
type TodoResponse struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Notes       string     `json:"notes,omitempty"`
	Done        bool       `json:"done"`
	Due         *time.Time `json:"due,omitempty"`
	DueRelative string     `json:"due_relative,omitempty"`
	DueUrgency  string     `json:"due_urgency,omitempty"`
	Position    int        `json:"position"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

func todoToResponse(t *db.Todo, now time.Time) *TodoResponse {
	resp := &TodoResponse{
		ID:        t.ID,
		Title:     t.Title,
		Notes:     t.Notes,
		Done:      t.Done,
		Position:  t.Position,
		CreatedAt: t.CreatedAt.Time,
		UpdatedAt: t.UpdatedAt.Time,
	}

	if t.Due != nil && !t.Due.IsZero() {
		resp.Due = &t.Due.Time
		resp.DueRelative = timeutil.FormatRelative(t.Due.Time, now)
		resp.DueUrgency = timeutil.ClassifyUrgency(t.Due.Time, now).String()
	}
	if t.CompletedAt != nil && !t.CompletedAt.IsZero() {
		resp.CompletedAt = &t.CompletedAt.Time
	}

	return resp
}

// handleListTodos handles GET /todos
func (s *Server) handleListTodos(w http.ResponseWriter, r *http.Request) {
	opts := db.ListTodosOptions{}
	if r.URL.Query().Get("all") == "true" {
		opts.IncludeDone = true
	}

	todos, err := s.db.ListTodos(opts)
	if err != nil {
		s.logger.Error("list todos failed", "error", err)
		jsonError(w, "Failed to list todos", http.StatusInternalServerError)
		return
	}

	now := time.Now()
	responses := make([]*TodoResponse, len(todos))
	for i, t := range todos {
		responses[i] = todoToResponse(t, now)
	}

	jsonResponse(w, responses, http.StatusOK)
}

// TodoRequest represents a request to create or update a todo.
type TodoRequest struct {
	Title string     `json:"title"`
	Notes string     `json:"notes"`
	Due   *time.Time `json:"due,omitempty"`
}

// handleCreateTodo handles POST /todos
func (s *Server) handleCreateTodo(w http.ResponseWriter, r *http.Request) {
	var req TodoRequest
	if err := parseJSON(r, &req); err != nil {
		jsonError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Title == "" {
		jsonError(w, "Title is required", http.StatusBadRequest)
		return
	}

	todo := &db.Todo{Title: req.Title, Notes: req.Notes}
	if req.Due != nil {
		due := db.NewLocalTime(*req.Due)
		todo.Due = &due
	}

	if err := s.db.CreateTodo(todo); err != nil {
		s.logger.Error("create todo failed", "error", err)
		jsonError(w, "Failed to create todo", http.StatusInternalServerError)
		return
	}

	jsonResponse(w, todoToResponse(todo, time.Now()), http.StatusCreated)
}

// handleGetTodo handles GET /todos/{id}
func (s *Server) handleGetTodo(w http.ResponseWriter, r *http.Request) {
	id, err := getIDParam(r)
	if err != nil {
		jsonError(w, "Invalid todo ID", http.StatusBadRequest)
		return
	}

	todo, err := s.db.GetTodo(id)
	if err != nil {
		s.logger.Error("get todo failed", "error", err)
		jsonError(w, "Failed to get todo", http.StatusInternalServerError)
		return
	}
	if todo == nil {
		jsonError(w, "Todo not found", http.StatusNotFound)
		return
	}

	jsonResponse(w, todoToResponse(todo, time.Now()), http.StatusOK)
}

// handleUpdateTodo handles PUT /todos/{id}
func (s *Server) handleUpdateTodo(w http.ResponseWriter, r *http.Request) {
	id, err := getIDParam(r)
	if err != nil {
		jsonError(w, "Invalid todo ID", http.StatusBadRequest)
		return
	}

	todo, err := s.db.GetTodo(id)
	if err != nil {
		jsonError(w, "Failed to get todo", http.StatusInternalServerError)
		return
	}
	if todo == nil {
		jsonError(w, "Todo not found", http.StatusNotFound)
		return
	}

	var req TodoRequest
	if err := parseJSON(r, &req); err != nil {
		jsonError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if req.Title != "" {
		todo.Title = req.Title
	}
	todo.Notes = req.Notes
	todo.Due = nil
	if req.Due != nil {
		due := db.NewLocalTime(*req.Due)
		todo.Due = &due
	}

	if err := s.db.UpdateTodo(todo); err != nil {
		s.logger.Error("update todo failed", "error", err)
		jsonError(w, "Failed to update todo", http.StatusInternalServerError)
		return
	}

	jsonResponse(w, todoToResponse(todo, time.Now()), http.StatusOK)
}

// handleToggleTodo handles POST /todos/{id}/toggle
func (s *Server) handleToggleTodo(w http.ResponseWriter, r *http.Request) {
	id, err := getIDParam(r)
	if err != nil {
		jsonError(w, "Invalid todo ID", http.StatusBadRequest)
		return
	}

	todo, err := s.db.ToggleTodo(id)
	if err != nil {
		s.logger.Error("toggle todo failed", "error", err)
		jsonError(w, "Failed to toggle todo", http.StatusInternalServerError)
		return
	}
	if todo == nil {
		jsonError(w, "Todo not found", http.StatusNotFound)
		return
	}

	jsonResponse(w, todoToResponse(todo, time.Now()), http.StatusOK)
}

// ReorderRequest carries the new ID order for a list.
type ReorderRequest struct {
	IDs []int64 `json:"ids"`
}

// handleReorderTodos handles POST /todos/reorder
func (s *Server) handleReorderTodos(w http.ResponseWriter, r *http.Request) {
	var req ReorderRequest
	if err := parseJSON(r, &req); err != nil {
		jsonError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if len(req.IDs) == 0 {
		jsonError(w, "IDs are required", http.StatusBadRequest)
		return
	}

	if err := s.db.ReorderTodos(req.IDs); err != nil {
		s.logger.Error("reorder todos failed", "error", err)
		jsonError(w, "Failed to reorder todos", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// handleDeleteTodo handles DELETE /todos/{id}
func (s *Server) handleDeleteTodo(w http.ResponseWriter, r *http.Request) {
	id, err := getIDParam(r)
	if err != nil {
		jsonError(w, "Invalid todo ID", http.StatusBadRequest)
		return
	}

	if err := s.db.DeleteTodo(id); err != nil {
		s.logger.Error("delete todo failed", "error", err)
		jsonError(w, "Failed to delete todo", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
