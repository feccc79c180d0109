package webapi

import (
	"net/http"
	"strconv"
	"time"

	"dayboard/internal/db"
)

// MealSlotResponse represents one weekday's planned meal.
type MealSlotResponse struct {
	Weekday int    `json:"weekday"`
	Meal    string `json:"meal"`
	Notes   string `json:"notes,omitempty"`
}

// MealPlanResponse is a full week's plan plus its shopping list.
type MealPlanResponse struct {
	WeekStart   time.Time            `json:"week_start"`
	Slots       []MealSlotResponse   `json:"slots"`
	Ingredients []IngredientResponse `json:"ingredients"`
}

// IngredientResponse represents a shopping-list line.
type IngredientResponse struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Quantity string `json:"quantity,omitempty"`
	Checked  bool   `json:"checked"`
}

// parseWeekParam resolves the {week} path segment: an ISO date (any day
// within the week) or the literal "current".
func parseWeekParam(r *http.Request) (time.Time, error) {
	raw := r.PathValue("week")
	if raw == "current" {
		return db.WeekStart(time.Now()), nil
	}
	day, err := time.ParseInLocation("2006-01-02", raw, time.Local)
	if err != nil {
		return time.Time{}, err
	}
	return db.WeekStart(day), nil
}

// handleGetMealPlan handles GET /mealplan/{week}
func (s *Server) handleGetMealPlan(w http.ResponseWriter, r *http.Request) {
	week, err := parseWeekParam(r)
	if err != nil {
		jsonError(w, "Invalid week", http.StatusBadRequest)
		return
	}

	slots, err := s.db.ListMealSlots(week)
	if err != nil {
		s.logger.Error("list meal slots failed", "error", err)
		jsonError(w, "Failed to list meal plan", http.StatusInternalServerError)
		return
	}
	ingredients, err := s.db.ListIngredients(week)
	if err != nil {
		s.logger.Error("list ingredients failed", "error", err)
		jsonError(w, "Failed to list ingredients", http.StatusInternalServerError)
		return
	}

	resp := MealPlanResponse{
		WeekStart:   week,
		Slots:       make([]MealSlotResponse, len(slots)),
		Ingredients: make([]IngredientResponse, len(ingredients)),
	}
	for i, slot := range slots {
		resp.Slots[i] = MealSlotResponse{Weekday: slot.Weekday, Meal: slot.Meal, Notes: slot.Notes}
	}
	for i, ing := range ingredients {
		resp.Ingredients[i] = IngredientResponse{ID: ing.ID, Name: ing.Name, Quantity: ing.Quantity, Checked: ing.Checked}
	}

	jsonResponse(w, resp, http.StatusOK)
}

// MealSlotRequest sets the meal for one weekday.
type MealSlotRequest struct {
	Meal  string `json:"meal"`
	Notes string `json:"notes"`
}

// handleSetMealSlot handles PUT /mealplan/{week}/{weekday}
func (s *Server) handleSetMealSlot(w http.ResponseWriter, r *http.Request) {
	week, err := parseWeekParam(r)
	if err != nil {
		jsonError(w, "Invalid week", http.StatusBadRequest)
		return
	}
	weekday, err := strconv.Atoi(r.PathValue("weekday"))
	if err != nil || weekday < 0 || weekday > 6 {
		jsonError(w, "Invalid weekday", http.StatusBadRequest)
		return
	}

	var req MealSlotRequest
	if err := parseJSON(r, &req); err != nil {
		jsonError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Meal == "" {
		jsonError(w, "Meal is required", http.StatusBadRequest)
		return
	}

	slot := &db.MealSlot{
		WeekStart: db.NewLocalTime(week),
		Weekday:   weekday,
		Meal:      req.Meal,
		Notes:     req.Notes,
	}
	if err := s.db.SetMealSlot(slot); err != nil {
		s.logger.Error("set meal slot failed", "error", err)
		jsonError(w, "Failed to set meal slot", http.StatusInternalServerError)
		return
	}

	jsonResponse(w, MealSlotResponse{Weekday: weekday, Meal: req.Meal, Notes: req.Notes}, http.StatusOK)
}

// handleClearMealSlot handles DELETE /mealplan/{week}/{weekday}
func (s *Server) handleClearMealSlot(w http.ResponseWriter, r *http.Request) {
	week, err := parseWeekParam(r)
	if err != nil {
		jsonError(w, "Invalid week", http.StatusBadRequest)
		return
	}
	weekday, err := strconv.Atoi(r.PathValue("weekday"))
	if err != nil || weekday < 0 || weekday > 6 {
		jsonError(w, "Invalid weekday", http.StatusBadRequest)
		return
	}

	if err := s.db.ClearMealSlot(week, weekday); err != nil {
		s.logger.Error("clear meal slot failed", "error", err)
		jsonError(w, "Failed to clear meal slot", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// handleListIngredients handles GET /mealplan/{week}/ingredients
func (s *Server) handleListIngredients(w http.ResponseWriter, r *http.Request) {
	week, err := parseWeekParam(r)
	if err != nil {
		jsonError(w, "Invalid week", http.StatusBadRequest)
		return
	}

	ingredients, err := s.db.ListIngredients(week)
	if err != nil {
		s.logger.Error("list ingredients failed", "error", err)
		jsonError(w, "Failed to list ingredients", http.StatusInternalServerError)
		return
	}

	responses := make([]IngredientResponse, len(ingredients))
	for i, ing := range ingredients {
		responses[i] = IngredientResponse{ID: ing.ID, Name: ing.Name, Quantity: ing.Quantity, Checked: ing.Checked}
	}
	jsonResponse(w, responses, http.StatusOK)
}

// IngredientRequest adds a shopping-list line.
type IngredientRequest struct {
	Name     string `json:"name"`
	Quantity string `json:"quantity"`
}

// handleCreateIngredient handles POST /mealplan/{week}/ingredients
func (s *Server) handleCreateIngredient(w http.ResponseWriter, r *http.Request) {
	week, err := parseWeekParam(r)
	if err != nil {
		jsonError(w, "Invalid week", http.StatusBadRequest)
		return
	}

	var req IngredientRequest
	if err := parseJSON(r, &req); err != nil {
		jsonError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Name == "" {
		jsonError(w, "Name is required", http.StatusBadRequest)
		return
	}

	ing := &db.Ingredient{
		WeekStart: db.NewLocalTime(week),
		Name:      req.Name,
		Quantity:  req.Quantity,
	}
	if err := s.db.CreateIngredient(ing); err != nil {
		s.logger.Error("create ingredient failed", "error", err)
		jsonError(w, "Failed to create ingredient", http.StatusInternalServerError)
		return
	}

	jsonResponse(w, IngredientResponse{ID: ing.ID, Name: ing.Name, Quantity: ing.Quantity}, http.StatusCreated)
}

// handleCheckIngredient handles POST /ingredients/{id}/check
func (s *Server) handleCheckIngredient(w http.ResponseWriter, r *http.Request) {
	id, err := getIDParam(r)
	if err != nil {
		jsonError(w, "Invalid ingredient ID", http.StatusBadRequest)
		return
	}

	ing, err := s.db.CheckIngredient(id)
	if err != nil {
		s.logger.Error("check ingredient failed", "error", err)
		jsonError(w, "Failed to check ingredient", http.StatusInternalServerError)
		return
	}
	if ing == nil {
		jsonError(w, "Ingredient not found", http.StatusNotFound)
		return
	}

	jsonResponse(w, IngredientResponse{ID: ing.ID, Name: ing.Name, Quantity: ing.Quantity, Checked: ing.Checked}, http.StatusOK)
}

// handleDeleteIngredient handles DELETE /ingredients/{id}
func (s *Server) handleDeleteIngredient(w http.ResponseWriter, r *http.Request) {
	id, err := getIDParam(r)
	if err != nil {
		jsonError(w, "Invalid ingredient ID", http.StatusBadRequest)
		return
	}

	if err := s.db.DeleteIngredient(id); err != nil {
		s.logger.Error("delete ingredient failed", "error", err)
		jsonError(w, "Failed to delete ingredient", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
