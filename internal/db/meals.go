package db

import (
	"database/sql"
	"fmt"
	"time"
)

// MealSlot is one weekday's planned meal in a given week. Weekday
// follows time.Weekday numbering (Sunday = 0).
type MealSlot struct {
	ID        int64
	WeekStart LocalTime
	Weekday   int
	Meal      string
	Notes     string
}

// Ingredient is a shopping-list line for a given week.
type Ingredient struct {
	ID        int64
	WeekStart LocalTime
	Name      string
	Quantity  string
	Checked   bool
}

// WeekStart truncates t to the Monday of its week at local midnight,
// the canonical key for meal plans.
func WeekStart(t time.Time) time.Time {
	t = t.Local()
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.Local)
	offset := (int(day.Weekday()) + 6) % 7 // Monday=0 ... Sunday=6
	return day.AddDate(0, 0, -offset)
}

// SetMealSlot upserts the meal for a weekday in a week.
func (db *DB) SetMealSlot(s *MealSlot) error {
	if s.Weekday < 0 || s.Weekday > 6 {
		return fmt.Errorf("set meal slot: weekday %d out of range", s.Weekday)
	}
	result, err := db.Exec(`
		INSERT INTO meal_slots (week_start, weekday, meal, notes)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(week_start, weekday) DO UPDATE SET meal = excluded.meal, notes = excluded.notes
	`, s.WeekStart, s.Weekday, s.Meal, s.Notes)
	if err != nil {
		return fmt.Errorf("upsert meal slot: %w", err)
	}
	if id, err := result.LastInsertId(); err == nil && id > 0 {
		s.ID = id
	}
	db.notify(KindMealSlot, ActionUpdated, s.ID)
	return nil
}

// ListMealSlots returns the planned meals for a week, ordered by weekday.
func (db *DB) ListMealSlots(weekStart time.Time) ([]*MealSlot, error) {
	rows, err := db.Query(`
		SELECT id, week_start, weekday, meal, notes
		FROM meal_slots WHERE week_start = ? ORDER BY weekday ASC
	`, NewLocalTime(weekStart))
	if err != nil {
		return nil, fmt.Errorf("query meal slots: %w", err)
	}
	defer rows.Close()

	var slots []*MealSlot
	for rows.Next() {
		s := &MealSlot{}
		if err := rows.Scan(&s.ID, &s.WeekStart, &s.Weekday, &s.Meal, &s.Notes); err != nil {
			return nil, fmt.Errorf("scan meal slot: %w", err)
		}
		slots = append(slots, s)
	}
	return slots, rows.Err()
}

// ClearMealSlot removes the meal for a weekday in a week.
func (db *DB) ClearMealSlot(weekStart time.Time, weekday int) error {
	_, err := db.Exec(`
		DELETE FROM meal_slots WHERE week_start = ? AND weekday = ?
	`, NewLocalTime(weekStart), weekday)
	if err != nil {
		return fmt.Errorf("clear meal slot: %w", err)
	}
	db.notify(KindMealSlot, ActionDeleted, 0)
	return nil
}

// CreateIngredient adds a shopping-list line.
func (db *DB) CreateIngredient(ing *Ingredient) error {
	result, err := db.Exec(`
		INSERT INTO ingredients (week_start, name, quantity, checked)
		VALUES (?, ?, ?, ?)
	`, ing.WeekStart, ing.Name, ing.Quantity, ing.Checked)
	if err != nil {
		return fmt.Errorf("insert ingredient: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("get last insert id: %w", err)
	}
	ing.ID = id
	db.notify(KindIngredient, ActionCreated, id)
	return nil
}

// ListIngredients returns the shopping list for a week.
func (db *DB) ListIngredients(weekStart time.Time) ([]*Ingredient, error) {
	rows, err := db.Query(`
		SELECT id, week_start, name, quantity, checked
		FROM ingredients WHERE week_start = ? ORDER BY id ASC
	`, NewLocalTime(weekStart))
	if err != nil {
		return nil, fmt.Errorf("query ingredients: %w", err)
	}
	defer rows.Close()

	var ingredients []*Ingredient
	for rows.Next() {
		ing := &Ingredient{}
		if err := rows.Scan(&ing.ID, &ing.WeekStart, &ing.Name, &ing.Quantity, &ing.Checked); err != nil {
			return nil, fmt.Errorf("scan ingredient: %w", err)
		}
		ingredients = append(ingredients, ing)
	}
	return ingredients, rows.Err()
}

// CheckIngredient flips the checked flag and returns the updated row.
func (db *DB) CheckIngredient(id int64) (*Ingredient, error) {
	_, err := db.Exec(`UPDATE ingredients SET checked = NOT checked WHERE id = ?`, id)
	if err != nil {
		return nil, fmt.Errorf("check ingredient: %w", err)
	}

	ing := &Ingredient{}
	err = db.QueryRow(`
		SELECT id, week_start, name, quantity, checked FROM ingredients WHERE id = ?
	`, id).Scan(&ing.ID, &ing.WeekStart, &ing.Name, &ing.Quantity, &ing.Checked)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query ingredient: %w", err)
	}

	db.notify(KindIngredient, ActionUpdated, id)
	return ing, nil
}

// DeleteIngredient removes a shopping-list line.
func (db *DB) DeleteIngredient(id int64) error {
	_, err := db.Exec(`DELETE FROM ingredients WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete ingredient: %w", err)
	}
	db.notify(KindIngredient, ActionDeleted, id)
	return nil
}
