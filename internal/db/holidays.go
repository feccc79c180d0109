package db

import (
	"database/sql"
	"fmt"
	"time"
)

// Holiday is a holiday or planned vacation on the planner. Vacations
// may span a range; single-day holidays leave EndsOn nil.
type Holiday struct {
	ID        int64
	Name      string
	Kind      string // KindHolidayDay or KindVacation
	StartsOn  LocalTime
	EndsOn    *LocalTime
	Notes     string
	CreatedAt LocalTime
}

// Holiday kinds
const (
	KindHolidayDay = "holiday"
	KindVacation   = "vacation"
)

// CreateHoliday inserts a holiday or vacation.
func (db *DB) CreateHoliday(h *Holiday) error {
	if h.Kind == "" {
		h.Kind = KindHolidayDay
	}
	result, err := db.Exec(`
		INSERT INTO holidays (name, kind, starts_on, ends_on, notes)
		VALUES (?, ?, ?, ?, ?)
	`, h.Name, h.Kind, h.StartsOn, h.EndsOn, h.Notes)
	if err != nil {
		return fmt.Errorf("insert holiday: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("get last insert id: %w", err)
	}
	h.ID = id
	db.notify(KindHoliday, ActionCreated, id)
	return nil
}

// GetHoliday retrieves a holiday by ID. Returns nil if not found.
func (db *DB) GetHoliday(id int64) (*Holiday, error) {
	h := &Holiday{}
	err := db.QueryRow(`
		SELECT id, name, kind, starts_on, ends_on, notes, created_at
		FROM holidays WHERE id = ?
	`, id).Scan(&h.ID, &h.Name, &h.Kind, &h.StartsOn, &h.EndsOn, &h.Notes, &h.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query holiday: %w", err)
	}
	return h, nil
}

// ListHolidays returns all holidays ordered by start date.
func (db *DB) ListHolidays() ([]*Holiday, error) {
	rows, err := db.Query(`
		SELECT id, name, kind, starts_on, ends_on, notes, created_at
		FROM holidays ORDER BY starts_on ASC, id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query holidays: %w", err)
	}
	defer rows.Close()

	var holidays []*Holiday
	for rows.Next() {
		h := &Holiday{}
		if err := rows.Scan(&h.ID, &h.Name, &h.Kind, &h.StartsOn, &h.EndsOn,
			&h.Notes, &h.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan holiday: %w", err)
		}
		holidays = append(holidays, h)
	}
	return holidays, rows.Err()
}

// UpcomingHolidays returns holidays that end (or start, when single-day)
// on or after now.
func (db *DB) UpcomingHolidays(now time.Time) ([]*Holiday, error) {
	rows, err := db.Query(`
		SELECT id, name, kind, starts_on, ends_on, notes, created_at
		FROM holidays
		WHERE COALESCE(ends_on, starts_on) >= ?
		ORDER BY starts_on ASC, id ASC
	`, NewLocalTime(now))
	if err != nil {
		return nil, fmt.Errorf("query upcoming holidays: %w", err)
	}
	defer rows.Close()

	var holidays []*Holiday
	for rows.Next() {
		h := &Holiday{}
		if err := rows.Scan(&h.ID, &h.Name, &h.Kind, &h.StartsOn, &h.EndsOn,
			&h.Notes, &h.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan holiday: %w", err)
		}
		holidays = append(holidays, h)
	}
	return holidays, rows.Err()
}

// UpdateHoliday updates a holiday.
func (db *DB) UpdateHoliday(h *Holiday) error {
	_, err := db.Exec(`
		UPDATE holidays SET name = ?, kind = ?, starts_on = ?, ends_on = ?, notes = ?
		WHERE id = ?
	`, h.Name, h.Kind, h.StartsOn, h.EndsOn, h.Notes, h.ID)
	if err != nil {
		return fmt.Errorf("update holiday: %w", err)
	}
	db.notify(KindHoliday, ActionUpdated, h.ID)
	return nil
}

// DeleteHoliday removes a holiday.
func (db *DB) DeleteHoliday(id int64) error {
	_, err := db.Exec(`DELETE FROM holidays WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete holiday: %w", err)
	}
	db.notify(KindHoliday, ActionDeleted, id)
	return nil
}
