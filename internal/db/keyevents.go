package db

import (
	"database/sql"
	"fmt"
	"time"
)

// KeyEvent is a bookmarked calendar event. The original wall-clock
// labels are kept alongside the normalized start instant so the
// bookmark survives upstream feed changes.
type KeyEvent struct {
	ID              int64
	Title           string
	DateLabel       string
	TimeLabel       string
	StartAt         LocalTime
	DurationMinutes int
	AllDay          bool
	CreatedAt       LocalTime
}

// CreateKeyEvent bookmarks an event.
func (db *DB) CreateKeyEvent(e *KeyEvent) error {
	result, err := db.Exec(`
		INSERT INTO key_events (title, date_label, time_label, start_at, duration_minutes, all_day)
		VALUES (?, ?, ?, ?, ?, ?)
	`, e.Title, e.DateLabel, e.TimeLabel, e.StartAt, e.DurationMinutes, e.AllDay)
	if err != nil {
		return fmt.Errorf("insert key event: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("get last insert id: %w", err)
	}
	e.ID = id
	db.notify(KindKeyEvent, ActionCreated, id)
	return nil
}

// GetKeyEvent retrieves a bookmark by ID. Returns nil if not found.
func (db *DB) GetKeyEvent(id int64) (*KeyEvent, error) {
	e := &KeyEvent{}
	err := db.QueryRow(`
		SELECT id, title, date_label, time_label, start_at, duration_minutes, all_day, created_at
		FROM key_events WHERE id = ?
	`, id).Scan(&e.ID, &e.Title, &e.DateLabel, &e.TimeLabel, &e.StartAt,
		&e.DurationMinutes, &e.AllDay, &e.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query key event: %w", err)
	}
	return e, nil
}

// ListKeyEventsOptions filters ListKeyEvents.
type ListKeyEventsOptions struct {
	// After limits results to events starting at or after this instant.
	After *time.Time
}

// ListKeyEvents returns bookmarks ordered by start time.
func (db *DB) ListKeyEvents(opts ListKeyEventsOptions) ([]*KeyEvent, error) {
	query := `
		SELECT id, title, date_label, time_label, start_at, duration_minutes, all_day, created_at
		FROM key_events`
	var args []interface{}
	if opts.After != nil {
		query += ` WHERE start_at >= ?`
		args = append(args, NewLocalTime(*opts.After))
	}
	query += ` ORDER BY start_at ASC, id ASC`

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query key events: %w", err)
	}
	defer rows.Close()

	var events []*KeyEvent
	for rows.Next() {
		e := &KeyEvent{}
		if err := rows.Scan(&e.ID, &e.Title, &e.DateLabel, &e.TimeLabel, &e.StartAt,
			&e.DurationMinutes, &e.AllDay, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan key event: %w", err)
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

// UpdateKeyEvent updates a bookmark.
func (db *DB) UpdateKeyEvent(e *KeyEvent) error {
	_, err := db.Exec(`
		UPDATE key_events
		SET title = ?, date_label = ?, time_label = ?, start_at = ?, duration_minutes = ?, all_day = ?
		WHERE id = ?
	`, e.Title, e.DateLabel, e.TimeLabel, e.StartAt, e.DurationMinutes, e.AllDay, e.ID)
	if err != nil {
		return fmt.Errorf("update key event: %w", err)
	}
	db.notify(KindKeyEvent, ActionUpdated, e.ID)
	return nil
}

// DeleteKeyEvent removes a bookmark.
func (db *DB) DeleteKeyEvent(id int64) error {
	_, err := db.Exec(`DELETE FROM key_events WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete key event: %w", err)
	}
	db.notify(KindKeyEvent, ActionDeleted, id)
	return nil
}
