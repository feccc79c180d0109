package db

import (
	"database/sql"
	"fmt"
	"time"
)

// Horizon represents a future milestone on the horizons tracker.
type Horizon struct {
	ID        int64
	Title     string
	Notes     string // markdown, rendered by the UI
	TargetAt  LocalTime
	Position  int
	CreatedAt LocalTime
	UpdatedAt LocalTime
}

// CreateHorizon inserts a horizon at the end of the list.
func (db *DB) CreateHorizon(h *Horizon) error {
	result, err := db.Exec(`
		INSERT INTO horizons (title, notes, target_at, position)
		VALUES (?, ?, ?, (SELECT COALESCE(MAX(position), 0) + 1 FROM horizons))
	`, h.Title, h.Notes, h.TargetAt)
	if err != nil {
		return fmt.Errorf("insert horizon: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("get last insert id: %w", err)
	}
	h.ID = id
	db.notify(KindHorizon, ActionCreated, id)
	return nil
}

// GetHorizon retrieves a horizon by ID. Returns nil if not found.
func (db *DB) GetHorizon(id int64) (*Horizon, error) {
	h := &Horizon{}
	err := db.QueryRow(`
		SELECT id, title, notes, target_at, position, created_at, updated_at
		FROM horizons WHERE id = ?
	`, id).Scan(&h.ID, &h.Title, &h.Notes, &h.TargetAt, &h.Position, &h.CreatedAt, &h.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query horizon: %w", err)
	}
	return h, nil
}

// ListHorizons returns horizons ordered by position.
func (db *DB) ListHorizons() ([]*Horizon, error) {
	rows, err := db.Query(`
		SELECT id, title, notes, target_at, position, created_at, updated_at
		FROM horizons ORDER BY position ASC, id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query horizons: %w", err)
	}
	defer rows.Close()

	var horizons []*Horizon
	for rows.Next() {
		h := &Horizon{}
		if err := rows.Scan(&h.ID, &h.Title, &h.Notes, &h.TargetAt, &h.Position,
			&h.CreatedAt, &h.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan horizon: %w", err)
		}
		horizons = append(horizons, h)
	}
	return horizons, rows.Err()
}

// UpdateHorizon updates title, notes and target date.
func (db *DB) UpdateHorizon(h *Horizon) error {
	_, err := db.Exec(`
		UPDATE horizons SET title = ?, notes = ?, target_at = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, h.Title, h.Notes, h.TargetAt, h.ID)
	if err != nil {
		return fmt.Errorf("update horizon: %w", err)
	}
	db.notify(KindHorizon, ActionUpdated, h.ID)
	return nil
}

// ReorderHorizons assigns positions following the given ID order.
func (db *DB) ReorderHorizons(ids []int64) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin reorder: %w", err)
	}
	defer tx.Rollback()

	for i, id := range ids {
		if _, err := tx.Exec(`UPDATE horizons SET position = ? WHERE id = ?`, i+1, id); err != nil {
			return fmt.Errorf("reorder horizon %d: %w", id, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit reorder: %w", err)
	}

	db.notify(KindHorizon, ActionUpdated, 0)
	return nil
}

// DeleteHorizon removes a horizon.
func (db *DB) DeleteHorizon(id int64) error {
	_, err := db.Exec(`DELETE FROM horizons WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete horizon: %w", err)
	}
	db.notify(KindHorizon, ActionDeleted, id)
	return nil
}

// UpcomingHorizons returns horizons with a target on or after now.
func (db *DB) UpcomingHorizons(now time.Time) ([]*Horizon, error) {
	rows, err := db.Query(`
		SELECT id, title, notes, target_at, position, created_at, updated_at
		FROM horizons WHERE target_at >= ? ORDER BY target_at ASC
	`, NewLocalTime(now))
	if err != nil {
		return nil, fmt.Errorf("query upcoming horizons: %w", err)
	}
	defer rows.Close()

	var horizons []*Horizon
	for rows.Next() {
		h := &Horizon{}
		if err := rows.Scan(&h.ID, &h.Title, &h.Notes, &h.TargetAt, &h.Position,
			&h.CreatedAt, &h.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan horizon: %w", err)
		}
		horizons = append(horizons, h)
	}
	return horizons, rows.Err()
}
