package db

import (
	"database/sql"
	"fmt"
	"time"
)

// Todo represents a todo-list item.
type Todo struct {
	ID          int64
	Title       string
	Notes       string
	Done        bool
	Due         *LocalTime // nil when no deadline is set
	Position    int
	CreatedAt   LocalTime
	UpdatedAt   LocalTime
	CompletedAt *LocalTime
}

// CreateTodo inserts a todo at the end of the list.
func (db *DB) CreateTodo(t *Todo) error {
	result, err := db.Exec(`
		INSERT INTO todos (title, notes, done, due, position)
		VALUES (?, ?, ?, ?, (SELECT COALESCE(MAX(position), 0) + 1 FROM todos))
	`, t.Title, t.Notes, t.Done, t.Due)
	if err != nil {
		return fmt.Errorf("insert todo: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("get last insert id: %w", err)
	}
	t.ID = id

	created, err := db.GetTodo(id)
	if err == nil && created != nil {
		*t = *created
	}
	db.notify(KindTodo, ActionCreated, id)
	return nil
}

// GetTodo retrieves a todo by ID. Returns nil if not found.
func (db *DB) GetTodo(id int64) (*Todo, error) {
	t := &Todo{}
	err := db.QueryRow(`
		SELECT id, title, notes, done, due, position, created_at, updated_at, completed_at
		FROM todos WHERE id = ?
	`, id).Scan(&t.ID, &t.Title, &t.Notes, &t.Done, &t.Due, &t.Position,
		&t.CreatedAt, &t.UpdatedAt, &t.CompletedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query todo: %w", err)
	}
	return t, nil
}

// ListTodosOptions filters ListTodos.
type ListTodosOptions struct {
	IncludeDone bool
}

// ListTodos returns todos ordered by position.
func (db *DB) ListTodos(opts ListTodosOptions) ([]*Todo, error) {
	query := `
		SELECT id, title, notes, done, due, position, created_at, updated_at, completed_at
		FROM todos`
	if !opts.IncludeDone {
		query += ` WHERE done = 0`
	}
	query += ` ORDER BY position ASC, id ASC`

	rows, err := db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("query todos: %w", err)
	}
	defer rows.Close()

	var todos []*Todo
	for rows.Next() {
		t := &Todo{}
		if err := rows.Scan(&t.ID, &t.Title, &t.Notes, &t.Done, &t.Due, &t.Position,
			&t.CreatedAt, &t.UpdatedAt, &t.CompletedAt); err != nil {
			return nil, fmt.Errorf("scan todo: %w", err)
		}
		todos = append(todos, t)
	}
	return todos, rows.Err()
}

// UpdateTodo updates title, notes and due date.
func (db *DB) UpdateTodo(t *Todo) error {
	_, err := db.Exec(`
		UPDATE todos SET title = ?, notes = ?, due = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, t.Title, t.Notes, t.Due, t.ID)
	if err != nil {
		return fmt.Errorf("update todo: %w", err)
	}
	db.notify(KindTodo, ActionUpdated, t.ID)
	return nil
}

// ToggleTodo flips the done flag, stamping or clearing completed_at.
func (db *DB) ToggleTodo(id int64) (*Todo, error) {
	t, err := db.GetTodo(id)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, nil
	}

	if t.Done {
		_, err = db.Exec(`
			UPDATE todos SET done = 0, completed_at = NULL, updated_at = CURRENT_TIMESTAMP
			WHERE id = ?
		`, id)
	} else {
		_, err = db.Exec(`
			UPDATE todos SET done = 1, completed_at = ?, updated_at = CURRENT_TIMESTAMP
			WHERE id = ?
		`, NewLocalTime(time.Now()), id)
	}
	if err != nil {
		return nil, fmt.Errorf("toggle todo: %w", err)
	}

	db.notify(KindTodo, ActionUpdated, id)
	return db.GetTodo(id)
}

// ReorderTodos assigns positions following the given ID order. IDs not
// listed keep their relative order after the listed ones.
func (db *DB) ReorderTodos(ids []int64) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin reorder: %w", err)
	}
	defer tx.Rollback()

	for i, id := range ids {
		if _, err := tx.Exec(`UPDATE todos SET position = ? WHERE id = ?`, i+1, id); err != nil {
			return fmt.Errorf("reorder todo %d: %w", id, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit reorder: %w", err)
	}

	db.notify(KindTodo, ActionUpdated, 0)
	return nil
}

// DeleteTodo removes a todo.
func (db *DB) DeleteTodo(id int64) error {
	_, err := db.Exec(`DELETE FROM todos WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete todo: %w", err)
	}
	db.notify(KindTodo, ActionDeleted, id)
	return nil
}
