package db

import (
	"path/filepath"
	"testing"
	"time"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := Open(dbPath)
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestTodoLifecycle(t *testing.T) {
	db := openTestDB(t)

	due := NewLocalTime(time.Now().Add(2 * time.Hour))
	todo := &Todo{Title: "Water the plants", Notes: "back porch too", Due: &due}
	if err := db.CreateTodo(todo); err != nil {
		t.Fatalf("failed to create todo: %v", err)
	}
	if todo.ID == 0 {
		t.Fatal("expected todo ID to be set")
	}

	got, err := db.GetTodo(todo.ID)
	if err != nil {
		t.Fatalf("failed to get todo: %v", err)
	}
	if got.Title != "Water the plants" {
		t.Errorf("expected title 'Water the plants', got %q", got.Title)
	}
	if got.Due == nil {
		t.Fatal("expected due to round-trip")
	}

	// Toggle done
	toggled, err := db.ToggleTodo(todo.ID)
	if err != nil {
		t.Fatalf("failed to toggle todo: %v", err)
	}
	if !toggled.Done {
		t.Error("expected todo to be done after toggle")
	}
	if toggled.CompletedAt == nil {
		t.Error("expected completed_at to be stamped")
	}

	// Done todos are hidden by default
	open, err := db.ListTodos(ListTodosOptions{})
	if err != nil {
		t.Fatalf("failed to list todos: %v", err)
	}
	if len(open) != 0 {
		t.Errorf("expected no open todos, got %d", len(open))
	}
	all, err := db.ListTodos(ListTodosOptions{IncludeDone: true})
	if err != nil {
		t.Fatalf("failed to list all todos: %v", err)
	}
	if len(all) != 1 {
		t.Errorf("expected 1 todo, got %d", len(all))
	}

	// Toggle back clears completed_at
	toggled, err = db.ToggleTodo(todo.ID)
	if err != nil {
		t.Fatalf("failed to toggle todo back: %v", err)
	}
	if toggled.Done || toggled.CompletedAt != nil {
		t.Error("expected toggle back to clear done and completed_at")
	}

	if err := db.DeleteTodo(todo.ID); err != nil {
		t.Fatalf("failed to delete todo: %v", err)
	}
	gone, err := db.GetTodo(todo.ID)
	if err != nil {
		t.Fatalf("failed to get deleted todo: %v", err)
	}
	if gone != nil {
		t.Error("expected deleted todo to be gone")
	}
}

func TestTodoReorder(t *testing.T) {
	db := openTestDB(t)

	var ids []int64
	for _, title := range []string{"first", "second", "third"} {
		todo := &Todo{Title: title}
		if err := db.CreateTodo(todo); err != nil {
			t.Fatalf("failed to create todo: %v", err)
		}
		ids = append(ids, todo.ID)
	}

	// Reverse the order
	if err := db.ReorderTodos([]int64{ids[2], ids[1], ids[0]}); err != nil {
		t.Fatalf("failed to reorder: %v", err)
	}

	todos, err := db.ListTodos(ListTodosOptions{})
	if err != nil {
		t.Fatalf("failed to list todos: %v", err)
	}
	if todos[0].Title != "third" || todos[2].Title != "first" {
		t.Errorf("expected reversed order, got %q..%q", todos[0].Title, todos[2].Title)
	}
}

func TestHorizonReorderAndUpcoming(t *testing.T) {
	db := openTestDB(t)

	now := time.Now()
	past := &Horizon{Title: "shipped", TargetAt: NewLocalTime(now.Add(-24 * time.Hour))}
	near := &Horizon{Title: "launch", TargetAt: NewLocalTime(now.Add(48 * time.Hour))}
	far := &Horizon{Title: "move", TargetAt: NewLocalTime(now.Add(30 * 24 * time.Hour))}
	for _, h := range []*Horizon{past, far, near} {
		if err := db.CreateHorizon(h); err != nil {
			t.Fatalf("failed to create horizon: %v", err)
		}
	}

	upcoming, err := db.UpcomingHorizons(now)
	if err != nil {
		t.Fatalf("failed to list upcoming horizons: %v", err)
	}
	if len(upcoming) != 2 {
		t.Fatalf("expected 2 upcoming horizons, got %d", len(upcoming))
	}
	if upcoming[0].Title != "launch" {
		t.Errorf("expected nearest first, got %q", upcoming[0].Title)
	}

	if err := db.ReorderHorizons([]int64{far.ID, near.ID, past.ID}); err != nil {
		t.Fatalf("failed to reorder horizons: %v", err)
	}
	all, err := db.ListHorizons()
	if err != nil {
		t.Fatalf("failed to list horizons: %v", err)
	}
	if all[0].Title != "move" {
		t.Errorf("expected 'move' first after reorder, got %q", all[0].Title)
	}
}

func TestKeyEventRoundTrip(t *testing.T) {
	db := openTestDB(t)

	start := time.Date(2025, time.September, 28, 12, 30, 0, 0, time.UTC)
	ev := &KeyEvent{
		Title:           "Flight home",
		DateLabel:       "Sep 28",
		TimeLabel:       "4:30 AM",
		StartAt:         NewLocalTime(start),
		DurationMinutes: 90,
	}
	if err := db.CreateKeyEvent(ev); err != nil {
		t.Fatalf("failed to create key event: %v", err)
	}

	got, err := db.GetKeyEvent(ev.ID)
	if err != nil {
		t.Fatalf("failed to get key event: %v", err)
	}
	if !got.StartAt.Equal(start) {
		t.Errorf("expected start %v, got %v", start, got.StartAt.Time)
	}
	if got.DateLabel != "Sep 28" || got.TimeLabel != "4:30 AM" {
		t.Errorf("expected source labels to round-trip, got %q %q", got.DateLabel, got.TimeLabel)
	}

	after := start.Add(time.Hour)
	filtered, err := db.ListKeyEvents(ListKeyEventsOptions{After: &after})
	if err != nil {
		t.Fatalf("failed to list key events: %v", err)
	}
	if len(filtered) != 0 {
		t.Errorf("expected event before cutoff to be filtered, got %d", len(filtered))
	}
}

func TestHolidaysUpcoming(t *testing.T) {
	db := openTestDB(t)

	now := time.Now()
	old := &Holiday{Name: "Last spring break", StartsOn: NewLocalTime(now.AddDate(0, -6, 0))}
	soon := &Holiday{Name: "Long weekend", StartsOn: NewLocalTime(now.AddDate(0, 0, 10))}
	ends := NewLocalTime(now.AddDate(0, 0, 3))
	running := &Holiday{
		Name:     "Staycation",
		Kind:     KindVacation,
		StartsOn: NewLocalTime(now.AddDate(0, 0, -2)),
		EndsOn:   &ends,
	}
	for _, h := range []*Holiday{old, soon, running} {
		if err := db.CreateHoliday(h); err != nil {
			t.Fatalf("failed to create holiday: %v", err)
		}
	}

	upcoming, err := db.UpcomingHolidays(now)
	if err != nil {
		t.Fatalf("failed to list upcoming holidays: %v", err)
	}
	// The running vacation still counts because its end is ahead.
	if len(upcoming) != 2 {
		t.Fatalf("expected 2 upcoming holidays, got %d", len(upcoming))
	}
	if upcoming[0].Name != "Staycation" {
		t.Errorf("expected running vacation first, got %q", upcoming[0].Name)
	}
}

func TestMealPlanWeek(t *testing.T) {
	db := openTestDB(t)

	week := WeekStart(time.Date(2025, time.September, 24, 15, 0, 0, 0, time.Local)) // a Wednesday
	if week.Weekday() != time.Monday {
		t.Fatalf("expected week start on Monday, got %v", week.Weekday())
	}

	slot := &MealSlot{WeekStart: NewLocalTime(week), Weekday: 2, Meal: "Chili"}
	if err := db.SetMealSlot(slot); err != nil {
		t.Fatalf("failed to set meal slot: %v", err)
	}
	// Upsert replaces the same slot
	slot2 := &MealSlot{WeekStart: NewLocalTime(week), Weekday: 2, Meal: "Tacos"}
	if err := db.SetMealSlot(slot2); err != nil {
		t.Fatalf("failed to upsert meal slot: %v", err)
	}

	slots, err := db.ListMealSlots(week)
	if err != nil {
		t.Fatalf("failed to list meal slots: %v", err)
	}
	if len(slots) != 1 || slots[0].Meal != "Tacos" {
		t.Fatalf("expected single upserted slot 'Tacos', got %+v", slots)
	}

	ing := &Ingredient{WeekStart: NewLocalTime(week), Name: "Tortillas", Quantity: "12"}
	if err := db.CreateIngredient(ing); err != nil {
		t.Fatalf("failed to create ingredient: %v", err)
	}
	checked, err := db.CheckIngredient(ing.ID)
	if err != nil {
		t.Fatalf("failed to check ingredient: %v", err)
	}
	if !checked.Checked {
		t.Error("expected ingredient to be checked")
	}

	if err := db.ClearMealSlot(week, 2); err != nil {
		t.Fatalf("failed to clear meal slot: %v", err)
	}
	slots, err = db.ListMealSlots(week)
	if err != nil {
		t.Fatalf("failed to list meal slots: %v", err)
	}
	if len(slots) != 0 {
		t.Errorf("expected cleared week, got %d slots", len(slots))
	}
}

func TestSettings(t *testing.T) {
	db := openTestDB(t)

	v, err := db.GetSetting("missing")
	if err != nil {
		t.Fatalf("failed to get missing setting: %v", err)
	}
	if v != "" {
		t.Errorf("expected empty value for missing setting, got %q", v)
	}

	if err := db.SetSetting("upstream_url", "http://localhost:9090"); err != nil {
		t.Fatalf("failed to set setting: %v", err)
	}
	if err := db.SetSetting("upstream_url", "http://localhost:9191"); err != nil {
		t.Fatalf("failed to overwrite setting: %v", err)
	}

	v, err = db.GetSetting("upstream_url")
	if err != nil {
		t.Fatalf("failed to get setting: %v", err)
	}
	if v != "http://localhost:9191" {
		t.Errorf("expected overwritten value, got %q", v)
	}
}

type recordingListener struct {
	changes []string
}

func (r *recordingListener) ResourceChanged(kind, action string, id int64) {
	r.changes = append(r.changes, kind+":"+action)
}

func TestChangeListener(t *testing.T) {
	db := openTestDB(t)
	listener := &recordingListener{}
	db.SetChangeListener(listener)

	todo := &Todo{Title: "notify me"}
	if err := db.CreateTodo(todo); err != nil {
		t.Fatalf("failed to create todo: %v", err)
	}
	if err := db.DeleteTodo(todo.ID); err != nil {
		t.Fatalf("failed to delete todo: %v", err)
	}

	if len(listener.changes) != 2 {
		t.Fatalf("expected 2 notifications, got %d", len(listener.changes))
	}
	if listener.changes[0] != "todo:created" || listener.changes[1] != "todo:deleted" {
		t.Errorf("unexpected notifications: %v", listener.changes)
	}
}
