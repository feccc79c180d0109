package ui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"dayboard/internal/agenda"
	"dayboard/internal/db"
	"dayboard/internal/holiday"
	"dayboard/internal/timeutil"
)

func testModel() *Model {
	m := NewModel(nil, nil)
	m.width = 120
	m.height = 40
	m.loading = false
	return m
}

func TestPaneSwitching(t *testing.T) {
	m := testModel()

	if m.pane != PaneAgenda {
		t.Errorf("expected initial pane to be agenda, got %d", m.pane)
	}

	msg := tea.KeyMsg{Type: tea.KeyTab}
	updated, _ := m.Update(msg)
	m = updated.(*Model)
	if m.pane != PaneTodos {
		t.Errorf("expected todos pane after tab, got %d", m.pane)
	}

	updated, _ = m.Update(msg)
	updated, _ = updated.(*Model).Update(msg)
	m = updated.(*Model)
	if m.pane != PaneAgenda {
		t.Errorf("expected wrap back to agenda, got %d", m.pane)
	}
}

func TestCursorClamping(t *testing.T) {
	m := testModel()
	m.pane = PaneTodos
	m.todos = []*db.Todo{{Title: "a"}, {Title: "b"}}

	m.moveCursor(1)
	if m.cursors[PaneTodos] != 1 {
		t.Errorf("expected cursor 1, got %d", m.cursors[PaneTodos])
	}

	m.moveCursor(1)
	if m.cursors[PaneTodos] != 1 {
		t.Errorf("expected cursor clamped at 1, got %d", m.cursors[PaneTodos])
	}

	m.moveCursor(-5)
	if m.cursors[PaneTodos] != 0 {
		t.Errorf("expected cursor clamped at 0, got %d", m.cursors[PaneTodos])
	}
}

func TestTickUpdatesNow(t *testing.T) {
	m := testModel()
	later := time.Now().Add(time.Hour)

	updated, cmd := m.Update(tickMsg(later))
	m = updated.(*Model)
	if !m.now.Equal(later) {
		t.Errorf("expected now updated by tick, got %v", m.now)
	}
	if cmd == nil {
		t.Error("expected tick to reschedule itself")
	}
}

func TestRenderTodoLineShowsDueLabel(t *testing.T) {
	m := testModel()
	m.now = time.Date(2026, time.March, 15, 12, 0, 0, 0, time.UTC)

	due := db.NewLocalTime(m.now.Add(30 * time.Minute))
	line := m.renderTodoLine(&db.Todo{Title: "Pay rent", Due: &due}, false, 60)
	if !strings.Contains(line, "Pay rent") {
		t.Errorf("expected title in line, got %q", line)
	}
	if !strings.Contains(line, "In 30m") {
		t.Errorf("expected relative due label, got %q", line)
	}
}

func TestRenderAgendaLineAllDay(t *testing.T) {
	m := testModel()
	m.now = time.Date(2026, time.March, 15, 8, 0, 0, 0, time.UTC)

	line := m.renderAgendaLine(agenda.Event{
		Title:        "Company holiday",
		StartInstant: m.now.Add(4 * time.Hour),
		AllDay:       true,
	}, false, 60)
	if !strings.Contains(line, timeutil.AllDayLabel) {
		t.Errorf("expected all-day marker, got %q", line)
	}
}

func TestRenderCountdown(t *testing.T) {
	start := time.Date(2026, time.September, 5, 0, 0, 0, 0, time.Local)
	c := holiday.Countdown{
		Holiday:     &db.Holiday{Name: "Labor Day"},
		Span:        holiday.Span{Start: start, Days: 3},
		LongWeekend: true,
		StartsIn:    timeutil.Relative{Label: "In 8 days"},
		Tone:        timeutil.ToneNear,
	}

	out := renderCountdown(c)
	if !strings.Contains(out, "Labor Day") || !strings.Contains(out, "In 8 days") {
		t.Errorf("unexpected countdown render: %q", out)
	}
	if !strings.Contains(out, "3d weekend") {
		t.Errorf("expected long weekend marker, got %q", out)
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 10); got != "short" {
		t.Errorf("expected unchanged, got %q", got)
	}
	if got := truncate("a very long title indeed", 10); len([]rune(got)) != 10 {
		t.Errorf("expected 10 runes, got %d (%q)", len([]rune(got)), got)
	}
}
