package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"dayboard/internal/agenda"
	"dayboard/internal/db"
	"dayboard/internal/holiday"
	"dayboard/internal/timeutil"
)

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 {
		return "loading..."
	}

	if m.adding && m.addForm != nil {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, m.addForm.View())
	}

	if m.showDetail {
		return m.detail + "\n" + HelpBar.Render("esc to go back")
	}

	paneWidth := (m.width - 6) / 3

	agendaPane := m.renderPane("Agenda", PaneAgenda, paneWidth, m.renderAgendaLines(paneWidth))
	todoPane := m.renderPane("Todos", PaneTodos, paneWidth, m.renderTodoLines(paneWidth))
	horizonPane := m.renderPane("Horizons", PaneHorizons, paneWidth, m.renderHorizonLines(paneWidth))

	panes := lipgloss.JoinHorizontal(lipgloss.Top, agendaPane, todoPane, horizonPane)

	var b strings.Builder
	b.WriteString(Title.Render("dayboard"))
	b.WriteString(Dim.Render("  " + m.now.Format("Mon Jan 2 15:04")))
	if m.loading {
		b.WriteString("  " + m.spinner.View())
	}
	b.WriteString("\n")
	b.WriteString(panes)
	b.WriteString("\n")
	b.WriteString(m.renderCountdownStrip())
	if m.err != nil {
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().Foreground(ColorError).Render("error: " + m.err.Error()))
	}
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m *Model) renderPane(title string, p Pane, width int, lines []string) string {
	style := Box
	if m.pane == p {
		style = FocusedBox
	}

	content := Subtitle.Render(title) + "\n"
	if len(lines) == 0 {
		content += Dim.Render("  nothing here")
	} else {
		content += strings.Join(lines, "\n")
	}

	return style.Width(width).Render(content)
}

func (m *Model) renderAgendaLines(width int) []string {
	if m.agendaErr != nil {
		return []string{Dim.Render("  agenda unavailable")}
	}

	lines := make([]string, 0, len(m.events))
	for i, e := range m.events {
		lines = append(lines, m.renderAgendaLine(e, i == m.cursors[PaneAgenda] && m.pane == PaneAgenda, width))
	}
	return lines
}

func (m *Model) renderAgendaLine(e agenda.Event, selected bool, width int) string {
	rel := timeutil.Describe(e.StartInstant, m.now)
	level := timeutil.ClassifyUrgency(e.StartInstant, m.now)

	timeLabel := e.TimeLabel
	if e.AllDay {
		timeLabel = IconAllDay() + " " + timeutil.AllDayLabel
	}

	line := fmt.Sprintf("%s %s %s", timeLabel, truncate(e.Title, width-24), UrgencyStyle(level).Render(rel.Label))
	if selected {
		return SelectedListItem.Render(line)
	}
	return ListItem.Render(line)
}

func (m *Model) renderTodoLines(width int) []string {
	lines := make([]string, 0, len(m.todos))
	for i, t := range m.todos {
		lines = append(lines, m.renderTodoLine(t, i == m.cursors[PaneTodos] && m.pane == PaneTodos, width))
	}
	return lines
}

func (m *Model) renderTodoLine(t *db.Todo, selected bool, width int) string {
	box := IconOpen()
	if t.Done {
		box = IconDone()
	}

	line := fmt.Sprintf("%s %s", box, truncate(t.Title, width-18))
	if t.Due != nil && !t.Due.IsZero() {
		level := timeutil.ClassifyUrgency(t.Due.Time, m.now)
		line += " " + UrgencyStyle(level).Render(timeutil.FormatRelative(t.Due.Time, m.now))
	}

	if selected {
		return SelectedListItem.Render(line)
	}
	return ListItem.Render(line)
}

func (m *Model) renderHorizonLines(width int) []string {
	lines := make([]string, 0, len(m.horizons))
	for i, h := range m.horizons {
		selected := i == m.cursors[PaneHorizons] && m.pane == PaneHorizons
		rel := timeutil.Describe(h.TargetAt.Time, m.now)

		style := Dim
		if !rel.IsPast {
			style = UrgencyStyle(timeutil.ClassifyUrgency(h.TargetAt.Time, m.now))
		}

		line := fmt.Sprintf("%s %s", truncate(h.Title, width-16), style.Render(rel.Label))
		if selected {
			lines = append(lines, SelectedListItem.Render(line))
		} else {
			lines = append(lines, ListItem.Render(line))
		}
	}
	return lines
}

// renderCountdownStrip renders the holiday countdowns as a single line
// across the bottom, colored by how far off each one is.
func (m *Model) renderCountdownStrip() string {
	if len(m.countdowns) == 0 {
		return ""
	}

	parts := make([]string, 0, len(m.countdowns))
	for _, c := range m.countdowns {
		parts = append(parts, renderCountdown(c))
	}
	return " " + strings.Join(parts, Dim.Render("  ·  "))
}

func renderCountdown(c holiday.Countdown) string {
	label := fmt.Sprintf("%s %s", c.Holiday.Name, c.StartsIn.Label)
	if c.LongWeekend {
		label += fmt.Sprintf(" (%dd weekend)", c.Span.Days)
	}
	return ToneStyle(c.Tone).Render(label)
}

// truncate shortens s to at most max runes, appending an ellipsis.
func truncate(s string, max int) string {
	if max < 4 {
		max = 4
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-1]) + "…"
}
