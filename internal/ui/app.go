package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"dayboard/internal/agenda"
	"dayboard/internal/db"
	"dayboard/internal/holiday"
	"dayboard/internal/timeutil"
)

// Pane identifies the focused dashboard pane.
type Pane int

const (
	PaneAgenda Pane = iota
	PaneTodos
	PaneHorizons
)

// KeyMap defines key bindings.
type KeyMap struct {
	Up       key.Binding
	Down     key.Binding
	NextPane key.Binding
	Enter    key.Binding
	Toggle   key.Binding
	New      key.Binding
	Delete   key.Binding
	Refresh  key.Binding
	Back     key.Binding
	Help     key.Binding
	Quit     key.Binding
}

// ShortHelp returns key bindings to show in the mini help.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.NextPane, k.Toggle, k.New, k.Refresh, k.Quit}
}

// FullHelp returns keybindings for the expanded help view.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.NextPane},
		{k.Enter, k.Toggle, k.New, k.Delete},
		{k.Refresh, k.Back, k.Help, k.Quit},
	}
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		NextPane: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next pane"),
		),
		Enter: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "open"),
		),
		Toggle: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "toggle"),
		),
		New: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "new todo"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// tickMsg fires once a minute so relative labels stay current.
type tickMsg time.Time

// agendaMsg carries the refreshed agenda.
type agendaMsg struct {
	events []agenda.Event
	err    error
}

// dataMsg carries the dashboard's database-backed lists.
type dataMsg struct {
	todos      []*db.Todo
	horizons   []*db.Horizon
	countdowns []holiday.Countdown
	err        error
}

// Model is the dashboard model.
type Model struct {
	db     *db.DB
	agenda *agenda.Service

	width  int
	height int
	now    time.Time

	pane    Pane
	cursors map[Pane]int

	events     []agenda.Event
	agendaErr  error
	loading    bool
	spinner    spinner.Model
	todos      []*db.Todo
	horizons   []*db.Horizon
	countdowns []holiday.Countdown

	keys KeyMap
	help help.Model

	addForm  *huh.Form
	addTitle string
	addDue   string
	adding   bool

	detail     string
	showDetail bool

	err error
}

// NewModel creates the dashboard model.
func NewModel(database *db.DB, svc *agenda.Service) *Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(ColorSecondary)

	return &Model{
		db:      database,
		agenda:  svc,
		now:     time.Now(),
		cursors: map[Pane]int{},
		loading: true,
		spinner: s,
		keys:    DefaultKeyMap(),
		help:    help.New(),
	}
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(
		m.loadAgendaCmd(false),
		m.loadDataCmd(),
		m.spinner.Tick,
		tickCmd(),
	)
}

// tickCmd schedules the next minute tick.
func tickCmd() tea.Cmd {
	return tea.Tick(time.Minute, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m *Model) loadAgendaCmd(force bool) tea.Cmd {
	svc := m.agenda
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		var events []agenda.Event
		var err error
		if force {
			events, err = svc.Refresh(ctx)
		} else {
			events, err = svc.Events(ctx)
		}
		return agendaMsg{events: events, err: err}
	}
}

func (m *Model) loadDataCmd() tea.Cmd {
	database := m.db
	return func() tea.Msg {
		todos, err := database.ListTodos(db.ListTodosOptions{})
		if err != nil {
			return dataMsg{err: err}
		}
		horizons, err := database.UpcomingHorizons(time.Now())
		if err != nil {
			return dataMsg{err: err}
		}
		holidays, err := database.UpcomingHolidays(time.Now())
		if err != nil {
			return dataMsg{err: err}
		}
		return dataMsg{
			todos:      todos,
			horizons:   horizons,
			countdowns: holiday.BuildCountdowns(holidays, time.Now()),
		}
	}
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case tickMsg:
		m.now = time.Time(msg)
		return m, tickCmd()

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case agendaMsg:
		m.loading = false
		m.events = msg.events
		m.agendaErr = msg.err
		m.clampCursor(PaneAgenda)
		return m, nil

	case dataMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.todos = msg.todos
		m.horizons = msg.horizons
		m.countdowns = msg.countdowns
		m.clampCursor(PaneTodos)
		m.clampCursor(PaneHorizons)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	if m.adding && m.addForm != nil {
		form, cmd := m.addForm.Update(msg)
		if f, ok := form.(*huh.Form); ok {
			m.addForm = f
		}
		return m, cmd
	}

	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.adding {
		return m.handleFormKey(msg)
	}

	if m.showDetail {
		if key.Matches(msg, m.keys.Back) || key.Matches(msg, m.keys.Quit) {
			m.showDetail = false
			m.detail = ""
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil

	case key.Matches(msg, m.keys.NextPane):
		m.pane = (m.pane + 1) % 3
		return m, nil

	case key.Matches(msg, m.keys.Up):
		m.moveCursor(-1)
		return m, nil

	case key.Matches(msg, m.keys.Down):
		m.moveCursor(1)
		return m, nil

	case key.Matches(msg, m.keys.Refresh):
		m.loading = true
		return m, tea.Batch(m.loadAgendaCmd(true), m.loadDataCmd(), m.spinner.Tick)

	case key.Matches(msg, m.keys.New):
		return m.openAddForm()

	case key.Matches(msg, m.keys.Toggle):
		if m.pane == PaneTodos {
			return m.toggleSelectedTodo()
		}
		return m, nil

	case key.Matches(msg, m.keys.Delete):
		if m.pane == PaneTodos {
			return m.deleteSelectedTodo()
		}
		return m, nil

	case key.Matches(msg, m.keys.Enter):
		if m.pane == PaneHorizons {
			return m.openHorizonDetail()
		}
		return m, nil
	}

	return m, nil
}

func (m *Model) handleFormKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Back) {
		m.adding = false
		m.addForm = nil
		return m, nil
	}

	form, cmd := m.addForm.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.addForm = f
	}

	if m.addForm.State == huh.StateCompleted {
		m.adding = false
		title := strings.TrimSpace(m.addTitle)
		if title == "" {
			return m, nil
		}

		todo := &db.Todo{Title: title}
		if due := strings.TrimSpace(m.addDue); due != "" {
			if t, err := time.ParseInLocation("2006-01-02 15:04", due, time.Local); err == nil {
				lt := db.NewLocalTime(t)
				todo.Due = &lt
			}
		}

		if err := m.db.CreateTodo(todo); err != nil {
			m.err = err
			return m, nil
		}
		return m, m.loadDataCmd()
	}

	if m.addForm.State == huh.StateAborted {
		m.adding = false
		m.addForm = nil
		return m, nil
	}

	return m, cmd
}

func (m *Model) openAddForm() (tea.Model, tea.Cmd) {
	m.addTitle = ""
	m.addDue = ""
	m.addForm = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("title").
				Title("New todo").
				Placeholder("What needs doing?").
				Value(&m.addTitle),
			huh.NewInput().
				Key("due").
				Title("Due (optional)").
				Placeholder("2026-03-15 16:30").
				Value(&m.addDue),
		),
	).WithTheme(huh.ThemeDracula()).
		WithWidth(min(60, m.width-4)).
		WithShowHelp(true)
	m.adding = true
	return m, m.addForm.Init()
}

func (m *Model) toggleSelectedTodo() (tea.Model, tea.Cmd) {
	if len(m.todos) == 0 {
		return m, nil
	}
	todo := m.todos[m.cursors[PaneTodos]]
	if _, err := m.db.ToggleTodo(todo.ID); err != nil {
		m.err = err
		return m, nil
	}
	return m, m.loadDataCmd()
}

func (m *Model) deleteSelectedTodo() (tea.Model, tea.Cmd) {
	if len(m.todos) == 0 {
		return m, nil
	}
	todo := m.todos[m.cursors[PaneTodos]]
	if err := m.db.DeleteTodo(todo.ID); err != nil {
		m.err = err
		return m, nil
	}
	return m, m.loadDataCmd()
}

func (m *Model) openHorizonDetail() (tea.Model, tea.Cmd) {
	if len(m.horizons) == 0 {
		return m, nil
	}
	h := m.horizons[m.cursors[PaneHorizons]]

	body := fmt.Sprintf("# %s\n\n%s\n", h.Title, h.Notes)
	rendered, err := glamour.Render(body, "dark")
	if err != nil {
		rendered = body
	}

	rel := timeutil.FormatRelative(h.TargetAt.Time, m.now)
	m.detail = rendered + "\n" + Dim.Render(rel)
	m.showDetail = true
	return m, nil
}

func (m *Model) moveCursor(delta int) {
	c := m.cursors[m.pane] + delta
	if c < 0 {
		c = 0
	}
	if max := m.paneLen(m.pane) - 1; c > max {
		c = max
	}
	if c < 0 {
		c = 0
	}
	m.cursors[m.pane] = c
}

func (m *Model) clampCursor(p Pane) {
	if m.cursors[p] >= m.paneLen(p) {
		m.cursors[p] = 0
	}
}

func (m *Model) paneLen(p Pane) int {
	switch p {
	case PaneAgenda:
		return len(m.events)
	case PaneTodos:
		return len(m.todos)
	case PaneHorizons:
		return len(m.horizons)
	}
	return 0
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
