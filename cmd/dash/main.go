// dash is the dashboard CLI: manage todos, inspect the agenda and
// holiday countdowns, seed demo data, and run the servers in the
// foreground.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"dayboard/internal/agenda"
	"dayboard/internal/config"
	"dayboard/internal/db"
	"dayboard/internal/holiday"
	"dayboard/internal/timeutil"
	"dayboard/internal/ui"
)

var version = "dev"

func main() {
	logger := log.NewWithOptions(os.Stderr, log.Options{Prefix: "dash"})

	var configPath string

	rootCmd := &cobra.Command{
		Use:     "dash",
		Short:   "Personal dashboard",
		Version: version,
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Help()
		},
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file path")

	loadConfig := func() *config.Config {
		path := configPath
		if path == "" {
			path = config.DefaultPath()
		}
		cfg, err := config.Load(path)
		if err != nil {
			logger.Fatal("Failed to load config", "error", err)
		}
		return cfg
	}

	openDB := func(cfg *config.Config) *db.DB {
		path := cfg.DBPath
		if path == "" {
			home, _ := os.UserHomeDir()
			path = filepath.Join(home, ".local", "share", "dayboard", "dayboard.db")
		}
		database, err := db.Open(path)
		if err != nil {
			logger.Fatal("Failed to open database", "error", err)
		}
		return database
	}

	// todo
	todoCmd := &cobra.Command{
		Use:   "todo",
		Short: "Manage todos",
	}

	var todoAll bool
	todoListCmd := &cobra.Command{
		Use:   "list",
		Short: "List todos",
		Run: func(cmd *cobra.Command, args []string) {
			database := openDB(loadConfig())
			defer database.Close()

			todos, err := database.ListTodos(db.ListTodosOptions{IncludeDone: todoAll})
			if err != nil {
				logger.Fatal("Failed to list todos", "error", err)
			}

			now := time.Now()
			for _, t := range todos {
				box := ui.IconOpen()
				if t.Done {
					box = ui.IconDone()
				}
				line := fmt.Sprintf("%3d %s %s", t.ID, box, t.Title)
				if t.Due != nil && !t.Due.IsZero() {
					level := timeutil.ClassifyUrgency(t.Due.Time, now)
					line += "  " + ui.UrgencyStyle(level).Render(timeutil.FormatRelative(t.Due.Time, now))
				}
				fmt.Println(line)
			}
		},
	}
	todoListCmd.Flags().BoolVarP(&todoAll, "all", "a", false, "Include completed todos")

	var todoDue string
	todoAddCmd := &cobra.Command{
		Use:   "add [title]",
		Short: "Add a todo",
		Run: func(cmd *cobra.Command, args []string) {
			database := openDB(loadConfig())
			defer database.Close()

			title := strings.Join(args, " ")
			due := todoDue

			// No title and a TTY: prompt interactively.
			if title == "" && term.IsTerminal(int(os.Stdin.Fd())) {
				form := huh.NewForm(
					huh.NewGroup(
						huh.NewInput().
							Title("New todo").
							Placeholder("What needs doing?").
							Value(&title),
						huh.NewInput().
							Title("Due (optional)").
							Placeholder("2026-03-15 16:30").
							Value(&due),
					),
				).WithTheme(huh.ThemeDracula())
				if err := form.Run(); err != nil {
					logger.Fatal("Cancelled", "error", err)
				}
			}
			if strings.TrimSpace(title) == "" {
				logger.Fatal("Title is required")
			}

			todo := &db.Todo{Title: strings.TrimSpace(title)}
			if due != "" {
				t, err := time.ParseInLocation("2006-01-02 15:04", due, time.Local)
				if err != nil {
					logger.Fatal("Invalid due time, want YYYY-MM-DD HH:MM", "error", err)
				}
				lt := db.NewLocalTime(t)
				todo.Due = &lt
			}

			if err := database.CreateTodo(todo); err != nil {
				logger.Fatal("Failed to create todo", "error", err)
			}
			fmt.Printf("Created todo #%d\n", todo.ID)
		},
	}
	todoAddCmd.Flags().StringVar(&todoDue, "due", "", "Due time (YYYY-MM-DD HH:MM)")

	todoDoneCmd := &cobra.Command{
		Use:   "done <id>",
		Short: "Toggle a todo's completion",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				logger.Fatal("Invalid todo ID", "error", err)
			}

			database := openDB(loadConfig())
			defer database.Close()

			todo, err := database.ToggleTodo(id)
			if err != nil {
				logger.Fatal("Failed to toggle todo", "error", err)
			}
			if todo == nil {
				logger.Fatal("Todo not found", "id", id)
			}
			if todo.Done {
				fmt.Printf("Done: %s\n", todo.Title)
			} else {
				fmt.Printf("Reopened: %s\n", todo.Title)
			}
		},
	}

	todoRmCmd := &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a todo",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				logger.Fatal("Invalid todo ID", "error", err)
			}

			database := openDB(loadConfig())
			defer database.Close()

			if err := database.DeleteTodo(id); err != nil {
				logger.Fatal("Failed to delete todo", "error", err)
			}
			fmt.Printf("Deleted todo #%d\n", id)
		},
	}

	todoCmd.AddCommand(todoListCmd, todoAddCmd, todoDoneCmd, todoRmCmd)
	rootCmd.AddCommand(todoCmd)

	// agenda
	agendaCmd := &cobra.Command{
		Use:   "agenda",
		Short: "Print today's agenda",
		Run: func(cmd *cobra.Command, args []string) {
			cfg := loadConfig()

			client := agenda.NewClient(cfg.UpstreamURL)
			svc := agenda.NewService(client, time.Duration(cfg.CacheTTLMinutes)*time.Minute, nil)

			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			events, err := svc.Events(ctx)
			if err != nil {
				logger.Fatal("Failed to fetch agenda", "error", err)
			}

			now := time.Now()
			for _, e := range events {
				rel := timeutil.Describe(e.StartInstant, now)
				level := timeutil.ClassifyUrgency(e.StartInstant, now)

				timeLabel := e.TimeLabel
				if e.AllDay {
					timeLabel = timeutil.AllDayLabel
				}
				line := fmt.Sprintf("%-9s %-40s %s", timeLabel, e.Title, ui.UrgencyStyle(level).Render(rel.Label))
				if e.DurationMinutes > 0 {
					line += "  " + timeutil.FormatDuration(e.DurationMinutes)
				}
				fmt.Println(line)
			}
		},
	}
	rootCmd.AddCommand(agendaCmd)

	// holidays
	holidaysCmd := &cobra.Command{
		Use:   "holidays",
		Short: "Print upcoming holiday countdowns",
		Run: func(cmd *cobra.Command, args []string) {
			database := openDB(loadConfig())
			defer database.Close()

			now := time.Now()
			holidays, err := database.UpcomingHolidays(now)
			if err != nil {
				logger.Fatal("Failed to list holidays", "error", err)
			}

			for _, c := range holiday.BuildCountdowns(holidays, now) {
				label := fmt.Sprintf("%-24s %s", c.Holiday.Name, c.StartsIn.Label)
				if c.LongWeekend {
					label += fmt.Sprintf("  (%d days off)", c.Span.Days)
				}
				fmt.Println(ui.ToneStyle(c.Tone).Render(label))
			}
		},
	}
	rootCmd.AddCommand(holidaysCmd)

	// seed and serve
	rootCmd.AddCommand(seedCmd(logger))
	rootCmd.AddCommand(serveCmd(logger))

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
