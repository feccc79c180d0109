package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"dayboard/internal/db"
)

// seedCmd creates a demo database with sample data for screenshots and
// first-run exploration.
func seedCmd(logger *log.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "seed [output.db]",
		Short: "Create a demo database with sample data",
		Args:  cobra.MaximumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			var dbPath string
			if len(args) > 0 {
				dbPath = args[0]
			} else {
				home, _ := os.UserHomeDir()
				dbPath = filepath.Join(home, ".local", "share", "dayboard", "demo.db")
			}

			// Remove existing demo database if it exists
			if _, err := os.Stat(dbPath); err == nil {
				if err := os.Remove(dbPath); err != nil {
					logger.Fatal("Failed to remove existing db", "error", err)
				}
			}

			database, err := db.Open(dbPath)
			if err != nil {
				logger.Fatal("Failed to open database", "error", err)
			}
			defer database.Close()

			fmt.Printf("Creating demo database at: %s\n", dbPath)

			now := time.Now()

			todos := []struct {
				Title string
				Notes string
				Due   time.Duration
			}{
				{"Pay rent", "Transfer before end of day", 4 * time.Hour},
				{"Call dentist to reschedule", "", 26 * time.Hour},
				{"Pick up dry cleaning", "Ticket in wallet", 3 * 24 * time.Hour},
				{"Renew passport", "Photos first, then the form", 30 * 24 * time.Hour},
				{"Water the plants", "", 0},
			}
			for _, t := range todos {
				todo := &db.Todo{Title: t.Title, Notes: t.Notes}
				if t.Due > 0 {
					lt := db.NewLocalTime(now.Add(t.Due))
					todo.Due = &lt
				}
				if err := database.CreateTodo(todo); err != nil {
					logger.Fatal("Failed to seed todo", "error", err)
				}
			}
			fmt.Printf("  %d todos\n", len(todos))

			horizons := []struct {
				Title string
				Notes string
				In    time.Duration
			}{
				{"Marathon", "Training plan:\n\n- long run Sundays\n- tempo Wednesdays", 60 * 24 * time.Hour},
				{"Kitchen renovation done", "Waiting on the countertop delivery.", 21 * 24 * time.Hour},
				{"Tax filing deadline", "Gather 1099s into the shared folder.", 45 * 24 * time.Hour},
			}
			for i, h := range horizons {
				if err := database.CreateHorizon(&db.Horizon{
					Title:    h.Title,
					Notes:    h.Notes,
					TargetAt: db.NewLocalTime(now.Add(h.In)),
					Position: i + 1,
				}); err != nil {
					logger.Fatal("Failed to seed horizon", "error", err)
				}
			}
			fmt.Printf("  %d horizons\n", len(horizons))

			events := []struct {
				Title     string
				TimeLabel string
				InDays    int
				Duration  int
				AllDay    bool
			}{
				{"Parent-teacher conference", "4:30 PM", 2, 30, false},
				{"School closed", "", 5, 0, true},
				{"Flight to Denver", "7:15 AM", 12, 150, false},
			}
			for _, e := range events {
				start := now.AddDate(0, 0, e.InDays)
				if err := database.CreateKeyEvent(&db.KeyEvent{
					Title:           e.Title,
					DateLabel:       start.Format("Jan 2"),
					TimeLabel:       e.TimeLabel,
					StartAt:         db.NewLocalTime(start),
					DurationMinutes: e.Duration,
					AllDay:          e.AllDay,
				}); err != nil {
					logger.Fatal("Failed to seed key event", "error", err)
				}
			}
			fmt.Printf("  %d key events\n", len(events))

			if err := database.CreateHoliday(&db.Holiday{
				Name:     "Labor Day",
				Kind:     db.KindHolidayDay,
				StartsOn: db.NewLocalTime(nextWeekday(now, time.Monday, 8)),
			}); err != nil {
				logger.Fatal("Failed to seed holiday", "error", err)
			}
			vacEnd := db.NewLocalTime(now.AddDate(0, 2, 4))
			if err := database.CreateHoliday(&db.Holiday{
				Name:     "Fall trip",
				Kind:     db.KindVacation,
				StartsOn: db.NewLocalTime(now.AddDate(0, 2, 0)),
				EndsOn:   &vacEnd,
			}); err != nil {
				logger.Fatal("Failed to seed vacation", "error", err)
			}
			fmt.Println("  2 holidays")

			week := db.WeekStart(now)
			meals := map[int]string{
				0: "Pasta night",
				1: "Tacos",
				2: "Stir fry",
				3: "Leftovers",
				4: "Pizza",
			}
			for weekday, meal := range meals {
				if err := database.SetMealSlot(&db.MealSlot{
					WeekStart: db.NewLocalTime(week),
					Weekday:   weekday,
					Meal:      meal,
				}); err != nil {
					logger.Fatal("Failed to seed meal slot", "error", err)
				}
			}
			for _, ing := range []db.Ingredient{
				{WeekStart: db.NewLocalTime(week), Name: "Tortillas", Quantity: "12"},
				{WeekStart: db.NewLocalTime(week), Name: "Ground beef", Quantity: "1 lb"},
				{WeekStart: db.NewLocalTime(week), Name: "Bell peppers", Quantity: "3"},
			} {
				ing := ing
				if err := database.CreateIngredient(&ing); err != nil {
					logger.Fatal("Failed to seed ingredient", "error", err)
				}
			}
			fmt.Println("  1 week meal plan with shopping list")

			fmt.Println("Done.")
		},
	}
}

// nextWeekday returns the first occurrence of weekday at least minDays
// from now, at local midnight.
func nextWeekday(now time.Time, weekday time.Weekday, minDays int) time.Time {
	t := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.Local).AddDate(0, 0, minDays)
	for t.Weekday() != weekday {
		t = t.AddDate(0, 0, 1)
	}
	return t
}
