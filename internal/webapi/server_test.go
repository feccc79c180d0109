package webapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"dayboard/internal/agenda"
	"dayboard/internal/db"
)

type stubFetcher struct {
	events []agenda.Event
}

func (f *stubFetcher) FetchEvents(ctx context.Context) ([]agenda.Event, error) {
	return f.events, nil
}

func newTestServer(t *testing.T, events []agenda.Event) (*Server, http.Handler) {
	t.Helper()

	database, err := db.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	svc := agenda.NewService(&stubFetcher{events: events}, time.Minute, nil)
	srv := New(Config{Addr: ":0", DB: database, Agenda: svc})
	return srv, srv.Handler()
}

func doJSON(t *testing.T, handler http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal body: %v", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.NewDecoder(rec.Body).Decode(v); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
}

func TestTodoEndpoints(t *testing.T) {
	_, handler := newTestServer(t, nil)

	// Title is required
	rec := doJSON(t, handler, "POST", "/todos", TodoRequest{Notes: "no title"})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for missing title, got %d", rec.Code)
	}

	due := time.Now().Add(30 * time.Minute)
	rec = doJSON(t, handler, "POST", "/todos", TodoRequest{Title: "Pay rent", Due: &due})
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var created TodoResponse
	decodeBody(t, rec, &created)
	if created.DueUrgency != "critical" {
		t.Errorf("expected critical urgency for 30m due, got %q", created.DueUrgency)
	}
	if !strings.HasPrefix(created.DueRelative, "In ") {
		t.Errorf("expected future relative label, got %q", created.DueRelative)
	}

	rec = doJSON(t, handler, "POST", "/todos", TodoRequest{Title: "Water plants"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	var second TodoResponse
	decodeBody(t, rec, &second)

	// Toggle marks done and open list hides it
	rec = doJSON(t, handler, "POST", fmt.Sprintf("/todos/%d/toggle", second.ID), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var toggled TodoResponse
	decodeBody(t, rec, &toggled)
	if !toggled.Done || toggled.CompletedAt == nil {
		t.Error("expected toggled todo to be done with completed_at set")
	}

	rec = doJSON(t, handler, "GET", "/todos", nil)
	var open []TodoResponse
	decodeBody(t, rec, &open)
	if len(open) != 1 {
		t.Errorf("expected 1 open todo, got %d", len(open))
	}

	rec = doJSON(t, handler, "GET", "/todos?all=true", nil)
	var all []TodoResponse
	decodeBody(t, rec, &all)
	if len(all) != 2 {
		t.Errorf("expected 2 todos with all=true, got %d", len(all))
	}

	rec = doJSON(t, handler, "GET", "/todos/99999", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 for missing todo, got %d", rec.Code)
	}

	rec = doJSON(t, handler, "DELETE", fmt.Sprintf("/todos/%d", second.ID), nil)
	if rec.Code != http.StatusNoContent {
		t.Errorf("expected 204 on delete, got %d", rec.Code)
	}
}

func TestTodoReorderEndpoint(t *testing.T) {
	_, handler := newTestServer(t, nil)

	ids := make([]int64, 3)
	for i, title := range []string{"a", "b", "c"} {
		rec := doJSON(t, handler, "POST", "/todos", TodoRequest{Title: title})
		var created TodoResponse
		decodeBody(t, rec, &created)
		ids[i] = created.ID
	}

	rec := doJSON(t, handler, "POST", "/todos/reorder", ReorderRequest{IDs: []int64{ids[2], ids[0], ids[1]}})
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}

	rec = doJSON(t, handler, "GET", "/todos", nil)
	var todos []TodoResponse
	decodeBody(t, rec, &todos)
	if len(todos) != 3 || todos[0].Title != "c" || todos[1].Title != "a" {
		t.Errorf("unexpected order after reorder: %+v", todos)
	}
}

func TestKeyEventValidation(t *testing.T) {
	_, handler := newTestServer(t, nil)

	// A malformed time label is rejected, never silently defaulted.
	rec := doJSON(t, handler, "POST", "/keyevents", KeyEventRequest{
		Title:     "Broken",
		DateLabel: "Mar 15",
		TimeLabel: "25:00 PM",
	})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for malformed time label, got %d", rec.Code)
	}

	rec = doJSON(t, handler, "POST", "/keyevents", KeyEventRequest{
		Title:           "Dentist",
		DateLabel:       "Mar 15",
		TimeLabel:       "4:30 PM",
		DurationMinutes: 45,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var created KeyEventResponse
	decodeBody(t, rec, &created)
	if created.Duration != "45 min" {
		t.Errorf("expected duration \"45 min\", got %q", created.Duration)
	}
}

func TestMealPlanEndpoints(t *testing.T) {
	_, handler := newTestServer(t, nil)

	week := "2026-03-16" // a Monday

	rec := doJSON(t, handler, "PUT", "/mealplan/"+week+"/2", MealSlotRequest{Meal: "Tacos"})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, handler, "PUT", "/mealplan/"+week+"/7", MealSlotRequest{Meal: "Nope"})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for weekday out of range, got %d", rec.Code)
	}

	// Any day within the week resolves to the same plan
	rec = doJSON(t, handler, "GET", "/mealplan/2026-03-18", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var plan MealPlanResponse
	decodeBody(t, rec, &plan)
	if len(plan.Slots) != 1 || plan.Slots[0].Meal != "Tacos" {
		t.Errorf("unexpected plan: %+v", plan)
	}

	rec = doJSON(t, handler, "POST", "/mealplan/"+week+"/ingredients", IngredientRequest{Name: "Tortillas", Quantity: "12"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	var ing IngredientResponse
	decodeBody(t, rec, &ing)

	rec = doJSON(t, handler, "POST", fmt.Sprintf("/ingredients/%d/check", ing.ID), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var checked IngredientResponse
	decodeBody(t, rec, &checked)
	if !checked.Checked {
		t.Error("expected ingredient to be checked")
	}

	rec = doJSON(t, handler, "DELETE", "/mealplan/"+week+"/2", nil)
	if rec.Code != http.StatusNoContent {
		t.Errorf("expected 204 on clear, got %d", rec.Code)
	}

	rec = doJSON(t, handler, "DELETE", fmt.Sprintf("/ingredients/%d", ing.ID), nil)
	if rec.Code != http.StatusNoContent {
		t.Errorf("expected 204 on ingredient delete, got %d", rec.Code)
	}
}

func TestAgendaEndpoint(t *testing.T) {
	now := time.Now()
	_, handler := newTestServer(t, []agenda.Event{
		{
			Title:           "Standup",
			StartInstant:    now.Add(90 * time.Minute),
			DurationMinutes: 30,
			DateLabel:       "Mar 15",
			TimeLabel:       "9:00 AM",
		},
	})

	rec := doJSON(t, handler, "GET", "/agenda", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var items []AgendaItem
	decodeBody(t, rec, &items)
	if len(items) != 1 {
		t.Fatalf("expected 1 agenda item, got %d", len(items))
	}
	if items[0].Urgency != "warning" {
		t.Errorf("expected warning urgency at 90m out, got %q", items[0].Urgency)
	}
	if items[0].Duration != "30 min" {
		t.Errorf("expected duration \"30 min\", got %q", items[0].Duration)
	}
	if items[0].IsPast {
		t.Error("expected future event not flagged past")
	}

	rec = doJSON(t, handler, "GET", "/calendar.ics", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for ICS export, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/calendar") {
		t.Errorf("expected text/calendar content type, got %q", ct)
	}
	if !strings.Contains(rec.Body.String(), "SUMMARY:Standup") {
		t.Error("expected ICS body to contain the event summary")
	}
}

func TestSettingsEndpoints(t *testing.T) {
	_, handler := newTestServer(t, nil)

	rec := doJSON(t, handler, "PUT", "/settings", map[string]string{"theme": "dark"})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	rec = doJSON(t, handler, "GET", "/settings", nil)
	var settings map[string]string
	decodeBody(t, rec, &settings)
	if settings["theme"] != "dark" {
		t.Errorf("expected theme=dark, got %q", settings["theme"])
	}
}

func TestHolidayCountdownEndpoint(t *testing.T) {
	_, handler := newTestServer(t, nil)

	starts := time.Now().AddDate(0, 0, 30)
	rec := doJSON(t, handler, "POST", "/holidays", HolidayRequest{
		Name:     "Spring Break",
		Kind:     db.KindHolidayDay,
		StartsOn: &starts,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, handler, "GET", "/holidays/upcoming", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var countdowns []HolidayCountdownResponse
	decodeBody(t, rec, &countdowns)
	if len(countdowns) != 1 {
		t.Fatalf("expected 1 countdown, got %d", len(countdowns))
	}
	if countdowns[0].Tone != "mid" {
		t.Errorf("expected mid tone 30 days out, got %q", countdowns[0].Tone)
	}
	if countdowns[0].SpanDays < 1 {
		t.Errorf("expected span of at least 1 day, got %d", countdowns[0].SpanDays)
	}
}
