// Package agenda fetches calendar events from the upstream REST backend
// and normalizes their wall-clock labels into absolute instants.
package agenda

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/charmbracelet/log"

	"dayboard/internal/timeutil"
)

// RawEvent mirrors the upstream backend's JSON event shape. All labels
// are Pacific wall-clock strings with no year or zone.
type RawEvent struct {
	Title           string `json:"title"`
	Date            string `json:"date"`       // e.g. "Sep 28"
	StartTime       string `json:"start_time"` // e.g. "4:30 AM" or "All Day"
	DurationMinutes int    `json:"duration_minutes"`
	AllDay          bool   `json:"all_day"`
}

// Event is a normalized calendar event ready for display. The source
// labels are kept so bookmarks can store them verbatim.
type Event struct {
	Title           string    `json:"title"`
	StartInstant    time.Time `json:"start"`
	DurationMinutes int       `json:"duration_minutes"`
	AllDay          bool      `json:"all_day"`
	DateLabel       string    `json:"date_label"`
	TimeLabel       string    `json:"time_label"`
}

// Client talks to the upstream events backend.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *log.Logger
}

// NewClient creates a client for the given base URL.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		logger:     log.NewWithOptions(os.Stderr, log.Options{Prefix: "agenda"}),
	}
}

// FetchEvents fetches and normalizes the upstream event list. Events
// with malformed labels are skipped and logged; the rest go through.
// The current calendar year at fetch time supplies the missing year.
func (c *Client) FetchEvents(ctx context.Context) ([]Event, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/events", nil)
	if err != nil {
		return nil, fmt.Errorf("build events request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch events: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch events: unexpected status %d", resp.StatusCode)
	}

	var raw []RawEvent
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode events: %w", err)
	}

	return c.normalize(raw, time.Now().Year()), nil
}

func (c *Client) normalize(raw []RawEvent, referenceYear int) []Event {
	events := make([]Event, 0, len(raw))
	for _, r := range raw {
		norm, err := timeutil.NormalizeEvent(timeutil.WallClockEvent{
			DateLabel:       r.Date,
			StartTimeLabel:  r.StartTime,
			DurationMinutes: r.DurationMinutes,
			AllDay:          r.AllDay,
		}, referenceYear)
		if err != nil {
			// Skip-and-flag is this caller's policy for malformed
			// labels; the normalizer itself never substitutes defaults.
			c.logger.Warn("skipping malformed event", "title", r.Title, "error", err)
			continue
		}
		events = append(events, Event{
			Title:           r.Title,
			StartInstant:    norm.StartInstant,
			DurationMinutes: norm.DurationMinutes,
			AllDay:          norm.AllDay,
			DateLabel:       r.Date,
			TimeLabel:       r.StartTime,
		})
	}
	return events
}
