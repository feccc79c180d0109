package agenda

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dayboard/internal/db"
)

func TestClientNormalizesAndSkipsMalformed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/events", r.URL.Path)
		json.NewEncoder(w).Encode([]RawEvent{
			{Title: "Standup", Date: "Sep 28", StartTime: "9:30 AM", DurationMinutes: 15},
			{Title: "Broken", Date: "Sep 28", StartTime: "25:00 PM"},
			{Title: "Offsite", Date: "Sep 29", StartTime: "All Day", AllDay: true},
		})
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	events, err := client.FetchEvents(context.Background())
	require.NoError(t, err)

	// The malformed event is skipped, not substituted.
	require.Len(t, events, 2)
	assert.Equal(t, "Standup", events[0].Title)
	assert.Equal(t, "Sep 28", events[0].DateLabel)
	assert.False(t, events[0].StartInstant.IsZero())
	assert.True(t, events[1].AllDay)
}

func TestClientNormalizeFixedOffset(t *testing.T) {
	c := NewClient("http://unused")
	events := c.normalize([]RawEvent{
		{Title: "Early", Date: "Sep 28", StartTime: "4:30 AM", DurationMinutes: 60},
	}, 2025)

	require.Len(t, events, 1)
	want := time.Date(2025, time.September, 28, 12, 30, 0, 0, time.UTC)
	assert.True(t, events[0].StartInstant.Equal(want), "got %v", events[0].StartInstant)
}

type fakeFetcher struct {
	calls  int
	events []Event
	err    error
}

func (f *fakeFetcher) FetchEvents(ctx context.Context) ([]Event, error) {
	f.calls++
	return f.events, f.err
}

func TestServiceCachesWithinTTL(t *testing.T) {
	fake := &fakeFetcher{events: []Event{
		{Title: "b", StartInstant: time.Now().Add(2 * time.Hour)},
		{Title: "a", StartInstant: time.Now().Add(1 * time.Hour)},
	}}
	svc := NewService(fake, time.Hour, nil)

	first, err := svc.Events(context.Background())
	require.NoError(t, err)
	second, err := svc.Events(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, fake.calls, "second read must come from cache")
	assert.Equal(t, first, second)
	// Refresh sorts by start.
	assert.Equal(t, "a", first[0].Title)
}

func TestServiceInvalidateForcesRefetch(t *testing.T) {
	fake := &fakeFetcher{}
	var notified int
	svc := NewService(fake, time.Hour, func([]Event) { notified++ })

	_, err := svc.Events(context.Background())
	require.NoError(t, err)
	svc.Invalidate()
	_, err = svc.Events(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, fake.calls)
	assert.Equal(t, 2, notified)
}

func TestBuildICS(t *testing.T) {
	now := time.Date(2025, time.September, 28, 12, 0, 0, 0, time.UTC)
	events := []Event{
		{Title: "Standup", StartInstant: now.Add(time.Hour), DurationMinutes: 15},
		{Title: "Offsite", StartInstant: now.AddDate(0, 0, 1), AllDay: true},
	}
	holidays := []*db.Holiday{
		{Name: "Long weekend", StartsOn: db.NewLocalTime(now.AddDate(0, 0, 30))},
	}

	out := BuildICS(events, holidays, now)
	assert.True(t, strings.HasPrefix(out, "BEGIN:VCALENDAR"))
	assert.Contains(t, out, "SUMMARY:Standup")
	assert.Contains(t, out, "SUMMARY:Offsite")
	assert.Contains(t, out, "SUMMARY:Long weekend")
	assert.Equal(t, 3, strings.Count(out, "BEGIN:VEVENT"))
}
