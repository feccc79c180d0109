package agenda

import (
	"context"
	"os"
	"sort"
	"time"

	"github.com/charmbracelet/log"
	"github.com/robfig/cron/v3"
)

// fetcher is the upstream dependency of the service; satisfied by
// *Client and by test fakes.
type fetcher interface {
	FetchEvents(ctx context.Context) ([]Event, error)
}

// Service caches the upstream agenda and refreshes it on a cron
// schedule, notifying subscribers after each refresh.
type Service struct {
	client    fetcher
	cache     *ttlCache
	logger    *log.Logger
	cron      *cron.Cron
	onRefresh func([]Event)
}

// NewService wraps a client with a TTL cache. onRefresh, if non-nil, is
// called with the fresh list after every successful fetch.
func NewService(client fetcher, ttl time.Duration, onRefresh func([]Event)) *Service {
	return &Service{
		client:    client,
		cache:     newTTLCache(ttl),
		logger:    log.NewWithOptions(os.Stderr, log.Options{Prefix: "agenda"}),
		onRefresh: onRefresh,
	}
}

// Events returns the agenda, hitting upstream only when the cache has
// expired. Events come back sorted by start.
func (s *Service) Events(ctx context.Context) ([]Event, error) {
	if events, ok := s.cache.get(time.Now()); ok {
		return events, nil
	}
	return s.Refresh(ctx)
}

// Refresh forces a fetch, replacing whatever the cache holds.
func (s *Service) Refresh(ctx context.Context) ([]Event, error) {
	events, err := s.client.FetchEvents(ctx)
	if err != nil {
		return nil, err
	}

	sort.Slice(events, func(i, j int) bool {
		return events[i].StartInstant.Before(events[j].StartInstant)
	})

	s.cache.put(events, time.Now())
	s.logger.Debug("agenda refreshed", "events", len(events))

	if s.onRefresh != nil {
		s.onRefresh(events)
	}
	return events, nil
}

// Invalidate drops the cache so the next read refetches.
func (s *Service) Invalidate() {
	s.cache.invalidate()
}

// StartScheduler begins periodic refreshes on a cron spec such as
// "*/15 * * * *". Refresh failures are logged and retried on the next
// tick.
func (s *Service) StartScheduler(spec string) error {
	c := cron.New()
	_, err := c.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if _, err := s.Refresh(ctx); err != nil {
			s.logger.Error("scheduled refresh failed", "error", err)
		}
	})
	if err != nil {
		return err
	}
	c.Start()
	s.cron = c
	s.logger.Info("refresh scheduler started", "spec", spec)
	return nil
}

// StopScheduler stops the periodic refresh, waiting for a running job.
func (s *Service) StopScheduler() {
	if s.cron != nil {
		<-s.cron.Stop().Done()
	}
}
