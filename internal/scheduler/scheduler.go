// Package scheduler provides an interval scheduler for fuel price refreshes.
package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// DefaultInterval is the time between two scheduled refreshes.
const DefaultInterval = 60 * time.Minute

// Refresher refreshes the prices of every loaded company.
type Refresher interface {
	Refresh(ctx context.Context)
}

// Scheduler manages the refresh schedule.
type Scheduler struct {
	refresher Refresher
	interval  time.Duration
	logger    zerolog.Logger

	mu            sync.RWMutex
	nextRefreshAt time.Time
	lastRefreshAt *time.Time
	running       bool
}

// New creates a new Scheduler. A non-positive interval uses DefaultInterval.
func New(r Refresher, interval time.Duration, logger zerolog.Logger) *Scheduler {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Scheduler{
		refresher: r,
		interval:  interval,
		logger:    logger.With().Str("component", "scheduler").Logger(),
	}
}

// Interval returns the time between two refreshes.
func (s *Scheduler) Interval() time.Duration {
	return s.interval
}

// Start refreshes immediately, then on every interval, and blocks until the context
// is cancelled.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	s.running = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
	}()

	s.logger.Info().Dur("interval", s.interval).Msg("starting scheduler")

	s.runRefresh(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("scheduler stopped")
			return ctx.Err()
		case <-ticker.C:
			s.runRefresh(ctx)
		}
	}
}

// runRefresh refreshes all companies and schedules the next run.
func (s *Scheduler) runRefresh(ctx context.Context) {
	s.logger.Info().Msg("running scheduled refresh")

	start := time.Now()
	next := start.Add(s.interval)
	s.mu.Lock()
	s.lastRefreshAt = &start
	s.nextRefreshAt = next
	s.mu.Unlock()

	s.refresher.Refresh(ctx)

	s.logger.Info().
		Dur("duration", time.Since(start)).
		Time("nextRefresh", next).
		Msg("scheduled refresh completed")
}

// NextRefreshAt returns the time of the next scheduled refresh.
func (s *Scheduler) NextRefreshAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.nextRefreshAt
}

// LastRefreshAt returns the start time of the last refresh.
func (s *Scheduler) LastRefreshAt() *time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastRefreshAt
}

// IsRunning returns whether the scheduler is currently running.
func (s *Scheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.running
}
