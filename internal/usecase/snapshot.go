package usecase

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"

	"timesheet-dashboard/internal/aggregate"
)

var ErrRefreshRunning = errors.New("refresh already running")

const (
	refreshKey     = "refresh"
	refreshTimeout = 2 * time.Minute
)

// Snapshotter keeps the most recent Summary for readers such as the HTTP
// server. Only one fetch runs at a time; concurrent callers share it.
type Snapshotter struct {
	uc      *DashboardUseCase
	group   singleflight.Group
	running atomic.Bool

	mu     sync.RWMutex
	latest *aggregate.Summary
}

func NewSnapshotter(uc *DashboardUseCase) *Snapshotter {
	return &Snapshotter{uc: uc}
}

// Refresh forces a new fetch and replaces the snapshot on success. It returns
// ErrRefreshRunning when a fetch is already in flight. On failure the
// previous snapshot is kept.
func (s *Snapshotter) Refresh(ctx context.Context) (aggregate.Summary, error) {
	if s.running.Load() {
		return aggregate.Summary{}, ErrRefreshRunning
	}
	return s.fetch(ctx)
}

// fetch joins the in-flight fetch or starts one. The fetch runs detached from
// ctx and is bounded by refreshTimeout; ctx only bounds how long this caller
// waits.
func (s *Snapshotter) fetch(ctx context.Context) (aggregate.Summary, error) {
	ch := s.group.DoChan(refreshKey, func() (any, error) {
		s.running.Store(true)
		defer s.running.Store(false)

		runCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), refreshTimeout)
		defer cancel()
		sum, err := s.uc.Run(runCtx)
		if err != nil {
			return nil, err
		}
		s.mu.Lock()
		s.latest = &sum
		s.mu.Unlock()
		return sum, nil
	})
	select {
	case <-ctx.Done():
		return aggregate.Summary{}, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return aggregate.Summary{}, res.Err
		}
		return res.Val.(aggregate.Summary), nil
	}
}

// Latest returns the current snapshot, if any.
func (s *Snapshotter) Latest() (aggregate.Summary, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.latest == nil {
		return aggregate.Summary{}, false
	}
	return *s.latest, true
}

// Current returns the snapshot. When none exists yet it waits for the
// in-flight fetch, starting one if needed.
func (s *Snapshotter) Current(ctx context.Context) (aggregate.Summary, error) {
	if sum, ok := s.Latest(); ok {
		return sum, nil
	}
	return s.fetch(ctx)
}

// Loop refreshes immediately and then every interval until ctx is done.
// Refresh errors are logged, not returned.
func (s *Snapshotter) Loop(ctx context.Context, interval time.Duration) error {
	log := s.uc.Log
	if _, err := s.fetch(ctx); err != nil {
		log.Error("initial refresh failed", slog.String("error", err.Error()))
	}
	if interval <= 0 {
		<-ctx.Done()
		return nil
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	log.Info("starting periodic refresh", slog.Duration("interval", interval))
	for {
		select {
		case <-ctx.Done():
			log.Info("stopping periodic refresh")
			return nil
		case <-ticker.C:
			if _, err := s.fetch(ctx); err != nil {
				log.Error("periodic refresh failed", slog.String("error", err.Error()))
			}
		}
	}
}
