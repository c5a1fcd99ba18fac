// Package couple runs the background sweep that expires couple applications
// whose confirmation window has lapsed.
package couple

import (
	"context"
	"log"
	"time"
)

const sweepLockKey = "couples:sweep:lock"

type expirer interface {
	ExpireDue(ctx context.Context) (int, error)
}

type locker interface {
	SetIfNotExists(ctx context.Context, key string, value string, ttl time.Duration) (bool, error)
}

// SweepService ticks on a fixed interval and expires due couples. A redis
// lock keeps multiple instances from sweeping at once; the sweep itself is
// idempotent, so a lost lock only costs duplicate work.
type SweepService struct {
	couples  expirer
	lock     locker
	logger   *log.Logger
	interval time.Duration
}

func NewSweepService(couples expirer, lock locker, logger *log.Logger, interval time.Duration) *SweepService {
	if interval <= 0 {
		interval = time.Minute
	}
	return &SweepService{couples: couples, lock: lock, logger: logger, interval: interval}
}

// Run blocks until the context is cancelled. One sweep fires immediately so
// a restart does not leave lapsed couples pending for a full interval.
func (s *SweepService) Run(ctx context.Context) {
	if s == nil || s.couples == nil {
		return
	}

	s.sweep(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *SweepService) sweep(ctx context.Context) {
	if s.lock != nil {
		ok, err := s.lock.SetIfNotExists(ctx, sweepLockKey, "1", s.interval)
		if err != nil || !ok {
			return
		}
	}

	n, err := s.couples.ExpireDue(ctx)
	if err != nil {
		if s.logger != nil {
			s.logger.Printf("[Sweep] expire error err=%v", err)
		}
		return
	}
	if n > 0 && s.logger != nil {
		s.logger.Printf("[Sweep] expired couples count=%d", n)
	}
}
