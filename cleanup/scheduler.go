// Package cleanup reclaims refresh sessions that are both revoked and past
// their expiry. Purging is idempotent, so overlapping runs are safe — in a
// multi-node deployment redundant execution is merely wasteful, and mutual
// exclusion across nodes is the deployment's concern, not this package's.
package cleanup

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

// Purger deletes reclaimable sessions and reports how many were removed.
type Purger interface {
	PurgeReclaimable(ctx context.Context, now time.Time) (int64, error)
}

// Scheduler invokes the purger on a fixed interval until its context is
// cancelled. It holds no locks, so foreground authentication is never
// blocked by a purge pass.
type Scheduler struct {
	purger   Purger
	interval time.Duration
	nowFunc  func() time.Time
}

type SchedulerOption func(*Scheduler)

// WithNowFunc sets the now time function (primarily for testing)
func WithNowFunc(now func() time.Time) SchedulerOption {
	return func(s *Scheduler) {
		s.nowFunc = now
	}
}

func NewScheduler(purger Purger, interval time.Duration, options ...SchedulerOption) *Scheduler {
	s := &Scheduler{
		purger:   purger,
		interval: interval,
		nowFunc:  time.Now,
	}
	for _, opt := range options {
		opt(s)
	}
	return s
}

// Run blocks, purging once immediately and then on every interval tick,
// until ctx is cancelled.
func (s *Scheduler) Run(ctx context.Context) {
	log.Info().Dur("interval", s.interval).Msg("session cleanup scheduler started")

	s.purge(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("session cleanup scheduler stopped")
			return
		case <-ticker.C:
			s.purge(ctx)
		}
	}
}

func (s *Scheduler) purge(ctx context.Context) {
	purged, err := s.purger.PurgeReclaimable(ctx, s.nowFunc())
	if err != nil {
		log.Error().Err(err).Msg("session purge failed")
		return
	}
	if purged > 0 {
		log.Info().Int64("purged", purged).Msg("reclaimable sessions deleted")
	}
}
