package cleanup_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/hospitalmgmt/auth-service/cleanup"
)

type countingPurger struct {
	calls atomic.Int64
	err   error
}

func (p *countingPurger) PurgeReclaimable(_ context.Context, _ time.Time) (int64, error) {
	p.calls.Add(1)
	return 0, p.err
}

func TestRunPurgesImmediatelyAndOnEveryTick(t *testing.T) {
	purger := &countingPurger{}
	scheduler := cleanup.NewScheduler(purger, 5*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		scheduler.Run(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool {
		return purger.calls.Load() >= 3
	}, time.Second, time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("scheduler did not stop after cancellation")
	}
}

func TestRunKeepsGoingAfterPurgeErrors(t *testing.T) {
	purger := &countingPurger{err: context.DeadlineExceeded}
	scheduler := cleanup.NewScheduler(purger, 5*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go scheduler.Run(ctx)

	require.Eventually(t, func() bool {
		return purger.calls.Load() >= 2
	}, time.Second, time.Millisecond)
}
