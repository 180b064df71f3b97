package scheduler

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingRefresher struct {
	calls atomic.Int32
}

func (r *countingRefresher) Refresh(context.Context) {
	r.calls.Add(1)
}

func TestNew_DefaultInterval(t *testing.T) {
	s := New(&countingRefresher{}, 0, zerolog.Nop())
	assert.Equal(t, DefaultInterval, s.Interval())
}

func TestScheduler_RefreshesImmediatelyAndOnInterval(t *testing.T) {
	r := &countingRefresher{}
	s := New(r, 20*time.Millisecond, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Start(ctx) }()

	require.Eventually(t, func() bool { return r.calls.Load() >= 1 }, time.Second, 5*time.Millisecond)
	require.Eventually(t, s.IsRunning, time.Second, 5*time.Millisecond)
	require.Eventually(t, func() bool { return r.calls.Load() >= 3 }, 2*time.Second, 5*time.Millisecond)

	last := s.LastRefreshAt()
	require.NotNil(t, last)
	assert.True(t, s.NextRefreshAt().After(*last))

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("scheduler did not stop")
	}
	assert.False(t, s.IsRunning())
}
