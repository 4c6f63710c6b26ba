package session

import (
	"context"
	"testing"
	"time"
)

// TestTickerElapsed verifies elapsed is derived from the start timestamp and
// truncated to whole seconds.
func TestTickerElapsed(t *testing.T) {
	start := time.Date(2025, 5, 1, 7, 0, 0, 0, time.UTC)
	tk := NewTicker(start.UnixMilli())
	tk.now = func() time.Time { return start.Add(95*time.Second + 400*time.Millisecond) }

	if got := tk.Elapsed(); got != 95*time.Second {
		t.Errorf("elapsed = %v, want 95s", got)
	}
}

// TestTickerClampsNegative verifies a start time in the future (clock skew
// after restore) reads as zero rather than negative.
func TestTickerClampsNegative(t *testing.T) {
	start := time.Date(2025, 5, 1, 7, 0, 0, 0, time.UTC)
	tk := NewTicker(start.UnixMilli())
	tk.now = func() time.Time { return start.Add(-time.Minute) }

	if got := tk.Elapsed(); got != 0 {
		t.Errorf("elapsed = %v, want 0", got)
	}
}

// TestTickerRun verifies the run loop emits immediately and then on each
// tick until cancelled.
func TestTickerRun(t *testing.T) {
	start := time.Now()
	tk := NewTicker(start.UnixMilli())
	tk.interval = 5 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	ticks := make(chan time.Duration, 16)

	done := make(chan struct{})
	go func() {
		tk.Run(ctx, func(elapsed time.Duration) { ticks <- elapsed })
		close(done)
	}()

	// First emission is immediate; wait for at least two more.
	for i := 0; i < 3; i++ {
		select {
		case <-ticks:
		case <-time.After(time.Second):
			t.Fatal("timed out waiting for tick")
		}
	}

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("run did not stop on cancel")
	}
}
