package session

import (
	"context"
	"time"
)

// Ticker produces the elapsed-time display value for a running session at
// 1 Hz. It is a read-side projection bound to the session's start time and
// never touches authoritative state, so a restart simply rebinds a new
// ticker to the persisted startedAt.
type Ticker struct {
	startedAt time.Time
	interval  time.Duration
	now       func() time.Time
}

// NewTicker creates a ticker for a session started at the given epoch
// milliseconds.
func NewTicker(startedAtMS int64) *Ticker {
	return &Ticker{
		startedAt: time.UnixMilli(startedAtMS),
		interval:  time.Second,
		now:       time.Now,
	}
}

// Elapsed returns the whole seconds since the session started.
func (t *Ticker) Elapsed() time.Duration {
	d := t.now().Sub(t.startedAt)
	if d < 0 {
		d = 0
	}
	return d.Truncate(time.Second)
}

// Run emits the current elapsed value immediately and then once per tick
// until the context is cancelled.
func (t *Ticker) Run(ctx context.Context, fn func(elapsed time.Duration)) {
	fn(t.Elapsed())

	tick := time.NewTicker(t.interval)
	defer tick.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-tick.C:
			fn(t.Elapsed())
		}
	}
}
