package app

import (
	"context"
	"math/rand"
	"sync"
	"time"
)

// Default backoff configuration values.
const (
	DefaultRetryInterval  = 3 * time.Second
	DefaultBackoffInitial = 500 * time.Millisecond
	DefaultBackoffMax     = 10 * time.Second
)

// Backoff is the delay between reconnect attempts. It implements
// ports.Waiter.
//
// A fixed backoff always waits the same interval. An exponential backoff
// doubles after every Wait up to max and adds ±20% jitter.
type Backoff struct {
	mu      sync.Mutex
	initial time.Duration
	max     time.Duration
	current time.Duration
	jitter  float64
}

// NewFixedBackoff returns a Backoff that always waits d.
func NewFixedBackoff(d time.Duration) *Backoff {
	if d <= 0 {
		d = DefaultRetryInterval
	}
	return &Backoff{initial: d, max: d, current: d}
}

// NewBackoff returns an exponential Backoff starting at initial and capped at
// max.
func NewBackoff(initial, max time.Duration) *Backoff {
	if initial <= 0 {
		initial = DefaultBackoffInitial
	}
	if max < initial {
		max = initial
	}
	return &Backoff{initial: initial, max: max, current: initial, jitter: 0.2}
}

// Wait sleeps for the current delay, then grows it for the next call.
// It returns ctx.Err() if ctx is done first.
func (b *Backoff) Wait(ctx context.Context) error {
	d := b.next()

	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func (b *Backoff) next() time.Duration {
	b.mu.Lock()
	defer b.mu.Unlock()

	d := b.current
	if b.jitter > 0 {
		d = time.Duration(float64(d) + float64(d)*b.jitter*(rand.Float64()*2-1))
	}

	b.current *= 2
	if b.current > b.max {
		b.current = b.max
	}
	return d
}

// Reset returns the delay to its initial value.
func (b *Backoff) Reset() {
	b.mu.Lock()
	b.current = b.initial
	b.mu.Unlock()
}

// Current returns the delay the next Wait will use, before jitter.
func (b *Backoff) Current() time.Duration {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.current
}
