package app

import (
	"context"
	"errors"
	"io"
	"sync/atomic"
	"time"

	"github.com/bft-labs/padship/internal/domain"
	"github.com/bft-labs/padship/internal/ports"
)

// DefaultSampleInterval is how often the sampler is polled.
const DefaultSampleInterval = 3 * time.Millisecond

// Pump polls a Sampler on a ticker, runs each sample through a fresh
// ChangeDetector and pushes the resulting events into a relay.
type Pump struct {
	sampler   ports.Sampler
	logger    ports.Logger
	heartbeat time.Duration
	interval  atomic.Int64
	changed   chan struct{}
	now       func() time.Time
}

// NewPump creates a pump. A heartbeat of zero disables Timestamp events.
func NewPump(sampler ports.Sampler, logger ports.Logger, interval, heartbeat time.Duration) *Pump {
	if interval <= 0 {
		interval = DefaultSampleInterval
	}
	p := &Pump{
		sampler:   sampler,
		logger:    logger,
		heartbeat: heartbeat,
		changed:   make(chan struct{}, 1),
		now:       time.Now,
	}
	p.interval.Store(int64(interval))
	return p
}

// Interval returns the current sample interval.
func (p *Pump) Interval() time.Duration {
	return time.Duration(p.interval.Load())
}

// SetInterval changes the sample interval of a running or future Run.
// Non-positive values are ignored.
func (p *Pump) SetInterval(d time.Duration) {
	if d <= 0 {
		return
	}
	if time.Duration(p.interval.Swap(int64(d))) == d {
		return
	}
	select {
	case p.changed <- struct{}{}:
	default:
	}
}

// Run samples until ctx is done, the sampler reports io.EOF, or out refuses
// an event. It returns nil when the sampler is exhausted and the push error
// otherwise (relay.ErrPeerGone when the writer went away).
func (p *Pump) Run(ctx context.Context, out ports.Pusher) error {
	detector := NewChangeDetector()

	ticker := time.NewTicker(p.Interval())
	defer ticker.Stop()

	var heartbeat <-chan time.Time
	if p.heartbeat > 0 {
		hb := time.NewTicker(p.heartbeat)
		defer hb.Stop()
		heartbeat = hb.C
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case <-p.changed:
			d := p.Interval()
			ticker.Reset(d)
			p.logger.Info("sample interval changed", ports.Duration("interval", d))

		case <-heartbeat:
			ts := uint64(p.now().UnixMilli())
			if err := out.Push(ctx, domain.TimestampEvent(ts)); err != nil {
				return err
			}

		case <-ticker.C:
			gp, m, err := p.sampler.Sample(ctx)
			if err != nil {
				if errors.Is(err, io.EOF) {
					p.logger.Info("sampler exhausted")
					return nil
				}
				if ctx.Err() != nil {
					return ctx.Err()
				}
				p.logger.Warn("sample failed", ports.Err(err))
				continue
			}

			for _, ev := range detector.Detect(gp, m) {
				if err := out.Push(ctx, ev); err != nil {
					return err
				}
			}
		}
	}
}
