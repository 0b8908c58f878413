package app

import (
	"context"
	"time"

	"github.com/bft-labs/padship/internal/domain"
	"github.com/bft-labs/padship/internal/ports"
)

// DefaultSlowReplayThreshold is the Deliver duration above which a warning
// is logged.
const DefaultSlowReplayThreshold = 10 * time.Millisecond

// Dispatcher drains the receiver relay into an EventSink.
type Dispatcher struct {
	sink   ports.EventSink
	logger ports.Logger
	slow   time.Duration
	now    func() time.Time
}

// NewDispatcher creates a dispatcher. A zero slow threshold uses
// DefaultSlowReplayThreshold.
func NewDispatcher(sink ports.EventSink, logger ports.Logger, slow time.Duration) *Dispatcher {
	if slow <= 0 {
		slow = DefaultSlowReplayThreshold
	}
	return &Dispatcher{sink: sink, logger: logger, slow: slow, now: time.Now}
}

// Run delivers events in order until Pop fails, and returns that error.
// Sink failures are logged and do not stop delivery.
func (d *Dispatcher) Run(ctx context.Context, in ports.Popper) error {
	var (
		updates     int
		windowStart = d.now()
	)

	for {
		ev, err := in.Pop(ctx)
		if err != nil {
			return err
		}

		switch ev.Kind {
		case domain.KindTimestamp:
			d.logger.Debug("heartbeat", ports.Uint64("timestamp", ev.Timestamp))
		case domain.KindGamepad:
			updates++
		}

		start := d.now()
		if err := d.sink.Deliver(ctx, ev); err != nil {
			d.logger.Error("replay failed", ports.Stringer("kind", ev.Kind), ports.Err(err))
		}
		end := d.now()

		if elapsed := end.Sub(start); elapsed > d.slow {
			d.logger.Warn("slow replay",
				ports.Stringer("kind", ev.Kind),
				ports.Duration("elapsed", elapsed),
				ports.Duration("threshold", d.slow),
			)
		}

		if end.Sub(windowStart) >= time.Second {
			d.logger.Debug("gamepad updates per second", ports.Int("updates", updates))
			updates = 0
			windowStart = end
		}
	}
}
