package ports

import (
	"context"

	"github.com/bft-labs/padship/internal/domain"
)

// Sampler reads the current device state once per tick.
// Implementations wrap a platform input SDK; padship only drives the timing.
// Mouse fields X, Y and Scroll must be the displacement since the previous
// call. Returning an error wrapping io.EOF ends the producing session.
type Sampler interface {
	Sample(ctx context.Context) (domain.GamepadState, domain.MouseState, error)
}

// EventSink applies delivered events to a virtual controller or mouse.
// Events arrive in delivery order. Applying them idempotently is the sink's
// responsibility.
type EventSink interface {
	Deliver(ctx context.Context, ev domain.Event) error
}

// SamplerFunc adapts a function to Sampler.
type SamplerFunc func(ctx context.Context) (domain.GamepadState, domain.MouseState, error)

// Sample calls f.
func (f SamplerFunc) Sample(ctx context.Context) (domain.GamepadState, domain.MouseState, error) {
	return f(ctx)
}

// SinkFunc adapts a function to EventSink.
type SinkFunc func(ctx context.Context, ev domain.Event) error

// Deliver calls f.
func (f SinkFunc) Deliver(ctx context.Context, ev domain.Event) error {
	return f(ctx, ev)
}
