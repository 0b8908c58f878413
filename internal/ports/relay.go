package ports

import (
	"context"

	"github.com/bft-labs/padship/internal/domain"
)

// Pusher is the producer end of a bounded relay.
type Pusher interface {
	// Push blocks while the relay is full. It fails with relay.ErrPeerGone
	// once the consumer end has been closed.
	Push(ctx context.Context, ev domain.Event) error
}

// Popper is the consumer end of a bounded relay.
type Popper interface {
	// Pop blocks while the relay is empty. It fails with relay.ErrPeerGone
	// once the producer end has been closed and the relay is drained.
	Pop(ctx context.Context) (domain.Event, error)
}
