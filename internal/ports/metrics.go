package ports

import "github.com/bft-labs/padship/internal/domain"

// Metrics records traffic counters. Implementations must be safe for
// concurrent use.
type Metrics interface {
	FrameSent(kind domain.EventKind)
	FrameReceived(kind domain.EventKind)
	FrameRejected(tag uint8)
	ConnectFailed()
	SessionStarted()
	QueueDepth(n int)
}
