package app

import (
	"sync/atomic"

	"github.com/bft-labs/padship/internal/domain"
	"github.com/bft-labs/padship/internal/ports"
)

// Stats counts traffic for status reporting and forwards every observation
// to an optional downstream Metrics (Prometheus in production).
type Stats struct {
	next ports.Metrics

	sent            atomic.Uint64
	received        atomic.Uint64
	rejected        atomic.Uint64
	connectFailures atomic.Uint64
	sessions        atomic.Uint64
	depth           atomic.Int64
}

var _ ports.Metrics = (*Stats)(nil)

// NewStats returns Stats forwarding to next, which may be nil.
func NewStats(next ports.Metrics) *Stats {
	return &Stats{next: next}
}

func (s *Stats) FrameSent(kind domain.EventKind) {
	s.sent.Add(1)
	if s.next != nil {
		s.next.FrameSent(kind)
	}
}

func (s *Stats) FrameReceived(kind domain.EventKind) {
	s.received.Add(1)
	if s.next != nil {
		s.next.FrameReceived(kind)
	}
}

func (s *Stats) FrameRejected(tag uint8) {
	s.rejected.Add(1)
	if s.next != nil {
		s.next.FrameRejected(tag)
	}
}

func (s *Stats) ConnectFailed() {
	s.connectFailures.Add(1)
	if s.next != nil {
		s.next.ConnectFailed()
	}
}

func (s *Stats) SessionStarted() {
	s.sessions.Add(1)
	if s.next != nil {
		s.next.SessionStarted()
	}
}

func (s *Stats) QueueDepth(n int) {
	s.depth.Store(int64(n))
	if s.next != nil {
		s.next.QueueDepth(n)
	}
}

// Snapshot returns the current counter values.
func (s *Stats) Snapshot() domain.Counters {
	return domain.Counters{
		FramesSent:      s.sent.Load(),
		FramesReceived:  s.received.Load(),
		FramesRejected:  s.rejected.Load(),
		ConnectFailures: s.connectFailures.Load(),
		Sessions:        s.sessions.Load(),
	}
}

// Depth returns the last reported queue depth.
func (s *Stats) Depth() int {
	return int(s.depth.Load())
}
