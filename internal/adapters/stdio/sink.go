package stdio

import (
	"context"
	"encoding/json"
	"io"
	"sync"

	"github.com/bft-labs/padship/internal/domain"
	"github.com/bft-labs/padship/internal/ports"
)

type outputLine struct {
	Kind      string               `json:"kind"`
	Timestamp *uint64              `json:"timestamp,omitempty"`
	Gamepad   *domain.GamepadState `json:"gamepad,omitempty"`
	Mouse     *domain.MouseState   `json:"mouse,omitempty"`
}

// Sink implements ports.EventSink by writing one JSON line per event.
type Sink struct {
	mu  sync.Mutex
	enc *json.Encoder
}

var _ ports.EventSink = (*Sink)(nil)

// NewSink creates a sink writing to w.
func NewSink(w io.Writer) *Sink {
	return &Sink{enc: json.NewEncoder(w)}
}

// Deliver writes ev.
func (s *Sink) Deliver(ctx context.Context, ev domain.Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	out := outputLine{Kind: ev.Kind.String()}
	switch ev.Kind {
	case domain.KindTimestamp:
		ts := ev.Timestamp
		out.Timestamp = &ts
	case domain.KindGamepad:
		gp := ev.Gamepad
		out.Gamepad = &gp
	case domain.KindMouse:
		m := ev.Mouse
		out.Mouse = &m
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.enc.Encode(out)
}
