package app

import "github.com/bft-labs/padship/internal/domain"

// ChangeDetector decides which events a tick produces.
//
// Gamepad state is absolute, so an unchanged snapshot is suppressed. Mouse
// motion is relative and every non-zero delta is forwarded; only the button
// mask is compared against the last one sent.
//
// A ChangeDetector is owned by one goroutine and is not safe for concurrent
// use. Create a fresh one per session so the peer always receives a full
// snapshot first.
type ChangeDetector struct {
	lastGamepad      domain.GamepadState
	lastMouseButtons uint8
}

// NewChangeDetector returns a detector whose previous state is all zero.
func NewChangeDetector() *ChangeDetector {
	return &ChangeDetector{}
}

// Detect returns the events to send for the current sample, gamepad first.
// The returned slice is nil when nothing changed.
func (d *ChangeDetector) Detect(gp domain.GamepadState, m domain.MouseState) []domain.Event {
	var out []domain.Event

	if gp != d.lastGamepad {
		out = append(out, domain.GamepadEvent(gp))
		d.lastGamepad = gp
	}

	if m.Moved() || m.Buttons != d.lastMouseButtons {
		out = append(out, domain.MouseEvent(m))
		d.lastMouseButtons = m.Buttons
	}

	return out
}

// Reset forgets the previously sent state.
func (d *ChangeDetector) Reset() {
	d.lastGamepad = domain.GamepadState{}
	d.lastMouseButtons = 0
}
