package domain

import "fmt"

// EventKind discriminates the variants of Event.
// The numeric values are the wire tags.
type EventKind uint8

const (
	KindTimestamp EventKind = 0
	KindGamepad   EventKind = 1
	KindMouse     EventKind = 2
)

// String returns a human-readable representation of the kind.
func (k EventKind) String() string {
	switch k {
	case KindTimestamp:
		return "timestamp"
	case KindGamepad:
		return "gamepad"
	case KindMouse:
		return "mouse"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Valid reports whether k is one of the known variants.
func (k EventKind) Valid() bool {
	return k <= KindMouse
}

// Event is the closed set of messages exchanged between sender and receiver.
// Only the payload field selected by Kind is meaningful; the others are zero.
// Use the constructors so that invariant holds and events stay comparable
// with ==.
type Event struct {
	Kind      EventKind    `json:"kind"`
	Timestamp uint64       `json:"timestamp,omitempty"`
	Gamepad   GamepadState `json:"gamepad"`
	Mouse     MouseState   `json:"mouse"`
}

// TimestampEvent returns a Timestamp event.
func TimestampEvent(ts uint64) Event {
	return Event{Kind: KindTimestamp, Timestamp: ts}
}

// GamepadEvent returns a Gamepad event carrying g.
func GamepadEvent(g GamepadState) Event {
	return Event{Kind: KindGamepad, Gamepad: g}
}

// MouseEvent returns a Mouse event carrying m.
func MouseEvent(m MouseState) Event {
	return Event{Kind: KindMouse, Mouse: m}
}

func (e Event) String() string {
	switch e.Kind {
	case KindTimestamp:
		return fmt.Sprintf("timestamp{%d}", e.Timestamp)
	case KindGamepad:
		return e.Gamepad.String()
	case KindMouse:
		return e.Mouse.String()
	default:
		return e.Kind.String()
	}
}
