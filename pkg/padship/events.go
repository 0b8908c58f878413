package padship

import (
	"time"

	"github.com/bft-labs/padship/internal/app"
)

// State is the lifecycle state of a Padship instance.
type State int

const (
	StateStopped State = iota
	StateStarting
	StateRunning
	StateStopping
	StateCrashed
)

func (s State) String() string {
	return app.State(s).String()
}

// StateChangeEvent is emitted on every lifecycle transition.
type StateChangeEvent struct {
	Previous State
	Current  State
	Reason   string
}

// SessionChangeEvent is emitted on every connection state change.
type SessionChangeEvent struct {
	Role     Role
	Previous string
	Current  string
	Peer     string
	Reason   string
	At       time.Time
}

// EventHandler receives padship notifications. Implementations should
// return quickly.
type EventHandler interface {
	OnStateChange(event StateChangeEvent)
	OnSessionChange(event SessionChangeEvent)
}

// BaseEventHandler provides no-op implementations for embedding.
type BaseEventHandler struct{}

func (BaseEventHandler) OnStateChange(StateChangeEvent)     {}
func (BaseEventHandler) OnSessionChange(SessionChangeEvent) {}

// eventEmitterWrapper adapts EventHandler to app.EventEmitter.
type eventEmitterWrapper struct {
	handler EventHandler
}

func (e *eventEmitterWrapper) OnStateChange(previous, current app.State, reason string) {
	if e.handler == nil {
		return
	}
	e.handler.OnStateChange(StateChangeEvent{
		Previous: State(previous),
		Current:  State(current),
		Reason:   reason,
	})
}
