package transport

import (
	"fmt"
	"sync"
	"time"

	"github.com/bft-labs/padship/internal/domain"
	"github.com/bft-labs/padship/internal/ports"
)

// Role selects which side of the link a session is.
type Role int

const (
	RoleServer Role = iota
	RoleClient
)

func (r Role) String() string {
	switch r {
	case RoleServer:
		return "server"
	case RoleClient:
		return "client"
	default:
		return "unknown"
	}
}

// SessionState is the connection state of a session.
type SessionState int

const (
	SessionIdle SessionState = iota
	SessionListening
	SessionConnecting
	SessionConnected
	SessionDisconnected
	SessionEnded
)

func (s SessionState) String() string {
	switch s {
	case SessionIdle:
		return "Idle"
	case SessionListening:
		return "Listening"
	case SessionConnecting:
		return "Connecting"
	case SessionConnected:
		return "Connected"
	case SessionDisconnected:
		return "Disconnected"
	case SessionEnded:
		return "Ended"
	default:
		return "Unknown"
	}
}

var sessionEdges = map[Role]map[SessionState][]SessionState{
	RoleServer: {
		SessionIdle:      {SessionListening, SessionEnded},
		SessionListening: {SessionConnected, SessionEnded},
		SessionConnected: {SessionEnded},
	},
	RoleClient: {
		SessionIdle:         {SessionConnecting, SessionEnded},
		SessionConnecting:   {SessionConnected, SessionEnded},
		SessionConnected:    {SessionDisconnected, SessionEnded},
		SessionDisconnected: {SessionConnecting, SessionEnded},
	},
}

// Transition describes one state change of a session.
type Transition struct {
	Role   Role
	From   SessionState
	To     SessionState
	Peer   string
	Reason string
	At     time.Time
}

// Observer is notified after every session transition. It runs on the
// session's goroutine and must not block for long.
type Observer func(Transition)

// Session tracks the state of one server or client run.
type Session struct {
	role     Role
	logger   ports.Logger
	observer Observer

	mu    sync.RWMutex
	state SessionState
	peer  string
	since time.Time
}

func newSession(role Role, logger ports.Logger, observer Observer) *Session {
	return &Session{
		role:     role,
		logger:   logger,
		observer: observer,
		state:    SessionIdle,
		since:    time.Now(),
	}
}

// Role returns the session role.
func (s *Session) Role() Role { return s.role }

// State returns the current state.
func (s *Session) State() SessionState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Peer returns the remote address while connected.
func (s *Session) Peer() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.peer
}

// Since returns when the current state was entered.
func (s *Session) Since() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.since
}

func (s *Session) transition(to SessionState, peer, reason string) error {
	s.mu.Lock()
	from := s.state
	if !s.allowed(from, to) {
		s.mu.Unlock()
		return fmt.Errorf("%w: %s session %s to %s", domain.ErrInvalidTransition, s.role, from, to)
	}
	now := time.Now()
	s.state = to
	s.peer = peer
	s.since = now
	s.mu.Unlock()

	s.logger.Debug("session transition",
		ports.Stringer("role", s.role),
		ports.Stringer("from", from),
		ports.Stringer("to", to),
		ports.String("peer", peer),
		ports.String("reason", reason),
	)

	if s.observer != nil {
		s.observer(Transition{Role: s.role, From: from, To: to, Peer: peer, Reason: reason, At: now})
	}
	return nil
}

func (s *Session) allowed(from, to SessionState) bool {
	for _, st := range sessionEdges[s.role][from] {
		if st == to {
			return true
		}
	}
	return false
}

// end moves to Ended unless already there.
func (s *Session) end(reason string) {
	if s.State() == SessionEnded {
		return
	}
	_ = s.transition(SessionEnded, "", reason)
}
