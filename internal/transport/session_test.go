package transport

import (
	"errors"
	"testing"

	"github.com/bft-labs/padship/internal/domain"
	"github.com/bft-labs/padship/pkg/log"
)

func TestSession_Transitions(t *testing.T) {
	tests := []struct {
		role Role
		from SessionState
		to   SessionState
		ok   bool
	}{
		{RoleServer, SessionIdle, SessionListening, true},
		{RoleServer, SessionListening, SessionConnected, true},
		{RoleServer, SessionListening, SessionEnded, true},
		{RoleServer, SessionConnected, SessionEnded, true},
		{RoleServer, SessionEnded, SessionListening, false},
		{RoleServer, SessionConnected, SessionDisconnected, false},
		{RoleServer, SessionIdle, SessionConnecting, false},

		{RoleClient, SessionIdle, SessionConnecting, true},
		{RoleClient, SessionConnecting, SessionConnected, true},
		{RoleClient, SessionConnected, SessionDisconnected, true},
		{RoleClient, SessionDisconnected, SessionConnecting, true},
		{RoleClient, SessionConnected, SessionEnded, true},
		{RoleClient, SessionConnecting, SessionEnded, true},
		{RoleClient, SessionIdle, SessionListening, false},
		{RoleClient, SessionDisconnected, SessionConnected, false},
		{RoleClient, SessionEnded, SessionConnecting, false},
	}

	for _, tt := range tests {
		t.Run(tt.role.String()+" "+tt.from.String()+" to "+tt.to.String(), func(t *testing.T) {
			var seen []Transition
			s := newSession(tt.role, log.Discard, func(tr Transition) { seen = append(seen, tr) })
			s.state = tt.from

			err := s.transition(tt.to, "peer:1", "test")

			if tt.ok {
				if err != nil {
					t.Fatalf("transition() = %v, want nil", err)
				}
				if s.State() != tt.to {
					t.Errorf("State() = %v, want %v", s.State(), tt.to)
				}
				if len(seen) != 1 || seen[0].From != tt.from || seen[0].To != tt.to || seen[0].Role != tt.role {
					t.Errorf("observer saw %+v", seen)
				}
				return
			}
			if !errors.Is(err, domain.ErrInvalidTransition) {
				t.Fatalf("transition() = %v, want ErrInvalidTransition", err)
			}
			if s.State() != tt.from {
				t.Errorf("State() = %v after rejected transition, want %v", s.State(), tt.from)
			}
			if len(seen) != 0 {
				t.Errorf("observer called on rejected transition")
			}
		})
	}
}

func TestSession_EndIsIdempotent(t *testing.T) {
	calls := 0
	s := newSession(RoleClient, log.Discard, func(Transition) { calls++ })
	s.end("first")
	s.end("second")
	if s.State() != SessionEnded {
		t.Errorf("State() = %v, want Ended", s.State())
	}
	if calls != 1 {
		t.Errorf("observer called %d times, want 1", calls)
	}
}

func TestSession_Peer(t *testing.T) {
	s := newSession(RoleServer, log.Discard, nil)
	_ = s.transition(SessionListening, "", "listen")
	_ = s.transition(SessionConnected, "10.0.0.2:5000", "accepted")
	if s.Peer() != "10.0.0.2:5000" {
		t.Errorf("Peer() = %q", s.Peer())
	}
	_ = s.transition(SessionEnded, "", "done")
	if s.Peer() != "" {
		t.Errorf("Peer() after end = %q, want empty", s.Peer())
	}
}

func TestWithDefaultPort(t *testing.T) {
	tests := []struct{ in, want string }{
		{"steamdeck", "steamdeck:7777"},
		{"steamdeck:9000", "steamdeck:9000"},
		{"192.168.1.20", "192.168.1.20:7777"},
		{"::1", "[::1]:7777"},
		{"[::1]:8000", "[::1]:8000"},
		{":7777", ":7777"},
	}
	for _, tt := range tests {
		if got := WithDefaultPort(tt.in); got != tt.want {
			t.Errorf("WithDefaultPort(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestRole_String(t *testing.T) {
	if RoleServer.String() != "server" || RoleClient.String() != "client" || Role(7).String() != "unknown" {
		t.Error("unexpected Role strings")
	}
	if SessionState(42).String() != "Unknown" {
		t.Error("unexpected SessionState string")
	}
}
