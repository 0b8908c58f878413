package domain

import "time"

// Counters are cumulative traffic counters for one padship instance.
type Counters struct {
	FramesSent      uint64 `json:"frames_sent"`
	FramesReceived  uint64 `json:"frames_received"`
	FramesRejected  uint64 `json:"frames_rejected"`
	ConnectFailures uint64 `json:"connect_failures"`
	Sessions        uint64 `json:"sessions"`
}

// Status is a point-in-time view of a padship instance.
type Status struct {
	Role      string    `json:"role"`
	Addr      string    `json:"addr"`
	Session   string    `json:"session"`
	Peer      string    `json:"peer,omitempty"`
	Since     time.Time `json:"since"`
	UpdatedAt time.Time `json:"updated_at"`
	Counters  Counters  `json:"counters"`
}
