package padship

import (
	"fmt"
	"time"

	"github.com/bft-labs/padship/internal/app"
	"github.com/bft-labs/padship/internal/domain"
	"github.com/bft-labs/padship/internal/transport"
	"github.com/bft-labs/padship/pkg/relay"
)

// Role selects which side of the link an instance runs.
type Role string

const (
	// RoleServer samples local input and streams it to one peer.
	RoleServer Role = "server"
	// RoleClient receives events and replays them locally.
	RoleClient Role = "client"
)

// Config holds the configuration of a padship instance.
type Config struct {
	// Role is RoleServer or RoleClient. Required.
	Role Role

	// Addr is the listen address (server) or the server address (client).
	// A client address without a port gets port 7777.
	// Default: ":7777" for the server role.
	Addr string

	// SampleInterval is how often the sampler is polled.
	// Default: 3ms
	SampleInterval time.Duration

	// QueueCapacity bounds the relay between producer and consumer.
	// Default: 8
	QueueCapacity int

	// RetryInterval is the fixed delay between client connection attempts.
	// Default: 3s
	RetryInterval time.Duration

	// DialTimeout bounds a single client connection attempt.
	// Default: 5s
	DialTimeout time.Duration

	// HeartbeatInterval makes the server send a Timestamp event at this
	// interval. Zero disables heartbeats.
	HeartbeatInterval time.Duration

	// SlowReplayThreshold is the replay duration above which the client
	// logs a warning.
	// Default: 10ms
	SlowReplayThreshold time.Duration

	// StateDir, when set, receives a status.json snapshot on every session
	// transition.
	StateDir string
}

// SetDefaults fills in zero values with defaults.
func (c *Config) SetDefaults() {
	if c.Addr == "" && c.Role == RoleServer {
		c.Addr = ":" + transport.DefaultPort
	}
	if c.SampleInterval == 0 {
		c.SampleInterval = app.DefaultSampleInterval
	}
	if c.QueueCapacity == 0 {
		c.QueueCapacity = relay.DefaultCapacity
	}
	if c.RetryInterval == 0 {
		c.RetryInterval = app.DefaultRetryInterval
	}
	if c.DialTimeout == 0 {
		c.DialTimeout = transport.DefaultDialTimeout
	}
	if c.SlowReplayThreshold == 0 {
		c.SlowReplayThreshold = app.DefaultSlowReplayThreshold
	}
}

// Validate checks the configuration. Errors wrap domain.ErrInvalidConfig.
func (c *Config) Validate() error {
	switch c.Role {
	case RoleServer:
	case RoleClient:
		if c.Addr == "" {
			return fmt.Errorf("%w: client requires a server address", domain.ErrInvalidConfig)
		}
		c.Addr = transport.WithDefaultPort(c.Addr)
	default:
		return fmt.Errorf("%w: unknown role %q", domain.ErrInvalidConfig, c.Role)
	}

	if c.SampleInterval < 0 {
		return fmt.Errorf("%w: sample interval must be positive", domain.ErrInvalidConfig)
	}
	if c.QueueCapacity < 0 {
		return fmt.Errorf("%w: queue capacity must be positive", domain.ErrInvalidConfig)
	}
	if c.RetryInterval < 0 {
		return fmt.Errorf("%w: retry interval must be positive", domain.ErrInvalidConfig)
	}
	if c.DialTimeout < 0 {
		return fmt.Errorf("%w: dial timeout must be positive", domain.ErrInvalidConfig)
	}
	if c.HeartbeatInterval < 0 {
		return fmt.Errorf("%w: heartbeat interval must not be negative", domain.ErrInvalidConfig)
	}
	if c.SlowReplayThreshold < 0 {
		return fmt.Errorf("%w: slow replay threshold must be positive", domain.ErrInvalidConfig)
	}
	return nil
}
