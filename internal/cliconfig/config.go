package cliconfig

import (
	"fmt"
	"strconv"
	"time"

	"github.com/bft-labs/padship/internal/domain"
	"github.com/bft-labs/padship/internal/transport"
)

// Roles selected by the serve and connect commands.
const (
	RoleServer = "server"
	RoleClient = "client"
)

// DefaultListenAddr is where the server listens unless told otherwise.
const DefaultListenAddr = ":" + transport.DefaultPort

// Config holds CLI configuration for padship.
type Config struct {
	Role string
	Addr string

	SampleInterval      time.Duration
	QueueCapacity       int
	RetryInterval       time.Duration
	DialTimeout         time.Duration
	HeartbeatInterval   time.Duration
	SlowReplayThreshold time.Duration

	StateDir    string
	MetricsAddr string
	Input       string
	Output      string
	LogLevel    string
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{
		SampleInterval:      3 * time.Millisecond,
		QueueCapacity:       8,
		RetryInterval:       3 * time.Second,
		DialTimeout:         5 * time.Second,
		SlowReplayThreshold: 10 * time.Millisecond,
		Input:               "-",
		Output:              "-",
		LogLevel:            "info",
	}
}

// Validate checks the configuration for errors and sets derived defaults.
func (c *Config) Validate() error {
	switch c.Role {
	case RoleServer:
		if c.Addr == "" {
			c.Addr = DefaultListenAddr
		}
	case RoleClient:
		if c.Addr == "" {
			return fmt.Errorf("%w: server address is required", domain.ErrInvalidConfig)
		}
		c.Addr = transport.WithDefaultPort(c.Addr)
	default:
		return fmt.Errorf("%w: unknown role %q", domain.ErrInvalidConfig, c.Role)
	}

	if c.SampleInterval <= 0 {
		return fmt.Errorf("%w: sample interval must be positive", domain.ErrInvalidConfig)
	}
	if c.RetryInterval <= 0 {
		return fmt.Errorf("%w: retry interval must be positive", domain.ErrInvalidConfig)
	}
	if c.DialTimeout <= 0 {
		return fmt.Errorf("%w: dial timeout must be positive", domain.ErrInvalidConfig)
	}
	if c.HeartbeatInterval < 0 {
		return fmt.Errorf("%w: heartbeat interval must not be negative", domain.ErrInvalidConfig)
	}
	if c.QueueCapacity < 1 {
		return fmt.Errorf("%w: queue capacity must be at least 1", domain.ErrInvalidConfig)
	}
	if c.SlowReplayThreshold <= 0 {
		c.SlowReplayThreshold = 10 * time.Millisecond
	}

	return nil
}

// configSetter helps apply configuration values while respecting flag precedence.
// It only applies values if the corresponding flag hasn't been explicitly set.
type configSetter struct {
	changed map[string]bool
}

func newConfigSetter(changed map[string]bool) *configSetter {
	return &configSetter{changed: changed}
}

// setString sets a string value if not empty and flag not changed.
func (s *configSetter) setString(flag, value string, dst *string) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value
}

// setInt sets an int value if positive and flag not changed.
func (s *configSetter) setInt(flag string, value int, dst *int) {
	if value <= 0 || s.changed[flag] {
		return
	}
	*dst = value
}

// setDuration parses and sets a duration from string if valid and flag not changed.
func (s *configSetter) setDuration(flag, value string, dst *time.Duration) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	*dst = d
	return nil
}

// setIntFromString parses a string to int and sets the destination if valid.
// Used for environment variables that come as strings.
func (s *configSetter) setIntFromString(flag, value string, dst *int) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	i, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	if i <= 0 {
		return nil
	}
	*dst = i
	return nil
}
