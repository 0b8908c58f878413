// Package padship streams gamepad and mouse input from one machine to
// another over TCP.
//
// Example usage:
//
//	cfg := padship.DefaultConfig(padship.RoleServer)
//	if err := padship.Run(ctx, cfg, padship.WithSampler(sampler)); err != nil {
//	    log.Fatal(err)
//	}
//
// For start/stop control, plugins and events use pkg/padship directly.
package padship

import (
	"context"
	"errors"

	"github.com/bft-labs/padship/pkg/log"
	core "github.com/bft-labs/padship/pkg/padship"
)

// Config holds the configuration of a padship instance.
type Config = core.Config

// Role selects the server or client side of the link.
type Role = core.Role

// Option configures optional behavior.
type Option = core.Option

const (
	RoleServer = core.RoleServer
	RoleClient = core.RoleClient
)

// Options re-exported for callers of Run.
var (
	WithLogger       = core.WithLogger
	WithSampler      = core.WithSampler
	WithSink         = core.WithSink
	WithEventHandler = core.WithEventHandler
	WithPlugin       = core.WithPlugin
	WithRegistry     = core.WithRegistry
)

// DefaultConfig returns a Config for role with every default filled in.
// A client still needs Addr before calling Run.
func DefaultConfig(role Role) Config {
	cfg := Config{Role: role}
	cfg.SetDefaults()
	return cfg
}

// Run starts an instance and blocks until ctx is cancelled or the session
// ends on its own. A server returns after its single peer leaves; a client
// only returns when ctx is cancelled or its sink stops accepting events.
func Run(ctx context.Context, cfg Config, opts ...Option) error {
	p, err := core.New(cfg, opts...)
	if err != nil {
		return err
	}
	if err := p.Start(ctx); err != nil {
		return err
	}

	select {
	case <-ctx.Done():
	case <-p.Done():
	}

	if err := p.Stop(); err != nil && !errors.Is(err, core.ErrNotRunning) {
		return err
	}
	return p.Err()
}

// NewLogger returns a zerolog console logger at the named level
// ("debug", "info", "warn", "error").
func NewLogger(level string) core.Logger {
	return log.NewZerologAdapter(log.ParseLevel(level))
}
