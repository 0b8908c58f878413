package padship

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Host is the view of a running instance that plugins may use.
type Host interface {
	Status() State
	Session() SessionInfo
	SetSampleInterval(d time.Duration)
}

// PluginConfig is passed to Plugin.Initialize.
type PluginConfig struct {
	Config   Config
	Logger   Logger
	Gatherer prometheus.Gatherer
	Host     Host
}

// Plugin extends a Padship instance. Initialize is called from Start and
// Shutdown from Stop, or when a server instance stops on its own.
type Plugin interface {
	Name() string
	Initialize(ctx context.Context, cfg PluginConfig) error
	Shutdown(ctx context.Context) error
}

// BasePlugin provides no-op implementations for embedding.
type BasePlugin struct{}

func (BasePlugin) Name() string                                   { return "base" }
func (BasePlugin) Initialize(context.Context, PluginConfig) error { return nil }
func (BasePlugin) Shutdown(context.Context) error                 { return nil }

// safeInitialize turns a plugin panic into an error.
func safeInitialize(ctx context.Context, p Plugin, cfg PluginConfig) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("plugin %s panicked during initialization: %v", p.Name(), r)
		}
	}()
	return p.Initialize(ctx, cfg)
}

// safeShutdown turns a plugin panic into an error.
func safeShutdown(ctx context.Context, p Plugin) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("plugin %s panicked during shutdown: %v", p.Name(), r)
		}
	}()
	return p.Shutdown(ctx)
}
