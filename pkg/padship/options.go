package padship

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/bft-labs/padship/internal/domain"
	"github.com/bft-labs/padship/internal/ports"
	"github.com/bft-labs/padship/pkg/log"
)

// Re-exported types so embedders only import this package.
type (
	// Logger is the structured logging interface from pkg/log.
	Logger = log.Logger

	// LogField is a structured log field.
	LogField = log.Field

	// Sampler reads local device state once per tick.
	Sampler = ports.Sampler

	// SamplerFunc adapts a function to Sampler.
	SamplerFunc = ports.SamplerFunc

	// EventSink replays delivered events on a virtual device.
	EventSink = ports.EventSink

	// SinkFunc adapts a function to EventSink.
	SinkFunc = ports.SinkFunc

	// Event is one message on the link.
	Event = domain.Event

	// GamepadState is an absolute controller snapshot.
	GamepadState = domain.GamepadState

	// MouseState is a relative mouse sample.
	MouseState = domain.MouseState

	// SessionInfo is a point-in-time view of the current session.
	SessionInfo = domain.Status
)

// Errors returned by the public API.
var (
	ErrAlreadyRunning  = domain.ErrAlreadyRunning
	ErrNotRunning      = domain.ErrNotRunning
	ErrShutdownTimeout = domain.ErrShutdownTimeout
	ErrInvalidConfig   = domain.ErrInvalidConfig
)

// Option configures optional behavior of Padship.
type Option func(*options)

type options struct {
	logger       ports.Logger
	sampler      ports.Sampler
	sink         ports.EventSink
	eventHandler EventHandler
	plugins      []Plugin
	registry     *prometheus.Registry
}

func defaultOptions() options {
	return options{
		logger: log.Discard,
	}
}

// WithLogger sets a custom logger for structured logging.
// If not provided, a no-op logger is used (no output).
func WithLogger(logger Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithSampler sets the input source. Required for the server role.
func WithSampler(s Sampler) Option {
	return func(o *options) {
		o.sampler = s
	}
}

// WithSink sets the replay target. Required for the client role.
func WithSink(s EventSink) Option {
	return func(o *options) {
		o.sink = s
	}
}

// WithEventHandler sets a handler for padship events.
// Events are called synchronously from the transport goroutine.
func WithEventHandler(handler EventHandler) Option {
	return func(o *options) {
		o.eventHandler = handler
	}
}

// WithPlugin registers a plugin to be initialized when Padship starts.
// Plugins are initialized in registration order and shutdown in reverse order.
func WithPlugin(plugin Plugin) Option {
	return func(o *options) {
		o.plugins = append(o.plugins, plugin)
	}
}

// WithRegistry registers padship metrics on reg instead of a private
// registry.
func WithRegistry(reg *prometheus.Registry) Option {
	return func(o *options) {
		o.registry = reg
	}
}
