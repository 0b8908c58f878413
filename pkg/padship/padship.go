package padship

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/bft-labs/padship/internal/adapters/fs"
	"github.com/bft-labs/padship/internal/adapters/metrics"
	"github.com/bft-labs/padship/internal/app"
	"github.com/bft-labs/padship/internal/domain"
	"github.com/bft-labs/padship/internal/ports"
	"github.com/bft-labs/padship/internal/transport"
	"github.com/bft-labs/padship/pkg/log"
	"github.com/bft-labs/padship/pkg/relay"
)

// Padship is an input streaming link that can be embedded in other
// applications. Use New() to create an instance, then Start() to begin.
type Padship struct {
	config     Config
	opts       options
	lifecycle  *app.Lifecycle
	stats      *app.Stats
	pump       *app.Pump
	registry   *prometheus.Registry
	statusRepo ports.StatusRepository
	logger     ports.Logger
	emitter    *eventEmitterWrapper
	plugins    []Plugin

	mu     sync.Mutex
	cancel context.CancelFunc

	// statusMu guards status, done and runErr. Observers and event
	// handlers run while mu is held by Start, so nothing they can reach
	// takes mu.
	statusMu sync.Mutex
	status   domain.Status
	done     chan struct{}
	runErr   error
}

// New creates a new Padship instance with the given configuration.
// The instance is created in StateStopped; call Start() to begin.
func New(cfg Config, opts ...Option) (*Padship, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if err := validateModuleVersions(); err != nil {
		return nil, err
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	switch {
	case cfg.Role == RoleServer && o.sampler == nil:
		return nil, fmt.Errorf("%w: server role requires a sampler", domain.ErrInvalidConfig)
	case cfg.Role == RoleClient && o.sink == nil:
		return nil, fmt.Errorf("%w: client role requires a sink", domain.ErrInvalidConfig)
	}

	registry := o.registry
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	emitter := &eventEmitterWrapper{handler: o.eventHandler}

	p := &Padship{
		config:    cfg,
		opts:      o,
		lifecycle: app.NewLifecycle(o.logger, emitter),
		stats:     app.NewStats(metrics.NewPrometheus(registry, metrics.DefaultNamespace)),
		registry:  registry,
		logger:    o.logger,
		emitter:   emitter,
		plugins:   o.plugins,
		status: domain.Status{
			Role:    string(cfg.Role),
			Addr:    cfg.Addr,
			Session: transport.SessionIdle.String(),
		},
	}
	if cfg.StateDir != "" {
		p.statusRepo = fs.NewStatusFileRepository(cfg.StateDir)
	}
	if cfg.Role == RoleServer {
		p.pump = app.NewPump(o.sampler, o.logger, cfg.SampleInterval, cfg.HeartbeatInterval)
	}
	return p, nil
}

// Start begins streaming in the background and returns once the server is
// listening or the client has started dialing. The provided context bounds
// the lifetime of the instance.
func (p *Padship) Start(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.lifecycle.CanStart() {
		return domain.ErrAlreadyRunning
	}
	if err := p.lifecycle.TransitionTo(app.StateStarting, "Start() called"); err != nil {
		return err
	}

	runCtx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	p.lifecycle.SetCancel(cancel)

	pluginCfg := PluginConfig{
		Config:   p.config,
		Logger:   p.logger,
		Gatherer: p.registry,
		Host:     p,
	}
	for i, pl := range p.plugins {
		if err := safeInitialize(runCtx, pl, pluginCfg); err != nil {
			p.logger.Error("plugin initialization failed",
				ports.String("plugin", pl.Name()),
				ports.Err(err))
			cancel()
			p.shutdownPlugins(p.plugins[:i])
			_ = p.lifecycle.TransitionTo(app.StateCrashed, "plugin init failed: "+pl.Name())
			return err
		}
		p.logger.Info("plugin initialized", ports.String("plugin", pl.Name()))
	}

	run, err := p.prepare()
	if err != nil {
		cancel()
		p.shutdownPlugins(p.plugins)
		_ = p.lifecycle.TransitionTo(app.StateCrashed, err.Error())
		return err
	}

	done := make(chan struct{})
	p.statusMu.Lock()
	p.done = done
	p.runErr = nil
	p.statusMu.Unlock()
	p.lifecycle.Go(func() {
		defer close(done)
		err := run(runCtx)
		if runCtx.Err() == nil {
			p.finish(err)
		}
	})

	return p.lifecycle.TransitionTo(app.StateRunning, string(p.config.Role)+" started")
}

// prepare builds the transport for the configured role. The server binds
// here so a bad address fails Start.
func (p *Padship) prepare() (func(context.Context) error, error) {
	switch p.config.Role {
	case RoleServer:
		srv := transport.NewServer(transport.ServerConfig{
			Addr:          p.config.Addr,
			QueueCapacity: p.config.QueueCapacity,
		}, p.logger, p.stats, p.observe)
		if err := srv.Listen(); err != nil {
			return nil, err
		}
		p.setAddr(srv.Addr().String())
		return func(ctx context.Context) error {
			return srv.Run(ctx, p.pump.Run)
		}, nil

	case RoleClient:
		cli := transport.NewClient(transport.ClientConfig{
			Addr:        p.config.Addr,
			DialTimeout: p.config.DialTimeout,
		}, p.logger, p.stats, app.NewFixedBackoff(p.config.RetryInterval), p.observe)
		dispatcher := app.NewDispatcher(p.opts.sink, p.logger, p.config.SlowReplayThreshold)
		return func(ctx context.Context) error {
			return p.receive(ctx, cli, dispatcher)
		}, nil

	default:
		return nil, fmt.Errorf("%w: unknown role %q", domain.ErrInvalidConfig, p.config.Role)
	}
}

// receive runs the client and the dispatcher joined by a relay.
func (p *Padship) receive(ctx context.Context, cli *transport.Client, d *app.Dispatcher) error {
	q := relay.New[domain.Event](p.config.QueueCapacity)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		defer q.CloseConsumer()
		if err := d.Run(ctx, q); err != nil && !errors.Is(err, relay.ErrPeerGone) && ctx.Err() == nil {
			p.logger.Error("dispatcher stopped", ports.Err(err))
		}
	}()

	err := cli.Run(ctx, q)
	q.CloseProducer()
	wg.Wait()
	return err
}

// finish stops an instance whose run ended without Stop being called.
func (p *Padship) finish(runErr error) {
	p.mu.Lock()
	if !p.lifecycle.CanStop() {
		p.mu.Unlock()
		return
	}
	if err := p.lifecycle.TransitionTo(app.StateStopping, "session ended"); err != nil {
		p.mu.Unlock()
		return
	}
	p.cancel()
	p.mu.Unlock()

	p.shutdownPlugins(p.plugins)

	if runErr != nil {
		p.statusMu.Lock()
		p.runErr = runErr
		p.statusMu.Unlock()
		p.logger.Error("run failed", ports.Err(runErr))
		_ = p.lifecycle.TransitionTo(app.StateCrashed, runErr.Error())
		return
	}
	_ = p.lifecycle.TransitionTo(app.StateStopped, "session ended")
}

// Stop shuts the instance down and waits for its goroutines.
// Returns nil on graceful shutdown, ErrShutdownTimeout if forced.
func (p *Padship) Stop() error {
	p.mu.Lock()

	if !p.lifecycle.CanStop() {
		p.mu.Unlock()
		return domain.ErrNotRunning
	}
	if err := p.lifecycle.TransitionTo(app.StateStopping, "Stop() called"); err != nil {
		p.mu.Unlock()
		return err
	}
	if p.cancel != nil {
		p.cancel()
	}
	p.mu.Unlock()

	err := p.lifecycle.WaitWithTimeout(app.ShutdownTimeout)

	p.shutdownPlugins(p.plugins)

	if err != nil {
		_ = p.lifecycle.TransitionTo(app.StateCrashed, "shutdown timeout")
	} else {
		_ = p.lifecycle.TransitionTo(app.StateStopped, "graceful shutdown")
	}
	return err
}

func (p *Padship) shutdownPlugins(plugins []Plugin) {
	ctx := context.Background()
	for i := len(plugins) - 1; i >= 0; i-- {
		pl := plugins[i]
		if err := safeShutdown(ctx, pl); err != nil {
			p.logger.Error("plugin shutdown failed",
				ports.String("plugin", pl.Name()),
				ports.Err(err))
		} else {
			p.logger.Info("plugin shutdown complete", ports.String("plugin", pl.Name()))
		}
	}
}

// Done returns a channel closed when the current run has finished. It is
// nil before the first Start.
func (p *Padship) Done() <-chan struct{} {
	p.statusMu.Lock()
	defer p.statusMu.Unlock()
	return p.done
}

// Err returns the error that ended the last run on its own, if any.
func (p *Padship) Err() error {
	p.statusMu.Lock()
	defer p.statusMu.Unlock()
	return p.runErr
}

// Status returns the current lifecycle state.
// Safe to call concurrently from any goroutine.
func (p *Padship) Status() State {
	return State(p.lifecycle.State())
}

// Session returns a snapshot of the connection state and traffic counters.
func (p *Padship) Session() SessionInfo {
	p.statusMu.Lock()
	s := p.status
	p.statusMu.Unlock()

	s.Counters = p.stats.Snapshot()
	s.UpdatedAt = time.Now()
	return s
}

// SetSampleInterval changes how often the sampler is polled. It takes effect
// immediately on a running server and is ignored by clients.
func (p *Padship) SetSampleInterval(d time.Duration) {
	if p.pump == nil {
		p.logger.Debug("sample interval ignored by client role")
		return
	}
	p.pump.SetInterval(d)
}

// Registry returns the Prometheus registry holding padship metrics.
func (p *Padship) Registry() *prometheus.Registry {
	return p.registry
}

func (p *Padship) setAddr(addr string) {
	p.statusMu.Lock()
	p.status.Addr = addr
	p.statusMu.Unlock()
}

// observe records a session transition, persists it and notifies the
// event handler.
func (p *Padship) observe(tr transport.Transition) {
	p.statusMu.Lock()
	p.status.Session = tr.To.String()
	p.status.Peer = tr.Peer
	p.status.Since = tr.At
	p.statusMu.Unlock()

	if p.statusRepo != nil {
		if err := p.statusRepo.Save(context.Background(), p.Session()); err != nil {
			p.logger.Warn("save status failed", ports.Err(err))
		}
	}

	if h := p.emitter.handler; h != nil {
		h.OnSessionChange(SessionChangeEvent{
			Role:     Role(tr.Role.String()),
			Previous: tr.From.String(),
			Current:  tr.To.String(),
			Peer:     tr.Peer,
			Reason:   tr.Reason,
			At:       tr.At,
		})
	}
}

// validateModuleVersions checks that all module versions are compatible.
func validateModuleVersions() error {
	modules := map[string]struct {
		version    string
		minVersion string
	}{
		"log":   {log.Version, log.MinCompatibleVersion},
		"relay": {relay.Version, relay.MinCompatibleVersion},
	}

	for name, m := range modules {
		if !isVersionCompatible(m.version, m.minVersion) {
			return fmt.Errorf("module %s version %s is below minimum compatible version %s",
				name, m.version, m.minVersion)
		}
	}
	return nil
}

// isVersionCompatible reports whether version >= minVersion.
// Versions are "major.minor.patch".
func isVersionCompatible(version, minVersion string) bool {
	var vMajor, vMinor, vPatch int
	var mMajor, mMinor, mPatch int

	_, _ = fmt.Sscanf(version, "%d.%d.%d", &vMajor, &vMinor, &vPatch)
	_, _ = fmt.Sscanf(minVersion, "%d.%d.%d", &mMajor, &mMinor, &mPatch)

	if vMajor != mMajor {
		return vMajor > mMajor
	}
	if vMinor != mMinor {
		return vMinor > mMinor
	}
	return vPatch >= mPatch
}
