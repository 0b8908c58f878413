// Package statusserver exposes a running padship instance over HTTP:
// /healthz, /status (JSON session snapshot) and /metrics (Prometheus).
package statusserver

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/bft-labs/padship/pkg/log"
	"github.com/bft-labs/padship/pkg/padship"
)

// DefaultAddr is the listen address used when Config.Addr is empty.
const DefaultAddr = "127.0.0.1:9777"

// Config holds configuration options for the status server plugin.
type Config struct {
	// Addr is the HTTP listen address.
	// Default: 127.0.0.1:9777
	Addr string

	// ShutdownTimeout bounds graceful HTTP shutdown.
	// Default: 5 seconds
	ShutdownTimeout time.Duration
}

// Plugin serves status and metrics for the instance it is attached to.
type Plugin struct {
	addr            string
	shutdownTimeout time.Duration

	mu     sync.Mutex
	logger padship.Logger
	server *http.Server
	ln     net.Listener
	wg     sync.WaitGroup
}

// statusResponse is the /status body.
type statusResponse struct {
	State string `json:"state"`
	padship.SessionInfo
}

// New creates a new status server plugin.
func New(cfg Config) *Plugin {
	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = 5 * time.Second
	}
	return &Plugin{addr: cfg.Addr, shutdownTimeout: cfg.ShutdownTimeout}
}

// Name returns the plugin identifier.
func (p *Plugin) Name() string {
	return "statusserver"
}

// Initialize binds the listen address and starts serving.
func (p *Plugin) Initialize(ctx context.Context, cfg padship.PluginConfig) error {
	ln, err := net.Listen("tcp", p.addr)
	if err != nil {
		return err
	}

	gatherer := cfg.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}

	srv := &http.Server{
		Handler:           Router(cfg.Host, gatherer),
		ReadHeaderTimeout: 5 * time.Second,
	}

	p.mu.Lock()
	p.logger = cfg.Logger
	p.server = srv
	p.ln = ln
	p.mu.Unlock()

	p.logger.Info("status server listening", log.String("addr", ln.Addr().String()))

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			p.logger.Error("status server stopped", log.Err(err))
		}
	}()
	return nil
}

// Shutdown stops the HTTP server gracefully.
func (p *Plugin) Shutdown(ctx context.Context) error {
	p.mu.Lock()
	srv := p.server
	p.mu.Unlock()
	if srv == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, p.shutdownTimeout)
	defer cancel()
	err := srv.Shutdown(ctx)
	p.wg.Wait()
	return err
}

// Addr returns the bound address, or nil before Initialize.
func (p *Plugin) Addr() net.Addr {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.ln == nil {
		return nil
	}
	return p.ln.Addr()
}

// Router builds the HTTP routes for host. It is exported so embedders can
// mount it in their own server.
func Router(host padship.Host, gatherer prometheus.Gatherer) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if host.Status() != padship.StateRunning {
			http.Error(w, host.Status().String(), http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte("ok\n"))
	})

	r.Get("/status", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(statusResponse{
			State:       host.Status().String(),
			SessionInfo: host.Session(),
		})
	})

	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	return r
}

// Ensure Plugin implements padship.Plugin.
var _ padship.Plugin = (*Plugin)(nil)
