// Package configwatcher reloads the padship config file while an instance
// runs. Only sample_interval takes effect without a restart; other changed
// keys are logged.
package configwatcher

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/bft-labs/padship/internal/cliconfig"
	"github.com/bft-labs/padship/pkg/log"
	"github.com/bft-labs/padship/pkg/padship"
)

// Plugin watches a TOML config file and applies live-reloadable settings.
type Plugin struct {
	mu sync.Mutex

	path          string
	debounceDelay time.Duration

	logger   padship.Logger
	host     padship.Host
	last     cliconfig.FileConfig
	cancel   context.CancelFunc
	wg       sync.WaitGroup
	debounce *time.Timer
	reloads  int
}

// Config holds configuration options for the config watcher plugin.
type Config struct {
	// Path is the TOML file to watch. Empty disables the plugin.
	Path string

	// DebounceDelay is how long to wait after the last change before
	// reloading. Editors often write a file in several steps.
	// Default: 100 milliseconds
	DebounceDelay time.Duration
}

// DefaultConfig watches the default config path.
func DefaultConfig() Config {
	return Config{
		Path:          cliconfig.DefaultConfigPath(),
		DebounceDelay: 100 * time.Millisecond,
	}
}

// New creates a new config watcher plugin with the given configuration.
func New(cfg Config) *Plugin {
	if cfg.DebounceDelay <= 0 {
		cfg.DebounceDelay = 100 * time.Millisecond
	}
	return &Plugin{
		path:          cfg.Path,
		debounceDelay: cfg.DebounceDelay,
	}
}

// Name returns the plugin identifier.
func (p *Plugin) Name() string {
	return "configwatcher"
}

// Initialize reads the current file and starts watching it.
func (p *Plugin) Initialize(ctx context.Context, cfg padship.PluginConfig) error {
	p.mu.Lock()
	p.logger = cfg.Logger
	p.host = cfg.Host
	p.mu.Unlock()

	if p.path == "" || !cliconfig.FileExists(p.path) {
		p.logger.Warn("config watcher disabled: no config file", log.String("path", p.path))
		return nil
	}

	if fc, err := cliconfig.LoadFileConfig(p.path); err == nil {
		p.mu.Lock()
		p.last = fc
		p.mu.Unlock()
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	// Watch the directory: editors replace files by rename, which drops a
	// watch on the file itself.
	if err := watcher.Add(filepath.Dir(p.path)); err != nil {
		_ = watcher.Close()
		return err
	}

	watchCtx, cancel := context.WithCancel(ctx)
	p.cancel = cancel

	p.logger.Info("config watcher started", log.String("path", p.path))

	p.wg.Add(1)
	go p.watchLoop(watchCtx, watcher)
	return nil
}

// Shutdown stops the watcher and any pending reload.
func (p *Plugin) Shutdown(ctx context.Context) error {
	if p.cancel != nil {
		p.cancel()
	}
	p.wg.Wait()

	p.mu.Lock()
	if p.debounce != nil {
		p.debounce.Stop()
	}
	p.mu.Unlock()
	return nil
}

// Reloads returns how many times the file has been applied.
func (p *Plugin) Reloads() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.reloads
}

func (p *Plugin) watchLoop(ctx context.Context, watcher *fsnotify.Watcher) {
	defer p.wg.Done()
	defer watcher.Close()

	name := filepath.Base(p.path)
	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != name {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			p.debounceReload(ctx)

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			p.logger.Error("config watcher error", log.Err(err))
		}
	}
}

func (p *Plugin) debounceReload(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.debounce != nil {
		p.debounce.Stop()
	}
	p.debounce = time.AfterFunc(p.debounceDelay, func() {
		if ctx.Err() != nil {
			return
		}
		p.reload()
	})
}

// reload parses the file and applies what changed. A file that fails to
// parse leaves the running settings untouched.
func (p *Plugin) reload() {
	fc, err := cliconfig.LoadFileConfig(p.path)
	if err != nil {
		p.logger.Warn("config reload failed", log.String("path", p.path), log.Err(err))
		return
	}

	p.mu.Lock()
	prev := p.last
	p.last = fc
	p.reloads++
	host := p.host
	p.mu.Unlock()

	if fc.SampleInterval != prev.SampleInterval && fc.SampleInterval != "" {
		d, err := time.ParseDuration(fc.SampleInterval)
		if err != nil || d <= 0 {
			p.logger.Warn("invalid sample_interval", log.String("value", fc.SampleInterval))
		} else if host != nil {
			host.SetSampleInterval(d)
			p.logger.Info("sample interval reloaded", log.Duration("interval", d))
		}
	}

	prev.SampleInterval = fc.SampleInterval
	if prev != fc {
		p.logger.Info("config changed; restart to apply", log.String("path", p.path))
	}
}

// Ensure Plugin implements padship.Plugin.
var _ padship.Plugin = (*Plugin)(nil)
