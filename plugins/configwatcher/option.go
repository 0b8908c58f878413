package configwatcher

import "github.com/bft-labs/padship/pkg/padship"

// WithConfigWatcher returns a padship Option that enables config file
// watching.
//
// Usage:
//
//	p, err := padship.New(cfg,
//	    configwatcher.WithConfigWatcher(configwatcher.Config{
//	        Path:          "/etc/padship/config.toml",
//	        DebounceDelay: 100 * time.Millisecond,
//	    }),
//	)
func WithConfigWatcher(cfg Config) padship.Option {
	return padship.WithPlugin(New(cfg))
}

// WithDefaultConfigWatcher watches ~/.padship/config.toml.
func WithDefaultConfigWatcher() padship.Option {
	return WithConfigWatcher(DefaultConfig())
}
