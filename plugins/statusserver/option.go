package statusserver

import "github.com/bft-labs/padship/pkg/padship"

// WithStatusServer returns a padship Option that serves status and metrics
// on addr.
//
// Usage:
//
//	p, err := padship.New(cfg, statusserver.WithStatusServer("127.0.0.1:9777"))
func WithStatusServer(addr string) padship.Option {
	return padship.WithPlugin(New(Config{Addr: addr}))
}
