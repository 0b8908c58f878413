// Package padship provides an embeddable gamepad and mouse streaming link.
//
// One side runs in the server role: it samples local input through a
// [Sampler], keeps only what changed, and streams fixed 16-byte frames to the
// first peer that connects. The other side runs in the client role: it dials
// the server, reconnecting forever after a fixed delay, and hands every
// decoded [Event] to an [EventSink] that replays it on a virtual device.
//
// # Basic Usage
//
// Sending side:
//
//	p, err := padship.New(padship.Config{Role: padship.RoleServer},
//	    padship.WithSampler(mySampler),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := p.Start(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	<-p.Done()
//
// Receiving side:
//
//	p, err := padship.New(padship.Config{Role: padship.RoleClient, Addr: "steamdeck"},
//	    padship.WithSink(mySink),
//	)
//
// # Lifecycle States
//
// An instance is in one of [StateStopped], [StateStarting], [StateRunning],
// [StateStopping] or [StateCrashed]. A server instance stops by itself once
// its single session has ended. A client instance runs until [Padship.Stop].
//
// # Plugins
//
// Plugins are initialised in registration order when Start is called and
// shut down in reverse order. See plugins/configwatcher and
// plugins/statusserver.
package padship
