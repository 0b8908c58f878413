// Package ports defines the interfaces (ports) that connect the application
// layer to its collaborators and to infrastructure adapters.
//
// # Port Interfaces
//
//   - [Sampler]: produces one gamepad + mouse sample per tick (input SDK side)
//   - [EventSink]: applies delivered events to a virtual device (replay side)
//   - [Pusher] / [Popper]: the two ends of the bounded relay
//   - [Waiter]: the cancellable delay between reconnect attempts
//   - [Metrics]: traffic counters
//   - [StatusRepository]: persists the latest status snapshot
//   - [Logger]: structured logging abstraction
//
// The application layer (internal/app, internal/transport) depends only on
// these interfaces; internal/adapters provides the concrete implementations.
package ports
