// Package domain contains the core value types for padship.
//
// This package represents the innermost layer of the application. It has no
// dependencies on infrastructure concerns (sockets, file system, logging) and
// contains only the input model and its invariants.
//
// # Values
//
//   - [GamepadState]: absolute snapshot of an XInput style controller
//   - [MouseState]: relative mouse motion and scroll plus absolute buttons
//   - [Event]: the closed set of events carried over the wire
//   - [Status]: a point-in-time view of a running session, for reporting
//
// All values are plain comparable structs and are passed by value.
package domain
