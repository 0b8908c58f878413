// Package transport owns the TCP link between the sending and receiving
// side.
//
// A [Server] accepts exactly one peer and streams the events pushed by its
// producer until either side goes away; it never listens again. A [Client]
// dials the server, decodes inbound frames and pushes them to the local
// consumer, reconnecting after a fixed delay for as long as its context
// lives.
//
// Both roles report their progress through a [Session] state machine.
package transport
