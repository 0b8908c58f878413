// Package relay provides a bounded, strictly ordered queue connecting exactly
// one producer goroutine to exactly one consumer goroutine.
//
// The producer blocks when the queue is full instead of dropping, so nothing
// is ever lost silently. The capacity bounds how much stale input can pile up
// behind a slow network writer.
//
//	q := relay.New[domain.Event](relay.DefaultCapacity)
//
//	// producer
//	defer q.CloseProducer()
//	if err := q.Push(ctx, ev); errors.Is(err, relay.ErrPeerGone) { return }
//
//	// consumer
//	defer q.CloseConsumer()
//	ev, err := q.Pop(ctx)
//
// Closing either end makes the other end's next blocking call fail with
// ErrPeerGone. Events queued before the producer closed are still handed to
// the consumer first.
//
// # Version
//
// See version.go for version constants that can be used programmatically.
package relay
