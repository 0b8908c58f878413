package relay

import (
	"context"
	"errors"
	"sync"
)

// DefaultCapacity is the canonical queue size.
const DefaultCapacity = 8

var (
	// ErrPeerGone is returned when the opposite end of the relay has closed.
	ErrPeerGone = errors.New("relay: peer gone")

	// ErrClosed is returned when an end is used after it closed itself.
	ErrClosed = errors.New("relay: closed")
)

// Relay is a fixed-capacity FIFO for one producer and one consumer.
type Relay[T any] struct {
	ch           chan T
	producerGone chan struct{}
	consumerGone chan struct{}
	producerOnce sync.Once
	consumerOnce sync.Once
}

// New creates a relay holding at most capacity items.
// A capacity below 1 falls back to DefaultCapacity.
func New[T any](capacity int) *Relay[T] {
	if capacity < 1 {
		capacity = DefaultCapacity
	}
	return &Relay[T]{
		ch:           make(chan T, capacity),
		producerGone: make(chan struct{}),
		consumerGone: make(chan struct{}),
	}
}

// Push appends v, blocking while the relay is full.
func (r *Relay[T]) Push(ctx context.Context, v T) error {
	select {
	case <-r.producerGone:
		return ErrClosed
	case <-r.consumerGone:
		return ErrPeerGone
	default:
	}

	select {
	case r.ch <- v:
		return nil
	case <-r.consumerGone:
		return ErrPeerGone
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Pop removes the oldest item, blocking while the relay is empty.
func (r *Relay[T]) Pop(ctx context.Context) (T, error) {
	var zero T

	select {
	case <-r.consumerGone:
		return zero, ErrClosed
	default:
	}

	select {
	case v := <-r.ch:
		return v, nil
	case <-r.producerGone:
		// Hand over whatever was queued before the producer left.
		select {
		case v := <-r.ch:
			return v, nil
		default:
			return zero, ErrPeerGone
		}
	case <-ctx.Done():
		return zero, ctx.Err()
	}
}

// CloseProducer marks the producer end as gone. Safe to call more than once.
func (r *Relay[T]) CloseProducer() {
	r.producerOnce.Do(func() { close(r.producerGone) })
}

// CloseConsumer marks the consumer end as gone. Queued items are abandoned.
// Safe to call more than once.
func (r *Relay[T]) CloseConsumer() {
	r.consumerOnce.Do(func() { close(r.consumerGone) })
}

// Len returns the number of queued items.
func (r *Relay[T]) Len() int { return len(r.ch) }

// Cap returns the relay capacity.
func (r *Relay[T]) Cap() int { return cap(r.ch) }
