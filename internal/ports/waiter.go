package ports

import "context"

// Waiter is the delay between reconnect attempts.
type Waiter interface {
	// Wait blocks for the current delay or until ctx is done, in which case
	// it returns ctx.Err().
	Wait(ctx context.Context) error

	// Reset is called after a successful connection.
	Reset()
}
