package domain

import "errors"

// Domain errors represent error conditions in the padship domain.
// These errors are returned by the public API and can be checked with errors.Is.
var (
	// ErrAlreadyRunning is returned when Start() is called on a running instance.
	ErrAlreadyRunning = errors.New("padship: already running")

	// ErrNotRunning is returned when Stop() is called on a stopped instance.
	ErrNotRunning = errors.New("padship: not running")

	// ErrShutdownTimeout is returned when graceful shutdown times out.
	ErrShutdownTimeout = errors.New("padship: shutdown timeout")

	// ErrInvalidConfig is returned when configuration validation fails.
	ErrInvalidConfig = errors.New("padship: invalid configuration")

	// ErrInvalidTransition is returned when a session state machine is asked
	// to move along an edge it does not have.
	ErrInvalidTransition = errors.New("padship: invalid state transition")
)
