package bridge

import "errors"

var (
	// ErrConfigNil indicates that a nil Config was provided.
	ErrConfigNil = errors.New("bridge config is nil")

	// ErrNotListening indicates an operation that requires a bound listener.
	ErrNotListening = errors.New("listener is not listening")

	// ErrShutdownTimeout indicates that sessions were still running when the
	// shutdown grace period expired.
	ErrShutdownTimeout = errors.New("shutdown timeout, sessions still running")
)
