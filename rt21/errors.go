package rt21

import "errors"

var (
	// ErrNoDigits indicates that a device response to a position query
	// contained no usable decimal digit run.
	ErrNoDigits = errors.New("no digits in device response")

	// ErrClientClosed indicates an operation on a closed client.
	ErrClientClosed = errors.New("rt21 client closed")
)
