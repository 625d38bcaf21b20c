package k4

import "fmt"

// Client-protocol reply lines. These are the only reply shapes a client
// ever observes, besides the formatted position line.
var (
	ReplyOK    = []byte("OK\r\n")
	ReplyError = []byte("ERROR\r\n")
)

// ResultKind identifies the outcome class of forwarding one command to the
// device.
type ResultKind int

const (
	// ResultFailed indicates the device interaction failed.
	ResultFailed ResultKind = iota
	// ResultPosition carries an azimuth read back from the device.
	ResultPosition
	// ResultAcked indicates a move or stop command was written to the
	// device; any acknowledgment is advisory only.
	ResultAcked
)

// Result is the outcome of forwarding one Command to the device.
type Result struct {
	Kind    ResultKind
	Azimuth int   // set when Kind is ResultPosition
	Err     error // set when Kind is ResultFailed
}

// Position returns a Result carrying the azimuth reported by the device.
func Position(azimuth int) Result {
	return Result{Kind: ResultPosition, Azimuth: azimuth}
}

// Acked returns a Result for a move or stop command that was written to
// the device.
func Acked() Result {
	return Result{Kind: ResultAcked}
}

// Failed returns a Result for a device interaction that failed.
func Failed(err error) Result {
	return Result{Kind: ResultFailed, Err: err}
}

// FormatPosition renders an azimuth as a client position reply, always
// zero-padded to three digits.
func FormatPosition(azimuth int) []byte {
	return fmt.Appendf(nil, "AZ=%03d\r\n", azimuth)
}

// FormatReply maps the result of forwarding cmd to the device into
// client-protocol bytes.
//
// Queries answer with the position line on success and "ERROR\r\n" on
// failure. Invalid commands always answer "ERROR\r\n".
//
// Move and stop commands answer "OK\r\n" even when the device send failed.
// This mirrors the historical translator behavior, where a failed move/stop
// write was logged but never surfaced to the client; queries remain the
// authoritative way to observe the rotator. Passing strictAck true changes
// that single decision: a failed move/stop then answers "ERROR\r\n".
func FormatReply(cmd Command, res Result, strictAck bool) []byte {
	switch cmd.Kind {
	case KindQuery:
		if res.Kind == ResultPosition {
			return FormatPosition(res.Azimuth)
		}
		return ReplyError

	case KindMove, KindStop:
		if strictAck && res.Kind == ResultFailed {
			return ReplyError
		}
		return ReplyOK

	default:
		return ReplyError
	}
}
