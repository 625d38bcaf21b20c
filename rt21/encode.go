package rt21

import "fmt"

// MaxMoveAzimuth is the largest azimuth the 3-digit move field can carry.
// Rotators only use [0, 359], but the wire field itself caps at 999.
const MaxMoveAzimuth = 999

const (
	// StopCommand is the RT21 stop-rotation command.
	StopCommand = ";"

	// queryCommand is the position query literal. It is issued directly by
	// the transport, never produced by the encoder.
	queryCommand = "AI1\r;"
)

// EncodeMove returns the RT21 move command for the given azimuth, e.g.
// 35 becomes "AP0035\r;".
//
// The azimuth is not clamped. A value outside [0, MaxMoveAzimuth] widens or
// corrupts the fixed 3-digit field and yields a command the device cannot
// execute; callers must reject out-of-range targets before encoding.
func EncodeMove(azimuth int) string {
	return fmt.Sprintf("AP0%03d\r;", azimuth)
}
