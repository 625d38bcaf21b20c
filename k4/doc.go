// Package k4 implements the client-facing rotator control protocol spoken by
// K4-Control style software.
//
// The protocol is a line-less ASCII request/response exchange. Each client
// read is treated as one command:
//
//   - C...       query the current azimuth, answered with "AZ=nnn\r\n"
//   - Mnnn       move to azimuth nnn, answered with "OK\r\n"
//   - S, STOP, ; stop rotation, answered with "OK\r\n"
//
// Anything else is answered with "ERROR\r\n". Classification is
// case-insensitive and surrounding whitespace is ignored.
//
// The package is purely computational: ParseCommand turns raw client bytes
// into a Command, and FormatReply turns the outcome of forwarding that
// command to the device back into client-protocol bytes. All I/O lives in
// the bridge and rt21 packages.
package k4
