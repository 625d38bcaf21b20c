// Package rt21 implements the native wire protocol of the RT21 rotator
// controller and the TCP transport that speaks it.
//
// The wire protocol is a short ASCII command set:
//
//   - "AI1\r;"    query the current azimuth; the device answers with text
//     containing the position as a decimal digit run (e.g. "030;")
//   - "AP0nnn\r;" move to azimuth nnn, always zero-padded to three digits
//   - ";"         stop rotation
//
// Responses to move and stop commands are advisory: many firmware revisions
// acknowledge, some stay silent. Only the position query has an
// authoritative response.
//
// A Client owns the TCP connection to one device for the lifetime of one
// bridge session. It never reconnects; once the socket breaks, every
// subsequent operation fails and the owning session decides what to do.
package rt21
