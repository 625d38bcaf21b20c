// Package bridge couples the client-facing K4 protocol with the RT21 device
// protocol.
//
// A Listener accepts client connections and runs one Session per connection.
// Each Session pairs its client socket with its own freshly dialed device
// connection for the whole session lifetime and drives a strictly sequential
// parse → encode → transport → format loop: the next client command is not
// read until the previous one has been fully answered.
//
// Sessions are isolated: they share no mutable state beyond the listener's
// atomic metrics, so no locking exists between them. A session ends when its
// client disconnects or when the device connection cannot be established; a
// device failure mid-session only fails the affected command.
package bridge
