package bridge

import (
	"context"
	"errors"
	"io"
	"net"
	"sync"
	"sync/atomic"

	"github.com/arloliu/go-rotbridge/k4"
	"github.com/arloliu/go-rotbridge/logger"
	"github.com/arloliu/go-rotbridge/rt21"
)

// SessionState represents the lifecycle stage of a Session.
type SessionState uint32

const (
	// ConnectingState indicates the session is dialing its device connection.
	ConnectingState SessionState = iota
	// ActiveState indicates the session is serving client commands.
	ActiveState
	// ClosingState indicates the session is tearing its connections down.
	ClosingState
	// ClosedState indicates both connections are closed; the session is done.
	ClosedState
)

// String returns the string representation of the session state.
func (s SessionState) String() string {
	switch s {
	case ConnectingState:
		return "connecting"
	case ActiveState:
		return "active"
	case ClosingState:
		return "closing"
	case ClosedState:
		return "closed"
	default:
		return "unknown"
	}
}

// Session binds exactly one client connection to exactly one device
// connection for its entire lifetime. It is created when a client connects
// and destroyed when the client disconnects or the device connection cannot
// be established; no two sessions ever share a device connection.
//
// All session work runs on the single goroutine started by the Listener.
// Close and State are the only methods safe to call from other goroutines.
type Session struct {
	id      uint64
	cfg     *Config
	logger  logger.Logger
	client  net.Conn
	device  *rt21.Client
	state   atomic.Uint32
	metrics *Metrics

	closeOnce sync.Once
}

func newSession(id uint64, clientConn net.Conn, cfg *Config, metrics *Metrics) *Session {
	return &Session{
		id:      id,
		cfg:     cfg,
		logger:  cfg.logger.With("session", id),
		client:  clientConn,
		metrics: metrics,
	}
}

// ID returns the listener-assigned session identifier.
func (s *Session) ID() uint64 { return s.id }

// State returns the current session state.
func (s *Session) State() SessionState {
	return SessionState(s.state.Load())
}

func (s *Session) setState(state SessionState) {
	s.state.Store(uint32(state))
}

// run drives the session until the client disconnects or the device
// connection cannot be established. A panic inside the loop is recovered
// here so a failing session never takes down the Listener or its siblings;
// teardown runs on every exit path.
func (s *Session) run(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("session panic recovered", "panic", r)
		}
		s.Close()
	}()

	device, err := rt21.Dial(ctx, rt21.ClientConfig{
		Address:        s.cfg.deviceAddress,
		ConnectTimeout: s.cfg.connectTimeout,
		AckTimeout:     s.cfg.ackTimeout,
		Logger:         s.logger,
	})
	if err != nil {
		s.metrics.incDeviceErrCount()
		s.logger.Error("failed to connect to device", "address", s.cfg.deviceAddress, "error", err)

		return
	}
	s.device = device

	s.setState(ActiveState)
	s.logger.Info("session active",
		"client_addr", s.client.RemoteAddr().String(),
		"device_addr", s.cfg.deviceAddress,
	)

	buf := make([]byte, s.cfg.readBufferSize)
	for {
		select {
		case <-ctx.Done():
			s.logger.Debug("session context canceled")
			return
		default:
		}

		n, err := s.client.Read(buf)
		if err != nil {
			// an orderly disconnect ends the session; it is not an error
			if !errors.Is(err, io.EOF) && !errors.Is(err, net.ErrClosed) {
				s.logger.Debug("client read failed", "error", err)
			}
			return
		}
		if n == 0 {
			return
		}

		reply := s.serveCommand(buf[:n])

		if _, err := s.client.Write(reply); err != nil {
			s.logger.Debug("client write failed", "error", err)
			return
		}
	}
}

// serveCommand runs one full parse → encode → transport → format cycle and
// returns the client-protocol reply. Exactly one command is in flight at a
// time; the caller does not read the next command until this returns.
func (s *Session) serveCommand(data []byte) []byte {
	cmd := k4.ParseCommand(data)
	s.logger.Debug("command received", "raw", string(data), "command", cmd.Kind.String())

	var res k4.Result

	switch cmd.Kind {
	case k4.KindQuery:
		s.metrics.incQueryCount()

		azimuth, err := s.device.QueryPosition()
		if err != nil {
			s.metrics.incDeviceErrCount()
			s.logger.Warn("position query failed", "error", err)
			res = k4.Failed(err)
		} else {
			res = k4.Position(azimuth)
		}

	case k4.KindMove:
		s.metrics.incMoveCount()

		// The parser accepts any digit run, but the 3-digit wire field
		// cannot carry targets above 999. Reject instead of sending a
		// corrupted command.
		if cmd.Azimuth > rt21.MaxMoveAzimuth {
			s.metrics.incInvalidCount()
			s.logger.Warn("move target exceeds wire field, rejected", "azimuth", cmd.Azimuth)

			return k4.ReplyError
		}

		res = s.sendToDevice(rt21.EncodeMove(cmd.Azimuth))

	case k4.KindStop:
		s.metrics.incStopCount()
		res = s.sendToDevice(rt21.StopCommand)

	default:
		s.metrics.incInvalidCount()
		s.logger.Debug("unrecognized command", "raw", string(data))
	}

	reply := k4.FormatReply(cmd, res, s.cfg.strictAck)
	s.logger.Debug("reply sent", "data", string(reply))

	return reply
}

func (s *Session) sendToDevice(command string) k4.Result {
	if err := s.device.Send(command); err != nil {
		s.metrics.incDeviceErrCount()
		s.logger.Warn("device send failed", "command", command, "error", err)

		return k4.Failed(err)
	}

	return k4.Acked()
}

// Close tears the session down, closing the client and the device
// connections. It is idempotent and safe to call from any goroutine;
// closing the sockets is also the only way to interrupt a session blocked
// in a read.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		s.setState(ClosingState)

		if s.device != nil {
			if err := s.device.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
				s.logger.Debug("device close failed", "error", err)
			}
		}

		if err := s.client.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
			s.logger.Debug("client close failed", "error", err)
		}

		s.setState(ClosedState)
		s.metrics.incSessionCloseCount()
		s.logger.Info("session closed")
	})
}
