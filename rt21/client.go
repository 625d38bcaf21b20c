package rt21

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/arloliu/go-rotbridge/logger"
)

const (
	// DefaultConnectTimeout bounds the TCP dial to the device.
	DefaultConnectTimeout = 5 * time.Second

	// DefaultAckTimeout bounds the wait for the optional acknowledgment a
	// device may send after a move or stop command.
	DefaultAckTimeout = 2 * time.Second

	// responseBufSize is the maximum device response read in one call.
	// RT21 replies are a handful of bytes; 1 KiB matches the historical
	// translator's receive size.
	responseBufSize = 1024
)

// ClientConfig carries the parameters for dialing an RT21 device.
type ClientConfig struct {
	// Address is the host:port of the device.
	Address string

	// ConnectTimeout bounds the TCP dial. Defaults to DefaultConnectTimeout.
	ConnectTimeout time.Duration

	// AckTimeout bounds the advisory acknowledgment read after a move or
	// stop command. Defaults to DefaultAckTimeout.
	AckTimeout time.Duration

	// Logger receives wire-level traffic logs. Defaults to the global logger.
	Logger logger.Logger
}

// Client owns the TCP connection to one RT21 device.
//
// Client is not goroutine-safe: the protocol is strictly request/response
// and a Client is confined to the single session goroutine that owns it.
// Close is the exception — it may be called from any goroutine to unblock a
// stalled read.
type Client struct {
	conn       net.Conn
	logger     logger.Logger
	ackTimeout time.Duration
	readBuf    []byte
	closed     atomic.Bool
	closeOnce  sync.Once
}

// Dial opens the connection to the device at cfg.Address, bounded by the
// connect timeout. A dial failure is terminal for the caller's session; the
// Client performs no reconnection.
func Dial(ctx context.Context, cfg ClientConfig) (*Client, error) {
	if cfg.ConnectTimeout <= 0 {
		cfg.ConnectTimeout = DefaultConnectTimeout
	}

	dialer := &net.Dialer{KeepAlive: 30 * time.Second}

	dialCtx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	defer cancel()

	conn, err := dialer.DialContext(dialCtx, "tcp", cfg.Address)
	if err != nil {
		return nil, fmt.Errorf("dial device at %s: %w", cfg.Address, err)
	}

	client := NewClient(conn, cfg.AckTimeout, cfg.Logger)
	client.logger.Debug("connected to device",
		"address", cfg.Address,
		"local_addr", conn.LocalAddr().String(),
	)

	return client, nil
}

// NewClient wraps an already-established device connection. It is used by
// Dial and by tests that construct the peer with net.Pipe.
func NewClient(conn net.Conn, ackTimeout time.Duration, l logger.Logger) *Client {
	if ackTimeout <= 0 {
		ackTimeout = DefaultAckTimeout
	}
	if l == nil {
		l = logger.GetLogger()
	}

	return &Client{
		conn:       conn,
		logger:     l,
		ackTimeout: ackTimeout,
		readBuf:    make([]byte, responseBufSize),
	}
}

// QueryPosition sends the position query and blocks for the device's
// response, returning the azimuth parsed from the first decimal digit run
// in it.
//
// The response read has no deadline of its own: an unresponsive device
// blocks the caller until the connection is closed from outside. This is a
// deliberate, documented limitation — the query response is authoritative
// and the protocol gives no way to distinguish "slow" from "dead".
func (c *Client) QueryPosition() (int, error) {
	if c.closed.Load() {
		return 0, ErrClientClosed
	}

	if err := c.writeCommand(queryCommand); err != nil {
		return 0, fmt.Errorf("send position query: %w", err)
	}

	if err := c.conn.SetReadDeadline(time.Time{}); err != nil {
		return 0, fmt.Errorf("clear read deadline: %w", err)
	}

	n, err := c.conn.Read(c.readBuf)
	if err != nil {
		return 0, fmt.Errorf("read query response: %w", err)
	}

	response := c.readBuf[:n]
	c.logger.Debug("device response", "data", string(response))

	azimuth, ok := firstDigitRun(response)
	if !ok {
		return 0, ErrNoDigits
	}

	return azimuth, nil
}

// Send writes an encoded move or stop command and waits briefly for the
// optional acknowledgment. The ack is advisory: a read that times out or
// fails is a normal outcome and any ack that does arrive is captured for
// logging only. Only a failure to write the command itself is returned.
func (c *Client) Send(command string) error {
	if c.closed.Load() {
		return ErrClientClosed
	}

	if err := c.writeCommand(command); err != nil {
		return fmt.Errorf("send command: %w", err)
	}

	if err := c.conn.SetReadDeadline(time.Now().Add(c.ackTimeout)); err != nil {
		return fmt.Errorf("set ack deadline: %w", err)
	}

	n, err := c.conn.Read(c.readBuf)
	if err != nil {
		var netErr net.Error
		if errors.As(err, &netErr) && netErr.Timeout() {
			// no acknowledgment within the window
			return nil
		}

		return fmt.Errorf("read acknowledgment: %w", err)
	}

	c.logger.Debug("device acknowledgment", "data", string(c.readBuf[:n]))

	return nil
}

// Close shuts the device connection down. It is idempotent and safe to call
// from any goroutine; closing the socket is also the only way to interrupt
// a QueryPosition blocked on an unresponsive device.
func (c *Client) Close() error {
	var err error
	c.closeOnce.Do(func() {
		c.closed.Store(true)
		err = c.conn.Close()
	})

	return err
}

// RemoteAddr returns the device's remote address.
func (c *Client) RemoteAddr() net.Addr {
	return c.conn.RemoteAddr()
}

func (c *Client) writeCommand(command string) error {
	c.logger.Debug("send to device", "data", command)

	_, err := c.conn.Write([]byte(command))

	return err
}

// firstDigitRun scans data for the first run of decimal digits and parses
// it. It reports false when no digits exist or the run does not fit in an
// int.
func firstDigitRun(data []byte) (int, bool) {
	start := -1
	for i, c := range data {
		isDigit := c >= '0' && c <= '9'

		if isDigit && start < 0 {
			start = i
			continue
		}

		if !isDigit && start >= 0 {
			return parseDigits(data[start:i])
		}
	}

	if start >= 0 {
		return parseDigits(data[start:])
	}

	return 0, false
}

func parseDigits(digits []byte) (int, bool) {
	n, err := strconv.Atoi(string(digits))
	if err != nil {
		return 0, false
	}

	return n, true
}
