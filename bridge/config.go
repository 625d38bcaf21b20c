package bridge

import (
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/arloliu/go-rotbridge/logger"
	"github.com/arloliu/go-rotbridge/rt21"
)

// Config represents the configuration parameters for a Listener and the
// Sessions it spawns.
type Config struct {
	// listenAddress is the host:port the Listener binds for clients.
	listenAddress string

	// deviceAddress is the host:port of the RT21 device every Session dials.
	deviceAddress string

	// connectTimeout bounds the device dial performed at session start.
	// Defaults to 5 seconds.
	connectTimeout time.Duration

	// ackTimeout bounds the advisory acknowledgment read after a move or
	// stop command. Defaults to 2 seconds.
	ackTimeout time.Duration

	// closeTimeout bounds the wait for session goroutines during shutdown.
	// Defaults to 3 seconds.
	closeTimeout time.Duration

	// readBufferSize is the size of the per-session client read buffer.
	// One client read is one command. Defaults to 1024.
	readBufferSize int

	// strictAck propagates a failed move/stop device send to the client as
	// "ERROR\r\n" instead of the historical "OK\r\n". Defaults to false.
	strictAck bool

	// logger provides a logger instance for bridge events and wire traffic.
	logger logger.Logger
}

// NewConfig creates a bridge configuration for the given client listen
// address and device address, applying the provided functional options.
//
// Both addresses must be host:port strings; the listen address may omit the
// host ("":6555" style) to bind all interfaces.
func NewConfig(listenAddress, deviceAddress string, opts ...Option) (*Config, error) {
	cfg := &Config{
		connectTimeout: rt21.DefaultConnectTimeout,
		ackTimeout:     rt21.DefaultAckTimeout,
		closeTimeout:   3 * time.Second,
		readBufferSize: 1024,
		logger:         logger.GetLogger(),
	}

	if _, _, err := net.SplitHostPort(listenAddress); err != nil {
		return nil, fmt.Errorf("invalid listen address %q: %w", listenAddress, err)
	}
	cfg.listenAddress = listenAddress

	host, _, err := net.SplitHostPort(deviceAddress)
	if err != nil {
		return nil, fmt.Errorf("invalid device address %q: %w", deviceAddress, err)
	}
	if host == "" {
		return nil, fmt.Errorf("device address %q has no host", deviceAddress)
	}
	cfg.deviceAddress = deviceAddress

	for _, opt := range opts {
		if err := opt.apply(cfg); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

// ListenAddress returns the configured client listen address.
func (cfg *Config) ListenAddress() string { return cfg.listenAddress }

// DeviceAddress returns the configured device address.
func (cfg *Config) DeviceAddress() string { return cfg.deviceAddress }

// StrictAck reports whether failed move/stop sends are surfaced to clients.
func (cfg *Config) StrictAck() bool { return cfg.strictAck }

// Option represents a functional option for configuring a Config.
type Option interface {
	apply(*Config) error
}

type optFunc struct {
	name      string
	applyFunc func(*Config) error
}

func (o *optFunc) apply(cfg *Config) error { return o.applyFunc(cfg) }

func newOptFunc(name string, f func(*Config) error) *optFunc {
	return &optFunc{name: name, applyFunc: f}
}

// WithConnectTimeout sets the timeout for dialing the device at session
// start. It must be within [100ms, 30s].
//
// The default value is 5 seconds.
func WithConnectTimeout(val time.Duration) Option {
	return newOptFunc("WithConnectTimeout", func(cfg *Config) error {
		if cfg == nil {
			return ErrConfigNil
		}

		if val < 100*time.Millisecond || val > 30*time.Second {
			return errors.New("connect timeout out of range [0.1, 30]")
		}
		cfg.connectTimeout = val

		return nil
	})
}

// WithAckTimeout sets the timeout for the advisory acknowledgment read after
// a move or stop command. It must be within [10ms, 30s].
//
// The default value is 2 seconds.
func WithAckTimeout(val time.Duration) Option {
	return newOptFunc("WithAckTimeout", func(cfg *Config) error {
		if cfg == nil {
			return ErrConfigNil
		}

		if val < 10*time.Millisecond || val > 30*time.Second {
			return errors.New("ack timeout out of range [0.01, 30]")
		}
		cfg.ackTimeout = val

		return nil
	})
}

// WithCloseTimeout sets the grace period Shutdown waits for session
// goroutines to finish. It must be within [1s, 30s].
//
// The default value is 3 seconds.
func WithCloseTimeout(val time.Duration) Option {
	return newOptFunc("WithCloseTimeout", func(cfg *Config) error {
		if cfg == nil {
			return ErrConfigNil
		}

		if val < 1*time.Second || val > 30*time.Second {
			return errors.New("close timeout out of range [1, 30]")
		}
		cfg.closeTimeout = val

		return nil
	})
}

// WithReadBufferSize sets the per-session client read buffer size in bytes.
// It must be within [64, 65536].
//
// The default value is 1024.
func WithReadBufferSize(size int) Option {
	return newOptFunc("WithReadBufferSize", func(cfg *Config) error {
		if cfg == nil {
			return ErrConfigNil
		}

		if size < 64 || size > 65536 {
			return errors.New("read buffer size out of range [64, 65536]")
		}
		cfg.readBufferSize = size

		return nil
	})
}

// WithStrictAck controls whether a failed move/stop device send is surfaced
// to the client as "ERROR\r\n".
//
// The historical translator always answered "OK\r\n" and left queries as the
// authoritative signal; that remains the default (false).
func WithStrictAck(val bool) Option {
	return newOptFunc("WithStrictAck", func(cfg *Config) error {
		if cfg == nil {
			return ErrConfigNil
		}

		cfg.strictAck = val

		return nil
	})
}

// WithLogger sets the logger for the Listener and its Sessions.
//
// The default logger is the global logger instance.
func WithLogger(l logger.Logger) Option {
	return newOptFunc("WithLogger", func(cfg *Config) error {
		if cfg == nil {
			return ErrConfigNil
		}
		if l == nil {
			return errors.New("logger is nil")
		}

		cfg.logger = l

		return nil
	})
}
