package bridge

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/puzpuzpuz/xsync/v3"

	"github.com/arloliu/go-rotbridge/logger"
)

// Listener accepts client connections on the configured address and spawns
// one Session per connection. There is no bound on concurrent sessions; each
// session independently dials its own device connection, so a device that
// accepts only one connection at a time will make concurrent sessions race
// for it.
type Listener struct {
	cfg    *Config
	logger logger.Logger

	listenerMutex sync.Mutex
	listener      net.Listener

	sessions *xsync.MapOf[uint64, *Session]
	nextID   atomic.Uint64
	wg       sync.WaitGroup
	shutdown atomic.Bool

	metrics Metrics
}

// NewListener creates a Listener with the given configuration.
func NewListener(cfg *Config) (*Listener, error) {
	if cfg == nil {
		return nil, ErrConfigNil
	}

	return &Listener{
		cfg:      cfg,
		logger:   cfg.logger,
		sessions: xsync.NewMapOf[uint64, *Session](),
	}, nil
}

// GetMetrics returns the metrics shared by the Listener and its Sessions.
func (l *Listener) GetMetrics() *Metrics {
	return &l.metrics
}

// Addr returns the bound listen address, or nil before Listen succeeds.
// Useful when listening on an ephemeral port.
func (l *Listener) Addr() net.Addr {
	l.listenerMutex.Lock()
	defer l.listenerMutex.Unlock()

	if l.listener == nil {
		return nil
	}

	return l.listener.Addr()
}

// Listen binds the client listen address. Canceling ctx closes the listener
// and stops acceptance; sessions already blocked in a read are not
// interrupted by the context alone — Shutdown force-closes them.
func (l *Listener) Listen(ctx context.Context) error {
	var lc net.ListenConfig

	listener, err := lc.Listen(ctx, "tcp", l.cfg.listenAddress)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", l.cfg.listenAddress, err)
	}

	l.listenerMutex.Lock()
	l.listener = listener
	l.listenerMutex.Unlock()

	// stop accepting when the context is canceled; Accept unblocks on close
	context.AfterFunc(ctx, func() {
		_ = l.closeListener()
	})

	l.logger.Info("listening for clients",
		"listen_addr", listener.Addr().String(),
		"device_addr", l.cfg.deviceAddress,
	)

	return nil
}

// Serve runs the accept loop until the context is canceled or Shutdown is
// called. Each accepted connection gets its own Session goroutine.
func (l *Listener) Serve(ctx context.Context) error {
	l.listenerMutex.Lock()
	listener := l.listener
	l.listenerMutex.Unlock()

	if listener == nil {
		return ErrNotListening
	}

	for {
		conn, err := listener.Accept()
		if err != nil {
			if l.shutdown.Load() || ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				l.logger.Debug("accept loop terminated", "error", err)
				return nil
			}

			l.logger.Error("failed to accept connection", "error", err)
			continue
		}

		id := l.nextID.Add(1)
		session := newSession(id, conn, l.cfg, &l.metrics)

		l.sessions.Store(id, session)
		l.metrics.incSessionOpenCount()
		l.logger.Info("client connected", "session", id, "remote_addr", conn.RemoteAddr().String())

		l.wg.Add(1)
		go func() {
			defer l.wg.Done()
			defer l.sessions.Delete(id)

			session.run(ctx)
		}()
	}
}

// ListenAndServe binds the listen address and runs the accept loop.
func (l *Listener) ListenAndServe(ctx context.Context) error {
	if err := l.Listen(ctx); err != nil {
		return err
	}

	return l.Serve(ctx)
}

// Shutdown stops accepting new clients, force-closes every live session and
// waits up to the configured close timeout for their goroutines to finish.
// Closing the session sockets is what unblocks reads stalled on a client or
// an unresponsive device; shutdown is best-effort, not guaranteed-prompt.
func (l *Listener) Shutdown() error {
	if !l.shutdown.CompareAndSwap(false, true) {
		return nil
	}

	l.logger.Info("shutting down", "live_sessions", l.metrics.SessionGauge.Load())

	_ = l.closeListener()

	l.sessions.Range(func(_ uint64, session *Session) bool {
		session.Close()
		return true
	})

	done := make(chan struct{})
	go func() {
		l.wg.Wait()
		close(done)
	}()

	timer := time.NewTimer(l.cfg.closeTimeout)
	defer timer.Stop()

	select {
	case <-done:
		l.logger.Info("shutdown complete")
		return nil
	case <-timer.C:
		l.logger.Error("shutdown timeout", "timeout", l.cfg.closeTimeout)
		return ErrShutdownTimeout
	}
}

func (l *Listener) closeListener() error {
	l.listenerMutex.Lock()
	defer l.listenerMutex.Unlock()

	if l.listener != nil {
		err := l.listener.Close()
		l.listener = nil
		return err
	}

	return nil
}
