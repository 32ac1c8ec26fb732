// Package server implements the listening acceptor: it enforces
// max_connections admission control, constructs a ClientSession per accepted
// connection, and routes session events to a user-supplied Handler.
package server

import (
	"context"
	stderrors "errors"
	"net"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jpillora/backoff"
	"go.uber.org/multierr"
	"golang.org/x/sync/semaphore"

	"github.com/lduchosal/asyncsocket/errors"
	"github.com/lduchosal/asyncsocket/framer"
	"github.com/lduchosal/asyncsocket/internal/lifecycle"
	"github.com/lduchosal/asyncsocket/ioop"
	"github.com/lduchosal/asyncsocket/log"
	"github.com/lduchosal/asyncsocket/session"
)

// Server owns the listening socket, the admission semaphore, the live
// session registry, and the I/O-Op Pool (spec §3, §4.4). Construct one with
// New, run it with Run, and release its resources with Dispose.
type Server[M any] struct {
	config  *Config
	factory framer.Factory[M]
	handler Handler[M]
	logger  log.Logger

	sem      *semaphore.Weighted
	pool     *ioop.Pool
	registry *registry[M]
	gate     lifecycle.Gate

	mu       sync.Mutex
	listener net.Listener

	disposeOnce sync.Once
}

// New constructs a Server. factory produces one Framer per accepted
// connection; handler receives OnConnected/OnMessage/OnDisconnected events;
// logger may be nil, in which case logging is discarded.
func New[M any](config *Config, factory framer.Factory[M], handler Handler[M], logger log.Logger) *Server[M] {
	if logger == nil {
		logger = log.Nop{}
	}
	return &Server[M]{
		config:   config,
		factory:  factory,
		handler:  handler,
		logger:   logger,
		sem:      semaphore.NewWeighted(int64(config.MaxConnections)),
		pool:     ioop.NewPool(config.BufferSize),
		registry: newRegistry[M](),
	}
}

// Run binds the configured endpoint and loops accepting connections until
// ctx is cancelled or the listener fails unrecoverably (spec §4.4). It
// returns ctx.Err() on cancellation, or an errors.ErrListen if binding
// fails or the listener is closed (for example by Dispose). Other accept
// errors are logged and retried with backoff.
func (s *Server[M]) Run(ctx context.Context) error {
	lc := net.ListenConfig{}
	ln, err := lc.Listen(ctx, string(s.config.Protocol), s.config.Address())
	if err != nil {
		return errors.ErrListen{Context: errors.ListenContext{Address: s.config.Address()}, Inner: err}
	}

	s.mu.Lock()
	s.listener = ln
	s.mu.Unlock()

	retry := &backoff.Backoff{Min: 5 * time.Millisecond, Max: time.Second, Factor: 2}

	for {
		if err := s.sem.Acquire(ctx, 1); err != nil {
			return ctx.Err()
		}

		conn, acceptErr := ln.Accept()
		if acceptErr != nil {
			s.sem.Release(1)
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if stderrors.Is(acceptErr, net.ErrClosed) {
				return errors.ErrListen{Context: errors.ListenContext{Address: s.config.Address()}, Inner: acceptErr}
			}
			s.logger.Log(ctx, log.LogLevelError, "accept failed", map[string]interface{}{
				"error": acceptErr.Error(),
			})
			time.Sleep(retry.Duration())
			continue
		}
		retry.Reset()

		go s.acceptClient(ctx, conn)
	}
}

// acceptClient builds a session for conn and wires it into the registry and
// handler, then starts its receive loop (spec §4.4's accept pipeline, steps
// 2-3). gate.TryEnter is called before anything else so that Dispose can
// find and stop this connection even if it panics or is still mid-accept
// when Dispose runs (see Dispose).
func (s *Server[M]) acceptClient(ctx context.Context, conn net.Conn) {
	if err := s.gate.TryEnter(); err != nil {
		_ = conn.Close()
		s.sem.Release(1)
		return
	}

	id := uuid.NewString()
	fr := s.factory.NewFramer()
	sess := session.New[M](id, conn, fr, s.config.BufferSize, s.pool, s.logger)

	if !s.safeOnConnected(sess) {
		_ = conn.Close()
		s.sem.Release(1)
		s.gate.Leave()
		return
	}

	sess.OnMessage = func(m M) {
		s.handler.OnMessage(sess, m)
	}
	sess.OnDisconnected = func(sessionID string) {
		s.safeOnDisconnected(sess)
		s.registry.remove(sessionID)
		s.sem.Release(1)
		s.gate.Leave()
	}
	s.registry.insert(sess)

	sess.Start(ctx)
}

// safeOnConnected invokes handler.OnConnected, recovering any panic so a
// misbehaving handler cannot crash the accept goroutine (spec §2 item 6 /
// §4.6). It reports whether OnConnected returned normally; the caller must
// tear down the connection itself when it did not, since the session's own
// Stop convergence point was never reached.
func (s *Server[M]) safeOnConnected(sess *session.ClientSession[M]) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Log(context.Background(), log.LogLevelError, "panic in connect handler", map[string]interface{}{
				"session_id": sess.ID(),
				"panic":      r,
			})
			ok = false
		}
	}()
	s.handler.OnConnected(sess)
	return true
}

// safeOnDisconnected invokes handler.OnDisconnected, recovering any panic so
// a misbehaving handler cannot crash whichever goroutine drove the session
// to a stop (spec §2 item 6 / §4.6).
func (s *Server[M]) safeOnDisconnected(sess *session.ClientSession[M]) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Log(context.Background(), log.LogLevelError, "panic in disconnect handler", map[string]interface{}{
				"session_id": sess.ID(),
				"panic":      r,
			})
		}
	}()
	s.handler.OnDisconnected(sess)
}

// Count returns the number of sessions currently admitted: accepted
// connections that have not yet disconnected, including ones still mid-
// accept and not yet visible in the session registry.
func (s *Server[M]) Count() int {
	return s.gate.Count()
}

// Dispose closes the listener, stops every live session, waits for them to
// finish tearing down, and disposes the I/O-Op Pool (spec §4.4). Idempotent;
// concurrent and repeated calls all observe the same teardown exactly once.
//
// Closing the gate first blocks every future acceptClient from admitting a
// new connection, but a connection that already called gate.TryEnter before
// Close runs may still be between TryEnter and registry.insert when the
// stop-all pass below takes its snapshot, so that pass alone could miss it
// and leave it running forever. Looping the snapshot-and-stop pass until the
// gate drains closes that window: the gap between TryEnter and insert
// includes the handler's OnConnected call, so its length is not bounded, but
// every iteration takes a fresh snapshot and stops the session on the first
// pass after it is registered. acceptClient wires the session's callbacks
// before inserting it, so that Stop always reaches the OnDisconnected path
// that leaves the gate.
func (s *Server[M]) Dispose() error {
	var err error
	s.disposeOnce.Do(func() {
		s.mu.Lock()
		ln := s.listener
		s.mu.Unlock()
		if ln != nil {
			if cerr := ln.Close(); cerr != nil {
				err = multierr.Append(err, cerr)
			}
		}

		s.gate.Close()

		ticker := time.NewTicker(5 * time.Millisecond)
		defer ticker.Stop()
		for {
			s.registry.each(func(sess *session.ClientSession[M]) {
				sess.Stop()
			})
			select {
			case <-s.gate.Done():
				s.pool.Dispose()
				return
			case <-ticker.C:
			}
		}
	})
	return err
}
