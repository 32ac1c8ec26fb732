// Package session implements ClientSession, the per-connection state
// machine that owns one accepted socket, drives its receive loop through a
// Framer, and exposes a Send operation.
package session

import (
	"context"
	"io"
	"net"
	"sync"
	"sync/atomic"

	"github.com/lduchosal/asyncsocket/errors"
	"github.com/lduchosal/asyncsocket/framer"
	"github.com/lduchosal/asyncsocket/ioop"
	"github.com/lduchosal/asyncsocket/log"
)

// state values for ClientSession.state (spec §4.3: fresh -> running ->
// stopped, stopped is terminal).
const (
	stateFresh int32 = iota
	stateRunning
	stateStopped
)

// ClientSession runs one accepted TCP connection from Start to Stop. It owns
// its socket, its Framer, and its receive buffer outright; it only shares
// the process-wide IOOp Pool with its Server and sibling sessions.
//
// Construct with New, wire OnMessage/OnDisconnected before calling Start,
// then call Start exactly once.
type ClientSession[M any] struct {
	id       string
	conn     net.Conn
	framer   framer.Framer[M]
	bufSize  int
	pool     *ioop.Pool
	logger   log.Logger

	state int32

	stopOnce sync.Once
	done     chan struct{}

	sendMu sync.Mutex

	// OnMessage fires for every complete message the Framer yields, in
	// byte-stream order. OnDisconnected fires exactly once, after the last
	// OnMessage call for this session. Both must be set before Start and
	// must not be mutated afterward; they may be called concurrently with
	// callbacks for other sessions but never concurrently with each other
	// for the same session (spec §4.6).
	OnMessage      func(M)
	OnDisconnected func(id string)
}

// New constructs a ClientSession. id is caller-supplied and must be stable
// and unique for the session's lifetime (the Server generates one per
// accepted connection). recvBufSize is the size of the receive buffer
// requested from pool for this session's single outstanding read.
func New[M any](id string, conn net.Conn, fr framer.Framer[M], recvBufSize int, pool *ioop.Pool, logger log.Logger) *ClientSession[M] {
	if logger == nil {
		logger = log.Nop{}
	}
	return &ClientSession[M]{
		id:      id,
		conn:    conn,
		framer:  fr,
		bufSize: recvBufSize,
		pool:    pool,
		logger:  logger,
		done:    make(chan struct{}),
	}
}

// ID returns this session's stable identifier.
func (s *ClientSession[M]) ID() string { return s.id }

// RemoteAddr returns the peer's address, or nil if unavailable.
func (s *ClientSession[M]) RemoteAddr() net.Addr { return s.conn.RemoteAddr() }

// LocalAddr returns the local address the connection was accepted on.
func (s *ClientSession[M]) LocalAddr() net.Addr { return s.conn.LocalAddr() }

func (s *ClientSession[M]) running() bool {
	return atomic.LoadInt32(&s.state) == stateRunning
}

// Start transitions the session from fresh to running and begins its
// receive loop in a new goroutine. Cancelling ctx triggers a graceful Stop
// (spec §4.3, §5 cancellation wiring). Start returns a channel that closes
// once the session has fully stopped; it must be called at most once.
func (s *ClientSession[M]) Start(ctx context.Context) <-chan struct{} {
	atomic.StoreInt32(&s.state, stateRunning)

	go func() {
		select {
		case <-ctx.Done():
			s.Stop()
		case <-s.done:
		}
	}()

	go s.receiveLoop()

	return s.done
}

func (s *ClientSession[M]) receiveLoop() {
	op, err := s.pool.Get()
	if err != nil {
		s.logger.Log(context.Background(), log.LogLevelError, "failed to rent receive buffer", map[string]interface{}{
			"session_id": s.id,
			"error":      err.Error(),
		})
		s.Stop()
		return
	}

	defer func() {
		if r := recover(); r != nil {
			s.logger.Log(context.Background(), log.LogLevelError, "panic in message handler", map[string]interface{}{
				"session_id": s.id,
				"panic":      r,
			})
		}
		if putErr := s.pool.Put(op); putErr != nil {
			s.logger.Log(context.Background(), log.LogLevelDebug, "receive buffer not returned to disposed pool", map[string]interface{}{
				"session_id": s.id,
			})
		}
		s.Stop()
	}()

	for s.running() {
		op.Buf = op.Buf[:s.bufSize]
		n, readErr := s.conn.Read(op.Buf)

		if n > 0 {
			if feedErr := s.framer.Feed(op.Buf[:n]); feedErr != nil {
				s.logger.Log(context.Background(), log.LogLevelError, "framer overflow, disconnecting", map[string]interface{}{
					"session_id":  s.id,
					"remote_addr": s.conn.RemoteAddr().String(),
					"error":       feedErr.Error(),
				})
				return
			}
			for {
				msg, ok := s.framer.Next()
				if !ok {
					break
				}
				if cb := s.OnMessage; cb != nil {
					cb(msg)
				}
			}
		}

		if readErr != nil {
			if readErr != io.EOF && s.running() {
				s.logger.Log(context.Background(), log.LogLevelError, "socket read error", map[string]interface{}{
					"session_id":  s.id,
					"remote_addr": s.conn.RemoteAddr().String(),
					"error":       readErr.Error(),
				})
			}
			return
		}
	}
}

// Stop idempotently transitions the session to stopped: it shuts down both
// directions of the socket, closes it, and raises OnDisconnected exactly
// once. Subsequent calls return immediately. Stop is the sole convergence
// point for every teardown path (peer close, framing overflow, explicit
// stop, cancellation, socket error).
func (s *ClientSession[M]) Stop() {
	s.stopOnce.Do(func() {
		atomic.StoreInt32(&s.state, stateStopped)

		if tcp, ok := s.conn.(interface{ CloseRead() error }); ok {
			_ = tcp.CloseRead()
		}
		if tcp, ok := s.conn.(interface{ CloseWrite() error }); ok {
			_ = tcp.CloseWrite()
		}
		_ = s.conn.Close()

		s.invokeOnDisconnected()

		close(s.done)
	})
}

// invokeOnDisconnected calls OnDisconnected, recovering any panic so that a
// misbehaving handler can never crash the goroutine that called Stop —
// which may be this session's own receive loop, the Start cancellation
// watcher, or arbitrary caller code (spec §2 item 6 / §4.6: handler
// exceptions must not corrupt the server).
func (s *ClientSession[M]) invokeOnDisconnected() {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Log(context.Background(), log.LogLevelError, "panic in disconnect handler", map[string]interface{}{
				"session_id": s.id,
				"panic":      r,
			})
		}
	}()
	if cb := s.OnDisconnected; cb != nil {
		cb(s.id)
	}
}

// Send queues one send of message's bytes and waits for it to complete. It
// fails with errors.ErrNotRunning if the session is not running. If the IOOp
// Pool has been disposed, Send stops the session and returns
// errors.ErrPoolDisposed. Concurrent
// Send calls on the same session are serialized internally (spec §9, open
// question on Send concurrency, resolved in favor of internal serialization)
// so callers never interleave partial writes.
func (s *ClientSession[M]) Send(message []byte) error {
	if !s.running() {
		return errors.ErrNotRunning
	}

	s.sendMu.Lock()
	defer s.sendMu.Unlock()

	op, err := s.pool.Get()
	if err != nil {
		s.Stop()
		return err
	}
	defer func() { _ = s.pool.Put(op) }()

	if cap(op.Buf) < len(message) {
		op.Buf = make([]byte, len(message))
	}
	op.Buf = op.Buf[:len(message)]
	copy(op.Buf, message)

	_, werr := s.conn.Write(op.Buf)
	return werr
}
