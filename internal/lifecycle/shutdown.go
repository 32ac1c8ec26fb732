// Package lifecycle provides a small refcounted shutdown gate used by
// server.Server: it lets outstanding sessions finish before the resources
// they depend on are released, and makes "shutdown" a one-way, idempotent
// transition.
package lifecycle

import (
	"errors"
	"sync"
)

// ErrClosed is returned by TryEnter once Close has been called.
var ErrClosed = errors.New("lifecycle: closed")

// Gate tracks how many operations are currently in flight. Close does not
// block; after Close, the channel returned by Done closes once they have all
// finished. The zero value is ready to use; a Gate must
// not be copied after first use.
type Gate struct {
	mu       sync.Mutex
	cond     sync.Cond
	initOnce sync.Once
	count    int
	closed   bool
	done     chan struct{}
}

func (g *Gate) init() {
	g.initOnce.Do(func() {
		g.cond.L = &g.mu
		g.done = make(chan struct{})
	})
}

// TryEnter registers one in-flight operation. It returns ErrClosed, without
// registering anything, if Close has already been called.
func (g *Gate) TryEnter() error {
	g.init()
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.closed {
		return ErrClosed
	}
	g.count++
	return nil
}

// Leave deregisters one operation previously registered with TryEnter.
func (g *Gate) Leave() {
	g.init()
	g.mu.Lock()
	defer g.mu.Unlock()
	g.count--
	if g.count == 0 {
		g.cond.Broadcast()
	}
}

// Close marks the gate closed: every future TryEnter fails with ErrClosed.
// It returns true the first time it is called and false on every subsequent
// call, so callers can tell whether they are the one responsible for
// triggering teardown.
func (g *Gate) Close() bool {
	g.init()
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.closed {
		return false
	}
	g.closed = true
	go g.drain()
	return true
}

func (g *Gate) drain() {
	g.mu.Lock()
	defer g.mu.Unlock()
	for g.count != 0 {
		g.cond.Wait()
	}
	close(g.done)
}

// Done returns a channel that closes once Close has been called and every
// registered operation has called Leave.
func (g *Gate) Done() <-chan struct{} {
	g.init()
	return g.done
}

// Closed reports whether Close has been called.
func (g *Gate) Closed() bool {
	g.init()
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.closed
}

// Count returns the number of operations currently registered via TryEnter
// without a matching Leave yet. For server.Server this is the admission
// invariant of spec §3 made observable directly: capacity minus free permits
// equals the number of sessions admitted, including ones still mid-accept
// that have not yet reached the session registry.
func (g *Gate) Count() int {
	g.init()
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.count
}
