package ioop

import (
	"sync"

	"github.com/lduchosal/asyncsocket/errors"
)

// Pool is a process-wide, thread-safe LIFO of idle IOOps. Get/Put are safe
// for concurrent use by any number of goroutines; returning the most
// recently used descriptor first keeps its buffer warm in cache under
// steady load.
//
// The zero value is not usable; construct one with NewPool.
type Pool struct {
	bufSize int

	mu       sync.Mutex
	idle     []*IOOp
	disposed bool
}

// NewPool constructs a Pool whose descriptors carry buffers of bufSize
// bytes.
func NewPool(bufSize int) *Pool {
	return &Pool{bufSize: bufSize}
}

// Get returns an idle descriptor, allocating a new one if the pool is
// empty. It returns errors.ErrPoolDisposed if the pool has been disposed.
func (p *Pool) Get() (*IOOp, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.disposed {
		return nil, errors.ErrPoolDisposed{Context: errors.PoolContext{}}
	}

	n := len(p.idle)
	if n == 0 {
		return newIOOp(p.bufSize), nil
	}
	op := p.idle[n-1]
	p.idle[n-1] = nil
	p.idle = p.idle[:n-1]
	op.reset(p.bufSize)
	return op, nil
}

// Put returns op to the pool for reuse. It returns errors.ErrPoolDisposed if
// the pool has been disposed, in which case the caller should simply drop
// op. Returning the same op twice is a caller bug the pool does not detect.
func (p *Pool) Put(op *IOOp) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.disposed {
		return errors.ErrPoolDisposed{Context: errors.PoolContext{}}
	}
	p.idle = append(p.idle, op)
	return nil
}

// Count returns a snapshot of the number of idle descriptors.
func (p *Pool) Count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.idle)
}

// Dispose marks the pool disposed and drops every idle descriptor.
// Idempotent: subsequent calls are no-ops. After Dispose, Get and Put both
// fail with errors.ErrPoolDisposed. Descriptors rented before Dispose remain
// usable for their single outstanding operation; they simply cannot be
// returned afterward.
func (p *Pool) Dispose() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.disposed {
		return
	}
	p.disposed = true
	p.idle = nil
}
