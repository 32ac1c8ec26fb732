package ioop_test

import (
	"testing"

	"github.com/lduchosal/asyncsocket/errors"
	"github.com/lduchosal/asyncsocket/ioop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPool_GetAllocatesWhenEmpty(t *testing.T) {
	p := ioop.NewPool(64)
	assert.Equal(t, 0, p.Count())

	op, err := p.Get()
	require.NoError(t, err)
	require.NotNil(t, op)
	assert.Len(t, op.Buf, 64)
}

func TestPool_PutThenGetReusesInstance(t *testing.T) {
	p := ioop.NewPool(64)

	op1, err := p.Get()
	require.NoError(t, err)
	require.NoError(t, p.Put(op1))
	assert.Equal(t, 1, p.Count())

	op2, err := p.Get()
	require.NoError(t, err)
	assert.Same(t, op1, op2)
	assert.Equal(t, 0, p.Count())
}

// After W warmup get/put cycles, steady-state single-threaded use observes
// at most W distinct descriptor instances, matching spec §4.2's testable
// property.
func TestPool_BoundedDistinctInstancesAfterWarmup(t *testing.T) {
	p := ioop.NewPool(64)
	const warmup = 4
	const cycles = 200

	seen := map[*ioop.IOOp]bool{}
	var rented []*ioop.IOOp
	for i := 0; i < warmup; i++ {
		op, err := p.Get()
		require.NoError(t, err)
		seen[op] = true
		rented = append(rented, op)
	}
	for _, op := range rented {
		require.NoError(t, p.Put(op))
	}

	for i := 0; i < cycles; i++ {
		op, err := p.Get()
		require.NoError(t, err)
		seen[op] = true
		require.NoError(t, p.Put(op))
	}

	assert.LessOrEqual(t, len(seen), warmup)
}

func TestPool_DisposeRejectsFurtherGetAndPut(t *testing.T) {
	p := ioop.NewPool(64)
	op, err := p.Get()
	require.NoError(t, err)

	p.Dispose()
	p.Dispose() // idempotent

	_, err = p.Get()
	var disposed errors.ErrPoolDisposed
	require.ErrorAs(t, err, &disposed)

	err = p.Put(op)
	require.ErrorAs(t, err, &disposed)
}

func TestPool_ConcurrentUse(t *testing.T) {
	p := ioop.NewPool(64)
	done := make(chan struct{})
	const goroutines = 16
	for i := 0; i < goroutines; i++ {
		go func() {
			defer func() { done <- struct{}{} }()
			for j := 0; j < 100; j++ {
				op, err := p.Get()
				if err != nil {
					return
				}
				_ = p.Put(op)
			}
		}()
	}
	for i := 0; i < goroutines; i++ {
		<-done
	}
}
