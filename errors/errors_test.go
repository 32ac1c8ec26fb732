package errors_test

import (
	"errors"
	"testing"

	asyncerr "github.com/lduchosal/asyncsocket/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorMessageIncludesContext(t *testing.T) {
	err := asyncerr.ErrListen{Context: asyncerr.ListenContext{Address: "127.0.0.1:9000"}}
	assert.Contains(t, err.Error(), "127.0.0.1:9000")
}

func TestErrorWrapsInner(t *testing.T) {
	inner := errors.New("address already in use")
	err := asyncerr.ErrListen{Context: asyncerr.ListenContext{Address: "0.0.0.0:80"}, Inner: inner}
	assert.ErrorIs(t, err, inner)
	assert.Contains(t, err.Error(), "address already in use")
}

func TestErrorIsMatchesByContextType(t *testing.T) {
	a := asyncerr.ErrOverflow{Context: asyncerr.OverflowContext{Limit: 1024}}
	b := asyncerr.ErrOverflow{Context: asyncerr.OverflowContext{Limit: 2048}}
	assert.True(t, a.Is(b))

	c := asyncerr.ErrConfig{Context: asyncerr.ConfigContext{Field: "port"}}
	assert.False(t, a.Is(c))
}

func TestClientErrorNotRunning(t *testing.T) {
	require.EqualError(t, asyncerr.ErrNotRunning, "client error: not running")
}
