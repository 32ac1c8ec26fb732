package framer_test

import (
	"encoding/binary"
	"testing"

	"github.com/lduchosal/asyncsocket/errors"
	"github.com/lduchosal/asyncsocket/framer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func prefixed(length uint32, payload []byte) []byte {
	header := make([]byte, 4)
	binary.BigEndian.PutUint32(header, length)
	return append(header, payload...)
}

func TestLengthPrefixFramer_InvalidConstruction(t *testing.T) {
	_, err := framer.NewLengthPrefixFramer(0, 1024)
	require.Error(t, err)

	_, err = framer.NewLengthPrefixFramer(4, 0)
	require.Error(t, err)
}

func TestLengthPrefixFramer_RoundTrip(t *testing.T) {
	f, err := framer.NewLengthPrefixFramer(4, 1<<20)
	require.NoError(t, err)

	msg1 := []byte{0x0A, 0x14}
	msg2 := []byte{0x1E, 0x28, 0x32}

	stream := append(prefixed(2, msg1), prefixed(3, msg2)...)
	require.NoError(t, f.Feed(stream))

	got1, ok := f.Next()
	require.True(t, ok)
	assert.Equal(t, msg1, got1)

	got2, ok := f.Next()
	require.True(t, ok)
	assert.Equal(t, msg2, got2)

	_, ok = f.Next()
	assert.False(t, ok)
}

func TestLengthPrefixFramer_ArbitraryChunking(t *testing.T) {
	f, err := framer.NewLengthPrefixFramer(4, 1<<20)
	require.NoError(t, err)

	msg1 := []byte("hello")
	msg2 := []byte("world!")
	stream := append(prefixed(uint32(len(msg1)), msg1), prefixed(uint32(len(msg2)), msg2)...)

	for _, b := range stream {
		require.NoError(t, f.Feed([]byte{b}))
	}

	var got [][]byte
	for {
		msg, ok := f.Next()
		if !ok {
			break
		}
		got = append(got, msg)
	}
	require.Len(t, got, 2)
	assert.Equal(t, msg1, got[0])
	assert.Equal(t, msg2, got[1])
}

func TestLengthPrefixFramer_DeclaredLengthEqualToMaxIsAccepted(t *testing.T) {
	f, err := framer.NewLengthPrefixFramer(4, 4)
	require.NoError(t, err)

	payload := []byte{1, 2, 3, 4}
	require.NoError(t, f.Feed(prefixed(4, payload)))
	got, ok := f.Next()
	require.True(t, ok)
	assert.Equal(t, payload, got)
}

func TestLengthPrefixFramer_DeclaredLengthOverMaxOverflows(t *testing.T) {
	f, err := framer.NewLengthPrefixFramer(4, 4)
	require.NoError(t, err)

	header := make([]byte, 4)
	binary.BigEndian.PutUint32(header, 5)
	err = f.Feed(header)
	require.Error(t, err)
	var overflow errors.ErrOverflow
	require.ErrorAs(t, err, &overflow)
}

func TestLengthPrefixFramer_ZeroDeclaredLengthOverflows(t *testing.T) {
	f, err := framer.NewLengthPrefixFramer(4, 1024)
	require.NoError(t, err)

	header := make([]byte, 4)
	binary.BigEndian.PutUint32(header, 0)
	err = f.Feed(header)
	require.Error(t, err)
}

func TestLengthPrefixFramer_MultipleMessagesOnePacket(t *testing.T) {
	f, err := framer.NewLengthPrefixFramer(1, 255)
	require.NoError(t, err)

	stream := append(prefixed1(2, []byte{1, 2}), prefixed1(3, []byte{9, 9, 9})...)
	require.NoError(t, f.Feed(stream))

	got1, ok := f.Next()
	require.True(t, ok)
	assert.Equal(t, []byte{1, 2}, got1)

	got2, ok := f.Next()
	require.True(t, ok)
	assert.Equal(t, []byte{9, 9, 9}, got2)
}

func prefixed1(length byte, payload []byte) []byte {
	return append([]byte{length}, payload...)
}
