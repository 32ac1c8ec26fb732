package framer_test

import (
	"strings"
	"testing"

	"github.com/lduchosal/asyncsocket/errors"
	"github.com/lduchosal/asyncsocket/framer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDelimiterFramer_InvalidConstruction(t *testing.T) {
	_, err := framer.NewDelimiterFramer('\n', 0)
	require.Error(t, err)
	var cfgErr errors.ErrConfig
	require.ErrorAs(t, err, &cfgErr)
}

func TestDelimiterFramer_SingleMessage(t *testing.T) {
	f, err := framer.NewDelimiterFramer('\n', 1024)
	require.NoError(t, err)

	require.NoError(t, f.Feed([]byte("Hello, world!\n")))
	msg, ok := f.Next()
	require.True(t, ok)
	assert.Equal(t, "Hello, world!\n", msg)

	_, ok = f.Next()
	assert.False(t, ok)
}

func TestDelimiterFramer_SplitDelivery(t *testing.T) {
	f, err := framer.NewDelimiterFramer('\n', 1024)
	require.NoError(t, err)

	require.NoError(t, f.Feed([]byte("First half of message")))
	_, ok := f.Next()
	assert.False(t, ok)

	require.NoError(t, f.Feed([]byte(" and second half\n")))
	msg, ok := f.Next()
	require.True(t, ok)
	assert.Equal(t, "First half of message and second half\n", msg)
}

func TestDelimiterFramer_MultipleMessagesInOneFeed(t *testing.T) {
	f, err := framer.NewDelimiterFramer('\n', 1024)
	require.NoError(t, err)

	require.NoError(t, f.Feed([]byte("Message1\nMessage2\nMessage3\n")))

	var got []string
	for {
		msg, ok := f.Next()
		if !ok {
			break
		}
		got = append(got, msg)
	}
	assert.Equal(t, []string{"Message1\n", "Message2\n", "Message3\n"}, got)
}

func TestDelimiterFramer_OversizeWithoutDelimiterOverflows(t *testing.T) {
	f, err := framer.NewDelimiterFramer('\n', 1024)
	require.NoError(t, err)

	err = f.Feed([]byte(strings.Repeat("A", 1125)))
	require.Error(t, err)
	var overflow errors.ErrOverflow
	require.ErrorAs(t, err, &overflow)

	_, ok := f.Next()
	assert.False(t, ok)
}

func TestDelimiterFramer_OverBoundWithDelimiterIsFine(t *testing.T) {
	f, err := framer.NewDelimiterFramer('\n', 4)
	require.NoError(t, err)

	// 5 bytes total but ends in a delimiter, so no overflow even though it
	// exceeds maxUnframed: the bound only fires when no delimiter is found.
	require.NoError(t, f.Feed([]byte("abcd\n")))
	msg, ok := f.Next()
	require.True(t, ok)
	assert.Equal(t, "abcd\n", msg)
}

func TestDelimiterFramer_DelimiterAtPositionZeroIsValid(t *testing.T) {
	f, err := framer.NewDelimiterFramer('\n', 1024)
	require.NoError(t, err)

	require.NoError(t, f.Feed([]byte("\nrest")))
	msg, ok := f.Next()
	require.True(t, ok)
	assert.Equal(t, "\n", msg)
}

func TestDelimiterFramer_EmptyFeedIsNoop(t *testing.T) {
	f, err := framer.NewDelimiterFramer('\n', 1024)
	require.NoError(t, err)

	require.NoError(t, f.Feed(nil))
	_, ok := f.Next()
	assert.False(t, ok)
}

func TestDelimiterFramer_ByteStreamChunkedArbitrarily(t *testing.T) {
	f, err := framer.NewDelimiterFramer('\n', 1024)
	require.NoError(t, err)

	full := "one\ntwo\nthree\n"
	for _, b := range []byte(full) {
		require.NoError(t, f.Feed([]byte{b}))
	}

	var got []string
	for {
		msg, ok := f.Next()
		if !ok {
			break
		}
		got = append(got, msg)
	}
	assert.Equal(t, []string{"one\n", "two\n", "three\n"}, got)
}
