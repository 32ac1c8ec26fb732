// Package framer turns an unbounded, arbitrarily fragmented TCP byte stream
// into a lazy, restartable sequence of discrete messages.
//
// A Framer is fed raw bytes as they arrive off the wire and drained of
// complete messages in between feeds; it enforces a configured bound on
// unframed bytes and reports that bound being exceeded as a permanent,
// poisoning Overflow rather than trying to recover. The bound is checked
// after a chunk is appended, so the buffer can hold the bound plus the
// latest chunk when Overflow is reported. Each
// session owns exactly one Framer; nothing here is shared across
// connections.
//
// Two implementations are provided: DelimiterFramer, for textual protocols
// terminated by a single delimiter byte, and LengthPrefixFramer, for binary
// protocols with a fixed-width big-endian length prefix.
package framer

import "github.com/lduchosal/asyncsocket/errors"

// Framer is a stateful byte-stream parser producing messages of type M.
//
// Callers must fully drain Next (calling it until it returns false) after
// every Feed before feeding more bytes. Once Feed returns a non-nil error the
// Framer is poisoned: any further Feed or Next call is undefined and the
// owning session must disconnect.
type Framer[M any] interface {
	// Feed appends chunk to the Framer's internal buffer. It returns
	// errors.ErrOverflow if the buffer has exceeded its configured bound
	// without yielding a complete message, or (for LengthPrefixFramer) if a
	// decoded length is invalid. Feeding an empty chunk is a no-op.
	Feed(chunk []byte) error

	// Next returns the next complete message and true, or the zero value and
	// false if no complete message is currently buffered.
	Next() (M, bool)
}

// Factory builds a fresh Framer for each accepted connection. One Factory
// instance is shared by a Server; every Framer it creates is privately owned
// by the session that requested it.
type Factory[M any] interface {
	NewFramer() Framer[M]
}

// FactoryFunc adapts a plain function to a Factory.
type FactoryFunc[M any] func() Framer[M]

func (f FactoryFunc[M]) NewFramer() Framer[M] { return f() }

// ErrOverflow is returned from Feed when a Framer's configured bound is
// exceeded. It is an alias of errors.ErrOverflow so callers can use either
// package's name.
type ErrOverflow = errors.ErrOverflow
