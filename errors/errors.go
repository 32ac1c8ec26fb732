// Package errors defines the named error taxonomy the core reports through:
// configuration errors, bind/listen errors, accept errors, per-session socket
// errors, framing overflow, pool-disposed errors, and the ClientError used to
// signal API misuse. Each kind carries a typed context so callers can recover
// structured detail with errors.As instead of matching on message text.
package errors

import (
	"fmt"
	"reflect"
)

// Context is the payload a typed Error carries alongside its message.
type Context interface {
	message() string
}

// Error wraps an optional inner error with a typed, comparable Context.
// Two Errors are Is-equivalent if their Context types match, regardless of
// field values or wrapped cause, so callers can test "is this a bind error"
// without caring which address failed to bind.
type Error[C Context] struct {
	Inner   error
	Context C
}

func (e Error[C]) Unwrap() error {
	return e.Inner
}

func (e Error[C]) Error() string {
	msg := e.Context.message()
	if e.Inner != nil {
		return fmt.Sprintf("%s: %v", msg, e.Inner)
	}
	return msg
}

func (e Error[C]) Is(other error) bool {
	return reflect.TypeOf(e) == reflect.TypeOf(other)
}

// ErrConfig is raised at Server/Framer construction time for invalid
// parameters (spec §7.1): bad bind address, out-of-range port, non-positive
// sizes. Recovered by the caller; never surfaces from Run.
type ErrConfig = Error[ConfigContext]

type ConfigContext struct {
	Field  string
	Reason string
}

func (c ConfigContext) message() string {
	return fmt.Sprintf("invalid configuration for %s: %s", c.Field, c.Reason)
}

// ErrListen is raised from Server.Run when binding or listening fails
// (spec §7.2): port in use, permission denied. Not recovered internally; the
// caller decides whether to retry.
type ErrListen = Error[ListenContext]

type ListenContext struct {
	Address string
}

func (c ListenContext) message() string {
	return fmt.Sprintf("failed to listen on %q", c.Address)
}

// ErrAccept represents a single failed accept (spec §7.3). It is logged and
// its admission permit released; the accept loop continues.
type ErrAccept = Error[AcceptContext]

type AcceptContext struct{}

func (c AcceptContext) message() string {
	return "failed to accept connection"
}

// ErrSession wraps a socket I/O failure observed by a specific session
// (spec §7.4): receive/send failure, peer reset. Terminal for that session
// only.
type ErrSession = Error[SessionContext]

type SessionContext struct {
	SessionID string
}

func (c SessionContext) message() string {
	return fmt.Sprintf("session %s: socket error", c.SessionID)
}

// ErrOverflow signals a Framer exceeded its configured unframed-bytes bound
// (spec §4.1, §7.5). The Framer is poisoned; the session must disconnect.
type ErrOverflow = Error[OverflowContext]

type OverflowContext struct {
	// Limit is the configured bound that was exceeded (max_unframed for the
	// delimiter framer, max_message_size for the length-prefix framer).
	Limit int
}

func (c OverflowContext) message() string {
	return fmt.Sprintf("framer exceeded configured limit of %d bytes", c.Limit)
}

// ErrPoolDisposed is returned from IOOp Pool.Get/Put after Pool.Dispose
// (spec §7.7). Observed by a session's send or receive path, it propagates
// and terminates that session.
type ErrPoolDisposed = Error[PoolContext]

type PoolContext struct{}

func (c PoolContext) message() string {
	return "io-op pool disposed"
}

// ClientError is the spec's named misuse error kind (spec §4.7, §7.6):
// currently raised only by ClientSession.Send when the session is not
// running. Distinct from socket errors and framing overflow, and recoverable
// by the caller.
type ClientError struct {
	Reason string
}

func (e ClientError) Error() string {
	return fmt.Sprintf("client error: %s", e.Reason)
}

// ErrNotRunning is the specific ClientError raised by Send after Stop.
var ErrNotRunning = ClientError{Reason: "not running"}
