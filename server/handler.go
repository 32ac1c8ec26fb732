package server

import "github.com/lduchosal/asyncsocket/session"

// Handler is the abstract surface a Server delegates every connection event
// to (spec §4.6). User code implements it; the core invokes it and never
// lets a handler panic corrupt the server or any other session.
//
// OnConnected fires before the session's receive loop starts. OnMessage
// fires once per framed message, ordered by byte-stream position within a
// session. OnDisconnected fires exactly once, after the session's last
// OnMessage. Implementations must be safe to call concurrently across
// different sessions; the core never calls more than one of these three for
// the same session at the same time.
type Handler[M any] interface {
	OnConnected(sess *session.ClientSession[M])
	OnMessage(sess *session.ClientSession[M], message M)
	OnDisconnected(sess *session.ClientSession[M])
}
