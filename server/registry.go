package server

import (
	"sync"

	"github.com/lduchosal/asyncsocket/session"
)

// registry is the Server's concurrent id->session map (spec §3, §4.4: "the
// registry never contains two entries with the same id"). Grounded on the
// teacher's muxado stream map: an RWMutex-guarded map sized for frequent
// reads (lookups, iteration at Dispose) and comparatively rare writes
// (insert on accept, remove on disconnect).
type registry[M any] struct {
	mu       sync.RWMutex
	sessions map[string]*session.ClientSession[M]
}

func newRegistry[M any]() *registry[M] {
	return &registry[M]{sessions: make(map[string]*session.ClientSession[M])}
}

func (r *registry[M]) insert(sess *session.ClientSession[M]) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[sess.ID()] = sess
}

func (r *registry[M]) remove(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, id)
}

// each invokes fn for a snapshot of every currently registered session. fn
// is called outside the registry lock so it may safely call back into
// Stop (which removes the session from this same registry).
func (r *registry[M]) each(fn func(*session.ClientSession[M])) {
	r.mu.RLock()
	snapshot := make([]*session.ClientSession[M], 0, len(r.sessions))
	for _, s := range r.sessions {
		snapshot = append(snapshot, s)
	}
	r.mu.RUnlock()

	for _, s := range snapshot {
		fn(s)
	}
}
