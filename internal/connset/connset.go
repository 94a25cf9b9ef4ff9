// Package connset tracks every currently-accepted transport so the
// server can broadcast a shutdown notice and release them promptly.
package connset

import (
	"sync"

	"github.com/udisondev/la2go/internal/transport"
)

// Set is the process-wide set of accepted transports.
type Set struct {
	mu    sync.Mutex
	conns map[*transport.Conn]struct{}
}

// New creates an empty connection set.
func New() *Set {
	return &Set{conns: make(map[*transport.Conn]struct{})}
}

// Add registers conn, called on accept.
func (s *Set) Add(conn *transport.Conn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.conns[conn] = struct{}{}
}

// Remove unregisters conn, called on close.
func (s *Set) Remove(conn *transport.Conn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.conns, conn)
}

// Count returns the number of tracked connections.
func (s *Set) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.conns)
}

// Broadcast sends line to every tracked transport, best-effort: a write
// failure on one connection does not stop the broadcast to the rest, and
// is not reported back to the caller.
func (s *Set) Broadcast(line string) {
	s.mu.Lock()
	conns := make([]*transport.Conn, 0, len(s.conns))
	for c := range s.conns {
		conns = append(conns, c)
	}
	s.mu.Unlock()

	for _, c := range conns {
		_ = c.WriteString(line)
	}
}

// CloseAll shuts down every tracked transport, unblocking any goroutine
// parked on a read from it.
func (s *Set) CloseAll() {
	s.mu.Lock()
	conns := make([]*transport.Conn, 0, len(s.conns))
	for c := range s.conns {
		conns = append(conns, c)
	}
	s.mu.Unlock()

	for _, c := range conns {
		_ = c.Close()
	}
}
