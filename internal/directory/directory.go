// Package directory maps reserved player names to their live transport,
// so the admin console can look a player up by name without coupling
// internal/identity (which only tracks an opaque handle) to net.Conn.
package directory

import (
	"sync"

	"github.com/udisondev/la2go/internal/transport"
)

// Directory is the process-wide name → transport map.
type Directory struct {
	mu    sync.Mutex
	byName map[string]*transport.Conn
}

// New creates an empty directory.
func New() *Directory {
	return &Directory{byName: make(map[string]*transport.Conn)}
}

// Set records conn as name's current transport, overwriting any prior
// entry (a reconnect replaces the stale one).
func (d *Directory) Set(name string, conn *transport.Conn) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.byName[name] = conn
}

// Remove deletes name's entry if it still points at conn. A stale
// session that already lost its slot to a reconnect must not evict the
// successor's live entry.
func (d *Directory) Remove(name string, conn *transport.Conn) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.byName[name] == conn {
		delete(d.byName, name)
	}
}

// Find returns name's current transport, if any.
func (d *Directory) Find(name string) (*transport.Conn, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	c, ok := d.byName[name]
	return c, ok
}
