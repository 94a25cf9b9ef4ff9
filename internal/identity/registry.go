// Package identity implements the process-wide player name registry:
// name → (current transport handle, reconnect token, pending-back flag),
// deduplicating names across concurrent connections.
package identity

import "sync"

// Handle identifies a transport. -1 means "no transport currently
// attached" (the record exists but nothing is connected to it).
type Handle = int64

// NoTransport is the sentinel handle meaning "detached".
const NoTransport Handle = -1

// Record is one identity's registry entry.
type Record struct {
	Name        string
	Transport   Handle
	Token       uint64
	PendingBack bool
}

// Registry is the process-wide name → Record map, guarded by a single
// mutex. Every operation is a map lookup made while holding that mutex.
type Registry struct {
	mu      sync.Mutex
	records map[string]*Record
	nextSeq uint64
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{records: make(map[string]*Record)}
}

// Has reports whether name is currently reserved.
func (r *Registry) Has(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.records[name]
	return ok
}

// Add reserves name with transport=-1, token=0, pending-back=false.
// Returns false if name is already present.
func (r *Registry) Add(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.records[name]; ok {
		return false
	}
	r.records[name] = &Record{Name: name, Transport: NoTransport}
	return true
}

// SetTransport attaches handle to name's record, advancing and recording
// a fresh token. Returns the new token, or 0 if name is absent — 0 is
// never a valid token, so that distinguishes "no such name" from a real
// assignment.
func (r *Registry) SetTransport(name string, handle Handle) uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.records[name]
	if !ok {
		return 0
	}
	r.nextSeq++
	rec.Transport = handle
	rec.Token = r.nextSeq
	return rec.Token
}

// Remove unconditionally deletes name's record.
func (r *Registry) Remove(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.records, name)
}

// RemoveIfToken deletes name's record only if its current token equals t.
// This is the only removal path a session uses on its own exit, so a
// stale session that lost a reconnect race can't evict its successor.
func (r *Registry) RemoveIfToken(name string, t uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.records[name]
	if !ok || rec.Token != t {
		return
	}
	delete(r.records, name)
}

// MarkBack sets the pending-back flag for name. If handle is
// non-negative, the record's current transport must match it for the
// flag to be set; pass NoTransport to bypass the check.
func (r *Registry) MarkBack(name string, handle Handle) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.records[name]
	if !ok {
		return
	}
	if handle != NoTransport && rec.Transport != handle {
		return
	}
	rec.PendingBack = true
}

// TakeBack tests and clears the pending-back flag for name, applying the
// same handle check as MarkBack. Returns whether the flag was set.
func (r *Registry) TakeBack(name string, handle Handle) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.records[name]
	if !ok {
		return false
	}
	if handle != NoTransport && rec.Transport != handle {
		return false
	}
	was := rec.PendingBack
	rec.PendingBack = false
	return was
}

// Lookup returns a copy of name's record and whether it exists.
func (r *Registry) Lookup(name string) (Record, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.records[name]
	if !ok {
		return Record{}, false
	}
	return *rec, true
}

// Count returns the number of reserved names.
func (r *Registry) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.records)
}
