// Package metrics exposes lightweight process-wide runtime counters for
// the admin console's STATS command. No external client library is
// wired in here — see DESIGN.md for why.
package metrics

import (
	"fmt"
	"sync/atomic"
)

// Counters holds the server's running totals. The zero value is ready
// to use.
type Counters struct {
	activeSessions atomic.Int64
	activeMatches  atomic.Int64
	totalMatches   atomic.Int64
}

// SessionStarted/SessionEnded track currently-connected sessions.
func (c *Counters) SessionStarted() { c.activeSessions.Add(1) }
func (c *Counters) SessionEnded()   { c.activeSessions.Add(-1) }

// MatchStarted/MatchEnded track currently-running matches; MatchEnded
// also increments the lifetime total.
func (c *Counters) MatchStarted() { c.activeMatches.Add(1) }
func (c *Counters) MatchEnded() {
	c.activeMatches.Add(-1)
	c.totalMatches.Add(1)
}

// Snapshot is a point-in-time read of all counters.
type Snapshot struct {
	ActiveSessions int64
	ActiveMatches  int64
	TotalMatches   int64
	Identities     int64
}

// Snapshot reads the current counter values. identities is supplied by
// the caller (the identity registry owns that count, not this package).
func (c *Counters) Snapshot(identities int64) Snapshot {
	return Snapshot{
		ActiveSessions: c.activeSessions.Load(),
		ActiveMatches:  c.activeMatches.Load(),
		TotalMatches:   c.totalMatches.Load(),
		Identities:     identities,
	}
}

// String renders the snapshot as the admin console's STATS reply body.
func (s Snapshot) String() string {
	return fmt.Sprintf("sessions=%d matches=%d total=%d identities=%d",
		s.ActiveSessions, s.ActiveMatches, s.TotalMatches, s.Identities)
}
