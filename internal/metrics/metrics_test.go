package metrics

import "testing"

func TestSessionCounters(t *testing.T) {
	var c Counters
	c.SessionStarted()
	c.SessionStarted()
	c.SessionEnded()

	snap := c.Snapshot(0)
	if snap.ActiveSessions != 1 {
		t.Fatalf("expected 1 active session, got %d", snap.ActiveSessions)
	}
}

func TestMatchCounters(t *testing.T) {
	var c Counters
	c.MatchStarted()
	c.MatchStarted()
	c.MatchEnded()

	snap := c.Snapshot(0)
	if snap.ActiveMatches != 1 {
		t.Fatalf("expected 1 active match, got %d", snap.ActiveMatches)
	}
	if snap.TotalMatches != 1 {
		t.Fatalf("expected 1 total match, got %d", snap.TotalMatches)
	}

	c.MatchEnded()
	snap = c.Snapshot(0)
	if snap.ActiveMatches != 0 {
		t.Fatalf("expected 0 active matches after both matches ended, got %d", snap.ActiveMatches)
	}
	if snap.TotalMatches != 2 {
		t.Fatalf("expected 2 total matches, got %d", snap.TotalMatches)
	}
}

func TestSnapshotString(t *testing.T) {
	var c Counters
	c.SessionStarted()
	c.MatchStarted()
	c.MatchEnded()

	got := c.Snapshot(3).String()
	want := "sessions=1 matches=0 total=1 identities=3"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}
