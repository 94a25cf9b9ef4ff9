package directory

import (
	"net"
	"testing"

	"github.com/udisondev/la2go/internal/transport"
)

func TestSetAndFind(t *testing.T) {
	d := New()
	server, client := net.Pipe()
	defer client.Close()
	conn := transport.New(server)

	d.Set("alice", conn)

	got, ok := d.Find("alice")
	if !ok {
		t.Fatal("expected to find alice")
	}
	if got != conn {
		t.Fatal("Find returned a different *transport.Conn than was Set")
	}
}

func TestFindMissingNameFails(t *testing.T) {
	d := New()
	if _, ok := d.Find("ghost"); ok {
		t.Fatal("expected no entry for unregistered name")
	}
}

func TestRemoveOnlyDeletesMatchingConn(t *testing.T) {
	d := New()
	s1, c1 := net.Pipe()
	defer c1.Close()
	s2, c2 := net.Pipe()
	defer c2.Close()
	conn1 := transport.New(s1)
	conn2 := transport.New(s2)

	d.Set("alice", conn1)
	// A reconnect replaces alice's entry with a new transport.
	d.Set("alice", conn2)

	// The stale session's cleanup must not evict the new entry.
	d.Remove("alice", conn1)
	got, ok := d.Find("alice")
	if !ok || got != conn2 {
		t.Fatal("stale Remove should not have evicted the current entry")
	}

	d.Remove("alice", conn2)
	if _, ok := d.Find("alice"); ok {
		t.Fatal("expected entry removed once the current conn is removed")
	}
}
