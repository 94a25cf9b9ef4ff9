package transport

import (
	"net"
	"testing"
	"time"
)

func TestReadLineBasic(t *testing.T) {
	server, client := net.Pipe()
	defer server.Close()
	defer client.Close()

	go client.Write([]byte("hello\n"))

	c := New(server)
	line, eof, err := c.ReadLine(256)
	if err != nil || eof {
		t.Fatalf("ReadLine() = %q, eof=%v, err=%v", line, eof, err)
	}
	if line != "hello\n" {
		t.Errorf("got %q, want %q", line, "hello\n")
	}
}

func TestReadLineEOF(t *testing.T) {
	server, client := net.Pipe()
	defer server.Close()
	go client.Close()

	c := New(server)
	_, eof, err := c.ReadLine(256)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !eof {
		t.Error("expected eof on closed peer before any byte")
	}
}

func TestReadLineTimeoutExpires(t *testing.T) {
	server, client := net.Pipe()
	defer server.Close()
	defer client.Close()

	c := New(server)
	_, _, timedOut, err := c.ReadLineTimeout(256, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// With a 0-second deadline no byte can arrive in time.
	if !timedOut {
		t.Error("expected timeout with no data and 0s budget")
	}
}

func TestPollDetectsReadable(t *testing.T) {
	server, client := net.Pipe()
	defer server.Close()
	defer client.Close()

	c := New(server)
	readable, err := c.Poll(50 * time.Millisecond)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if readable {
		t.Error("expected not readable before any write")
	}

	go client.Write([]byte("x"))
	readable, err = c.Poll(time.Second)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !readable {
		t.Error("expected readable after write")
	}
}
