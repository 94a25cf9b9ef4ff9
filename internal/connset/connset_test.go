package connset

import (
	"bufio"
	"net"
	"testing"
	"time"

	"github.com/udisondev/la2go/internal/transport"
)

func pipePair() (*transport.Conn, net.Conn) {
	server, client := net.Pipe()
	return transport.New(server), client
}

func TestAddRemoveCount(t *testing.T) {
	s := New()
	c1, p1 := pipePair()
	defer p1.Close()
	c2, p2 := pipePair()
	defer p2.Close()

	s.Add(c1)
	s.Add(c2)
	if got := s.Count(); got != 2 {
		t.Fatalf("expected count 2, got %d", got)
	}

	s.Remove(c1)
	if got := s.Count(); got != 1 {
		t.Fatalf("expected count 1 after remove, got %d", got)
	}
}

func TestBroadcastReachesEveryConn(t *testing.T) {
	s := New()
	c1, p1 := pipePair()
	defer p1.Close()
	c2, p2 := pipePair()
	defer p2.Close()
	s.Add(c1)
	s.Add(c2)

	done := make(chan string, 2)
	go func() {
		sc := bufio.NewScanner(p1)
		sc.Scan()
		done <- sc.Text()
	}()
	go func() {
		sc := bufio.NewScanner(p2)
		sc.Scan()
		done <- sc.Text()
	}()

	s.Broadcast("C45DOWN\n")

	for i := 0; i < 2; i++ {
		select {
		case line := <-done:
			if line != "C45DOWN" {
				t.Fatalf("expected C45DOWN, got %q", line)
			}
		case <-time.After(2 * time.Second):
			t.Fatal("timed out waiting for broadcast")
		}
	}
}

func TestCloseAllUnblocksReaders(t *testing.T) {
	s := New()
	c1, p1 := pipePair()
	defer p1.Close()
	s.Add(c1)

	readDone := make(chan error, 1)
	go func() {
		buf := make([]byte, 1)
		_, err := p1.Read(buf)
		readDone <- err
	}()

	s.CloseAll()

	select {
	case err := <-readDone:
		if err == nil {
			t.Fatal("expected read to fail after CloseAll")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for CloseAll to unblock reader")
	}
}
