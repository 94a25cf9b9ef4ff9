// Package adminconsole implements the operator-facing second listener:
// a plain-text, line-based request/response console separate from the
// C45 player protocol. Commands dispatch off a small table, over their
// own line grammar rather than the player wire format, since this
// console is deliberately plain-text for operability.
package adminconsole

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"strings"
	"sync"

	"github.com/udisondev/la2go/internal/directory"
	"github.com/udisondev/la2go/internal/identity"
	"github.com/udisondev/la2go/internal/lobby"
	"github.com/udisondev/la2go/internal/metrics"
	"github.com/udisondev/la2go/internal/protocol"
)

const maxLineLen = 256

// Console is the admin listener. Shutdown fires onShutdown once, from
// whichever connection first issues SHUTDOWN.
type Console struct {
	registry *identity.Registry
	lobbies  []*lobby.Lobby
	metrics  *metrics.Counters
	dir      *directory.Directory

	onShutdown func()
	once       sync.Once

	mu       sync.Mutex
	listener net.Listener
}

// New creates an admin console wired to the server's shared state.
// onShutdown is invoked exactly once, the first time a console
// connection issues SHUTDOWN.
func New(registry *identity.Registry, lobbies []*lobby.Lobby, m *metrics.Counters, dir *directory.Directory, onShutdown func()) *Console {
	return &Console{
		registry:   registry,
		lobbies:    lobbies,
		metrics:    m,
		dir:        dir,
		onShutdown: onShutdown,
	}
}

// Run listens on addr until ctx is cancelled.
func (c *Console) Run(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("admin console listening on %s: %w", addr, err)
	}
	c.mu.Lock()
	c.listener = ln
	c.mu.Unlock()

	go func() {
		<-ctx.Done()
		ln.Close()
	}()

	slog.Info("admin console started", "address", ln.Addr())

	var wg sync.WaitGroup
	for {
		conn, err := ln.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				break
			}
			slog.Error("admin console accept failed", "error", err)
			continue
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.handleConn(conn)
		}()
	}
	wg.Wait()
	return nil
}

func (c *Console) handleConn(conn net.Conn) {
	defer conn.Close()
	sc := bufio.NewScanner(conn)
	sc.Buffer(make([]byte, 0, maxLineLen), maxLineLen)

	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		reply, shutdown := c.dispatch(line)
		if _, err := conn.Write([]byte(reply + "\n")); err != nil {
			return
		}
		if shutdown {
			return
		}
	}
}

func (c *Console) dispatch(line string) (reply string, shutdown bool) {
	fields := strings.Fields(line)
	cmd := strings.ToUpper(fields[0])

	switch cmd {
	case "STATS":
		return "OK " + c.metrics.Snapshot(int64(c.registry.Count())).String(), false

	case "LOBBIES":
		statuses := make([]protocol.LobbyStatus, len(c.lobbies))
		for i, l := range c.lobbies {
			statuses[i] = l.Status()
		}
		snapshot := strings.TrimSpace(strings.TrimPrefix(protocol.FormatSnapshot(statuses), protocol.TokLobby))
		return "OK " + snapshot, false

	case "KICK":
		if len(fields) != 2 || c.dir == nil {
			return "ERR UNKNOWN", false
		}
		conn, ok := c.dir.Find(fields[1])
		if !ok {
			return "ERR NOT_FOUND", false
		}
		_ = conn.Close()
		return "OK", false

	case "SHUTDOWN":
		c.once.Do(func() {
			if c.onShutdown != nil {
				c.onShutdown()
			}
		})
		return "OK", true

	default:
		return "ERR UNKNOWN", false
	}
}
