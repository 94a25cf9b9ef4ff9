// Package server runs the player-facing TCP listener: one goroutine
// accepting connections, one goroutine per accepted session.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"sync"

	"github.com/udisondev/la2go/internal/connset"
	"github.com/udisondev/la2go/internal/directory"
	"github.com/udisondev/la2go/internal/identity"
	"github.com/udisondev/la2go/internal/lobby"
	"github.com/udisondev/la2go/internal/metrics"
	"github.com/udisondev/la2go/internal/protocol"
	"github.com/udisondev/la2go/internal/session"
	"github.com/udisondev/la2go/internal/transport"
)

// Server accepts player connections and drives each with its own Session.
type Server struct {
	registry *identity.Registry
	lobbies  []*lobby.Lobby
	conns    *connset.Set
	metrics  *metrics.Counters
	dir      *directory.Directory

	mu       sync.Mutex
	listener net.Listener
}

// New creates a player-facing server over the given shared state.
func New(registry *identity.Registry, lobbies []*lobby.Lobby, conns *connset.Set, m *metrics.Counters, dir *directory.Directory) *Server {
	return &Server{registry: registry, lobbies: lobbies, conns: conns, metrics: m, dir: dir}
}

// Run listens on addr and serves until ctx is cancelled.
func (s *Server) Run(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", addr, err)
	}
	s.mu.Lock()
	s.listener = ln
	s.mu.Unlock()

	return s.Serve(ctx, ln)
}

// Addr returns the address the server is listening on, or nil before Run.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Serve accepts connections off ln until ctx is cancelled, then closes ln
// and every still-open connection. A shutdown notice is broadcast before
// the forced close so clients see why the socket dropped.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	go func() {
		<-ctx.Done()
		s.conns.Broadcast(protocol.FormatDown(""))
		ln.Close()
		s.conns.CloseAll()
	}()

	var wg sync.WaitGroup
	slog.Info("game server started", "address", ln.Addr())

	for {
		conn, err := ln.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				break
			}
			slog.Error("accept failed", "error", err)
			continue
		}

		if tcpConn, ok := conn.(*net.TCPConn); ok {
			_ = tcpConn.SetKeepAlive(true)
		}

		wg.Add(1)
		go func() {
			defer wg.Done()
			s.handleConnection(conn)
		}()
	}

	wg.Wait()
	return nil
}

func (s *Server) handleConnection(conn net.Conn) {
	remote := conn.RemoteAddr()
	slog.Debug("accepted connection", "remote", remote)

	sess := session.New(transport.New(conn), s.registry, s.lobbies, s.conns, s.metrics, s.dir)
	sess.Run()

	slog.Debug("session ended", "remote", remote)
}
