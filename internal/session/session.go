// Package session drives one accepted connection through the protocol
// state machine: handshake, identity reservation, lobby selection, match
// participation (handed off to internal/lobby), and post-match return to
// lobby selection. Modeled on the login package's per-connection ConnectionState
// dispatch, generalized from a single-packet handler into a blocking,
// one-goroutine-per-session driver since this protocol is line-oriented
// rather than framed-binary.
package session

import (
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/udisondev/la2go/internal/connset"
	"github.com/udisondev/la2go/internal/directory"
	"github.com/udisondev/la2go/internal/identity"
	"github.com/udisondev/la2go/internal/lobby"
	"github.com/udisondev/la2go/internal/metrics"
	"github.com/udisondev/la2go/internal/protocol"
	"github.com/udisondev/la2go/internal/transport"
)

// HandshakeBudget bounds S0's total tolerance for keep-alive noise before
// the first real line arrives.
const HandshakeBudget = 120 * time.Second

const maxLineLen = 256

var nextHandle atomic.Int64

// Session is the per-connection driver.
type Session struct {
	conn     *transport.Conn
	registry *identity.Registry
	lobbies  []*lobby.Lobby
	conns    *connset.Set
	metrics  *metrics.Counters
	dir      *directory.Directory

	state  State
	name   string
	token  uint64
	handle identity.Handle

	lobbyIdx int // 0-based index of the currently seated lobby, -1 if none
}

// New creates a driver for an accepted connection. lobbies is the
// server-wide, fixed-size slice of lobby instances (1:1 with LOBBY_COUNT).
// dir may be nil if the admin console's KICK command is not needed.
func New(conn *transport.Conn, registry *identity.Registry, lobbies []*lobby.Lobby, conns *connset.Set, m *metrics.Counters, dir *directory.Directory) *Session {
	return &Session{
		conn:     conn,
		registry: registry,
		lobbies:  lobbies,
		conns:    conns,
		metrics:  m,
		dir:      dir,
		state:    StateHandshake,
		handle:   identity.Handle(nextHandle.Add(1)),
		lobbyIdx: -1,
	}
}

// Run drives the session to completion, returning once the connection is
// closed. Safe to call exactly once.
func (s *Session) Run() {
	s.conns.Add(s.conn)
	if s.metrics != nil {
		s.metrics.SessionStarted()
	}
	defer s.close()

	var line string
	var ok bool

	for s.state != StateClosed {
		switch s.state {
		case StateHandshake:
			line, ok = s.runHandshake()
			if !ok {
				s.state = StateClosed
				continue
			}
			s.state = StateClassify

		case StateClassify:
			s.runClassify(line)

		case StateReconnect:
			s.runReconnect(line)

		case StateFreshLogin:
			s.runFreshLogin(line)

		case StateLobbySelection:
			s.runLobbySelection()

		case StateWaitForStart:
			s.runWaitForStart()

		case StateInMatch:
			s.runInMatch()

		case StatePostMatch:
			s.runPostMatch()

		default:
			s.state = StateClosed
		}
	}
}

func (s *Session) close() {
	if s.name != "" {
		s.registry.RemoveIfToken(s.name, s.token)
		if s.dir != nil {
			s.dir.Remove(s.name, s.conn)
		}
	}
	s.conns.Remove(s.conn)
	_ = s.conn.Close()
	if s.metrics != nil {
		s.metrics.SessionEnded()
	}
}

func (s *Session) wrong(reason string) {
	_ = s.conn.WriteString(protocol.FormatWrong(reason))
}

// emitSnapshot writes the current occupancy/running status of every
// lobby as a single C45L line.
func (s *Session) emitSnapshot() {
	statuses := make([]protocol.LobbyStatus, len(s.lobbies))
	for i, l := range s.lobbies {
		statuses[i] = l.Status()
	}
	_ = s.conn.WriteString(protocol.FormatSnapshot(statuses))
}

func (s *Session) logf(msg string, args ...any) {
	slog.Debug(msg, append([]any{"name", s.name, "state", s.state.String()}, args...)...)
}
