package session

import (
	"time"

	"github.com/udisondev/la2go/internal/identity"
	"github.com/udisondev/la2go/internal/lobby"
	"github.com/udisondev/la2go/internal/protocol"
)

// reconnectGrace lets a prior match task finish marking a transport
// detached before a reconnect attempt inspects lobby state. The race
// between a dying session and its successor's reconnect is real; this
// is the mitigation rather than a full fix.
const reconnectGrace = 50 * time.Millisecond

// runHandshake is S0: read lines until one is not a keep-alive.
func (s *Session) runHandshake() (string, bool) {
	deadline := time.Now().Add(HandshakeBudget)
	for {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			return "", false
		}
		secs := int(remaining.Seconds())
		if secs < 1 {
			secs = 1
		}
		line, eof, timedOut, err := s.conn.ReadLineTimeout(maxLineLen, secs)
		if eof || timedOut || err != nil {
			return "", false
		}
		if protocol.IsKeepAlive(line) {
			if protocol.IsPing(line) {
				_ = s.conn.WriteString(protocol.FormatPong())
			}
			continue
		}
		return line, true
	}
}

// runClassify is S1: a reconnect request goes to S2, a plain handshake
// name (after validation) goes to S3, anything else is rejected.
func (s *Session) runClassify(line string) {
	if protocol.MatchesToken(line, protocol.TokReconnect) {
		s.state = StateReconnect
		return
	}

	name, err := protocol.ParseHandshakeName(line)
	if err != nil {
		s.wrong("")
		s.state = StateClosed
		return
	}

	s.name = name
	s.state = StateFreshLogin
}

// runReconnect is S2.
func (s *Session) runReconnect(line string) {
	name, hintedLobby, err := protocol.ParseReconnect(line)
	if err != nil {
		s.wrong("")
		s.state = StateClosed
		return
	}
	s.name = name

	time.Sleep(reconnectGrace)

	// 1. Resume a running match: scan the hinted lobby, or all lobbies
	// when the hint is 0.
	if target := s.findDetachedSlot(name, hintedLobby); target != nil {
		if target.AttachTransport(name, s.conn, s.handle) {
			s.lobbyIdx = target.Index()
			s.registry.Add(name) // idempotent: no-op if already reserved
			s.token = s.registry.SetTransport(name, s.handle)
			s.registerDirectory()
			_ = s.conn.WriteString(protocol.FormatReconnectOK())
			s.state = StateInMatch
			return
		}
		// Someone beat us to it between the detached check and the
		// attach; fall through to the remaining classification cases.
	}

	// 2/3. Seated in a waiting (non-running) lobby, whether or not the
	// hint matched.
	if target := s.findWaitingSlot(name, hintedLobby); target != nil {
		target.Leave(name, identity.NoTransport)
		target.TryAddPlayer(name)
		target.AttachTransport(name, s.conn, s.handle)
		s.lobbyIdx = target.Index()
		s.registry.Add(name)
		s.token = s.registry.SetTransport(name, s.handle)
		s.registerDirectory()
		_ = s.conn.WriteString(protocol.FormatReconnectOK())
		target.StartIfReady()
		s.state = StateWaitForStart
		return
	}

	// 4. Already present somewhere (running or waiting, just not found by
	// the more specific checks above because the name's registry record
	// still holds a live transport) — the client must retry.
	if s.registry.Has(name) || s.nameSeatedAnywhere(name) {
		s.state = StateClosed
		return
	}

	// 5. Fresh login fallback.
	if !s.registry.Add(name) {
		s.state = StateClosed
		return
	}
	s.token = s.registry.SetTransport(name, s.handle)
	s.registerDirectory()
	_ = s.conn.WriteString(protocol.FormatOK())
	s.emitSnapshot()
	s.state = StateLobbySelection
}

// runFreshLogin is S3.
func (s *Session) runFreshLogin(_ string) {
	name := s.name
	if s.registry.Has(name) || s.nameSeatedAnywhere(name) {
		s.wrong("NAME_TAKEN")
		s.state = StateClosed
		return
	}
	if !s.registry.Add(name) {
		s.wrong("")
		s.state = StateClosed
		return
	}
	s.token = s.registry.SetTransport(name, s.handle)
	s.registerDirectory()
	_ = s.conn.WriteString(protocol.FormatOK())
	s.emitSnapshot()
	s.state = StateLobbySelection
}

// registerDirectory records this session's name→transport mapping so the
// admin console can find it for KICK, if a directory was supplied.
func (s *Session) registerDirectory() {
	if s.dir != nil {
		s.dir.Set(s.name, s.conn)
	}
}

// findDetachedSlot looks for a running lobby where name's slot has no
// transport attached — the "resume an in-progress match" case. hinted is
// 1-based; 0 means scan every lobby. A name that is seated but still has a
// live transport (mid-match, connected) is never a match here; that slot
// belongs to whoever already holds it.
func (s *Session) findDetachedSlot(name string, hinted int) *lobby.Lobby {
	if hinted >= 1 && hinted <= len(s.lobbies) {
		l := s.lobbies[hinted-1]
		if l.Running() && l.IsDetached(name) {
			return l
		}
		return nil
	}
	for _, l := range s.lobbies {
		if l.Running() && l.IsDetached(name) {
			return l
		}
	}
	return nil
}

// findWaitingSlot looks for a non-running lobby where name is already
// seated, waiting for the second player.
func (s *Session) findWaitingSlot(name string, hinted int) *lobby.Lobby {
	if hinted >= 1 && hinted <= len(s.lobbies) {
		l := s.lobbies[hinted-1]
		if !l.Running() && l.HasPlayer(name) {
			return l
		}
	}
	for _, l := range s.lobbies {
		if !l.Running() && l.HasPlayer(name) {
			return l
		}
	}
	return nil
}

func (s *Session) nameSeatedAnywhere(name string) bool {
	for _, l := range s.lobbies {
		if l.HasPlayer(name) {
			return true
		}
	}
	return false
}
