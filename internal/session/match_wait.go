package session

import (
	"time"

	"github.com/udisondev/la2go/internal/protocol"
)

// runInMatch is S6: the match task in internal/lobby owns the wire. The
// session only watches the lobby's running flag and its own continued
// membership.
func (s *Session) runInMatch() {
	target := s.lobbies[s.lobbyIdx]

	for target.Running() {
		time.Sleep(pollInterval)
	}
	for target.HasPlayer(s.name) {
		time.Sleep(pollInterval)
	}

	s.state = StatePostMatch
}

// runPostMatch is S7.
func (s *Session) runPostMatch() {
	if s.registry.TakeBack(s.name, s.handle) {
		s.lobbyIdx = -1
		s.emitSnapshot()
		s.state = StateLobbySelection
		return
	}

	for {
		line, eof, err := s.conn.ReadLine(maxLineLen)
		if eof || err != nil {
			s.state = StateClosed
			return
		}
		if protocol.IsKeepAlive(line) {
			if protocol.IsPing(line) {
				_ = s.conn.WriteString(protocol.FormatPong())
			}
			continue
		}
		if protocol.IsHit(line) || protocol.IsStand(line) {
			// Stale game command racing the match's own end; ignore.
			continue
		}
		if protocol.IsBack(line) {
			s.lobbyIdx = -1
			s.emitSnapshot()
			s.state = StateLobbySelection
			return
		}

		s.wrong("")
		s.state = StateClosed
		return
	}
}
