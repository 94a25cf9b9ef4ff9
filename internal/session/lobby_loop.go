package session

import (
	"time"

	"github.com/udisondev/la2go/internal/protocol"
)

// pollInterval is the granularity used while waiting on lobby state
// rather than a transport read.
const pollInterval = 100 * time.Millisecond

// runLobbySelection is S4: read lines, handling join/back/keep-alive,
// until the player is admitted to a lobby or the session ends.
func (s *Session) runLobbySelection() {
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
		if protocol.IsBack(line) {
			s.emitSnapshot()
			continue
		}

		idx, joinErr := s.parseJoinLine(line)
		if joinErr != nil {
			s.wrong("")
			continue
		}
		if idx < 0 {
			// range error already reported inside parseJoinLine; the
			// session stays alive in lobby selection rather than closing.
			continue
		}

		target := s.lobbies[idx]
		if !target.TryAddPlayer(s.name) {
			s.wrong("LOBBY_FULL")
			continue
		}
		target.AttachTransport(s.name, s.conn, s.handle)
		s.lobbyIdx = idx
		_ = s.conn.WriteString(protocol.FormatOK())
		target.StartIfReady()
		s.state = StateWaitForStart
		return
	}
}

// parseJoinLine accepts both the current C45J <lobby> form and the legacy
// C45<name><lobby> form, returning a 0-based lobby index. idx=-1 with a
// nil error means "out of range, already reported, stay in S4"; a line
// that does not parse returns a non-nil error and is not reported here.
func (s *Session) parseJoinLine(line string) (idx int, err error) {
	var lobbyNum int
	if protocol.MatchesToken(line, protocol.TokJoin) {
		lobbyNum, err = protocol.ParseJoin(line)
	} else {
		lobbyNum, err = protocol.ParseLegacyJoin(line, s.name)
	}
	if err != nil {
		return -1, err
	}
	if lobbyNum < 1 || lobbyNum > len(s.lobbies) {
		s.wrong("")
		return -1, nil
	}
	return lobbyNum - 1, nil
}

// runWaitForStart is S5: wait for the lobby to start, or for the player
// to leave/back out/disconnect while waiting.
func (s *Session) runWaitForStart() {
	target := s.lobbies[s.lobbyIdx]

	for {
		if target.Running() {
			s.state = StateInMatch
			return
		}

		readable, err := s.conn.Poll(pollInterval)
		if err != nil {
			target.Leave(s.name, s.handle)
			s.state = StateClosed
			return
		}
		if !readable {
			continue
		}

		line, eof, rerr := s.conn.ReadLine(maxLineLen)
		if eof || rerr != nil {
			target.Leave(s.name, s.handle)
			s.state = StateClosed
			return
		}
		if protocol.IsKeepAlive(line) {
			if protocol.IsPing(line) {
				_ = s.conn.WriteString(protocol.FormatPong())
			}
			continue
		}
		if protocol.IsBack(line) {
			target.Leave(s.name, s.handle)
			s.lobbyIdx = -1
			s.emitSnapshot()
			s.state = StateLobbySelection
			return
		}

		s.wrong("")
		target.Leave(s.name, s.handle)
		s.state = StateClosed
		return
	}
}
