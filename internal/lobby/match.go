package lobby

import (
	"time"

	"github.com/udisondev/la2go/internal/identity"
	"github.com/udisondev/la2go/internal/protocol"
)

// playTurn runs one active player's turn to completion: emits the turn
// notice to both seats, polices the non-active seat for stray input,
// keeps the active seat's liveness with ping/pong, and reads the active
// seat's decision. It returns once the turn is decided (advance to the
// other seat), the match must resolve (protocol violation, back-to-lobby,
// forced win) or a disconnect needs out-of-band handling.
func (l *Lobby) playTurn(active int) turnResult {
	other := 1 - active

	l.mu.Lock()
	activeName, otherName := l.slots[active].name, l.slots[other].name
	activeConn, otherConn := l.slots[active].conn, l.slots[other].conn
	activeHandle, otherHandle := l.slots[active].handle, l.slots[other].handle
	l.mu.Unlock()

	// The turn notice goes out in seat order, slot 0 first, like the deal
	// and the result.
	turnLine := protocol.FormatTurn(activeName, int(l.timing.TurnTimeout.Seconds()))
	first, second := activeConn, otherConn
	if active == 1 {
		first, second = otherConn, activeConn
	}
	if first != nil {
		_ = first.WriteString(turnLine)
	}
	if second != nil {
		_ = second.WriteString(turnLine)
	}

	deadline := time.Now().Add(l.timing.TurnTimeout)
	nextPing := time.Now().Add(l.timing.PingInterval)
	lastPong := time.Now()
	activeAlive := true

	for {
		now := time.Now()
		if now.After(deadline) {
			if activeAlive {
				if activeConn != nil {
					_ = activeConn.WriteString(protocol.FormatTimeout())
				}
				l.stand(active)
				return turnResult{forcedWinner: -1}
			}
			return l.handleDisconnect(active, other)
		}

		if activeConn != nil && now.After(nextPing) {
			_ = activeConn.WriteString(protocol.FormatPing())
			nextPing = now.Add(l.timing.PingInterval)
		}
		if now.Sub(lastPong) > l.timing.PongGrace {
			activeAlive = false
		}

		// Police the non-active seat without consuming the active turn.
		if otherConn != nil {
			readable, err := otherConn.Poll(l.timing.PollSlice / 2)
			if err != nil {
				return l.handleDisconnect(other, active)
			}
			if readable {
				line, eof, rerr := otherConn.ReadLine(maxLineLen)
				if eof || rerr != nil {
					return l.handleDisconnect(other, active)
				}
				switch {
				case protocol.IsPing(line):
					_ = otherConn.WriteString(protocol.FormatPong())
				case protocol.IsPong(line):
					// stale/expected; no action
				case protocol.IsBack(line):
					l.registry.MarkBack(otherName, otherHandle)
					l.detachSlot(other)
					return turnResult{resolve: true, forcedWinner: active}
				default:
					l.detachSlot(other)
					return turnResult{resolve: true, forcedWinner: active}
				}
			}
		} else {
			time.Sleep(l.timing.PollSlice / 2)
		}

		if activeConn == nil {
			return l.handleDisconnect(active, other)
		}

		readable, err := activeConn.Poll(l.timing.PollSlice / 2)
		if err != nil {
			return l.handleDisconnect(active, other)
		}
		if !readable {
			continue
		}

		line, eof, rerr := activeConn.ReadLine(maxLineLen)
		if eof || rerr != nil {
			return l.handleDisconnect(active, other)
		}

		switch {
		case protocol.IsPong(line):
			lastPong = time.Now()
			activeAlive = true
		case protocol.IsPing(line):
			_ = activeConn.WriteString(protocol.FormatPong())
		case protocol.IsBack(line):
			l.registry.MarkBack(activeName, activeHandle)
			l.detachSlot(active)
			return turnResult{resolve: true, forcedWinner: other}
		case protocol.IsHit(line):
			card, val := l.hit(active)
			_ = activeConn.WriteString(protocol.FormatCard(card.Wire()))
			if val > 21 {
				_ = activeConn.WriteString(protocol.FormatBust(activeName, val))
			}
			return turnResult{forcedWinner: -1}
		case protocol.IsStand(line):
			l.stand(active)
			return turnResult{forcedWinner: -1}
		default:
			l.detachSlot(active)
			return turnResult{resolve: true, forcedWinner: other}
		}
	}
}

// handleDisconnect reacts to an I/O failure on downIdx's transport: it
// detaches the dead connection, notifies the survivor, and waits up to the
// configured reconnect window for downIdx to reattach before forcing the
// survivor's win.
func (l *Lobby) handleDisconnect(downIdx, survivorIdx int) turnResult {
	l.mu.Lock()
	downName := l.slots[downIdx].name
	if l.slots[downIdx].conn != nil {
		_ = l.slots[downIdx].conn.Close()
	}
	l.slots[downIdx].conn = nil
	l.slots[downIdx].connected = false
	l.slots[downIdx].handle = identity.NoTransport
	survivorConn := l.slots[survivorIdx].conn
	survivorName := l.slots[survivorIdx].name
	l.mu.Unlock()

	if survivorConn != nil {
		_ = survivorConn.WriteString(protocol.FormatOppDown(downName, int(l.timing.ReconnectWindow.Seconds())))
	}

	deadline := time.Now().Add(l.timing.ReconnectWindow)
	nextPing := time.Now().Add(l.timing.PingInterval)
	lastPong := time.Now()
	survivorAlive := true

	for time.Now().Before(deadline) {
		l.mu.Lock()
		reattached := l.slots[downIdx].connected
		l.mu.Unlock()
		if reattached {
			return l.resumeAfterReconnect(downIdx, survivorIdx)
		}

		if survivorConn == nil {
			time.Sleep(l.timing.PollSlice)
			continue
		}

		now := time.Now()
		if now.After(nextPing) {
			_ = survivorConn.WriteString(protocol.FormatPing())
			nextPing = now.Add(l.timing.PingInterval)
		}
		if now.Sub(lastPong) > l.timing.PongGrace {
			survivorAlive = false
		}
		if !survivorAlive {
			return turnResult{resolve: true, forcedWinner: -1}
		}

		readable, err := survivorConn.Poll(l.timing.PollSlice)
		if err != nil {
			return turnResult{resolve: true, forcedWinner: -1}
		}
		if !readable {
			continue
		}

		line, eof, rerr := survivorConn.ReadLine(maxLineLen)
		if eof || rerr != nil {
			return turnResult{resolve: true, forcedWinner: -1}
		}

		switch {
		case protocol.IsPing(line):
			_ = survivorConn.WriteString(protocol.FormatPong())
		case protocol.IsPong(line):
			lastPong = time.Now()
			survivorAlive = true
		case protocol.IsBack(line):
			l.registry.MarkBack(survivorName, identity.NoTransport)
			l.detachSlot(survivorIdx)
			return turnResult{resolve: true, forcedWinner: downIdx}
		default:
			// ignore stray input while the survivor waits out the window
		}
	}

	return turnResult{resolve: true, forcedWinner: survivorIdx}
}

// resumeAfterReconnect replays downIdx's hand to its new transport, tells
// the survivor play is resuming, and hands control back to the turn loop
// at the same active seat.
func (l *Lobby) resumeAfterReconnect(downIdx, survivorIdx int) turnResult {
	l.mu.Lock()
	conn := l.slots[downIdx].conn
	cardWires := make([]string, 0, l.slots[downIdx].hand.Len())
	for _, c := range l.slots[downIdx].hand.Cards() {
		cardWires = append(cardWires, c.Wire())
	}
	survivorConn := l.slots[survivorIdx].conn
	downName := l.slots[downIdx].name
	l.mu.Unlock()

	if conn != nil && len(cardWires) >= 2 {
		_ = conn.WriteString(protocol.FormatDeal(cardWires[0], cardWires[1]))
		for _, w := range cardWires[2:] {
			_ = conn.WriteString(protocol.FormatCard(w))
		}
	}
	if survivorConn != nil {
		_ = survivorConn.WriteString(protocol.FormatOppBack(downName))
	}

	return turnResult{repeatActive: true}
}
