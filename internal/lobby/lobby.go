// Package lobby implements the two-seat match engine: admission, deck and
// turn sequencing, disconnect/reconnect handling and resolution. Exactly
// one match task runs per lobby at a time, a goroutine polling against
// turn and reconnect deadlines through deal, turn, disconnect-wait and
// resolve phases.
package lobby

import (
	"sync"
	"time"

	"github.com/udisondev/la2go/internal/deck"
	"github.com/udisondev/la2go/internal/identity"
	"github.com/udisondev/la2go/internal/protocol"
	"github.com/udisondev/la2go/internal/transport"
)

// maxLineLen bounds any single line read during a match.
const maxLineLen = 256

// Timing bundles the engine's tunable deadlines, so tests can trade
// realism for speed instead of sleeping through 30s windows.
type Timing struct {
	TurnTimeout     time.Duration
	ReconnectWindow time.Duration
	PingInterval    time.Duration
	PongGrace       time.Duration
	PollSlice       time.Duration
}

// DefaultTiming returns the production timing values.
func DefaultTiming() Timing {
	return Timing{
		TurnTimeout:     30 * time.Second,
		ReconnectWindow: 30 * time.Second,
		PingInterval:    5 * time.Second,
		PongGrace:       10 * time.Second,
		PollSlice:       100 * time.Millisecond,
	}
}

// Slot is one seat in a lobby.
type Slot struct {
	name      string
	conn      *transport.Conn
	handle    identity.Handle
	hand      deck.Hand
	connected bool
	stood     bool
	busted    bool
}

func emptySlot() Slot {
	return Slot{handle: identity.NoTransport}
}

// Lobby is a two-seat container owning a deck and a match lifecycle.
type Lobby struct {
	mu    sync.Mutex
	index int

	slots     [2]Slot
	occupancy int
	running   bool
	deck      *deck.Deck
	timing    Timing

	registry *identity.Registry

	onMatchStart func()
	onMatchEnd   func()
	onResult     func(name1 string, value1 int, name2 string, value2 int, winner string)
}

// New creates an empty lobby. onMatchStart/onMatchEnd are optional hooks
// (metrics) fired around each match; onResult is an optional hook (match
// history) fired once resolution has computed a winner. Any may be nil.
func New(index int, registry *identity.Registry, onMatchStart, onMatchEnd func(), onResult func(name1 string, value1 int, name2 string, value2 int, winner string), timing Timing) *Lobby {
	return &Lobby{
		index:        index,
		slots:        [2]Slot{emptySlot(), emptySlot()},
		deck:         deck.New(),
		timing:       timing,
		registry:     registry,
		onMatchStart: onMatchStart,
		onMatchEnd:   onMatchEnd,
		onResult:     onResult,
	}
}

// Index returns the lobby's 0-based position.
func (l *Lobby) Index() int { return l.index }

// Status reports the lobby's current occupancy/running state.
func (l *Lobby) Status() protocol.LobbyStatus {
	l.mu.Lock()
	defer l.mu.Unlock()
	return protocol.LobbyStatus{Occupancy: l.occupancy, Running: l.running}
}

// Running reports whether a match is currently in progress.
func (l *Lobby) Running() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.running
}

// HasPlayer reports whether name currently occupies a slot.
func (l *Lobby) HasPlayer(name string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i := range l.slots {
		if l.slots[i].name == name {
			return true
		}
	}
	return false
}

// IsDetached reports whether name occupies a slot with no transport
// currently attached to it. False if name isn't seated here at all.
func (l *Lobby) IsDetached(name string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i := range l.slots {
		if l.slots[i].name == name {
			return !l.slots[i].connected
		}
	}
	return false
}

// TryAddPlayer seats name in the first empty slot. Fails if the lobby is
// full, a match is running, or name is already seated here.
func (l *Lobby) TryAddPlayer(name string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.running {
		return false
	}
	for i := range l.slots {
		if l.slots[i].name == name {
			return false
		}
	}
	for i := range l.slots {
		if l.slots[i].name == "" {
			l.slots[i] = Slot{name: name, handle: identity.NoTransport}
			l.occupancy++
			return true
		}
	}
	return false
}

// AttachTransport installs conn/handle on name's slot, wherever it sits.
// Used both for the initial join and for reconnect resumption. Refuses to
// attach over a slot that already has a live transport, so a caller must
// confirm IsDetached before relying on this to resume a match.
func (l *Lobby) AttachTransport(name string, conn *transport.Conn, handle identity.Handle) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i := range l.slots {
		if l.slots[i].name == name {
			if l.slots[i].connected {
				return false
			}
			l.slots[i].conn = conn
			l.slots[i].handle = handle
			l.slots[i].connected = true
			return true
		}
	}
	return false
}

// Leave removes name from a non-running lobby, guarded by handle equality
// unless handle is identity.NoTransport. Used when a waiting player backs
// out or their session closes. Passing identity.NoTransport additionally
// signals a takeover: any previous transport occupying the slot is closed
// rather than left dangling, mirroring how the match's disconnect handler
// retires a dead connection.
func (l *Lobby) Leave(name string, handle identity.Handle) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.running {
		return false
	}
	for i := range l.slots {
		if l.slots[i].name != name {
			continue
		}
		if handle != identity.NoTransport && l.slots[i].handle != handle {
			return false
		}
		if handle == identity.NoTransport && l.slots[i].conn != nil {
			_ = l.slots[i].conn.Close()
		}
		l.slots[i] = emptySlot()
		l.occupancy--
		return true
	}
	return false
}

// StartIfReady spawns the match task if the lobby is full and not already
// running. Idempotent: safe to call repeatedly from concurrent sessions.
func (l *Lobby) StartIfReady() bool {
	l.mu.Lock()
	if l.running || l.occupancy != 2 {
		l.mu.Unlock()
		return false
	}
	l.running = true
	l.mu.Unlock()

	go l.runMatch()
	return true
}

// turnResult is what one call to playTurn (or the disconnect handler it
// may delegate to) decides should happen next.
type turnResult struct {
	resolve      bool // true: match is over, go straight to Resolution
	repeatActive bool // true: re-run the same active player's turn
	forcedWinner int  // slot index, or -1 for "no override"
}

func (l *Lobby) runMatch() {
	if l.onMatchStart != nil {
		l.onMatchStart()
	}
	defer func() {
		l.mu.Lock()
		l.running = false
		l.mu.Unlock()
		if l.onMatchEnd != nil {
			l.onMatchEnd()
		}
	}()

	l.deal()

	active := 0
	forcedWinner := -1
	for {
		l.mu.Lock()
		done0 := l.slots[0].stood || l.slots[0].busted
		done1 := l.slots[1].stood || l.slots[1].busted
		activeDone := l.slots[active].stood || l.slots[active].busted
		l.mu.Unlock()

		if done0 && done1 {
			break
		}
		if activeDone {
			active = 1 - active
			continue
		}

		res := l.playTurn(active)
		if res.resolve {
			forcedWinner = res.forcedWinner
			break
		}
		if !res.repeatActive {
			active = 1 - active
		}
	}

	l.resolve(forcedWinner)
}

func (l *Lobby) deal() {
	l.mu.Lock()
	l.deck.Reshuffle()
	for i := range l.slots {
		l.slots[i].hand.Reset()
		l.slots[i].stood = false
		l.slots[i].busted = false
		l.slots[i].hand.Add(l.deck.Draw())
		l.slots[i].hand.Add(l.deck.Draw())
	}
	conn0, conn1 := l.slots[0].conn, l.slots[1].conn
	c0, c1 := l.slots[0].hand.Cards(), l.slots[1].hand.Cards()
	deal0 := protocol.FormatDeal(c0[0].Wire(), c0[1].Wire())
	deal1 := protocol.FormatDeal(c1[0].Wire(), c1[1].Wire())
	l.mu.Unlock()

	if conn0 != nil {
		_ = conn0.WriteString(deal0)
	}
	if conn1 != nil {
		_ = conn1.WriteString(deal1)
	}
}

// detachSlot clears a slot's transport without touching its registry
// record or closing the socket — ownership of the live connection passes
// back to the session driver, which keeps its own reference.
func (l *Lobby) detachSlot(idx int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.slots[idx].conn = nil
	l.slots[idx].connected = false
	l.slots[idx].handle = identity.NoTransport
}

func (l *Lobby) hit(idx int) (deck.Card, int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	c := l.deck.Draw()
	l.slots[idx].hand.Add(c)
	val := l.slots[idx].hand.Value()
	if val > 21 {
		l.slots[idx].busted = true
	}
	return c, val
}

func (l *Lobby) stand(idx int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.slots[idx].stood = true
}

func (l *Lobby) resolve(forcedWinner int) {
	l.mu.Lock()
	name0, name1 := l.slots[0].name, l.slots[1].name
	val0, val1 := l.slots[0].hand.Value(), l.slots[1].hand.Value()
	if l.slots[0].busted {
		val0 = -1
	}
	if l.slots[1].busted {
		val1 = -1
	}
	conn0, conn1 := l.slots[0].conn, l.slots[1].conn
	l.mu.Unlock()

	winner := protocol.PushWinner
	switch {
	case forcedWinner == 0:
		winner = name0
	case forcedWinner == 1:
		winner = name1
	case val0 > val1:
		winner = name0
	case val1 > val0:
		winner = name1
	}

	line := protocol.FormatResult(name0, val0, name1, val1, winner)
	if conn0 != nil {
		_ = conn0.WriteString(line)
	}
	if conn1 != nil {
		_ = conn1.WriteString(line)
	}
	if l.onResult != nil {
		l.onResult(name0, val0, name1, val1, winner)
	}

	l.mu.Lock()
	l.slots[0] = emptySlot()
	l.slots[1] = emptySlot()
	l.occupancy = 0
	l.mu.Unlock()
}
