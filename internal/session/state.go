package session

// State is the per-connection driver's current position in the protocol
// state machine.
type State int

const (
	StateHandshake       State = iota // S0: reading the first non-keepalive line
	StateClassify                     // S1: deciding reconnect vs. fresh login
	StateReconnect                    // S2: attempting to resume a name's prior binding
	StateFreshLogin                   // S3: reserving a brand-new name
	StateLobbySelection               // S4: choosing a lobby, waiting to be admitted
	StateWaitForStart                 // S5: seated, waiting for the second player
	StateInMatch                      // S6: match task owns the wire
	StatePostMatch                    // S7: back from a finished match
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateHandshake:
		return "HANDSHAKE"
	case StateClassify:
		return "CLASSIFY"
	case StateReconnect:
		return "RECONNECT"
	case StateFreshLogin:
		return "FRESH_LOGIN"
	case StateLobbySelection:
		return "LOBBY_SELECTION"
	case StateWaitForStart:
		return "WAIT_FOR_START"
	case StateInMatch:
		return "IN_MATCH"
	case StatePostMatch:
		return "POST_MATCH"
	case StateClosed:
		return "CLOSED"
	default:
		return "UNKNOWN"
	}
}
