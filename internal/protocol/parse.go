package protocol

import (
	"strconv"
	"strings"
)

// MaxNameLen is the longest a player name may be.
const MaxNameLen = 63

// Error is a protocol-layer failure. Reason, if non-empty, is emitted
// verbatim in a "C45WRONG <reason>" line.
type Error struct {
	Reason string
}

func (e *Error) Error() string {
	if e.Reason == "" {
		return "protocol error"
	}
	return "protocol error: " + e.Reason
}

func errReason(reason string) error { return &Error{Reason: reason} }

// ValidName reports whether name is non-empty, has no internal
// whitespace, and is within MaxNameLen.
func ValidName(name string) bool {
	if name == "" || len(name) > MaxNameLen {
		return false
	}
	for _, r := range name {
		if r == ' ' || r == '\t' || r == '\n' || r == '\r' {
			return false
		}
	}
	return true
}

func trimLine(line string) string {
	return strings.TrimRight(line, "\r\n")
}

// ParseHandshakeName extracts the name from a fresh handshake line of the
// form "C45<name>". Returns an error if the embedded name fails ValidName.
func ParseHandshakeName(line string) (string, error) {
	line = trimLine(line)
	if !strings.HasPrefix(line, Prefix) {
		return "", errReason("")
	}
	name := line[len(Prefix):]
	if !ValidName(name) {
		return "", errReason("")
	}
	return name, nil
}

// ParseReconnect parses "C45REC <name> <lobby>". lobby is 1-based, or 0
// to mean "scan all lobbies".
func ParseReconnect(line string) (name string, lobby int, err error) {
	line = trimLine(line)
	fields := strings.Fields(line)
	if len(fields) != 3 || fields[0] != TokReconnect {
		return "", 0, errReason("")
	}
	name = fields[1]
	if !ValidName(name) {
		return "", 0, errReason("")
	}
	lobby, convErr := strconv.Atoi(fields[2])
	if convErr != nil || lobby < 0 {
		return "", 0, errReason("")
	}
	return name, lobby, nil
}

// ParseJoin parses "C45J <lobby>" (1-based).
func ParseJoin(line string) (lobby int, err error) {
	line = trimLine(line)
	fields := strings.Fields(line)
	if len(fields) != 2 || fields[0] != TokJoin {
		return 0, errReason("")
	}
	lobby, convErr := strconv.Atoi(fields[1])
	if convErr != nil {
		return 0, errReason("")
	}
	return lobby, nil
}

// ParseLegacyJoin parses the backward-compatible "C45<name><lobby>" form,
// where the trailing character is a single ASCII digit naming the lobby
// and the rest, after the C45 prefix, must equal expectedName — the
// caller's own name, reserved at handshake. Legacy clients resend their
// own name alongside the lobby choice instead of using "C45J <lobby>".
func ParseLegacyJoin(line, expectedName string) (lobby int, err error) {
	line = trimLine(line)
	if !strings.HasPrefix(line, Prefix) {
		return 0, errReason("")
	}
	rest := line[len(Prefix):]
	if len(rest) < 2 {
		return 0, errReason("")
	}
	last := rest[len(rest)-1]
	if last < '0' || last > '9' {
		return 0, errReason("")
	}
	name := rest[:len(rest)-1]
	if name != expectedName || strings.ContainsAny(name, " \t\r\n") {
		return 0, errReason("")
	}
	return int(last - '0'), nil
}
