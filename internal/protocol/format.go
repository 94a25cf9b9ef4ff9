package protocol

import "fmt"

// PushWinner is the winner token emitted on a draw.
const PushWinner = "PUSH"

// FormatOK renders "C45OK\n".
func FormatOK() string { return TokOK + "\n" }

// FormatWrong renders "C45WRONG [<reason>]\n".
func FormatWrong(reason string) string {
	if reason == "" {
		return TokWrong + "\n"
	}
	return fmt.Sprintf("%s %s\n", TokWrong, reason)
}

// FormatReconnectOK renders "C45REC_OK\n".
func FormatReconnectOK() string { return TokRecOK + "\n" }

// FormatDeal renders "C45D <c1> <c2>\n".
func FormatDeal(c1, c2 string) string {
	return fmt.Sprintf("%s %s %s\n", TokDeal, c1, c2)
}

// FormatTurn renders "C45T <name> <sec>\n".
func FormatTurn(name string, seconds int) string {
	return fmt.Sprintf("%s %s %d\n", TokTurn, name, seconds)
}

// FormatCard renders "C45C <card>\n".
func FormatCard(card string) string {
	return fmt.Sprintf("%s %s\n", TokCard, card)
}

// FormatBust renders "C45B <name> <value>\n".
func FormatBust(name string, value int) string {
	return fmt.Sprintf("%s %s %d\n", TokBust, name, value)
}

// FormatTimeout renders "C45TO\n".
func FormatTimeout() string { return TokTimeout + "\n" }

// FormatResult renders "C45R <n1> <v1> <n2> <v2> WINNER <name|PUSH>\n".
func FormatResult(name1 string, value1 int, name2 string, value2 int, winner string) string {
	return fmt.Sprintf("%s %s %d %s %d WINNER %s\n", TokResult, name1, value1, name2, value2, winner)
}

// FormatOppDown renders "C45OD <name> <sec>\n".
func FormatOppDown(name string, seconds int) string {
	return fmt.Sprintf("%s %s %d\n", TokOppDown, name, seconds)
}

// FormatOppBack renders "C45OB <name>\n".
func FormatOppBack(name string) string {
	return fmt.Sprintf("%s %s\n", TokOppBack, name)
}

// FormatDown renders "C45DOWN [<reason>]\n".
func FormatDown(reason string) string {
	if reason == "" {
		return TokShutdown + "\n"
	}
	return fmt.Sprintf("%s %s\n", TokShutdown, reason)
}

// FormatPing renders "C45PI\n".
func FormatPing() string { return TokPing + "\n" }

// FormatPong renders "C45PO\n".
func FormatPong() string { return TokPong + "\n" }
