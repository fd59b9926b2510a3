package auth

import (
	"github.com/confbot/boardbot/internal/command"
)

// Denial reasons surfaced to the sender
const (
	ReasonNeedVoice = "Need voice to issue commands"
	ReasonNeedOp    = "Need op for admin commands"
)

// Decision is the outcome of a privilege check
type Decision struct {
	Allowed bool
	Reason  string
}

// Check decides whether a sender with the given channel privileges may
// execute a command of the given kind. It is a pure function of its
// arguments: SetSlot needs voice or op, Wipe needs op. Malformed and
// non-commands are not privilege-gated and are always allowed through
// so the interpreter can answer them.
func Check(kind command.Kind, voiced, operator bool) Decision {
	switch kind {
	case command.KindSetSlot:
		if voiced || operator {
			return Decision{Allowed: true}
		}
		return Decision{Reason: ReasonNeedVoice}
	case command.KindWipe:
		if operator {
			return Decision{Allowed: true}
		}
		return Decision{Reason: ReasonNeedOp}
	default:
		return Decision{Allowed: true}
	}
}
