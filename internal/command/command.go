package command

import (
	"fmt"
	"strings"

	"github.com/confbot/boardbot/internal/models"
)

// Kind discriminates the parsed command variants
type Kind string

const (
	// KindSetSlot updates one (room, slot) cell of the board
	KindSetSlot Kind = "set_slot"

	// KindWipe clears the entire board
	KindWipe Kind = "wipe"

	// KindMalformed is a command-shaped line the parser could not accept
	KindMalformed Kind = "malformed"

	// KindNone is plain chat, not addressed to the bot
	KindNone Kind = "none"
)

// Malformed reasons
const (
	ReasonArgCount         = "incorrect number of arguments"
	ReasonUnknownDirective = "unknown directive"
	ReasonUnknownCommand   = "unknown command"
)

// Command is the typed result of parsing one chat line
type Command struct {
	Kind Kind

	// SetSlot fields
	Key         models.SlotKey
	SessionName string

	// Malformed fields
	Reason string

	// Detail carries the offending token for unknown directive/command
	Detail string
}

// Parse turns a raw chat line into a Command. It is pure: no state,
// no side effects, and it never touches the store.
func Parse(text string) *Command {
	switch {
	case strings.HasPrefix(text, "#"):
		return parseSet(text)
	case strings.HasPrefix(text, "!"):
		return parseAdmin(text)
	default:
		return &Command{Kind: KindNone}
	}
}

// parseSet handles `#room now|next session words...`
func parseSet(text string) *Command {
	tokens := strings.Fields(text)
	if len(tokens) < 3 {
		return &Command{
			Kind:   KindMalformed,
			Reason: ReasonArgCount,
		}
	}

	room := strings.TrimPrefix(tokens[0], "#")
	if room == "" {
		return &Command{
			Kind:   KindMalformed,
			Reason: ReasonArgCount,
		}
	}

	slot, ok := models.ParseSlot(tokens[1])
	if !ok {
		return &Command{
			Kind:   KindMalformed,
			Reason: ReasonUnknownDirective,
			Detail: strings.ToLower(tokens[1]),
		}
	}

	return &Command{
		Kind:        KindSetSlot,
		Key:         models.NewSlotKey(room, slot),
		SessionName: strings.Join(tokens[2:], " "),
	}
}

// parseAdmin handles `!wipe`; any other admin word is rejected
func parseAdmin(text string) *Command {
	tokens := strings.Fields(text)
	name := strings.ToLower(strings.TrimPrefix(tokens[0], "!"))

	if name != "wipe" {
		return &Command{
			Kind:   KindMalformed,
			Reason: ReasonUnknownCommand,
			Detail: name,
		}
	}

	return &Command{Kind: KindWipe}
}

// MalformedReply renders the user-facing error line for a malformed
// command, without the trailing usage reminder
func (c *Command) MalformedReply() string {
	switch c.Reason {
	case ReasonUnknownDirective:
		return fmt.Sprintf("unknown directive '%s'", c.Detail)
	case ReasonUnknownCommand:
		return fmt.Sprintf("unknown command '%s'", c.Detail)
	default:
		return "Incorrect number of arguments"
	}
}
