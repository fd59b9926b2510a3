package models

import (
	"fmt"
	"strings"
	"time"
)

// Slot represents one of the two time positions tracked per room
type Slot string

const (
	// SlotNow is the session currently happening in a room
	SlotNow Slot = "now"

	// SlotNext is the session scheduled after the current one
	SlotNext Slot = "next"
)

// ParseSlot converts a raw adverb into a Slot, case-insensitively
func ParseSlot(s string) (Slot, bool) {
	switch strings.ToLower(s) {
	case string(SlotNow):
		return SlotNow, true
	case string(SlotNext):
		return SlotNext, true
	default:
		return "", false
	}
}

// SlotKey identifies one cell of the board
type SlotKey struct {
	// Room is the normalized (lowercased) room identifier
	Room string `json:"room"`

	// Slot is the time position within the room
	Slot Slot `json:"slot"`
}

// NewSlotKey builds a SlotKey with a normalized room name
func NewSlotKey(room string, slot Slot) SlotKey {
	return SlotKey{
		Room: strings.ToLower(room),
		Slot: slot,
	}
}

// String returns the canonical "room/slot" form of the key
func (k SlotKey) String() string {
	return fmt.Sprintf("%s/%s", k.Room, k.Slot)
}

// SessionRecord is one cell of the board: what is happening in a room
// at a slot, and who last said so
type SessionRecord struct {
	Key         SlotKey   `json:"key"`
	SessionName string    `json:"session_name"`
	UpdatedBy   string    `json:"updated_by"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// BoardState is a point-in-time copy of every known record, at most
// one per (room, slot). Absence of a key means the slot is unset.
type BoardState struct {
	Records map[SlotKey]*SessionRecord
}
