package board

import (
	"github.com/confbot/boardbot/internal/models"
)

// GetSlotInput contains parameters for retrieving one board cell
type GetSlotInput struct {
	Key models.SlotKey
}

// SetSlotInput contains parameters for overwriting one board cell
type SetSlotInput struct {
	Key models.SlotKey

	// SessionName is the new cell value; must be non-empty
	SessionName string

	// UpdatedBy is the chat identity of the sender whose command
	// caused the write
	UpdatedBy string
}

// SnapshotOutput contains a point-in-time copy of the board
type SnapshotOutput struct {
	Records []*models.SessionRecord
}
