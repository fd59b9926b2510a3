package board

import (
	"context"

	"github.com/confbot/boardbot/internal/models"
)

//go:generate mockgen -package=mocks -destination=mocks/mock_repository.go github.com/confbot/boardbot/internal/repositories/board Repository

// Repository defines the interface for durable board state
type Repository interface {
	// GetSlot retrieves the record for one (room, slot) key
	GetSlot(ctx context.Context, input *GetSlotInput) (*models.SessionRecord, error)

	// SetSlot overwrites the record for one (room, slot) key
	SetSlot(ctx context.Context, input *SetSlotInput) error

	// Wipe removes every record on the board
	Wipe(ctx context.Context) error

	// Snapshot returns a consistent copy of the full board
	Snapshot(ctx context.Context) (*SnapshotOutput, error)
}
