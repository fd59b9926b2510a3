package publisher

import (
	"time"

	"github.com/confbot/boardbot/internal/common/uuid"
	"github.com/confbot/boardbot/internal/models"
)

// CellMap resolves a (room, slot) pair to the A1 range of the cell
// that mirrors it on the published view. It is supplied, already
// validated, at startup.
type CellMap map[string]map[models.Slot]string

// Resolve returns the cell range for a (room, slot) pair
func (m CellMap) Resolve(room string, slot models.Slot) (string, bool) {
	slots, ok := m[room]
	if !ok {
		return "", false
	}
	cellRange, ok := slots[slot]
	return cellRange, ok
}

// Ranges returns every mapped cell range
func (m CellMap) Ranges() []string {
	var ranges []string
	for _, slots := range m {
		for _, cellRange := range slots {
			ranges = append(ranges, cellRange)
		}
	}
	return ranges
}

// Config holds configuration for the publisher service
type Config struct {
	// Writer is the external surface backend
	Writer Writer

	// CellMap resolves board keys to cell addresses
	CellMap CellMap

	// QueueSize bounds the number of pending publish jobs
	QueueSize int

	// MaxElapsedTime caps how long one job is retried before it is
	// declared permanently failed
	MaxElapsedTime time.Duration

	// WriteTimeout bounds a single write attempt
	WriteTimeout time.Duration

	// UUIDGenerator labels jobs for log correlation
	UUIDGenerator uuid.UUID
}

// PublishCellInput contains parameters for publishing one board cell
type PublishCellInput struct {
	Room        string
	Slot        models.Slot
	SessionName string
}
