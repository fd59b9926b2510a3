package publisher

import (
	"context"
)

//go:generate mockgen -package=mocks -destination=mocks/mock_service.go github.com/confbot/boardbot/internal/services/publisher Service

// Service defines the interface for pushing board changes to the
// external published view. Both operations only enqueue work: the
// actual write happens on a background worker with its own retry
// policy, so a slow or unavailable view never blocks the caller.
type Service interface {
	// PublishCell queues an update of one board cell
	PublishCell(ctx context.Context, input *PublishCellInput) error

	// ClearAll queues a full clear of the published view
	ClearAll(ctx context.Context) error

	// Start launches the background worker
	Start()

	// Stop shuts the worker down, abandoning any pending retries
	Stop()
}

// Writer is the external surface the worker writes to
type Writer interface {
	// WriteCell sets one addressable cell to the given value
	WriteCell(ctx context.Context, cellRange, value string) error

	// ClearAll blanks every cell the board maps to
	ClearAll(ctx context.Context) error
}
