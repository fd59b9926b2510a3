package board

import "context"

//go:generate mockgen -package=mocks -destination=mocks/mock_service.go github.com/confbot/boardbot/internal/services/board Service

// Service defines the interface for board operations
type Service interface {
	// HandleMessage runs one inbound chat line through the
	// parse → authorize → apply → publish pipeline
	HandleMessage(ctx context.Context, input *HandleMessageInput) (*HandleMessageOutput, error)

	// GetBoard returns a point-in-time copy of every record
	GetBoard(ctx context.Context, input *GetBoardInput) (*GetBoardOutput, error)
}
