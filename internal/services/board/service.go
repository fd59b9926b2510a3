package board

import (
	"context"
	"fmt"
	"log"

	"github.com/confbot/boardbot/internal/auth"
	"github.com/confbot/boardbot/internal/command"
	"github.com/confbot/boardbot/internal/models"
	boardRepo "github.com/confbot/boardbot/internal/repositories/board"
	"github.com/confbot/boardbot/internal/services/publisher"
)

// usageReply is appended to every malformed-command reply
const usageReply = "Format is '@ROOM [now|next] SESSION'"

// storeFailureReply is the generic answer when persistence fails
const storeFailureReply = "error updating the board, try again later"

// service implements the Service interface
type service struct {
	repo      boardRepo.Repository
	publisher publisher.Service
}

// NewService creates a new board service
func NewService(cfg *Config) (*service, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}

	if cfg.Repo == nil {
		return nil, ErrNilRepo
	}

	if cfg.Publisher == nil {
		return nil, ErrNilPublisher
	}

	return &service{
		repo:      cfg.Repo,
		publisher: cfg.Publisher,
	}, nil
}

// HandleMessage runs one inbound chat line through the pipeline.
// Parse and authorization failures resolve into replies; a store
// failure aborts before publish; a publish enqueue failure is logged
// and never withholds the acknowledgment. The returned error is
// reserved for invalid inputs, so one bad event cannot take down the
// caller's event loop.
func (s *service) HandleMessage(ctx context.Context, input *HandleMessageInput) (*HandleMessageOutput, error) {
	if input == nil {
		return nil, ErrNilInput
	}

	// Never interpret unauthenticated text as a command
	if !input.Identified {
		return &HandleMessageOutput{}, nil
	}

	cmd := command.Parse(input.Text)

	switch cmd.Kind {
	case command.KindNone:
		return &HandleMessageOutput{}, nil

	case command.KindMalformed:
		// Error line first, usage reminder on its own line; the
		// transport sends each line as a separate message.
		return &HandleMessageOutput{
			Reply: fmt.Sprintf("%s: %s\n%s", input.Nick, cmd.MalformedReply(), usageReply),
		}, nil
	}

	decision := auth.Check(cmd.Kind, input.Voiced, input.Operator)
	if !decision.Allowed {
		return &HandleMessageOutput{
			Reply: fmt.Sprintf("%s: %s", input.Nick, decision.Reason),
		}, nil
	}

	switch cmd.Kind {
	case command.KindSetSlot:
		return s.applySetSlot(ctx, input, cmd)
	case command.KindWipe:
		return s.applyWipe(ctx, input)
	default:
		return &HandleMessageOutput{}, nil
	}
}

// applySetSlot persists one cell update and mirrors it to the view
func (s *service) applySetSlot(ctx context.Context, input *HandleMessageInput, cmd *command.Command) (*HandleMessageOutput, error) {
	err := s.repo.SetSlot(ctx, &boardRepo.SetSlotInput{
		Key:         cmd.Key,
		SessionName: cmd.SessionName,
		UpdatedBy:   input.Nick,
	})
	if err != nil {
		log.Printf("board: failed to set %s for %s: %v", cmd.Key, input.Nick, err)
		return &HandleMessageOutput{
			Reply: fmt.Sprintf("%s: %s", input.Nick, storeFailureReply),
		}, nil
	}

	// The chat-visible contract is "the board accepted your update";
	// the external view converges on its own schedule.
	err = s.publisher.PublishCell(ctx, &publisher.PublishCellInput{
		Room:        cmd.Key.Room,
		Slot:        cmd.Key.Slot,
		SessionName: cmd.SessionName,
	})
	if err != nil {
		log.Printf("board: failed to queue publish for %s: %v", cmd.Key, err)
	}

	return &HandleMessageOutput{
		Reply: fmt.Sprintf("%s: ack", input.Nick),
	}, nil
}

// applyWipe clears the whole board and signals a full clear of the view
func (s *service) applyWipe(ctx context.Context, input *HandleMessageInput) (*HandleMessageOutput, error) {
	if err := s.repo.Wipe(ctx); err != nil {
		log.Printf("board: failed to wipe for %s: %v", input.Nick, err)
		return &HandleMessageOutput{
			Reply: fmt.Sprintf("%s: %s", input.Nick, storeFailureReply),
		}, nil
	}

	if err := s.publisher.ClearAll(ctx); err != nil {
		log.Printf("board: failed to queue clear: %v", err)
	}

	return &HandleMessageOutput{
		Reply: fmt.Sprintf("%s: done", input.Nick),
	}, nil
}

// GetBoard returns a point-in-time copy of every record
func (s *service) GetBoard(ctx context.Context, input *GetBoardInput) (*GetBoardOutput, error) {
	snapshot, err := s.repo.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to snapshot board: %w", err)
	}

	state := &models.BoardState{
		Records: make(map[models.SlotKey]*models.SessionRecord, len(snapshot.Records)),
	}
	for _, record := range snapshot.Records {
		state.Records[record.Key] = record
	}

	return &GetBoardOutput{
		Board: state,
	}, nil
}
