package board

import (
	"github.com/confbot/boardbot/internal/models"
	boardRepo "github.com/confbot/boardbot/internal/repositories/board"
	"github.com/confbot/boardbot/internal/services/publisher"
)

// Config holds configuration for the board service
type Config struct {
	// Repo is the durable board state
	Repo boardRepo.Repository

	// Publisher mirrors accepted updates to the published view
	Publisher publisher.Service
}

// HandleMessageInput is one inbound chat event
type HandleMessageInput struct {
	// Channel the message arrived on
	Channel string

	// Nick of the sender
	Nick string

	// Voiced and Operator are the sender's channel privileges at the
	// time the message was received
	Voiced   bool
	Operator bool

	// Identified reports whether the transport has confirmed
	// message-authenticity capability for this event. Unidentified
	// text is never interpreted as a command.
	Identified bool

	// Text is the raw message, stripped of protocol framing
	Text string
}

// HandleMessageOutput carries the reply, if any
type HandleMessageOutput struct {
	// Reply is the line to send back to the originating channel;
	// empty means stay silent
	Reply string
}

// GetBoardInput contains parameters for reading the board
type GetBoardInput struct{}

// GetBoardOutput contains a point-in-time copy of the board
type GetBoardOutput struct {
	Board *models.BoardState
}
