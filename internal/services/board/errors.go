package board

// BoardError is a custom error type for board-related errors
type BoardError string

// Error implements the error interface
func (e BoardError) Error() string {
	return string(e)
}

// Define errors
const (
	ErrNilConfig    BoardError = "config cannot be nil"
	ErrNilRepo      BoardError = "board repository cannot be nil"
	ErrNilPublisher BoardError = "publisher cannot be nil"
	ErrNilInput     BoardError = "input cannot be nil"
)
