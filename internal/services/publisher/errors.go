package publisher

// PublisherError is a custom error type for publisher-related errors
type PublisherError string

// Error implements the error interface
func (e PublisherError) Error() string {
	return string(e)
}

// Define errors
const (
	ErrNilConfig  PublisherError = "config cannot be nil"
	ErrNilWriter  PublisherError = "writer cannot be nil"
	ErrNilCellMap PublisherError = "cell map cannot be nil"
	ErrNilUUID    PublisherError = "UUID generator cannot be nil"
	ErrQueueFull  PublisherError = "publish queue is full"
	ErrStopped    PublisherError = "publisher is stopped"
)
