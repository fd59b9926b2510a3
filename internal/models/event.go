package models

// ChatEvent is one inbound channel message as seen by the core:
// protocol framing stripped, sender privileges already resolved.
// Events are ephemeral and never persisted.
type ChatEvent struct {
	// Channel the message arrived on
	Channel string

	// Nick of the sender
	Nick string

	// Voiced and Operator are the sender's privileges on Channel at
	// the moment the message was received
	Voiced   bool
	Operator bool

	// Identified reports whether the transport confirmed the
	// sender's identity (services account) for this message
	Identified bool

	// Text is the message body
	Text string
}
