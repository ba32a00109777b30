package interfaces

// -----------------------------------------------------------------------------
// ISubscriber is an outbound message channel to one connected client. The
// registry references subscribers, it never owns them: the connection
// lifecycle component creates and tears them down.
// -----------------------------------------------------------------------------

type ISubscriber interface {

	// ID returns a stable identifier for log correlation.
	ID() string

	// -----------------------------------------------------------------------------

	// Send queues one message for delivery. It must not block: a full or
	// closed outbound buffer is reported as an error and the caller moves on.
	Send(message interface{}) error
}
