package interfaces

import "context"

// -----------------------------------------------------------------------------
// IEventSink consumes the event stream produced by the engine. Delivery is
// at-least-once: sinks must tolerate duplicate events idempotently.
// -----------------------------------------------------------------------------

type IEventSink interface {

	// Emit stores or forwards one event. The event is one of the typed wire
	// structs from the models package (MPriceUpdate, MPositionUpdate,
	// MTransactionUpdate).
	Emit(ctx context.Context, event interface{}) error

	// -----------------------------------------------------------------------------

	// Close flushes and releases the sink.
	Close() error
}
