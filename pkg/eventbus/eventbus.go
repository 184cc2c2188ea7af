package eventbus

import (
	"context"
)

// Event is anything published on a Bus. Type names the event kind and is
// used to route it to handlers.
type Event interface {
	Type() string
}

// HandlerFunc processes one event.
type HandlerFunc func(ctx context.Context, e Event) error

// Bus defines the contract for publishing and subscribing to events.
type Bus interface {
	Register(eventType string, handler HandlerFunc)
	Emit(ctx context.Context, event Event) error
}
