package eventbus

import (
	"context"
	"log/slog"
	"sync"

	"github.com/amirasaad/minibank/pkg/eventbus"
)

// MemoryEventBus dispatches events synchronously to in-process handlers.
type MemoryEventBus struct {
	handlers  map[string][]eventbus.HandlerFunc
	mu        sync.RWMutex
	logger    *slog.Logger
	published []eventbus.Event
}

// NewWithMemory creates a new in-memory event bus.
func NewWithMemory(logger *slog.Logger) *MemoryEventBus {
	if logger == nil {
		logger = slog.Default()
	}
	return &MemoryEventBus{
		handlers: make(map[string][]eventbus.HandlerFunc),
		logger:   logger.With("bus", "memory"),
	}
}

// Register registers a handler for a specific event type.
func (b *MemoryEventBus) Register(eventType string, handler eventbus.HandlerFunc) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[eventType] = append(b.handlers[eventType], handler)
}

// Emit records the event and runs every handler registered for its type.
// Handler errors and panics are logged and never returned.
func (b *MemoryEventBus) Emit(ctx context.Context, event eventbus.Event) error {
	b.mu.Lock()
	b.published = append(b.published, event)
	handlers := append([]eventbus.HandlerFunc(nil), b.handlers[event.Type()]...)
	b.mu.Unlock()

	for _, handler := range handlers {
		runHandler(ctx, b.logger, event, handler)
	}
	return nil
}

// Published returns the events emitted so far.
func (b *MemoryEventBus) Published() []eventbus.Event {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return append([]eventbus.Event(nil), b.published...)
}

// ClearPublished clears the list of published events.
func (b *MemoryEventBus) ClearPublished() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.published = nil
}

func runHandler(ctx context.Context, logger *slog.Logger, event eventbus.Event, handler eventbus.HandlerFunc) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("panic recovered in event handler", "type", event.Type(), "panic", r)
			ok = false
		}
	}()
	if err := handler(ctx, event); err != nil {
		logger.Error("failed to process event", "type", event.Type(), "error", err)
		return false
	}
	return true
}

var _ eventbus.Bus = (*MemoryEventBus)(nil)
